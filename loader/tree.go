// Copyright 2026 The CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"

	"cuelabs.dev/go/lazyns/inflect"
	"cuelabs.dev/go/lazyns/namespace"
)

// Kind is the kind of a Node.
type Kind int

const (
	// Leaf is a unit file expected to declare one name.
	Leaf Kind = iota

	// Namespace is a directory expected to declare a namespace.
	Namespace
)

func (k Kind) String() string {
	if k == Namespace {
		return "namespace"
	}
	return "leaf"
}

// State is the load state of a Node.
type State int32

const (
	Unloaded State = iota
	Loading
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// A Node is a file or directory of the tree and the name it is expected to
// declare in the namespace of its parent.
type Node struct {
	// Path is the absolute path of the file or directory.
	Path string

	// Rel is the slash-separated path relative to the root directory.
	// It is "." for the root.
	Rel string

	Kind Kind

	// Name is the expected identifier. It is empty for the root.
	Name string

	// Backing is the absolute path of the unit that declares the namespace
	// of a directory, if the directory has one. For a directory m, this is
	// the file m.cue next to it.
	Backing string

	Parent   *Node
	Children []*Node

	state   atomic.Int32
	err     error // guarded by Loader.loading
	binding atomic.Pointer[namespace.Namespace]
}

// State returns the load state of n.
func (n *Node) State() State { return State(n.state.Load()) }

// Namespace returns the namespace declared by a loaded namespace node, or
// the root namespace for the root node. It returns nil otherwise.
func (n *Node) Namespace() *namespace.Namespace { return n.binding.Load() }

// QualifiedName returns the path-derived qualified name of n, such as
// "A::B". It is empty for the root.
func (n *Node) QualifiedName() string {
	if n.Parent == nil {
		return ""
	}
	if p := n.Parent.QualifiedName(); p != "" {
		return p + namespace.Separator + n.Name
	}
	return n.Name
}

// unitPath returns the path of the file whose execution declares n, or the
// directory path for namespaces without a unit of their own.
func (n *Node) unitPath() string {
	if n.Backing != "" {
		return n.Backing
	}
	return n.Path
}

// Walk calls f for n and all nodes below it, parents before children.
func (n *Node) Walk(f func(*Node) bool) {
	if !f(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(f)
	}
}

// WriteTree writes the nodes below root to w, one per line and indented
// by depth: the expected name and the path relative to the root directory.
// Directory paths end in a slash and are followed by the unit that backs
// the namespace, if any.
func WriteTree(w io.Writer, root *Node) error {
	var err error
	var write func(n *Node, indent string)
	write = func(n *Node, indent string) {
		for _, c := range n.Children {
			if err != nil {
				return
			}
			switch {
			case c.Kind == Leaf:
				_, err = fmt.Fprintf(w, "%s%s %s\n", indent, c.Name, c.Rel)
			case c.Backing != "":
				backing := path.Join(path.Dir(c.Rel), filepath.Base(c.Backing))
				_, err = fmt.Fprintf(w, "%s%s %s/ %s\n", indent, c.Name, c.Rel, backing)
			default:
				_, err = fmt.Fprintf(w, "%s%s %s/\n", indent, c.Name, c.Rel)
			}
			if c.Kind == Namespace {
				write(c, indent+"  ")
			}
		}
	}
	write(root, "")
	return err
}

// build creates the tree rooted at the configured directory.
func (l *Loader) build() (*Node, error) {
	root := &Node{
		Path: l.cfg.Dir,
		Rel:  ".",
		Kind: Namespace,
	}
	root.state.Store(int32(Loaded))
	root.binding.Store(l.cfg.Root)
	if err := l.buildDir(root); err != nil {
		return nil, err
	}
	return root, nil
}

func (l *Loader) buildDir(dir *Node) error {
	entries, err := fs.ReadDir(l.cfg.FS, dir.Rel)
	if err != nil {
		return fmt.Errorf("cannot read directory %s: %w", dir.Path, err)
	}

	// Subdirectories are built first so that a unit m.cue can become the
	// backing of the namespace of the directory m.
	subdirs := map[string]*Node{}
	for _, e := range entries {
		rel, ok := l.include(dir, e)
		if !ok || !e.IsDir() {
			continue
		}
		n, err := l.newNode(dir, e.Name(), rel, Namespace)
		if err != nil {
			// Directories without units are left out whatever their name.
			has, herr := l.hasUnits(rel)
			switch {
			case herr != nil:
				return herr
			case has:
				return err
			}
			continue
		}
		if err := l.buildDir(n); err != nil {
			return err
		}
		if len(n.Children) == 0 {
			continue
		}
		subdirs[e.Name()] = n
	}

	for _, e := range entries {
		rel, ok := l.include(dir, e)
		if !ok {
			continue
		}
		if e.IsDir() {
			if n := subdirs[e.Name()]; n != nil {
				dir.Children = append(dir.Children, n)
			}
			continue
		}
		base, ok := l.unitBase(e)
		if !ok {
			continue
		}
		if n := subdirs[base]; n != nil {
			n.Backing = l.cfg.abs(rel)
			continue
		}
		n, err := l.newNode(dir, base, rel, Leaf)
		if err != nil {
			return err
		}
		dir.Children = append(dir.Children, n)
	}
	return nil
}

// include reports whether the entry e of dir is part of the tree and
// returns its relative path.
func (l *Loader) include(dir *Node, e fs.DirEntry) (string, bool) {
	if strings.HasPrefix(e.Name(), ".") {
		return "", false
	}
	rel := path.Join(dir.Rel, e.Name())
	if l.cfg.ignored(rel) {
		return "", false
	}
	return rel, true
}

// unitBase returns the base name of a unit file without its extension.
func (l *Loader) unitBase(e fs.DirEntry) (string, bool) {
	if !e.Type().IsRegular() {
		return "", false
	}
	base, ok := strings.CutSuffix(e.Name(), l.cfg.Extension)
	if !ok || base == "" {
		return "", false
	}
	return base, true
}

var errFound = errors.New("found")

// hasUnits reports whether the directory rel contains a unit at any depth.
// It is only needed for directories whose name is invalid.
func (l *Loader) hasUnits(rel string) (bool, error) {
	err := fs.WalkDir(l.cfg.FS, rel, func(p string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == rel {
			return nil
		}
		if strings.HasPrefix(e.Name(), ".") || l.cfg.ignored(p) {
			if e.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if _, ok := l.unitBase(e); ok {
			return errFound
		}
		return nil
	})
	switch {
	case err == errFound:
		return true, nil
	case err != nil:
		return false, fmt.Errorf("cannot read directory %s: %w", l.cfg.abs(rel), err)
	}
	return false, nil
}

func (l *Loader) newNode(parent *Node, base, rel string, kind Kind) (*Node, error) {
	abs := l.cfg.abs(rel)
	name := l.cfg.Inflector.Camelize(base, abs)
	if !inflect.IsValid(name) {
		return nil, &InvalidIdentifierError{
			Name:     name,
			Filename: abs,
			Dir:      kind == Namespace,
		}
	}
	return &Node{
		Path:   abs,
		Rel:    rel,
		Kind:   kind,
		Name:   name,
		Parent: parent,
	}, nil
}
