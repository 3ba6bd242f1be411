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

// Package loader resolves a directory tree of units into a hierarchy of
// lazily loaded namespaces.
//
// Every unit file and every directory containing units is expected to
// declare one name in the namespace of its parent directory. The name is
// derived from the base name by an inflector:
//
//	user.cue           User
//	admin/             Admin
//	admin/role.cue     Admin::Role
//
// A Loader registers a hook for each expected name. The first lookup of a
// name executes the unit that backs it and then verifies that the name was
// declared, returning a [*NameError] otherwise. A directory declares its
// namespace implicitly, unless a unit with the same base name sits next to
// it, as in admin.cue, in which case that unit must declare it.
//
// [Loader.EagerLoad] loads the whole tree up front and reports the first
// mismatch.
package loader

import (
	"context"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"cuelabs.dev/go/lazyns/internal/tracelog"
	"cuelabs.dev/go/lazyns/namespace"
)

// A Loader resolves the names of one directory tree.
//
// A Loader is safe for concurrent use. Each unit is executed at most once
// per session, even if its name is first looked up from several goroutines
// at the same time. Units are executed one at a time.
type Loader struct {
	cfg Config

	// loading is held by the outermost load in progress. Loads triggered
	// while it executes a unit run under the same hold.
	loading sync.Mutex

	mu      sync.Mutex
	tree    *Node
	session string
	onLoad  []func(LoadRecord)
}

// A LoadRecord describes a successful load.
type LoadRecord struct {
	Node *Node

	// Decl is the declaration that was verified.
	Decl *namespace.Decl
}

// New builds the tree for the directory of cfg and registers hooks for its
// top level. It fails with an [*InvalidIdentifierError] if the inflector
// produces an invalid identifier for any file or directory.
func New(cfg *Config) (*Loader, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	c, err := cfg.complete()
	if err != nil {
		return nil, err
	}
	l := &Loader{cfg: c}
	tree, err := l.build()
	if err != nil {
		return nil, err
	}
	l.tree = tree
	l.session = uuid.NewString()
	l.installHooks(tree)
	return l, nil
}

// Root returns the root namespace.
func (l *Loader) Root() *namespace.Namespace { return l.cfg.Root }

// Tree returns the root node of the current session.
func (l *Loader) Tree() *Node {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tree
}

// Session returns the identifier of the current session. It changes with
// every Reset.
func (l *Loader) Session() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.session
}

// OnLoad registers f to be called after each successful load. Calls are
// made once the outermost load has finished, so f may look up names.
func (l *Loader) OnLoad(f func(LoadRecord)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onLoad = append(l.onLoad, f)
}

// Lookup resolves a qualified name, such as "Admin::Role", starting at the
// root namespace, loading units as needed.
func (l *Loader) Lookup(qualified string) (*namespace.Decl, error) {
	return namespace.Resolve(l.cfg.Root, qualified)
}

// Loaded reports whether the file or directory at filename has been
// loaded. filename may be absolute or relative to the root directory.
func (l *Loader) Loaded(filename string) bool {
	n := l.find(filename)
	return n != nil && n.State() == Loaded
}

// find returns the node for filename or nil.
func (l *Loader) find(filename string) *Node {
	rel := filename
	if filepath.IsAbs(filename) {
		if !l.cfg.within(filename) {
			return nil
		}
		rel, _ = filepath.Rel(l.cfg.Dir, filename)
	}
	rel = path.Clean(filepath.ToSlash(rel))
	var found *Node
	l.Tree().Walk(func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.Rel == rel || n.Backing != "" && n.Rel+l.cfg.Extension == rel {
			found = n
			return false
		}
		return n.Rel == "." || strings.HasPrefix(rel, n.Rel+"/")
	})
	return found
}

// hook is the Resolver registered for a node.
type hook struct {
	l *Loader
	n *Node
}

func (h hook) Resolve(ctx context.Context, ns *namespace.Namespace, name string) error {
	return h.l.load(ctx, h.n)
}

// installHooks registers hooks for the children of the namespace node n
// in the namespace it declares.
func (l *Loader) installHooks(n *Node) {
	ns := n.Namespace()
	for _, c := range n.Children {
		ns.Autoload(c.Name, hook{l, c})
	}
}

// A chain records the loads in progress on behalf of one outermost load,
// innermost last, and the loads completed so far.
type chain struct {
	nodes   []*Node
	records []LoadRecord
}

// chainKey is the context key of the chain of a Loader.
type chainKey struct{ l *Loader }

// load loads n if it is not loaded yet. Concurrent callers wait for the
// first one and get the same result.
//
// A load started while executing a unit joins the chain of the load that
// executes it. Loading a node already on the chain returns nil without
// doing anything, leaving it to the verification of that node to report
// whether its name was declared.
func (l *Loader) load(ctx context.Context, n *Node) error {
	if c, ok := ctx.Value(chainKey{l}).(*chain); ok {
		if slices.Contains(c.nodes, n) {
			l.log(tracelog.KindReentered, n, nil)
			return nil
		}
		return l.loadOnce(ctx, c, n)
	}

	c := &chain{}
	l.loading.Lock()
	err := l.loadOnce(context.WithValue(ctx, chainKey{l}, c), c, n)
	l.loading.Unlock()

	l.mu.Lock()
	fns := slices.Clone(l.onLoad)
	l.mu.Unlock()
	for _, rec := range c.records {
		for _, f := range fns {
			f(rec)
		}
	}
	return err
}

func (l *Loader) loadOnce(ctx context.Context, c *chain, n *Node) error {
	switch n.State() {
	case Loaded:
		return nil
	case Failed:
		return n.err
	}
	n.state.Store(int32(Loading))
	c.nodes = append(c.nodes, n)
	d, err := l.loadNode(ctx, n)
	c.nodes = c.nodes[:len(c.nodes)-1]

	if err != nil {
		n.err = err
		n.state.Store(int32(Failed))
		l.log(tracelog.KindFailed, n, err)
		return err
	}
	if n.Kind == Namespace {
		n.binding.Store(d.Namespace)
		l.installHooks(n)
	}
	n.Parent.Namespace().RemoveAutoload(n.Name)
	n.state.Store(int32(Loaded))
	l.log(tracelog.KindLoaded, n, nil)
	c.records = append(c.records, LoadRecord{Node: n, Decl: d})
	return nil
}

// loadNode executes the unit of n and verifies the result.
func (l *Loader) loadNode(ctx context.Context, n *Node) (*namespace.Decl, error) {
	ns := n.Parent.Namespace()
	if ns == nil {
		return nil, &NameError{
			Name:      n.Name,
			Filename:  n.unitPath(),
			Namespace: n.Parent.QualifiedName(),
			Reason:    ReasonNamespaceNotLoaded,
		}
	}

	switch {
	case n.Kind == Leaf:
		if err := l.exec(ctx, ns, n, n.Rel); err != nil {
			return nil, err
		}
	case n.Backing != "":
		if err := l.exec(ctx, ns, n, n.Rel+l.cfg.Extension); err != nil {
			return nil, err
		}
	default:
		l.log(tracelog.KindVivify, n, nil)
		// An error means the name is already taken by something other
		// than a namespace, which the verification below reports.
		_, _ = ns.Vivify(n.Name, n.Path)
	}

	d, ok := ns.Get(n.Name)
	if !ok || n.Kind == Namespace && d.Namespace == nil {
		return nil, &NameError{
			Name:      n.Name,
			Filename:  n.unitPath(),
			Namespace: namespace.DisplayName(ns),
			Reason:    ReasonUndefined,
		}
	}
	return d, nil
}

func (l *Loader) exec(ctx context.Context, ns *namespace.Namespace, n *Node, rel string) error {
	src, err := fs.ReadFile(l.cfg.FS, rel)
	if err != nil {
		return err
	}
	l.log(tracelog.KindLoad, n, nil)
	return l.cfg.Executor.Exec(ctx, ns, l.cfg.abs(rel), src)
}

func (l *Loader) log(kind tracelog.EventKind, n *Node, err error) {
	if l.cfg.Logger == nil {
		return
	}
	e := &tracelog.Event{
		Session:  l.Session(),
		Name:     n.QualifiedName(),
		Filename: n.unitPath(),
	}
	if err != nil {
		e.Error = err.Error()
	}
	l.cfg.Logger.Log(context.Background(), kind, e)
}
