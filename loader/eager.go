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
	"context"
	"errors"
	"fmt"

	"cuelabs.dev/go/lazyns/internal/tracelog"
)

// EagerLoad loads every node of the tree, depth first, each namespace
// before its members. It stops at the first error and returns it.
//
// If the unit of a namespace did not declare it, EagerLoad still visits the
// members of that namespace and reports the first of them with a
// [*NameError] of reason [ReasonNamespaceNotLoaded].
func (l *Loader) EagerLoad() error {
	root := l.Tree()
	l.log(tracelog.KindEager, root, nil)
	return l.eager(root)
}

// EagerLoadNamespace loads the part of the tree that declares members of
// the namespace with the given qualified name, loading the namespace
// itself first if needed. An empty name stands for the root namespace.
func (l *Loader) EagerLoadNamespace(qualified string) error {
	if qualified == "" {
		return l.EagerLoad()
	}
	d, err := l.Lookup(qualified)
	if err != nil {
		return err
	}
	if d.Namespace == nil {
		return fmt.Errorf("%s is not a namespace", qualified)
	}
	var start *Node
	l.Tree().Walk(func(n *Node) bool {
		if start != nil {
			return false
		}
		if n.Kind == Namespace && n.Namespace() == d.Namespace {
			start = n
			return false
		}
		return true
	})
	if start == nil {
		// Declared by a unit, not by a directory: nothing to load.
		return nil
	}
	l.log(tracelog.KindEager, start, nil)
	return l.eager(start)
}

func (l *Loader) eager(n *Node) error {
	for _, c := range n.Children {
		if err := l.load(context.Background(), c); err != nil {
			if c.Kind == Namespace && l.undeclared(c, err) {
				if err := l.eager(c); err != nil {
					return err
				}
			}
			return err
		}
		if c.Kind == Namespace {
			if err := l.eager(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// undeclared reports whether err says that n itself was not declared.
func (l *Loader) undeclared(n *Node, err error) bool {
	var ne *NameError
	return errors.As(err, &ne) &&
		ne.Reason == ReasonUndefined &&
		ne.Name == n.Name &&
		ne.Filename == n.unitPath()
}
