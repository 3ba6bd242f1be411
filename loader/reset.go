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
	"github.com/google/uuid"

	"cuelabs.dev/go/lazyns/namespace"
)

// Reset starts a new session. It removes all hooks and every declaration
// made by a file or directory below Dir, rebuilds the tree from the
// current contents of the directory and registers the top-level hooks
// again, so that every node starts out unloaded.
//
// Reset waits for a load in progress to finish. It must not be called by
// an Executor.
func (l *Loader) Reset() error {
	tree, err := l.build()
	if err != nil {
		return err
	}

	l.loading.Lock()
	defer l.loading.Unlock()

	l.mu.Lock()
	old := l.tree
	l.tree = tree
	l.session = uuid.NewString()
	l.mu.Unlock()

	old.Walk(func(n *Node) bool {
		if ns := n.Namespace(); ns != nil {
			for _, c := range n.Children {
				ns.RemoveAutoload(c.Name)
			}
		}
		return true
	})
	l.purge(l.cfg.Root)
	l.installHooks(tree)
	return nil
}

// Build returns the tree for cfg without registering any hooks.
func Build(cfg *Config) (*Node, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	c, err := cfg.complete()
	if err != nil {
		return nil, err
	}
	l := &Loader{cfg: c}
	return l.build()
}

// purge removes the declarations of ns that were made from below Dir.
func (l *Loader) purge(ns *namespace.Namespace) {
	for _, d := range ns.Decls() {
		switch {
		case l.cfg.within(d.Filename):
			ns.Remove(d.Name)
		case d.Namespace != nil:
			l.purge(d.Namespace)
		}
	}
}
