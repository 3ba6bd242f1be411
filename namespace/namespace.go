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

// Package namespace implements a hierarchy of named declarations with
// support for resolving missing names on demand.
//
// A Namespace holds declarations. When a name is looked up that has no
// declaration, but for which a [Resolver] was registered with
// [Namespace.Autoload], the resolver is called to produce the declaration
// and the lookup is retried. Names without a resolver fail with an
// [*UndefinedError].
package namespace

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Separator separates the identifiers of a qualified name.
const Separator = "::"

// TopLevel is the display name of a root namespace.
const TopLevel = "top-level"

// A Resolver produces the declaration for a name on demand.
//
// Resolve is called by [Namespace.LookupContext] without any lock held,
// with the context passed to the lookup. It must either declare name in ns
// or return an error.
type Resolver interface {
	Resolve(ctx context.Context, ns *Namespace, name string) error
}

// ResolverFunc adapts an ordinary function to a Resolver.
type ResolverFunc func(ctx context.Context, ns *Namespace, name string) error

func (f ResolverFunc) Resolve(ctx context.Context, ns *Namespace, name string) error {
	return f(ctx, ns, name)
}

// A Namer is implemented by namespace objects that report a name other
// than the one derived from their position in the hierarchy.
type Namer interface {
	Name() string
}

// A Decl is a named declaration.
type Decl struct {
	Name string

	// Value holds the declared value. It is unset for namespace
	// declarations.
	Value any

	// Namespace is set if the declaration declares a namespace.
	Namespace *Namespace

	// Filename is the absolute path of the file or directory that made the
	// declaration, if any.
	Filename string
}

// A Namespace is a container of declarations.
//
// All methods are safe for concurrent use.
type Namespace struct {
	name   string
	parent *Namespace

	mu        sync.Mutex
	object    any
	decls     map[string]*Decl
	autoloads map[string]Resolver
}

// NewRoot returns a new, empty root namespace.
func NewRoot() *Namespace {
	return newNamespace(nil, "")
}

func newNamespace(parent *Namespace, name string) *Namespace {
	return &Namespace{
		name:      name,
		parent:    parent,
		decls:     map[string]*Decl{},
		autoloads: map[string]Resolver{},
	}
}

// Object returns the host object associated with ns, if any.
func (ns *Namespace) Object() any {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.object
}

// SetObject associates a host object with ns. If it implements [Namer],
// it determines the display name of ns.
func (ns *Namespace) SetObject(x any) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.object = x
}

// IsRoot reports whether ns has no parent.
func (ns *Namespace) IsRoot() bool { return ns.parent == nil }

// Parent returns the enclosing namespace or nil for a root.
func (ns *Namespace) Parent() *Namespace { return ns.parent }

// BaseName returns the identifier under which ns is declared in its
// parent, or "" for a root.
func (ns *Namespace) BaseName() string { return ns.name }

// QualifiedName returns the path-derived name of ns, such as "A::B".
// It is "" for a root.
func (ns *Namespace) QualifiedName() string {
	if ns.parent == nil {
		return ""
	}
	if p := ns.parent.QualifiedName(); p != "" {
		return p + Separator + ns.name
	}
	return ns.name
}

// DisplayName returns the name of ns as used in messages: [TopLevel] for a
// root, the result of Name if the object of ns is a [Namer], and the
// qualified name otherwise.
func DisplayName(ns *Namespace) string {
	if n, ok := ns.Object().(Namer); ok {
		return n.Name()
	}
	if ns.IsRoot() {
		return TopLevel
	}
	return ns.QualifiedName()
}

// Qualify returns the qualified name of name within ns.
func (ns *Namespace) Qualify(name string) string {
	if q := ns.QualifiedName(); q != "" {
		return q + Separator + name
	}
	return name
}

// Get returns the declaration for name, without resolving missing names.
func (ns *Namespace) Get(name string) (*Decl, bool) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	d, ok := ns.decls[name]
	return d, ok
}

// Lookup returns the declaration for name. While a Resolver is registered
// for name, it is called first, even if name is already declared, so that
// lookups wait for a resolution in progress. A resolver should unregister
// itself once name is fully declared. An error returned by the resolver is
// returned as is.
func (ns *Namespace) Lookup(name string) (*Decl, error) {
	return ns.LookupContext(context.Background(), name)
}

// LookupContext is like Lookup but passes ctx to the resolver. A resolver
// that looks up further names should use LookupContext with the context it
// was given.
func (ns *Namespace) LookupContext(ctx context.Context, name string) (*Decl, error) {
	ns.mu.Lock()
	d := ns.decls[name]
	r := ns.autoloads[name]
	ns.mu.Unlock()

	if r == nil {
		if d != nil {
			return d, nil
		}
		return nil, &UndefinedError{Namespace: ns, Name: name}
	}
	if err := r.Resolve(ctx, ns, name); err != nil {
		return nil, err
	}
	if d, ok := ns.Get(name); ok {
		return d, nil
	}
	return nil, &UndefinedError{Namespace: ns, Name: name}
}

// Define adds d to ns, replacing any existing declaration of the same name.
// A namespace declaration must have been created within ns.
func (ns *Namespace) Define(d *Decl) {
	if d.Namespace != nil && d.Namespace.parent != ns {
		panic(fmt.Sprintf("namespace %s declared outside of its parent", d.Namespace.QualifiedName()))
	}
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.decls[d.Name] = d
}

// Vivify returns the namespace declared as name in ns, declaring a new one
// on behalf of filename if there is no declaration. It is an error if name
// is declared as something other than a namespace.
func (ns *Namespace) Vivify(name, filename string) (*Namespace, error) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	if d, ok := ns.decls[name]; ok {
		if d.Namespace == nil {
			return nil, fmt.Errorf("%s is not a namespace", ns.Qualify(name))
		}
		return d.Namespace, nil
	}
	child := newNamespace(ns, name)
	ns.decls[name] = &Decl{
		Name:      name,
		Namespace: child,
		Filename:  filename,
	}
	return child, nil
}

// Remove deletes the declaration for name, if any. It reports whether there
// was one.
func (ns *Namespace) Remove(name string) bool {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	_, ok := ns.decls[name]
	delete(ns.decls, name)
	return ok
}

// Names returns the declared names in sorted order.
func (ns *Namespace) Names() []string {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	names := make([]string, 0, len(ns.decls))
	for name := range ns.decls {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Decls returns the declarations of ns sorted by name.
func (ns *Namespace) Decls() []*Decl {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	decls := make([]*Decl, 0, len(ns.decls))
	for _, d := range ns.decls {
		decls = append(decls, d)
	}
	slices.SortFunc(decls, func(a, b *Decl) int {
		return strings.Compare(a.Name, b.Name)
	})
	return decls
}

// Autoload registers r to resolve name when it is looked up and not yet
// declared.
func (ns *Namespace) Autoload(name string, r Resolver) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.autoloads[name] = r
}

// RemoveAutoload unregisters the resolver for name.
func (ns *Namespace) RemoveAutoload(name string) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	delete(ns.autoloads, name)
}

// Autoloads returns the names with a registered resolver in sorted order.
func (ns *Namespace) Autoloads() []string {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	names := make([]string, 0, len(ns.autoloads))
	for name := range ns.autoloads {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Resolve looks up a qualified name such as "A::B::C" starting at ns,
// resolving missing names along the way.
func Resolve(ns *Namespace, qualified string) (*Decl, error) {
	parts := strings.Split(qualified, Separator)
	var d *Decl
	for i, name := range parts {
		if name == "" {
			return nil, fmt.Errorf("invalid qualified name %q", qualified)
		}
		var err error
		d, err = ns.Lookup(name)
		if err != nil {
			return nil, err
		}
		if i < len(parts)-1 {
			if d.Namespace == nil {
				return nil, fmt.Errorf("%s is not a namespace", ns.Qualify(name))
			}
			ns = d.Namespace
		}
	}
	return d, nil
}

// An UndefinedError reports a name that has neither a declaration nor a
// resolver.
type UndefinedError struct {
	Namespace *Namespace
	Name      string
}

func (e *UndefinedError) Error() string {
	return "undefined: " + e.Namespace.Qualify(e.Name)
}
