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

// Package unit executes CUE files as units of a namespace.
//
// Executing a unit evaluates the file and declares each of its regular
// fields with an identifier label in the namespace the unit belongs to:
//
//	// user.cue
//	User: {
//		name:  string
//		admin: bool | *false
//	}
//
// declares User. A struct carrying the declaration attribute @namespace()
// declares a namespace instead, whose fields are declared within it. The
// attribute may give the namespace a display name of its own:
//
//	Admin: {
//		@namespace(name="Administration")
//		Role: "admin"
//	}
//
// A file-level @namespace attribute with a qualified name evaluates the
// file within that namespace, relative to the root, instead of the
// enclosing one:
//
//	@namespace(CLI)
//
//	X: 1
//
// declares CLI::X whichever directory the file lives in.
//
// Hidden fields and definitions are not declared.
package unit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/parser"

	"cuelabs.dev/go/lazyns/namespace"
)

// An Executor evaluates unit files. It is safe for concurrent use.
type Executor struct {
	mu  sync.Mutex
	ctx *cue.Context
}

// NewExecutor returns an Executor with a fresh CUE context.
func NewExecutor() *Executor {
	return &Executor{ctx: cuecontext.New()}
}

// Context returns the CUE context used for evaluation.
func (x *Executor) Context() *cue.Context { return x.ctx }

// Exec evaluates src, the contents of filename, and declares its fields in
// ns. Parse and evaluation errors are returned unchanged. ctx is passed on
// to the lookups of a file-level @namespace attribute.
func (x *Executor) Exec(ctx context.Context, ns *namespace.Namespace, filename string, src []byte) error {
	f, err := parser.ParseFile(filename, src)
	if err != nil {
		return err
	}
	target, err := targetNamespace(ctx, ns, f, filename)
	if err != nil {
		return err
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	v := x.ctx.BuildFile(f)
	if err := v.Validate(); err != nil {
		return err
	}
	return declare(target, f.Decls, v, filename)
}

func declare(ns *namespace.Namespace, decls []ast.Decl, v cue.Value, filename string) error {
	for _, d := range decls {
		f, ok := d.(*ast.Field)
		if !ok {
			continue
		}
		name, isIdent, err := ast.LabelName(f.Label)
		if err != nil || !isIdent || !isDeclName(name) {
			continue
		}
		fv := v.LookupPath(cue.MakePath(cue.Str(name)))
		if !fv.Exists() {
			continue
		}
		if st, ok := f.Value.(*ast.StructLit); ok {
			if a, ok := findNamespaceAttr(st.Elts); ok {
				child, err := ns.Vivify(name, filename)
				if err != nil {
					return err
				}
				if a.name != "" {
					child.SetObject(displayName(a.name))
				}
				if err := declare(child, st.Elts, fv, filename); err != nil {
					return err
				}
				continue
			}
		}
		ns.Define(&namespace.Decl{
			Name:     name,
			Value:    fv,
			Filename: filename,
		})
	}
	return nil
}

func isDeclName(name string) bool {
	return !strings.HasPrefix(name, "_") && !strings.HasPrefix(name, "#")
}

// targetNamespace returns the namespace named by a file-level @namespace
// attribute, or ns if there is none.
func targetNamespace(ctx context.Context, ns *namespace.Namespace, f *ast.File, filename string) (*namespace.Namespace, error) {
	a, ok := findNamespaceAttr(f.Decls)
	if !ok || a.path == "" {
		return ns, nil
	}
	root := ns
	for !root.IsRoot() {
		root = root.Parent()
	}
	cur := root
	for _, name := range strings.Split(a.path, namespace.Separator) {
		d, err := cur.LookupContext(ctx, name)
		var undef *namespace.UndefinedError
		switch {
		case errors.As(err, &undef):
			if cur, err = cur.Vivify(name, filename); err != nil {
				return nil, err
			}
			continue
		case err != nil:
			return nil, err
		case d.Namespace == nil:
			return nil, fmt.Errorf("%s: %s is not a namespace", filename, cur.Qualify(name))
		}
		cur = d.Namespace
	}
	return cur, nil
}

type namespaceAttr struct {
	path string
	name string
}

// findNamespaceAttr returns the first @namespace attribute among decls.
func findNamespaceAttr(decls []ast.Decl) (namespaceAttr, bool) {
	for _, d := range decls {
		a, ok := d.(*ast.Attribute)
		if !ok {
			continue
		}
		key, body := a.Split()
		if key != "namespace" {
			continue
		}
		return parseNamespaceAttr(body), true
	}
	return namespaceAttr{}, false
}

func parseNamespaceAttr(body string) namespaceAttr {
	var a namespaceAttr
	for _, arg := range strings.Split(body, ",") {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		key, val, ok := strings.Cut(arg, "=")
		if !ok {
			a.path = unquote(arg)
			continue
		}
		if strings.TrimSpace(key) == "name" {
			a.name = unquote(strings.TrimSpace(val))
		}
	}
	return a
}

func unquote(s string) string {
	if u, err := strconv.Unquote(s); err == nil {
		return u
	}
	return s
}

// displayName is the object of a namespace declared with a name of its own.
type displayName string

func (n displayName) Name() string { return string(n) }
