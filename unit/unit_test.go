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

package unit

import (
	"context"
	"testing"

	"cuelang.org/go/cue"
	"github.com/go-quicktest/qt"

	"cuelabs.dev/go/lazyns/namespace"
)

func mustExec(t *testing.T, ns *namespace.Namespace, filename, src string) {
	t.Helper()
	err := NewExecutor().Exec(context.Background(), ns, filename, []byte(src))
	qt.Assert(t, qt.IsNil(err))
}

func int64Value(t *testing.T, d *namespace.Decl) int64 {
	t.Helper()
	v, ok := d.Value.(cue.Value)
	qt.Assert(t, qt.IsTrue(ok))
	i, err := v.Int64()
	qt.Assert(t, qt.IsNil(err))
	return i
}

func TestExecDeclaresFields(t *testing.T) {
	root := namespace.NewRoot()
	mustExec(t, root, "/src/user.cue", `
User: {
	name:  string
	admin: bool | *false
}
Count: 3
_hidden: 1
#Def: {a: int}
"Quoted-label": 2
`)
	qt.Assert(t, qt.DeepEquals(root.Names(), []string{"Count", "User"}))

	d, ok := root.Get("Count")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(int64Value(t, d), 3))
	qt.Assert(t, qt.Equals(d.Filename, "/src/user.cue"))
	qt.Assert(t, qt.IsNil(d.Namespace))
}

func TestExecEmptyFile(t *testing.T) {
	root := namespace.NewRoot()
	mustExec(t, root, "/src/x.cue", ``)
	qt.Assert(t, qt.HasLen(root.Names(), 0))
}

func TestExecNamespaceAttribute(t *testing.T) {
	root := namespace.NewRoot()
	mustExec(t, root, "/src/admin.cue", `
Admin: {
	@namespace()
	Role: "admin"
	Nested: {
		@namespace(name="Deep")
		Level: 2
	}
}
Plain: {
	Role: "user"
}
`)
	d, ok := root.Get("Admin")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsNotNil(d.Namespace))
	qt.Assert(t, qt.DeepEquals(d.Namespace.Names(), []string{"Nested", "Role"}))
	qt.Assert(t, qt.Equals(namespace.DisplayName(d.Namespace), "Admin"))

	nested, err := namespace.Resolve(root, "Admin::Nested")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(namespace.DisplayName(nested.Namespace), "Deep"))
	level, err := namespace.Resolve(root, "Admin::Nested::Level")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(int64Value(t, level), 2))

	plain, ok := root.Get("Plain")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.IsNil(plain.Namespace))
}

func TestExecFileLevelNamespace(t *testing.T) {
	root := namespace.NewRoot()
	cli, err := root.Vivify("Cli", "/src/cli")
	qt.Assert(t, qt.IsNil(err))

	mustExec(t, cli, "/src/cli/x.cue", `
@namespace(CLI)

X: 1
`)
	qt.Assert(t, qt.HasLen(cli.Names(), 0))
	d, err := namespace.Resolve(root, "CLI::X")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(int64Value(t, d), 1))

	outer, ok := root.Get("CLI")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(outer.Filename, "/src/cli/x.cue"))
}

func TestExecFileLevelNamespaceLookupContext(t *testing.T) {
	type key struct{}
	root := namespace.NewRoot()
	var got any
	root.Autoload("CLI", namespace.ResolverFunc(func(ctx context.Context, ns *namespace.Namespace, name string) error {
		got = ctx.Value(key{})
		ns.RemoveAutoload(name)
		_, err := ns.Vivify(name, "/src/cli")
		return err
	}))
	ctx := context.WithValue(context.Background(), key{}, "outer")
	err := NewExecutor().Exec(ctx, root, "/src/x.cue", []byte("@namespace(CLI)\nX: 1\n"))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(got, any("outer")))
	_, err = namespace.Resolve(root, "CLI::X")
	qt.Assert(t, qt.IsNil(err))
}

func TestExecFileLevelNamespaceNotANamespace(t *testing.T) {
	root := namespace.NewRoot()
	root.Define(&namespace.Decl{Name: "V", Value: 1})
	err := NewExecutor().Exec(context.Background(), root, "/src/x.cue", []byte("@namespace(V::W)\nX: 1\n"))
	qt.Assert(t, qt.ErrorMatches(err, `/src/x.cue: V is not a namespace`))
}

func TestExecErrorsPassThrough(t *testing.T) {
	root := namespace.NewRoot()
	x := NewExecutor()

	err := x.Exec(context.Background(), root, "/src/raises.cue", []byte("Raises: 1 & 2\n"))
	qt.Assert(t, qt.ErrorMatches(err, `(?s).*conflicting values.*`))

	err = x.Exec(context.Background(), root, "/src/broken.cue", []byte("Broken: {\n"))
	qt.Assert(t, qt.IsNotNil(err))
	qt.Assert(t, qt.HasLen(root.Names(), 0))
}

func TestParseNamespaceAttr(t *testing.T) {
	testCases := []struct {
		body string
		want namespaceAttr
	}{
		{"", namespaceAttr{}},
		{"CLI", namespaceAttr{path: "CLI"}},
		{`"A::B"`, namespaceAttr{path: "A::B"}},
		{`name="OVERRIDDEN"`, namespaceAttr{name: "OVERRIDDEN"}},
		{`A::B, name=Other`, namespaceAttr{path: "A::B", name: "Other"}},
	}
	for _, tc := range testCases {
		qt.Check(t, qt.Equals(parseNamespaceAttr(tc.body), tc.want), qt.Commentf("body %q", tc.body))
	}
}
