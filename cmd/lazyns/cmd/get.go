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

package cmd

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/format"
	"github.com/spf13/cobra"

	"cuelabs.dev/go/lazyns/internal/lazynsdebug"
	"cuelabs.dev/go/lazyns/loader"
	"cuelabs.dev/go/lazyns/namespace"
)

func newGetCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [dir] name",
		Short: "resolve a qualified name",
		Long: `get resolves a qualified name such as Admin::Role in the tree at dir,
or the current directory, loading only the units it needs.

For a value, get prints it in CUE syntax. For a namespace, it loads the
rest of the namespace and prints the names of its members, one per line;
names of namespaces end in "::".
`,
		Args: cobra.RangeArgs(1, 2),
		RunE: mkRunE(c, runGet),
	}
	cmd.Flags().Bool(string(flagEager), false,
		"load the whole tree before resolving the name")
	return cmd
}

func runGet(cmd *Command, args []string) error {
	dir, name := dirAndName(args)
	cfg, err := newConfig(cmd, dir)
	if err != nil {
		return err
	}
	l, err := loader.New(cfg)
	if err != nil {
		return printError(cmd, err)
	}
	if flagEager.Bool(cmd) || lazynsdebug.Flags.Eager {
		if err := l.EagerLoad(); err != nil {
			return printError(cmd, err)
		}
	}

	d, err := l.Lookup(name)
	if err != nil {
		return printError(cmd, err)
	}
	w := cmd.OutOrStdout()
	if d.Namespace != nil {
		if err := l.EagerLoadNamespace(name); err != nil {
			return printError(cmd, err)
		}
		for _, m := range d.Namespace.Decls() {
			fmt.Fprintln(w, memberName(m))
		}
		return nil
	}

	switch v := d.Value.(type) {
	case cue.Value:
		b, err := format.Node(v.Syntax())
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n", b)
	default:
		fmt.Fprintf(w, "%v\n", v)
	}
	return nil
}

func memberName(d *namespace.Decl) string {
	if d.Namespace != nil {
		return d.Name + namespace.Separator
	}
	return d.Name
}
