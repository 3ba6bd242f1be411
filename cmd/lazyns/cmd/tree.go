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
	"github.com/spf13/cobra"

	"cuelabs.dev/go/lazyns/loader"
)

func newTreeCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree [dir]",
		Short: "print the names expected from a tree",
		Long: `tree prints, for every unit and directory below dir, the name it is
expected to declare, without loading anything.
`,
		Args: cobra.MaximumNArgs(1),
		RunE: mkRunE(c, runTree),
	}
	return cmd
}

func runTree(cmd *Command, args []string) error {
	var dir string
	if len(args) > 0 {
		dir = args[0]
	}
	cfg, err := newConfig(cmd, dir)
	if err != nil {
		return err
	}
	root, err := loader.Build(cfg)
	if err != nil {
		return printError(cmd, err)
	}
	return loader.WriteTree(cmd.OutOrStdout(), root)
}
