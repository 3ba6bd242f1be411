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

func newCheckCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "load every unit of a tree and verify its names",
		Long: `check loads all units below dir, or the current directory, and
verifies that each of them declares the name expected from its path.

It reports the first mismatch and exits with a non-zero code.
`,
		Args: cobra.MaximumNArgs(1),
		RunE: mkRunE(c, runCheck),
	}
	return cmd
}

func runCheck(cmd *Command, args []string) error {
	var dir string
	if len(args) > 0 {
		dir = args[0]
	}
	cfg, err := newConfig(cmd, dir)
	if err != nil {
		return err
	}
	l, err := loader.New(cfg)
	if err != nil {
		return printError(cmd, err)
	}
	if err := l.EagerLoad(); err != nil {
		return printError(cmd, err)
	}
	return nil
}
