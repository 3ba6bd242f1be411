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

// Package cmd implements the lazyns command.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"cuelang.org/go/cue/errors"
	"github.com/spf13/cobra"
)

type runFunction func(cmd *Command, args []string) error

func mkRunE(c *Command, f runFunction) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c.Command = cmd
		return f(c, args)
	}
}

// newRootCmd creates the base command when called without any subcommands
func newRootCmd() *Command {
	cmd := &cobra.Command{
		Use:   "lazyns",
		Short: "lazyns checks and resolves trees of lazily loaded CUE units.",
		Long: `lazyns maps a directory of CUE files to a hierarchy of namespaces.

Every file is expected to declare one name in the namespace of its
directory, derived from the file name:

	user.cue           User
	admin/             Admin
	admin/role.cue     Admin::Role

A directory declares its namespace implicitly, unless it has a unit
of its own next to it, such as admin.cue, in which case that unit must
declare it as a struct with a @namespace() attribute.

Settings can be stored in a lazyns.yaml file at the root of the tree:

	ignore:
	  - vendor
	inflections:
	  html_parser: HTMLParser
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	c := &Command{Command: cmd, root: cmd}

	subCommands := []*cobra.Command{
		newCheckCmd(c),
		newGetCmd(c),
		newTreeCmd(c),
		newVersionCmd(c),
	}

	addGlobalFlags(cmd.PersistentFlags())

	for _, sub := range subCommands {
		cmd.AddCommand(sub)
	}

	return c
}

// Main runs the lazyns tool and returns the code for passing to os.Exit.
func Main() int {
	err := mainErr(context.Background(), os.Args[1:])
	if err != nil {
		if err != ErrPrintedError {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	return 0
}

func mainErr(ctx context.Context, args []string) error {
	cmd, err := New(args)
	if err != nil {
		return err
	}
	return cmd.Run(ctx)
}

type Command struct {
	// The currently active command.
	*cobra.Command

	root *cobra.Command

	hasErr bool
}

type errWriter Command

func (w *errWriter) Write(b []byte) (int, error) {
	c := (*Command)(w)
	c.hasErr = true
	return c.Command.OutOrStderr().Write(b)
}

// Stderr returns a writer that should be used for error messages.
// Writing to it makes the command exit with a non-zero code.
func (c *Command) Stderr() io.Writer {
	return (*errWriter)(c)
}

// ErrPrintedError indicates error messages have been printed to stderr.
var ErrPrintedError = errors.New("terminating because of errors")

func (c *Command) Run(ctx context.Context) error {
	if err := c.root.ExecuteContext(ctx); err != nil {
		return err
	}
	if c.hasErr {
		return ErrPrintedError
	}
	return nil
}

// New creates the lazyns command for the given arguments.
func New(args []string) (*Command, error) {
	cmd := newRootCmd()
	cmd.root.SetArgs(args)
	return cmd, nil
}

// printError prints err to the error output of cmd and returns
// ErrPrintedError. Errors from the loader and from evaluating units are
// printed with their positions, if any.
func printError(cmd *Command, err error) error {
	var e errors.Error
	if errors.As(err, &e) {
		errors.Print(cmd.Stderr(), err, &errors.Config{})
	} else {
		fmt.Fprintln(cmd.Stderr(), err)
	}
	return ErrPrintedError
}
