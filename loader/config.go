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
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"cuelabs.dev/go/lazyns/inflect"
	"cuelabs.dev/go/lazyns/internal/lazynsdebug"
	"cuelabs.dev/go/lazyns/internal/tracelog"
	"cuelabs.dev/go/lazyns/namespace"
	"cuelabs.dev/go/lazyns/unit"
)

// DefaultExtension is the file extension of units when
// Config.Extension is empty.
const DefaultExtension = ".cue"

// An Executor runs the contents of a unit in the context of a namespace.
//
// Errors returned by Exec are passed on to the caller of a lookup or an
// eager load as is. Lookups made while executing a unit must use
// [namespace.Namespace.LookupContext] with ctx: it tells the loader which
// loads are already in progress.
type Executor interface {
	Exec(ctx context.Context, ns *namespace.Namespace, filename string, src []byte) error
}

// ExecFunc adapts an ordinary function to the Executor interface.
type ExecFunc func(ctx context.Context, ns *namespace.Namespace, filename string, src []byte) error

func (f ExecFunc) Exec(ctx context.Context, ns *namespace.Namespace, filename string, src []byte) error {
	return f(ctx, ns, filename, src)
}

// A Config configures a Loader.
type Config struct {
	// Dir is the root directory of the tree. Relative paths are
	// interpreted relative to the current working directory.
	// Error messages always report absolute paths.
	Dir string

	// FS provides the contents of Dir. Names passed to it are
	// slash-separated and relative to Dir. It defaults to os.DirFS(Dir).
	FS fs.FS

	// Root is the namespace that the top level of the tree declares into.
	// A new root namespace is used if it is nil.
	Root *namespace.Namespace

	// Inflector computes the identifiers for file and directory names.
	// It defaults to a zero *inflect.Default.
	Inflector inflect.Inflector

	// Ignore holds glob patterns, in the syntax of path.Match, of entries
	// to leave out of the tree. Relative patterns are matched against the
	// slash-separated path relative to Dir, absolute patterns against the
	// absolute path. An ignored directory is left out with all its
	// contents.
	Ignore []string

	// Extension is the file extension of units. It defaults to
	// DefaultExtension.
	Extension string

	// Executor runs the units. It defaults to a CUE executor from
	// package unit.
	Executor Executor

	// Logger receives load events. If it is nil, events are only logged
	// when LAZYNS_DEBUG=trace is set.
	Logger tracelog.Logger
}

func (c Config) complete() (Config, error) {
	if err := lazynsdebug.Init(); err != nil {
		return Config{}, err
	}
	if c.Dir == "" {
		c.Dir = "."
	}
	dir, err := filepath.Abs(c.Dir)
	if err != nil {
		return Config{}, err
	}
	c.Dir = dir
	if c.FS == nil {
		c.FS = os.DirFS(c.Dir)
	}
	if c.Root == nil {
		c.Root = namespace.NewRoot()
	}
	if c.Inflector == nil {
		c.Inflector = &inflect.Default{}
	}
	if c.Extension == "" {
		c.Extension = DefaultExtension
	}
	if c.Executor == nil {
		c.Executor = unit.NewExecutor()
	}
	if c.Logger == nil && lazynsdebug.Flags.Trace {
		c.Logger = tracelog.SlogLogger{}
	}
	for _, p := range c.Ignore {
		if _, err := path.Match(p, ""); err != nil {
			return Config{}, fmt.Errorf("invalid ignore pattern %q: %w", p, err)
		}
	}
	return c, nil
}

// abs returns the absolute path for the slash-separated path rel.
func (c *Config) abs(rel string) string {
	if rel == "." {
		return c.Dir
	}
	return filepath.Join(c.Dir, filepath.FromSlash(rel))
}

// ignored reports whether rel matches any of the Ignore patterns.
func (c *Config) ignored(rel string) bool {
	for _, p := range c.Ignore {
		name := rel
		if filepath.IsAbs(p) {
			p, name = filepath.ToSlash(p), filepath.ToSlash(c.abs(rel))
		}
		if ok, _ := path.Match(p, name); ok {
			return true
		}
	}
	return false
}

// within reports whether filename is Dir or lies below it.
func (c *Config) within(filename string) bool {
	if filename == "" {
		return false
	}
	rel, err := filepath.Rel(c.Dir, filename)
	if err != nil {
		return false
	}
	return rel == "." || filepath.IsLocal(rel)
}
