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
	"log/slog"
	"os"
	"strings"

	"cuelabs.dev/go/lazyns/inflect"
	"cuelabs.dev/go/lazyns/internal/tracelog"
	"cuelabs.dev/go/lazyns/loader"
	"cuelabs.dev/go/lazyns/projfile"
)

// newConfig returns the loader configuration for the tree at dir, taking
// the global flags and the project file into account.
func newConfig(cmd *Command, dir string) (*loader.Config, error) {
	if dir == "" {
		dir = "."
	}
	fsys := os.DirFS(dir)
	cfg := &loader.Config{
		Dir:       dir,
		FS:        fsys,
		Ignore:    flagIgnore.StringArray(cmd),
		Extension: flagExt.String(cmd),
	}
	if err := applyInflections(cfg, flagInflect.StringArray(cmd)); err != nil {
		return nil, err
	}
	if flagTrace.Bool(cmd) {
		cfg.Logger = tracelog.SlogLogger{
			Logger: slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil)),
		}
	}

	pf, err := projfile.Read(fsys)
	if err != nil {
		return nil, err
	}
	pf.Apply(cfg)
	return cfg, nil
}

func applyInflections(cfg *loader.Config, args []string) error {
	if len(args) == 0 {
		return nil
	}
	names := map[string]string{}
	for _, a := range args {
		base, name, ok := strings.Cut(a, "=")
		if !ok || base == "" {
			return fmt.Errorf("invalid --%s value %q: want base=Name", flagInflect, a)
		}
		if !inflect.IsValid(name) {
			return fmt.Errorf("invalid --%s value %q: %q is not a valid identifier", flagInflect, a, name)
		}
		names[base] = name
	}
	d := &inflect.Default{}
	d.Inflect(names)
	cfg.Inflector = d
	return nil
}

// dirAndName splits the arguments of a command taking an optional
// directory followed by a name.
func dirAndName(args []string) (dir, name string) {
	if len(args) == 2 {
		return args[0], args[1]
	}
	return "", args[0]
}
