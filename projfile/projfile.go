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

// Package projfile reads the optional project file at the root of a unit
// tree. It looks like this:
//
//	ignore:
//	  - vendor
//	  - "*/testdata"
//	inflections:
//	  html_parser: HTMLParser
//	extension: .cue
package projfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"cuelabs.dev/go/lazyns/inflect"
	"cuelabs.dev/go/lazyns/loader"
)

// Name is the name of the project file.
const Name = "lazyns.yaml"

// File holds the contents of a project file.
type File struct {
	// Ignore holds glob patterns of files and directories to leave out.
	Ignore []string `yaml:"ignore,omitempty"`

	// Inflections maps base names to identifiers.
	Inflections map[string]string `yaml:"inflections,omitempty"`

	// Extension overrides the unit file extension.
	Extension string `yaml:"extension,omitempty"`
}

// Read reads the project file from the root of fsys. It returns a nil
// File and no error if there is none.
func Read(fsys fs.FS) (*File, error) {
	data, err := fs.ReadFile(fsys, Name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return Parse(Name, data)
}

// Parse parses and validates the contents of a project file. Unknown keys
// are an error.
func Parse(filename string, data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return &f, nil
}

func (f *File) validate() error {
	for _, p := range f.Ignore {
		if _, err := path.Match(p, ""); err != nil {
			return fmt.Errorf("invalid ignore pattern %q", p)
		}
	}
	for base, ident := range f.Inflections {
		if !inflect.IsValid(ident) {
			return fmt.Errorf("inflection for %q: invalid identifier %q", base, ident)
		}
	}
	if f.Extension != "" && !strings.HasPrefix(f.Extension, ".") {
		return fmt.Errorf("extension %q must start with a dot", f.Extension)
	}
	return nil
}

// Apply adds the settings of f to cfg. An extension or base name override
// already set in cfg takes precedence; a custom Inflector is consulted only
// for base names without an inflection in f. A nil File leaves cfg
// unchanged.
func (f *File) Apply(cfg *loader.Config) {
	if f == nil {
		return
	}
	cfg.Ignore = append(cfg.Ignore, f.Ignore...)
	if cfg.Extension == "" {
		cfg.Extension = f.Extension
	}
	if len(f.Inflections) == 0 {
		return
	}
	switch in := cfg.Inflector.(type) {
	case nil:
		d := &inflect.Default{}
		d.Inflect(f.Inflections)
		cfg.Inflector = d
	case *inflect.Default:
		for base, ident := range f.Inflections {
			if _, ok := in.Names[base]; !ok {
				in.Inflect(map[string]string{base: ident})
			}
		}
	default:
		names := f.Inflections
		cfg.Inflector = inflect.Func(func(basename, abspath string) string {
			if s, ok := names[basename]; ok {
				return s
			}
			return in.Camelize(basename, abspath)
		})
	}
}
