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

package projfile

import (
	"testing"
	"testing/fstest"

	"github.com/go-quicktest/qt"

	"cuelabs.dev/go/lazyns/inflect"
	"cuelabs.dev/go/lazyns/loader"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name    string
		data    string
		want    *File
		wantErr string
	}{{
		name: "Empty",
		data: "",
		want: &File{},
	}, {
		name: "All",
		data: `
ignore:
  - vendor
  - "*/testdata"
inflections:
  html_parser: HTMLParser
extension: .unit
`,
		want: &File{
			Ignore:      []string{"vendor", "*/testdata"},
			Inflections: map[string]string{"html_parser": "HTMLParser"},
			Extension:   ".unit",
		},
	}, {
		name:    "UnknownKey",
		data:    "ignored: [x]\n",
		wantErr: `(?s)lazyns.yaml: yaml: .*field ignored not found in type projfile.File`,
	}, {
		name:    "BadPattern",
		data:    "ignore: ['[']\n",
		wantErr: `lazyns.yaml: invalid ignore pattern "\["`,
	}, {
		name:    "BadInflection",
		data:    "inflections: {foo_bar: foo-bar}\n",
		wantErr: `lazyns.yaml: inflection for "foo_bar": invalid identifier "foo-bar"`,
	}, {
		name:    "BadExtension",
		data:    "extension: cue\n",
		wantErr: `lazyns.yaml: extension "cue" must start with a dot`,
	}}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := Parse(Name, []byte(tc.data))
			if tc.wantErr != "" {
				qt.Assert(t, qt.ErrorMatches(err, tc.wantErr))
				return
			}
			qt.Assert(t, qt.IsNil(err))
			qt.Assert(t, qt.DeepEquals(f, tc.want))
		})
	}
}

func TestRead(t *testing.T) {
	f, err := Read(fstest.MapFS{})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsNil(f))

	f, err = Read(fstest.MapFS{
		Name: &fstest.MapFile{Data: []byte("extension: .unit\n")},
	})
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(f.Extension, ".unit"))
}

func TestApply(t *testing.T) {
	f := &File{
		Ignore:      []string{"vendor"},
		Inflections: map[string]string{"html_parser": "HTMLParser", "api": "API"},
		Extension:   ".unit",
	}

	var cfg loader.Config
	f.Apply(&cfg)
	qt.Assert(t, qt.DeepEquals(cfg.Ignore, []string{"vendor"}))
	qt.Assert(t, qt.Equals(cfg.Extension, ".unit"))
	qt.Assert(t, qt.Equals(cfg.Inflector.Camelize("html_parser", "/src/html_parser.unit"), "HTMLParser"))

	d := &inflect.Default{Names: map[string]string{"api": "Api"}}
	cfg = loader.Config{Inflector: d, Extension: ".cue", Ignore: []string{"tmp"}}
	f.Apply(&cfg)
	qt.Assert(t, qt.DeepEquals(cfg.Ignore, []string{"tmp", "vendor"}))
	qt.Assert(t, qt.Equals(cfg.Extension, ".cue"))
	qt.Assert(t, qt.Equals(d.Camelize("api", "/src/api.cue"), "Api"))
	qt.Assert(t, qt.Equals(d.Camelize("html_parser", "/src/html_parser.cue"), "HTMLParser"))

	cfg = loader.Config{Inflector: inflect.Func(func(basename, abspath string) string {
		return "X"
	})}
	f.Apply(&cfg)
	qt.Assert(t, qt.Equals(cfg.Inflector.Camelize("api", ""), "API"))
	qt.Assert(t, qt.Equals(cfg.Inflector.Camelize("other", ""), "X"))

	var nilFile *File
	cfg = loader.Config{}
	nilFile.Apply(&cfg)
	qt.Assert(t, qt.IsNil(cfg.Inflector))
}
