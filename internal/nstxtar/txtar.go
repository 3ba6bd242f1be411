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

// Package nstxtar runs golden tests over unit trees stored in txtar
// archives.
package nstxtar

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"cuelang.org/go/cue/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/rogpeppe/go-internal/txtar"

	"cuelabs.dev/go/lazyns/internal/lazynstest"
)

// A TxTarTest represents a test run that processes all tests in the txtar
// format rooted in a given directory.
type TxTarTest struct {
	// Run TxTarTest on this directory.
	Root string

	// Name is a unique name for this test. The golden file for this test is
	// derived from the out/<name> file in the .txtar file.
	Name string
}

// A Test represents a single test based on a .txtar file.
//
// A Test embeds *testing.T and should be used to report errors.
//
// Output written to a Test is compared against the golden file for the test
// in the archive. If the test fails and updating is enabled, the archive is
// updated and written to disk.
type Test struct {
	// Allow Test to be used as a T.
	*testing.T

	prefix   string
	buf      *bytes.Buffer // the default buffer
	outFiles []file

	Archive *txtar.Archive
}

type file struct {
	name string
	buf  *bytes.Buffer
}

func (t *Test) Write(b []byte) (n int, err error) {
	if t.buf == nil {
		t.buf = &bytes.Buffer{}
		t.outFiles = append(t.outFiles, file{t.prefix, t.buf})
	}
	return t.buf.Write(b)
}

// HasTag reports whether the archive comment has a line #key.
func (t *Test) HasTag(key string) bool {
	prefix := []byte("#" + key)
	s := bufio.NewScanner(bytes.NewReader(t.Archive.Comment))
	for s.Scan() {
		if bytes.Equal(bytes.TrimSpace(s.Bytes()), prefix) {
			return true
		}
	}
	return false
}

// Values returns the values of all lines #key: value in the archive
// comment, in order.
func (t *Test) Values(key string) []string {
	prefix := []byte("#" + key + ":")
	var values []string
	s := bufio.NewScanner(bytes.NewReader(t.Archive.Comment))
	for s.Scan() {
		b := s.Bytes()
		if bytes.HasPrefix(b, prefix) {
			values = append(values, string(bytes.TrimSpace(b[len(prefix):])))
		}
	}
	return values
}

// FS returns the files of the archive, leaving out the golden files.
func (t *Test) FS() fstest.MapFS {
	fsys := fstest.MapFS{}
	for _, f := range t.Archive.Files {
		if strings.HasPrefix(f.Name, "out/") {
			continue
		}
		fsys[f.Name] = &fstest.MapFile{Data: f.Data}
	}
	return fsys
}

// WriteErrors prints err in the format used by the command line tool.
func (t *Test) WriteErrors(err error) {
	if err != nil {
		errors.Print(t, err, &errors.Config{ToSlash: true})
	}
}

// Writer returns a Writer with the given name.
func (t *Test) Writer(name string) io.Writer {
	switch name {
	case "":
		name = t.prefix
	default:
		name = path.Join(t.prefix, name)
	}

	for _, f := range t.outFiles {
		if f.name == name {
			return f.buf
		}
	}

	w := &bytes.Buffer{}
	t.outFiles = append(t.outFiles, file{name, w})

	if name == t.prefix {
		t.buf = w
	}

	return w
}

// Run runs tests defined in txtar files in root or its subdirectories.
func (x *TxTarTest) Run(t *testing.T, f func(tc *Test)) {
	err := filepath.WalkDir(x.Root, func(fullpath string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(fullpath) != ".txtar" {
			return nil
		}

		rel, err := filepath.Rel(x.Root, fullpath)
		if err != nil {
			return err
		}
		testName := strings.TrimSuffix(filepath.ToSlash(rel), ".txtar")

		t.Run(testName, func(t *testing.T) {
			a, err := txtar.ParseFile(fullpath)
			if err != nil {
				t.Fatalf("error parsing txtar file: %v", err)
			}

			tc := &Test{
				T:       t,
				Archive: a,

				prefix: path.Join("out", x.Name),
			}

			if tc.HasTag("skip") {
				t.Skip()
			}

			f(tc)

			update := false
			for _, sub := range tc.outFiles {
				var gold *txtar.File
				for i, f := range a.Files {
					if f.Name == sub.name {
						gold = &a.Files[i]
					}
				}

				result := sub.buf.Bytes()

				switch {
				case gold == nil:
					a.Files = append(a.Files, txtar.File{Name: sub.name})
					gold = &a.Files[len(a.Files)-1]

				case bytes.Equal(gold.Data, result):
					continue
				}

				if lazynstest.UpdateGoldenFiles {
					update = true
					gold.Data = result
					continue
				}

				t.Errorf("result for %s differs:\n%s",
					sub.name,
					cmp.Diff(string(gold.Data), string(result)))
			}

			if update {
				err = os.WriteFile(fullpath, txtar.Format(a), 0o644)
				if err != nil {
					t.Fatal(err)
				}
			}
		})

		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
