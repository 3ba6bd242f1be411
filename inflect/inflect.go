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

// Package inflect maps the base names of files and directories to the
// identifiers they are expected to declare.
//
// The default rule turns snake_case into CamelCase:
//
//	user          User
//	html_parser   HtmlParser
//	v2_api        V2Api
//
// Separators other than an underscore are kept as is, so that a base name
// such as foo-bar yields the invalid identifier Foo-bar. Callers are expected
// to reject such results with [IsValid].
package inflect

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// An Inflector computes the identifier for a file or directory.
//
// basename is the name of the entry without its unit extension, abspath
// is the absolute path of the entry.
type Inflector interface {
	Camelize(basename, abspath string) string
}

// Func adapts an ordinary function to the Inflector interface.
type Func func(basename, abspath string) string

func (f Func) Camelize(basename, abspath string) string { return f(basename, abspath) }

// Default is the default Inflector. The zero value uses only [Camelize].
//
// Overrides are consulted before the default rule, exact paths first.
type Default struct {
	// Paths maps absolute paths to identifiers.
	Paths map[string]string

	// Names maps base names to identifiers, for instance
	// "html_parser" to "HTMLParser".
	Names map[string]string
}

// Camelize implements Inflector.
func (d *Default) Camelize(basename, abspath string) string {
	if d != nil {
		if s, ok := d.Paths[abspath]; ok {
			return s
		}
		if s, ok := d.Names[basename]; ok {
			return s
		}
	}
	return Camelize(basename)
}

// Inflect adds base name overrides to d.
func (d *Default) Inflect(names map[string]string) {
	if d.Names == nil {
		d.Names = make(map[string]string, len(names))
	}
	for k, v := range names {
		d.Names[k] = v
	}
}

// Camelize applies the default rule to basename: it is split on
// underscores and the first rune of each segment is upper-cased.
func Camelize(basename string) string {
	// A Caser is stateful, so each call gets its own.
	upper := cases.Upper(language.Und)
	var b strings.Builder
	b.Grow(len(basename))
	for _, seg := range strings.Split(basename, "_") {
		if seg == "" {
			continue
		}
		_, size := utf8.DecodeRuneInString(seg)
		b.WriteString(upper.String(seg[:size]))
		b.WriteString(seg[size:])
	}
	return b.String()
}

// IsValid reports whether ident is a valid identifier: an upper-case
// letter followed by letters, digits and underscores.
func IsValid(ident string) bool {
	if ident == "" {
		return false
	}
	for i, r := range ident {
		switch {
		case i == 0:
			if !unicode.IsUpper(r) {
				return false
			}
		case isLetter(r), isDigit(r), r == '_':
		default:
			return false
		}
	}
	return true
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch >= utf8.RuneSelf && unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9' || ch >= utf8.RuneSelf && unicode.IsDigit(ch)
}
