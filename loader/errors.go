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
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Reason tells apart the ways in which a name can fail to be defined.
type Reason int

const (
	// ReasonUndefined means the unit was executed but did not declare
	// the expected name.
	ReasonUndefined Reason = iota

	// ReasonNamespaceNotLoaded means the namespace the unit belongs to
	// was never declared, so the unit could not be executed.
	ReasonNamespaceNotLoaded
)

func (r Reason) String() string {
	switch r {
	case ReasonUndefined:
		return "undefined"
	case ReasonNamespaceNotLoaded:
		return "namespace not loaded"
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// A NameError reports that a file or directory did not define the name it
// is expected to define.
type NameError struct {
	// Name is the expected identifier.
	Name string

	// Filename is the absolute path of the unit or directory.
	Filename string

	// Namespace is the display name of the enclosing namespace.
	Namespace string

	Reason Reason
}

var _ errors.Error = (*NameError)(nil)

func (e *NameError) Position() token.Pos         { return token.NoPos }
func (e *NameError) InputPositions() []token.Pos { return nil }
func (e *NameError) Path() []string              { return nil }

func (e *NameError) Msg() (format string, args []interface{}) {
	return "expected %s to define %s in the %s namespace",
		[]interface{}{e.Filename, e.Name, e.Namespace}
}

func (e *NameError) Error() string {
	format, args := e.Msg()
	return fmt.Sprintf(format, args...)
}

// An InvalidIdentifierError reports that the inflector produced an
// invalid identifier for a file or directory.
type InvalidIdentifierError struct {
	// Name is the identifier as returned by the inflector.
	Name string

	// Filename is the absolute path of the file or directory.
	Filename string

	// Dir is set if Filename is a directory.
	Dir bool
}

var _ errors.Error = (*InvalidIdentifierError)(nil)

func (e *InvalidIdentifierError) Position() token.Pos         { return token.NoPos }
func (e *InvalidIdentifierError) InputPositions() []token.Pos { return nil }
func (e *InvalidIdentifierError) Path() []string              { return nil }

func (e *InvalidIdentifierError) Msg() (format string, args []interface{}) {
	kind := "file"
	if e.Dir {
		kind = "directory"
	}
	return `wrong identifier %s inferred by the inflector from %s

  %s

Possible ways to address this:

  * Tell the loader to ignore this particular %s.
  * Tell the loader to ignore one of its parent directories.
  * Rename the %s to comply with the naming conventions.
  * Modify the inflector to handle this case.`,
		[]interface{}{e.Name, kind, e.Filename, kind, kind}
}

func (e *InvalidIdentifierError) Error() string {
	format, args := e.Msg()
	return fmt.Sprintf(format, args...)
}
