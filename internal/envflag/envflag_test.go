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

package envflag

import (
	"testing"

	"github.com/go-quicktest/qt"
)

type debugFlags struct {
	Trace bool
	Eager bool `envflag:"default:true"`
	Depth int  `envflag:"default:3"`
	Ext   string
}

var defaults = debugFlags{Eager: true, Depth: 3}

func TestInit(t *testing.T) {
	testCases := []struct {
		name    string
		env     string
		want    debugFlags
		wantErr string
		invalid bool
	}{{
		name: "Empty",
		want: defaults,
	}, {
		name: "Commas",
		env:  ",,",
		want: defaults,
	}, {
		name: "BoolShorthand",
		env:  "trace",
		want: debugFlags{Trace: true, Eager: true, Depth: 3},
	}, {
		name: "Several",
		env:  ",trace,eager=0,depth=10,ext=.lazy,",
		want: debugFlags{Trace: true, Depth: 10, Ext: ".lazy"},
	}, {
		name: "EmptyString",
		env:  "ext=",
		want: defaults,
	}, {
		name:    "Unknown",
		env:     "trace,bogus",
		want:    debugFlags{Trace: true, Eager: true, Depth: 3},
		wantErr: `cannot parse TEST_VAR: unknown flag "bogus"`,
	}, {
		name:    "MissingValue",
		env:     "depth",
		want:    defaults,
		wantErr: `cannot parse TEST_VAR: value needed for int flag "depth"`,
	}, {
		name:    "BadBool",
		env:     "trace=2",
		want:    defaults,
		invalid: true,
	}, {
		name:    "BadInt",
		env:     "depth=",
		want:    defaults,
		invalid: true,
	}}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TEST_VAR", tc.env)
			var got debugFlags
			err := Init(&got, "TEST_VAR")
			switch {
			case tc.invalid:
				qt.Assert(t, qt.ErrorIs(err, ErrInvalid))
			case tc.wantErr != "":
				qt.Assert(t, qt.ErrorMatches(err, tc.wantErr))
			default:
				qt.Assert(t, qt.IsNil(err))
			}
			qt.Assert(t, qt.Equals(got, tc.want))
		})
	}
}

func TestParseResetsToDefaults(t *testing.T) {
	got := debugFlags{Trace: true, Depth: 99}
	qt.Assert(t, qt.IsNil(Parse(&got, "")))
	qt.Assert(t, qt.Equals(got, defaults))
}

func TestBadTag(t *testing.T) {
	var flags struct {
		X bool `envflag:"deprecated"`
	}
	err := Parse(&flags, "")
	qt.Assert(t, qt.ErrorMatches(err, `unknown envflag tag "deprecated"`))
}
