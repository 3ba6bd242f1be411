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
	"runtime/debug"
	"testing"

	"github.com/go-quicktest/qt"
)

func TestLazynsVersion(t *testing.T) {
	vcs := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "1234567890abcdef"},
		{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
	}
	testCases := []struct {
		name     string
		linked   string
		main     string
		settings []debug.BuildSetting
		want     string
	}{{
		name: "Devel",
		main: "(devel)",
		want: "(devel)",
	}, {
		name:     "PseudoVersion",
		main:     "(devel)",
		settings: vcs,
		want:     "v0.0.0-20260102030405-1234567890ab",
	}, {
		name:     "ModuleVersion",
		main:     "v0.3.0",
		settings: vcs,
		want:     "v0.3.0",
	}, {
		name:   "Linked",
		linked: "v1.0.0",
		main:   "v0.3.0",
		want:   "v1.0.0",
	}}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			old := version
			version = tc.linked
			defer func() { version = old }()

			bi := &debug.BuildInfo{
				Main:     debug.Module{Version: tc.main},
				Settings: tc.settings,
			}
			qt.Assert(t, qt.Equals(lazynsVersion(bi), tc.want))
		})
	}
}
