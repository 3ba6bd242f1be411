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

// Package lazynstest is a helper package for test packages in this module.
// As such it should only be imported in _test.go files.
package lazynstest

import (
	"fmt"
	"os"
	"testing"
)

// UpdateGoldenFiles determines whether testscript scripts and txtar tests
// should update their archives in the event of cmp failures. It corresponds
// to testscript.Params.UpdateGoldenFiles.
var UpdateGoldenFiles = os.Getenv("LAZYNS_UPDATE") != ""

// Condition adds support for module-specific testscript conditions within
// testscript scripts. The canonical case being [short], which is true when
// tests run with -short.
func Condition(cond string) (bool, error) {
	switch cond {
	case "short":
		return testing.Short(), nil
	}
	return false, fmt.Errorf("unknown condition %v", cond)
}
