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

package lazynstest

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestCondition(t *testing.T) {
	ok, err := Condition("short")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(ok, testing.Short()))

	_, err = Condition("long")
	qt.Assert(t, qt.ErrorMatches(err, `unknown condition long`))
}
