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

// Package lazynsdebug holds the debug flags set through LAZYNS_DEBUG.
package lazynsdebug

import (
	"sync"

	"cuelabs.dev/go/lazyns/internal/envflag"
)

// Flags holds the LAZYNS_DEBUG flags. It is initialized by Init.
var Flags Config

// Config holds the set of known LAZYNS_DEBUG flags.
type Config struct {
	// Trace logs every load, verification and eager walk as a structured
	// log/slog event.
	Trace bool

	// Eager makes commands that resolve names lazily load the whole tree
	// first, which turns any naming mismatch into an error up front.
	Eager bool
}

// Init initializes Flags. It is safe to call more than once; only the
// first call reads the environment.
func Init() error {
	return initOnce()
}

var initOnce = sync.OnceValue(func() error {
	return envflag.Init(&Flags, "LAZYNS_DEBUG")
})
