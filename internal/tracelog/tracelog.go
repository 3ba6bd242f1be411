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

// Package tracelog defines the events reported while a tree of units is
// being loaded, and a log/slog based logger for them.
package tracelog

import (
	"context"
	"log/slog"
)

// Logger logs load events.
type Logger interface {
	Log(ctx context.Context, kind EventKind, e *Event)
}

// EventKind identifies a kind of event.
type EventKind int

const (
	NoEvent EventKind = iota

	// KindLoad is logged before the unit backing a name is executed.
	KindLoad

	// KindLoaded is logged when a name was verified after its load.
	KindLoaded

	// KindFailed is logged when a load ends in an error.
	KindFailed

	// KindVivify is logged when a namespace is created for a directory
	// without a unit of its own.
	KindVivify

	// KindEager is logged at the start of an eager walk.
	KindEager

	// KindReentered is logged when a unit refers to a name whose load is
	// already in progress.
	KindReentered
)

func (k EventKind) String() string {
	switch k {
	case KindLoad:
		return "load"
	case KindLoaded:
		return "loaded"
	case KindFailed:
		return "failed"
	case KindVivify:
		return "vivify"
	case KindEager:
		return "eager"
	case KindReentered:
		return "reentered"
	default:
		return "unknown"
	}
}

// Event holds the details of a single event.
type Event struct {
	// Session identifies the loader session that logged the event.
	Session string `json:"session"`

	// Name is the qualified name involved, if any.
	Name string `json:"name,omitempty"`

	// Filename is the absolute path of the unit or directory, if any.
	Filename string `json:"filename,omitempty"`

	// Error holds the error message of a failed load.
	Error string `json:"error,omitempty"`
}

func (e *Event) attrs() []slog.Attr {
	attrs := []slog.Attr{slog.String("session", e.Session)}
	if e.Name != "" {
		attrs = append(attrs, slog.String("name", e.Name))
	}
	if e.Filename != "" {
		attrs = append(attrs, slog.String("filename", e.Filename))
	}
	if e.Error != "" {
		attrs = append(attrs, slog.String("error", e.Error))
	}
	return attrs
}

// SlogLogger implements Logger by writing to a [*slog.Logger].
type SlogLogger struct {
	// Logger is used for output. If it is nil, slog.Default is used.
	Logger *slog.Logger
	Level  slog.Level
}

func (l SlogLogger) Log(ctx context.Context, kind EventKind, e *Event) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.LogAttrs(ctx, l.Level, kind.String(), e.attrs()...)
}
