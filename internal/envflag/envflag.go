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

// Package envflag populates structs of flags from environment variables
// such as LAZYNS_DEBUG.
package envflag

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// Init calls Parse with the value of the environment variable envVar.
func Init[T any](flags *T, envVar string) error {
	if err := Parse(flags, os.Getenv(envVar)); err != nil {
		return fmt.Errorf("cannot parse %s: %w", envVar, err)
	}
	return nil
}

// Parse sets the fields of flags to their defaults and then applies the
// settings in env.
//
// env is a comma-separated list of name=value pairs, where name is the
// lower-cased name of a field. For boolean fields "name" is short for
// "name=true". Empty elements are ignored.
//
// Defaults other than the zero value are declared with a struct tag:
//
//	Eager bool `envflag:"default:true"`
//
// Supported field kinds are bool, int and string.
func Parse[T any](flags *T, env string) error {
	v := reflect.ValueOf(flags).Elem()
	fields, err := collect(v)
	if err != nil {
		return err
	}

	var errs []error
	for _, elem := range strings.Split(env, ",") {
		if elem == "" {
			continue
		}
		name, str, hasValue := strings.Cut(elem, "=")
		f, ok := fields[name]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown flag %q", elem))
			continue
		}
		if !hasValue {
			if f.Kind() != reflect.Bool {
				errs = append(errs, fmt.Errorf("value needed for %s flag %q", f.Kind(), name))
				continue
			}
			str = "true"
		}
		if err := set(f, name, str); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// collect indexes the fields of v by lower-cased name and applies defaults.
func collect(v reflect.Value) (map[string]reflect.Value, error) {
	t := v.Type()
	fields := make(map[string]reflect.Value, t.NumField())
	for i := range t.NumField() {
		sf := t.Field(i)
		name := strings.ToLower(sf.Name)
		fv := v.Field(i)
		fv.SetZero()
		if tag, ok := sf.Tag.Lookup("envflag"); ok {
			def, ok := strings.CutPrefix(tag, "default:")
			if !ok {
				return nil, fmt.Errorf("unknown envflag tag %q", tag)
			}
			if err := set(fv, name, def); err != nil {
				return nil, err
			}
		}
		fields[name] = fv
	}
	return fields, nil
}

func set(f reflect.Value, name, str string) error {
	switch f.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(str)
		if err != nil {
			return invalidf("invalid bool value for %s: %v", name, err)
		}
		f.SetBool(b)
	case reflect.Int:
		n, err := strconv.Atoi(str)
		if err != nil {
			return invalidf("invalid int value for %s: %v", name, err)
		}
		f.SetInt(int64(n))
	case reflect.String:
		f.SetString(str)
	default:
		return invalidf("unsupported kind %s for %s", f.Kind(), name)
	}
	return nil
}

// ErrInvalid is matched by errors for malformed values.
var ErrInvalid = errors.New("invalid value")

type invalidError struct{ error }

func (invalidError) Is(err error) bool { return err == ErrInvalid }

func invalidf(format string, args ...any) error {
	return invalidError{fmt.Errorf(format, args...)}
}
