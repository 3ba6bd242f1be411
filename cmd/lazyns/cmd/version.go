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
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/mod/module"
)

func newVersionCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "print lazyns version",
		Args:  cobra.NoArgs,
		RunE:  mkRunE(c, runVersion),
	}
	return cmd
}

// version is set by release builds with
// -ldflags='-X cuelabs.dev/go/lazyns/cmd/lazyns/cmd.version=<version>'.
var version string

func runVersion(cmd *Command, args []string) error {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return errors.New("no build information available")
	}
	if v := os.Getenv("LAZYNS_VERSION_TEST_CFG"); v != "" {
		var extra []debug.BuildSetting
		if err := json.Unmarshal([]byte(v), &extra); err != nil {
			return fmt.Errorf("invalid LAZYNS_VERSION_TEST_CFG: %w", err)
		}
		bi.Settings = append(bi.Settings, extra...)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "lazyns version %s\n", lazynsVersion(bi))
	fmt.Fprintf(w, "go version %s\n", runtime.Version())
	for _, s := range bi.Settings {
		if strings.HasPrefix(s.Key, "vcs.") && s.Value != "" {
			fmt.Fprintf(w, "%s %s\n", s.Key, s.Value)
		}
	}
	return nil
}

// lazynsVersion returns the version set at link time, the module version,
// or a pseudo-version derived from the VCS stamp, in that order.
func lazynsVersion(bi *debug.BuildInfo) string {
	switch v := bi.Main.Version; {
	case version != "":
		return version
	case v != "" && v != "(devel)":
		return v
	}
	var rev string
	var t time.Time
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value[:min(len(s.Value), 12)]
		case "vcs.time":
			t, _ = time.Parse(time.RFC3339Nano, s.Value)
		}
	}
	if rev == "" {
		return "(devel)"
	}
	return module.PseudoVersion("", "", t, rev)
}
