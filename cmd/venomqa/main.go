// Copyright 2025 Kadir Pekel
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

// Command venomqa is the CLI entrypoint for running a venomqa
// exploration.
//
// Usage:
//
//	venomqa validate run.yaml
//	venomqa todo-demo --max-steps 30 --format json
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/alecthomas/kong"
)

// CLI defines the command-line interface.
type CLI struct {
	Version  VersionCmd  `cmd:"" help:"Show version information."`
	Validate ValidateCmd `cmd:"" help:"Validate a run configuration file."`
	TodoDemo TodoDemoCmd `cmd:"" name:"todo-demo" help:"Run the bundled todo example and report any violations found."`

	LogLevel  string `help:"Log level (debug, info, warn, error)." default:"info" env:"VENOMQA_LOG_LEVEL"`
	LogFile   string `help:"Log file path (empty = stderr)."`
	LogFormat string `help:"Log format (simple, verbose, or custom)." default:"simple" env:"VENOMQA_LOG_FORMAT"`
}

// VersionCmd prints the build version.
type VersionCmd struct{}

// Run prints the module's build version, falling back to "dev" when
// none is embedded (e.g. a `go run` invocation).
func (c *VersionCmd) Run() error {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Printf("venomqa version %s\n", version)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("venomqa"),
		kong.Description("Stateful, exploration-driven API testing."),
		kong.UsageOnError(),
	)

	level, file, cleanup, err := initLogger(cli.LogLevel, cli.LogFile, cli.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}
	slog.Debug("logger initialized", "level", level, "file", file, "format", cli.LogFormat)

	if err := ctx.Run(&cli); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
