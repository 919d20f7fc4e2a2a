package main

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/namanag97/venomqa-sub007/pkg/runconfig"
)

// ValidateCmd validates a run configuration file.
type ValidateCmd struct {
	Config string `arg:"" name:"config" help:"Run configuration file path." placeholder:"PATH"`

	Format      string `short:"f" help:"Output format: compact, verbose, json." default:"compact" enum:"compact,verbose,json"`
	PrintConfig bool   `short:"p" name:"print-config" help:"Print the expanded configuration (defaults applied, env vars resolved)."`
}

// Run loads and validates the config file, reporting either the
// expanded configuration or a load/validation error.
func (c *ValidateCmd) Run(_ *CLI) error {
	_ = runconfig.LoadDotEnvForConfig(c.Config)

	cfg, err := runconfig.Load(c.Config)
	if err != nil {
		return c.printLoadError(err)
	}

	if c.PrintConfig {
		return c.printConfig(cfg)
	}

	c.printSuccess()
	return nil
}

func (c *ValidateCmd) printLoadError(err error) error {
	switch c.Format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]any{"valid": false, "file": c.Config, "error": err.Error()})
	case "verbose":
		fmt.Fprintf(os.Stderr, "Configuration Load Error\n========================\n\n")
		fmt.Fprintf(os.Stderr, "File:  %s\nError: %s\n", c.Config, err)
	default:
		fmt.Fprintf(os.Stderr, "%s: invalid: %s\n", c.Config, err)
	}
	return fmt.Errorf("run config validation failed")
}

func (c *ValidateCmd) printSuccess() {
	switch c.Format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]any{"valid": true, "file": c.Config})
	case "verbose":
		fmt.Fprintf(os.Stdout, "Configuration Validation Successful\n====================================\n\n")
		fmt.Fprintf(os.Stdout, "File:   %s\nStatus: OK valid\n", c.Config)
	default:
		fmt.Fprintf(os.Stdout, "%s: valid\n", c.Config)
	}
}

func (c *ValidateCmd) printConfig(cfg *runconfig.Config) error {
	if c.Format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("encode config as json: %w", err)
		}
		return nil
	}
	fmt.Fprintf(os.Stdout, "# Expanded configuration from: %s\n# (defaults applied, env vars resolved)\n\n", c.Config)
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config as yaml: %w", err)
	}
	return nil
}
