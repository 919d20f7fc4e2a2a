// Package runconfig loads the parameters that shape one exploration
// run: how many steps to take, which strategy drives it, where the
// system under test lives, and how to log and export telemetry.
//
// This is deliberately NOT a DSL for describing actions or invariants
// — those stay Go code, registered directly against a graph.Graph.
// runconfig only carries the ambient knobs a CLI invocation needs.
package runconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/namanag97/venomqa-sub007/pkg/metrics"
	"github.com/namanag97/venomqa-sub007/pkg/tracing"
)

// Config is the full set of run parameters, loadable from a YAML (or
// JSON) file. Values in the file may reference environment variables
// through ${VAR} expansion; a loaded Config is not otherwise merged
// with CLI flags.
type Config struct {
	// BaseURL is the root URL of the system under test.
	BaseURL string `yaml:"base_url"`

	// MaxSteps bounds how many actions an Agent will take in one run.
	MaxSteps int `yaml:"max_steps"`

	// Strategy selects the exploration strategy: bfs, dfs, random,
	// weighted, or coverage.
	Strategy string `yaml:"strategy"`

	// Seed seeds the random and weighted strategies for reproducible
	// runs.
	Seed int64 `yaml:"seed"`

	// Weights gives per-action weights for the weighted strategy.
	// Actions not listed default to weight 1.0.
	Weights map[string]float64 `yaml:"weights,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// LogFile is a path to append logs to; empty means stderr.
	LogFile string `yaml:"log_file,omitempty"`

	// LogFormat is simple, verbose, or anything else to fall back to
	// slog's standard text rendering.
	LogFormat string `yaml:"log_format"`

	// Metrics configures Prometheus instrumentation.
	Metrics metrics.Config `yaml:"metrics,omitempty"`

	// Tracing configures OpenTelemetry span export.
	Tracing tracing.Config `yaml:"tracing,omitempty"`
}

// SetDefaults fills in zero-valued fields.
func (c *Config) SetDefaults() {
	if c.MaxSteps == 0 {
		c.MaxSteps = 500
	}
	if c.Strategy == "" {
		c.Strategy = "bfs"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "simple"
	}
	c.Metrics.SetDefaults()
	c.Tracing.SetDefaults()
}

// Validate checks Config for errors.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("max_steps must be positive, got %d", c.MaxSteps)
	}
	switch c.Strategy {
	case "bfs", "dfs", "random", "weighted", "coverage":
	default:
		return fmt.Errorf("invalid strategy %q (valid: bfs, dfs, random, weighted, coverage)", c.Strategy)
	}
	return nil
}

// Load reads a YAML or JSON run config file from path, expanding
// ${VAR} / $VAR references against the environment before decoding.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run config: %w", err)
	}

	rawMap, err := parseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse run config: %w", err)
	}
	expanded := expandEnvVars(rawMap)

	cfg := &Config{}
	if err := decodeConfig(expanded, cfg); err != nil {
		return nil, fmt.Errorf("decode run config: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate run config: %w", err)
	}
	return cfg, nil
}

func parseBytes(data []byte) (map[string]any, error) {
	var result map[string]any
	if err := yaml.Unmarshal(data, &result); err == nil {
		return result, nil
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("not valid YAML or JSON: %w", err)
	}
	return result, nil
}

func decodeConfig(input map[string]any, output *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           output,
		TagName:          "yaml",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}
	return decoder.Decode(input)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

func expandEnvVars(input map[string]any) map[string]any {
	result := make(map[string]any, len(input))
	for k, v := range input {
		result[k] = expandValue(v)
	}
	return result
}

func expandValue(v any) any {
	switch val := v.(type) {
	case string:
		return expandEnvString(val)
	case map[string]any:
		return expandEnvVars(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = expandValue(item)
		}
		return out
	default:
		return v
	}
}

func expandEnvString(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if strings.HasPrefix(match, "${") {
			inner := match[2 : len(match)-1]
			if idx := strings.Index(inner, ":-"); idx != -1 {
				varName, defaultVal := inner[:idx], inner[idx+2:]
				if val := os.Getenv(varName); val != "" {
					return val
				}
				return defaultVal
			}
			return os.Getenv(inner)
		}
		return os.Getenv(match[1:])
	})
}
