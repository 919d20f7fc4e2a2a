package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/namanag97/venomqa-sub007/examples/todo"
	"github.com/namanag97/venomqa-sub007/pkg/agent"
	"github.com/namanag97/venomqa-sub007/pkg/metrics"
	"github.com/namanag97/venomqa-sub007/pkg/runconfig"
	"github.com/namanag97/venomqa-sub007/pkg/tracing"
	"github.com/namanag97/venomqa-sub007/pkg/wire"
)

// TodoDemoCmd runs the bundled examples/todo scenario and reports the
// violations it finds. It exists so the module has something runnable
// out of the box without a real system under test to point at.
type TodoDemoCmd struct {
	Config string `help:"Optional run configuration file to override strategy, max-steps, metrics and tracing." type:"path"`

	Strategy string `help:"Exploration strategy: bfs, dfs, random, weighted, coverage." default:"bfs"`
	MaxSteps int    `name:"max-steps" help:"Maximum steps to take." default:"30"`
	Seed     int64  `help:"Seed for the random and weighted strategies."`

	Format string `help:"Result output format: json, yaml." default:"json" enum:"json,yaml"`

	MetricsAddr string `name:"metrics-addr" help:"If set, serve Prometheus metrics on this address for the duration of the run (e.g. :9100)."`
	Tracing     bool   `help:"Enable stdout OpenTelemetry tracing."`
}

// Run builds (or loads) a run configuration, wires metrics/tracing,
// explores the todo scenario, and prints the result.
func (c *TodoDemoCmd) Run(_ *CLI) error {
	cfg, err := c.resolveConfig()
	if err != nil {
		return err
	}

	if c.MetricsAddr != "" {
		cfg.Metrics.Enabled = true
	}
	rec := metrics.New(&cfg.Metrics)
	if c.MetricsAddr != "" && rec != nil {
		srv := &http.Server{Addr: c.MetricsAddr, Handler: rec.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("metrics server stopped", "error", err)
			}
		}()
		defer srv.Close()
		slog.Info("serving metrics", "addr", c.MetricsAddr)
	}

	ctx := context.Background()
	tp, shutdown, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer shutdown(ctx)
	tracer := tracing.New(tp)

	strategy, err := agent.FromName(cfg.Strategy, cfg.Seed, cfg.Weights)
	if err != nil {
		return err
	}

	scenario := todo.NewScenario(strategy, cfg.MaxSteps, agent.WithRecorder(rec), agent.WithTracer(tracer))
	defer scenario.Close()

	result := scenario.Agent.Explore(ctx)
	rw := wire.FromResult(scenario.Graph, result.Violations, result.StatesVisited, result.TransitionsTaken, result.StepsTaken, result.DurationMS, result.TerminalError)

	return c.printResult(rw)
}

func (c *TodoDemoCmd) resolveConfig() (*runconfig.Config, error) {
	if c.Config != "" {
		_ = runconfig.LoadDotEnvForConfig(c.Config)
		return runconfig.Load(c.Config)
	}

	cfg := &runconfig.Config{
		BaseURL:  "http://demo.local",
		MaxSteps: c.MaxSteps,
		Strategy: c.Strategy,
		Seed:     c.Seed,
	}
	cfg.Tracing.Enabled = c.Tracing
	cfg.SetDefaults()
	return cfg, cfg.Validate()
}

func (c *TodoDemoCmd) printResult(rw wire.ResultWire) error {
	switch c.Format {
	case "yaml":
		b, err := wire.MarshalYAML(rw)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(b)
		return err
	default:
		b, err := wire.Marshal(rw)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(b, '\n'))
		return err
	}
}
