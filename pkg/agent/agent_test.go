package agent

import (
	"context"
	"testing"

	"github.com/namanag97/venomqa-sub007/pkg/core"
	"github.com/namanag97/venomqa-sub007/pkg/graph"
	"github.com/namanag97/venomqa-sub007/pkg/world"
)

// counterSystem is a tiny in-memory Rollbackable: an integer counter
// that actions can increment through a shared API stub.
type counterSystem struct {
	n int
}

func (c *counterSystem) Observe() (core.Observation, error) {
	return core.NewObservation("counter", map[string]any{"n": c.n}), nil
}

func (c *counterSystem) Checkpoint(name string) (any, error) {
	return c.n, nil
}

func (c *counterSystem) Rollback(handle any) error {
	c.n = handle.(int)
	return nil
}

type counterAPI struct {
	sys *counterSystem
}

func (a *counterAPI) Get(ctx context.Context, path string, opts ...core.RequestOption) *core.ActionResult {
	return core.FromResponse(&core.Request{Method: "GET", URL: path}, &core.Response{Status: 200}, 0)
}
func (a *counterAPI) Post(ctx context.Context, path string, opts ...core.RequestOption) *core.ActionResult {
	a.sys.n++
	return core.FromResponse(&core.Request{Method: "POST", URL: path}, &core.Response{Status: 201}, 0)
}
func (a *counterAPI) Put(ctx context.Context, path string, opts ...core.RequestOption) *core.ActionResult {
	return core.FromResponse(&core.Request{Method: "PUT", URL: path}, &core.Response{Status: 200}, 0)
}
func (a *counterAPI) Patch(ctx context.Context, path string, opts ...core.RequestOption) *core.ActionResult {
	return core.FromResponse(&core.Request{Method: "PATCH", URL: path}, &core.Response{Status: 200}, 0)
}
func (a *counterAPI) Delete(ctx context.Context, path string, opts ...core.RequestOption) *core.ActionResult {
	return core.FromResponse(&core.Request{Method: "DELETE", URL: path}, &core.Response{Status: 200}, 0)
}

func buildCounterWorld() (*world.World, *counterSystem) {
	sys := &counterSystem{}
	api := &counterAPI{sys: sys}
	w := world.New(api, world.WithSystems(map[string]world.Rollbackable{"counter": sys}))
	return w, sys
}

func incrementAction() *core.Action {
	return core.NewSimpleAction("increment", func(ctx context.Context, api core.APIClient) core.ActionResult {
		return *api.Post(ctx, "/increment")
	}, core.WithMaxCalls(3))
}

func TestExploreBoundedByMaxSteps(t *testing.T) {
	w, _ := buildCounterWorld()
	g := graph.New(incrementAction())
	a := New(w, g, NewBFS(), 2)

	result := a.Explore(context.Background())
	if result.StepsTaken != 2 {
		t.Fatalf("expected 2 steps taken, got %d", result.StepsTaken)
	}
	if result.TerminalError != "" {
		t.Fatalf("expected no terminal error, got %q", result.TerminalError)
	}
}

func TestExploreStopsAtMaxCallsCap(t *testing.T) {
	w, _ := buildCounterWorld()
	g := graph.New(incrementAction())
	a := New(w, g, NewBFS(), 100)

	result := a.Explore(context.Background())
	if result.StepsTaken != 3 {
		t.Fatalf("expected exactly 3 steps (max_calls cap), got %d", result.StepsTaken)
	}
}

func TestExploreDetectsViolation(t *testing.T) {
	w, _ := buildCounterWorld()
	action := core.NewSimpleAction("increment", func(ctx context.Context, api core.APIClient) core.ActionResult {
		return *api.Post(ctx, "/increment")
	}, core.WithMaxCalls(1))
	g := graph.New(action)

	neverAboveZero := &core.Invariant{
		Name: "counter_bounded",
		Check: func(w core.WorldView) core.Verdict {
			state, err := w.Observe()
			if err != nil {
				return core.Pass()
			}
			obs, ok := state.GetObservation("counter")
			if !ok {
				return core.Pass()
			}
			n, _ := obs.Get("n", 0).(int)
			if n > 0 {
				return core.Fail("counter went above zero")
			}
			return core.Pass()
		},
		Severity: core.SeverityHigh,
		Timing:   core.Post,
	}

	a := New(w, g, NewBFS(), 10, WithInvariants(neverAboveZero))
	result := a.Explore(context.Background())

	if len(result.Violations) != 1 {
		t.Fatalf("expected exactly 1 violation, got %d", len(result.Violations))
	}
	if result.Success() {
		t.Fatalf("expected Success() to be false once a violation is recorded")
	}
}

func TestExploreTerminalErrorOnSystemFailure(t *testing.T) {
	sys := &failingCounterSystem{}
	api := &counterAPI{sys: &counterSystem{}}
	w := world.New(api, world.WithSystems(map[string]world.Rollbackable{"broken": sys}))
	g := graph.New(incrementAction())

	a := New(w, g, NewBFS(), 5)
	result := a.Explore(context.Background())
	if result.TerminalError == "" {
		t.Fatalf("expected a terminal error from the failing system's observe")
	}
}

type failingCounterSystem struct{}

func (f *failingCounterSystem) Observe() (core.Observation, error) {
	return core.Observation{}, errObserveBoom
}
func (f *failingCounterSystem) Checkpoint(name string) (any, error) { return nil, nil }
func (f *failingCounterSystem) Rollback(handle any) error           { return nil }

var errObserveBoom = &boomError{}

type boomError struct{}

func (e *boomError) Error() string { return "observe boom" }
