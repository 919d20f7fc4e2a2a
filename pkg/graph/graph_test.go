package graph

import (
	"context"
	"testing"

	"github.com/namanag97/venomqa-sub007/pkg/core"
)

func noopAction(name string, opts ...core.ActionOption) *core.Action {
	return core.NewSimpleAction(name, func(ctx context.Context, api core.APIClient) core.ActionResult {
		return core.ActionResult{Success: true}
	}, opts...)
}

func TestAddStateSetsInitial(t *testing.T) {
	g := New()
	s := core.NewState(nil)
	g.AddState(s)
	if g.StateCount() != 1 {
		t.Fatalf("expected 1 state, got %d", g.StateCount())
	}
	if g.InitialStateID() != s.ID {
		t.Fatalf("expected initial state id %q, got %q", s.ID, g.InitialStateID())
	}
}

func TestRegisterAction(t *testing.T) {
	a := noopAction("test")
	g := New(a)
	if g.ActionCount() != 1 {
		t.Fatalf("expected 1 action, got %d", g.ActionCount())
	}
	if g.GetAction("test") != a {
		t.Fatalf("expected GetAction to return the registered action")
	}
}

func TestAddTransitionMarksExplored(t *testing.T) {
	g := New()
	result := core.FromResponse(&core.Request{Method: "GET", URL: "/"}, &core.Response{Status: 200}, 0)
	tr := core.NewTransition("s_1", "action", "s_2", result, nil)
	g.AddTransition(tr)

	if g.TransitionCount() != 1 {
		t.Fatalf("expected 1 transition, got %d", g.TransitionCount())
	}
	if !g.IsExplored("s_1", "action") {
		t.Fatalf("expected (s_1, action) to be marked explored")
	}
}

func TestGetValidActionsFiltersByPrecondition(t *testing.T) {
	a1 := noopAction("a1")
	a2 := noopAction("a2", core.WithPreconditions(core.StateCheck(func(*core.State) bool { return false })))
	g := New(a1, a2)

	state := core.NewState(nil)
	valid := g.GetValidActions(state, &core.EvalInputs{State: state, Context: core.NewContext()})
	if len(valid) != 1 || valid[0].Name() != "a1" {
		t.Fatalf("expected only a1 to be valid, got %v", namesOf(valid))
	}
}

func TestGetUnexplored(t *testing.T) {
	a := noopAction("test")
	g := New(a)

	state := core.NewState(nil)
	g.AddState(state)
	g.GetValidActions(state, &core.EvalInputs{State: state, Context: core.NewContext()})

	unexplored := g.GetUnexplored()
	if len(unexplored) != 1 {
		t.Fatalf("expected 1 unexplored pair, got %d", len(unexplored))
	}
	if unexplored[0].State.ID != state.ID || unexplored[0].Action.Name() != "test" {
		t.Fatalf("unexpected pair: %+v", unexplored[0])
	}
}

func TestGetUnexploredExcludesExploredAndCappedActions(t *testing.T) {
	a := noopAction("test", core.WithMaxCalls(1))
	g := New(a)

	state := core.NewState(nil)
	g.AddState(state)
	g.GetValidActions(state, &core.EvalInputs{State: state, Context: core.NewContext()})

	result := core.FromResponse(&core.Request{Method: "GET", URL: "/"}, &core.Response{Status: 200}, 0)
	g.AddTransition(core.NewTransition(state.ID, "test", "s_next", result, nil))

	if len(g.GetUnexplored()) != 0 {
		t.Fatalf("expected no unexplored pairs once the action hit its cap and was explored")
	}
}

func TestGetPathToShortestInsertionOrder(t *testing.T) {
	g := New()
	s1 := core.NewState(nil)
	g.AddState(s1)

	result := core.FromResponse(&core.Request{Method: "GET", URL: "/"}, &core.Response{Status: 200}, 0)
	t1 := core.NewTransition(s1.ID, "a", "s_2", result, nil)
	t2 := core.NewTransition("s_2", "b", "s_3", result, nil)
	g.AddTransition(t1)
	g.AddTransition(t2)

	path := g.GetPathTo("s_3")
	if len(path) != 2 {
		t.Fatalf("expected path length 2, got %d", len(path))
	}
	if path[0].ID != t1.ID || path[1].ID != t2.ID {
		t.Fatalf("expected path [%s %s], got [%s %s]", t1.ID, t2.ID, path[0].ID, path[1].ID)
	}
}

func TestGetPathToInitialStateIsNil(t *testing.T) {
	g := New()
	s1 := core.NewState(nil)
	g.AddState(s1)
	if path := g.GetPathTo(s1.ID); path != nil {
		t.Fatalf("expected nil path to the initial state, got %v", path)
	}
}

func TestRecordViolationOnce(t *testing.T) {
	g := New()
	if !g.RecordViolationOnce("inv", "s_1") {
		t.Fatalf("expected first record to return true")
	}
	if g.RecordViolationOnce("inv", "s_1") {
		t.Fatalf("expected second record of the same key to return false")
	}
	if !g.RecordViolationOnce("inv", "s_2") {
		t.Fatalf("expected a different state id to be a distinct key")
	}
}

func namesOf(actions []*core.Action) []string {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.Name()
	}
	return names
}
