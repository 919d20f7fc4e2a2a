package core

import "testing"

func TestHasContext(t *testing.T) {
	qc := NewContext()
	p := HasContext("todo_id")

	if p.Eval(&EvalInputs{Context: qc}) {
		t.Fatal("expected false before todo_id is set")
	}

	qc.Set("todo_id", "1")
	if !p.Eval(&EvalInputs{Context: qc}) {
		t.Fatal("expected true once todo_id is set")
	}
	if p.Kind() != PreconditionContext {
		t.Errorf("expected PreconditionContext, got %v", p.Kind())
	}
}

func TestHasContextValue(t *testing.T) {
	qc := NewContext()
	qc.Set("status", "done")
	p := HasContextValue("status", "done")

	if !p.Eval(&EvalInputs{Context: qc}) {
		t.Fatal("expected match on equal value")
	}

	qc.Set("status", "pending")
	if p.Eval(&EvalInputs{Context: qc}) {
		t.Fatal("expected no match once value changes")
	}
}

func TestActionRanPrecondition(t *testing.T) {
	qc := NewContext()
	p := ActionRan("create_todo")

	if p.Eval(&EvalInputs{Context: qc}) {
		t.Fatal("expected false before create_todo runs")
	}

	qc.MarkActionRan("create_todo")
	if !p.Eval(&EvalInputs{Context: qc}) {
		t.Fatal("expected true after create_todo runs")
	}
}

func TestStateCheckPrecondition(t *testing.T) {
	p := StateCheck(func(s *State) bool {
		obs, ok := s.GetObservation("todos")
		return ok && obs.Get("count", 0) == 2
	})
	if p.Kind() != PreconditionState {
		t.Fatalf("expected PreconditionState, got %v", p.Kind())
	}

	s := NewState(map[string]Observation{"todos": NewObservation("todos", map[string]any{"count": 2})})
	if !p.Eval(&EvalInputs{State: s}) {
		t.Fatal("expected predicate to pass for count=2")
	}
}

type fakeResources struct {
	exists map[string]bool
}

func (f *fakeResources) ResourceExists(resourceType, id string) bool {
	return f.exists[resourceType+":"+id]
}

func TestRequiresResources(t *testing.T) {
	qc := NewContext()
	qc.Set("todo_id", "abc")
	resources := &fakeResources{exists: map[string]bool{"todo:abc": true}}

	p := RequiresResources("todo")
	if p.Kind() != PreconditionResource {
		t.Fatalf("expected PreconditionResource, got %v", p.Kind())
	}
	if !p.Eval(&EvalInputs{Context: qc, Resources: resources}) {
		t.Fatal("expected resource check to pass when the resource exists")
	}

	qc.Set("todo_id", "missing")
	if p.Eval(&EvalInputs{Context: qc, Resources: resources}) {
		t.Fatal("expected resource check to fail when the resource does not exist")
	}
}

func TestRequiresResourcesNilGraphFails(t *testing.T) {
	p := RequiresResources("todo")
	qc := NewContext()
	if p.Eval(&EvalInputs{Context: qc, Resources: nil}) {
		t.Fatal("expected a nil resource graph to always fail")
	}
}
