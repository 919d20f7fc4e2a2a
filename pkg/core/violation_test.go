package core

import (
	"strings"
	"testing"
)

func TestNewViolationUsesMessageOverride(t *testing.T) {
	inv := &Invariant{Name: "completed_todo_not_deletable", Message: "static", Severity: SeverityHigh}
	s := NewState(nil)

	v := NewViolation(inv, s, nil, nil, nil, "dynamic message")
	if v.Message != "dynamic message" {
		t.Errorf("expected override message, got %q", v.Message)
	}
	if v.InvariantName != "completed_todo_not_deletable" {
		t.Errorf("expected invariant name to carry over, got %q", v.InvariantName)
	}
	if v.Severity != SeverityHigh {
		t.Errorf("expected severity to carry over, got %v", v.Severity)
	}
	if !strings.HasPrefix(v.ID, "v_") {
		t.Errorf("expected a v_-prefixed id, got %q", v.ID)
	}
}

func TestNewViolationFallsBackToStaticMessage(t *testing.T) {
	inv := &Invariant{Name: "inv", Message: "static message"}
	v := NewViolation(inv, NewState(nil), nil, nil, nil, "")
	if v.Message != "static message" {
		t.Errorf("expected static message when no override given, got %q", v.Message)
	}
}

func TestNewAssertionViolationShape(t *testing.T) {
	v := NewAssertionViolation("delete_todo", "expected 403, got 200", NewState(nil), nil, nil, nil)
	if v.InvariantName != "response_assertion:delete_todo" {
		t.Errorf("expected response_assertion:delete_todo, got %q", v.InvariantName)
	}
	if v.Severity != SeverityMedium {
		t.Errorf("expected medium severity, got %v", v.Severity)
	}
}

func TestIsCritical(t *testing.T) {
	v := &Violation{Severity: SeverityCritical}
	if !v.IsCritical() {
		t.Fatal("expected SeverityCritical to report IsCritical")
	}
	v.Severity = SeverityHigh
	if v.IsCritical() {
		t.Fatal("expected SeverityHigh to not report IsCritical")
	}
}

func TestReproductionStepsFormatsRequests(t *testing.T) {
	req := &Request{Method: "DELETE", URL: "http://demo.local/todos/abc"}
	result := &ActionResult{Request: req}
	v := &Violation{
		ReproductionPath: []*Transition{
			{ActionName: "delete_todo", Result: result},
		},
	}

	steps := v.ReproductionSteps()
	if len(steps) != 1 {
		t.Fatalf("expected one step, got %d", len(steps))
	}
	if steps[0] != "DELETE /todos/abc" {
		t.Errorf("expected %q, got %q", "DELETE /todos/abc", steps[0])
	}
}

func TestReproductionStepsIncludesJSONBody(t *testing.T) {
	req := &Request{Method: "POST", URL: "http://demo.local/todos", Body: map[string]string{"title": "milk"}}
	v := &Violation{
		ReproductionPath: []*Transition{
			{ActionName: "create_todo", Result: &ActionResult{Request: req}},
		},
	}

	steps := v.ReproductionSteps()
	if !strings.HasPrefix(steps[0], "POST /todos ") {
		t.Errorf("expected step to start with 'POST /todos ', got %q", steps[0])
	}
	if !strings.Contains(steps[0], `"title":"milk"`) {
		t.Errorf("expected body to be included, got %q", steps[0])
	}
}

func TestReproductionStepsFallsBackWithoutRequest(t *testing.T) {
	v := &Violation{
		ReproductionPath: []*Transition{
			{ActionName: "list_todos"},
		},
	}
	steps := v.ReproductionSteps()
	if steps[0] != "[list_todos]" {
		t.Errorf("expected fallback bracketed action name, got %q", steps[0])
	}
}
