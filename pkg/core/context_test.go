package core

import "testing"

func TestContextGetSetHasDelete(t *testing.T) {
	c := NewContext()
	if c.Has("missing") {
		t.Fatal("expected missing key to be absent")
	}
	if got := c.Get("missing", "default"); got != "default" {
		t.Errorf("expected default, got %v", got)
	}

	c.Set("todo_id", "abc")
	if !c.Has("todo_id") {
		t.Fatal("expected todo_id to be present")
	}
	if got := c.Get("todo_id", ""); got != "abc" {
		t.Errorf("expected abc, got %v", got)
	}

	c.Delete("todo_id")
	if c.Has("todo_id") {
		t.Fatal("expected todo_id to be removed")
	}
}

func TestContextClearLeavesClientsAlone(t *testing.T) {
	c := NewContext()
	c.Set("key", "value")
	c.RegisterClient("admin", "admin-handle")

	c.Clear()

	if c.Has("key") {
		t.Fatal("expected data to be cleared")
	}
	if _, err := c.GetClient("admin"); err != nil {
		t.Fatalf("expected client to survive Clear, got error: %v", err)
	}
}

func TestContextSnapshotRestoreRoundTrip(t *testing.T) {
	c := NewContext()
	c.Set("count", 3)
	c.Set("name", "milk")

	handle, err := c.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	c.Set("count", 99)
	c.Set("extra", true)

	if err := c.Restore(handle); err != nil {
		t.Fatalf("restore: %v", err)
	}

	if c.Has("extra") {
		t.Error("expected extra to be gone after restore")
	}
	// Restore round-trips through JSON, so numeric types widen to float64.
	if got := c.Get("count", nil); got != float64(3) {
		t.Errorf("expected count=3 (float64), got %v (%T)", got, got)
	}
	if got := c.Get("name", ""); got != "milk" {
		t.Errorf("expected name=milk, got %v", got)
	}
}

func TestContextRestoreRejectsForeignHandle(t *testing.T) {
	c := NewContext()
	if err := c.Restore("not a snapshot"); err == nil {
		t.Fatal("expected an error restoring a non-[]byte handle")
	}
}

func TestContextClientsDisjointFromSnapshot(t *testing.T) {
	c := NewContext()
	c.RegisterClient("admin", 42)

	handle, err := c.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if err := c.Restore(handle); err != nil {
		t.Fatalf("restore: %v", err)
	}

	v, err := c.GetClient("admin")
	if err != nil {
		t.Fatalf("expected admin client to survive restore, got %v", err)
	}
	if v != 42 {
		t.Errorf("expected 42, got %v", v)
	}
}

func TestContextGetClientUnknown(t *testing.T) {
	c := NewContext()
	c.RegisterClient("admin", 1)

	_, err := c.GetClient("guest")
	if err == nil {
		t.Fatal("expected an error for an unregistered client")
	}
	uc, ok := err.(*ErrUnknownClient)
	if !ok {
		t.Fatalf("expected *ErrUnknownClient, got %T", err)
	}
	if uc.Name != "guest" {
		t.Errorf("expected Name=guest, got %q", uc.Name)
	}
	if len(uc.Known) != 1 || uc.Known[0] != "admin" {
		t.Errorf("expected Known=[admin], got %v", uc.Known)
	}
}

func TestContextActionRanSurvivesRestore(t *testing.T) {
	c := NewContext()
	c.MarkActionRan("create_todo")

	if !c.ActionRan("create_todo") {
		t.Fatal("expected create_todo to be marked as ran")
	}
	if c.ActionRan("delete_todo") {
		t.Fatal("expected delete_todo to not be marked as ran")
	}

	handle, err := c.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if err := c.Restore(handle); err != nil {
		t.Fatalf("restore: %v", err)
	}

	if !c.ActionRan("create_todo") {
		t.Fatal("expected create_todo ledger to survive a snapshot/restore round trip")
	}
}
