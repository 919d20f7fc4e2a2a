package core

import "testing"

func TestVerdictPassFail(t *testing.T) {
	p := Pass()
	if !p.Passed() || p.Message() != "" {
		t.Errorf("expected a passing verdict with no message, got %+v", p)
	}

	f := Fail("todo was completed")
	if f.Passed() {
		t.Fatal("expected Fail to produce a non-passing verdict")
	}
	if f.Message() != "todo was completed" {
		t.Errorf("expected message to round-trip, got %q", f.Message())
	}
}

func TestSeverityString(t *testing.T) {
	cases := map[Severity]string{
		SeverityLow:      "low",
		SeverityMedium:   "medium",
		SeverityHigh:     "high",
		SeverityCritical: "critical",
	}
	for sev, want := range cases {
		if got := sev.String(); got != want {
			t.Errorf("Severity(%d).String() = %q, want %q", sev, got, want)
		}
	}
}

func TestResponseAssertionValidateExpectedStatus(t *testing.T) {
	ra := &ResponseAssertion{ExpectedStatus: []int{403}}

	ok, _ := ra.Validate(&ActionResult{Response: &Response{Status: 403}})
	if !ok {
		t.Fatal("expected 403 to satisfy ExpectedStatus=[403]")
	}

	ok, msg := ra.Validate(&ActionResult{Response: &Response{Status: 200}})
	if ok {
		t.Fatal("expected 200 to fail ExpectedStatus=[403]")
	}
	if msg == "" {
		t.Error("expected a diagnostic message")
	}
}

func TestResponseAssertionValidateNoResponse(t *testing.T) {
	ra := &ResponseAssertion{ExpectedStatus: []int{200}}
	ok, msg := ra.Validate(&ActionResult{})
	if ok {
		t.Fatal("expected no response to fail an ExpectedStatus assertion")
	}
	if msg == "" {
		t.Error("expected a diagnostic message")
	}
}

func TestResponseAssertionValidateDefaultSuccess(t *testing.T) {
	ra := &ResponseAssertion{}

	ok, _ := ra.Validate(&ActionResult{Response: &Response{Status: 200}})
	if !ok {
		t.Fatal("expected default assertion to pass a 200")
	}

	ok, _ = ra.Validate(&ActionResult{Response: &Response{Status: 500}})
	if ok {
		t.Fatal("expected default assertion to fail a 500")
	}
}

func TestResponseAssertionValidateExpectFailure(t *testing.T) {
	ra := &ResponseAssertion{ExpectFailure: true}

	ok, _ := ra.Validate(&ActionResult{Response: &Response{Status: 404}})
	if !ok {
		t.Fatal("expected ExpectFailure to accept a 404")
	}

	ok, _ = ra.Validate(&ActionResult{Response: &Response{Status: 200}})
	if ok {
		t.Fatal("expected ExpectFailure to reject a 200")
	}
}

func TestResponseAssertionValidateCustomCheckMessage(t *testing.T) {
	ra := &ResponseAssertion{
		Check: func(r *ActionResult) bool { return false },
	}
	_, msg := ra.Validate(&ActionResult{Response: &Response{Status: 200}})
	if msg != "custom assertion failed" {
		t.Errorf("expected default custom-assertion message, got %q", msg)
	}
}
