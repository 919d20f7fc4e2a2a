package core

import (
	"encoding/json"
	"strings"
	"time"
)

// Violation is a failed invariant (or response assertion) check,
// together with enough context to reproduce it by hand: the state it
// was observed in, the action that triggered it (if any), and the
// shortest known path of transitions from the initial state.
type Violation struct {
	ID               string
	InvariantName    string
	State            *State
	Message          string
	Severity         Severity
	Action           *Action
	ActionResult     *ActionResult
	ReproductionPath []*Transition
	Timestamp        time.Time
}

// NewViolation builds a Violation from an Invariant and the state it
// failed in. messageOverride, when non-empty, replaces the
// invariant's static Message — this is how a Verdict's dynamic
// message (spec §4.6) reaches the violation.
func NewViolation(inv *Invariant, state *State, action *Action, result *ActionResult, path []*Transition, messageOverride string) *Violation {
	msg := inv.Message
	if messageOverride != "" {
		msg = messageOverride
	}
	return &Violation{
		ID:               "v_" + shortID(),
		InvariantName:    inv.Name,
		State:            state,
		Message:          msg,
		Severity:         inv.Severity,
		Action:           action,
		ActionResult:     result,
		ReproductionPath: path,
		Timestamp:        time.Now(),
	}
}

// NewAssertionViolation builds the synthetic violation a failed
// response assertion produces: severity MEDIUM, name
// "response_assertion:<action>" (spec §4.5).
func NewAssertionViolation(actionName, message string, state *State, action *Action, result *ActionResult, path []*Transition) *Violation {
	return &Violation{
		ID:               "v_" + shortID(),
		InvariantName:    "response_assertion:" + actionName,
		State:            state,
		Message:          message,
		Severity:         SeverityMedium,
		Action:           action,
		ActionResult:     result,
		ReproductionPath: path,
		Timestamp:        time.Now(),
	}
}

// IsCritical reports whether this violation is CRITICAL severity.
func (v *Violation) IsCritical() bool {
	return v.Severity == SeverityCritical
}

// ReproductionSteps renders the reproduction path as human-readable
// lines of the form "<METHOD> <path>[ <json-body>]", one per
// transition, so a person can replay the bug by eye (spec §4.6).
func (v *Violation) ReproductionSteps() []string {
	steps := make([]string, 0, len(v.ReproductionPath))
	for _, t := range v.ReproductionPath {
		if t.Result != nil && t.Result.Request != nil {
			steps = append(steps, formatRequestStep(t.Result.Request))
		} else {
			steps = append(steps, "["+t.ActionName+"]")
		}
	}
	return steps
}

func formatRequestStep(req *Request) string {
	path := req.URL
	if idx := strings.Index(path, "://"); idx != -1 {
		rest := path[idx+3:]
		if slash := strings.IndexByte(rest, '/'); slash != -1 {
			path = rest[slash:]
		} else {
			path = "/"
		}
	}

	line := req.Method + " " + path
	if req.Body != nil {
		if b, err := json.Marshal(req.Body); err == nil {
			line += " " + string(b)
		}
	}
	return line
}
