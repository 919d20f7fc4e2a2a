package core

import (
	"context"
	"strconv"
)

// ActionFunc is the normalized shape every Action invokes internally,
// regardless of whether the caller wrote a simple or a contextual
// action function. Building one is the Go replacement for the source
// project's arity auto-detection (spec §9): NewSimpleAction and
// NewContextualAction both wrap the user's function into this shape
// once, at construction, instead of branching on it at every call.
type ActionFunc func(ctx context.Context, api APIClient, qc *Context) ActionResult

// Action is a named, re-executable operation against the world.
// Construct one with NewSimpleAction or NewContextualAction.
type Action struct {
	name           string
	invoke         ActionFunc
	description    string
	preconditions  []Precondition
	expectedStatus []int
	expectFailure  bool
	assertion      *ResponseAssertion
	maxCalls       int
	requires       []string
	tags           []string
}

// ActionOption configures optional Action fields at construction.
type ActionOption func(*Action)

// WithPreconditions attaches guards that must all pass for the action
// to be eligible in a given state/context.
func WithPreconditions(pre ...Precondition) ActionOption {
	return func(a *Action) { a.preconditions = append(a.preconditions, pre...) }
}

// WithExpectedStatus declares the response assertion shorthand: the
// action's response status must be one of statuses.
func WithExpectedStatus(statuses ...int) ActionOption {
	return func(a *Action) { a.expectedStatus = statuses }
}

// WithExpectFailure declares that a successful (2xx/3xx) response is
// itself the failure.
func WithExpectFailure() ActionOption {
	return func(a *Action) { a.expectFailure = true }
}

// WithAssertion attaches a full ResponseAssertion, for cases the
// expected-status/expect-failure shorthands can't express.
func WithAssertion(assertion *ResponseAssertion) ActionOption {
	return func(a *Action) { a.assertion = assertion }
}

// WithMaxCalls caps how many times the agent will execute this action
// across an entire run, regardless of how many states reach it.
func WithMaxCalls(n int) ActionOption {
	return func(a *Action) { a.maxCalls = n }
}

// WithRequires declares resource types that must have at least one
// live instance (per RequiresResources) for the action to be
// eligible.
func WithRequires(resourceTypes ...string) ActionOption {
	return func(a *Action) {
		a.requires = resourceTypes
		a.preconditions = append(a.preconditions, RequiresResources(resourceTypes...))
	}
}

// WithTags attaches free-form labels, e.g. for strategy weighting.
func WithTags(tags ...string) ActionOption {
	return func(a *Action) { a.tags = tags }
}

// WithDescription attaches a human-readable description.
func WithDescription(desc string) ActionOption {
	return func(a *Action) { a.description = desc }
}

// NewSimpleAction builds an Action whose execute function does not
// need the shared Context.
func NewSimpleAction(name string, fn func(ctx context.Context, api APIClient) ActionResult, opts ...ActionOption) *Action {
	a := &Action{
		name: name,
		invoke: func(ctx context.Context, api APIClient, _ *Context) ActionResult {
			return fn(ctx, api)
		},
		maxCalls: -1,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewContextualAction builds an Action whose execute function reads
// and/or writes the shared Context.
func NewContextualAction(name string, fn func(ctx context.Context, api APIClient, qc *Context) ActionResult, opts ...ActionOption) *Action {
	a := &Action{
		name:     name,
		invoke:   fn,
		maxCalls: -1,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the action's unique name.
func (a *Action) Name() string { return a.name }

// Description returns the action's human-readable description, if any.
func (a *Action) Description() string { return a.description }

// Tags returns the action's free-form labels.
func (a *Action) Tags() []string { return a.tags }

// MaxCalls returns the configured call-count cap, or -1 if unbounded.
func (a *Action) MaxCalls() int { return a.maxCalls }

// ExpectFailure reports whether this action expects a non-2xx/3xx
// response by default.
func (a *Action) ExpectFailure() bool { return a.expectFailure }

// Invoke executes the action's underlying function.
func (a *Action) Invoke(ctx context.Context, api APIClient, qc *Context) ActionResult {
	return a.invoke(ctx, api, qc)
}

// CanExecute reports whether every precondition passes given in.
func (a *Action) CanExecute(in *EvalInputs) bool {
	for _, p := range a.preconditions {
		if !p.Eval(in) {
			return false
		}
	}
	return true
}

// Preconditions returns the action's preconditions, partitioned into
// those that can be evaluated without a State (context/resource) and
// those that need one.
func (a *Action) Preconditions() (cheap, needsState []Precondition) {
	for _, p := range a.preconditions {
		if p.Kind() == PreconditionState {
			needsState = append(needsState, p)
		} else {
			cheap = append(cheap, p)
		}
	}
	return cheap, needsState
}

// Assert validates result against the action's expected-status /
// expect-failure / custom-assertion configuration, per spec §4.5:
//
//   - if ExpectedStatus is set, it overrides ExpectFailure;
//   - else if ExpectFailure, pass iff the response is present and
//     its status is outside [200,400);
//   - else pass iff result.Success;
//   - and, in all cases, a user-supplied ResponseAssertion may
//     additionally veto.
func (a *Action) Assert(result *ActionResult) (bool, string) {
	if len(a.expectedStatus) > 0 {
		ra := &ResponseAssertion{ExpectedStatus: a.expectedStatus}
		ok, msg := ra.Validate(result)
		if !ok {
			return ok, msg
		}
	} else if a.expectFailure {
		ra := &ResponseAssertion{ExpectFailure: true}
		if ok, msg := ra.Validate(result); !ok {
			return ok, msg
		}
	} else if !result.Success {
		return false, resultFailureMessage(result)
	}

	if a.assertion != nil {
		return a.assertion.Validate(result)
	}
	return true, ""
}

func resultFailureMessage(result *ActionResult) string {
	if result.Response != nil {
		return "expected success, got " + strconv.Itoa(result.Response.Status)
	}
	if result.Error != "" {
		return "expected success, request failed: " + result.Error
	}
	return "expected success, request failed"
}
