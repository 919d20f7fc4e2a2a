package core

// PreconditionKind classifies how cheap a Precondition is to
// evaluate. World.CanExecuteAction uses it to skip a State observation
// entirely when every precondition guarding an action is
// context-only (spec §4.4, red-team fix A2).
type PreconditionKind int

const (
	// PreconditionContext preconditions only read the Context.
	PreconditionContext PreconditionKind = iota
	// PreconditionState preconditions need a freshly observed State.
	PreconditionState
	// PreconditionResource preconditions consult a ResourceGraph.
	PreconditionResource
)

// ResourceGraph reports whether a live resource of a given type and id
// exists. World delegates World.ResourceExists to one if a registered
// system implements it; absent that, every query is false (spec §4.4).
type ResourceGraph interface {
	ResourceExists(resourceType, id string) bool
}

// EvalInputs bundles everything a Precondition might need. Cheap
// (context/resource) preconditions are evaluated with State left nil.
type EvalInputs struct {
	State     *State
	Context   *Context
	Resources ResourceGraph
}

// Precondition guards whether an Action may run. Implementations are
// built with the constructor helpers below rather than by hand, so
// every precondition self-reports its Kind.
type Precondition interface {
	Kind() PreconditionKind
	Eval(in *EvalInputs) bool
}

type funcPrecondition struct {
	kind PreconditionKind
	fn   func(in *EvalInputs) bool
}

func (p *funcPrecondition) Kind() PreconditionKind  { return p.kind }
func (p *funcPrecondition) Eval(in *EvalInputs) bool { return p.fn(in) }

// HasContext passes iff key is present in the Context.
func HasContext(key string) Precondition {
	return &funcPrecondition{
		kind: PreconditionContext,
		fn:   func(in *EvalInputs) bool { return in.Context.Has(key) },
	}
}

// HasContextValue passes iff key is present and equal to value.
func HasContextValue(key string, value any) Precondition {
	return &funcPrecondition{
		kind: PreconditionContext,
		fn: func(in *EvalInputs) bool {
			return in.Context.Has(key) && in.Context.Get(key, nil) == value
		},
	}
}

// ActionRan passes iff an action named name has already executed
// along the current branch (spec §4.5).
func ActionRan(name string) Precondition {
	return &funcPrecondition{
		kind: PreconditionContext,
		fn:   func(in *EvalInputs) bool { return in.Context.ActionRan(name) },
	}
}

// StateCheck wraps an arbitrary predicate over State.
func StateCheck(fn func(*State) bool) Precondition {
	return &funcPrecondition{
		kind: PreconditionState,
		fn:   func(in *EvalInputs) bool { return fn(in.State) },
	}
}

// RequiresResources passes iff, for every resourceType given, the
// world's ResourceGraph reports at least one live resource of that
// type. The resource id is taken from the context key
// "<type>_id" when set, else the empty id is queried.
func RequiresResources(resourceTypes ...string) Precondition {
	types := append([]string(nil), resourceTypes...)
	return &funcPrecondition{
		kind: PreconditionResource,
		fn: func(in *EvalInputs) bool {
			if in.Resources == nil {
				return false
			}
			for _, t := range types {
				id, _ := in.Context.Get(t+"_id", "").(string)
				if !in.Resources.ResourceExists(t, id) {
					return false
				}
			}
			return true
		},
	}
}
