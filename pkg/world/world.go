package world

import (
	"context"
	"fmt"
	"sort"

	"github.com/namanag97/venomqa-sub007/pkg/core"
)

// World coordinates the API client, the shared Context, and every
// registered Rollbackable system. Its defining guarantee is atomic
// checkpoint/rollback: any sequence
//
//	cp, _ := w.Checkpoint("x")
//	// ... mutate systems and context through actions ...
//	w.Rollback(cp)
//
// observably restores every registered system AND the context
// mapping to their state at the moment Checkpoint was called (spec
// §4.4). Named clients are never part of that cycle.
type World struct {
	api      core.APIClient
	systems  map[string]Rollbackable
	qcontext *core.Context
	clients  map[string]any

	resources core.ResourceGraph

	checkpoints map[string]*Checkpoint
}

// Option configures a World at construction.
type Option func(*World)

// WithSystems registers every entry of systems.
func WithSystems(systems map[string]Rollbackable) Option {
	return func(w *World) {
		for name, sys := range systems {
			w.systems[name] = sys
		}
	}
}

// WithContext supplies a pre-populated Context instead of a fresh one.
func WithContext(c *core.Context) Option {
	return func(w *World) { w.qcontext = c }
}

// WithClients registers named, long-lived client handles (e.g. one
// authenticated HTTP client per role), reachable from actions via
// Context.GetClient.
func WithClients(clients map[string]any) Option {
	return func(w *World) {
		for name, c := range clients {
			w.clients[name] = c
		}
	}
}

// WithResources supplies an explicit resource graph for
// RequiresResources preconditions and World.ResourceExists. Without
// this option, World auto-detects a resource graph by checking
// whether any registered system also implements core.ResourceGraph.
func WithResources(rg core.ResourceGraph) Option {
	return func(w *World) { w.resources = rg }
}

// New builds a World around api, applying opts in order.
func New(api core.APIClient, opts ...Option) *World {
	w := &World{
		api:         api,
		systems:     make(map[string]Rollbackable),
		qcontext:    core.NewContext(),
		clients:     make(map[string]any),
		checkpoints: make(map[string]*Checkpoint),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.resources == nil {
		w.resources = w.detectResourceGraph()
	}
	for name, client := range w.clients {
		w.qcontext.RegisterClient(name, client)
	}
	return w
}

func (w *World) detectResourceGraph() core.ResourceGraph {
	names := make([]string, 0, len(w.systems))
	for name := range w.systems {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if rg, ok := w.systems[name].(core.ResourceGraph); ok {
			return rg
		}
	}
	return nil
}

// RegisterSystem adds (or replaces) a system after construction.
func (w *World) RegisterSystem(name string, sys Rollbackable) {
	w.systems[name] = sys
	if w.resources == nil {
		if rg, ok := sys.(core.ResourceGraph); ok {
			w.resources = rg
		}
	}
}

// API returns the world's API client.
func (w *World) API() core.APIClient { return w.api }

// Context returns the world's shared Context.
func (w *World) Context() *core.Context { return w.qcontext }

// Clients returns every named client registered on the world.
func (w *World) Clients() map[string]any { return w.clients }

// Resources returns the world's resource graph, or nil if none was
// registered or auto-detected.
func (w *World) Resources() core.ResourceGraph { return w.resources }

// ResourceExists delegates to the world's resource graph, returning
// false if there is none registered (spec §4.4).
func (w *World) ResourceExists(resourceType, id string) bool {
	if w.resources == nil {
		return false
	}
	return w.resources.ResourceExists(resourceType, id)
}

// Observe calls Observe on every registered system and composes the
// results into a canonical State. It does not create a checkpoint.
func (w *World) Observe() (*core.State, error) {
	observations, err := w.observeAll()
	if err != nil {
		return nil, err
	}
	return core.NewState(observations), nil
}

func (w *World) observeAll() (map[string]core.Observation, error) {
	observations := make(map[string]core.Observation, len(w.systems))
	for name, sys := range w.systems {
		obs, err := sys.Observe()
		if err != nil {
			return nil, &ErrSystemFailure{System: name, Op: "observe", Err: err}
		}
		observations[name] = obs
	}
	return observations, nil
}

// Checkpoint creates an atomic checkpoint across every registered
// system and the context, returning its id. It does not observe.
func (w *World) Checkpoint(name string) (string, error) {
	cp, err := w.checkpointAll(name)
	if err != nil {
		return "", err
	}
	return cp.ID, nil
}

func (w *World) checkpointAll(name string) (*Checkpoint, error) {
	systemCheckpoints := make(map[string]any, len(w.systems))
	for sysName, sys := range w.systems {
		handle, err := sys.Checkpoint(name)
		if err != nil {
			return nil, &ErrSystemFailure{System: sysName, Op: "checkpoint", Err: err}
		}
		systemCheckpoints[sysName] = handle
	}

	contextSnapshot, err := w.qcontext.Snapshot()
	if err != nil {
		return nil, err
	}

	cp := newCheckpoint(name, systemCheckpoints, contextSnapshot)
	w.checkpoints[cp.ID] = cp
	return cp, nil
}

// ObserveAndCheckpoint atomically checkpoints then observes every
// system, in that order (order matters for consistency: a checkpoint
// must capture state no later than the moment it's observed). The
// returned State carries the resulting checkpoint id.
func (w *World) ObserveAndCheckpoint(name string) (*core.State, error) {
	cp, err := w.checkpointAll(name)
	if err != nil {
		return nil, err
	}
	observations, err := w.observeAll()
	if err != nil {
		return nil, err
	}
	return core.NewState(observations).WithCheckpointID(cp.ID), nil
}

// Rollback restores every registered system and the context to the
// moment checkpointID was created. Named clients are untouched.
func (w *World) Rollback(checkpointID string) error {
	cp, ok := w.checkpoints[checkpointID]
	if !ok {
		return &ErrUnknownCheckpoint{CheckpointID: checkpointID}
	}

	for name, sys := range w.systems {
		handle, ok := cp.SystemCheckpoints[name]
		if !ok {
			continue
		}
		if err := sys.Rollback(handle); err != nil {
			return &ErrSystemFailure{System: name, Op: "rollback", Err: err}
		}
	}

	if cp.ContextSnapshot != nil {
		if err := w.qcontext.Restore(cp.ContextSnapshot); err != nil {
			return err
		}
	}
	return nil
}

// HasCheckpoint reports whether checkpointID was produced by this
// World and is still retained.
func (w *World) HasCheckpoint(checkpointID string) bool {
	_, ok := w.checkpoints[checkpointID]
	return ok
}

// GetCheckpoint returns the checkpoint record for checkpointID, or nil.
func (w *World) GetCheckpoint(checkpointID string) *Checkpoint {
	return w.checkpoints[checkpointID]
}

// Act executes action via the API client and shared context. World
// does not check preconditions here — that is the Agent's job (spec
// §4.4) — so Act is safe to call directly in tests that want to
// bypass exploration bookkeeping. A panic inside the action's execute
// function is converted into a failed ActionResult rather than
// propagating, so one broken action never aborts an exploration run
// (spec §4.9 failure model).
func (w *World) Act(ctx context.Context, action *core.Action) (result core.ActionResult) {
	defer func() {
		if r := recover(); r != nil {
			result = *core.FromError(nil, fmt.Sprintf("%v", r))
		}
	}()
	result = action.Invoke(ctx, w.api, w.qcontext)
	w.qcontext.MarkActionRan(action.Name())
	return result
}

// CanExecuteAction evaluates action's preconditions, observing the
// world only if at least one precondition needs a State (red-team fix
// A2: context-only and resource-only actions never pay for an
// Observe()).
func (w *World) CanExecuteAction(action *core.Action) (bool, error) {
	cheap, needsState := action.Preconditions()

	in := &core.EvalInputs{Context: w.qcontext, Resources: w.resources}
	for _, p := range cheap {
		if !p.Eval(in) {
			return false, nil
		}
	}
	if len(needsState) == 0 {
		return true, nil
	}

	state, err := w.Observe()
	if err != nil {
		return false, err
	}
	in.State = state
	for _, p := range needsState {
		if !p.Eval(in) {
			return false, nil
		}
	}
	return true, nil
}
