// Package graph implements the explored transition system (spec C7):
// every State discovered so far, every Transition taken between them,
// per-state valid-action memoisation, and violation dedup bookkeeping.
package graph

import (
	"github.com/namanag97/venomqa-sub007/pkg/core"
)

type explorationKey struct {
	stateID    string
	actionName string
}

type violationKey struct {
	invariantName string
	stateID       string
}

// Graph accumulates everything an Agent discovers during one
// exploration run. It is not safe for concurrent use — the exploration
// model is single-threaded by design (spec §5).
type Graph struct {
	states         map[string]*core.State
	transitions    []*core.Transition
	actions        map[string]*core.Action
	actionOrder    []string
	initialStateID string

	explored       map[explorationKey]bool
	validAt        map[string][]*core.Action
	violationsSeen map[violationKey]bool

	callCount map[string]int
}

// New builds a Graph over the given action set. Actions may also be
// registered after construction via RegisterAction.
func New(actions ...*core.Action) *Graph {
	g := &Graph{
		states:         make(map[string]*core.State),
		actions:        make(map[string]*core.Action),
		explored:       make(map[explorationKey]bool),
		validAt:        make(map[string][]*core.Action),
		violationsSeen: make(map[violationKey]bool),
		callCount:      make(map[string]int),
	}
	for _, a := range actions {
		g.RegisterAction(a)
	}
	return g
}

// RegisterAction adds a to the known action set, replacing any
// previous action registered under the same name.
func (g *Graph) RegisterAction(a *core.Action) {
	if _, exists := g.actions[a.Name()]; !exists {
		g.actionOrder = append(g.actionOrder, a.Name())
	}
	g.actions[a.Name()] = a
}

// GetAction returns the registered action named name, or nil.
func (g *Graph) GetAction(name string) *core.Action {
	return g.actions[name]
}

// StateCount returns the number of distinct states seen.
func (g *Graph) StateCount() int { return len(g.states) }

// ActionCount returns the number of distinct registered actions.
func (g *Graph) ActionCount() int { return len(g.actions) }

// TransitionCount returns the number of transitions recorded.
func (g *Graph) TransitionCount() int { return len(g.transitions) }

// InitialStateID returns the id of the first state ever added, or ""
// if none has been added yet.
func (g *Graph) InitialStateID() string { return g.initialStateID }

// States returns every state discovered so far.
func (g *Graph) States() map[string]*core.State { return g.states }

// Transitions returns every transition recorded so far, in insertion
// order.
func (g *Graph) Transitions() []*core.Transition { return g.transitions }

// AddState registers state. A no-op if state.ID is already present.
// The first state ever added becomes the initial state.
func (g *Graph) AddState(state *core.State) {
	if _, ok := g.states[state.ID]; ok {
		return
	}
	if len(g.states) == 0 {
		g.initialStateID = state.ID
	}
	g.states[state.ID] = state
}

// AddTransition appends t, registering its endpoint state ids (if not
// already present, with no observations) and marking
// (from_state_id, action_name) explored.
func (g *Graph) AddTransition(t *core.Transition) {
	g.transitions = append(g.transitions, t)
	if _, ok := g.states[t.FromStateID]; !ok {
		g.states[t.FromStateID] = &core.State{ID: t.FromStateID, Observations: map[string]core.Observation{}}
	}
	if _, ok := g.states[t.ToStateID]; !ok {
		g.states[t.ToStateID] = &core.State{ID: t.ToStateID, Observations: map[string]core.Observation{}}
	}
	g.explored[explorationKey{t.FromStateID, t.ActionName}] = true
	g.callCount[t.ActionName]++
}

// IsExplored reports whether (stateID, actionName) has already been
// taken.
func (g *Graph) IsExplored(stateID, actionName string) bool {
	return g.explored[explorationKey{stateID, actionName}]
}

// MarkExploredOnly records (stateID, actionName) as explored without
// appending a transition — used when a precondition that held at
// notify time no longer holds once the world is rolled back to
// stateID (spec §4.9 step d), so the pair is retired without a
// fabricated self-loop transition.
func (g *Graph) MarkExploredOnly(stateID, actionName string) {
	g.explored[explorationKey{stateID, actionName}] = true
}

// CallCount returns how many times actionName has been executed
// across the whole run, regardless of which state it ran from.
func (g *Graph) CallCount(actionName string) int {
	return g.callCount[actionName]
}

// GetValidActions returns the actions eligible at state, memoising the
// result per state id. On first computation, every registered action
// is checked via Action.CanExecute against in; in.State should be
// state.
func (g *Graph) GetValidActions(state *core.State, in *core.EvalInputs) []*core.Action {
	if cached, ok := g.validAt[state.ID]; ok {
		return cached
	}
	valid := make([]*core.Action, 0, len(g.actionOrder))
	for _, name := range g.actionOrder {
		a := g.actions[name]
		if a.CanExecute(in) {
			valid = append(valid, a)
		}
	}
	g.validAt[state.ID] = valid
	return valid
}

// UnexploredPair names one (state, action) candidate GetUnexplored
// returns.
type UnexploredPair struct {
	State  *core.State
	Action *core.Action
}

// GetUnexplored returns the cartesian product of known states and
// their memoised valid actions, minus already-explored pairs and minus
// any action that has hit its MaxCalls cap. Ordering is by state
// insertion order, then action registration order — deterministic, not
// a strategy decision.
func (g *Graph) GetUnexplored() []UnexploredPair {
	var out []UnexploredPair
	for _, stateID := range g.stateInsertionOrder() {
		state := g.states[stateID]
		valid, ok := g.validAt[stateID]
		if !ok {
			continue
		}
		for _, a := range valid {
			if g.IsExplored(stateID, a.Name()) {
				continue
			}
			if max := a.MaxCalls(); max >= 0 && g.CallCount(a.Name()) >= max {
				continue
			}
			out = append(out, UnexploredPair{State: state, Action: a})
		}
	}
	return out
}

// stateInsertionOrder reconstructs state discovery order from the
// transitions recorded so far plus the initial state, since Go maps
// don't preserve insertion order. Only GetUnexplored needs this, so a
// plain map is kept as the primary store and order is derived on
// demand.
func (g *Graph) stateInsertionOrder() []string {
	seen := make(map[string]bool, len(g.states))
	var order []string
	if g.initialStateID != "" {
		order = append(order, g.initialStateID)
		seen[g.initialStateID] = true
	}
	for _, t := range g.transitions {
		if !seen[t.FromStateID] {
			seen[t.FromStateID] = true
			order = append(order, t.FromStateID)
		}
		if !seen[t.ToStateID] {
			seen[t.ToStateID] = true
			order = append(order, t.ToStateID)
		}
	}
	for id := range g.states {
		if !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}
	return order
}

// GetPathTo returns the shortest sequence of transitions from the
// initial state to stateID, via breadth-first search over recorded
// transitions with insertion order as the tie-break (spec §4.7, §5).
// Returns nil if stateID is the initial state or unreachable.
func (g *Graph) GetPathTo(stateID string) []*core.Transition {
	if stateID == g.initialStateID || g.initialStateID == "" {
		return nil
	}

	adjacency := make(map[string][]*core.Transition)
	for _, t := range g.transitions {
		adjacency[t.FromStateID] = append(adjacency[t.FromStateID], t)
	}

	type frontierEntry struct {
		stateID string
		path    []*core.Transition
	}

	visited := map[string]bool{g.initialStateID: true}
	queue := []frontierEntry{{stateID: g.initialStateID}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, t := range adjacency[cur.stateID] {
			if visited[t.ToStateID] {
				continue
			}
			nextPath := append(append([]*core.Transition(nil), cur.path...), t)
			if t.ToStateID == stateID {
				return nextPath
			}
			visited[t.ToStateID] = true
			queue = append(queue, frontierEntry{stateID: t.ToStateID, path: nextPath})
		}
	}
	return nil
}

// RecordViolationOnce returns true the first time (invariantName,
// stateID) is seen, and false on every subsequent call with the same
// key (spec §4.6 dedup).
func (g *Graph) RecordViolationOnce(invariantName, stateID string) bool {
	key := violationKey{invariantName, stateID}
	if g.violationsSeen[key] {
		return false
	}
	g.violationsSeen[key] = true
	return true
}

// ActionCoveragePercent returns the percentage of registered actions
// that have appeared in at least one recorded transition.
func (g *Graph) ActionCoveragePercent() float64 {
	if len(g.actions) == 0 {
		return 0
	}
	covered := 0
	for name := range g.actions {
		if g.callCount[name] > 0 {
			covered++
		}
	}
	return 100 * float64(covered) / float64(len(g.actions))
}
