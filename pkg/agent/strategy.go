// Package agent implements the exploration loop (spec C9): the
// Strategy protocol that picks the next (state, action) pair, and the
// Agent that drives World and Graph through it to a bounded
// ExplorationResult.
package agent

import (
	"fmt"
	"math/rand"

	"github.com/namanag97/venomqa-sub007/pkg/core"
	"github.com/namanag97/venomqa-sub007/pkg/graph"
)

// pair is the (state id, action name) unit every strategy schedules.
type pair struct {
	stateID    string
	actionName string
}

// Strategy decides which (state, action) pair the Agent tries next.
// Implementations are notified of every newly discovered state's valid
// actions and must tolerate being re-notified of a pair already
// explored — the Agent's explored-set is the source of truth, not the
// strategy's internal bookkeeping (spec §4.8).
type Strategy interface {
	// Seed primes the strategy with the initial frontier.
	Seed(initial *core.State, validActions []*core.Action)
	// Notify informs the strategy of a newly discovered state's valid
	// actions.
	Notify(state *core.State, validActions []*core.Action)
	// Next returns the next candidate pair, or ok=false if the
	// strategy has nothing left to try.
	Next(g *graph.Graph) (stateID, actionName string, ok bool)
}

func pairsFor(state *core.State, actions []*core.Action) []pair {
	out := make([]pair, 0, len(actions))
	for _, a := range actions {
		out = append(out, pair{stateID: state.ID, actionName: a.Name()})
	}
	return out
}

// BFS explores breadth-first: a FIFO queue of pairs in notify order.
type BFS struct {
	queue []pair
}

func NewBFS() *BFS { return &BFS{} }

func (s *BFS) Seed(initial *core.State, validActions []*core.Action) {
	s.queue = append(s.queue, pairsFor(initial, validActions)...)
}

func (s *BFS) Notify(state *core.State, validActions []*core.Action) {
	s.queue = append(s.queue, pairsFor(state, validActions)...)
}

func (s *BFS) Next(g *graph.Graph) (string, string, bool) {
	for len(s.queue) > 0 {
		p := s.queue[0]
		s.queue = s.queue[1:]
		if g.IsExplored(p.stateID, p.actionName) {
			continue
		}
		return p.stateID, p.actionName, true
	}
	return "", "", false
}

// DFS explores depth-first: a LIFO stack of pairs in notify order.
type DFS struct {
	stack []pair
}

func NewDFS() *DFS { return &DFS{} }

func (s *DFS) Seed(initial *core.State, validActions []*core.Action) {
	s.stack = append(s.stack, pairsFor(initial, validActions)...)
}

func (s *DFS) Notify(state *core.State, validActions []*core.Action) {
	s.stack = append(s.stack, pairsFor(state, validActions)...)
}

func (s *DFS) Next(g *graph.Graph) (string, string, bool) {
	for len(s.stack) > 0 {
		last := len(s.stack) - 1
		p := s.stack[last]
		s.stack = s.stack[:last]
		if g.IsExplored(p.stateID, p.actionName) {
			continue
		}
		return p.stateID, p.actionName, true
	}
	return "", "", false
}

// Random samples uniformly from the current frontier under a seeded
// PRNG, so runs are reproducible given the same seed and notify order.
type Random struct {
	pending []pair
	rng     *rand.Rand
}

// NewRandom builds a Random strategy seeded with seed.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (s *Random) Seed(initial *core.State, validActions []*core.Action) {
	s.pending = append(s.pending, pairsFor(initial, validActions)...)
}

func (s *Random) Notify(state *core.State, validActions []*core.Action) {
	s.pending = append(s.pending, pairsFor(state, validActions)...)
}

func (s *Random) Next(g *graph.Graph) (string, string, bool) {
	live := s.liveIndices(g)
	if len(live) == 0 {
		return "", "", false
	}
	idx := live[s.rng.Intn(len(live))]
	p := s.pending[idx]
	s.pending = append(s.pending[:idx], s.pending[idx+1:]...)
	return p.stateID, p.actionName, true
}

func (s *Random) liveIndices(g *graph.Graph) []int {
	var live []int
	kept := s.pending[:0]
	for _, p := range s.pending {
		if !g.IsExplored(p.stateID, p.actionName) {
			kept = append(kept, p)
		}
	}
	s.pending = kept
	for i := range s.pending {
		live = append(live, i)
	}
	return live
}

// Weighted samples from the frontier proportional to per-action
// weights supplied at construction. An action with no configured
// weight defaults to 1.0.
type Weighted struct {
	pending []pair
	weights map[string]float64
	rng     *rand.Rand
}

// NewWeighted builds a Weighted strategy with the given per-action
// weights and PRNG seed.
func NewWeighted(weights map[string]float64, seed int64) *Weighted {
	w := make(map[string]float64, len(weights))
	for k, v := range weights {
		w[k] = v
	}
	return &Weighted{weights: w, rng: rand.New(rand.NewSource(seed))}
}

func (s *Weighted) Seed(initial *core.State, validActions []*core.Action) {
	s.pending = append(s.pending, pairsFor(initial, validActions)...)
}

func (s *Weighted) Notify(state *core.State, validActions []*core.Action) {
	s.pending = append(s.pending, pairsFor(state, validActions)...)
}

func (s *Weighted) weightOf(actionName string) float64 {
	if w, ok := s.weights[actionName]; ok {
		return w
	}
	return 1.0
}

func (s *Weighted) Next(g *graph.Graph) (string, string, bool) {
	kept := s.pending[:0]
	for _, p := range s.pending {
		if !g.IsExplored(p.stateID, p.actionName) {
			kept = append(kept, p)
		}
	}
	s.pending = kept
	if len(s.pending) == 0 {
		return "", "", false
	}

	total := 0.0
	for _, p := range s.pending {
		total += s.weightOf(p.actionName)
	}
	if total <= 0 {
		idx := s.rng.Intn(len(s.pending))
		p := s.pending[idx]
		s.pending = append(s.pending[:idx], s.pending[idx+1:]...)
		return p.stateID, p.actionName, true
	}

	r := s.rng.Float64() * total
	acc := 0.0
	for i, p := range s.pending {
		acc += s.weightOf(p.actionName)
		if r <= acc {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return p.stateID, p.actionName, true
		}
	}
	last := len(s.pending) - 1
	p := s.pending[last]
	s.pending = s.pending[:last]
	return p.stateID, p.actionName, true
}

// CoverageGuided prefers pairs whose action has the lowest current
// execution count, breaking ties by state-visit count (how many times
// Notify has seen that state id), then by notify order.
type CoverageGuided struct {
	pending    []pair
	stateVisit map[string]int
}

// FromName builds the named strategy: bfs, dfs, random, weighted or
// coverage. weights is only consulted for "weighted".
func FromName(name string, seed int64, weights map[string]float64) (Strategy, error) {
	switch name {
	case "bfs", "":
		return NewBFS(), nil
	case "dfs":
		return NewDFS(), nil
	case "random":
		return NewRandom(seed), nil
	case "weighted":
		return NewWeighted(weights, seed), nil
	case "coverage":
		return NewCoverageGuided(), nil
	default:
		return nil, fmt.Errorf("agent: unknown strategy %q (valid: bfs, dfs, random, weighted, coverage)", name)
	}
}

func NewCoverageGuided() *CoverageGuided {
	return &CoverageGuided{stateVisit: make(map[string]int)}
}

func (s *CoverageGuided) Seed(initial *core.State, validActions []*core.Action) {
	s.stateVisit[initial.ID]++
	s.pending = append(s.pending, pairsFor(initial, validActions)...)
}

func (s *CoverageGuided) Notify(state *core.State, validActions []*core.Action) {
	s.stateVisit[state.ID]++
	s.pending = append(s.pending, pairsFor(state, validActions)...)
}

func (s *CoverageGuided) Next(g *graph.Graph) (string, string, bool) {
	bestIdx := -1
	bestCallCount := 0
	bestVisit := 0
	for i, p := range s.pending {
		if g.IsExplored(p.stateID, p.actionName) {
			continue
		}
		callCount := g.CallCount(p.actionName)
		visit := s.stateVisit[p.stateID]
		if bestIdx == -1 || callCount < bestCallCount ||
			(callCount == bestCallCount && visit < bestVisit) {
			bestIdx = i
			bestCallCount = callCount
			bestVisit = visit
		}
	}
	if bestIdx == -1 {
		s.pending = nil
		return "", "", false
	}
	p := s.pending[bestIdx]
	s.pending = append(s.pending[:bestIdx], s.pending[bestIdx+1:]...)
	return p.stateID, p.actionName, true
}
