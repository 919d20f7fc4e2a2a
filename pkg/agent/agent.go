package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/namanag97/venomqa-sub007/pkg/core"
	"github.com/namanag97/venomqa-sub007/pkg/graph"
	"github.com/namanag97/venomqa-sub007/pkg/world"
)

// Agent drives one World through one Graph under one Strategy, in the
// single-threaded cooperative loop spec §4.9/§5 describes. An Agent
// is single-use: build a fresh one per Explore call.
type Agent struct {
	world      *world.World
	graph      *graph.Graph
	strategy   Strategy
	invariants []*core.Invariant
	maxSteps   int

	recorder StepRecorder
	tracer   StepTracer
}

// Option configures an Agent at construction.
type Option func(*Agent)

// WithInvariants attaches the invariants evaluated at every step,
// filtered by their Timing.
func WithInvariants(invariants ...*core.Invariant) Option {
	return func(a *Agent) { a.invariants = append(a.invariants, invariants...) }
}

// WithRecorder attaches a step/violation recorder (e.g. Prometheus
// counters).
func WithRecorder(r StepRecorder) Option {
	return func(a *Agent) { a.recorder = r }
}

// WithTracer attaches a step tracer (e.g. an OpenTelemetry tracer).
func WithTracer(t StepTracer) Option {
	return func(a *Agent) { a.tracer = t }
}

// New builds an Agent around w, g and strategy, bounded by maxSteps.
func New(w *world.World, g *graph.Graph, strategy Strategy, maxSteps int, opts ...Option) *Agent {
	a := &Agent{world: w, graph: g, strategy: strategy, maxSteps: maxSteps}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Agent) validActionsAt(state *core.State) []*core.Action {
	in := &core.EvalInputs{State: state, Context: a.world.Context(), Resources: a.world.Resources()}
	return a.graph.GetValidActions(state, in)
}

// Explore runs the bounded single-threaded loop (spec §4.9) until
// steps_taken == maxSteps or the strategy has nothing left, or an
// external cancellation / fatal system failure interrupts it early.
func (a *Agent) Explore(ctx context.Context) *ExplorationResult {
	result := &ExplorationResult{Graph: a.graph, StartedAt: time.Now()}

	s0, err := a.world.ObserveAndCheckpoint("initial")
	if err != nil {
		result.TerminalError = err.Error()
		return a.finish(result)
	}
	a.graph.AddState(s0)
	result.StatesVisited++

	a0 := a.validActionsAt(s0)
	a.strategy.Seed(s0, a0)
	a.evaluateInvariants(result, s0, core.Pre, nil, nil)

	for result.StepsTaken < a.maxSteps {
		select {
		case <-ctx.Done():
			result.TerminalError = ctx.Err().Error()
			return a.finish(result)
		default:
		}

		sid, aname, ok := a.strategy.Next(a.graph)
		if !ok {
			break
		}
		if a.graph.IsExplored(sid, aname) {
			continue
		}

		state, ok := a.graph.States()[sid]
		if !ok {
			continue
		}
		action := a.graph.GetAction(aname)
		if action == nil {
			continue
		}
		if max := action.MaxCalls(); max >= 0 && a.graph.CallCount(aname) >= max {
			a.graph.MarkExploredOnly(sid, aname)
			continue
		}

		if err := a.world.Rollback(state.CheckpointID); err != nil {
			result.TerminalError = err.Error()
			return a.finish(result)
		}

		in := &core.EvalInputs{State: state, Context: a.world.Context(), Resources: a.world.Resources()}
		if !action.CanExecute(in) {
			a.graph.MarkExploredOnly(sid, aname)
			continue
		}

		a.evaluateInvariants(result, state, core.Pre, action, nil)

		stepCtx := ctx
		var endSpan func(bool)
		if a.tracer != nil {
			stepCtx, endSpan = a.tracer.StartStep(ctx, sid, aname)
		}

		started := time.Now()
		stepResult := a.world.Act(stepCtx, action)
		durationMS := float64(time.Since(started).Microseconds()) / 1000.0

		if endSpan != nil {
			endSpan(stepResult.Success)
		}
		if a.recorder != nil {
			a.recorder.RecordStep(sid, aname, stepResult, durationMS)
		}

		if ok, msg := action.Assert(&stepResult); !ok {
			path := a.graph.GetPathTo(sid)
			v := core.NewAssertionViolation(aname, msg, state, action, &stepResult, path)
			a.recordViolation(result, v)
		}

		sNext, err := a.world.ObserveAndCheckpoint("after:" + aname)
		if err != nil {
			result.TerminalError = err.Error()
			return a.finish(result)
		}
		a.graph.AddState(sNext)

		d := durationMS
		a.graph.AddTransition(core.NewTransition(sid, aname, sNext.ID, &stepResult, &d))
		result.StepsTaken++
		result.TransitionsTaken++
		result.StatesVisited = a.graph.StateCount()

		a.evaluateInvariants(result, sNext, core.Post, action, &stepResult)

		aNext := a.validActionsAt(sNext)
		a.strategy.Notify(sNext, aNext)
	}

	return a.finish(result)
}

func (a *Agent) finish(result *ExplorationResult) *ExplorationResult {
	result.FinishedAt = time.Now()
	result.DurationMS = float64(result.FinishedAt.Sub(result.StartedAt).Microseconds()) / 1000.0
	result.TransitionsTaken = a.graph.TransitionCount()
	result.StatesVisited = a.graph.StateCount()
	return result
}

// evaluateInvariants checks every invariant whose Timing matches
// timing (or is Both), against the current world view, capturing a
// Violation the first time (invariant, state) fires.
func (a *Agent) evaluateInvariants(result *ExplorationResult, state *core.State, timing core.InvariantTiming, action *core.Action, actionResult *core.ActionResult) {
	for _, inv := range a.invariants {
		if inv.Timing != timing && inv.Timing != core.Both {
			continue
		}
		verdict := a.checkInvariant(inv)
		if verdict.Passed() {
			continue
		}
		path := a.graph.GetPathTo(state.ID)
		v := core.NewViolation(inv, state, action, actionResult, path, verdict.Message())
		a.recordViolation(result, v)
	}
}

// checkInvariant runs inv.Check, logging a panicking check as a
// warning and treating it as a pass rather than aborting the run — a
// broken invariant shouldn't be able to mask the rest of an
// exploration.
func (a *Agent) checkInvariant(inv *core.Invariant) (verdict core.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("invariant check panicked; treating as pass", "invariant", inv.Name, "panic", r)
			verdict = core.Pass()
		}
	}()
	return inv.Check(a.world)
}

func (a *Agent) recordViolation(result *ExplorationResult, v *core.Violation) {
	if !a.graph.RecordViolationOnce(v.InvariantName, v.State.ID) {
		return
	}
	result.Violations = append(result.Violations, v)
	if a.recorder != nil {
		a.recorder.RecordViolation(v)
	}
}
