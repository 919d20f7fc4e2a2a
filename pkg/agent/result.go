package agent

import (
	"time"

	"github.com/namanag97/venomqa-sub007/pkg/core"
	"github.com/namanag97/venomqa-sub007/pkg/graph"
)

// ExplorationResult is what an Agent.Explore run returns: the fully
// populated Graph, every Violation found, and run-level counters and
// timing (spec §4.9 step 3). It lives in pkg/agent, not pkg/core,
// because it holds a *graph.Graph and pkg/core must never import
// pkg/graph.
type ExplorationResult struct {
	Graph            *graph.Graph
	Violations       []*core.Violation
	StatesVisited    int
	TransitionsTaken int
	StepsTaken       int
	DurationMS       float64
	StartedAt        time.Time
	FinishedAt       time.Time
	TerminalError    string
}

// Success reports whether the run found no HIGH or CRITICAL violation
// and hit no terminal system failure. LOW and MEDIUM violations do not
// affect it.
func (r *ExplorationResult) Success() bool {
	if r.TerminalError != "" {
		return false
	}
	for _, v := range r.Violations {
		if v.Severity >= core.SeverityHigh {
			return false
		}
	}
	return true
}

// ViolationsBySeverity filters Violations to the given severity.
func (r *ExplorationResult) ViolationsBySeverity(sev core.Severity) []*core.Violation {
	var out []*core.Violation
	for _, v := range r.Violations {
		if v.Severity == sev {
			out = append(out, v)
		}
	}
	return out
}

// CriticalViolations returns every CRITICAL-severity violation.
func (r *ExplorationResult) CriticalViolations() []*core.Violation {
	return r.ViolationsBySeverity(core.SeverityCritical)
}

// ActionCoveragePercent delegates to the Graph: the percentage of
// registered actions exercised at least once.
func (r *ExplorationResult) ActionCoveragePercent() float64 {
	if r.Graph == nil {
		return 0
	}
	return r.Graph.ActionCoveragePercent()
}

// Summary renders a compact, loggable map of the run's headline
// numbers.
func (r *ExplorationResult) Summary() map[string]any {
	return map[string]any{
		"success":                 r.Success(),
		"states_visited":          r.StatesVisited,
		"transitions_taken":       r.TransitionsTaken,
		"steps_taken":             r.StepsTaken,
		"violations":              len(r.Violations),
		"critical_violations":     len(r.CriticalViolations()),
		"duration_ms":             r.DurationMS,
		"action_coverage_percent": r.ActionCoveragePercent(),
		"terminal_error":          r.TerminalError,
	}
}
