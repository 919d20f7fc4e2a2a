// Package wire defines the stable, serialisable shapes an exploration
// result is persisted as: one flattened struct per State, Transition
// and Violation, independent of the in-memory core types' pointer
// graph. Encoding to JSON or YAML never needs to know about
// graph.Graph or agent.ExplorationResult directly.
package wire

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/namanag97/venomqa-sub007/pkg/core"
	"github.com/namanag97/venomqa-sub007/pkg/graph"
)

// StateWire is the persisted shape of a core.State.
type StateWire struct {
	ID           string                    `json:"id" yaml:"id"`
	Observations map[string]map[string]any `json:"observations" yaml:"observations"`
	CheckpointID string                    `json:"checkpoint_id,omitempty" yaml:"checkpoint_id,omitempty"`
}

// TransitionWire is the persisted shape of a core.Transition.
type TransitionWire struct {
	ID          string    `json:"id" yaml:"id"`
	FromStateID string    `json:"from_state_id" yaml:"from_state_id"`
	ActionName  string    `json:"action_name" yaml:"action_name"`
	ToStateID   string    `json:"to_state_id" yaml:"to_state_id"`
	Success     bool      `json:"success" yaml:"success"`
	StatusCode  int       `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	Error       string    `json:"error,omitempty" yaml:"error,omitempty"`
	DurationMS  *float64  `json:"duration_ms,omitempty" yaml:"duration_ms,omitempty"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
}

// ViolationWire is the persisted shape of a core.Violation.
type ViolationWire struct {
	ID               string    `json:"id" yaml:"id"`
	InvariantName    string    `json:"invariant_name" yaml:"invariant_name"`
	StateID          string    `json:"state_id" yaml:"state_id"`
	Message          string    `json:"message" yaml:"message"`
	Severity         string    `json:"severity" yaml:"severity"`
	ActionName       string    `json:"action_name,omitempty" yaml:"action_name,omitempty"`
	ReproductionPath []string  `json:"reproduction_path" yaml:"reproduction_path"`
	Timestamp        time.Time `json:"timestamp" yaml:"timestamp"`
}

// ResultWire is the persisted shape of a full exploration run.
type ResultWire struct {
	States           []StateWire      `json:"states" yaml:"states"`
	Transitions      []TransitionWire `json:"transitions" yaml:"transitions"`
	Violations       []ViolationWire  `json:"violations" yaml:"violations"`
	StatesVisited    int              `json:"states_visited" yaml:"states_visited"`
	TransitionsTaken int              `json:"transitions_taken" yaml:"transitions_taken"`
	StepsTaken       int              `json:"steps_taken" yaml:"steps_taken"`
	DurationMS       float64          `json:"duration_ms" yaml:"duration_ms"`
	TerminalError    string           `json:"terminal_error,omitempty" yaml:"terminal_error,omitempty"`
}

// FromState flattens a core.State into its wire shape.
func FromState(s *core.State) StateWire {
	obs := make(map[string]map[string]any, len(s.Observations))
	for name, o := range s.Observations {
		obs[name] = o.Data
	}
	return StateWire{ID: s.ID, Observations: obs, CheckpointID: s.CheckpointID}
}

// FromTransition flattens a core.Transition into its wire shape.
func FromTransition(t *core.Transition) TransitionWire {
	tw := TransitionWire{
		ID:          t.ID,
		FromStateID: t.FromStateID,
		ActionName:  t.ActionName,
		ToStateID:   t.ToStateID,
		Timestamp:   t.Timestamp,
		DurationMS:  t.DurationMS,
	}
	if t.Result != nil {
		tw.Success = t.Result.Success
		tw.StatusCode = t.Result.StatusCode()
		tw.Error = t.Result.Error
	}
	return tw
}

// FromViolation flattens a core.Violation into its wire shape.
func FromViolation(v *core.Violation) ViolationWire {
	vw := ViolationWire{
		ID:               v.ID,
		InvariantName:    v.InvariantName,
		Message:          v.Message,
		Severity:         v.Severity.String(),
		ReproductionPath: v.ReproductionSteps(),
		Timestamp:        v.Timestamp,
	}
	if v.State != nil {
		vw.StateID = v.State.ID
	}
	if v.Action != nil {
		vw.ActionName = v.Action.Name()
	}
	return vw
}

// FromResult flattens a graph plus the violations and summary fields
// an exploration run produced into one persistable shape.
func FromResult(g *graph.Graph, violations []*core.Violation, statesVisited, transitionsTaken, stepsTaken int, durationMS float64, terminalError string) ResultWire {
	states := make([]StateWire, 0, len(g.States()))
	for _, s := range g.States() {
		states = append(states, FromState(s))
	}
	transitions := make([]TransitionWire, 0, len(g.Transitions()))
	for _, t := range g.Transitions() {
		transitions = append(transitions, FromTransition(t))
	}
	viols := make([]ViolationWire, 0, len(violations))
	for _, v := range violations {
		viols = append(viols, FromViolation(v))
	}
	return ResultWire{
		States:           states,
		Transitions:      transitions,
		Violations:       viols,
		StatesVisited:    statesVisited,
		TransitionsTaken: transitionsTaken,
		StepsTaken:       stepsTaken,
		DurationMS:       durationMS,
		TerminalError:    terminalError,
	}
}

// Marshal renders a ResultWire as indented JSON.
func Marshal(r ResultWire) ([]byte, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result as JSON: %w", err)
	}
	return b, nil
}

// MarshalYAML renders a ResultWire as YAML.
func MarshalYAML(r ResultWire) ([]byte, error) {
	b, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal result as YAML: %w", err)
	}
	return b, nil
}
