package core

// State is the canonicalised composition of every registered system's
// observation at one logical moment. Two states built from equal
// observations always carry equal IDs (spec P1); states are immutable
// once constructed.
type State struct {
	ID           string
	Observations map[string]Observation
	CheckpointID string
}

// NewState builds a State with no checkpoint attached. Use
// WithCheckpointID to attach one once a checkpoint has been created.
func NewState(observations map[string]Observation) *State {
	if observations == nil {
		observations = map[string]Observation{}
	}
	return &State{
		ID:           "s_" + hash64Hex(canonicalBytes(observations)),
		Observations: observations,
	}
}

// WithCheckpointID returns a copy of the state carrying the given
// checkpoint id. ID is unaffected: the checkpoint id is metadata about
// how to get back to this state, not part of what the state is.
func (s *State) WithCheckpointID(checkpointID string) *State {
	return &State{
		ID:           s.ID,
		Observations: s.Observations,
		CheckpointID: checkpointID,
	}
}

// ContentHash returns the 16 hex characters following the "s_" prefix.
func (s *State) ContentHash() string {
	if len(s.ID) <= 2 {
		return ""
	}
	return s.ID[2:]
}

// GetObservation returns the named observation, or (zero, false) if no
// system by that name contributed to this state.
func (s *State) GetObservation(system string) (Observation, bool) {
	obs, ok := s.Observations[system]
	return obs, ok
}

// Equal reports id equality — the only thing that matters for two
// states to be considered the same.
func (s *State) Equal(other *State) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.ID == other.ID
}
