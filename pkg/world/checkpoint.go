package world

import (
	"time"

	"github.com/google/uuid"
)

// Checkpoint is an atomic, opaque snapshot of every registered system
// plus the shared Context, keyed by an id World.Rollback consumes.
type Checkpoint struct {
	ID                string
	Name              string
	CreatedAt         time.Time
	SystemCheckpoints map[string]any
	ContextSnapshot   any
}

func newCheckpoint(name string, systemCheckpoints map[string]any, contextSnapshot any) *Checkpoint {
	return &Checkpoint{
		ID:                "cp_" + uuid.NewString(),
		Name:              name,
		CreatedAt:         time.Now(),
		SystemCheckpoints: systemCheckpoints,
		ContextSnapshot:   contextSnapshot,
	}
}
