// Package world implements the coordinator (spec C4) that ties an
// APIClient, a shared Context, and any number of Rollbackable systems
// into one atomic checkpoint/rollback/observe unit.
package world

import "github.com/namanag97/venomqa-sub007/pkg/core"

// Rollbackable is the capability set any subsystem must provide to
// participate in exploration: checkpoint, rollback, observe (spec
// §4.3). venomqa ships no implementations of this interface — a
// database with savepoints, an in-memory queue, a mock mailbox are
// all external collaborators that merely need to satisfy it.
//
// Implementations must make Rollback idempotent and safe to call even
// if the system saw mutations other than the ones made through the
// checkpointed Action set, as long as the opaque handle passed in was
// produced by that same system's Checkpoint.
type Rollbackable interface {
	// Checkpoint captures everything needed to restore the system's
	// current state, before any further mutation, and returns an
	// opaque handle only this system interprets.
	Checkpoint(name string) (any, error)
	// Rollback restores the system to the moment handle was captured.
	Rollback(handle any) error
	// Observe returns the system's current data, as a deterministic
	// function of its state (no timestamps, no per-call ids).
	Observe() (core.Observation, error)
}
