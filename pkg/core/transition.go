package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// shortID returns 12 lowercase hex characters carved out of a fresh
// uuid, matching the "<prefix>_<12 hex chars>" id shape used
// throughout this package.
func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// Transition records one step of exploration: from a state, through
// an action, to a successor state, together with the ActionResult
// that produced it. Transitions are immutable once created.
type Transition struct {
	ID          string
	FromStateID string
	ActionName  string
	ToStateID   string
	Result      *ActionResult
	Timestamp   time.Time
	DurationMS  *float64
}

// NewTransition builds a Transition with a fresh id.
func NewTransition(fromStateID, actionName, toStateID string, result *ActionResult, durationMS *float64) *Transition {
	return &Transition{
		ID:          "t_" + shortID(),
		FromStateID: fromStateID,
		ActionName:  actionName,
		ToStateID:   toStateID,
		Result:      result,
		Timestamp:   time.Now(),
		DurationMS:  durationMS,
	}
}
