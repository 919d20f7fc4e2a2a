package agent

import (
	"context"

	"github.com/namanag97/venomqa-sub007/pkg/core"
)

// StepRecorder receives a callback after every step the Agent takes,
// whether or not it produced a violation. Implementations (e.g.
// Prometheus counters) satisfy this structurally — pkg/metrics never
// imports pkg/agent.
type StepRecorder interface {
	RecordStep(stateID, actionName string, result core.ActionResult, durationMS float64)
	RecordViolation(v *core.Violation)
}

// StepTracer wraps one agent step in a span. Implementations (e.g. an
// OpenTelemetry tracer) satisfy this structurally.
type StepTracer interface {
	StartStep(ctx context.Context, stateID, actionName string) (context.Context, func(success bool))
}
