package orchestrator

import (
	"context"
	"fmt"

	"practice-automation/internal/leads"
	"practice-automation/pkg/logger"
)

// Processor is the single-lead operation the batch runner applies.
type Processor interface {
	Process(ctx context.Context, l leads.Lead) Outcome
}

// Throttle paces consecutive external call sequences.
// Implementations live in internal/ratelimit.
type Throttle interface {
	Wait(ctx context.Context) error
}

// BatchRunner processes leads strictly one at a time, in order, pausing on
// the throttle between consecutive leads. A failing lead never stops the batch.
type BatchRunner struct {
	Processor Processor
	Throttle  Throttle
}

func NewBatchRunner(p Processor, t Throttle) *BatchRunner {
	return &BatchRunner{Processor: p, Throttle: t}
}

// Run returns exactly one Outcome per input lead, in input order.
//
// If the throttle cannot wait (for example, the context was canceled), the
// remaining leads are not processed and receive a failed Outcome carrying the
// throttle error.
func (b *BatchRunner) Run(ctx context.Context, in []leads.Lead) []Outcome {
	log := logger.From(ctx)
	out := make([]Outcome, 0, len(in))

	for i, l := range in {
		if i > 0 && b.Throttle != nil {
			if err := b.Throttle.Wait(ctx); err != nil {
				log.Warn("batch throttle aborted", "processed", i, "remaining", len(in)-i, "err", err)
				for _, rest := range in[i:] {
					out = append(out, Outcome{LeadID: rest.ID, State: StateFailed, Error: fmt.Sprintf("batch throttle: %v", err)})
				}
				return out
			}
		}
		out = append(out, b.Processor.Process(ctx, l))
	}
	return out
}
