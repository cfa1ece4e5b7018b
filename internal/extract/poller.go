package extract

import (
	"context"
	"log/slog"
	"time"
)

// pollUntilStable repeatedly scrolls the segment container to its bottom
// and recounts loaded segments, returning once the count has not grown for
// StableRounds consecutive polls. A single non-growing poll is not enough:
// lazy rendering can stall transiently while more content is still coming.
//
// Unlike the upstream behavior this loop carries a wall-clock cap so a
// page whose panel never stops growing fails instead of hanging forever.
func (e *Extractor) pollUntilStable(ctx context.Context, p Page) error {
	deadline := time.Now().Add(e.opts.StabilizationTimeout)
	lastCount := 0
	stableRounds := 0
	polls := 0

	for {
		if err := p.ScrollToBottom(ctx, e.opts.ContainerSelector); err != nil {
			return newError(CodeEvalFailure, "scrolling transcript container failed", err)
		}

		select {
		case <-time.After(e.opts.PollInterval):
		case <-ctx.Done():
			return newError(CodeStabilizationTimeout, "scroll stabilization interrupted", ctx.Err())
		}

		count, err := p.Count(ctx, e.opts.SegmentSelector)
		if err != nil {
			return newError(CodeEvalFailure, "counting transcript segments failed", err)
		}
		polls++

		if count == lastCount {
			stableRounds++
		} else {
			stableRounds = 0
			lastCount = count
		}
		if stableRounds >= e.opts.StableRounds {
			slog.Debug("transcript panel stabilized", "segments", lastCount, "polls", polls)
			return nil
		}

		if time.Now().After(deadline) {
			return newError(CodeStabilizationTimeout, "transcript panel did not stabilize", nil)
		}
	}
}
