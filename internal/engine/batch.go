package engine

import (
	"context"
)

// Batch is the single batch driver shared by folder mode and multi-root
// sweep mode. The two call sites differ only in the root list, the recursion
// flag, and the pre-batch guard.
type Batch struct {
	Roots     []string
	Recursive bool

	// Guard runs before anything else, enumeration included. A non-nil
	// return aborts the whole batch with zero mutations.
	Guard func() error

	Engine *Engine
}

// Run enumerates candidates under every root, bakes them sequentially, and
// returns the aggregate summary plus every per-candidate outcome. Byte
// totals are measured by walking the full root trees before and after the
// batch, so side effects outside the candidate set show up too.
//
// Per-candidate failures are counted and do not abort the batch. Guard
// failures and missing roots are fatal and happen before any mutation.
// Cancellation is honored between candidates; a candidate in flight finishes
// its atomic commit or discard.
func (b *Batch) Run(ctx context.Context, updates chan<- ProgressUpdate) (Summary, []Outcome, error) {
	var summary Summary

	if b.Guard != nil {
		if err := b.Guard(); err != nil {
			return summary, nil, err
		}
	}

	var candidates []string
	for _, root := range b.Roots {
		files, err := Scan(root, b.Recursive)
		if err != nil {
			return summary, nil, err
		}
		candidates = append(candidates, files...)
	}

	for _, root := range b.Roots {
		summary.BytesBefore += DirSize(root)
	}

	summary.Total = len(candidates)
	send(updates, ProgressUpdate{TotalDelta: len(candidates)})

	outcomes := make([]Outcome, 0, len(candidates))
	for _, src := range candidates {
		if ctx != nil && ctx.Err() != nil {
			break
		}

		outcome := b.Engine.Bake(src)
		outcomes = append(outcomes, outcome)

		update := ProgressUpdate{ProcessedDelta: 1}
		switch outcome.Kind {
		case OutcomeWon:
			summary.Won++
			update.WonDelta = 1
			update.BytesSavedDelta = outcome.SrcSize - outcome.OutSize
		case OutcomeKept:
			summary.Kept++
			update.KeptDelta = 1
		case OutcomeSkipped:
			summary.Skipped++
			update.SkippedDelta = 1
		case OutcomeFailed:
			summary.Errors++
			update.ErrorDelta = 1
		}
		send(updates, update)
	}

	for _, root := range b.Roots {
		summary.BytesAfter += DirSize(root)
	}

	return summary, outcomes, nil
}

func send(updates chan<- ProgressUpdate, u ProgressUpdate) {
	if updates != nil {
		updates <- u
	}
}
