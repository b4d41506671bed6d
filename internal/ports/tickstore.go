package ports

import (
	"context"

	"tickLabeler/internal/domain"
)

// TickSliceProvider loads the raw ticks covering one event's scan window.
// Implementations must return ticks ordered by timestamp and restricted to
// [fromNs, toNs]. A missing slice is reported as ErrTickSliceUnavailable so
// the orchestrator can fall back to the bar-level result; the per-event hot
// path never treats it as fatal.
type TickSliceProvider interface {
	// SliceForEvent fetches the ticks for the event entered at eventIndex
	// whose timestamps fall within [fromNs, toNs].
	SliceForEvent(ctx context.Context, eventIndex int, fromNs, toNs int64) (domain.TickSlice, error)
}

// LabelRepository persists labeling output. Results are write-once; there is
// no update surface.
type LabelRepository interface {
	// SaveRun stores a run's configuration snapshot and summary statistics,
	// keyed by runID.
	SaveRun(ctx context.Context, runID string, configJSON string, statsJSON string) error
	// SaveResults stores the label results of a run in one transaction.
	SaveResults(ctx context.Context, runID string, results []domain.LabelResult) error
	// FindResults retrieves a run's results ordered by event index.
	FindResults(ctx context.Context, runID string) ([]domain.LabelResult, error)
}
