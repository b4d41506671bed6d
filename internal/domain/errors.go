package domain

import "errors"

// Validation errors for labeling inputs. Series-level errors are fatal for a
// whole run; event-level errors are recovered per event by the orchestrator.
var (
	ErrEmptySeries        = errors.New("price series is empty")
	ErrNonMonotonicSeries = errors.New("price series timestamps are not strictly increasing")
	ErrEventOutOfRange    = errors.New("event index outside the price series")
	ErrEmptyTickSlice     = errors.New("tick slice contains no ticks")
)
