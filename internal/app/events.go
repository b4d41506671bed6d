package app

import (
	"encoding/json"
	"fmt"
	"os"

	"tickLabeler/internal/domain"
)

// eventSpec is the on-disk shape of one event. Side and the barrier
// multiples are optional; zero values defer to the run configuration.
type eventSpec struct {
	Index      int     `json:"index"`
	Side       string  `json:"side,omitempty"`
	TPMultiple float64 `json:"tp_multiple,omitempty"`
	SLMultiple float64 `json:"sl_multiple,omitempty"`
}

// loadEvents reads a JSON array of event specs.
func loadEvents(path string, defaultSide domain.Side) ([]domain.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading events file %s: %w", path, err)
	}
	var specs []eventSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("parsing events file %s: %w", path, err)
	}

	events := make([]domain.Event, 0, len(specs))
	for i, spec := range specs {
		if spec.Index < 0 {
			return nil, fmt.Errorf("events file %s: entry %d has negative index %d", path, i, spec.Index)
		}
		side := defaultSide
		if spec.Side != "" {
			if side, err = domain.ParseSide(spec.Side); err != nil {
				return nil, fmt.Errorf("events file %s: entry %d: %w", path, i, err)
			}
		}
		events = append(events, domain.Event{
			Index:      spec.Index,
			Side:       side,
			TPMultiple: spec.TPMultiple,
			SLMultiple: spec.SLMultiple,
		})
	}
	return events, nil
}

// generateEvents places one event every `spacing` bars across the series.
// The first and last bars are skipped: the first has no volatility history
// and the last has no forward bars to scan.
func generateEvents(seriesLen, spacing int, side domain.Side) []domain.Event {
	var events []domain.Event
	for i := spacing; i < seriesLen-1; i += spacing {
		events = append(events, domain.Event{Index: i, Side: side})
	}
	return events
}
