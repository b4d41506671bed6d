package labeling

import "tickLabeler/internal/domain"

// RunStats summarizes one labeling run. Per-event failures surface here as
// counters, never as errors on the hot path.
type RunStats struct {
	TotalEvents               int     `json:"total_events"`
	ProfitEvents              int     `json:"profit_events"`
	LossEvents                int     `json:"loss_events"`
	TimeoutEvents             int     `json:"timeout_events"`
	AmbiguousEvents           int     `json:"ambiguous_events"`
	WinRate                   float64 `json:"win_rate"`
	AvgReturn                 float64 `json:"avg_return"`
	AvgDurationSeconds        float64 `json:"avg_duration_seconds"`
	AvgVolatility             float64 `json:"avg_volatility"`
	TickRefinedEvents         int     `json:"tick_refined_events"`
	EventsSkipped             int     `json:"events_skipped"`
	TickRefinementUnavailable int     `json:"events_tick_refinement_unavailable"`
}

// ComputeStats aggregates summary statistics over the assembled results.
func ComputeStats(results []domain.LabelResult, skipped, refined, refinementUnavailable int) RunStats {
	stats := RunStats{
		TotalEvents:               len(results),
		TickRefinedEvents:         refined,
		EventsSkipped:             skipped,
		TickRefinementUnavailable: refinementUnavailable,
	}
	if len(results) == 0 {
		return stats
	}

	var sumReturn, sumDuration, sumVol float64
	for _, r := range results {
		switch r.Label {
		case 1:
			stats.ProfitEvents++
		case -1:
			stats.LossEvents++
		default:
			stats.TimeoutEvents++
		}
		if r.Ambiguous {
			stats.AmbiguousEvents++
		}
		sumReturn += r.Return
		sumDuration += r.DurationSeconds()
		sumVol += r.VolatilityUsed
	}

	n := float64(len(results))
	stats.WinRate = float64(stats.ProfitEvents) / n
	stats.AvgReturn = sumReturn / n
	stats.AvgDurationSeconds = sumDuration / n
	stats.AvgVolatility = sumVol / n
	return stats
}
