package labeling

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"tickLabeler/internal/domain"
	"tickLabeler/internal/ports"
)

// Config holds the labeling parameters for one run.
type Config struct {
	TPVolMultiple     float64       // Take-profit distance in volatility multiples
	SLVolMultiple     float64       // Stop-loss distance in volatility multiples
	TimeoutBars       int           // Bar-count cap for the forward scan
	TimeoutSeconds    int           // Wall-clock cap for the forward scan
	VolLookback       int           // Bars of volatility history averaged per event
	VolAlpha          float64       // EWMA decay factor, in (0,1)
	MinVolatility     float64       // Floor clamp applied to every event's volatility
	UseTickRefinement bool          // Re-resolve barrier hits from tick slices
	Workers           int           // Concurrent event workers; 0 means NumCPU
	TickFetchTimeout  time.Duration // Per-event budget for tick-slice loading; 0 means 5s
}

func (c Config) validate() error {
	var errs []string
	if c.TPVolMultiple < 0 {
		errs = append(errs, "TPVolMultiple cannot be negative")
	}
	if c.SLVolMultiple < 0 {
		errs = append(errs, "SLVolMultiple cannot be negative")
	}
	if c.TimeoutBars <= 0 {
		errs = append(errs, "TimeoutBars must be positive")
	}
	if c.TimeoutSeconds <= 0 {
		errs = append(errs, "TimeoutSeconds must be positive")
	}
	if c.VolLookback <= 0 {
		errs = append(errs, "VolLookback must be positive")
	}
	if c.VolAlpha <= 0 || c.VolAlpha >= 1 {
		errs = append(errs, "VolAlpha must be in (0,1)")
	}
	if c.MinVolatility <= 0 {
		errs = append(errs, "MinVolatility must be positive")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", ports.ErrConfigurationError, errs)
	}
	return nil
}

// Labeler applies triple-barrier labeling with optional tick-level
// first-hit refinement to batches of events.
type Labeler struct {
	cfg    Config
	logger ports.Logger
	ticks  ports.TickSliceProvider // nil when refinement is disabled or no store is wired
}

// New validates the configuration and creates a Labeler. The tick provider
// may be nil; refinement is then skipped for every event.
func New(cfg Config, logger ports.Logger, ticks ports.TickSliceProvider) (*Labeler, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for Labeler")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.TickFetchTimeout <= 0 {
		cfg.TickFetchTimeout = 5 * time.Second
	}
	return &Labeler{cfg: cfg, logger: logger, ticks: ticks}, nil
}

// workerStats accumulates per-worker counters, merged after the pool drains
// so the hot path shares no mutable state.
type workerStats struct {
	skipped               int
	refined               int
	refinementUnavailable int
}

// Run labels every event against the series and returns the results in
// event-input order together with summary statistics. Events are processed
// by a worker pool; each result lands in its own slot of a preallocated
// slice, so completion order never reorders output. Cancellation is checked
// between events: on ctx cancellation Run returns the results computed so
// far along with ctx's error.
func (l *Labeler) Run(ctx context.Context, series *domain.PriceSeries, events []domain.Event) ([]domain.LabelResult, RunStats, error) {
	if series == nil || series.Len() == 0 {
		return nil, RunStats{}, domain.ErrEmptySeries
	}
	if len(events) == 0 {
		return nil, RunStats{}, nil
	}

	vols := EWMAVolatility(series.Returns(), l.cfg.VolAlpha)

	results := make([]domain.LabelResult, len(events))
	done := make([]bool, len(events)) // true when results[i] holds a labeled event

	jobs := make(chan int)
	var wg sync.WaitGroup
	perWorker := make([]workerStats, l.cfg.Workers)

	for w := 0; w < l.cfg.Workers; w++ {
		wg.Add(1)
		go func(ws *workerStats) {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue // drain; already-computed results stay intact
				}
				res, ok := l.labelOne(ctx, series, vols, events[i], ws)
				if ok {
					results[i] = res
					done[i] = true
				}
			}
		}(&perWorker[w])
	}

	for i := range events {
		if ctx.Err() != nil {
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	final := make([]domain.LabelResult, 0, len(events))
	for i := range events {
		if done[i] {
			final = append(final, results[i])
		}
	}

	var merged workerStats
	for _, ws := range perWorker {
		merged.skipped += ws.skipped
		merged.refined += ws.refined
		merged.refinementUnavailable += ws.refinementUnavailable
	}
	stats := ComputeStats(final, merged.skipped, merged.refined, merged.refinementUnavailable)

	if err := ctx.Err(); err != nil {
		l.logger.Warn(ctx, "Labeling canceled, returning partial results", map[string]interface{}{
			"completed": len(final), "requested": len(events)})
		return final, stats, err
	}
	return final, stats, nil
}

// labelOne runs the volatility -> barriers -> scan -> refine pipeline for a
// single event. Per-event failures are recovered: out-of-range events are
// skipped and counted, refinement failures fall back to the bar-level
// outcome. The bool result is false only when the event produced no label.
func (l *Labeler) labelOne(ctx context.Context, series *domain.PriceSeries, vols []float64, ev domain.Event, ws *workerStats) (domain.LabelResult, bool) {
	if ev.Index < 0 || ev.Index >= series.Len()-1 {
		ws.skipped++
		l.logger.Debug(ctx, "Skipping event outside series", map[string]interface{}{
			"index": ev.Index, "seriesLen": series.Len(), "reason": domain.ErrEventOutOfRange.Error()})
		return domain.LabelResult{}, false
	}

	vol := EventVolatility(vols, ev.Index, l.cfg.VolLookback, l.cfg.MinVolatility)

	tpMult := l.cfg.TPVolMultiple
	if ev.TPMultiple > 0 {
		tpMult = ev.TPMultiple
	}
	slMult := l.cfg.SLVolMultiple
	if ev.SLMultiple > 0 {
		slMult = ev.SLMultiple
	}

	entry := series.Mids()[ev.Index]
	entryTs := series.CloseTimes()[ev.Index]
	b := ComputeBarriers(entry, vol, tpMult, slMult)

	prov := ScanBars(series, ev.Index, ev.Side, b, l.cfg.TimeoutBars, int64(l.cfg.TimeoutSeconds)*int64(time.Second))

	res := domain.LabelResult{
		EventIndex:     ev.Index,
		Side:           prov.Side,
		EntryTimeNs:    entryTs,
		ExitTimeNs:     prov.ExitTimeNs,
		EntryPrice:     entry,
		ExitPrice:      prov.ExitPrice,
		HitType:        prov.Hit,
		VolatilityUsed: vol,
		Ambiguous:      prov.Ambiguous,
	}

	if l.cfg.UseTickRefinement && l.ticks != nil && prov.Hit != domain.HitTimeout {
		if refined, ok := l.refineOne(ctx, ev, b, entryTs, prov, ws); ok {
			res.Side = refined.Side
			res.HitType = refined.Hit
			res.ExitPrice = refined.ExitPrice
			res.ExitTimeNs = refined.ExitTimeNs
			res.TickRefined = true
			ws.refined++
		}
	}

	res.Label = res.HitType.Label()
	res.Return = signedReturn(res.Side, entry, res.ExitPrice)
	return res, true
}

// refineOne loads the event's tick slice under a short timeout and applies
// first-hit refinement. Any load failure degrades to the bar-level result.
func (l *Labeler) refineOne(ctx context.Context, ev domain.Event, b Barriers, entryTs int64, prov Provisional, ws *workerStats) (Refined, bool) {
	fetchCtx, cancel := context.WithTimeout(ctx, l.cfg.TickFetchTimeout)
	defer cancel()

	slice, err := l.ticks.SliceForEvent(fetchCtx, ev.Index, entryTs, prov.ExitTimeNs)
	if err != nil || len(slice) == 0 {
		ws.refinementUnavailable++
		if err != nil {
			l.logger.Debug(ctx, "Tick slice unavailable, keeping bar-level result", map[string]interface{}{
				"eventIndex": ev.Index, "error": err.Error()})
		}
		return Refined{}, false
	}
	return RefineFirstHit(slice, ev.Side, b, entryTs, prov.ExitTimeNs)
}

// signedReturn computes the simple return of the resolved trade. Unresolved
// both-sided timeouts have no realized direction and return zero.
func signedReturn(side domain.Side, entry, exit float64) float64 {
	if entry == 0 {
		return 0
	}
	switch side {
	case domain.SideLong:
		return (exit - entry) / entry
	case domain.SideShort:
		return (entry - exit) / entry
	default:
		return 0
	}
}
