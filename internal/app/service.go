package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"tickLabeler/config"
	"tickLabeler/internal/domain"
	"tickLabeler/internal/labeling"
	"tickLabeler/internal/ports"
	"tickLabeler/internal/utils"
)

// LabelingService orchestrates one labeling run: load bars, resolve the
// event list, run the labeler, persist the results.
type LabelingService struct {
	cfg    *config.Config
	logger ports.Logger
	ticks  ports.TickSliceProvider // nil when TICK_SOURCE=none
	repo   ports.LabelRepository
}

// NewLabelingService creates a new application service instance.
func NewLabelingService(
	cfg *config.Config,
	logger ports.Logger,
	ticks ports.TickSliceProvider,
	repo ports.LabelRepository,
) (*LabelingService, error) {

	// Validate dependencies
	if cfg == nil || logger == nil || repo == nil {
		return nil, fmt.Errorf("missing required dependencies for LabelingService")
	}
	if cfg.UseTickRefinement && ticks == nil {
		return nil, fmt.Errorf("tick refinement is enabled but no tick slice provider was supplied")
	}

	return &LabelingService{
		cfg:    cfg,
		logger: logger,
		ticks:  ticks,
		repo:   repo,
	}, nil
}

// Start runs a labeling pass under signal-driven cancellation. SIGINT or
// SIGTERM cancels the run; partial results are still persisted.
func (s *LabelingService) Start(ctx context.Context) error {
	s.logger.Info(ctx, "Starting Labeling Service...")

	// Create a context that can be canceled by signals
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			s.logger.Info(ctx, "Received shutdown signal", map[string]interface{}{"signal": sig.String()})
			cancel() // Cancel the main context
		case <-ctx.Done():
		}
	}()

	runID, err := s.Run(ctx)
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "Labeling Service finished", map[string]interface{}{"runID": runID})
	return nil
}

// Run executes one labeling pass and returns the persisted run ID.
func (s *LabelingService) Run(ctx context.Context) (string, error) {
	// 1. Load the bar series
	bars, err := utils.ReadBarsFromCSV(s.cfg.BarsPath)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to load bars", map[string]interface{}{"path": s.cfg.BarsPath})
		return "", fmt.Errorf("loading bars from %s: %w", s.cfg.BarsPath, err)
	}
	series, err := domain.NewPriceSeries(bars)
	if err != nil {
		return "", fmt.Errorf("building price series from %s: %w", s.cfg.BarsPath, err)
	}
	s.logger.Info(ctx, "Bar series loaded", map[string]interface{}{
		"path": s.cfg.BarsPath, "bars": series.Len()})

	// 2. Resolve the event list
	var events []domain.Event
	if s.cfg.EventsPath != "" {
		if events, err = loadEvents(s.cfg.EventsPath, s.cfg.Side); err != nil {
			return "", err
		}
		s.logger.Info(ctx, "Events loaded", map[string]interface{}{
			"path": s.cfg.EventsPath, "events": len(events)})
	} else {
		events = generateEvents(series.Len(), s.cfg.EventSpacing, s.cfg.Side)
		s.logger.Info(ctx, "Events generated", map[string]interface{}{
			"spacing": s.cfg.EventSpacing, "events": len(events)})
	}

	// 3. Label
	labeler, err := labeling.New(labeling.Config{
		TPVolMultiple:     s.cfg.TPVolMultiple,
		SLVolMultiple:     s.cfg.SLVolMultiple,
		TimeoutBars:       s.cfg.TimeoutBars,
		TimeoutSeconds:    s.cfg.TimeoutSeconds,
		VolLookback:       s.cfg.VolLookback,
		VolAlpha:          s.cfg.VolAlpha,
		MinVolatility:     s.cfg.MinVolatility,
		UseTickRefinement: s.cfg.UseTickRefinement,
		Workers:           s.cfg.Workers,
		TickFetchTimeout:  s.cfg.TickFetchTimeout,
	}, s.logger, s.ticks)
	if err != nil {
		return "", err
	}

	results, stats, runErr := labeler.Run(ctx, series, events)
	if runErr != nil && len(results) == 0 {
		return "", runErr
	}
	if runErr != nil {
		s.logger.Warn(ctx, "Labeling run interrupted, persisting partial results", map[string]interface{}{
			"labeled": len(results), "requested": len(events)})
	}

	// 4. Persist the run
	runID := uuid.NewString()
	if err := s.persist(ctx, runID, results, stats); err != nil {
		return "", err
	}

	// 5. Optional CSV export for downstream training
	if s.cfg.ResultsPath != "" {
		if err := utils.WriteResultsToCSV(results, s.cfg.ResultsPath); err != nil {
			s.logger.Error(ctx, err, "Failed to export results CSV", map[string]interface{}{"path": s.cfg.ResultsPath})
			return "", fmt.Errorf("exporting results to %s: %w", s.cfg.ResultsPath, err)
		}
		s.logger.Info(ctx, "Results exported", map[string]interface{}{"path": s.cfg.ResultsPath})
	}

	s.logger.Info(ctx, "Labeling run complete", map[string]interface{}{
		"runID":     runID,
		"total":     stats.TotalEvents,
		"profit":    stats.ProfitEvents,
		"loss":      stats.LossEvents,
		"timeout":   stats.TimeoutEvents,
		"ambiguous": stats.AmbiguousEvents,
		"winRate":   stats.WinRate,
	})
	return runID, runErr
}

// runConfigSnapshot is the JSON shape of the configuration stored with a
// run, restricted to the parameters that determine its output.
type runConfigSnapshot struct {
	TPVolMultiple     float64 `json:"tp_vol_multiple"`
	SLVolMultiple     float64 `json:"sl_vol_multiple"`
	TimeoutBars       int     `json:"timeout_bars"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
	Side              string  `json:"side"`
	VolLookback       int     `json:"vol_lookback"`
	VolAlpha          float64 `json:"vol_alpha"`
	MinVolatility     float64 `json:"min_volatility"`
	UseTickRefinement bool    `json:"use_tick_refinement"`
	TickSource        string  `json:"tick_source"`
	BarsPath          string  `json:"bars_path"`
	EventsPath        string  `json:"events_path,omitempty"`
	EventSpacing      int     `json:"event_spacing,omitempty"`
}

func (s *LabelingService) persist(ctx context.Context, runID string, results []domain.LabelResult, stats labeling.RunStats) error {
	snapshot := runConfigSnapshot{
		TPVolMultiple:     s.cfg.TPVolMultiple,
		SLVolMultiple:     s.cfg.SLVolMultiple,
		TimeoutBars:       s.cfg.TimeoutBars,
		TimeoutSeconds:    s.cfg.TimeoutSeconds,
		Side:              s.cfg.Side.String(),
		VolLookback:       s.cfg.VolLookback,
		VolAlpha:          s.cfg.VolAlpha,
		MinVolatility:     s.cfg.MinVolatility,
		UseTickRefinement: s.cfg.UseTickRefinement,
		TickSource:        s.cfg.TickSource,
		BarsPath:          s.cfg.BarsPath,
		EventsPath:        s.cfg.EventsPath,
		EventSpacing:      s.cfg.EventSpacing,
	}
	configJSON, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshaling run config: %w", err)
	}
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshaling run stats: %w", err)
	}

	if err := s.repo.SaveRun(ctx, runID, string(configJSON), string(statsJSON)); err != nil {
		return err
	}
	if err := s.repo.SaveResults(ctx, runID, results); err != nil {
		return err
	}
	s.logger.Info(ctx, "Run persisted", map[string]interface{}{"runID": runID, "results": len(results)})
	return nil
}
