package domain

import "fmt"

// Bar represents a single aggregated price bar.
type Bar struct {
	OpenTimeNs  int64   // Start of the bar interval, Unix nanoseconds
	CloseTimeNs int64   // End of the bar interval, Unix nanoseconds
	Open        float64 // Opening price
	High        float64 // Highest price
	Low         float64 // Lowest price
	Close       float64 // Closing price
	Volume      float64 // Traded volume (zero when the source has none)
}

// Mid returns the OHLC/4 representative price of the bar.
func (b Bar) Mid() float64 {
	return (b.Open + b.High + b.Low + b.Close) / 4
}

// PriceSeries is an ordered, immutable sequence of bars. It precomputes the
// mid-price and close-timestamp arrays the labeling kernels scan over, so
// workers share read-only slices and allocate nothing per event.
type PriceSeries struct {
	bars    []Bar
	mids    []float64
	highs   []float64
	lows    []float64
	closeNs []int64
}

// NewPriceSeries validates and wraps a bar sequence. The series must be
// non-empty with strictly increasing close timestamps; gaps are tolerated.
// Validation failures here are fatal for a labeling run.
func NewPriceSeries(bars []Bar) (*PriceSeries, error) {
	if len(bars) == 0 {
		return nil, ErrEmptySeries
	}
	mids := make([]float64, len(bars))
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	closeNs := make([]int64, len(bars))
	for i, b := range bars {
		if i > 0 && b.CloseTimeNs <= bars[i-1].CloseTimeNs {
			return nil, fmt.Errorf("%w: bar %d close %d <= bar %d close %d",
				ErrNonMonotonicSeries, i, b.CloseTimeNs, i-1, bars[i-1].CloseTimeNs)
		}
		mids[i] = b.Mid()
		highs[i] = b.High
		lows[i] = b.Low
		closeNs[i] = b.CloseTimeNs
	}
	return &PriceSeries{bars: bars, mids: mids, highs: highs, lows: lows, closeNs: closeNs}, nil
}

// Len returns the number of bars in the series.
func (s *PriceSeries) Len() int { return len(s.bars) }

// Bar returns the bar at index i.
func (s *PriceSeries) Bar(i int) Bar { return s.bars[i] }

// Mids returns the shared mid-price array. Callers must not mutate it.
func (s *PriceSeries) Mids() []float64 { return s.mids }

// Highs returns the shared high-price array. Callers must not mutate it.
func (s *PriceSeries) Highs() []float64 { return s.highs }

// Lows returns the shared low-price array. Callers must not mutate it.
func (s *PriceSeries) Lows() []float64 { return s.lows }

// CloseTimes returns the shared close-timestamp array. Callers must not mutate it.
func (s *PriceSeries) CloseTimes() []int64 { return s.closeNs }

// Returns computes the bar-over-bar simple returns of the mid prices.
// Element 0 is always zero, matching the series length.
func (s *PriceSeries) Returns() []float64 {
	rets := make([]float64, len(s.mids))
	for i := 1; i < len(s.mids); i++ {
		if s.mids[i-1] != 0 {
			rets[i] = s.mids[i]/s.mids[i-1] - 1
		}
	}
	return rets
}
