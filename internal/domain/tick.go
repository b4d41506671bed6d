package domain

// Tick is a single top-of-book quote observation.
type Tick struct {
	TsNs int64   // Unix nanoseconds
	Bid  float64 // Best bid price
	Ask  float64 // Best ask price
}

// Mid returns the quote midpoint.
func (t Tick) Mid() float64 { return (t.Bid + t.Ask) / 2 }

// TickSlice is the subsequence of raw ticks covering one event's hit bar,
// ordered by timestamp. Slices are loaded on demand, read only, and
// discarded after refinement.
type TickSlice []Tick
