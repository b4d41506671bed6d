package labeling

// Barriers holds the absolute take-profit and stop-loss price levels for
// both trade directions of one event. Single-sided events only consult
// their own direction's pair; both-sided events consult all four.
type Barriers struct {
	Entry   float64
	TPDist  float64 // tpMultiple * volatility
	SLDist  float64 // slMultiple * volatility
	LongTP  float64 // Entry + TPDist
	LongSL  float64 // Entry - SLDist
	ShortTP float64 // Entry - TPDist
	ShortSL float64 // Entry + SLDist
}

// ComputeBarriers derives barrier levels from an entry price, a volatility
// scalar and the two multiples. Pure function, no state, no I/O.
func ComputeBarriers(entry, vol, tpMultiple, slMultiple float64) Barriers {
	tpDist := tpMultiple * vol
	slDist := slMultiple * vol
	return Barriers{
		Entry:   entry,
		TPDist:  tpDist,
		SLDist:  slDist,
		LongTP:  entry + tpDist,
		LongSL:  entry - slDist,
		ShortTP: entry - tpDist,
		ShortSL: entry + slDist,
	}
}
