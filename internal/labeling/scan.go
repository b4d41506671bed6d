package labeling

import "tickLabeler/internal/domain"

// Provisional is the bar-level outcome of scanning one event. It is the
// final outcome unless tick refinement overrides it.
type Provisional struct {
	Hit        domain.HitType
	Side       domain.Side // resolved direction; SideBoth only for unresolved timeouts
	ExitIndex  int
	ExitPrice  float64
	ExitTimeNs int64
	// Ambiguous is set when opposing barrier conditions held on the exit
	// bar. OHLC resolution cannot order the crossings, so the provisional
	// outcome is the conservative stop-loss default and the event should be
	// re-resolved from ticks.
	Ambiguous bool
}

// ScanBars walks forward bar-by-bar from the event's entry index until a
// barrier is crossed or a timeout binds. Crossing tests use each bar's
// high/low; exit prices are recorded at the barrier level (fill policy:
// barrier price, not the crossing print) and timeout exits at the boundary
// bar's mid. The scan stops at min(entryIndex+timeoutBars, last bar) or at
// the last bar closing within timeoutNs of entry, whichever binds first.
//
// The caller guarantees entryIndex < len(series)-1. The function allocates
// nothing and only reads the shared series arrays, so it is safe to call
// from concurrent workers.
func ScanBars(series *domain.PriceSeries, entryIndex int, side domain.Side, b Barriers, timeoutBars int, timeoutNs int64) Provisional {
	highs := series.Highs()
	lows := series.Lows()
	mids := series.Mids()
	closeNs := series.CloseTimes()

	entryTs := closeNs[entryIndex]
	deadline := entryTs + timeoutNs
	last := entryIndex + timeoutBars
	if last > len(mids)-1 {
		last = len(mids) - 1
	}

	boundary := entryIndex // last in-window bar actually scanned
	for t := entryIndex + 1; t <= last; t++ {
		if closeNs[t] > deadline {
			break
		}
		boundary = t

		switch side {
		case domain.SideLong:
			tpHit := highs[t] >= b.LongTP
			slHit := lows[t] <= b.LongSL
			if tpHit && slHit {
				return Provisional{Hit: domain.HitStopLoss, Side: domain.SideLong, ExitIndex: t, ExitPrice: b.LongSL, ExitTimeNs: closeNs[t], Ambiguous: true}
			}
			if tpHit {
				return Provisional{Hit: domain.HitTakeProfit, Side: domain.SideLong, ExitIndex: t, ExitPrice: b.LongTP, ExitTimeNs: closeNs[t]}
			}
			if slHit {
				return Provisional{Hit: domain.HitStopLoss, Side: domain.SideLong, ExitIndex: t, ExitPrice: b.LongSL, ExitTimeNs: closeNs[t]}
			}

		case domain.SideShort:
			tpHit := lows[t] <= b.ShortTP
			slHit := highs[t] >= b.ShortSL
			if tpHit && slHit {
				return Provisional{Hit: domain.HitStopLoss, Side: domain.SideShort, ExitIndex: t, ExitPrice: b.ShortSL, ExitTimeNs: closeNs[t], Ambiguous: true}
			}
			if tpHit {
				return Provisional{Hit: domain.HitTakeProfit, Side: domain.SideShort, ExitIndex: t, ExitPrice: b.ShortTP, ExitTimeNs: closeNs[t]}
			}
			if slHit {
				return Provisional{Hit: domain.HitStopLoss, Side: domain.SideShort, ExitIndex: t, ExitPrice: b.ShortSL, ExitTimeNs: closeNs[t]}
			}

		case domain.SideBoth:
			if p, ok := resolveBothBar(highs[t], lows[t], b, t, closeNs[t]); ok {
				return p
			}
		}
	}

	// Timed out. The exit bar is the boundary bar, never the entry bar: if
	// even the first scanned bar fell outside the wall-clock window, the
	// event exits there.
	if boundary == entryIndex {
		boundary = entryIndex + 1
		if boundary > len(mids)-1 {
			boundary = len(mids) - 1
		}
	}
	outSide := side
	return Provisional{Hit: domain.HitTimeout, Side: outSide, ExitIndex: boundary, ExitPrice: mids[boundary], ExitTimeNs: closeNs[boundary]}
}

// resolveBothBar evaluates the four crossing conditions of a both-sided
// event on one bar. Within one price direction the level nearer the entry
// is always crossed first (price moves continuously), so up-levels and
// down-levels are each internally ordered; only an up-cross and a
// down-cross on the same bar are genuinely ambiguous. That case defaults to
// a crossed stop-loss (long before short), or the long take-profit when
// only profit levels were struck, and is flagged for tick refinement.
func resolveBothBar(high, low float64, b Barriers, t int, ts int64) (Provisional, bool) {
	longTP := high >= b.LongTP   // up-cross at Entry+TPDist
	shortSL := high >= b.ShortSL // up-cross at Entry+SLDist
	shortTP := low <= b.ShortTP  // down-cross at Entry-TPDist
	longSL := low <= b.LongSL    // down-cross at Entry-SLDist

	up := longTP || shortSL
	down := shortTP || longSL

	switch {
	case up && down:
		p := Provisional{ExitIndex: t, ExitTimeNs: ts, Ambiguous: true}
		switch {
		case longSL:
			p.Hit, p.Side, p.ExitPrice = domain.HitStopLoss, domain.SideLong, b.LongSL
		case shortSL:
			p.Hit, p.Side, p.ExitPrice = domain.HitStopLoss, domain.SideShort, b.ShortSL
		default:
			p.Hit, p.Side, p.ExitPrice = domain.HitTakeProfit, domain.SideLong, b.LongTP
		}
		return p, true

	case up:
		// Nearer up-level first; exact tie resolves to the long take-profit.
		if shortSL && (!longTP || b.SLDist < b.TPDist) {
			return Provisional{Hit: domain.HitStopLoss, Side: domain.SideShort, ExitIndex: t, ExitPrice: b.ShortSL, ExitTimeNs: ts}, true
		}
		return Provisional{Hit: domain.HitTakeProfit, Side: domain.SideLong, ExitIndex: t, ExitPrice: b.LongTP, ExitTimeNs: ts}, true

	case down:
		// Nearer down-level first; exact tie resolves to the short take-profit.
		if longSL && (!shortTP || b.SLDist < b.TPDist) {
			return Provisional{Hit: domain.HitStopLoss, Side: domain.SideLong, ExitIndex: t, ExitPrice: b.LongSL, ExitTimeNs: ts}, true
		}
		return Provisional{Hit: domain.HitTakeProfit, Side: domain.SideShort, ExitIndex: t, ExitPrice: b.ShortTP, ExitTimeNs: ts}, true
	}
	return Provisional{}, false
}
