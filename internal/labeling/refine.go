package labeling

import "tickLabeler/internal/domain"

// Refined is a tick-level re-resolution of a provisional bar outcome.
type Refined struct {
	Hit        domain.HitType
	Side       domain.Side
	ExitPrice  float64
	ExitTimeNs int64
}

// RefineFirstHit scans a tick slice in timestamp order and returns the first
// barrier crossing within [entryNs, exitNs]. The window bound enforces that
// a refined exit never precedes the entry time and never follows the
// bar-level provisional exit.
//
// Fill policy (deliberate, see tests): a barrier is crossed by the quote
// side that would fill the exiting order. A long exits by selling, so its
// take-profit and stop-loss both trigger only once the market trades
// through the level on the offered side — long TP/SL against the ask/bid
// pair as (ask >= tp, bid <= sl); short mirrored as (bid <= tp, ask >= sl).
// Exit prices are recorded at the barrier level, matching the bar scanner.
//
// The second return value is false when no tick in the window satisfies any
// condition; the provisional outcome then stands.
func RefineFirstHit(ticks domain.TickSlice, side domain.Side, b Barriers, entryNs, exitNs int64) (Refined, bool) {
	for _, tk := range ticks {
		if tk.TsNs < entryNs {
			continue
		}
		if tk.TsNs > exitNs {
			break
		}

		switch side {
		case domain.SideLong:
			if tk.Ask >= b.LongTP {
				return Refined{Hit: domain.HitTakeProfit, Side: domain.SideLong, ExitPrice: b.LongTP, ExitTimeNs: tk.TsNs}, true
			}
			if tk.Bid <= b.LongSL {
				return Refined{Hit: domain.HitStopLoss, Side: domain.SideLong, ExitPrice: b.LongSL, ExitTimeNs: tk.TsNs}, true
			}

		case domain.SideShort:
			if tk.Bid <= b.ShortTP {
				return Refined{Hit: domain.HitTakeProfit, Side: domain.SideShort, ExitPrice: b.ShortTP, ExitTimeNs: tk.TsNs}, true
			}
			if tk.Ask >= b.ShortSL {
				return Refined{Hit: domain.HitStopLoss, Side: domain.SideShort, ExitPrice: b.ShortSL, ExitTimeNs: tk.TsNs}, true
			}

		case domain.SideBoth:
			if r, ok := resolveBothTick(tk, b); ok {
				return r, true
			}
		}
	}
	return Refined{}, false
}

// resolveBothTick checks all four levels of a both-sided event against one
// tick. Within one direction the level nearer the entry was crossed first
// (exact tie resolves to the take-profit, matching the bar scanner). A tick
// whose spread straddles levels in both directions at once cannot be
// ordered even at tick resolution; that degenerate case keeps the
// conservative stop-loss preference, long before short.
func resolveBothTick(tk domain.Tick, b Barriers) (Refined, bool) {
	type cand struct {
		crossed bool
		hit     domain.HitType
		side    domain.Side
		level   float64
	}
	longTP := cand{tk.Ask >= b.LongTP, domain.HitTakeProfit, domain.SideLong, b.LongTP}
	shortSL := cand{tk.Ask >= b.ShortSL, domain.HitStopLoss, domain.SideShort, b.ShortSL}
	shortTP := cand{tk.Bid <= b.ShortTP, domain.HitTakeProfit, domain.SideShort, b.ShortTP}
	longSL := cand{tk.Bid <= b.LongSL, domain.HitStopLoss, domain.SideLong, b.LongSL}

	up := cand{}
	switch {
	case longTP.crossed && shortSL.crossed:
		if b.SLDist < b.TPDist {
			up = shortSL
		} else {
			up = longTP
		}
	case longTP.crossed:
		up = longTP
	case shortSL.crossed:
		up = shortSL
	}

	down := cand{}
	switch {
	case shortTP.crossed && longSL.crossed:
		if b.SLDist < b.TPDist {
			down = longSL
		} else {
			down = shortTP
		}
	case shortTP.crossed:
		down = shortTP
	case longSL.crossed:
		down = longSL
	}

	var c cand
	switch {
	case up.crossed && down.crossed:
		// Same resolution order as the bar scanner's ambiguous branch:
		// crossed stops first (long before short), long TP otherwise.
		switch {
		case longSL.crossed:
			c = longSL
		case shortSL.crossed:
			c = shortSL
		default:
			c = longTP
		}
	case up.crossed:
		c = up
	case down.crossed:
		c = down
	default:
		return Refined{}, false
	}
	return Refined{Hit: c.hit, Side: c.side, ExitPrice: c.level, ExitTimeNs: tk.TsNs}, true
}
