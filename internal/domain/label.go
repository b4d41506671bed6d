package domain

import "fmt"

// HitType identifies which of the three barriers terminated an event.
type HitType int

const (
	HitTimeout HitType = iota
	HitTakeProfit
	HitStopLoss
)

// String returns the short name used in exports ("TP", "SL", "TIMEOUT").
func (h HitType) String() string {
	switch h {
	case HitTakeProfit:
		return "TP"
	case HitStopLoss:
		return "SL"
	case HitTimeout:
		return "TIMEOUT"
	default:
		return fmt.Sprintf("hit(%d)", int(h))
	}
}

// ParseHitType converts the short export name back to a HitType.
func ParseHitType(v string) (HitType, error) {
	switch v {
	case "TP":
		return HitTakeProfit, nil
	case "SL":
		return HitStopLoss, nil
	case "TIMEOUT":
		return HitTimeout, nil
	default:
		return HitTimeout, fmt.Errorf("unknown hit type %q", v)
	}
}

// Label maps a hit type to its supervised-learning class.
func (h HitType) Label() int8 {
	switch h {
	case HitTakeProfit:
		return 1
	case HitStopLoss:
		return -1
	default:
		return 0
	}
}

// LabelResult is the write-once outcome of labeling one event.
type LabelResult struct {
	EventIndex     int     // Entry bar index of the originating event
	Side           Side    // Resolved direction; SideBoth only when a both-sided event timed out unresolved
	Return         float64 // Signed simple return of the resolved trade
	Label          int8    // +1 profit, -1 loss, 0 timeout
	EntryTimeNs    int64
	ExitTimeNs     int64
	EntryPrice     float64
	ExitPrice      float64
	HitType        HitType
	VolatilityUsed float64
	Ambiguous      bool // Both barrier conditions held on the exit bar
	TickRefined    bool // Outcome was re-resolved from tick data
}

// DurationSeconds returns the event's entry-to-exit span in seconds.
func (r LabelResult) DurationSeconds() float64 {
	return float64(r.ExitTimeNs-r.EntryTimeNs) / 1e9
}
