package domain

import (
	"fmt"
	"strings"
)

// Side is the direction of a labeled trade opportunity.
type Side int

const (
	// SideLong profits from rising prices.
	SideLong Side = iota
	// SideShort profits from falling prices.
	SideShort
	// SideBoth resolves whichever direction's barrier is struck first.
	SideBoth
)

// String returns the lowercase name of the side.
func (s Side) String() string {
	switch s {
	case SideLong:
		return "long"
	case SideShort:
		return "short"
	case SideBoth:
		return "both"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// ParseSide converts a string ("long", "short", "both") to a Side.
func ParseSide(v string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "long":
		return SideLong, nil
	case "short":
		return SideShort, nil
	case "both":
		return SideBoth, nil
	default:
		return SideLong, fmt.Errorf("unknown side %q (want long, short or both)", v)
	}
}

// Event is a request to label one trade opportunity at a bar index.
// TPMultiple/SLMultiple, when positive, override the run-wide volatility
// multiples for this event only.
type Event struct {
	Index      int  // Entry position in the price series
	Side       Side // Direction to resolve
	TPMultiple float64
	SLMultiple float64
}
