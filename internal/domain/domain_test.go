package domain

import (
	"errors"
	"testing"
)

func TestNewPriceSeries(t *testing.T) {
	tests := []struct {
		name    string
		bars    []Bar
		wantErr error
	}{
		{
			name:    "empty series",
			bars:    nil,
			wantErr: ErrEmptySeries,
		},
		{
			name: "valid series with a gap",
			bars: []Bar{
				{CloseTimeNs: 100, Open: 1, High: 1, Low: 1, Close: 1},
				{CloseTimeNs: 200, Open: 1, High: 1, Low: 1, Close: 1},
				{CloseTimeNs: 900, Open: 1, High: 1, Low: 1, Close: 1}, // gaps are tolerated
			},
			wantErr: nil,
		},
		{
			name: "duplicate timestamp",
			bars: []Bar{
				{CloseTimeNs: 100},
				{CloseTimeNs: 100},
			},
			wantErr: ErrNonMonotonicSeries,
		},
		{
			name: "decreasing timestamp",
			bars: []Bar{
				{CloseTimeNs: 200},
				{CloseTimeNs: 100},
			},
			wantErr: ErrNonMonotonicSeries,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewPriceSeries(tt.bars)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Len() != len(tt.bars) {
				t.Errorf("Len = %d, want %d", s.Len(), len(tt.bars))
			}
		})
	}
}

func TestBarMid(t *testing.T) {
	b := Bar{Open: 10, High: 14, Low: 8, Close: 12}
	if got := b.Mid(); got != 11 {
		t.Errorf("Mid = %v, want 11", got)
	}
}

func TestPriceSeriesReturns(t *testing.T) {
	bars := []Bar{
		{CloseTimeNs: 1, Open: 100, High: 100, Low: 100, Close: 100},
		{CloseTimeNs: 2, Open: 110, High: 110, Low: 110, Close: 110},
		{CloseTimeNs: 3, Open: 99, High: 99, Low: 99, Close: 99},
	}
	s, err := NewPriceSeries(bars)
	if err != nil {
		t.Fatal(err)
	}
	rets := s.Returns()
	if rets[0] != 0 {
		t.Errorf("rets[0] = %v, want 0", rets[0])
	}
	if got, want := rets[1], 0.1; absDiff(got, want) > 1e-12 {
		t.Errorf("rets[1] = %v, want %v", got, want)
	}
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestParseSide(t *testing.T) {
	tests := []struct {
		in      string
		want    Side
		wantErr bool
	}{
		{"long", SideLong, false},
		{"Short", SideShort, false},
		{" BOTH ", SideBoth, false},
		{"up", SideLong, true},
		{"", SideLong, true},
	}
	for _, tt := range tests {
		got, err := ParseSide(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSide(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseSide(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHitTypeLabel(t *testing.T) {
	if HitTakeProfit.Label() != 1 || HitStopLoss.Label() != -1 || HitTimeout.Label() != 0 {
		t.Error("hit type to label mapping broken")
	}
}
