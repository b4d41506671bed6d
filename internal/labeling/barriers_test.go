package labeling

import (
	"math"
	"testing"
)

func TestComputeBarriers(t *testing.T) {
	tests := []struct {
		name                string
		entry, vol          float64
		tpMult, slMult      float64
		wantLongTP          float64
		wantLongSL          float64
		wantShortTP         float64
		wantShortSL         float64
	}{
		{
			name:  "unit multiples",
			entry: 100, vol: 2, tpMult: 1, slMult: 1,
			wantLongTP: 102, wantLongSL: 98, wantShortTP: 98, wantShortSL: 102,
		},
		{
			name:  "asymmetric multiples",
			entry: 1.1000, vol: 0.001, tpMult: 2, slMult: 1.5,
			wantLongTP: 1.1020, wantLongSL: 1.0985, wantShortTP: 1.0980, wantShortSL: 1.1015,
		},
		{
			name:  "zero multiples collapse to the entry price",
			entry: 50, vol: 3, tpMult: 0, slMult: 0,
			wantLongTP: 50, wantLongSL: 50, wantShortTP: 50, wantShortSL: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ComputeBarriers(tt.entry, tt.vol, tt.tpMult, tt.slMult)
			checks := []struct {
				field string
				got   float64
				want  float64
			}{
				{"LongTP", b.LongTP, tt.wantLongTP},
				{"LongSL", b.LongSL, tt.wantLongSL},
				{"ShortTP", b.ShortTP, tt.wantShortTP},
				{"ShortSL", b.ShortSL, tt.wantShortSL},
			}
			for _, c := range checks {
				if math.Abs(c.got-c.want) > 1e-9 {
					t.Errorf("%s = %v, want %v", c.field, c.got, c.want)
				}
			}
		})
	}
}
