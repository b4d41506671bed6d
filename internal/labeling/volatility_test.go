package labeling

import (
	"math"
	"testing"
)

const volEpsilon = 1e-12

func TestEWMAVolatility(t *testing.T) {
	tests := []struct {
		name    string
		returns []float64
		alpha   float64
		want    []float64
	}{
		{
			name:    "empty input yields empty output",
			returns: nil,
			alpha:   0.94,
			want:    nil,
		},
		{
			name:    "single return",
			returns: []float64{0.01},
			alpha:   0.94,
			want:    []float64{0.01},
		},
		{
			name:    "recursion follows var[t] = a*var[t-1] + (1-a)*r[t]^2",
			returns: []float64{0.01, -0.02, 0.03},
			alpha:   0.9,
			want: []float64{
				0.01,
				math.Sqrt(0.9*0.0001 + 0.1*0.0004),
				math.Sqrt(0.9*(0.9*0.0001+0.1*0.0004) + 0.1*0.0009),
			},
		},
		{
			name:    "flat returns stay at zero",
			returns: []float64{0, 0, 0, 0},
			alpha:   0.94,
			want:    []float64{0, 0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EWMAVolatility(tt.returns, tt.alpha)
			if len(got) != len(tt.want) {
				t.Fatalf("length mismatch: got %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > volEpsilon {
					t.Errorf("vol[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEventVolatility(t *testing.T) {
	vols := []float64{0.10, 0.20, 0.30, 0.40, 0.50}

	tests := []struct {
		name     string
		index    int
		lookback int
		minVol   float64
		want     float64
	}{
		{
			name:     "index zero uses the default volatility",
			index:    0,
			lookback: 3,
			minVol:   0.001,
			want:     DefaultEventVolatility,
		},
		{
			name:     "full lookback window excludes the entry index",
			index:    4,
			lookback: 3,
			minVol:   0.001,
			want:     (0.20 + 0.30 + 0.40) / 3,
		},
		{
			name:     "short history truncates the window at zero",
			index:    2,
			lookback: 10,
			minVol:   0.001,
			want:     (0.10 + 0.20) / 2,
		},
		{
			name:     "floor clamp applies to the result",
			index:    3,
			lookback: 3,
			minVol:   0.9,
			want:     0.9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EventVolatility(vols, tt.index, tt.lookback, tt.minVol)
			if math.Abs(got-tt.want) > volEpsilon {
				t.Errorf("EventVolatility = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEventVolatilityFlatSeriesFloor(t *testing.T) {
	flat := make([]float64, 50)
	got := EventVolatility(flat, 30, 20, 0.001)
	if got != 0.001 {
		t.Errorf("flat series volatility = %v, want floor 0.001", got)
	}
}
