package labeling

import "math"

// DefaultEventVolatility is used for events at index 0, where no return
// history exists yet.
const DefaultEventVolatility = 0.01

// EWMAVolatility computes an exponentially weighted moving standard
// deviation over a return series:
//
//	var[0] = r[0]^2
//	var[t] = alpha*var[t-1] + (1-alpha)*r[t]^2
//	vol[t] = sqrt(var[t])
//
// An empty input yields an empty result. Pure function, no side effects.
func EWMAVolatility(returns []float64, alpha float64) []float64 {
	if len(returns) == 0 {
		return nil
	}
	vols := make([]float64, len(returns))
	v := returns[0] * returns[0]
	vols[0] = math.Sqrt(v)
	for t := 1; t < len(returns); t++ {
		v = alpha*v + (1-alpha)*returns[t]*returns[t]
		vols[t] = math.Sqrt(v)
	}
	return vols
}

// EventVolatility derives the scalar volatility for an event entered at
// index from a precomputed EWMA volatility series: the mean of
// vols[max(0, index-lookback) .. index-1]. Index 0 has no history and gets
// DefaultEventVolatility. The result is floor-clamped to minVol so barriers
// never collapse to zero width on flat series.
func EventVolatility(vols []float64, index, lookback int, minVol float64) float64 {
	var vol float64
	if index <= 0 || len(vols) == 0 {
		vol = DefaultEventVolatility
	} else {
		from := index - lookback
		if from < 0 {
			from = 0
		}
		to := index
		if to > len(vols) {
			to = len(vols)
		}
		sum := 0.0
		for _, v := range vols[from:to] {
			sum += v
		}
		vol = sum / float64(to-from)
	}
	if vol < minVol {
		vol = minVol
	}
	return vol
}
