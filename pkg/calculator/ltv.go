package calculator

import (
	"math"
	"sort"

	"leadscore/pkg/apperr"

	"gonum.org/v1/gonum/floats"
)

// NormalizeLifetimeValue maps raw historical values (purchases × average
// value) into [0,1]: min-max scale, divide by twice the median of the scaled
// values, clip, round. The division centres a typical record near 0.5
// however skewed the batch is.
//
// A batch whose values are all equal returns a DegenerateRange error. When
// the median of the scaled values is zero, every positive value clips to 1
// and zeros stay 0.
func NormalizeLifetimeValue(raw []float64) ([]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	lo, hi := floats.Min(raw), floats.Max(raw)
	if hi == lo {
		return nil, apperr.DegenerateRange("lifetime value range is empty (max equals min)").WithOp("normalize")
	}

	scaled := make([]float64, len(raw))
	for i, v := range raw {
		scaled[i] = (v - lo) / (hi - lo)
	}
	med := median(scaled)

	out := make([]float64, len(raw))
	for i, v := range scaled {
		switch {
		case med == 0 && v > 0:
			out[i] = 1
		case med == 0:
			out[i] = 0
		default:
			out[i] = round2(clip01(v / (2 * med)))
		}
	}
	return out, nil
}

// median averages the two middle values of an even-length sample.
func median(xs []float64) float64 {
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

func clip01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// round2 rounds half to even at two decimals.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
