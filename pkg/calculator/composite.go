package calculator

import "math"

// maxShift bounds how far a weight moves from 0.5; weights stay in [0.2, 0.8].
const maxShift = 0.3

// BlendWeights returns the weights of the purchase and lifetime sub-scores.
// The larger sub-score is up-weighted by 0.3·|p−l|.
func BlendWeights(p, l float64) (wp, wl float64) {
	adj := maxShift * math.Abs(p-l)
	switch {
	case p > l:
		return 0.5 + adj, 0.5 - adj
	case l > p:
		return 0.5 - adj, 0.5 + adj
	default:
		return 0.5, 0.5
	}
}

// LeadScore blends p and l into one score rounded to 2 decimals.
func LeadScore(p, l float64) float64 {
	wp, wl := BlendWeights(p, l)
	return round2(p*wp + l*wl)
}
