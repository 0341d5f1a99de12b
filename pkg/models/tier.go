package models

// Tier is the lead score band that selects an outreach cadence.
type Tier int

const (
	TierCold     Tier = iota // [0, 0.4)
	TierLukewarm             // [0.4, 0.6)
	TierWarm                 // [0.6, 0.7)
	TierHot                  // [0.7, 0.8)
	TierTop                  // [0.8, 1.0]
)

// TierFor maps a rounded lead score to its band. Lower bounds are inclusive.
func TierFor(score float64) Tier {
	switch {
	case score >= 0.8:
		return TierTop
	case score >= 0.7:
		return TierHot
	case score >= 0.6:
		return TierWarm
	case score >= 0.4:
		return TierLukewarm
	default:
		return TierCold
	}
}

func (t Tier) String() string {
	switch t {
	case TierTop:
		return "top"
	case TierHot:
		return "hot"
	case TierWarm:
		return "warm"
	case TierLukewarm:
		return "lukewarm"
	default:
		return "cold"
	}
}
