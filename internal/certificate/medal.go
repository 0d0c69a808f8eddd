package certificate

import "math"

const (
	MedalElite      = "Elite"
	MedalOpus       = "Opus"
	MedalLegend     = "Legend"
	MedalGold       = "Gold"
	MedalSilverPlus = "Silver+"
	MedalSilver     = "Silver"
	MedalBronze     = "Bronze"
)

// MedalTier maps a percentage to its band. Opus is the closed band 90..94,
// so fractional values between 94 and 95 fall through to Legend. Negative
// and NaN percentages have no tier.
func MedalTier(percentage float64) string {
	switch {
	case math.IsNaN(percentage) || percentage < 0:
		return ""
	case percentage >= 95:
		return MedalElite
	case percentage >= 90 && percentage <= 94:
		return MedalOpus
	case percentage >= 85:
		return MedalLegend
	case percentage >= 80:
		return MedalGold
	case percentage >= 75:
		return MedalSilverPlus
	case percentage >= 70:
		return MedalSilver
	default:
		return MedalBronze
	}
}
