package scoring

// Weights configures the weighted scoring run. Values are read once per run
// and never mutated; cases may override individual weights at load time.
type Weights struct {
	PointsRequired int `json:"points_required"`
	PointsHelpful  int `json:"points_helpful"`
	PointsNeutral  int `json:"points_neutral"`
	PointsHarmful  int `json:"points_harmful"`
	PointsMissed   int `json:"points_missed"`
	TimeoutPenalty int `json:"timeout_penalty"`
	OrderBonus     int `json:"order_bonus"`
	EarlyBonus     int `json:"early_bonus"`
	HelpfulCap     int `json:"helpful_cap"`
}

// DefaultWeights returns the standard scoring configuration.
func DefaultWeights() Weights {
	return Weights{
		PointsRequired: 10,
		PointsHelpful:  3,
		PointsNeutral:  0,
		PointsHarmful:  -5,
		PointsMissed:   -8,
		TimeoutPenalty: -5,
		OrderBonus:     5,
		EarlyBonus:     5,
		HelpfulCap:     3,
	}
}

// Rating thresholds are fixed, not configurable.
const (
	RatingGold   = "A (Gold)"
	RatingSilver = "B (Silver)"
	RatingBronze = "C (Bronze)"
	RatingNeeds  = "Needs Improvement"
)

// RatingFor maps a final score to its letter rating.
func RatingFor(score int) string {
	switch {
	case score >= 90:
		return RatingGold
	case score >= 80:
		return RatingSilver
	case score >= 70:
		return RatingBronze
	default:
		return RatingNeeds
	}
}
