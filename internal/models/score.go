package models

// ScoreTier buckets an agent-first score for display
type ScoreTier string

const (
	ScoreTierHigh   ScoreTier = "high"
	ScoreTierMedium ScoreTier = "medium"
	ScoreTierLow    ScoreTier = "low"
)

// TierForScore maps a score to its display tier
func TierForScore(score int) ScoreTier {
	switch {
	case score >= 9:
		return ScoreTierHigh
	case score >= 7:
		return ScoreTierMedium
	default:
		return ScoreTierLow
	}
}

// ScoreLabel returns the short verdict shown next to a score
func ScoreLabel(score int) string {
	switch {
	case score == 10:
		return "Native"
	case score >= 9:
		return "Excellent"
	case score >= 7:
		return "Good"
	case score >= 5:
		return "Partial"
	default:
		return "Limited"
	}
}
