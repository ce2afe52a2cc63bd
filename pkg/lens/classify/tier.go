package classify

import "strings"

// Tier is the canonical three-level risk bucket. Every score-like or
// risk-level-like value in the system maps through TierForScore or
// TierForLevel; no other thresholding rule exists.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "High"
	case TierMedium:
		return "Medium"
	default:
		return "Low"
	}
}

// TierForScore buckets a 0-10 score. Thresholds are strict: a score of
// exactly 6 is Medium, exactly 3 is Low.
func TierForScore(score float64) Tier {
	if score > 6 {
		return TierHigh
	}
	if score > 3 {
		return TierMedium
	}
	return TierLow
}

// TierForLevel buckets a free-form risk-level string by substring match,
// case-insensitive. "critical" and "high" are checked before "medium",
// so "Medium-High" lands in the High tier.
func TierForLevel(level string) Tier {
	l := strings.ToLower(level)
	if strings.Contains(l, "critical") || strings.Contains(l, "high") {
		return TierHigh
	}
	if strings.Contains(l, "medium") {
		return TierMedium
	}
	return TierLow
}
