package match

import "strings"

// Bounds for the free-text fields of a Result. The remote service is told
// these limits but is not trusted to honor them.
const (
	maxAnalysisLen   = 300
	maxExperienceLen = 200
	maxEducationLen  = 200
)

// NormalizeConfidence maps a confidence from whatever scale the remote service
// used (0-1, 0-10 or 0-100, inconsistent across calls) onto [0,1].
// Values already in range pass through unchanged, so the function is
// idempotent.
func NormalizeConfidence(v float64) float64 {
	switch {
	case v > 10:
		v = v / 100
	case v > 1:
		v = v / 10
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ClampPercentage forces a score into [0,100].
func ClampPercentage(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

// CoerceRecommendation maps a remote verdict string onto the enum. Unknown or
// missing values become a weak match.
func CoerceRecommendation(v string) Recommendation {
	switch Recommendation(strings.TrimSpace(v)) {
	case RecommendationStrong:
		return RecommendationStrong
	case RecommendationModerate:
		return RecommendationModerate
	case RecommendationWeak:
		return RecommendationWeak
	default:
		return RecommendationWeak
	}
}

// RecommendationForScore derives the verdict from a percentage via the fixed
// thresholds used by the heuristic path.
func RecommendationForScore(pct int) Recommendation {
	switch {
	case pct >= 75:
		return RecommendationStrong
	case pct >= 50:
		return RecommendationModerate
	default:
		return RecommendationWeak
	}
}

// Truncate cuts s to at most limit characters, never splitting a rune. Remote
// responses may violate the declared field lengths.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
