package domain

import "math"

// RawPercent is current/target*100 without rounding or clamping. A target of
// zero or below yields 0 so degenerate key results never leak NaN or Inf into
// rollups and status bands.
func RawPercent(kr KeyResult) float64 {
	if kr.Target <= 0 {
		return 0
	}
	return kr.Current / kr.Target * 100
}

// KeyResultProgress is the rounded completion percentage, unbounded above.
func KeyResultProgress(kr KeyResult) int {
	return roundHalfUp(RawPercent(kr))
}

// ObjectiveProgress averages the raw per key result percentages and rounds
// the mean. With allowOverachievement false the result is capped at 100.
func ObjectiveProgress(keyResults []KeyResult, allowOverachievement bool) int {
	if len(keyResults) == 0 {
		return 0
	}
	total := 0.0
	for _, kr := range keyResults {
		total += RawPercent(kr)
	}
	avg := roundHalfUp(total / float64(len(keyResults)))
	if !allowOverachievement && avg > 100 {
		return 100
	}
	return avg
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
