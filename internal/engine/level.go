package engine

import "math"

const (
	// LevelCoef scales the completion curve: req(L) = 5 * (L-1)^1.5.
	LevelCoef = 5.0

	// PointsPerDifficulty is the default point value per difficulty step.
	PointsPerDifficulty = 5
)

// CompletionsRequiredForLevel returns the total completions needed to reach level.
// Level 1 requires none.
func CompletionsRequiredForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	req := LevelCoef * math.Pow(float64(level-1), 1.5)
	// Use ceil to avoid making thresholds easier due to floating point rounding.
	return int(math.Ceil(req))
}

// LevelForCompletions returns the highest level L such that
// completed >= CompletionsRequiredForLevel(L). It is never below 1.
func LevelForCompletions(completed int) int {
	if completed <= 0 {
		return 1
	}

	// Exponential search upper bound, then binary search.
	low := 1
	high := 2
	for CompletionsRequiredForLevel(high) <= completed {
		low = high
		high *= 2
		if high > 1_000_000 {
			break
		}
	}

	for low+1 < high {
		mid := low + (high-low)/2
		if CompletionsRequiredForLevel(mid) <= completed {
			low = mid
		} else {
			high = mid
		}
	}
	return low
}

// DefaultPoints is the point value a catalog entry gets when it declares none.
func DefaultPoints(d Difficulty) int {
	if !d.IsValid() {
		return PointsPerDifficulty
	}
	return int(d) * PointsPerDifficulty
}
