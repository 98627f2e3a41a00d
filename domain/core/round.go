package core

import "math"

// Round1 rounds to one decimal place (reading time, success rates).
func Round1(v float64) float64 {
	return roundTo(v, 10)
}

// Round2 rounds to two decimal places. Percentages and scores emitted in
// summaries go through this so serialized output is stable.
func Round2(v float64) float64 {
	return roundTo(v, 100)
}

// Round3 rounds to three decimal places (correlation coefficients).
func Round3(v float64) float64 {
	return roundTo(v, 1000)
}

// Round4 rounds to four decimal places (descriptive statistics).
func Round4(v float64) float64 {
	return roundTo(v, 10000)
}

func roundTo(v, factor float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*factor) / factor
}

// SafeFloat scrubs NaN/Inf to zero so emitted structures stay JSON-safe.
func SafeFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
