// Package coerce holds the deterministic text-to-type parsing primitives
// shared by the column classifier and the time-series normalizer.
package coerce

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParseNumeric attempts to parse text as a number with lenient rules:
// parentheses for negatives, currency symbols, percentage signs, and
// European/French separators are handled before strconv.
func ParseNumeric(raw string) (float64, bool) {
	cleanVal := strings.TrimSpace(raw)
	if cleanVal == "" {
		return 0, false
	}

	// Parentheses for negative numbers: (123) -> -123
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	for _, symbol := range []string{"$", "€", "£", "¥", "USD", "EUR", "GBP", "JPY"} {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}
	cleanVal = strings.TrimSpace(cleanVal)
	cleanVal = strings.ReplaceAll(cleanVal, "%", "")

	hasComma := strings.Contains(cleanVal, ",")
	hasPeriod := strings.Contains(cleanVal, ".")
	hasSpace := strings.Contains(cleanVal, " ")

	switch {
	case hasComma && (hasPeriod || hasSpace):
		// European (1.234,56) or French (1 234,56) format: the last comma
		// is the decimal separator when few digits follow it.
		commaIdx := strings.LastIndex(cleanVal, ",")
		afterComma := cleanVal[commaIdx+1:]
		if len(afterComma) <= 3 && isAllDigits(afterComma) {
			cleanVal = strings.ReplaceAll(cleanVal, ".", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		}
	case hasComma:
		cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
	default:
		cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		cleanVal = strings.ReplaceAll(cleanVal, " ", "")
	}

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// IsWhole reports whether a coerced value is a whole number
func IsWhole(v float64) bool {
	return v == math.Trunc(v)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Timestamp layouts tried in order. Month-first and day-first variants are
// selected by the caller via the day-first heuristic.
var (
	commonLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
		"2006/01/02 15:04:05",
		"2006/01/02",
		"02-Jan-2006",
		"Jan 2, 2006",
	}
	monthFirstLayouts = []string{
		"01/02/2006 15:04:05",
		"01/02/2006 15:04",
		"01/02/2006",
		"1/2/2006",
		"01-02-2006",
		"1-2-2006",
	}
	dayFirstLayouts = []string{
		"02/01/2006 15:04:05",
		"02/01/2006 15:04",
		"02/01/2006",
		"2/1/2006",
		"02-01-2006",
		"2-1-2006",
	}
)

var ambiguousDatePrefix = regexp.MustCompile(`^\s*(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})`)

// DayFirstSampleSize bounds how many values feed the day-first heuristic.
const DayFirstSampleSize = 60

// DetectDayFirst inspects up to DayFirstSampleSize values and reports
// whether the column should be parsed with day-first semantics: a value
// whose first numeric group exceeds 12 while the second does not is
// day-first evidence, and 20% of the sample providing such evidence flips
// the whole column.
func DetectDayFirst(values []string) bool {
	sample := values
	if len(sample) > DayFirstSampleSize {
		sample = sample[:DayFirstSampleSize]
	}
	if len(sample) == 0 {
		return false
	}

	hits := 0
	for _, v := range sample {
		m := ambiguousDatePrefix.FindStringSubmatch(v)
		if m == nil {
			continue
		}
		first, _ := strconv.Atoi(m[1])
		second, _ := strconv.Atoi(m[2])
		if first > 12 && second <= 12 {
			hits++
		}
	}

	threshold := int(math.Max(1, float64(len(sample))*0.2))
	return hits >= threshold
}

// ParseTimestamp attempts to parse text as a timestamp. Timezone-aware
// values are converted to UTC and the result is always timezone-naive.
func ParseTimestamp(raw string, dayFirst bool) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	ambiguous := monthFirstLayouts
	if dayFirst {
		ambiguous = dayFirstLayouts
	}

	for _, layout := range commonLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return naive(t), true
		}
	}
	for _, layout := range ambiguous {
		if t, err := time.Parse(layout, s); err == nil {
			return naive(t), true
		}
	}
	return time.Time{}, false
}

// naive strips the location, converting zoned times to UTC first
func naive(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), u.Minute(), u.Second(), u.Nanosecond(), time.UTC)
}
