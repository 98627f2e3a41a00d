package coerce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseNumericFormats(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"42", 42},
		{"-3.5", -3.5},
		{"$1,234.56", 1234.56},
		{"(250)", -250},
		{"1.234,56", 1234.56},
		{"1 234,56", 1234.56},
		{"85%", 85},
		{"3,5", 3.5},
		{"€ 99", 99},
	}
	for _, tc := range cases {
		got, ok := ParseNumeric(tc.raw)
		assert.True(t, ok, "raw=%q", tc.raw)
		assert.InDelta(t, tc.want, got, 1e-9, "raw=%q", tc.raw)
	}
}

func TestParseNumericRejects(t *testing.T) {
	for _, raw := range []string{"", "  ", "abc", "12abc", "NaN", "Inf"} {
		_, ok := ParseNumeric(raw)
		assert.False(t, ok, "raw=%q", raw)
	}
}

func TestDetectDayFirst(t *testing.T) {
	dayFirst := []string{"25/01/2024", "03/02/2024", "14/06/2024", "08/09/2024", "30/12/2024"}
	assert.True(t, DetectDayFirst(dayFirst))

	monthFirst := []string{"01/25/2024", "02/03/2024", "06/14/2024", "09/08/2024", "12/30/2024"}
	assert.False(t, DetectDayFirst(monthFirst))

	iso := []string{"2024-01-25", "2024-02-03"}
	assert.False(t, DetectDayFirst(iso))
}

func TestParseTimestampAmbiguousLayouts(t *testing.T) {
	got, ok := ParseTimestamp("05/01/2024", false)
	assert.True(t, ok)
	assert.Equal(t, time.May, got.Month())

	got, ok = ParseTimestamp("05/01/2024", true)
	assert.True(t, ok)
	assert.Equal(t, time.January, got.Month())
	assert.Equal(t, 5, got.Day())
}

func TestParseTimestampNormalizesZones(t *testing.T) {
	got, ok := ParseTimestamp("2024-06-01T12:00:00+02:00", false)
	assert.True(t, ok)
	assert.Equal(t, 10, got.Hour())
	assert.Equal(t, time.UTC, got.Location())
}

func TestParseTimestampRejectsJunk(t *testing.T) {
	for _, raw := range []string{"", "not a date", "13/13/2024 25:99"} {
		_, ok := ParseTimestamp(raw, false)
		assert.False(t, ok, "raw=%q", raw)
	}
}
