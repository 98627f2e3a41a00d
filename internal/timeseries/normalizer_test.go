package timeseries

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datalens/domain/dataset"
	"datalens/domain/profile"
)

func columnsFrom(dates, values []string) (*dataset.Column, *dataset.Column) {
	dc := &dataset.Column{Name: "date", Values: make([]dataset.Value, len(dates))}
	vc := &dataset.Column{Name: "value", Values: make([]dataset.Value, len(values))}
	for i := range dates {
		dc.Values[i] = dataset.ParseCell(dates[i])
	}
	for i := range values {
		vc.Values[i] = dataset.ParseCell(values[i])
	}
	return dc, vc
}

func dailySpan(n int) ([]string, []string) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	dates := make([]string, n)
	values := make([]string, n)
	for i := 0; i < n; i++ {
		dates[i] = start.AddDate(0, 0, i).Format("2006-01-02")
		values[i] = fmt.Sprintf("%d", 10+i)
	}
	return dates, values
}

func TestNormalizeRejectsTooFewPoints(t *testing.T) {
	n := NewNormalizer(DefaultMaxPoints)
	dc, vc := columnsFrom(
		[]string{"2023-01-01", "garbage"},
		[]string{"1", "2"},
	)

	ts, usable := n.Normalize(dc, vc)

	assert.False(t, usable)
	assert.Nil(t, ts)
}

func TestNormalizeDailyCadence(t *testing.T) {
	n := NewNormalizer(DefaultMaxPoints)
	dates, values := dailySpan(200)
	dc, vc := columnsFrom(dates, values)

	ts, usable := n.Normalize(dc, vc)

	require.True(t, usable)
	assert.Equal(t, profile.CadenceDaily, ts.Rule)
	assert.Equal(t, 200, ts.CleanCount)
	assert.Equal(t, 200, len(ts.Points))
	assert.Equal(t, "2023-01-01", ts.Points[0].Date)
	assert.Equal(t, "2023-07-19", ts.Points[len(ts.Points)-1].Date)
}

func TestNormalizeLongSpanDecimatesToCap(t *testing.T) {
	n := NewNormalizer(DefaultMaxPoints)
	dates, values := dailySpan(400)
	dc, vc := columnsFrom(dates, values)

	ts, usable := n.Normalize(dc, vc)

	require.True(t, usable)
	assert.Equal(t, 300, len(ts.Points))
	// Dates stay strictly increasing through decimation.
	for i := 1; i < len(ts.Points); i++ {
		assert.Less(t, ts.Points[i-1].Date, ts.Points[i].Date)
	}
}

func TestNormalizeWeeklyForMultiYearSpan(t *testing.T) {
	n := NewNormalizer(DefaultMaxPoints)
	start := time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC) // a Monday
	dates := make([]string, 160)
	values := make([]string, 160)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i*7).Format("2006-01-02")
		values[i] = "5"
	}
	dc, vc := columnsFrom(dates, values)

	ts, usable := n.Normalize(dc, vc)

	require.True(t, usable)
	assert.Equal(t, profile.CadenceWeekly, ts.Rule)
	assert.Equal(t, "2020-01-06", ts.Points[0].Date)
}

func TestNormalizeSumsWithinBuckets(t *testing.T) {
	n := NewNormalizer(DefaultMaxPoints)
	// Two observations on day one, spread over a month so cadence is daily.
	dc, vc := columnsFrom(
		[]string{"2023-03-01", "2023-03-01", "2023-03-10", "2023-03-20"},
		[]string{"3", "4", "10", "20"},
	)

	ts, usable := n.Normalize(dc, vc)

	require.True(t, usable)
	assert.Equal(t, profile.CadenceDaily, ts.Rule)
	assert.Equal(t, 7.0, ts.Points[0].Value)
	assert.Equal(t, 4, ts.CleanCount)
}

func TestNormalizeInterpolatesGaps(t *testing.T) {
	n := NewNormalizer(DefaultMaxPoints)
	dates := make([]string, 0, 20)
	values := make([]string, 0, 20)
	start := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 20; i++ {
		if i == 10 {
			continue // leave a one-day hole
		}
		dates = append(dates, start.AddDate(0, 0, i).Format("2006-01-02"))
		values = append(values, fmt.Sprintf("%d", i))
	}
	dc, vc := columnsFrom(dates, values)

	ts, usable := n.Normalize(dc, vc)

	require.True(t, usable)
	assert.Equal(t, 20, len(ts.Points))
	// The hole sits between 9 and 11.
	assert.Equal(t, 10.0, ts.Points[10].Value)
}

func TestNormalizeDropsRowsWithEitherSideBad(t *testing.T) {
	n := NewNormalizer(DefaultMaxPoints)
	dates, values := dailySpan(30)
	dates[5] = "not a date"
	values[7] = "not a number"
	dc, vc := columnsFrom(dates, values)

	ts, usable := n.Normalize(dc, vc)

	require.True(t, usable)
	assert.Equal(t, 28, ts.CleanCount)
}

func TestNormalizeDayFirstDates(t *testing.T) {
	n := NewNormalizer(DefaultMaxPoints)
	// 15/xx forces day-first; the series spans Jan 15 to Feb 13.
	start := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	dates := make([]string, 30)
	values := make([]string, 30)
	for i := range dates {
		d := start.AddDate(0, 0, i)
		dates[i] = fmt.Sprintf("%02d/%02d/%d", d.Day(), int(d.Month()), d.Year())
		values[i] = "1"
	}
	dc, vc := columnsFrom(dates, values)

	ts, usable := n.Normalize(dc, vc)

	require.True(t, usable)
	assert.Equal(t, "2023-01-15", ts.Points[0].Date)
	assert.Equal(t, 30, len(ts.Points))
}

func TestNormalizeWinsorizesExtremes(t *testing.T) {
	n := NewNormalizer(DefaultMaxPoints)
	dates, values := dailySpan(200)
	values[100] = "1000000"
	dc, vc := columnsFrom(dates, values)

	ts, usable := n.Normalize(dc, vc)

	require.True(t, usable)
	for _, pt := range ts.Points {
		assert.LessOrEqual(t, pt.Value, 250.0)
	}
}
