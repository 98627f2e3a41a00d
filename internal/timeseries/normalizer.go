// Package timeseries turns a noisy (datetime text, numeric text) column
// pair into a plot-ready, regularly spaced series: parse, winsorize,
// resample to a cadence chosen from the observed span, interpolate gaps
// and decimate to a bounded point count.
package timeseries

import (
	"math"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/domain/profile"
	"datalens/internal/coerce"
)

// DefaultMaxPoints bounds the emitted series length
const DefaultMaxPoints = 300

// minUsablePoints rejects series too short to plot
const minUsablePoints = 3

// Normalizer resamples irregular time series. Stateless; safe for
// concurrent use.
type Normalizer struct {
	maxPoints int
}

// NewNormalizer creates a normalizer with the given point budget
func NewNormalizer(maxPoints int) *Normalizer {
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}
	return &Normalizer{maxPoints: maxPoints}
}

type observation struct {
	at  time.Time
	val float64
}

// Normalize cleans and resamples one (date, value) column pair. The second
// return value is false when no usable series could be built; that is a
// normal outcome, not an error.
func (n *Normalizer) Normalize(dateCol, valueCol *dataset.Column) (*profile.TimeSeries, bool) {
	if dateCol == nil || valueCol == nil {
		return nil, false
	}

	obs := n.cleanPairs(dateCol, valueCol)
	if len(obs) == 0 {
		return nil, false
	}

	sort.Slice(obs, func(i, j int) bool { return obs[i].at.Before(obs[j].at) })
	winsorize(obs)

	rule := selectCadence(obs[0].at, obs[len(obs)-1].at)
	grid, values := resample(obs, rule)
	interpolate(values)

	if len(grid) < minUsablePoints {
		return nil, false
	}

	grid, values = decimate(grid, values, n.maxPoints)

	points := make([]profile.TimePoint, len(grid))
	for i := range grid {
		points[i] = profile.TimePoint{
			Date:  core.DateOnly(grid[i]),
			Value: core.SafeFloat(values[i]),
		}
	}

	return &profile.TimeSeries{
		DateColumn:  dateCol.Name,
		ValueColumn: valueCol.Name,
		Rule:        rule,
		CleanCount:  len(obs),
		Points:      points,
	}, true
}

// cleanPairs parses both columns row by row, dropping any row where either
// side fails. The day-first decision is made once for the whole column.
func (n *Normalizer) cleanPairs(dateCol, valueCol *dataset.Column) []observation {
	rows := len(dateCol.Values)
	if len(valueCol.Values) < rows {
		rows = len(valueCol.Values)
	}

	dayFirst := coerce.DetectDayFirst(dateCol.NonMissing())

	obs := make([]observation, 0, rows)
	for i := 0; i < rows; i++ {
		dv, vv := dateCol.Values[i], valueCol.Values[i]
		if dv.Missing || vv.Missing {
			continue
		}
		at, ok := coerce.ParseTimestamp(dv.Raw, dayFirst)
		if !ok {
			continue
		}
		val, ok := coerce.ParseNumeric(vv.Raw)
		if !ok {
			continue
		}
		obs = append(obs, observation{at: at, val: val})
	}
	return obs
}

// winsorize clips values to their 1st/99th percentile in place. Display
// values only; the underlying dataset is untouched.
func winsorize(obs []observation) {
	if len(obs) < 2 {
		return
	}
	values := make([]float64, len(obs))
	for i, o := range obs {
		values[i] = o.val
	}
	lo, err1 := stats.Percentile(values, 1)
	hi, err2 := stats.Percentile(values, 99)
	if err1 != nil || err2 != nil || lo > hi {
		return
	}
	for i := range obs {
		if obs[i].val < lo {
			obs[i].val = lo
		}
		if obs[i].val > hi {
			obs[i].val = hi
		}
	}
}

// selectCadence picks the bucket width from the span between the earliest
// and latest observation.
func selectCadence(first, last time.Time) profile.Cadence {
	span := last.Sub(first)
	days := int(span / (24 * time.Hour))
	if span%(24*time.Hour) > 0 {
		days++
	}

	switch {
	case days >= 365*2:
		return profile.CadenceWeekly
	case days >= 180:
		return profile.CadenceDaily
	case days >= 14:
		return profile.CadenceDaily
	case days >= 2:
		return profile.CadenceHourly
	default:
		return profile.CadenceQuarterHr
	}
}

// bucketOf truncates a timestamp to its cadence bucket start. Weekly
// buckets start on Monday.
func bucketOf(t time.Time, rule profile.Cadence) time.Time {
	switch rule {
	case profile.CadenceWeekly:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case profile.CadenceDaily:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case profile.CadenceHourly:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute()-t.Minute()%15, 0, 0, time.UTC)
	}
}

func cadenceStep(rule profile.Cadence) time.Duration {
	switch rule {
	case profile.CadenceWeekly:
		return 7 * 24 * time.Hour
	case profile.CadenceDaily:
		return 24 * time.Hour
	case profile.CadenceHourly:
		return time.Hour
	default:
		return 15 * time.Minute
	}
}

// resample sums observations per bucket over a regular grid from the first
// to the last occupied bucket. Empty buckets hold NaN, never a fabricated
// zero; interpolation decides their value later.
func resample(obs []observation, rule profile.Cadence) ([]time.Time, []float64) {
	sums := make(map[time.Time]float64)
	for _, o := range obs {
		sums[bucketOf(o.at, rule)] += o.val
	}

	start := bucketOf(obs[0].at, rule)
	end := bucketOf(obs[len(obs)-1].at, rule)
	step := cadenceStep(rule)

	var grid []time.Time
	var values []float64
	for t := start; !t.After(end); t = t.Add(step) {
		grid = append(grid, t)
		if v, ok := sums[t]; ok {
			values = append(values, v)
		} else {
			values = append(values, math.NaN())
		}
	}
	return grid, values
}

// interpolate fills NaN gaps linearly in both directions: interior gaps
// get linear interpolation between their neighbors, leading and trailing
// gaps take the nearest observed value.
func interpolate(values []float64) {
	n := len(values)
	prev := -1
	for i := 0; i < n; i++ {
		if math.IsNaN(values[i]) {
			continue
		}
		if prev == -1 {
			// Back-fill everything before the first observation.
			for j := 0; j < i; j++ {
				values[j] = values[i]
			}
		} else if i-prev > 1 {
			step := (values[i] - values[prev]) / float64(i-prev)
			for j := prev + 1; j < i; j++ {
				values[j] = values[prev] + step*float64(j-prev)
			}
		}
		prev = i
	}
	if prev == -1 {
		return
	}
	for j := prev + 1; j < n; j++ {
		values[j] = values[prev]
	}
}

// decimate evenly thins a series to maxPoints by index, preserving the
// first and last points and the overall shape.
func decimate(grid []time.Time, values []float64, maxPoints int) ([]time.Time, []float64) {
	n := len(grid)
	if n <= maxPoints || maxPoints < 2 {
		return grid, values
	}

	outGrid := make([]time.Time, maxPoints)
	outValues := make([]float64, maxPoints)
	for i := 0; i < maxPoints; i++ {
		idx := int(math.Round(float64(i) * float64(n-1) / float64(maxPoints-1)))
		outGrid[i] = grid[idx]
		outValues[i] = values[idx]
	}
	return outGrid, outValues
}
