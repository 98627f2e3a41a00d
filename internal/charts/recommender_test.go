package charts

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datalens/domain/dataset"
	"datalens/domain/profile"
)

func typesFor(ds *dataset.Dataset, kinds map[string]profile.DetectedType) map[string]profile.TypeAssignment {
	out := make(map[string]profile.TypeAssignment, len(kinds))
	for name, kind := range kinds {
		ta := profile.TypeAssignment{DetectedType: kind}
		if col, found := ds.Column(name); found {
			ta.UniqueCount = col.UniqueCount()
		}
		out[name] = ta
	}
	return out
}

func specFor(t *testing.T, attempts []Attempt, key string) *profile.ChartSpec {
	t.Helper()
	for _, a := range attempts {
		if a.Key == key {
			require.True(t, a.Ok(), "chart %s skipped: %s", key, a.Skip)
			return a.Spec
		}
	}
	t.Fatalf("no attempt with key %s", key)
	return nil
}

func skipFor(t *testing.T, attempts []Attempt, key string) string {
	t.Helper()
	for _, a := range attempts {
		if a.Key == key {
			require.False(t, a.Ok(), "chart %s unexpectedly built", key)
			return a.Skip
		}
	}
	t.Fatalf("no attempt with key %s", key)
	return ""
}

func TestBaselineHistogramCountsSumToPresentValues(t *testing.T) {
	rows := make([][]string, 120)
	rng := rand.New(rand.NewSource(7))
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("%.3f", rng.NormFloat64()*10+50)}
	}
	rows[5] = []string{""}
	ds := dataset.FromRows([]string{"score"}, rows)
	types := typesFor(ds, map[string]profile.DetectedType{"score": profile.TypeFloat})

	attempts := NewRecommender(DefaultOptions()).Baseline(ds, types, []string{"score"})
	spec := specFor(t, attempts, "score")

	require.NotNil(t, spec.Histogram)
	h := spec.Histogram
	assert.Len(t, h.BinEdges, len(h.Counts)+1)
	assert.GreaterOrEqual(t, len(h.Counts), 5)
	assert.LessOrEqual(t, len(h.Counts), DefaultOptions().MaxBins)

	total := 0
	for _, c := range h.Counts {
		total += c
	}
	assert.Equal(t, 119, total)
}

func TestBaselineBarTopCategories(t *testing.T) {
	rows := make([][]string, 40)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("cat_%d", i%15)}
	}
	ds := dataset.FromRows([]string{"label"}, rows)
	types := typesFor(ds, map[string]profile.DetectedType{"label": profile.TypeCategorical})

	attempts := NewRecommender(DefaultOptions()).Baseline(ds, types, nil)
	spec := specFor(t, attempts, "label")

	require.NotNil(t, spec.Bar)
	assert.LessOrEqual(t, len(spec.Bar.Categories), 12)
	assert.Equal(t, 15, spec.Bar.TotalUnique)
}

func TestBaselineScatterEmitsRegardlessOfCorrelation(t *testing.T) {
	rows := make([][]string, 40)
	rng := rand.New(rand.NewSource(11))
	for i := range rows {
		rows[i] = []string{
			fmt.Sprintf("%.3f", rng.Float64()),
			fmt.Sprintf("%.3f", rng.Float64()),
		}
	}
	ds := dataset.FromRows([]string{"a", "b"}, rows)
	types := typesFor(ds, map[string]profile.DetectedType{
		"a": profile.TypeFloat, "b": profile.TypeFloat,
	})

	attempts := NewRecommender(DefaultOptions()).Baseline(ds, types, []string{"a", "b"})
	spec := specFor(t, attempts, "scatter_a_vs_b")

	require.NotNil(t, spec.Scatter)
	assert.Equal(t, 40, spec.Scatter.SampleSize)
}

func TestSmartScatterGatedByCorrelation(t *testing.T) {
	// Alternating y against increasing x correlates near zero.
	rows := make([][]string, 40)
	for i := range rows {
		rows[i] = []string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%d", i%2),
		}
	}
	ds := dataset.FromRows([]string{"a", "b"}, rows)
	types := typesFor(ds, map[string]profile.DetectedType{
		"a": profile.TypeFloat, "b": profile.TypeFloat,
	})

	attempts := NewRecommender(SmartOptions()).Smart(ds, types, []string{"a", "b"}, nil)
	reason := skipFor(t, attempts, "scatter_a_vs_b")

	assert.Contains(t, reason, "below threshold")
}

func TestScatterRequiresTenJointRows(t *testing.T) {
	ds := dataset.FromRows(
		[]string{"a", "b"},
		[][]string{
			{"1", "1"}, {"2", "2"}, {"3", "3"}, {"4", ""},
			{"5", "5"}, {"6", "6"}, {"7", ""}, {"8", "8"},
			{"9", "9"}, {"10", "10"}, {"11", "11"},
		},
	)
	types := typesFor(ds, map[string]profile.DetectedType{
		"a": profile.TypeInteger, "b": profile.TypeInteger,
	})

	attempts := NewRecommender(DefaultOptions()).Baseline(ds, types, []string{"a", "b"})
	reason := skipFor(t, attempts, "scatter_a_vs_b")

	assert.Contains(t, reason, "fewer than 10")
}

func TestScatterSamplesDownToBudget(t *testing.T) {
	rows := make([][]string, 300)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("%d", i), fmt.Sprintf("%d", i*2)}
	}
	ds := dataset.FromRows([]string{"a", "b"}, rows)
	types := typesFor(ds, map[string]profile.DetectedType{
		"a": profile.TypeInteger, "b": profile.TypeInteger,
	})

	attempts := NewRecommender(SmartOptions()).Smart(ds, types, []string{"a", "b"}, nil)
	spec := specFor(t, attempts, "scatter_a_vs_b")

	require.NotNil(t, spec.Scatter)
	assert.Equal(t, 100, spec.Scatter.SampleSize)
	assert.Equal(t, 1.0, spec.Scatter.Correlation)
}

func TestSmartTrendAndCumulative(t *testing.T) {
	points := make([]profile.TimePoint, 10)
	for i := range points {
		points[i] = profile.TimePoint{Date: fmt.Sprintf("2024-01-%02d", i+1), Value: 2}
	}
	series := []*profile.TimeSeries{{
		DateColumn:  "day",
		ValueColumn: "sales",
		Rule:        profile.CadenceDaily,
		Points:      points,
	}}

	attempts := NewRecommender(SmartOptions()).Smart(&dataset.Dataset{}, nil, nil, series)

	trend := specFor(t, attempts, "trend_sales_over_time")
	require.NotNil(t, trend.Series)
	assert.True(t, trend.Series.DateAxis)
	assert.Len(t, trend.Series.YData, 10)

	cum := specFor(t, attempts, "cumulative_sales")
	require.NotNil(t, cum.Series)
	assert.Equal(t, 2.0, cum.Series.YData[0])
	assert.Equal(t, 20.0, cum.Series.YData[9])
}

func TestSmartRankingSumsAndOrders(t *testing.T) {
	ds := dataset.FromRows(
		[]string{"region", "amount"},
		[][]string{
			{"east", "10"}, {"west", "100"}, {"east", "15"},
			{"north", "40"}, {"west", "1"},
		},
	)
	types := typesFor(ds, map[string]profile.DetectedType{
		"region": profile.TypeCategorical, "amount": profile.TypeFloat,
	})

	attempts := NewRecommender(SmartOptions()).Smart(ds, types, []string{"amount"}, nil)
	spec := specFor(t, attempts, "top_region_by_amount")

	require.NotNil(t, spec.Series)
	assert.Equal(t, []string{"west", "north", "east"}, spec.Series.XData)
	assert.Equal(t, []float64{101, 40, 25}, spec.Series.YData)
}

func TestSmartPieGating(t *testing.T) {
	balanced := make([][]string, 30)
	for i := range balanced {
		balanced[i] = []string{fmt.Sprintf("g%d", i%4)}
	}
	ds := dataset.FromRows([]string{"group"}, balanced)
	types := typesFor(ds, map[string]profile.DetectedType{"group": profile.TypeCategorical})

	attempts := NewRecommender(SmartOptions()).Smart(ds, types, nil, nil)
	spec := specFor(t, attempts, "pie_group")
	require.NotNil(t, spec.Pie)
	assert.Len(t, spec.Pie.Labels, 4)

	// Dominated column: 80% one value.
	dominated := make([][]string, 30)
	for i := range dominated {
		v := "main"
		if i%5 == 1 {
			v = fmt.Sprintf("rare%d", i%3)
		}
		dominated[i] = []string{v}
	}
	ds2 := dataset.FromRows([]string{"group"}, dominated)
	types2 := typesFor(ds2, map[string]profile.DetectedType{"group": profile.TypeCategorical})

	attempts2 := NewRecommender(SmartOptions()).Smart(ds2, types2, nil, nil)
	reason := skipFor(t, attempts2, "pie_group")
	assert.Contains(t, reason, "70%")
}

func TestSmartBoxplotRequiresEightValues(t *testing.T) {
	ds := dataset.FromRows(
		[]string{"v"},
		[][]string{{"1"}, {"2"}, {"3"}, {"4"}, {"5"}},
	)
	types := typesFor(ds, map[string]profile.DetectedType{"v": profile.TypeInteger})

	attempts := NewRecommender(SmartOptions()).Smart(ds, types, []string{"v"}, nil)
	reason := skipFor(t, attempts, "box_v")

	assert.Contains(t, reason, "fewer than 8")
}

func TestSmartStackedComposition(t *testing.T) {
	ds := dataset.FromRows(
		[]string{"region", "status"},
		[][]string{
			{"east", "open"}, {"east", "closed"}, {"west", "open"},
			{"west", "open"}, {"east", "open"},
		},
	)
	types := typesFor(ds, map[string]profile.DetectedType{
		"region": profile.TypeCategorical, "status": profile.TypeCategorical,
	})

	attempts := NewRecommender(SmartOptions()).Smart(ds, types, nil, nil)
	spec := specFor(t, attempts, "stacked_region_by_status")

	require.NotNil(t, spec.Stacked)
	assert.Equal(t, []string{"east", "west"}, spec.Stacked.Categories)
	require.Len(t, spec.Stacked.Series, 2)
	assert.Equal(t, "closed", spec.Stacked.Series[0].Name)
	assert.Equal(t, []int{1, 0}, spec.Stacked.Series[0].Data)
	assert.Equal(t, "open", spec.Stacked.Series[1].Name)
	assert.Equal(t, []int{2, 2}, spec.Stacked.Series[1].Data)
}

func TestCollectKeepsOnlySuccesses(t *testing.T) {
	attempts := []Attempt{
		ok("a", &profile.ChartSpec{Type: profile.ChartBar}),
		skip("b", "nothing to plot"),
	}

	out := Collect(attempts)

	assert.Len(t, out, 1)
	_, found := out["a"]
	assert.True(t, found)
}

func TestAttemptRecoversFromPanic(t *testing.T) {
	a := attempt("boom", func() (*profile.ChartSpec, string) {
		panic("unexpected")
	})

	assert.False(t, a.Ok())
	assert.Contains(t, a.Skip, "panicked")
}
