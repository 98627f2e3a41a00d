// Package charts selects and parameterizes visualizations from column
// types, statistics and normalized time series. Selection is rule driven
// and additive: every rule that fires contributes a chart under a stable
// key derived from the columns involved, so repeated runs over the same
// data produce the same chart-id set.
package charts

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/domain/profile"
	"datalens/internal/describe"
)

// Options holds the recommender's caps and thresholds
type Options struct {
	MaxBins               int     // histogram bin clamp upper bound
	MaxScatterPoints      int     // scatter sample budget
	MinScatterCorrelation float64 // 0 emits unconditionally
	HistogramColumns      int     // numeric columns given a histogram
	BarColumns            int     // non-numeric columns given a bar chart
	BoxColumns            int     // numeric columns given a box plot
}

// DefaultOptions returns the baseline recommender settings
func DefaultOptions() Options {
	return Options{
		MaxBins:          30,
		MaxScatterPoints: 800,
		HistogramColumns: 5,
		BarColumns:       5,
		BoxColumns:       3,
	}
}

// SmartOptions returns the settings of the heuristic-gated variant: a
// tighter scatter budget and a minimum correlation before a scatter is
// worth emitting.
func SmartOptions() Options {
	o := DefaultOptions()
	o.MaxScatterPoints = 100
	o.MinScatterCorrelation = 0.3
	return o
}

// Recommender builds chart specs from a dataset snapshot. Stateless; safe
// for concurrent use.
type Recommender struct {
	opts Options
}

// NewRecommender creates a recommender with the given options
func NewRecommender(opts Options) *Recommender {
	if opts.MaxBins == 0 {
		opts = DefaultOptions()
	}
	return &Recommender{opts: opts}
}

// Baseline emits the always-on charts: a histogram per numeric column, a
// bar chart per non-numeric column and a scatter for the first numeric
// pair.
func (r *Recommender) Baseline(ds *dataset.Dataset, types map[string]profile.TypeAssignment, numCols []string) []Attempt {
	var attempts []Attempt

	for i, name := range numCols {
		if i >= r.opts.HistogramColumns {
			break
		}
		attempts = append(attempts, r.histogram(ds, name))
	}

	numeric := make(map[string]bool, len(numCols))
	for _, n := range numCols {
		numeric[n] = true
	}
	emitted := 0
	for i := range ds.Columns {
		if emitted >= r.opts.BarColumns {
			break
		}
		name := ds.Columns[i].Name
		if numeric[name] {
			continue
		}
		attempts = append(attempts, r.bar(ds, name))
		emitted++
	}

	if len(numCols) >= 2 {
		attempts = append(attempts, r.scatter(ds, numCols[0], numCols[1], 0))
	}

	return attempts
}

// Smart emits the heuristic charts: trend and cumulative series from the
// normalizer's output, ranking, composition, correlation-gated scatter,
// distribution box plots and proportion pies.
func (r *Recommender) Smart(ds *dataset.Dataset, types map[string]profile.TypeAssignment, numCols []string, series []*profile.TimeSeries) []Attempt {
	var attempts []Attempt

	for _, ts := range series {
		attempts = append(attempts, r.trend(ts), r.cumulative(ts))
	}

	catCols := categoricalColumns(ds, types)
	if len(catCols) > 0 && len(numCols) > 0 {
		attempts = append(attempts, r.ranking(ds, catCols[0], numCols[0]))
	}
	if len(catCols) >= 2 {
		attempts = append(attempts, r.stacked(ds, catCols[0], catCols[1]))
	}

	if len(numCols) >= 2 {
		attempts = append(attempts, r.scatter(ds, numCols[0], numCols[1], r.opts.MinScatterCorrelation))
	}

	for i, name := range numCols {
		if i >= r.opts.BoxColumns {
			break
		}
		attempts = append(attempts, r.boxplot(ds, name))
	}

	for _, name := range catCols {
		attempts = append(attempts, r.pie(ds, name))
	}

	return attempts
}

// categoricalColumns returns categorical or low-cardinality text columns
// in dataset order.
func categoricalColumns(ds *dataset.Dataset, types map[string]profile.TypeAssignment) []string {
	var out []string
	for i := range ds.Columns {
		name := ds.Columns[i].Name
		ta, found := types[name]
		if !found {
			continue
		}
		if (ta.DetectedType == profile.TypeCategorical || ta.DetectedType == profile.TypeText) && ta.UniqueCount <= 20 {
			out = append(out, name)
		}
	}
	return out
}

func (r *Recommender) histogram(ds *dataset.Dataset, name string) Attempt {
	key := name
	return attempt(key, func() (*profile.ChartSpec, string) {
		col, found := ds.Column(name)
		if !found {
			return nil, "column not found"
		}
		values := presentNumeric(col)
		if len(values) == 0 {
			return nil, "no numeric values"
		}

		bins := r.binCount(values)
		minV, _ := stats.Min(values)
		maxV, _ := stats.Max(values)
		edges, counts := histogramBins(values, minV, maxV, bins)

		mean, _ := stats.Mean(values)
		median, _ := stats.Median(values)
		std, _ := stats.StandardDeviationSample(values)

		return &profile.ChartSpec{
			Type:    profile.ChartHistogram,
			Title:   fmt.Sprintf("Distribution of %s", name),
			Purpose: profile.PurposeDistribution,
			XLabel:  name,
			YLabel:  "Frequency",
			Histogram: &profile.HistogramData{
				BinEdges: edges,
				Counts:   counts,
				Mean:     core.Round4(mean),
				Median:   core.Round4(median),
				Std:      core.Round4(std),
			},
		}, ""
	})
}

// binCount applies the Freedman-Diaconis rule, falling back to 10 bins
// when the IQR is zero, clamped to [5, MaxBins].
func (r *Recommender) binCount(values []float64) int {
	q25, _ := stats.Percentile(values, 25)
	q75, _ := stats.Percentile(values, 75)
	iqr := q75 - q25

	bins := 10
	if iqr > 0 {
		minV, _ := stats.Min(values)
		maxV, _ := stats.Max(values)
		width := 2 * iqr / math.Cbrt(float64(len(values)))
		if width > 0 && maxV > minV {
			bins = int(math.Ceil((maxV - minV) / width))
		}
	}

	if bins > r.opts.MaxBins {
		bins = r.opts.MaxBins
	}
	if bins < 5 {
		bins = 5
	}
	return bins
}

// histogramBins splits [min, max] into equal-width bins; the last bin is
// closed on the right so every value lands in exactly one bin.
func histogramBins(values []float64, minV, maxV float64, bins int) ([]float64, []int) {
	edges := make([]float64, bins+1)
	counts := make([]int, bins)

	width := (maxV - minV) / float64(bins)
	for i := 0; i <= bins; i++ {
		edges[i] = minV + width*float64(i)
	}

	for _, v := range values {
		idx := bins - 1
		if width > 0 {
			idx = int((v - minV) / width)
			if idx >= bins {
				idx = bins - 1
			}
			if idx < 0 {
				idx = 0
			}
		}
		counts[idx]++
	}
	return edges, counts
}

func (r *Recommender) bar(ds *dataset.Dataset, name string) Attempt {
	key := name
	return attempt(key, func() (*profile.ChartSpec, string) {
		col, found := ds.Column(name)
		if !found {
			return nil, "column not found"
		}
		counts := valueCounts(col.NonMissing())
		if len(counts) == 0 {
			return nil, "no values to count"
		}

		top := counts
		if len(top) > 12 {
			top = top[:12]
		}
		categories := make([]string, len(top))
		freq := make([]int, len(top))
		for i, vc := range top {
			categories[i] = vc.Value
			freq[i] = vc.Count
		}

		rows := len(col.Values)
		topShare := float64(top[0].Count) / math.Max(1, float64(rows)) * 100

		return &profile.ChartSpec{
			Type:    profile.ChartBar,
			Title:   fmt.Sprintf("Distribution of %s", name),
			Purpose: profile.PurposeDistribution,
			XLabel:  name,
			YLabel:  "Count",
			Bar: &profile.BarData{
				Categories:            categories,
				Counts:                freq,
				TotalUnique:           col.UniqueCount(),
				TopCategoryPercentage: core.Round2(topShare),
			},
		}, ""
	})
}

// scatter emits a bounded sample of jointly present points. minCorr of 0
// emits unconditionally; the smart variant gates on it.
func (r *Recommender) scatter(ds *dataset.Dataset, xName, yName string, minCorr float64) Attempt {
	key := fmt.Sprintf("scatter_%s_vs_%s", xName, yName)
	return attempt(key, func() (*profile.ChartSpec, string) {
		xCol, foundX := ds.Column(xName)
		yCol, foundY := ds.Column(yName)
		if !foundX || !foundY {
			return nil, "column pair not found"
		}

		xAll := describe.NumericValues(xCol)
		yAll := describe.NumericValues(yCol)
		var xs, ys []float64
		for i := 0; i < len(xAll) && i < len(yAll); i++ {
			if math.IsNaN(xAll[i]) || math.IsNaN(yAll[i]) {
				continue
			}
			xs = append(xs, xAll[i])
			ys = append(ys, yAll[i])
		}
		if len(xs) < 10 {
			return nil, "fewer than 10 joint observations"
		}

		corr := pearson(xs, ys)
		if minCorr > 0 && math.Abs(corr) < minCorr {
			return nil, fmt.Sprintf("correlation %.3f below threshold", corr)
		}

		xs, ys = sampleDown(xs, ys, r.opts.MaxScatterPoints)

		return &profile.ChartSpec{
			Type:    profile.ChartScatter,
			Title:   fmt.Sprintf("Correlation %s vs %s", xName, yName),
			Purpose: profile.PurposeCorrelation,
			XLabel:  xName,
			YLabel:  yName,
			Scatter: &profile.ScatterData{
				XData:       xs,
				YData:       ys,
				Correlation: core.Round3(corr),
				SampleSize:  len(xs),
			},
		}, ""
	})
}

func (r *Recommender) trend(ts *profile.TimeSeries) Attempt {
	key := fmt.Sprintf("trend_%s_over_time", ts.ValueColumn)
	return attempt(key, func() (*profile.ChartSpec, string) {
		if len(ts.Points) <= minTrendPoints {
			return nil, "too few points for a trend"
		}
		x := make([]string, len(ts.Points))
		y := make([]float64, len(ts.Points))
		for i, p := range ts.Points {
			x[i], y[i] = p.Date, p.Value
		}
		return &profile.ChartSpec{
			Type:    profile.ChartLine,
			Title:   fmt.Sprintf("Trend of %s over time", ts.ValueColumn),
			Purpose: profile.PurposeTimeSeries,
			XLabel:  ts.DateColumn,
			YLabel:  ts.ValueColumn,
			Series: &profile.SeriesData{
				Name:     ts.ValueColumn,
				XData:    x,
				YData:    y,
				DateAxis: true,
			},
		}, ""
	})
}

func (r *Recommender) cumulative(ts *profile.TimeSeries) Attempt {
	key := fmt.Sprintf("cumulative_%s", ts.ValueColumn)
	return attempt(key, func() (*profile.ChartSpec, string) {
		if len(ts.Points) <= minTrendPoints {
			return nil, "too few points for a cumulative series"
		}
		x := make([]string, len(ts.Points))
		y := make([]float64, len(ts.Points))
		running := 0.0
		for i, p := range ts.Points {
			running += p.Value
			x[i], y[i] = p.Date, running
		}
		return &profile.ChartSpec{
			Type:    profile.ChartArea,
			Title:   fmt.Sprintf("Cumulative %s", ts.ValueColumn),
			Purpose: profile.PurposeCumulative,
			XLabel:  ts.DateColumn,
			YLabel:  fmt.Sprintf("Cumulative %s", ts.ValueColumn),
			Series: &profile.SeriesData{
				Name:     fmt.Sprintf("Cumulative %s", ts.ValueColumn),
				XData:    x,
				YData:    y,
				DateAxis: true,
			},
		}, ""
	})
}

// minTrendPoints matches the normalizer's minimum usable series length
const minTrendPoints = 3

func (r *Recommender) ranking(ds *dataset.Dataset, catName, numName string) Attempt {
	key := fmt.Sprintf("top_%s_by_%s", catName, numName)
	return attempt(key, func() (*profile.ChartSpec, string) {
		catCol, foundC := ds.Column(catName)
		numCol, foundN := ds.Column(numName)
		if !foundC || !foundN {
			return nil, "column pair not found"
		}

		sums := make(map[string]float64)
		order := make(map[string]int)
		nums := describe.NumericValues(numCol)
		for i := 0; i < len(catCol.Values) && i < len(nums); i++ {
			cv := catCol.Values[i]
			if cv.Missing || math.IsNaN(nums[i]) {
				continue
			}
			if _, seen := sums[cv.Raw]; !seen {
				order[cv.Raw] = i
			}
			sums[cv.Raw] += nums[i]
		}
		if len(sums) == 0 {
			return nil, "no grouped values"
		}

		type grouped struct {
			label string
			total float64
		}
		groups := make([]grouped, 0, len(sums))
		for label, total := range sums {
			groups = append(groups, grouped{label, total})
		}
		sort.Slice(groups, func(i, j int) bool {
			if groups[i].total != groups[j].total {
				return groups[i].total > groups[j].total
			}
			return order[groups[i].label] < order[groups[j].label]
		})
		if len(groups) > 10 {
			groups = groups[:10]
		}

		x := make([]string, len(groups))
		y := make([]float64, len(groups))
		for i, g := range groups {
			x[i], y[i] = g.label, core.SafeFloat(g.total)
		}

		return &profile.ChartSpec{
			Type:    profile.ChartHorizontalBar,
			Title:   fmt.Sprintf("Top %s by %s", catName, numName),
			Purpose: profile.PurposeRanking,
			XLabel:  numName,
			YLabel:  catName,
			Series: &profile.SeriesData{
				Name:  numName,
				XData: x,
				YData: y,
			},
		}, ""
	})
}

func (r *Recommender) stacked(ds *dataset.Dataset, aName, bName string) Attempt {
	key := fmt.Sprintf("stacked_%s_by_%s", aName, bName)
	return attempt(key, func() (*profile.ChartSpec, string) {
		aCol, foundA := ds.Column(aName)
		bCol, foundB := ds.Column(bName)
		if !foundA || !foundB {
			return nil, "column pair not found"
		}

		// Cross-tabulate rows where both sides are present.
		table := make(map[string]map[string]int)
		colSet := make(map[string]struct{})
		n := len(aCol.Values)
		if len(bCol.Values) < n {
			n = len(bCol.Values)
		}
		for i := 0; i < n; i++ {
			av, bv := aCol.Values[i], bCol.Values[i]
			if av.Missing || bv.Missing {
				continue
			}
			if table[av.Raw] == nil {
				table[av.Raw] = make(map[string]int)
			}
			table[av.Raw][bv.Raw]++
			colSet[bv.Raw] = struct{}{}
		}
		if len(table) == 0 {
			return nil, "no joint categories"
		}

		categories := sortedKeys(table)
		if len(categories) > 10 {
			categories = categories[:10]
		}
		layers := make([]string, 0, len(colSet))
		for k := range colSet {
			layers = append(layers, k)
		}
		sort.Strings(layers)

		series := make([]profile.StackedSlice, len(layers))
		for li, layer := range layers {
			data := make([]int, len(categories))
			for ci, cat := range categories {
				data[ci] = table[cat][layer]
			}
			series[li] = profile.StackedSlice{Name: layer, Data: data}
		}

		return &profile.ChartSpec{
			Type:    profile.ChartStackedBar,
			Title:   fmt.Sprintf("%s x %s", aName, bName),
			Purpose: profile.PurposeComposition,
			Stacked: &profile.StackedData{
				Categories: categories,
				Series:     series,
			},
		}, ""
	})
}

func (r *Recommender) boxplot(ds *dataset.Dataset, name string) Attempt {
	key := fmt.Sprintf("box_%s", name)
	return attempt(key, func() (*profile.ChartSpec, string) {
		col, found := ds.Column(name)
		if !found {
			return nil, "column not found"
		}
		values := presentNumeric(col)
		if len(values) < 8 {
			return nil, "fewer than 8 values"
		}

		q1, _ := stats.Percentile(values, 25)
		median, _ := stats.Median(values)
		q3, _ := stats.Percentile(values, 75)
		iqr := q3 - q1

		return &profile.ChartSpec{
			Type:    profile.ChartBoxplot,
			Title:   fmt.Sprintf("Spread of %s", name),
			Purpose: profile.PurposeDistribution,
			YLabel:  name,
			Box: &profile.BoxData{
				Q1:          core.Round4(q1),
				Median:      core.Round4(median),
				Q3:          core.Round4(q3),
				WhiskerLow:  core.Round4(q1 - 1.5*iqr),
				WhiskerHigh: core.Round4(q3 + 1.5*iqr),
			},
		}, ""
	})
}

// pie emits a proportion chart only for columns with 3-8 categories where
// no single category dominates; a near-single-slice pie says nothing.
func (r *Recommender) pie(ds *dataset.Dataset, name string) Attempt {
	key := fmt.Sprintf("pie_%s", name)
	return attempt(key, func() (*profile.ChartSpec, string) {
		col, found := ds.Column(name)
		if !found {
			return nil, "column not found"
		}
		counts := valueCounts(col.NonMissing())
		if len(counts) < 3 || len(counts) > 8 {
			return nil, "category count outside [3, 8]"
		}

		total := 0
		for _, vc := range counts {
			total += vc.Count
		}
		topShare := float64(counts[0].Count) / float64(total)
		if topShare > 0.7 {
			return nil, "top category exceeds 70% share"
		}

		labels := make([]string, len(counts))
		values := make([]int, len(counts))
		shares := make([]float64, len(counts))
		for i, vc := range counts {
			labels[i] = vc.Value
			values[i] = vc.Count
			shares[i] = core.Round2(float64(vc.Count) / float64(total) * 100)
		}

		return &profile.ChartSpec{
			Type:    profile.ChartPie,
			Title:   fmt.Sprintf("Share of %s", name),
			Purpose: profile.PurposeProportion,
			Pie: &profile.PieData{
				Labels: labels,
				Values: values,
				Shares: shares,
			},
		}, ""
	})
}

// Shared helpers

func presentNumeric(col *dataset.Column) []float64 {
	all := describe.NumericValues(col)
	out := make([]float64, 0, len(all))
	for _, v := range all {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// valueCounts counts string frequencies, most frequent first, ties broken
// by first appearance.
func valueCounts(values []string) []profile.ValueCount {
	counts := make(map[string]int)
	order := make(map[string]int)
	for i, v := range values {
		if _, seen := counts[v]; !seen {
			order[v] = i
		}
		counts[v]++
	}
	out := make([]profile.ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, profile.ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return order[out[i].Value] < order[out[j].Value]
	})
	return out
}

func sortedKeys(m map[string]map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func pearson(x, y []float64) float64 {
	n := float64(len(x))
	if n < 2 {
		return 0
	}
	var sumX, sumY float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range x {
		dx, dy := x[i]-meanX, y[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

// sampleDown evenly decimates paired slices to at most max points
func sampleDown(x, y []float64, max int) ([]float64, []float64) {
	n := len(x)
	if n <= max || max < 2 {
		return x, y
	}
	outX := make([]float64, max)
	outY := make([]float64, max)
	for i := 0; i < max; i++ {
		idx := int(math.Round(float64(i) * float64(n-1) / float64(max-1)))
		outX[i] = x[idx]
		outY[i] = y[idx]
	}
	return outX, outY
}
