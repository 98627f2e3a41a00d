// Package describe produces descriptive statistics and pairwise Pearson
// correlation for the numeric columns of a dataset.
package describe

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/domain/profile"
	"datalens/internal/coerce"
)

// strongPairThreshold is the correlation magnitude that marks a pair as
// strong; maxStrongPairs caps the emitted list in discovery order.
const (
	strongPairThreshold = 0.6
	maxStrongPairs      = 10
)

// Summarizer computes summary statistics and correlations
type Summarizer struct{}

// NewSummarizer creates a summarizer
func NewSummarizer() *Summarizer {
	return &Summarizer{}
}

// NumericColumns returns the names of numeric columns in dataset order
func NumericColumns(ds *dataset.Dataset, types map[string]profile.TypeAssignment) []string {
	var out []string
	for i := range ds.Columns {
		if ta, ok := types[ds.Columns[i].Name]; ok && ta.DetectedType.IsNumeric() {
			out = append(out, ds.Columns[i].Name)
		}
	}
	return out
}

// NumericValues coerces one column into floats, NaN marking cells that are
// missing or fail coercion. Row positions are preserved so columns stay
// aligned for pairwise work.
func NumericValues(col *dataset.Column) []float64 {
	out := make([]float64, len(col.Values))
	for i, v := range col.Values {
		out[i] = math.NaN()
		if v.Missing {
			continue
		}
		if f, ok := coerce.ParseNumeric(v.Raw); ok {
			out[i] = f
		}
	}
	return out
}

// Summarize computes descriptive statistics per numeric column. Values are
// rounded to a fixed precision for stable serialization.
func (s *Summarizer) Summarize(ds *dataset.Dataset, numCols []string) map[string]profile.Descriptive {
	out := make(map[string]profile.Descriptive, len(numCols))
	for _, name := range numCols {
		col, ok := ds.Column(name)
		if !ok {
			continue
		}
		values := dropNaN(NumericValues(col))
		if len(values) == 0 {
			continue
		}

		mean, _ := stats.Mean(values)
		std, _ := stats.StandardDeviationSample(values)
		minV, _ := stats.Min(values)
		maxV, _ := stats.Max(values)
		q25, _ := stats.Percentile(values, 25)
		median, _ := stats.Median(values)
		q75, _ := stats.Percentile(values, 75)

		out[name] = profile.Descriptive{
			Count:  len(values),
			Mean:   core.Round4(mean),
			Std:    core.Round4(std),
			Min:    core.Round4(minV),
			Q25:    core.Round4(q25),
			Median: core.Round4(median),
			Q75:    core.Round4(q75),
			Max:    core.Round4(maxV),
		}
	}
	return out
}

// Correlate builds the symmetric Pearson matrix over numeric columns plus
// the strong-pair subset. Undefined correlations (constant columns, no
// overlap) are reported as 0. Strong pairs keep (i, j) discovery order,
// not magnitude order, for reproducible output.
func (s *Summarizer) Correlate(ds *dataset.Dataset, numCols []string) *profile.CorrelationReport {
	report := &profile.CorrelationReport{
		Matrix:      map[string]map[string]float64{},
		StrongPairs: []profile.StrongPair{},
	}
	if len(numCols) < 2 {
		return report
	}

	series := make(map[string][]float64, len(numCols))
	for _, name := range numCols {
		if col, ok := ds.Column(name); ok {
			series[name] = NumericValues(col)
		}
	}

	for _, name := range numCols {
		report.Matrix[name] = make(map[string]float64, len(numCols))
		report.Matrix[name][name] = 1.0
	}

	for i := 0; i < len(numCols); i++ {
		for j := i + 1; j < len(numCols); j++ {
			ci, cj := numCols[i], numCols[j]
			r := core.Round3(pairwisePearson(series[ci], series[cj]))
			report.Matrix[ci][cj] = r
			report.Matrix[cj][ci] = r

			if math.Abs(r) >= strongPairThreshold && len(report.StrongPairs) < maxStrongPairs {
				report.StrongPairs = append(report.StrongPairs, profile.StrongPair{
					Pair: [2]string{ci, cj},
					Corr: r,
				})
			}
		}
	}
	return report
}

// pairwisePearson correlates two aligned series over rows where both are
// present, mirroring pairwise-complete-observation semantics.
func pairwisePearson(x, y []float64) float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return 0
	}

	r := stat.Correlation(xs, ys, nil)
	return core.SafeFloat(r)
}

func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
