// Package quality computes dataset-level data-quality metrics:
// completeness, duplication, high-null columns and outlier counts.
package quality

import (
	"math"
	"strings"

	"github.com/montanaflynn/stats"

	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/domain/profile"
	"datalens/internal/coerce"
)

const (
	// maxOutlierColumns caps outlier scanning to the first numeric columns
	// by dataset order.
	maxOutlierColumns = 6
	// minOutlierSample is the minimum usable values for outlier counting.
	minOutlierSample = 8
	// stdEpsilon guards the z-score denominator against zero variance.
	stdEpsilon = 1e-9
)

// Assessor derives QualityReports from dataset snapshots
type Assessor struct{}

// NewAssessor creates a quality assessor
func NewAssessor() *Assessor {
	return &Assessor{}
}

// Assess computes the full quality report for one dataset. The score's
// flat +30 term is a placeholder consistency component kept for parity;
// callers must not read measured consistency into it.
func (a *Assessor) Assess(ds *dataset.Dataset, types map[string]profile.TypeAssignment) *profile.QualityReport {
	rows := ds.RowCount()
	cols := ds.ColumnCount()
	totalCells := rows * cols

	totalNulls := 0
	highNull := []profile.HighNullColumn{}
	for i := range ds.Columns {
		col := &ds.Columns[i]
		nulls := col.NullCount()
		totalNulls += nulls
		if rows > 0 {
			frac := float64(nulls) / float64(rows)
			if frac > 0.5 {
				highNull = append(highNull, profile.HighNullColumn{
					Column:         col.Name,
					NullPercentage: core.Round2(frac * 100),
				})
			}
		}
	}

	nullFrac := 0.0
	if totalCells > 0 {
		nullFrac = float64(totalNulls) / float64(totalCells)
	}

	dups := duplicateRows(ds)
	dupFrac := float64(dups) / math.Max(1, float64(rows))

	score := math.Max(0, 40*(1-nullFrac)) + math.Max(0, 30*(1-dupFrac)) + 30

	return &profile.QualityReport{
		CompletenessPercentage: core.Round2((1 - nullFrac) * 100),
		DuplicateRows:          dups,
		DuplicatePercentage:    core.Round2(dupFrac * 100),
		HighNullColumns:        highNull,
		Outliers:               a.outlierCounts(ds, types),
		DataQualityScore:       core.Round2(score),
	}
}

// duplicateRows counts exact value-for-value row duplicates
func duplicateRows(ds *dataset.Dataset) int {
	rows := ds.RowCount()
	if rows == 0 {
		return 0
	}

	seen := make(map[string]struct{}, rows)
	dups := 0
	var sb strings.Builder
	for r := 0; r < rows; r++ {
		sb.Reset()
		for i := range ds.Columns {
			v := ds.Columns[i].Values[r]
			if v.Missing {
				sb.WriteString("\x00NA")
			} else {
				sb.WriteString(v.Raw)
			}
			sb.WriteByte('\x1f')
		}
		key := sb.String()
		if _, ok := seen[key]; ok {
			dups++
		} else {
			seen[key] = struct{}{}
		}
	}
	return dups
}

// outlierCounts applies the IQR and z-score rules to the first numeric
// columns. Columns with too few usable values are skipped.
func (a *Assessor) outlierCounts(ds *dataset.Dataset, types map[string]profile.TypeAssignment) map[string]profile.OutlierCounts {
	out := make(map[string]profile.OutlierCounts)

	scanned := 0
	for i := range ds.Columns {
		if scanned >= maxOutlierColumns {
			break
		}
		col := &ds.Columns[i]
		ta, ok := types[col.Name]
		if !ok || !ta.DetectedType.IsNumeric() {
			continue
		}
		scanned++

		values := numericValues(col)
		if len(values) < minOutlierSample {
			continue
		}

		q1, _ := stats.Percentile(values, 25)
		q3, _ := stats.Percentile(values, 75)
		iqr := q3 - q1
		lo, hi := q1-1.5*iqr, q3+1.5*iqr

		mean, _ := stats.Mean(values)
		std, _ := stats.StandardDeviationPopulation(values)
		std += stdEpsilon

		iqrCount, zCount := 0, 0
		for _, v := range values {
			if v < lo || v > hi {
				iqrCount++
			}
			if math.Abs((v-mean)/std) > 3 {
				zCount++
			}
		}

		out[col.Name] = profile.OutlierCounts{
			IQRCount:   iqrCount,
			ZScoreGt3:  zCount,
			SampleSize: len(values),
		}
	}
	return out
}

// numericValues coerces the present cells of a column, dropping failures
func numericValues(col *dataset.Column) []float64 {
	out := make([]float64, 0, len(col.Values))
	for _, v := range col.Values {
		if v.Missing {
			continue
		}
		if f, ok := coerce.ParseNumeric(v.Raw); ok {
			out = append(out, f)
		}
	}
	return out
}
