// Package profiler composes the classifier, quality assessor, statistical
// summarizer, time-series normalizer and chart recommenders into one
// analysis summary per dataset. The profiler holds no cross-request state;
// independent datasets may be profiled concurrently with separate or
// shared instances.
package profiler

import (
	"datalens/domain/dataset"
	"datalens/domain/profile"
	"datalens/internal"
	"datalens/internal/charts"
	"datalens/internal/classify"
	"datalens/internal/describe"
	"datalens/internal/errors"
	"datalens/internal/quality"
	"datalens/internal/timeseries"
)

// trendValueColumns caps how many numeric columns get a normalized series
// against the first datetime column.
const trendValueColumns = 2

// Options configures a profiler instance
type Options struct {
	Classifier      classify.Config
	Baseline        charts.Options
	Smart           charts.Options
	MaxSeriesPoints int
}

// DefaultOptions returns the standard profiler configuration
func DefaultOptions() Options {
	return Options{
		Classifier:      classify.DefaultConfig(),
		Baseline:        charts.DefaultOptions(),
		Smart:           charts.SmartOptions(),
		MaxSeriesPoints: timeseries.DefaultMaxPoints,
	}
}

// Profiler orchestrates a profiling run. Dependencies are injected at
// construction; there are no package-level singletons.
type Profiler struct {
	classifier *classify.Classifier
	assessor   *quality.Assessor
	summarizer *describe.Summarizer
	normalizer *timeseries.Normalizer
	baseline   *charts.Recommender
	smart      *charts.Recommender
	logger     *internal.Logger
}

// New creates a profiler with default options
func New(logger *internal.Logger) *Profiler {
	return NewWithOptions(logger, DefaultOptions())
}

// NewWithOptions creates a profiler with explicit options
func NewWithOptions(logger *internal.Logger, opts Options) *Profiler {
	return &Profiler{
		classifier: classify.New(opts.Classifier),
		assessor:   quality.NewAssessor(),
		summarizer: describe.NewSummarizer(),
		normalizer: timeseries.NewNormalizer(opts.MaxSeriesPoints),
		baseline:   charts.NewRecommender(opts.Baseline),
		smart:      charts.NewRecommender(opts.Smart),
		logger:     logger,
	}
}

// ProfileDataset runs the full pipeline over one dataset and returns an
// immutable summary. Only a dataset with no columns at all is an error;
// everything below that degrades to omitted metrics or charts.
func (p *Profiler) ProfileDataset(ds *dataset.Dataset) (*profile.AnalysisSummary, error) {
	if ds == nil || ds.ColumnCount() == 0 {
		return nil, errors.InvalidInput("dataset has no columns")
	}

	rows := ds.RowCount()
	columnTypes := p.classifier.ClassifyDataset(ds)

	summary := &profile.AnalysisSummary{
		Shape:           [2]int{rows, ds.ColumnCount()},
		Columns:         ds.ColumnNames(),
		DTypes:          make(map[string]string, ds.ColumnCount()),
		NullCounts:      make(map[string]int, ds.ColumnCount()),
		NullPercentages: make(map[string]float64, ds.ColumnCount()),
		ColumnTypes:     columnTypes,
	}

	for i := range ds.Columns {
		col := &ds.Columns[i]
		ta := columnTypes[col.Name]
		summary.DTypes[col.Name] = string(ta.DetectedType)
		summary.NullCounts[col.Name] = col.NullCount()
		summary.NullPercentages[col.Name] = ta.NullPercentage
	}

	numCols := describe.NumericColumns(ds, columnTypes)
	summary.SummaryStats = p.summarizer.Summarize(ds, numCols)
	summary.DataQuality = p.assessor.Assess(ds, columnTypes)
	summary.Correlations = p.summarizer.Correlate(ds, numCols)
	summary.TimeBreakdown = p.timeBreakdown(ds, columnTypes)
	summary.TextOverview = p.textOverview(ds, columnTypes)

	series := p.normalizedSeries(ds, columnTypes, numCols)

	baseline := p.baseline.Baseline(ds, columnTypes, numCols)
	smart := p.smart.Smart(ds, columnTypes, numCols, series)
	p.logSkips(baseline)
	p.logSkips(smart)

	summary.Charts = charts.Collect(baseline)
	summary.IntelligentCharts = charts.Collect(smart)

	return summary, nil
}

// normalizedSeries builds cleaned series for the first datetime column
// against the leading numeric columns.
func (p *Profiler) normalizedSeries(ds *dataset.Dataset, types map[string]profile.TypeAssignment, numCols []string) []*profile.TimeSeries {
	dateCol := p.firstDatetimeColumn(ds, types)
	if dateCol == nil {
		return nil
	}

	var series []*profile.TimeSeries
	for i, name := range numCols {
		if i >= trendValueColumns {
			break
		}
		valueCol, found := ds.Column(name)
		if !found {
			continue
		}
		ts, usable := p.normalizer.Normalize(dateCol, valueCol)
		if !usable {
			p.logger.Debug("no usable series for %s over %s", name, dateCol.Name)
			continue
		}
		series = append(series, ts)
	}
	return series
}

// firstDatetimeColumn returns the first column that either classified as
// datetime-like or passes the lighter candidate check.
func (p *Profiler) firstDatetimeColumn(ds *dataset.Dataset, types map[string]profile.TypeAssignment) *dataset.Column {
	for i := range ds.Columns {
		col := &ds.Columns[i]
		if ta, found := types[col.Name]; found && ta.DetectedType.IsDatetimeLike() {
			return col
		}
		if p.classifier.DatetimeCandidate(col) {
			return col
		}
	}
	return nil
}

func (p *Profiler) logSkips(attempts []charts.Attempt) {
	for _, a := range attempts {
		if !a.Ok() {
			p.logger.Debug("chart %s skipped: %s", a.Key, a.Skip)
		}
	}
}
