package profile

// ChartType enumerates the chart shapes the recommender can emit
type ChartType string

const (
	ChartHistogram     ChartType = "histogram"
	ChartBar           ChartType = "bar"
	ChartHorizontalBar ChartType = "horizontal_bar"
	ChartScatter       ChartType = "scatter"
	ChartLine          ChartType = "line"
	ChartArea          ChartType = "area"
	ChartStackedBar    ChartType = "stacked_bar"
	ChartBoxplot       ChartType = "boxplot"
	ChartPie           ChartType = "pie"
)

// ChartPurpose tags a spec with its analytical intent so downstream
// renderers can pick layouts without inspecting the payload.
type ChartPurpose string

const (
	PurposeDistribution ChartPurpose = "distribution"
	PurposeCorrelation  ChartPurpose = "correlation"
	PurposeRanking      ChartPurpose = "ranking"
	PurposeTimeSeries   ChartPurpose = "time_series"
	PurposeCumulative   ChartPurpose = "cumulative"
	PurposeComposition  ChartPurpose = "composition"
	PurposeProportion   ChartPurpose = "proportion"
)

// ChartSpec describes one recommended visualization. Exactly one payload
// field matching Type is populated; the rest stay nil.
type ChartSpec struct {
	Type    ChartType    `json:"type"`
	Title   string       `json:"title"`
	Purpose ChartPurpose `json:"chart_purpose"`
	XLabel  string       `json:"x_label,omitempty"`
	YLabel  string       `json:"y_label,omitempty"`

	Histogram *HistogramData `json:"histogram,omitempty"`
	Bar       *BarData       `json:"bar,omitempty"`
	Scatter   *ScatterData   `json:"scatter,omitempty"`
	Series    *SeriesData    `json:"series,omitempty"`
	Stacked   *StackedData   `json:"stacked,omitempty"`
	Box       *BoxData       `json:"box,omitempty"`
	Pie       *PieData       `json:"pie,omitempty"`
}

// HistogramData carries bin edges, per-bin counts and basic stats
type HistogramData struct {
	BinEdges []float64 `json:"bin_edges"`
	Counts   []int     `json:"counts"`
	Mean     float64   `json:"mean"`
	Median   float64   `json:"median"`
	Std      float64   `json:"std"`
}

// BarData carries category frequencies for vertical bar charts
type BarData struct {
	Categories            []string `json:"categories"`
	Counts                []int    `json:"counts"`
	TotalUnique           int      `json:"total_unique"`
	TopCategoryPercentage float64  `json:"top_category_percentage"`
}

// ScatterData carries a bounded sample of (x, y) points
type ScatterData struct {
	XData       []float64 `json:"x_data"`
	YData       []float64 `json:"y_data"`
	Correlation float64   `json:"correlation"`
	SampleSize  int       `json:"sample_size"`
}

// SeriesData carries one named series over string x labels; used by line,
// area and horizontal bar charts.
type SeriesData struct {
	Name  string    `json:"name"`
	XData []string  `json:"x_data"`
	YData []float64 `json:"y_data"`
	// DateAxis marks XData as date-only strings so renderers format the
	// axis without a time component.
	DateAxis bool `json:"date_axis,omitempty"`
}

// StackedData carries a cross-tabulation of two categorical columns
type StackedData struct {
	Categories []string       `json:"categories"`
	Series     []StackedSlice `json:"series"`
}

// StackedSlice is one stacked layer: counts aligned with Categories
type StackedSlice struct {
	Name string `json:"name"`
	Data []int  `json:"data"`
}

// BoxData carries Tukey box plot parameters
type BoxData struct {
	Q1          float64 `json:"q1"`
	Median      float64 `json:"median"`
	Q3          float64 `json:"q3"`
	WhiskerLow  float64 `json:"whisker_low"`
	WhiskerHigh float64 `json:"whisker_high"`
}

// PieData carries category shares for proportion charts
type PieData struct {
	Labels []string  `json:"labels"`
	Values []int     `json:"values"`
	Shares []float64 `json:"shares"`
}
