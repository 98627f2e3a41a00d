package profile

// DetectedType is the semantic type the classifier assigns to a column
type DetectedType string

const (
	TypeEmpty       DetectedType = "empty"
	TypeInteger     DetectedType = "integer"
	TypeFloat       DetectedType = "float"
	TypeDatetime    DetectedType = "datetime"
	TypeBoolean     DetectedType = "boolean"
	TypeCategorical DetectedType = "categorical"
	TypeText        DetectedType = "text"

	// Pattern types, matched by fixed regular expressions over samples
	TypeEmail      DetectedType = "email"
	TypePhone      DetectedType = "phone"
	TypeURL        DetectedType = "url"
	TypeDate       DetectedType = "date"
	TypeTime       DetectedType = "time"
	TypeCurrency   DetectedType = "currency"
	TypePercentage DetectedType = "percentage"
	TypeIPAddress  DetectedType = "ip_address"
)

// IsNumeric reports whether the type carries numeric values
func (t DetectedType) IsNumeric() bool {
	return t == TypeInteger || t == TypeFloat
}

// IsDatetimeLike reports whether the type represents points in time,
// including the date pattern type caught before full datetime parsing.
func (t DetectedType) IsDatetimeLike() bool {
	return t == TypeDatetime || t == TypeDate
}

// TypeAssignment is the classifier's verdict on one column. Exactly one
// assignment exists per column per profiling run; it is recomputed from
// scratch whenever the column's data changes.
type TypeAssignment struct {
	DetectedType   DetectedType `json:"detected_type"`
	Confidence     float64      `json:"confidence"`
	NullPercentage float64      `json:"null_percentage"`
	UniqueCount    int          `json:"unique_count"`
	SampleValues   []string     `json:"sample_values"`
	Details        *TypeDetails `json:"additional_info,omitempty"`
}

// TypeDetails carries type-specific supplementary statistics. Only the
// field matching the detected type is populated.
type TypeDetails struct {
	Numeric     *NumericDetails     `json:"numeric,omitempty"`
	Datetime    *DatetimeDetails    `json:"datetime,omitempty"`
	Categorical *CategoricalDetails `json:"categorical,omitempty"`
	Text        *TextDetails        `json:"text,omitempty"`
}

// NumericDetails summarizes the successfully coerced subset of a numeric column
type NumericDetails struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// DatetimeDetails carries the parsed time range of a datetime column
type DatetimeDetails struct {
	Earliest string `json:"earliest"`
	Latest   string `json:"latest"`
}

// CategoricalDetails lists the most frequent categories
type CategoricalDetails struct {
	Top []ValueCount `json:"top"`
}

// TextDetails summarizes string lengths of a free-text column
type TextDetails struct {
	AvgLength float64 `json:"avg_length"`
	MaxLength int     `json:"max_length"`
}

// ValueCount represents a value and its frequency
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// QualityReport captures dataset-level data-quality metrics. Derived from a
// dataset snapshot and never mutated after creation.
type QualityReport struct {
	CompletenessPercentage float64                  `json:"completeness_percentage"`
	DuplicateRows          int                      `json:"duplicate_rows"`
	DuplicatePercentage    float64                  `json:"duplicate_percentage"`
	HighNullColumns        []HighNullColumn         `json:"high_null_columns"`
	Outliers               map[string]OutlierCounts `json:"outliers"`
	// DataQualityScore includes a flat +30 consistency term that is a
	// placeholder, not a measured quantity.
	DataQualityScore float64 `json:"data_quality_score"`
}

// HighNullColumn flags a column with more than half of its cells missing
type HighNullColumn struct {
	Column         string  `json:"column"`
	NullPercentage float64 `json:"null_percentage"`
}

// OutlierCounts holds per-column outlier counts under two rules
type OutlierCounts struct {
	IQRCount   int `json:"iqr_count"`
	ZScoreGt3  int `json:"zscore_gt3"`
	SampleSize int `json:"sample_size"`
}

// Descriptive holds standard descriptive statistics for one numeric column
type Descriptive struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"25%"`
	Median float64 `json:"50%"`
	Q75    float64 `json:"75%"`
	Max    float64 `json:"max"`
}

// CorrelationReport maps numeric column pairs to Pearson correlation
type CorrelationReport struct {
	Matrix      map[string]map[string]float64 `json:"matrix"`
	StrongPairs []StrongPair                  `json:"strong_pairs"`
}

// StrongPair is a pair of numeric columns whose correlation magnitude
// clears the strong-pair threshold.
type StrongPair struct {
	Pair [2]string `json:"pair"`
	Corr float64   `json:"corr"`
}

// Cadence is the fixed time-bucket width a series is resampled to
type Cadence string

const (
	CadenceWeekly    Cadence = "W"
	CadenceDaily     Cadence = "D"
	CadenceHourly    Cadence = "H"
	CadenceQuarterHr Cadence = "15min"
)

// TimePoint is one resampled observation with a date-only axis label
type TimePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// TimeSeries is a cleaned, regularly spaced series derived from one
// datetime column and one numeric column.
type TimeSeries struct {
	DateColumn  string      `json:"date_column"`
	ValueColumn string      `json:"value_column"`
	Rule        Cadence     `json:"rule"`
	CleanCount  int         `json:"clean_count"`
	Points      []TimePoint `json:"points"`
}

// TimeBreakdown counts observations of the first datetime column by
// calendar grouping.
type TimeBreakdown struct {
	DatetimeColumn string         `json:"datetime_column"`
	ByYear         map[string]int `json:"by_year"`
	ByMonth        map[string]int `json:"by_month"`
	ByWeekday      map[string]int `json:"by_weekday"`
}

// TokenOverview lists the most frequent word tokens of a text column
type TokenOverview struct {
	TopTokens []ValueCount `json:"top_tokens"`
}

// DocumentStats summarizes a text document (pre-extracted by the parsing
// collaborator).
type DocumentStats struct {
	Pages                  int     `json:"pages"`
	WordCount              int     `json:"word_count"`
	CharCount              int     `json:"char_count"`
	CharCountNoSpaces      int     `json:"char_count_no_spaces"`
	ParagraphCount         int     `json:"paragraph_count"`
	SentenceCount          int     `json:"sentence_count"`
	LineCount              int     `json:"line_count"`
	NonEmptyLines          int     `json:"non_empty_lines"`
	AverageWordsPerPage    float64 `json:"average_words_per_page"`
	AverageCharsPerPage    float64 `json:"average_chars_per_page"`
	LongestParagraph       int     `json:"longest_paragraph"`
	AverageParagraphLength float64 `json:"average_paragraph_length"`
	ReadingTimeMinutes     float64 `json:"reading_time_minutes"`
	PagesWithText          int     `json:"pages_with_text"`
	ExtractionSuccessRate  float64 `json:"extraction_success_rate"`
}

// AnalysisSummary is the profiler's single output per dataset or sheet.
// It is immutable once handed to the web layer; chat queries only read it.
type AnalysisSummary struct {
	Shape           [2]int                    `json:"shape"`
	Columns         []string                  `json:"columns"`
	DTypes          map[string]string         `json:"dtypes"`
	NullCounts      map[string]int            `json:"null_counts"`
	NullPercentages map[string]float64        `json:"null_percentages"`
	SummaryStats    map[string]Descriptive    `json:"summary_stats"`
	ColumnTypes     map[string]TypeAssignment `json:"column_types"`
	DataQuality     *QualityReport            `json:"data_quality,omitempty"`
	Correlations    *CorrelationReport        `json:"correlations,omitempty"`
	TimeBreakdown   *TimeBreakdown            `json:"time_breakdown,omitempty"`
	TextOverview    map[string]TokenOverview  `json:"text_overview,omitempty"`

	Charts            map[string]ChartSpec `json:"charts"`
	IntelligentCharts map[string]ChartSpec `json:"intelligent_charts"`

	Document *DocumentStats `json:"document,omitempty"`
}

// WorkbookSummary aggregates per-sheet analyses of one Excel workbook
type WorkbookSummary struct {
	TotalSheets  int      `json:"total_sheets"`
	SheetNames   []string `json:"sheet_names"`
	TotalRows    int      `json:"total_rows"`
	TotalColumns int      `json:"total_columns"`
}

// SheetAnalysis holds one sheet's analysis, or the error that prevented it
type SheetAnalysis struct {
	Name     string           `json:"name"`
	Analysis *AnalysisSummary `json:"analysis,omitempty"`
	Error    string           `json:"error,omitempty"`
}
