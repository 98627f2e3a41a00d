// Package classify infers a semantic type for raw columns using an ordered
// chain of rules. Rule order, not maximum confidence, breaks ambiguity: a
// column that is 75% valid emails is an email column even though it would
// also pass the free-text heuristic.
package classify

import (
	"sort"
	"strings"
	"time"

	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/domain/profile"
	"datalens/internal/coerce"
)

// Config defines the classification thresholds
type Config struct {
	PatternSampleSize  int     // values rendered as text for pattern tests
	PatternThreshold   float64 // match ratio required for a pattern type
	NumericThreshold   float64 // coercion ratio required for numeric
	IntegerThreshold   float64 // whole-number ratio required for integer
	DatetimeThreshold  float64 // parse ratio for the full rule chain
	CandidateThreshold float64 // lighter parse ratio for candidate checks
	MaxCategories      int     // unique-count cap for categorical
	CategoricalRatio   float64 // unique/total cap for categorical
	TopCategories      int     // categories reported in details
	SampleValues       int     // sample values carried on the assignment
}

// DefaultConfig returns the standard thresholds
func DefaultConfig() Config {
	return Config{
		PatternSampleSize:  20,
		PatternThreshold:   0.70,
		NumericThreshold:   0.80,
		IntegerThreshold:   0.95,
		DatetimeThreshold:  0.70,
		CandidateThreshold: 0.60,
		MaxCategories:      20,
		CategoricalRatio:   0.5,
		TopCategories:      10,
		SampleValues:       5,
	}
}

// Classifier assigns semantic types to columns. It holds no cross-call
// state; one instance may serve concurrent profiling runs.
type Classifier struct {
	config Config
	rules  []rule
}

// rule inspects one column and returns an assignment, or nil to pass
// control to the next rule in the chain.
type rule func(col *dataset.Column, base profile.TypeAssignment) *profile.TypeAssignment

// New creates a classifier with the given config
func New(config Config) *Classifier {
	c := &Classifier{config: config}
	c.rules = []rule{
		c.classifyEmpty,
		c.classifyPattern,
		c.classifyNumeric,
		c.classifyDatetime,
		c.classifyBoolean,
		c.classifyCategoricalOrText,
	}
	return c
}

// Classify runs the rule chain over one column. The final rule always
// matches, so an assignment is always produced.
func (c *Classifier) Classify(col *dataset.Column) profile.TypeAssignment {
	base := c.baseAssignment(col)
	for _, r := range c.rules {
		if ta := r(col, base); ta != nil {
			return *ta
		}
	}
	// Unreachable: classifyCategoricalOrText never returns nil.
	return base
}

// ClassifyDataset classifies every column of a dataset
func (c *Classifier) ClassifyDataset(ds *dataset.Dataset) map[string]profile.TypeAssignment {
	out := make(map[string]profile.TypeAssignment, ds.ColumnCount())
	for i := range ds.Columns {
		col := &ds.Columns[i]
		out[col.Name] = c.Classify(col)
	}
	return out
}

// DatetimeCandidate applies the lighter per-column datetime check used when
// hunting for time-series candidates: a lower parse-ratio threshold than
// the full rule chain.
func (c *Classifier) DatetimeCandidate(col *dataset.Column) bool {
	values := col.NonMissing()
	if len(values) == 0 {
		return false
	}
	_, ratio := parseTimestamps(values)
	return ratio >= c.config.CandidateThreshold
}

func (c *Classifier) baseAssignment(col *dataset.Column) profile.TypeAssignment {
	total := len(col.Values)
	nullPct := 0.0
	if total > 0 {
		nullPct = float64(col.NullCount()) / float64(total) * 100
	}

	samples := col.NonMissing()
	if len(samples) > c.config.SampleValues {
		samples = samples[:c.config.SampleValues]
	}

	return profile.TypeAssignment{
		NullPercentage: core.Round2(nullPct),
		UniqueCount:    col.UniqueCount(),
		SampleValues:   samples,
	}
}

// Rule 1: a column with no present values is empty; later rules never see it.
func (c *Classifier) classifyEmpty(col *dataset.Column, base profile.TypeAssignment) *profile.TypeAssignment {
	if len(col.NonMissing()) > 0 {
		return nil
	}
	base.DetectedType = profile.TypeEmpty
	base.Confidence = 0
	base.NullPercentage = 100.0
	return &base
}

// Rule 2: fixed regular expressions over up to PatternSampleSize samples.
func (c *Classifier) classifyPattern(col *dataset.Column, base profile.TypeAssignment) *profile.TypeAssignment {
	samples := col.NonMissing()
	if len(samples) > c.config.PatternSampleSize {
		samples = samples[:c.config.PatternSampleSize]
	}

	for _, p := range patternRules {
		matches := 0
		for _, s := range samples {
			if p.Re.MatchString(strings.TrimSpace(s)) {
				matches++
			}
		}
		ratio := float64(matches) / float64(len(samples))
		if ratio >= c.config.PatternThreshold {
			base.DetectedType = p.Type
			base.Confidence = core.Round2(ratio * 100)
			return &base
		}
	}
	return nil
}

// Rule 3: numeric coercion over all present values.
func (c *Classifier) classifyNumeric(col *dataset.Column, base profile.TypeAssignment) *profile.TypeAssignment {
	values := col.NonMissing()
	coerced := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := coerce.ParseNumeric(v); ok {
			coerced = append(coerced, f)
		}
	}

	ratio := float64(len(coerced)) / float64(len(values))
	if ratio < c.config.NumericThreshold {
		return nil
	}

	whole := 0
	sum := 0.0
	minV, maxV := coerced[0], coerced[0]
	for _, f := range coerced {
		if coerce.IsWhole(f) {
			whole++
		}
		sum += f
		if f < minV {
			minV = f
		}
		if f > maxV {
			maxV = f
		}
	}

	base.DetectedType = profile.TypeFloat
	if float64(whole)/float64(len(coerced)) >= c.config.IntegerThreshold {
		base.DetectedType = profile.TypeInteger
	}
	base.Confidence = core.Round2(ratio * 100)
	base.Details = &profile.TypeDetails{Numeric: &profile.NumericDetails{
		Min:  core.SafeFloat(minV),
		Max:  core.SafeFloat(maxV),
		Mean: core.SafeFloat(sum / float64(len(coerced))),
	}}
	return &base
}

// Rule 4: datetime parsing with the day-first heuristic.
func (c *Classifier) classifyDatetime(col *dataset.Column, base profile.TypeAssignment) *profile.TypeAssignment {
	values := col.NonMissing()
	parsed, ratio := parseTimestamps(values)
	if ratio < c.config.DatetimeThreshold {
		return nil
	}

	earliest, latest := parsed[0], parsed[0]
	for _, t := range parsed[1:] {
		if t.Before(earliest) {
			earliest = t
		}
		if t.After(latest) {
			latest = t
		}
	}

	base.DetectedType = profile.TypeDatetime
	base.Confidence = core.Round2(ratio * 100)
	base.Details = &profile.TypeDetails{Datetime: &profile.DatetimeDetails{
		Earliest: earliest.Format("2006-01-02 15:04:05"),
		Latest:   latest.Format("2006-01-02 15:04:05"),
	}}
	return &base
}

// Rule 5: normalized unique values forming a subset of a canonical pair.
func (c *Classifier) classifyBoolean(col *dataset.Column, base profile.TypeAssignment) *profile.TypeAssignment {
	uniq := make(map[string]struct{})
	for _, v := range col.NonMissing() {
		uniq[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}
	if len(uniq) == 0 || len(uniq) > 2 {
		return nil
	}

	for _, pair := range booleanPairs {
		subset := true
		for v := range uniq {
			if v != pair[0] && v != pair[1] {
				subset = false
				break
			}
		}
		if subset {
			base.DetectedType = profile.TypeBoolean
			base.Confidence = 95
			base.UniqueCount = len(uniq)
			return &base
		}
	}
	return nil
}

// Rule 6: categorical when cardinality is low, free text otherwise.
// Always matches.
func (c *Classifier) classifyCategoricalOrText(col *dataset.Column, base profile.TypeAssignment) *profile.TypeAssignment {
	values := col.NonMissing()
	uniq := base.UniqueCount

	if uniq <= c.config.MaxCategories && float64(uniq)/float64(len(values)) < c.config.CategoricalRatio {
		base.DetectedType = profile.TypeCategorical
		base.Confidence = 80
		base.Details = &profile.TypeDetails{Categorical: &profile.CategoricalDetails{
			Top: topValues(values, c.config.TopCategories),
		}}
		return &base
	}

	totalLen, maxLen := 0, 0
	for _, v := range values {
		totalLen += len(v)
		if len(v) > maxLen {
			maxLen = len(v)
		}
	}
	base.DetectedType = profile.TypeText
	base.Confidence = 60
	base.Details = &profile.TypeDetails{Text: &profile.TextDetails{
		AvgLength: core.Round2(float64(totalLen) / float64(len(values))),
		MaxLength: maxLen,
	}}
	return &base
}

// parseTimestamps parses every value with a single day-first decision and
// returns the parsed subset plus the parse ratio.
func parseTimestamps(values []string) ([]time.Time, float64) {
	if len(values) == 0 {
		return nil, 0
	}
	dayFirst := coerce.DetectDayFirst(values)
	parsed := make([]time.Time, 0, len(values))
	for _, v := range values {
		if t, ok := coerce.ParseTimestamp(v, dayFirst); ok {
			parsed = append(parsed, t)
		}
	}
	return parsed, float64(len(parsed)) / float64(len(values))
}

// topValues counts frequencies and returns the n most frequent values,
// ties broken by first appearance.
func topValues(values []string, n int) []profile.ValueCount {
	counts := make(map[string]int)
	order := make(map[string]int)
	for i, v := range values {
		if _, seen := counts[v]; !seen {
			order[v] = i
		}
		counts[v]++
	}

	out := make([]profile.ValueCount, 0, len(counts))
	for v, cnt := range counts {
		out = append(out, profile.ValueCount{Value: v, Count: cnt})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return order[out[i].Value] < order[out[j].Value]
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
