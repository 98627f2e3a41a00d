package classify

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"datalens/domain/dataset"
	"datalens/domain/profile"
)

func column(name string, raw ...string) *dataset.Column {
	col := &dataset.Column{Name: name, Values: make([]dataset.Value, len(raw))}
	for i, r := range raw {
		col.Values[i] = dataset.ParseCell(r)
	}
	return col
}

func TestClassifyEmptyColumn(t *testing.T) {
	c := New(DefaultConfig())

	ta := c.Classify(column("notes", "", "na", "null", "NaN"))

	assert.Equal(t, profile.TypeEmpty, ta.DetectedType)
	assert.Equal(t, 0.0, ta.Confidence)
	assert.Equal(t, 100.0, ta.NullPercentage)
}

func TestClassifyEmailPattern(t *testing.T) {
	c := New(DefaultConfig())

	// 9 of 10 samples match; one junk value drops confidence to 90.
	raw := []string{
		"ana@example.com", "bob@example.org", "cleo@mail.io",
		"dan@example.com", "eve@example.net", "fred@mail.io",
		"gail@example.com", "hank@example.org", "ida@mail.io",
		"not-an-email",
	}
	ta := c.Classify(column("contact", raw...))

	assert.Equal(t, profile.TypeEmail, ta.DetectedType)
	assert.Equal(t, 90.0, ta.Confidence)
}

func TestClassifyIntegerColumn(t *testing.T) {
	c := New(DefaultConfig())

	ta := c.Classify(column("order_id", "1001", "1002", "1003", "1004", "1005"))

	assert.Equal(t, profile.TypeInteger, ta.DetectedType)
	assert.Equal(t, 100.0, ta.Confidence)
	assert.NotNil(t, ta.Details)
	assert.NotNil(t, ta.Details.Numeric)
	assert.Equal(t, 1001.0, ta.Details.Numeric.Min)
	assert.Equal(t, 1005.0, ta.Details.Numeric.Max)
}

func TestClassifyFloatWithCurrencySymbols(t *testing.T) {
	c := New(DefaultConfig())

	ta := c.Classify(column("amount", "$10.50", "$3.25", "$99.99", "$0.10", "$7.00"))

	assert.Equal(t, profile.TypeFloat, ta.DetectedType)
}

func TestClassifyDatetimeBeatsNumericFallthrough(t *testing.T) {
	c := New(DefaultConfig())

	ta := c.Classify(column("created_at",
		"2024-01-05 10:30:00", "2024-02-11 08:00:00", "2024-03-20 16:45:00",
		"2024-04-01 12:00:00", "garbage"))

	assert.Equal(t, profile.TypeDatetime, ta.DetectedType)
	assert.Equal(t, 80.0, ta.Confidence)
	assert.Equal(t, "2024-01-05 10:30:00", ta.Details.Datetime.Earliest)
	assert.Equal(t, "2024-04-01 12:00:00", ta.Details.Datetime.Latest)
}

func TestClassifyBooleanPairs(t *testing.T) {
	c := New(DefaultConfig())

	cases := [][]string{
		{"true", "false", "true", "true"},
		{"Yes", "No", "yes", "NO"},
		{"active", "inactive", "active"},
		{"1", "0", "0", "1"},
	}
	for _, raw := range cases {
		t.Run(raw[0], func(t *testing.T) {
			ta := c.Classify(column("flag", raw...))
			assert.Equal(t, profile.TypeBoolean, ta.DetectedType)
			assert.Equal(t, 95.0, ta.Confidence)
		})
	}
}

func TestClassifyCategorical(t *testing.T) {
	c := New(DefaultConfig())

	raw := make([]string, 0, 30)
	for i := 0; i < 12; i++ {
		raw = append(raw, "north")
	}
	for i := 0; i < 10; i++ {
		raw = append(raw, "south")
	}
	for i := 0; i < 8; i++ {
		raw = append(raw, "east")
	}
	ta := c.Classify(column("region", raw...))

	assert.Equal(t, profile.TypeCategorical, ta.DetectedType)
	assert.Equal(t, 80.0, ta.Confidence)
	assert.Equal(t, 3, ta.UniqueCount)
	top := ta.Details.Categorical.Top
	assert.Equal(t, "north", top[0].Value)
	assert.Equal(t, 12, top[0].Count)
}

func TestClassifyFreeTextFallback(t *testing.T) {
	c := New(DefaultConfig())

	raw := make([]string, 40)
	for i := range raw {
		raw[i] = fmt.Sprintf("customer feedback entry number %d with unique wording", i)
	}
	ta := c.Classify(column("comment", raw...))

	assert.Equal(t, profile.TypeText, ta.DetectedType)
	assert.Equal(t, 60.0, ta.Confidence)
	assert.Greater(t, ta.Details.Text.AvgLength, 8.0)
}

func TestClassifyNullPercentageRounded(t *testing.T) {
	c := New(DefaultConfig())

	ta := c.Classify(column("score", "1", "2", ""))

	assert.Equal(t, 33.33, ta.NullPercentage)
	assert.Len(t, ta.SampleValues, 2)
}

func TestDatetimeCandidateUsesLighterThreshold(t *testing.T) {
	c := New(DefaultConfig())

	// 3 of 5 parse (60%): below the full-chain threshold, at the
	// candidate threshold.
	col := column("when", "2024-01-01", "2024-02-01", "2024-03-01", "x", "y")

	assert.NotEqual(t, profile.TypeDatetime, c.Classify(col).DetectedType)
	assert.True(t, c.DatetimeCandidate(col))
}

func TestClassifyDayFirstDates(t *testing.T) {
	c := New(DefaultConfig())

	// Day > 12 in the first group forces the day-first reading.
	ta := c.Classify(column("shipped",
		"25/01/2024", "14/02/2024", "03/03/2024", "28/04/2024", "19/05/2024"))

	assert.Equal(t, profile.TypeDate, ta.DetectedType)
}

func TestClassifyDatasetCoversEveryColumn(t *testing.T) {
	c := New(DefaultConfig())
	ds := dataset.FromRows(
		[]string{"id", "flag"},
		[][]string{{"1", "yes"}, {"2", "no"}, {"3", "yes"}},
	)

	out := c.ClassifyDataset(ds)

	assert.Len(t, out, 2)
	assert.Equal(t, profile.TypeInteger, out["id"].DetectedType)
	assert.Equal(t, profile.TypeBoolean, out["flag"].DetectedType)
}
