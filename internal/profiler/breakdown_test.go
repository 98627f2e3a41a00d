package profiler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datalens/domain/dataset"
	"datalens/internal"
)

func TestTextOverviewTokenizesFreeText(t *testing.T) {
	rows := make([][]string, 30)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf(
			"delivery arrived late again on attempt %d, driver apologized", i)}
	}
	ds := dataset.FromRows([]string{"feedback"}, rows)
	p := New(internal.NewLogger(internal.LogLevelError))

	summary, err := p.ProfileDataset(ds)
	require.NoError(t, err)

	require.Contains(t, summary.TextOverview, "feedback")
	tokens := summary.TextOverview["feedback"].TopTokens
	require.NotEmpty(t, tokens)
	assert.Equal(t, "delivery", tokens[0].Value)
	assert.Equal(t, 30, tokens[0].Count)
	assert.LessOrEqual(t, len(tokens), 20)
}

func TestTextOverviewSkipsCategoricalLikeColumns(t *testing.T) {
	rows := make([][]string, 30)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("code_%d", i%3)}
	}
	ds := dataset.FromRows([]string{"code"}, rows)
	p := New(internal.NewLogger(internal.LogLevelError))

	summary, err := p.ProfileDataset(ds)
	require.NoError(t, err)

	assert.NotContains(t, summary.TextOverview, "code")
}

func TestTimeBreakdownCountsWeekdays(t *testing.T) {
	// Seven consecutive days cover each weekday exactly once.
	rows := make([][]string, 7)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("2024-04-%02d", i+1), "1"}
	}
	ds := dataset.FromRows([]string{"when", "v"}, rows)
	p := New(internal.NewLogger(internal.LogLevelError))

	summary, err := p.ProfileDataset(ds)
	require.NoError(t, err)

	require.NotNil(t, summary.TimeBreakdown)
	assert.Equal(t, "when", summary.TimeBreakdown.DatetimeColumn)
	assert.Equal(t, map[string]int{"2024": 7}, summary.TimeBreakdown.ByYear)
	assert.Equal(t, 1, summary.TimeBreakdown.ByWeekday["Monday"])
	assert.Equal(t, 7, summary.TimeBreakdown.ByMonth["April"])
}
