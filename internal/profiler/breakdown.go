package profiler

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"datalens/domain/dataset"
	"datalens/domain/profile"
	"datalens/internal/coerce"
)

const (
	// textOverviewColumns caps how many text columns get a token overview
	textOverviewColumns = 3
	// textOverviewRows caps how many rows are tokenized per column
	textOverviewRows = 2000
	// topTokenCount is the number of tokens reported per column
	topTokenCount = 20
	// freeTextUniqueRatio marks a column as free text rather than a code list
	freeTextUniqueRatio = 0.7
	// freeTextMinAvgLen filters out short identifier-like columns
	freeTextMinAvgLen = 8.0
)

var tokenPattern = regexp.MustCompile(`[A-Za-z0-9_]{3,}`)

// timeBreakdown counts parsed dates of the first datetime column by year,
// month and weekday.
func (p *Profiler) timeBreakdown(ds *dataset.Dataset, types map[string]profile.TypeAssignment) *profile.TimeBreakdown {
	col := p.firstDatetimeColumn(ds, types)
	if col == nil {
		return nil
	}

	raw := col.NonMissing()
	dayFirst := coerce.DetectDayFirst(raw)

	breakdown := &profile.TimeBreakdown{
		DatetimeColumn: col.Name,
		ByYear:         make(map[string]int),
		ByMonth:        make(map[string]int),
		ByWeekday:      make(map[string]int),
	}

	parsed := 0
	for _, value := range raw {
		at, ok := coerce.ParseTimestamp(value, dayFirst)
		if !ok {
			continue
		}
		parsed++
		breakdown.ByYear[strconv.Itoa(at.Year())]++
		breakdown.ByMonth[at.Month().String()]++
		breakdown.ByWeekday[at.Weekday().String()]++
	}
	if parsed == 0 {
		return nil
	}
	return breakdown
}

// textOverview tokenizes free-text columns and reports their most frequent
// tokens. Columns that look like categorical code lists are left to the
// categorical charts instead.
func (p *Profiler) textOverview(ds *dataset.Dataset, types map[string]profile.TypeAssignment) map[string]profile.TokenOverview {
	overview := make(map[string]profile.TokenOverview)
	for i := range ds.Columns {
		if len(overview) >= textOverviewColumns {
			break
		}
		col := &ds.Columns[i]
		ta, found := types[col.Name]
		if !found || ta.DetectedType != profile.TypeText {
			continue
		}
		if !isFreeText(col) {
			continue
		}
		tokens := topTokens(col)
		if len(tokens) == 0 {
			continue
		}
		overview[col.Name] = profile.TokenOverview{TopTokens: tokens}
	}
	if len(overview) == 0 {
		return nil
	}
	return overview
}

func isFreeText(col *dataset.Column) bool {
	present := col.NonMissing()
	if len(present) == 0 {
		return false
	}
	uniqueRatio := float64(col.UniqueCount()) / float64(len(present))
	if uniqueRatio <= freeTextUniqueRatio {
		return false
	}

	totalLen := 0
	for _, v := range present {
		totalLen += len(v)
	}
	return float64(totalLen)/float64(len(present)) > freeTextMinAvgLen
}

// topTokens counts word tokens over a bounded row prefix, ranked by
// frequency with ties broken by first appearance.
func topTokens(col *dataset.Column) []profile.ValueCount {
	counts := make(map[string]int)
	order := make(map[string]int)

	rows := 0
	for _, v := range col.Values {
		if v.Missing {
			continue
		}
		rows++
		if rows > textOverviewRows {
			break
		}
		for _, tok := range tokenPattern.FindAllString(strings.ToLower(v.Raw), -1) {
			if _, seen := counts[tok]; !seen {
				order[tok] = len(order)
			}
			counts[tok]++
		}
	}

	tokens := make([]string, 0, len(counts))
	for tok := range counts {
		tokens = append(tokens, tok)
	}
	sort.Slice(tokens, func(i, j int) bool {
		a, b := tokens[i], tokens[j]
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		return order[a] < order[b]
	})

	if len(tokens) > topTokenCount {
		tokens = tokens[:topTokenCount]
	}
	out := make([]profile.ValueCount, len(tokens))
	for i, tok := range tokens {
		out[i] = profile.ValueCount{Value: tok, Count: counts[tok]}
	}
	return out
}
