// Package retrieval prepares analysis output for chat context lookup:
// summaries are rendered to text, split into bounded chunks, embedded and
// searched by cosine similarity.
package retrieval

import (
	"fmt"
	"sort"
	"strings"

	"datalens/domain/profile"
)

// Chunker splits rendered summaries into retrieval-sized text blocks
type Chunker struct {
	chunkSize int
	maxChunks int
}

// NewChunker creates a chunker with the given block size and chunk cap
func NewChunker(chunkSize, maxChunks int) *Chunker {
	if chunkSize < 1 {
		chunkSize = 700
	}
	if maxChunks < 1 {
		maxChunks = 120
	}
	return &Chunker{chunkSize: chunkSize, maxChunks: maxChunks}
}

// ChunkSummary renders one analysis summary as text and splits it into
// chunks. Sections are kept intact when they fit in a block.
func (c *Chunker) ChunkSummary(summary *profile.AnalysisSummary) []string {
	if summary == nil {
		return nil
	}
	return c.split(renderSummary(summary))
}

// ChunkDocument splits raw document text into chunks
func (c *Chunker) ChunkDocument(text string) []string {
	return c.split(text)
}

// split packs paragraphs into blocks up to chunkSize characters. A single
// paragraph longer than chunkSize is hard-cut.
func (c *Chunker) split(text string) []string {
	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		for len(para) > c.chunkSize {
			flush()
			chunks = append(chunks, para[:c.chunkSize])
			para = para[c.chunkSize:]
		}
		if current.Len() > 0 && current.Len()+len(para)+2 > c.chunkSize {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)

		if len(chunks) >= c.maxChunks {
			return chunks[:c.maxChunks]
		}
	}
	flush()

	if len(chunks) > c.maxChunks {
		chunks = chunks[:c.maxChunks]
	}
	return chunks
}

// renderSummary flattens a summary into paragraph-separated sections so
// the chunker can keep related facts together.
func renderSummary(s *profile.AnalysisSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Dataset shape: %d rows, %d columns.\nColumns: %s.\n\n",
		s.Shape[0], s.Shape[1], strings.Join(s.Columns, ", "))

	for _, name := range s.Columns {
		ta, found := s.ColumnTypes[name]
		if !found {
			continue
		}
		fmt.Fprintf(&b, "Column %s: type %s (confidence %.0f%%), %.1f%% null, %d unique values.",
			name, ta.DetectedType, ta.Confidence, ta.NullPercentage, ta.UniqueCount)
		if desc, ok := s.SummaryStats[name]; ok {
			fmt.Fprintf(&b, " Mean %.4g, median %.4g, min %.4g, max %.4g, std %.4g.",
				desc.Mean, desc.Median, desc.Min, desc.Max, desc.Std)
		}
		b.WriteString("\n\n")
	}

	if s.DataQuality != nil {
		fmt.Fprintf(&b, "Data quality score: %.1f/100. Completeness %.1f%%. Duplicate rows: %d.\n\n",
			s.DataQuality.DataQualityScore, s.DataQuality.CompletenessPercentage, s.DataQuality.DuplicateRows)
	}

	if s.Correlations != nil && len(s.Correlations.StrongPairs) > 0 {
		b.WriteString("Strong correlations:")
		for _, pair := range s.Correlations.StrongPairs {
			fmt.Fprintf(&b, " %s and %s (r=%.3f);", pair.Pair[0], pair.Pair[1], pair.Corr)
		}
		b.WriteString("\n\n")
	}

	if s.TimeBreakdown != nil {
		fmt.Fprintf(&b, "Time coverage on %s by year: %s.\n\n",
			s.TimeBreakdown.DatetimeColumn, renderCounts(s.TimeBreakdown.ByYear))
	}

	if len(s.Charts) > 0 || len(s.IntelligentCharts) > 0 {
		fmt.Fprintf(&b, "Charts available: %s.\n\n",
			strings.Join(append(sortedChartKeys(s.Charts), sortedChartKeys(s.IntelligentCharts)...), ", "))
	}

	if s.Document != nil {
		fmt.Fprintf(&b, "Document: %d pages, %d words, %d paragraphs, reading time %.1f minutes.\n\n",
			s.Document.Pages, s.Document.WordCount, s.Document.ParagraphCount, s.Document.ReadingTimeMinutes)
	}

	return b.String()
}

func renderCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s (%d)", k, counts[k])
	}
	return strings.Join(parts, ", ")
}

func sortedChartKeys(charts map[string]profile.ChartSpec) []string {
	keys := make([]string, 0, len(charts))
	for k := range charts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
