package profiler

import (
	"regexp"
	"strings"
	"unicode"

	"datalens/domain/core"
	"datalens/domain/profile"
)

// wordsPerMinute is the reading speed used for the reading time estimate
const wordsPerMinute = 300.0

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// AnalyzeDocument summarizes extracted document text. pageWordCounts holds
// the word count per page in page order; callers without page structure
// pass a single-element slice.
func AnalyzeDocument(fullText string, pageWordCounts []int) *profile.DocumentStats {
	stats := &profile.DocumentStats{
		Pages:     len(pageWordCounts),
		WordCount: len(strings.Fields(fullText)),
		CharCount: len(fullText),
	}

	for _, r := range fullText {
		if !unicode.IsSpace(r) {
			stats.CharCountNoSpaces++
		}
	}

	paragraphs := splitParagraphs(fullText)
	stats.ParagraphCount = len(paragraphs)
	totalParaWords := 0
	for _, para := range paragraphs {
		words := len(strings.Fields(para))
		totalParaWords += words
		if words > stats.LongestParagraph {
			stats.LongestParagraph = words
		}
	}
	if len(paragraphs) > 0 {
		stats.AverageParagraphLength = core.Round1(float64(totalParaWords) / float64(len(paragraphs)))
	}

	stats.SentenceCount = countSentences(fullText)

	lines := strings.Split(fullText, "\n")
	stats.LineCount = len(lines)
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			stats.NonEmptyLines++
		}
	}

	for _, words := range pageWordCounts {
		if words > 0 {
			stats.PagesWithText++
		}
	}
	if stats.Pages > 0 {
		stats.AverageWordsPerPage = core.Round1(float64(stats.WordCount) / float64(stats.Pages))
		stats.AverageCharsPerPage = core.Round1(float64(stats.CharCount) / float64(stats.Pages))
		stats.ExtractionSuccessRate = core.Round1(float64(stats.PagesWithText) / float64(stats.Pages) * 100)
	}

	stats.ReadingTimeMinutes = core.Round1(float64(stats.WordCount) / wordsPerMinute)

	return stats
}

// splitParagraphs treats blank-line separated blocks as paragraphs
func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, block := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(block) != "" {
			paragraphs = append(paragraphs, block)
		}
	}
	return paragraphs
}

// countSentences counts terminator runs followed by whitespace or the end
// of the text, so "e.g." style abbreviations inside a sentence still count
// once per run.
func countSentences(text string) int {
	count := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		if loc[1] >= len(text) || unicode.IsSpace(rune(text[loc[1]])) {
			count++
		}
	}
	return count
}
