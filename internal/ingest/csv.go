// Package ingest parses uploaded files into datasets. It handles CSV with
// delimiter sniffing, Excel workbooks sheet by sheet, and plain text
// documents. Parsing stops at the raw-cell level; type detection is the
// classifier's job.
package ingest

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"

	"datalens/domain/dataset"
	"datalens/internal/errors"
)

// candidateDelimiters in sniffing priority order
var candidateDelimiters = []rune{',', ';', '\t', '|'}

// sniffSampleLines bounds how many lines the delimiter sniffer inspects
const sniffSampleLines = 10

// ReadCSV parses CSV content into a dataset. The delimiter is sniffed from
// a line sample; the first record is the header.
func ReadCSV(r io.Reader) (*dataset.Dataset, error) {
	buffered := bufio.NewReader(r)

	sample, err := peekLines(buffered, sniffSampleLines)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV content")
	}

	reader := csv.NewReader(buffered)
	reader.Comma = sniffDelimiter(sample)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse CSV content")
	}
	if len(records) < 2 {
		return nil, errors.InvalidInput("CSV must have a header row and at least one data row")
	}

	header := make([]string, len(records[0]))
	for i, cell := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))
	}

	return dataset.FromRows(header, records[1:]), nil
}

// peekLines returns up to n lines without consuming the reader
func peekLines(r *bufio.Reader, n int) ([]string, error) {
	const peekBytes = 64 * 1024
	head, err := r.Peek(peekBytes)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, err
	}
	if len(head) == 0 {
		return nil, errors.InvalidInput("CSV content is empty")
	}

	lines := strings.Split(string(head), "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return lines, nil
}

// sniffDelimiter picks the candidate with the highest consistent count
// across sampled lines. Counts inside quoted fields are ignored.
func sniffDelimiter(lines []string) rune {
	best := candidateDelimiters[0]
	bestScore := -1

	for _, delim := range candidateDelimiters {
		score := delimiterScore(lines, delim)
		if score > bestScore {
			best = delim
			bestScore = score
		}
	}
	return best
}

// delimiterScore rewards delimiters that appear the same number of times
// on every sampled line. A delimiter absent from the first line scores
// zero.
func delimiterScore(lines []string, delim rune) int {
	counts := make([]int, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		counts = append(counts, countUnquoted(line, delim))
	}
	if len(counts) == 0 || counts[0] == 0 {
		return 0
	}

	consistent := true
	for _, c := range counts[1:] {
		if c != counts[0] {
			consistent = false
			break
		}
	}
	if consistent {
		return counts[0] * len(counts)
	}
	return counts[0]
}

func countUnquoted(line string, delim rune) int {
	count := 0
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			count++
		}
	}
	return count
}
