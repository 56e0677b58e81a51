// Package csvtable reads the league's delimited tables into rows keyed by the
// header.
package csvtable

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Row is one record keyed by header name.
type Row = map[string]string

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	delimiters = []rune{',', ';', '\t'}
)

// Parse reads a whole table. The first non-blank line is the header; the
// delimiter is detected from it. Rows whose cells are all blank are dropped.
func Parse(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = DetectDelimiter(string(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var (
		header []string
		rows   []Row
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if blank(rec) {
			continue
		}
		if header == nil {
			header = trimAll(rec)
			continue
		}
		rows = append(rows, toRow(header, rec))
	}
	if header == nil {
		return nil, ErrNoHeader
	}
	return rows, nil
}

// DetectDelimiter picks the candidate that splits the first non-blank line
// into the most fields. Ties go to comma, then semicolon.
func DetectDelimiter(text string) rune {
	line := firstLine(text)
	best, bestCount := delimiters[0], 0
	for _, d := range delimiters {
		if n := strings.Count(line, string(d)) + 1; n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func firstLine(text string) string {
	for _, l := range strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' }) {
		if strings.TrimSpace(l) != "" {
			return l
		}
	}
	return ""
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func trimAll(rec []string) []string {
	out := make([]string, len(rec))
	for i, c := range rec {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func toRow(header, rec []string) Row {
	row := make(Row, len(header))
	for i, h := range header {
		if h == "" {
			continue
		}
		var v string
		if i < len(rec) {
			v = strings.TrimSpace(rec[i])
		}
		row[h] = v
	}
	return row
}
