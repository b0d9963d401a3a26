// Package mapping converts cross-statute comparison tables (spreadsheets
// exported as CSV) into ordered JSON mapping records relating sections of a
// new code to the sections of the code it replaces.
package mapping

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/lawkit/statuta/pkg/chunk"
)

// Record maps one section of the new statute to its counterpart in the old.
type Record struct {
	NewSection string `json:"new_section"`
	NewSubject string `json:"new_subject"`
	OldSection string `json:"old_section"`
	OldSubject string `json:"old_subject"`
	Summary    string `json:"summary"`
}

// Columns names the CSV headers the converter reads. Header matching is
// case-insensitive and whitespace-normalized.
type Columns struct {
	NewSection string
	OldSection string
	Subject    string
	Summary    string
}

// DefaultColumns matches the comparison sheets the pipeline was built for.
func DefaultColumns() Columns {
	return Columns{
		NewSection: "BNS Sections/ Subsections",
		OldSection: "IPC Sections",
		Subject:    "Subject",
		Summary:    "Summary of comparison",
	}
}

// FromCSV reads a comparison table and returns its mapping records in row
// order. Rows missing either section column are skipped. A summary of
// "Ditto" (in any casing) carries the previous record's summary forward.
func FromCSV(r io.Reader, cols Columns) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	index := func(name string) int {
		want := canonical(name)
		for i, h := range header {
			if canonical(h) == want {
				return i
			}
		}
		return -1
	}
	newIdx := index(cols.NewSection)
	oldIdx := index(cols.OldSection)
	subjectIdx := index(cols.Subject)
	summaryIdx := index(cols.Summary)
	if newIdx < 0 || oldIdx < 0 {
		return nil, fmt.Errorf("missing section columns %q / %q in header", cols.NewSection, cols.OldSection)
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		newSection := cellText(row, newIdx)
		oldSection := cellText(row, oldIdx)
		if newSection == "" || oldSection == "" {
			continue
		}

		subject := cellText(row, subjectIdx)
		summary := cellText(row, summaryIdx)
		if strings.Contains(strings.ToLower(summary), "ditto") {
			summary = ""
			if len(records) > 0 {
				summary = records[len(records)-1].Summary
			}
		}

		records = append(records, Record{
			NewSection: newSection,
			NewSubject: subject,
			OldSection: oldSection,
			OldSubject: subject,
			Summary:    summary,
		})
	}
	return records, nil
}

// Overflow flags a record whose concatenated fields exceed the token limit.
type Overflow struct {
	Record Record `json:"record"`
	Tokens int    `json:"tokens"`
}

// AuditTokens measures each record's concatenated fields with the tokenizer
// and returns the records that exceed limit. Records the tokenizer cannot
// measure count as over the limit with a zero token count.
func AuditTokens(records []Record, tokenizer chunk.Tokenizer, limit int) []Overflow {
	var over []Overflow
	for _, rec := range records {
		joined := strings.Join([]string{
			rec.OldSection, rec.OldSubject, rec.NewSection, rec.NewSubject, rec.Summary,
		}, " ")
		count, err := tokenizer.Count(joined)
		if err != nil {
			over = append(over, Overflow{Record: rec})
			continue
		}
		if count > limit {
			over = append(over, Overflow{Record: rec, Tokens: count})
		}
	}
	return over
}

// canonical lowercases a header and collapses its whitespace for matching.
func canonical(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// cellText returns the trimmed cell at idx with line breaks flattened.
func cellText(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	v := strings.ReplaceAll(row[idx], "\n", " ")
	v = strings.ReplaceAll(v, "\r", " ")
	return strings.TrimSpace(strings.Join(strings.Fields(v), " "))
}
