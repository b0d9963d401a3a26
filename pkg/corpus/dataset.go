package corpus

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/lawkit/statuta/pkg/chunk"
)

// DatasetRecord is one training-corpus chunk with its structural context.
type DatasetRecord struct {
	ID      int    `json:"id"`
	Text    string `json:"text"`
	Source  string `json:"source"`
	DocType string `json:"doc_type"`
	Chapter string `json:"chapter"`
	Section string `json:"section"`
	Length  int    `json:"length"`
}

// DatasetOptions controls general-corpus chunking. This call site measures
// by characters and carries an overlap window by default, unlike the
// section pipeline.
type DatasetOptions struct {
	MaxChunkChars int
	MinChunkWords int
	OverlapWords  int // negative disables overlap
}

// DefaultDatasetOptions returns the corpus-preparation defaults.
func DefaultDatasetOptions() DatasetOptions {
	return DatasetOptions{
		MaxChunkChars: 1000,
		MinChunkWords: 20,
		OverlapWords:  25,
	}
}

var (
	// datasetChapterPattern matches inline chapter labels in corpus text.
	datasetChapterPattern = regexp.MustCompile(`\b(?:CHAPTER|Chapter|CHP)\s+([IVXLCDM]+|\d+)\b`)

	// datasetSectionPattern matches inline section labels like
	// "Section 12", "SEC. 3(1)(a)" or "Clause 4".
	datasetSectionPattern = regexp.MustCompile(`\b(?:Section|SECTION|Sec\.|SEC\.|Clause|CLAUSE)\s+(\d+[A-Z]?(?:\(\d+\))*(?:\([a-z]\))?)\b`)
)

// BuildDataset splits normalized text into corpus chunks with chapter and
// section attribution. Paragraphs within the character budget become one
// chunk; larger ones are split on sentence boundaries. Chunks below the
// minimum word count are dropped.
func BuildDataset(text, source string, opts DatasetOptions) []DatasetRecord {
	defaults := DefaultDatasetOptions()
	if opts.MaxChunkChars <= 0 {
		opts.MaxChunkChars = defaults.MaxChunkChars
	}
	if opts.MinChunkWords <= 0 {
		opts.MinChunkWords = defaults.MinChunkWords
	}
	if opts.OverlapWords == 0 {
		opts.OverlapWords = defaults.OverlapWords
	}
	if opts.OverlapWords < 0 {
		opts.OverlapWords = 0
	}

	chapters := labelPositions(datasetChapterPattern, text)
	sections := labelPositions(datasetSectionPattern, text)

	splitter := chunk.New(nil, chunk.Options{
		MaxTokens:    opts.MaxChunkChars,
		BudgetUnit:   chunk.BudgetCharacters,
		OverlapWords: opts.OverlapWords,
	})

	docType := source
	if i := strings.Index(source, "_"); i > 0 {
		docType = source[:i]
	}

	var records []DatasetRecord
	for _, para := range paragraphsWithOffsets(text) {
		chapter := labelAt(chapters, para.offset)
		section := labelAt(sections, para.offset)

		pieces := []string{para.text}
		if len(para.text) > opts.MaxChunkChars {
			pieces = splitter.Split(para.text)
		}
		for _, piece := range pieces {
			words := len(strings.Fields(piece))
			if words <= opts.MinChunkWords {
				continue
			}
			records = append(records, DatasetRecord{
				ID:      len(records),
				Text:    piece,
				Source:  source,
				DocType: docType,
				Chapter: chapter,
				Section: section,
				Length:  words,
			})
		}
	}
	return records
}

// WriteDatasetCSV writes records as CSV with a header row, in order.
func WriteDatasetCSV(path string, records []DatasetRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "text", "source", "doc_type", "chapter", "section", "length"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			strconv.Itoa(rec.ID), rec.Text, rec.Source, rec.DocType,
			rec.Chapter, rec.Section, strconv.Itoa(rec.Length),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", rec.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// positionedLabel is a structural label and where it appears in the text.
type positionedLabel struct {
	offset int
	label  string
}

// labelPositions collects every label match with its offset, in text order.
func labelPositions(pattern *regexp.Regexp, text string) []positionedLabel {
	matches := pattern.FindAllStringSubmatchIndex(text, -1)
	labels := make([]positionedLabel, 0, len(matches))
	for _, m := range matches {
		labels = append(labels, positionedLabel{offset: m[0], label: text[m[2]:m[3]]})
	}
	return labels
}

// labelAt returns the last label at or before offset, or "Unknown".
func labelAt(labels []positionedLabel, offset int) string {
	current := "Unknown"
	for _, l := range labels {
		if l.offset > offset {
			break
		}
		current = l.label
	}
	return current
}

// paragraph is a text paragraph and its byte offset in the source.
type paragraph struct {
	offset int
	text   string
}

// paragraphsWithOffsets splits text on blank lines, keeping each paragraph's
// offset so structural labels can be attributed by position.
func paragraphsWithOffsets(text string) []paragraph {
	var paragraphs []paragraph
	offset := 0
	for _, part := range strings.Split(text, "\n\n") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			paragraphs = append(paragraphs, paragraph{
				offset: offset + strings.Index(part, trimmed[:1]),
				text:   trimmed,
			})
		}
		offset += len(part) + len("\n\n")
	}
	return paragraphs
}
