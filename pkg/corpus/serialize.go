package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lawkit/statuta/pkg/chunk"
	"github.com/lawkit/statuta/pkg/segment"
)

// WriteJSON writes records as an indented UTF-8 JSON array, one record per
// entry, in emission order. The output is meant to be human-diffable.
func WriteJSON[T any](path string, records []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}

// WriteJSONL writes records as JSON Lines: one compact record per line, in
// emission order.
func WriteJSONL[T any](path string, records []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, record := range records {
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("encoding %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadSections loads a previously written section array, preserving order.
func ReadSections(path string) ([]segment.Section, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var sections []segment.Section
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return sections, nil
}

// ChunkSections re-chunks loaded sections, preserving section order and
// numbering chunks from 1 within each section.
func (pl *Pipeline) ChunkSections(sections []segment.Section) ([]ChunkRecord, chunk.Report) {
	var chunks []ChunkRecord
	var report chunk.Report
	limit := pl.profile.ChunkOptions().MaxTokens
	for _, section := range sections {
		pieces := pl.chunker.Split(section.Content)
		for i, piece := range pieces {
			chunks = append(chunks, ChunkRecord{
				SectionNumber: section.Number,
				ChunkNumber:   i + 1,
				Content:       piece,
				Statute:       section.Statute,
			})
		}
		if pl.tokenizer != nil {
			report = report.Merge(chunk.Audit(pieces, pl.tokenizer, limit))
		}
	}
	return chunks, report
}
