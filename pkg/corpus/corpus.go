// Package corpus is the pipeline driver: it sequences normalization,
// structural segmentation and token-bounded chunking per source document, and
// serializes the resulting section and chunk records. Failures are contained
// per document; one bad input never aborts its siblings.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lawkit/statuta/pkg/chunk"
	"github.com/lawkit/statuta/pkg/normalize"
	"github.com/lawkit/statuta/pkg/pdftext"
	"github.com/lawkit/statuta/pkg/profile"
	"github.com/lawkit/statuta/pkg/segment"
)

// ChunkRecord is the terminal artifact: one token-bounded slice of a
// section's content. ChunkNumber is 1-based in emission order.
type ChunkRecord struct {
	SectionNumber string `json:"section_number"`
	ChunkNumber   int    `json:"chunk_number"`
	Content       string `json:"content"`
	Statute       string `json:"statute"`
}

// Result holds everything one pipeline run produced for a document.
type Result struct {
	Statute  string
	Sections []segment.Section
	Chunks   []ChunkRecord
	Report   chunk.Report
}

// Pipeline wires the normalizer, segmenter and chunker for one statute
// profile.
type Pipeline struct {
	profile    *profile.Profile
	tokenizer  chunk.Tokenizer
	normalizer *normalize.Normalizer
	segmenter  *segment.Segmenter
	chunker    *chunk.Chunker
}

// NewPipeline builds a pipeline from a compiled profile and a tokenizer.
func NewPipeline(p *profile.Profile, tokenizer chunk.Tokenizer) *Pipeline {
	return &Pipeline{
		profile:    p,
		tokenizer:  tokenizer,
		normalizer: normalize.New(p.Noise()...),
		segmenter:  p.Segmenter(),
		chunker:    chunk.New(tokenizer, p.ChunkOptions()),
	}
}

// ProcessText runs the full pipeline on already-extracted text. It never
// fails: a document with no detectable structure yields zero sections, which
// callers report rather than treat as an error.
func (pl *Pipeline) ProcessText(text, statute string) *Result {
	if statute == "" {
		statute = pl.profile.Statute
	}

	cleaned := pl.normalizer.Normalize(text)
	sections := pl.segmenter.Segment(cleaned, statute)

	result := &Result{Statute: statute, Sections: sections}
	limit := pl.profile.ChunkOptions().MaxTokens
	for _, section := range sections {
		pieces := pl.chunker.Split(section.Content)
		for i, piece := range pieces {
			result.Chunks = append(result.Chunks, ChunkRecord{
				SectionNumber: section.Number,
				ChunkNumber:   i + 1,
				Content:       piece,
				Statute:       section.Statute,
			})
		}
		if pl.tokenizer != nil {
			result.Report = result.Report.Merge(chunk.Audit(pieces, pl.tokenizer, limit))
		}
	}
	return result
}

// ProcessFile reads a source document (PDF or plain text) and runs the
// pipeline on it. The statute name comes from the profile, falling back to
// the file's base name.
func (pl *Pipeline) ProcessFile(path string) (*Result, error) {
	text, statute, err := pl.readDocument(path)
	if err != nil {
		return nil, err
	}
	return pl.ProcessText(text, statute), nil
}

// SegmentFile reads a source document and stops after segmentation. Callers
// that only want the section boundaries use this to skip the chunking stage.
func (pl *Pipeline) SegmentFile(path string) ([]segment.Section, error) {
	text, statute, err := pl.readDocument(path)
	if err != nil {
		return nil, err
	}
	cleaned := pl.normalizer.Normalize(text)
	return pl.segmenter.Segment(cleaned, statute), nil
}

func (pl *Pipeline) readDocument(path string) (text, statute string, err error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err = pdftext.ExtractFile(path)
	} else {
		var data []byte
		data, err = os.ReadFile(path)
		text = string(data)
	}
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", path, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", "", fmt.Errorf("no text extracted from %s", path)
	}

	statute = pl.profile.Statute
	if statute == "" || statute == "Statute" {
		statute = DeriveStatuteName(path)
	}
	return text, statute, nil
}

// DeriveStatuteName turns a file path into a statute identifier: the base
// name without extension, with separators spelled as spaces.
func DeriveStatuteName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	return strings.TrimSpace(base)
}
