// Package profile defines statute processing profiles: the noise-removal
// patterns, section-marker shape and chunking budgets for one statute family,
// loaded from YAML so statute-specific quirks are additive data rather than
// code forks.
package profile

import (
	"fmt"
	"regexp"

	"github.com/lawkit/statuta/pkg/chunk"
	"github.com/lawkit/statuta/pkg/segment"
)

// Chunking holds the chunker budgets for a profile.
type Chunking struct {
	// MaxTokens is the per-chunk budget.
	MaxTokens int `yaml:"max_tokens" json:"max_tokens"`
	// Reserve leaves room for framing tokens.
	Reserve int `yaml:"reserve" json:"reserve"`
	// BudgetUnit is "tokens" or "characters".
	BudgetUnit string `yaml:"budget_unit" json:"budget_unit"`
	// OverlapWords seeds overflow chunks with trailing context words.
	OverlapWords int `yaml:"overlap_words" json:"overlap_words"`
	// MinChunkWords drops corpus chunks shorter than this many words.
	MinChunkWords int `yaml:"min_chunk_words" json:"min_chunk_words"`
}

// Profile describes how one statute family is normalized, segmented and
// chunked.
type Profile struct {
	// Name identifies the profile (and its file: <name>.yaml).
	Name string `yaml:"name" json:"name"`
	// Statute is the full document identifier carried on every record.
	Statute string `yaml:"statute" json:"statute"`
	// MarkerDigits is the maximum digit width of a section marker (1-4).
	MarkerDigits int `yaml:"marker_digits" json:"marker_digits"`
	// MaxSection is the known maximum valid section number; markers above
	// it are discarded as noise. Zero disables the bound.
	MaxSection int `yaml:"max_section" json:"max_section"`
	// ChapterPattern overrides the default chapter heading regex.
	ChapterPattern string `yaml:"chapter_pattern" json:"chapter_pattern,omitempty"`
	// NoisePatterns are additional noise regexes removed during
	// normalization, on top of the built-in set.
	NoisePatterns []string `yaml:"noise_patterns" json:"noise_patterns,omitempty"`
	// Chunking holds the chunker budgets.
	Chunking Chunking `yaml:"chunking" json:"chunking"`

	// Compiled patterns, populated by Compile.
	compiledNoise   []*regexp.Regexp
	compiledChapter *regexp.Regexp
}

// Default returns the built-in profile tuned for the observed gazette PDFs:
// 3-digit markers, token budgets matching a 512-token encoder, no overlap.
func Default() *Profile {
	p := &Profile{
		Name:         "default",
		Statute:      "Statute",
		MarkerDigits: 3,
		Chunking: Chunking{
			MaxTokens:     510,
			Reserve:       2,
			BudgetUnit:    string(chunk.BudgetTokens),
			OverlapWords:  0,
			MinChunkWords: 0,
		},
	}
	if err := p.Compile(); err != nil {
		// The built-in profile has no user-supplied patterns to reject.
		panic(fmt.Sprintf("compiling default profile: %v", err))
	}
	return p
}

// Validate checks the profile's declarative fields.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	if p.MarkerDigits < 0 || p.MarkerDigits > 4 {
		return fmt.Errorf("marker_digits must be 1-4, got %d", p.MarkerDigits)
	}
	if p.MaxSection < 0 {
		return fmt.Errorf("max_section cannot be negative")
	}
	switch p.Chunking.BudgetUnit {
	case "", string(chunk.BudgetTokens), string(chunk.BudgetCharacters):
	default:
		return fmt.Errorf("budget_unit must be %q or %q", chunk.BudgetTokens, chunk.BudgetCharacters)
	}
	return nil
}

// Compile validates the profile and compiles its regex fields. A profile must
// be compiled before it is used.
func (p *Profile) Compile() error {
	if err := p.Validate(); err != nil {
		return err
	}

	p.compiledNoise = p.compiledNoise[:0]
	for _, raw := range p.NoisePatterns {
		compiled, err := regexp.Compile(raw)
		if err != nil {
			return fmt.Errorf("compiling noise pattern %q: %w", raw, err)
		}
		p.compiledNoise = append(p.compiledNoise, compiled)
	}

	p.compiledChapter = nil
	if p.ChapterPattern != "" {
		compiled, err := regexp.Compile(p.ChapterPattern)
		if err != nil {
			return fmt.Errorf("compiling chapter pattern %q: %w", p.ChapterPattern, err)
		}
		p.compiledChapter = compiled
	}
	return nil
}

// IsCompiled reports whether Compile has run since the last mutation of the
// pattern fields.
func (p *Profile) IsCompiled() bool {
	return len(p.compiledNoise) == len(p.NoisePatterns) &&
		(p.ChapterPattern == "") == (p.compiledChapter == nil)
}

// Noise returns the compiled extra noise patterns.
func (p *Profile) Noise() []*regexp.Regexp {
	return p.compiledNoise
}

// Segmenter builds a segmenter configured by this profile.
func (p *Profile) Segmenter() *segment.Segmenter {
	s := segment.NewSegmenter()
	s.SetMarkerDigits(p.MarkerDigits)
	s.SetMaxSection(p.MaxSection)
	if p.compiledChapter != nil {
		s.SetChapterPattern(p.compiledChapter)
	}
	return s
}

// ChunkOptions returns the chunker options configured by this profile.
// Unset fields fall back to the chunker defaults.
func (p *Profile) ChunkOptions() chunk.Options {
	return chunk.Options{
		MaxTokens:    p.Chunking.MaxTokens,
		Reserve:      p.Chunking.Reserve,
		BudgetUnit:   chunk.BudgetUnit(p.Chunking.BudgetUnit),
		OverlapWords: p.Chunking.OverlapWords,
	}
}
