package profile

import (
	"strings"
	"testing"

	"github.com/lawkit/statuta/pkg/chunk"
)

func TestDefault_IsCompiledAndValid(t *testing.T) {
	p := Default()
	if err := p.Validate(); err != nil {
		t.Fatalf("default profile invalid: %v", err)
	}
	if !p.IsCompiled() {
		t.Error("default profile not compiled")
	}
	if p.Chunking.MaxTokens != 510 || p.Chunking.Reserve != 2 {
		t.Errorf("unexpected default budgets: %+v", p.Chunking)
	}
}

func TestValidate_RejectsBadFields(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr string
	}{
		{
			name:    "missing name",
			profile: Profile{},
			wantErr: "name",
		},
		{
			name:    "marker digits out of range",
			profile: Profile{Name: "x", MarkerDigits: 7},
			wantErr: "marker_digits",
		},
		{
			name:    "negative max section",
			profile: Profile{Name: "x", MaxSection: -1},
			wantErr: "max_section",
		},
		{
			name:    "unknown budget unit",
			profile: Profile{Name: "x", Chunking: Chunking{BudgetUnit: "bytes"}},
			wantErr: "budget_unit",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestCompile_RejectsBadRegex(t *testing.T) {
	p := &Profile{Name: "broken", NoisePatterns: []string{`[unclosed`}}
	if err := p.Compile(); err == nil {
		t.Fatal("expected compile error for bad noise pattern")
	}

	p = &Profile{Name: "broken", ChapterPattern: `(?P<`}
	if err := p.Compile(); err == nil {
		t.Fatal("expected compile error for bad chapter pattern")
	}
}

func TestCompile_PopulatesPatterns(t *testing.T) {
	p := &Profile{
		Name:           "bns",
		NoisePatterns:  []string{`(?i)MINISTRY OF LAW AND JUSTICE`},
		ChapterPattern: `CHAPTER\s+[IVXLCDM]+`,
	}
	if err := p.Compile(); err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if !p.IsCompiled() {
		t.Error("IsCompiled false after Compile")
	}
	if len(p.Noise()) != 1 {
		t.Fatalf("expected 1 compiled noise pattern, got %d", len(p.Noise()))
	}
	if !p.Noise()[0].MatchString("ministry of law and justice") {
		t.Error("compiled noise pattern does not match")
	}
}

func TestSegmenter_HonorsProfileSettings(t *testing.T) {
	p := &Profile{Name: "x", MarkerDigits: 4, MaxSection: 2000}
	if err := p.Compile(); err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	s := p.Segmenter()
	sections := s.Segment("1023. Wide marker section. 9999. Over the bound.", "Test Act")
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d: %+v", len(sections), sections)
	}
	if sections[0].Number != "1023" {
		t.Errorf("expected section 1023, got %q", sections[0].Number)
	}
}

func TestChunkOptions_Mapping(t *testing.T) {
	p := &Profile{
		Name: "x",
		Chunking: Chunking{
			MaxTokens:    1000,
			Reserve:      4,
			BudgetUnit:   string(chunk.BudgetCharacters),
			OverlapWords: 25,
		},
	}
	opts := p.ChunkOptions()
	if opts.MaxTokens != 1000 || opts.Reserve != 4 {
		t.Errorf("budgets not carried over: %+v", opts)
	}
	if opts.BudgetUnit != chunk.BudgetCharacters {
		t.Errorf("expected character budget, got %q", opts.BudgetUnit)
	}
	if opts.OverlapWords != 25 {
		t.Errorf("expected 25 overlap words, got %d", opts.OverlapWords)
	}
}
