package normalize

import (
	"regexp"
	"strings"
	"testing"
)

func TestNormalize_RemovesPageMarkers(t *testing.T) {
	got := Normalize("before [PAGE 12] after")
	if strings.Contains(got, "[PAGE") {
		t.Errorf("page marker was not removed: %q", got)
	}
	if got != "before after" {
		t.Errorf("unexpected result: %q", got)
	}
}

func TestNormalize_RemovesGazetteHeader(t *testing.T) {
	input := "1. Short title.\nTHE GAZETTE OF INDIA EXTRAORDINARY [PART II]\n2. Definitions."
	got := Normalize(input)
	if strings.Contains(strings.ToUpper(got), "GAZETTE") {
		t.Errorf("gazette header was not removed: %q", got)
	}
	if !strings.Contains(got, "Short title") || !strings.Contains(got, "Definitions") {
		t.Errorf("surrounding content was lost: %q", got)
	}
}

func TestNormalize_WrappedHeaderDoesNotEatFollowingText(t *testing.T) {
	// The hyphen break keeps the header from matching until wrap repair
	// has rejoined the lines, so only the second sweep can remove it.
	input := "THE GAZETTE OF INDIA EXTRAORDI-\nnary PART II\n1. Short title. This Act applies to all."
	got := Normalize(input)
	if strings.Contains(strings.ToUpper(got), "GAZETTE") {
		t.Errorf("rejoined header was not removed: %q", got)
	}
	if got != "1. Short title. This Act applies to all." {
		t.Errorf("text after the header was lost: %q", got)
	}
}

func TestNormalize_RemovesStandalonePageNumbers(t *testing.T) {
	got := Normalize("first line\n42\nsecond line")
	if strings.Contains(got, "42") {
		t.Errorf("standalone page number was not removed: %q", got)
	}
	if got != "first line second line" {
		t.Errorf("unexpected result: %q", got)
	}
}

func TestNormalize_RemovesSeparatorRuns(t *testing.T) {
	got := Normalize("above\n--------------------\nbelow")
	if strings.Contains(got, "--") {
		t.Errorf("separator run was not removed: %q", got)
	}
}

func TestNormalize_CollapsesWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"space runs", "a   b\t\tc", "a b c"},
		{"paragraph runs", "a\n\n\n\n\nb", "a\n\nb"},
		{"trailing spaces", "a   \nb", "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_RepairsHyphenBreaks(t *testing.T) {
	got := Normalize("the House last ad-\njourned and immediately")
	if !strings.Contains(got, "adjourned") {
		t.Errorf("hyphenated word was not rejoined: %q", got)
	}
}

func TestNormalize_RepairsSoftWraps(t *testing.T) {
	got := Normalize("first line\nsecond line\n\nnew paragraph")
	want := "first line second line\n\nnew paragraph"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalize_StripsEncodingArtifacts(t *testing.T) {
	got := Normalize("offence\u2014punishable with \u00e2\u20ac\u02dcfine\u00e2\u20ac\u2122")
	for _, r := range got {
		if r > 127 {
			t.Fatalf("non-ASCII rune %q survived: %q", r, got)
		}
	}
	if !strings.Contains(got, "offence") || !strings.Contains(got, "punishable") {
		t.Errorf("content was lost: %q", got)
	}
}

func TestNormalize_TotalOnCleanInput(t *testing.T) {
	input := "Plain sentence with nothing to clean."
	if got := Normalize(input); got != input {
		t.Errorf("clean input was altered: %q", got)
	}
	if got := Normalize(""); got != "" {
		t.Errorf("empty input produced %q", got)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	samples := []string{
		"",
		"Plain text.",
		"a   b\n\n\n\nc",
		"[PAGE 1]\nTHE GAZETTE OF INDIA EXTRAORDINARY\n1. Short title.\n2\nThis Act ex-\ntends to the whole country.",
		"CHAPTER I\n\n1. Definitions\u2014in this Act:\nsoft\nwrapped\nlines",
		"table ----- markers ____ everywhere\n\n42\n\ndone",
	}
	for _, sample := range samples {
		once := Normalize(sample)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("not idempotent for %q:\n once: %q\ntwice: %q", sample, once, twice)
		}
	}
}

func TestNew_ExtraPatternsApplied(t *testing.T) {
	footer := regexp.MustCompile(`(?i)SUPREME COURT REPORTS`)
	n := New(footer)
	got := n.Normalize("text SUPREME COURT REPORTS more text")
	if strings.Contains(got, "SUPREME") {
		t.Errorf("extra noise pattern was not applied: %q", got)
	}
	if got != "text more text" {
		t.Errorf("unexpected result: %q", got)
	}
}
