package chunk

import (
	"errors"
	"strings"
	"testing"
)

// wordTokenizer counts whitespace-delimited words. It keeps budget arithmetic
// in tests human-checkable without a real BPE encoding.
type wordTokenizer struct{}

func (wordTokenizer) Count(text string) (int, error) {
	return len(strings.Fields(text)), nil
}

// failingTokenizer always errors, standing in for an encoding that rejects
// some input.
type failingTokenizer struct{}

func (failingTokenizer) Count(string) (int, error) {
	return 0, errors.New("encoding failed")
}

func wordsOf(chunks []string) []string {
	var words []string
	for _, chunk := range chunks {
		words = append(words, strings.Fields(chunk)...)
	}
	return words
}

func TestSplit_ShortContentIsOneChunk(t *testing.T) {
	c := New(wordTokenizer{}, Options{MaxTokens: 100, Reserve: 2})
	chunks := c.Split("Whoever causes death shall be punished. The punishment may extend to ten years.")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d: %q", len(chunks), chunks)
	}
}

func TestSplit_EveryChunkWithinBudget(t *testing.T) {
	content := strings.TrimSpace(strings.Repeat("Provision number one applies here. ", 20))
	c := New(wordTokenizer{}, Options{MaxTokens: 12, Reserve: 2})
	chunks := c.Split(content)
	if len(chunks) < 2 {
		t.Fatalf("content should have overflowed the budget, got %d chunks", len(chunks))
	}
	for i, chunk := range chunks {
		if n := len(strings.Fields(chunk)); n > 10 {
			t.Errorf("chunk %d has %d words, budget is 10: %q", i, n, chunk)
		}
	}
}

func TestSplit_PreservesSentenceBoundaries(t *testing.T) {
	content := "First provision applies. Second provision applies. Third provision applies."
	c := New(wordTokenizer{}, Options{MaxTokens: 8, Reserve: 2})
	chunks := c.Split(content)
	for i, chunk := range chunks {
		if !strings.HasSuffix(chunk, ".") {
			t.Errorf("chunk %d does not end at a sentence boundary: %q", i, chunk)
		}
	}
}

func TestSplit_NoContentLost(t *testing.T) {
	content := strings.TrimSpace(strings.Repeat("Some words making up a sentence of moderate size. ", 12))
	c := New(wordTokenizer{}, Options{MaxTokens: 15, Reserve: 2})
	chunks := c.Split(content)

	got := strings.Join(wordsOf(chunks), " ")
	want := strings.Join(strings.Fields(content), " ")
	if got != want {
		t.Errorf("chunks do not reconstruct the content:\n got: %q\nwant: %q", got, want)
	}
}

func TestSplit_OversizedSentenceFallsBackToWords(t *testing.T) {
	words := make([]string, 25)
	for i := range words {
		words[i] = "clause"
	}
	sentence := strings.Join(words, " ") + "."
	c := New(wordTokenizer{}, Options{MaxTokens: 12, Reserve: 2})
	chunks := c.Split(sentence)

	if len(chunks) < 3 {
		t.Fatalf("expected word-level split into at least 3 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if n := len(strings.Fields(chunk)); n > 10 {
			t.Errorf("chunk %d has %d words, budget is 10", i, n)
		}
	}
	if got := len(wordsOf(chunks)); got != 25 {
		t.Errorf("expected 25 words across chunks, got %d", got)
	}
}

func TestSplit_OverlapSeedsOverflowChunks(t *testing.T) {
	content := "one two three four five. six seven eight nine ten."
	c := New(wordTokenizer{}, Options{MaxTokens: 8, Reserve: 2, OverlapWords: 3})
	chunks := c.Split(content)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %q", len(chunks), chunks)
	}
	if !strings.HasPrefix(chunks[1], "three four five.") {
		t.Errorf("second chunk not seeded with the previous tail: %q", chunks[1])
	}
	if !strings.HasSuffix(chunks[1], "six seven eight nine ten.") {
		t.Errorf("second chunk lost its own sentence: %q", chunks[1])
	}
}

func TestSplit_NoOverlapByDefault(t *testing.T) {
	content := "one two three four five. six seven eight nine ten."
	c := New(wordTokenizer{}, Options{MaxTokens: 8, Reserve: 2})
	chunks := c.Split(content)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %q", len(chunks), chunks)
	}
	if chunks[1] != "six seven eight nine ten." {
		t.Errorf("unexpected overlap in second chunk: %q", chunks[1])
	}
}

func TestSplit_CharacterBudget(t *testing.T) {
	content := "aaaa bbbb. cccc dddd. eeee ffff."
	c := New(nil, Options{MaxTokens: 30, BudgetUnit: BudgetCharacters})
	chunks := c.Split(content)
	if len(chunks) < 2 {
		t.Fatalf("content should have overflowed a 28-character budget: %q", chunks)
	}
	for i, chunk := range chunks {
		if len(chunk) > 28 {
			t.Errorf("chunk %d is %d characters, budget is 28: %q", i, len(chunk), chunk)
		}
	}
	got := strings.Join(wordsOf(chunks), " ")
	if got != content {
		t.Errorf("character-budget split lost content: %q", got)
	}
}

func TestSplit_TokenizerFailureDoesNotLoseContent(t *testing.T) {
	content := "alpha beta. gamma delta."
	c := New(failingTokenizer{}, Options{MaxTokens: 510, Reserve: 2})
	chunks := c.Split(content)

	if len(chunks) == 0 {
		t.Fatal("tokenizer failure must not swallow the content")
	}
	got := strings.Join(wordsOf(chunks), " ")
	if got != content {
		t.Errorf("content lost under tokenizer failure:\n got: %q\nwant: %q", got, content)
	}
}

func TestSplit_EmptyContent(t *testing.T) {
	c := New(wordTokenizer{}, DefaultOptions())
	if chunks := c.Split("   "); len(chunks) != 0 {
		t.Errorf("expected no chunks for blank content, got %q", chunks)
	}
}

func TestDefaultOptions_Values(t *testing.T) {
	opts := DefaultOptions()
	if opts.MaxTokens != 510 || opts.Reserve != 2 {
		t.Errorf("unexpected budget defaults: %+v", opts)
	}
	if opts.BudgetUnit != BudgetTokens {
		t.Errorf("expected token budget by default, got %q", opts.BudgetUnit)
	}
	if opts.OverlapWords != 0 {
		t.Errorf("overlap should default to disabled, got %d", opts.OverlapWords)
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "periods",
			text: "First sentence. Second sentence. Third.",
			want: []string{"First sentence.", "Second sentence.", "Third."},
		},
		{
			name: "mixed punctuation",
			text: "Is it an offence? It is! Punishable too.",
			want: []string{"Is it an offence?", "It is!", "Punishable too."},
		},
		{
			name: "punctuation run",
			text: "Really?! Yes.",
			want: []string{"Really?!", "Yes."},
		},
		{
			name: "no terminator",
			text: "trailing fragment without punctuation",
			want: []string{"trailing fragment without punctuation"},
		},
		{
			name: "decimal not followed by space",
			text: "Section 3.14 applies. Next one.",
			want: []string{"Section 3.14 applies.", "Next one."},
		},
		{
			name: "empty",
			text: "   ",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d sentences, got %d: %q", len(tt.want), len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("sentence %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}
