// Package chunk splits section content into model-input-sized pieces under a
// token budget, preserving sentence boundaries and falling back to word-level
// splits only when a single sentence exceeds the budget on its own.
package chunk

import (
	"strings"
	"unicode"
)

// Tokenizer is the external collaborator that measures text length in model
// tokens. Only the count is used; no other tokenizer behavior is depended on.
type Tokenizer interface {
	Count(text string) (int, error)
}

// BudgetUnit selects how chunk size is measured.
type BudgetUnit string

const (
	// BudgetTokens measures chunks with the tokenizer (the default; the
	// tokenizer is ground truth for emitted chunk length).
	BudgetTokens BudgetUnit = "tokens"
	// BudgetCharacters measures chunks by character count, for corpus
	// preparation where an exact tokenizer is not in play.
	BudgetCharacters BudgetUnit = "characters"
)

// maxOverlapWords bounds the overlap window regardless of configuration.
const maxOverlapWords = 50

// Options configures a Chunker. Both budget strategies and the optional
// overlap window ride the same code path.
type Options struct {
	// MaxTokens is the hard budget per chunk, in the configured unit.
	MaxTokens int
	// Reserve is subtracted from MaxTokens when sizing content, leaving
	// room for framing tokens added downstream (e.g. [CLS]/[SEP]).
	Reserve int
	// BudgetUnit selects tokenizer-measured or character-measured budgets.
	BudgetUnit BudgetUnit
	// OverlapWords seeds each overflow-started chunk with the trailing N
	// words of the previous chunk. Zero disables overlap.
	OverlapWords int
}

// DefaultOptions returns the section-pipeline defaults: a 510-token budget
// with a 2-token reserve and no overlap.
func DefaultOptions() Options {
	return Options{
		MaxTokens:  510,
		Reserve:    2,
		BudgetUnit: BudgetTokens,
	}
}

// Chunker splits text against a token budget.
type Chunker struct {
	tokenizer Tokenizer
	opts      Options
}

// New creates a Chunker. Zero or negative option fields fall back to the
// defaults; a nil tokenizer is only valid with BudgetCharacters.
func New(tokenizer Tokenizer, opts Options) *Chunker {
	defaults := DefaultOptions()
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaults.MaxTokens
	}
	if opts.Reserve <= 0 {
		opts.Reserve = defaults.Reserve
	}
	if opts.BudgetUnit == "" {
		opts.BudgetUnit = defaults.BudgetUnit
	}
	if opts.OverlapWords < 0 {
		opts.OverlapWords = 0
	}
	if opts.OverlapWords > maxOverlapWords {
		opts.OverlapWords = maxOverlapWords
	}
	return &Chunker{tokenizer: tokenizer, opts: opts}
}

// Split breaks content into ordered chunks, each within the budget. Sentences
// are accumulated greedily; a sentence that alone exceeds the budget is split
// at word boundaries. With overlap disabled, concatenating the chunks
// reconstructs the content up to whitespace normalization.
func (c *Chunker) Split(content string) []string {
	budget := c.opts.MaxTokens - c.opts.Reserve
	if budget <= 0 {
		budget = c.opts.MaxTokens
	}

	var chunks []string
	current := ""
	for _, sentence := range SplitSentences(content) {
		// A sentence that cannot fit on its own goes through the
		// word-level fallback. The reserved budget applies here too,
		// so fallback chunks leave the same framing-token room as
		// accumulated ones.
		if c.measure(sentence) > budget {
			if current != "" {
				chunks = append(chunks, current)
				current = ""
			}
			chunks = append(chunks, c.splitLongSentence(sentence, budget)...)
			continue
		}

		candidate := sentence
		if current != "" {
			candidate = current + " " + sentence
		}
		if c.measure(candidate) > budget {
			if current != "" {
				chunks = append(chunks, current)
			}
			current = sentence
			if c.opts.OverlapWords > 0 && len(chunks) > 0 {
				current = c.overlapSeed(chunks[len(chunks)-1]) + " " + sentence
			}
			continue
		}
		current = candidate
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

// measure returns the length of text in the configured budget unit. A
// tokenizer failure is contained to this one boundary decision: the text is
// reported as over any budget, which forces a flush instead of aborting.
func (c *Chunker) measure(text string) int {
	if c.opts.BudgetUnit == BudgetCharacters || c.tokenizer == nil {
		return len(text)
	}
	count, err := c.tokenizer.Count(text)
	if err != nil {
		return c.opts.MaxTokens + 1
	}
	return count
}

// splitLongSentence breaks an oversized sentence at word boundaries,
// accumulating per-word lengths until the next word would exceed the budget.
func (c *Chunker) splitLongSentence(sentence string, budget int) []string {
	var subChunks []string
	var current []string
	length := 0
	for _, word := range strings.Fields(sentence) {
		wordLength := c.measure(word)
		if len(current) > 0 && length+wordLength > budget {
			subChunks = append(subChunks, strings.Join(current, " "))
			current = current[:0]
			length = 0
		}
		current = append(current, word)
		length += wordLength
	}
	if len(current) > 0 {
		subChunks = append(subChunks, strings.Join(current, " "))
	}
	return subChunks
}

// overlapSeed returns the trailing overlap window of a flushed chunk.
func (c *Chunker) overlapSeed(flushed string) string {
	words := strings.Fields(flushed)
	n := c.opts.OverlapWords
	if n > len(words) {
		n = len(words)
	}
	return strings.Join(words[len(words)-n:], " ")
}

// SplitSentences splits text on sentence-ending punctuation followed by
// whitespace. It is a heuristic splitter: abbreviations are not special-cased.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(strings.TrimSpace(text))
	for i, r := range runes {
		current.WriteRune(r)
		if isSentenceEnd(r) && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
