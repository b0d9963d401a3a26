package tokenizer

import "regexp"

// wordPattern splits text into word tokens: word runs joined by hyphens or
// underscores count as one token, every other non-space character as its own.
var wordPattern = regexp.MustCompile(`\w+(?:[-_]\w+)*|\S`)

// Words is an offline word-level tokenizer. It backs the word-count budget
// variant of the chunker and serves as a fallback when no BPE vocabulary can
// be loaded.
type Words struct{}

// Tokenize returns the word tokens of text in order.
func (Words) Tokenize(text string) []string {
	return wordPattern.FindAllString(text, -1)
}

// Count returns the number of word tokens in text. It never fails.
func (w Words) Count(text string) (int, error) {
	return len(w.Tokenize(text)), nil
}
