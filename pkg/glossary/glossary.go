// Package glossary extracts term/definition pairs from glossary documents
// laid out as a capitalized term line followed by its definition text.
package glossary

import (
	"regexp"
	"strings"
)

// Entry is one extracted glossary term with its definition.
type Entry struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// termLinePattern matches a heading-style term line: an uppercase first
// letter followed by letters, spaces and limited punctuation, with no
// sentence-ending period.
var termLinePattern = regexp.MustCompile(`^[A-Z][A-Za-z \-()/]*$`)

// maxTermWords rejects headings that are really sentences.
const maxTermWords = 8

// Extract scans text for term lines and collects the following lines, up to
// the next term line, as the definition. Definitions are whitespace
// normalized; terms with no definition text are dropped.
func Extract(text string) []Entry {
	var entries []Entry
	var term string
	var definition []string

	flush := func() {
		if term == "" {
			return
		}
		def := strings.Join(strings.Fields(strings.Join(definition, " ")), " ")
		if def != "" {
			entries = append(entries, Entry{Term: term, Definition: def})
		}
		term = ""
		definition = definition[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if isTermLine(trimmed) {
			flush()
			term = trimmed
			continue
		}
		if term != "" {
			definition = append(definition, trimmed)
		}
	}
	flush()
	return entries
}

func isTermLine(line string) bool {
	if !termLinePattern.MatchString(line) {
		return false
	}
	return len(strings.Fields(line)) <= maxTermWords
}
