// Package normalize cleans PDF-extracted statute text before structural
// segmentation. The passes run in a fixed order because later passes assume
// the noise removed by earlier ones is gone.
package normalize

import (
	"regexp"
	"strings"
)

var (
	// pageMarkerPattern matches bracketed page markers inserted by the
	// text extraction step, e.g. "[PAGE 12]".
	pageMarkerPattern = regexp.MustCompile(`(?i)\[PAGE\s*\d+\]`)

	// gazetteHeaderPattern matches the running gazette header repeated at
	// page boundaries in Indian statute PDFs. The tail stops at the next
	// digit as well as at a newline: the second sweep runs after wrap
	// repair has joined lines, and statute text resuming after a header
	// starts with a section marker or page number.
	gazetteHeaderPattern = regexp.MustCompile(`(?i)THE\s+GAZETTE\s+OF\s+INDIA\s+EXTRAORDINARY[^\n\d]*`)

	// standalonePageNumberPattern matches lines containing only a page number.
	standalonePageNumberPattern = regexp.MustCompile(`(?m)^[ \t]*\d+[ \t]*\r?$\n?`)

	// separatorRunPattern matches long runs of rules, dashes and underscores
	// used as visual dividers.
	separatorRunPattern = regexp.MustCompile(`[-_=~*]{3,}`)

	// spaceRunPattern collapses runs of spaces and tabs.
	spaceRunPattern = regexp.MustCompile(`[ \t]+`)

	// spaceBeforeNewlinePattern strips trailing spaces at line ends.
	spaceBeforeNewlinePattern = regexp.MustCompile(` +\n`)

	// spaceAfterNewlinePattern strips leading spaces at line starts.
	spaceAfterNewlinePattern = regexp.MustCompile(`\n +`)

	// hyphenBreakPattern matches a word split across a line break with a
	// hyphen, e.g. "ad-\njourned".
	hyphenBreakPattern = regexp.MustCompile(`([A-Za-z])-\n([a-z])`)

	// paragraphRunPattern collapses 3+ newlines to a paragraph break.
	paragraphRunPattern = regexp.MustCompile(`\n{3,}`)

	// softWrapPattern matches a lone newline bordered by non-newlines: a
	// soft line wrap rather than a paragraph break.
	softWrapPattern = regexp.MustCompile(`([^\n])\n([^\n])`)

	// nonASCIIPattern matches encoding artifacts produced by lossy PDF
	// text extraction (smart quotes, dashes, mojibake bytes).
	nonASCIIPattern = regexp.MustCompile(`[^\x00-\x7F]+`)
)

// defaultNoisePatterns is the built-in noise set for the observed statute
// PDFs. Statute-specific profiles may supply additional patterns.
var defaultNoisePatterns = []*regexp.Regexp{
	pageMarkerPattern,
	gazetteHeaderPattern,
	standalonePageNumberPattern,
}

// Normalizer applies the cleaning passes with a configurable noise set.
type Normalizer struct {
	noise []*regexp.Regexp
}

// New creates a Normalizer using the built-in noise patterns plus any extras
// (typically loaded from a statute profile).
func New(extra ...*regexp.Regexp) *Normalizer {
	noise := make([]*regexp.Regexp, 0, len(defaultNoisePatterns)+len(extra))
	noise = append(noise, defaultNoisePatterns...)
	noise = append(noise, extra...)
	return &Normalizer{noise: noise}
}

// Normalize cleans raw with the default noise set. It is deterministic, pure
// and total: text with no matching noise passes through with only whitespace
// normalization.
func Normalize(raw string) string {
	return New().Normalize(raw)
}

// Normalize applies the passes in order: noise removal, separator-run
// removal, whitespace normalization, hyphen and soft-wrap repair, and
// non-ASCII artifact removal. Normalize(Normalize(x)) == Normalize(x).
func (n *Normalizer) Normalize(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")

	// Pass 1: known noise patterns.
	for _, pattern := range n.noise {
		text = pattern.ReplaceAllString(text, "")
	}

	// Pass 2: visual divider runs.
	text = separatorRunPattern.ReplaceAllString(text, "")

	// Pass 3: whitespace normalization.
	text = spaceRunPattern.ReplaceAllString(text, " ")
	text = spaceBeforeNewlinePattern.ReplaceAllString(text, "\n")
	text = spaceAfterNewlinePattern.ReplaceAllString(text, "\n")

	// Pass 4: rejoin hyphenated word splits before soft wraps turn the
	// newline into a space.
	text = hyphenBreakPattern.ReplaceAllString(text, "$1$2")
	text = paragraphRunPattern.ReplaceAllString(text, "\n\n")
	text = replaceSoftWraps(text)

	// Second noise sweep: headers split across a soft wrap only become
	// matchable once the wrap is repaired.
	for _, pattern := range n.noise {
		text = pattern.ReplaceAllString(text, "")
	}

	// Pass 5: encoding artifacts, then re-collapse the spaces they leave.
	// Artifact removal can expose a page-number line (e.g. a Devanagari
	// digit prefix), so that pattern runs once more.
	text = nonASCIIPattern.ReplaceAllString(text, " ")
	text = spaceRunPattern.ReplaceAllString(text, " ")
	text = spaceBeforeNewlinePattern.ReplaceAllString(text, "\n")
	text = spaceAfterNewlinePattern.ReplaceAllString(text, "\n")
	text = standalonePageNumberPattern.ReplaceAllString(text, "")
	text = paragraphRunPattern.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

// replaceSoftWraps turns every lone newline into a space. ReplaceAllString
// cannot see overlapping matches ("a\nb\nc" shares the "b"), so it runs to a
// fixed point; paragraph breaks are never touched.
func replaceSoftWraps(text string) string {
	for {
		replaced := softWrapPattern.ReplaceAllString(text, "$1 $2")
		if replaced == text {
			return replaced
		}
		text = replaced
	}
}
