// Package segment recovers the chapter/section structure of a statute from
// cleaned text. Detection is regex-driven; the correctness-critical part is
// the non-monotonic merge rule that folds cross-references, illustrations and
// explanatory clauses back into the section they belong to.
package segment

import (
	"regexp"
	"strconv"
	"strings"
)

// Chapter labels used when the document structure is degenerate.
const (
	// PreliminaryChapter labels text preceding the first chapter marker.
	PreliminaryChapter = "Preliminary"
	// EntireDocument labels a document with no chapter markers at all.
	EntireDocument = "Entire Document"
)

// Chapter is a detected chapter heading and its raw text span.
type Chapter struct {
	Title string
	Text  string
}

// Section is the atomic structured unit of a statute. Number is a string
// because markers like "36A" are legitimate; it is advisory for display and
// lookup and is not guaranteed strictly increasing.
type Section struct {
	Number  string `json:"section_number"`
	Content string `json:"content"`
	Chapter string `json:"chapter,omitempty"`
	Statute string `json:"statute"`
}

// Decision is the action the merge policy chooses for a detected marker.
type Decision int

const (
	// Emit starts a new section at this marker.
	Emit Decision = iota
	// Merge appends the marker's content to the last emitted section.
	Merge
	// Discard drops the marker and its content as noise.
	Discard
)

// MergePolicy decides how to treat a marker given its numeric value, the
// numeric value of the last genuinely emitted section in this chapter, and
// the configured maximum valid section number (0 = unbounded). It exists as
// a standalone function type so the heuristic can be tested, and replaced,
// in isolation.
type MergePolicy func(current, previous, maxSection int) Decision

// DefaultMergePolicy treats a strictly increasing marker as a genuine new
// section; anything less than or equal to the previous value is a
// continuation fragment merged into the preceding section. Markers above
// maxSection are clearly spurious and discarded outright. This trades rare
// genuine out-of-order sections for robustness against the dominant failure
// mode: tables, footnotes and cross-references containing small numbers.
func DefaultMergePolicy(current, previous, maxSection int) Decision {
	if maxSection > 0 && current > maxSection {
		return Discard
	}
	if current > previous {
		return Emit
	}
	return Merge
}

var (
	// defaultChapterPattern matches chapter headings like "CHAPTER I" or
	// "CHAPTERII" (OCR drops the space often enough to matter).
	// The word is matched case-insensitively but the numeral must be
	// uppercase, so prose like "chapter vi" does not split the document.
	defaultChapterPattern = regexp.MustCompile(`(?i:CHAPTER)\s*[IVXLCDM]+`)

	// markerPattern matches a candidate section marker: 1-4 digits, an
	// optional uppercase letter suffix ("36A."), then a period. Go's
	// regexp has no lookbehind, so the "not preceded by non-whitespace"
	// constraint is checked against the byte before each match.
	markerPattern = regexp.MustCompile(`(\d{1,4})([A-Z]?)\.`)
)

// Segmenter detects chapter and section boundaries in statute text.
type Segmenter struct {
	chapterPattern *regexp.Regexp
	markerDigits   int
	maxSection     int
	policy         MergePolicy
}

// NewSegmenter creates a Segmenter with the default chapter pattern, 3-digit
// section markers, no section-number bound, and the default merge policy.
func NewSegmenter() *Segmenter {
	return &Segmenter{
		chapterPattern: defaultChapterPattern,
		markerDigits:   3,
		policy:         DefaultMergePolicy,
	}
}

// SetMarkerDigits sets the maximum digit width of a section marker (3 for
// most statutes, 4 for very large ones). Values outside 1..4 are ignored.
func (s *Segmenter) SetMarkerDigits(width int) {
	if width >= 1 && width <= 4 {
		s.markerDigits = width
	}
}

// SetMaxSection sets the known maximum valid section number for the statute.
// Markers above it are discarded as spurious. Zero disables the bound.
func (s *Segmenter) SetMaxSection(max int) {
	if max >= 0 {
		s.maxSection = max
	}
}

// SetChapterPattern overrides the chapter heading pattern.
func (s *Segmenter) SetChapterPattern(pattern *regexp.Regexp) {
	if pattern != nil {
		s.chapterPattern = pattern
	}
}

// SetMergePolicy replaces the marker merge heuristic.
func (s *Segmenter) SetMergePolicy(policy MergePolicy) {
	if policy != nil {
		s.policy = policy
	}
}

// Segment splits text into chapters and each chapter into sections, returning
// one flat sequence in first-detected order. Each section carries its owning
// chapter title and the statute name.
func (s *Segmenter) Segment(text, statute string) []Section {
	var sections []Section
	for _, chapter := range s.SplitChapters(text) {
		sections = append(sections, s.SegmentChapter(chapter, statute)...)
	}
	return sections
}

// SplitChapters splits text at chapter markers. Text before the first marker
// becomes a "Preliminary" chapter if non-empty; a document with no markers
// yields exactly one "Entire Document" chapter spanning the whole text.
func (s *Segmenter) SplitChapters(text string) []Chapter {
	locs := s.chapterPattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []Chapter{{Title: EntireDocument, Text: text}}
	}

	var chapters []Chapter
	if preliminary := strings.TrimSpace(text[:locs[0][0]]); preliminary != "" {
		chapters = append(chapters, Chapter{Title: PreliminaryChapter, Text: preliminary})
	}
	for i, loc := range locs {
		title := strings.TrimSpace(text[loc[0]:loc[1]])
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		chapters = append(chapters, Chapter{
			Title: title,
			Text:  strings.TrimSpace(text[loc[1]:end]),
		})
	}
	return chapters
}

// SegmentChapter scans one chapter's text for section markers and applies the
// merge policy as a fold over the markers in text order. The accumulator (the
// last genuinely emitted section number) starts at zero for every chapter.
func (s *Segmenter) SegmentChapter(chapter Chapter, statute string) []Section {
	markers := s.findMarkers(chapter.Text)

	var sections []Section
	previous := 0
	for i, marker := range markers {
		end := len(chapter.Text)
		if i+1 < len(markers) {
			end = markers[i+1].start
		}
		content := strings.TrimSpace(chapter.Text[marker.contentStart:end])

		switch s.policy(marker.value, previous, s.maxSection) {
		case Emit:
			sections = append(sections, Section{
				Number:  marker.number,
				Content: content,
				Chapter: chapter.Title,
				Statute: statute,
			})
			previous = marker.value
		case Merge:
			if len(sections) == 0 {
				// Nothing to merge into; start a section but do
				// not advance the accumulator, so the scan keeps
				// waiting for a truly larger number.
				sections = append(sections, Section{
					Number:  marker.number,
					Content: content,
					Chapter: chapter.Title,
					Statute: statute,
				})
				continue
			}
			sections[len(sections)-1].Content += " " + content
		case Discard:
			// Spurious match; content dropped.
		}
	}
	return sections
}

// marker is one detected section marker occurrence.
type marker struct {
	number       string // display form, e.g. "36A"
	value        int    // numeric part, e.g. 36
	start        int    // offset of the first digit
	contentStart int    // offset just past the period
}

// findMarkers locates section markers in text, keeping only matches at a
// token start (beginning of text or preceded by whitespace) and within the
// configured digit width.
func (s *Segmenter) findMarkers(text string) []marker {
	matches := markerPattern.FindAllStringSubmatchIndex(text, -1)
	markers := make([]marker, 0, len(matches))
	for _, m := range matches {
		start := m[0]
		if start > 0 && !isSpace(text[start-1]) {
			continue
		}
		digits := text[m[2]:m[3]]
		if len(digits) > s.markerDigits {
			continue
		}
		value, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		number := digits
		if m[4] >= 0 {
			number += text[m[4]:m[5]]
		}
		markers = append(markers, marker{
			number:       number,
			value:        value,
			start:        start,
			contentStart: m[1],
		})
	}
	return markers
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
