// Package casefile ingests court judgment documents: it strips aggregator
// boilerplate from the text, pulls out the docket identifier, judgment date
// and court, and records which statute sections the judgment cites.
package casefile

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/lawkit/statuta/pkg/chunk"
	"github.com/lawkit/statuta/pkg/pdftext"
)

// Mention records one statute citation found in a judgment sentence.
type Mention struct {
	Statute string `json:"statute"`
	Section string `json:"section"`
	Context string `json:"context"`
}

// Case is the extracted record for one judgment document.
type Case struct {
	CaseID       string    `json:"case_id"`
	CaseTitle    string    `json:"case_title"`
	JudgmentDate string    `json:"judgment_date"`
	Court        string    `json:"court,omitempty"`
	Mentions     []Mention `json:"statute_mentions"`
}

var (
	aggregatorURLPattern  = regexp.MustCompile(`https?://\S*indiankanoon\S*`)
	aggregatorMarkPattern = regexp.MustCompile(`(?i)\bindian\s+kanoon\b|\bindiankanoon\b`)
	pageNumberLinePattern = regexp.MustCompile(`(?m)^\s*\d+\s*$`)

	monthNames  = `(?:January|February|March|April|May|June|July|August|September|October|November|December)`
	datePattern = regexp.MustCompile(`\b(?:\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|` +
		monthNames + `\s+\d{1,2},?\s+\d{4}|` +
		`\d{1,2}\s+` + monthNames + `,?\s+\d{4})\b`)
	courtPattern = regexp.MustCompile(`\b(?:Supreme Court|High Court|District Court)[^,\n]*`)

	// docketPattern captures an optional registry prefix, the docket number
	// and an optional filing year, e.g. "CRL.A/1 No. 1234 of 2023".
	docketPattern       = regexp.MustCompile(`(?i)\b((?:[A-Z0-9]+(?:\s*[/-]\s*[A-Z0-9]+)?\s+))?No\.?\s*-?\s*(\d+)(?:\s+of\s+(\d{4}))?\b`)
	citationTailPattern = regexp.MustCompile(`(?i)Citation\s*:?\s*$`)

	sectionRefPattern = regexp.MustCompile(`\b(?:Section(?:s)?|Sec\.?)\s*([0-9]+(?:\([^)]+\))?(?:\s*,\s*[0-9]+(?:\([^)]+\))?)*(?:\s*and\s*[0-9]+(?:\([^)]+\))?)?)`)
)

// statutePatterns is ordered so repeated runs report a sentence's mentions
// in the same sequence.
var statutePatterns = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"BNS", regexp.MustCompile(`\bBNS\b|B\.N\.S\.|(?i:bharat(?:i)?ya\s+nyaya\s+sanhita)`)},
	{"BNSS", regexp.MustCompile(`\bBNSS\b|(?i:bharat(?:i)?ya\s+nagarik\s+suraksha\s+sanhita)`)},
	{"BSA", regexp.MustCompile(`\bBSA\b|(?i:bharat(?:i)?ya\s+sakshya\s+adhiniyam)`)},
}

// Clean strips aggregator URLs and watermarks and standalone page-number
// lines from judgment text, then collapses runs of whitespace.
func Clean(text string) string {
	text = aggregatorURLPattern.ReplaceAllString(text, " ")
	text = aggregatorMarkPattern.ReplaceAllString(text, " ")
	text = pageNumberLinePattern.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

// ExtractCaseID finds the first docket-style identifier in the text, such as
// "CRL.A No. - 1234 of 2023". Numbers that follow a "Citation:" label are
// reporter citations, not docket numbers, and are skipped.
func ExtractCaseID(text string) string {
	for _, loc := range docketPattern.FindAllStringSubmatchIndex(text, -1) {
		windowStart := loc[0] - 50
		if windowStart < 0 {
			windowStart = 0
		}
		if citationTailPattern.MatchString(text[windowStart:loc[0]]) {
			continue
		}

		id := "No. - " + group(text, loc, 2)
		if prefix := strings.TrimSpace(group(text, loc, 1)); prefix != "" {
			id = prefix + " " + id
		}
		if year := group(text, loc, 3); year != "" {
			id += " of " + year
		}
		return id
	}
	return ""
}

// group returns the n-th submatch from a FindAllStringSubmatchIndex entry,
// or "" when the group did not participate in the match.
func group(text string, loc []int, n int) string {
	if loc[2*n] < 0 {
		return ""
	}
	return text[loc[2*n]:loc[2*n+1]]
}

// Mentions scans the text sentence by sentence for statute citations. A
// sentence contributes at most one mention per statute; the sentence itself
// is kept as the citation's context, and any section reference in the
// sentence is attached to every statute it names.
func Mentions(text string) []Mention {
	var mentions []Mention
	for _, sentence := range chunk.SplitSentences(text) {
		var section string
		if m := sectionRefPattern.FindStringSubmatch(sentence); m != nil {
			section = "Sections " + strings.TrimSpace(m[1])
		}
		for _, sp := range statutePatterns {
			if !sp.pattern.MatchString(sentence) {
				continue
			}
			mentions = append(mentions, Mention{
				Statute: sp.name,
				Section: section,
				Context: sentence,
			})
		}
	}
	return mentions
}

// TitleFromFilename derives a readable case title from a downloaded
// judgment's file name: the extension, any "_on_<date>" tail and statute
// tags are dropped, and separators become spaces.
func TitleFromFilename(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if i := strings.Index(base, "_on"); i >= 0 {
		base = base[:i]
	}
	base = strings.ReplaceAll(base, "_BNS", "")
	base = strings.ReplaceAll(base, "_", " ")
	return strings.TrimSpace(base)
}

// Extract builds the case record for already-read judgment text.
func Extract(text, title string) *Case {
	cleaned := Clean(text)
	c := &Case{
		CaseID:       ExtractCaseID(cleaned),
		CaseTitle:    title,
		JudgmentDate: datePattern.FindString(cleaned),
		Mentions:     Mentions(cleaned),
	}
	if m := courtPattern.FindString(cleaned); m != "" {
		c.Court = strings.TrimSpace(m)
	}
	return c
}

// ProcessFile reads one judgment document (PDF or plain text) and extracts
// its case record. The title falls back to the file name.
func ProcessFile(path string) (*Case, error) {
	var text string
	var err error
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err = pdftext.ExtractFile(path)
	} else {
		var data []byte
		data, err = os.ReadFile(path)
		text = string(data)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no text extracted from %s", path)
	}
	return Extract(text, TitleFromFilename(path)), nil
}

// Batch holds every case extracted from a directory run plus the documents
// that could not be read.
type Batch struct {
	Cases  []*Case  `json:"cases"`
	Errors []string `json:"errors,omitempty"`
}

// ProcessDirectory extracts a case record from every .pdf and .txt file
// under dir, in path order. Failures are contained per document and reported
// in the batch's error list.
func ProcessDirectory(dir string) (*Batch, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".pdf", ".txt":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	sort.Strings(paths)

	batch := &Batch{}
	for _, path := range paths {
		c, err := ProcessFile(path)
		if err != nil {
			batch.Errors = append(batch.Errors, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		batch.Cases = append(batch.Cases, c)
	}
	return batch, nil
}
