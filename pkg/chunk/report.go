package chunk

// Report is a post-hoc audit of emitted chunks against the token budget. The
// greedy splitter's reserve constant is a heuristic, not a proof, so the
// pipeline re-measures every chunk for regression reporting.
type Report struct {
	Chunks    int     `json:"chunks"`
	Measured  int     `json:"measured"`
	MaxTokens int     `json:"max_tokens"`
	MinTokens int     `json:"min_tokens"`
	AvgTokens float64 `json:"avg_tokens"`
	OverLimit int     `json:"over_limit"`
}

// Audit measures each chunk with the tokenizer and reports the token-length
// distribution and the number of chunks over the limit. Chunks the tokenizer
// cannot measure count as over the limit and are excluded from the
// distribution stats.
func Audit(chunks []string, tokenizer Tokenizer, limit int) Report {
	report := Report{Chunks: len(chunks)}
	if len(chunks) == 0 {
		return report
	}

	total := 0
	report.MinTokens = -1
	for _, chunk := range chunks {
		count, err := tokenizer.Count(chunk)
		if err != nil {
			report.OverLimit++
			continue
		}
		report.Measured++
		total += count
		if count > report.MaxTokens {
			report.MaxTokens = count
		}
		if report.MinTokens < 0 || count < report.MinTokens {
			report.MinTokens = count
		}
		if count > limit {
			report.OverLimit++
		}
	}
	if report.MinTokens < 0 {
		report.MinTokens = 0
	}
	if report.Measured > 0 {
		report.AvgTokens = float64(total) / float64(report.Measured)
	}
	return report
}

// Merge combines two reports into additive aggregate statistics. The average
// is recomputed from the combined measured totals.
func (r Report) Merge(other Report) Report {
	merged := Report{
		Chunks:    r.Chunks + other.Chunks,
		Measured:  r.Measured + other.Measured,
		OverLimit: r.OverLimit + other.OverLimit,
		MaxTokens: r.MaxTokens,
		MinTokens: r.MinTokens,
	}
	if other.MaxTokens > merged.MaxTokens {
		merged.MaxTokens = other.MaxTokens
	}
	if r.Measured == 0 || (other.Measured > 0 && other.MinTokens < merged.MinTokens) {
		merged.MinTokens = other.MinTokens
	}
	if merged.Measured > 0 {
		merged.AvgTokens = (r.AvgTokens*float64(r.Measured) + other.AvgTokens*float64(other.Measured)) / float64(merged.Measured)
	}
	return merged
}
