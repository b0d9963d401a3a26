package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lawkit/statuta/pkg/casefile"
	"github.com/lawkit/statuta/pkg/chunk"
	"github.com/lawkit/statuta/pkg/corpus"
	"github.com/lawkit/statuta/pkg/mapping"
	"github.com/lawkit/statuta/pkg/normalize"
	"github.com/lawkit/statuta/pkg/pdftext"
	"github.com/lawkit/statuta/pkg/profile"
	"github.com/lawkit/statuta/pkg/tokenizer"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "statuta",
		Short: "Statute segmentation and chunking pipeline",
		Long: `Statuta turns PDF-extracted statute text into a structured corpus of
numbered sections and token-bounded chunks.

It recovers the chapter/section hierarchy from noisy extracted text,
merges continuation fragments back into their sections, and splits each
section into model-input-sized chunks without breaking sentences unless
a single sentence exceeds the token budget.`,
		Version: version,
	}

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(chunkCmd())
	rootCmd.AddCommand(processCmd())
	rootCmd.AddCommand(corpusCmd())
	rootCmd.AddCommand(mappingCmd())
	rootCmd.AddCommand(casesCmd())
	rootCmd.AddCommand(profilesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadProfile resolves a named profile, loading any profile directory first.
func loadProfile(profilesDir, name string) (*profile.Profile, error) {
	registry := profile.NewRegistry()
	if profilesDir != "" {
		if err := registry.LoadDirectory(profilesDir); err != nil {
			return nil, err
		}
	}
	if name == "" {
		name = "default"
	}
	p, ok := registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown profile %q", name)
	}
	return p, nil
}

// buildTokenizer selects the token-counting collaborator.
func buildTokenizer(encoding string, words bool) (chunk.Tokenizer, error) {
	if words {
		return tokenizer.Words{}, nil
	}
	return tokenizer.NewBPE(encoding)
}

func extractCmd() *cobra.Command {
	var out, profilesDir, profileName, statute string

	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract structured sections from a statute document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProfile(profilesDir, profileName)
			if err != nil {
				return err
			}
			if statute != "" {
				p.Statute = statute
			}

			pipeline := corpus.NewPipeline(p, nil)
			sections, err := pipeline.SegmentFile(args[0])
			if err != nil {
				return err
			}
			if len(sections) == 0 {
				fmt.Fprintf(os.Stderr, "warning: no sections detected in %s\n", args[0])
			}

			if out == "" {
				base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				out = base + "_sections.json"
			}
			if err := corpus.WriteJSON(out, sections); err != nil {
				return err
			}
			fmt.Printf("Extracted %d sections from %s -> %s\n", len(sections), args[0], out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <name>_sections.json)")
	cmd.Flags().StringVar(&profilesDir, "profiles-dir", "", "directory of statute profile YAML files")
	cmd.Flags().StringVar(&profileName, "profile", "default", "statute profile to use")
	cmd.Flags().StringVar(&statute, "statute", "", "statute name override")
	return cmd
}

func chunkCmd() *cobra.Command {
	var out, profilesDir, profileName, encoding string
	var words bool
	var maxTokens, overlap int

	cmd := &cobra.Command{
		Use:   "chunk [sections.json]",
		Short: "Split extracted sections into token-bounded chunks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProfile(profilesDir, profileName)
			if err != nil {
				return err
			}
			if maxTokens > 0 {
				p.Chunking.MaxTokens = maxTokens
			}
			if overlap >= 0 {
				p.Chunking.OverlapWords = overlap
			}

			tok, err := buildTokenizer(encoding, words)
			if err != nil {
				return err
			}

			sections, err := corpus.ReadSections(args[0])
			if err != nil {
				return err
			}

			pipeline := corpus.NewPipeline(p, tok)
			chunks, report := pipeline.ChunkSections(sections)

			if out == "" {
				out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + "_chunks.json"
				out = strings.Replace(out, "_sections_chunks", "_chunks", 1)
			}
			if err := corpus.WriteJSON(out, chunks); err != nil {
				return err
			}

			fmt.Printf("%d sections split into %d chunks -> %s\n", len(sections), len(chunks), out)
			fmt.Printf("Tokens: max: %d, min: %d, avg: %.2f, over limit: %d/%d\n",
				report.MaxTokens, report.MinTokens, report.AvgTokens, report.OverLimit, report.Chunks)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <name>_chunks.json)")
	cmd.Flags().StringVar(&profilesDir, "profiles-dir", "", "directory of statute profile YAML files")
	cmd.Flags().StringVar(&profileName, "profile", "default", "statute profile to use")
	cmd.Flags().StringVar(&encoding, "encoding", "", "BPE encoding name (default cl100k_base)")
	cmd.Flags().BoolVar(&words, "words", false, "measure budgets in word tokens instead of BPE tokens")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "per-chunk token budget override")
	cmd.Flags().IntVar(&overlap, "overlap", -1, "overlap window in words (0 disables)")
	return cmd
}

func processCmd() *cobra.Command {
	var out, profilesDir, profileName, encoding string
	var words bool
	var parallel int

	cmd := &cobra.Command{
		Use:   "process [source-dir]",
		Short: "Run the full pipeline over a directory of statute documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProfile(profilesDir, profileName)
			if err != nil {
				return err
			}
			tok, err := buildTokenizer(encoding, words)
			if err != nil {
				return err
			}

			pipeline := corpus.NewPipeline(p, tok)
			batch, err := pipeline.ProcessDirectory(cmd.Context(), args[0], out, parallel)
			if err != nil {
				return err
			}

			fmt.Printf("Processed %d documents (%d skipped): %d sections, %d chunks -> %s\n",
				batch.Documents, batch.Skipped, batch.Sections, batch.Chunks, out)
			fmt.Printf("Tokens: max: %d, min: %d, avg: %.2f, over limit: %d/%d\n",
				batch.Report.MaxTokens, batch.Report.MinTokens, batch.Report.AvgTokens,
				batch.Report.OverLimit, batch.Report.Chunks)
			for _, e := range batch.Errors {
				fmt.Fprintf(os.Stderr, "skipped: %s\n", e)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "statutes", "output directory")
	cmd.Flags().StringVar(&profilesDir, "profiles-dir", "", "directory of statute profile YAML files")
	cmd.Flags().StringVar(&profileName, "profile", "default", "statute profile to use")
	cmd.Flags().StringVar(&encoding, "encoding", "", "BPE encoding name (default cl100k_base)")
	cmd.Flags().BoolVar(&words, "words", false, "measure budgets in word tokens instead of BPE tokens")
	cmd.Flags().IntVar(&parallel, "parallel", 1, "documents processed concurrently")
	return cmd
}

func corpusCmd() *cobra.Command {
	var out string
	var maxChars, minWords, overlap int

	cmd := &cobra.Command{
		Use:   "corpus [file]",
		Short: "Build a general training corpus with chapter/section attribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readSource(args[0])
			if err != nil {
				return err
			}

			source := filepath.Base(args[0])
			records := corpus.BuildDataset(normalize.Normalize(text), source, corpus.DatasetOptions{
				MaxChunkChars: maxChars,
				MinChunkWords: minWords,
				OverlapWords:  overlap,
			})

			if err := os.MkdirAll(out, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
			jsonlPath := filepath.Join(out, "legal_dataset.jsonl")
			csvPath := filepath.Join(out, "legal_dataset.csv")
			if err := corpus.WriteJSONL(jsonlPath, records); err != nil {
				return err
			}
			if err := corpus.WriteDatasetCSV(csvPath, records); err != nil {
				return err
			}
			fmt.Printf("Dataset created with %d chunks -> %s, %s\n", len(records), jsonlPath, csvPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "dataset", "output directory")
	cmd.Flags().IntVar(&maxChars, "max-chars", 0, "character budget per chunk (default 1000)")
	cmd.Flags().IntVar(&minWords, "min-words", 0, "minimum words per chunk (default 20)")
	cmd.Flags().IntVar(&overlap, "overlap", 0, "overlap window in words (default 25, negative disables)")
	return cmd
}

func mappingCmd() *cobra.Command {
	var out, encoding string
	var words bool
	var limit int
	cols := mapping.DefaultColumns()

	cmd := &cobra.Command{
		Use:   "mapping [comparison.csv]",
		Short: "Convert a cross-statute comparison table to mapping records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			records, err := mapping.FromCSV(f, cols)
			if err != nil {
				return err
			}
			if out == "" {
				out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + "_mapping.json"
			}
			if err := corpus.WriteJSON(out, records); err != nil {
				return err
			}
			fmt.Printf("Converted %d mapping records -> %s\n", len(records), out)

			tok, err := buildTokenizer(encoding, words)
			if err != nil {
				return err
			}
			for _, o := range mapping.AuditTokens(records, tok, limit) {
				fmt.Fprintf(os.Stderr, "over limit (%d tokens): %s -> %s\n",
					o.Tokens, o.Record.OldSection, o.Record.NewSection)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <name>_mapping.json)")
	cmd.Flags().StringVar(&encoding, "encoding", "", "BPE encoding name (default cl100k_base)")
	cmd.Flags().BoolVar(&words, "words", false, "measure records in word tokens instead of BPE tokens")
	cmd.Flags().IntVar(&limit, "limit", 510, "token limit per record for the audit")
	cmd.Flags().StringVar(&cols.NewSection, "new-col", cols.NewSection, "header of the new-statute section column")
	cmd.Flags().StringVar(&cols.OldSection, "old-col", cols.OldSection, "header of the old-statute section column")
	cmd.Flags().StringVar(&cols.Subject, "subject-col", cols.Subject, "header of the subject column")
	cmd.Flags().StringVar(&cols.Summary, "summary-col", cols.Summary, "header of the summary column")
	return cmd
}

func casesCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "cases [file-or-directory]",
		Short: "Extract case records from court judgment documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := os.Stat(args[0])
			if err != nil {
				return err
			}

			var cases []*casefile.Case
			if info.IsDir() {
				batch, err := casefile.ProcessDirectory(args[0])
				if err != nil {
					return err
				}
				for _, e := range batch.Errors {
					fmt.Fprintf(os.Stderr, "skipped: %s\n", e)
				}
				cases = batch.Cases
			} else {
				c, err := casefile.ProcessFile(args[0])
				if err != nil {
					return err
				}
				cases = []*casefile.Case{c}
			}

			if err := corpus.WriteJSON(out, cases); err != nil {
				return err
			}
			fmt.Printf("Extracted %d case records -> %s\n", len(cases), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "case_records.json", "output file")
	return cmd
}

func profilesCmd() *cobra.Command {
	var profilesDir string

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List available statute profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := profile.NewRegistry()
			if profilesDir != "" {
				if err := registry.LoadDirectory(profilesDir); err != nil {
					return err
				}
			}
			for _, p := range registry.List() {
				fmt.Printf("%-12s statute=%q marker_digits=%d max_section=%d budget=%d %s\n",
					p.Name, p.Statute, p.MarkerDigits, p.MaxSection,
					p.Chunking.MaxTokens, p.Chunking.BudgetUnit)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profilesDir, "profiles-dir", "", "directory of statute profile YAML files")
	return cmd
}

// readSource reads a text or PDF source document.
func readSource(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return pdftext.ExtractFile(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
