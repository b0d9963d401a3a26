package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/lawkit/statuta/pkg/chunk"
)

// BatchResult aggregates a directory run. The counters are purely additive,
// so document completion order does not matter.
type BatchResult struct {
	Documents int          `json:"documents"`
	Skipped   int          `json:"skipped"`
	Sections  int          `json:"sections"`
	Chunks    int          `json:"chunks"`
	Report    chunk.Report `json:"report"`
	Errors    []string     `json:"errors,omitempty"`
}

// documentOutcome carries one document's result or failure back from a
// worker.
type documentOutcome struct {
	path     string
	result   *Result
	sections string
	chunks   string
	err      error
}

// ProcessDirectory runs the pipeline over every .txt and .pdf file in
// sourceDir, writing <name>_sections.json and <name>_chunks.json into outDir.
// Documents are independent, so up to workers of them run concurrently; a
// document that fails is recorded and skipped. ctx aborts the run between
// documents.
func (pl *Pipeline) ProcessDirectory(ctx context.Context, sourceDir, outDir string, workers int) (*BatchResult, error) {
	paths, err := listSources(sourceDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) && len(paths) > 0 {
		workers = len(paths)
	}

	jobs := make(chan string)
	outcomes := make(chan documentOutcome)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				outcomes <- pl.processOne(path, outDir)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, path := range paths {
			select {
			case <-ctx.Done():
				return
			case jobs <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	batch := &BatchResult{}
	for outcome := range outcomes {
		if outcome.err != nil {
			batch.Skipped++
			batch.Errors = append(batch.Errors, fmt.Sprintf("%s: %v", outcome.path, outcome.err))
			continue
		}
		batch.Documents++
		batch.Sections += len(outcome.result.Sections)
		batch.Chunks += len(outcome.result.Chunks)
		batch.Report = batch.Report.Merge(outcome.result.Report)
	}
	sort.Strings(batch.Errors)

	if err := ctx.Err(); err != nil {
		return batch, err
	}
	return batch, nil
}

// processOne runs the pipeline on a single file and writes its records.
func (pl *Pipeline) processOne(path, outDir string) documentOutcome {
	outcome := documentOutcome{path: path}

	result, err := pl.ProcessFile(path)
	if err != nil {
		outcome.err = err
		return outcome
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outcome.sections = filepath.Join(outDir, base+"_sections.json")
	outcome.chunks = filepath.Join(outDir, base+"_chunks.json")

	if err := WriteJSON(outcome.sections, result.Sections); err != nil {
		outcome.err = err
		return outcome
	}
	if err := WriteJSON(outcome.chunks, result.Chunks); err != nil {
		outcome.err = err
		return outcome
	}
	outcome.result = result
	return outcome
}

// listSources returns the processable files in dir, sorted by name.
func listSources(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading source directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".txt", ".text", ".pdf":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
