package visualizer

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/ironsheep/page-overlay/internal/config"
	"github.com/ironsheep/page-overlay/internal/logging"
	"github.com/ironsheep/page-overlay/internal/pagexml"
	"github.com/ironsheep/page-overlay/internal/report"
)

// BatchResult collects the records of every document that succeeded, sorted
// by filename.
type BatchResult struct {
	Counts    []pagexml.CountRecord
	Sequences []pagexml.SequenceRecord
	Succeeded int
	Total     int
}

// DocumentNames lists the names of the XML documents in dir, sorted.
func DocumentNames(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.xml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(filepath.Base(m), ".xml"))
	}
	slices.Sort(names)
	return names, nil
}

// RunBatch processes every document in cfg.XMLDir on a pool of
// cfg.WorkerCount() goroutines. Each worker has its own Processor.
//
// A document that fails, or panics, is logged and left out of the result.
// Results are gathered only after every worker has finished.
func RunBatch(cfg *config.Config, opts Options) (*BatchResult, error) {
	names, err := DocumentNames(cfg.XMLDir)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, ErrNoDocuments
	}

	workers := cfg.WorkerCount()
	if workers > len(names) {
		workers = len(names)
	}
	logging.Infof("Processing %d files with %d workers...", len(names), workers)

	jobs := make(chan string)
	results := make(chan *Result, len(names))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		proc, err := New(cfg)
		if err != nil {
			close(jobs)
			wg.Wait()
			return nil, err
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer proc.Close()
			for name := range jobs {
				res, err := processSafely(proc, name, opts)
				if err != nil {
					logging.Errorf("Error processing %s: %v", name, err)
					continue
				}
				results <- res
			}
		}()
	}

	for _, name := range names {
		jobs <- name
	}
	close(jobs)
	wg.Wait()
	close(results)

	br := &BatchResult{Total: len(names)}
	for res := range results {
		br.Succeeded++
		if res.Counts != nil {
			br.Counts = append(br.Counts, *res.Counts)
		}
		br.Sequences = append(br.Sequences, res.Sequence)
	}
	report.SortCounts(br.Counts)
	report.SortSequences(br.Sequences)

	logging.Infof("Processed %d of %d files successfully", br.Succeeded, br.Total)
	return br, nil
}

func processSafely(proc *Processor, name string, opts Options) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return proc.Process(name, opts)
}
