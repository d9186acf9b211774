package pipeline

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/spendwise/internal/source"
	"github.com/theirongolddev/spendwise/internal/store"
)

// ImportResult summarizes one import run.
type ImportResult struct {
	TotalFiles  int
	ParsedFiles int
	Unchanged   int
	FileErrors  int
	ParseErrors int
	Imported    int
}

// ProgressFunc is called during import to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Import discovers expense files under dir, parses those that changed since
// the last run with a bounded worker pool, and saves their expenses.
func Import(dir string, st *store.Store, progressFn ProgressFunc) (*ImportResult, error) {
	files, err := source.ScanDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	result := &ImportResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	tracked, err := st.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading import tracker: %w", err)
	}
	categories, err := st.GetCategories()
	if err != nil {
		return nil, fmt.Errorf("reading categories: %w", err)
	}

	// Diff: only files whose mtime or size moved are parsed again
	type pending struct {
		file    source.DiscoveredFile
		mtimeNs int64
		size    int64
	}
	var toParse []pending
	for _, f := range files {
		info, err := os.Stat(f.Path)
		if err != nil {
			result.FileErrors++
			continue
		}
		prev, ok := tracked[f.Path]
		if ok && prev.MtimeNs == info.ModTime().UnixNano() && prev.SizeBytes == info.Size() {
			result.Unchanged++
			continue
		}
		toParse = append(toParse, pending{file: f, mtimeNs: info.ModTime().UnixNano(), size: info.Size()})
	}

	if len(toParse) == 0 {
		return result, nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(toParse) {
		numWorkers = len(toParse)
	}

	work := make(chan int, len(toParse))
	results := make([]source.ParseResult, len(toParse))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range toParse {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(toParse[idx].file, categories)
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n)+result.Unchanged, result.TotalFiles)
				}
			}
		}()
	}

	wg.Wait()

	// SQLite serializes writers, so saving stays on this goroutine.
	for i, pr := range results {
		if pr.Err != nil {
			result.FileErrors++
			continue
		}
		result.ParsedFiles++
		result.ParseErrors += pr.ParseErrors

		if err := st.SaveExpenses(pr.Expenses); err != nil {
			return result, fmt.Errorf("saving %s: %w", toParse[i].file.Path, err)
		}
		result.Imported += len(pr.Expenses)

		if err := st.TrackFile(toParse[i].file.Path, toParse[i].mtimeNs, toParse[i].size); err != nil {
			return result, fmt.Errorf("tracking %s: %w", toParse[i].file.Path, err)
		}
	}

	return result, nil
}
