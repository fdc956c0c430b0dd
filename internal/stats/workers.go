package stats

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/ahollis/ratingstats/models"
	"github.com/ahollis/ratingstats/pkg/mapreduce"
	"github.com/ahollis/ratingstats/pkg/scanner"
)

// Job defines one document for a worker to extract.
type Job struct {
	Index int
	Path  string
}

// Result holds the outcome of one extraction. Index ties it back to the
// discovered file list so collection is order-stable regardless of which
// worker finishes first.
type Result struct {
	Index  int
	Path   string
	Record models.Record
	Err    error
}

// Failure describes one document that could not be extracted.
type Failure struct {
	Path      string
	ErrorType string
	Err       error
}

// Summary is the outcome of a whole run. Result is nil when the run
// produced no statistics (fail-fast abort or nothing valid to fold).
type Summary struct {
	Result       *models.Result
	FileCount    int
	SuccessCount int
	Failures     []Failure
	Duration     time.Duration
}

// worker pulls jobs until the channel closes. Extraction is a pure
// function of the document, so workers share nothing but the channels.
func worker(id int, logger *slog.Logger, field string, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result) {
	defer wg.Done()
	for job := range jobs {
		record, err := mapreduce.Map(job.Path, field)
		if err != nil {
			logger.Error("Extraction failed", "worker_id", id, "path", job.Path, "error", err)
			results <- Result{Index: job.Index, Path: job.Path, Err: err}
			continue
		}
		results <- Result{Index: job.Index, Path: job.Path, Record: record}
	}
}

// run executes the full pipeline: discover documents, fan extraction out
// to a bounded worker pool, wait at the collection barrier, then fold the
// records sequentially. With SkipBad unset any bad document fails the run,
// with the error naming the first offending file in list order.
func run(logger *slog.Logger, config *models.RunConfig) (*Summary, error) {
	start := time.Now()

	files, err := scanner.Scan(config.Root)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", config.Root, mapreduce.ErrNoDocuments)
	}

	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	if workerCount > len(files) {
		workerCount = len(files)
	}
	logger.Info("Starting extraction phase", "file_count", len(files), "workers", workerCount, "field", config.Field)

	var wg sync.WaitGroup
	jobs := make(chan Job, len(files))
	results := make(chan Result, len(files))

	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go worker(w, logger, config.Field, &wg, jobs, results)
	}

	for i, path := range files {
		jobs <- Job{Index: i, Path: path}
	}
	close(jobs)

	wg.Wait()
	close(results)
	logger.Info("All extraction workers finished")

	// Re-order by job index so failures report deterministically.
	ordered := make([]Result, len(files))
	for result := range results {
		ordered[result.Index] = result
	}

	summary := &Summary{FileCount: len(files)}
	acc := &mapreduce.Accumulator{}
	for _, result := range ordered {
		if result.Err != nil {
			summary.Failures = append(summary.Failures, Failure{
				Path:      result.Path,
				ErrorType: classifyError(result.Err),
				Err:       result.Err,
			})
			continue
		}
		acc.Add(result.Record)
	}
	summary.SuccessCount = acc.Count()
	summary.Duration = time.Since(start)

	if len(summary.Failures) > 0 && !config.SkipBad {
		first := summary.Failures[0]
		return summary, fmt.Errorf("extraction failed (%d of %d documents): %w", len(summary.Failures), len(files), first.Err)
	}

	logger.Info("Starting reduce phase", "records", summary.SuccessCount, "skipped", len(summary.Failures))
	finalResult, err := acc.Finalize()
	if err != nil {
		// Every document was skipped; nothing to aggregate.
		return summary, fmt.Errorf("%s: %w", config.Root, err)
	}

	summary.Result = &finalResult
	summary.Duration = time.Since(start)
	return summary, nil
}

// classifyError buckets an extraction error for run-history storage.
func classifyError(err error) string {
	switch {
	case errors.Is(err, mapreduce.ErrFieldMissing), errors.Is(err, mapreduce.ErrFieldNotNumeric):
		return "field_error"
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return "read_error"
	default:
		return "parse_error"
	}
}
