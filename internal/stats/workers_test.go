package stats

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ahollis/ratingstats/models"
	"github.com/ahollis/ratingstats/pkg/mapreduce"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeDocs(t *testing.T, root string, values []float64) {
	t.Helper()
	for i, v := range values {
		dir := root
		if i%2 == 1 {
			dir = filepath.Join(root, "sub")
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		doc := fmt.Sprintf(`{"movieIMDbRating": %g, "movieTitle": "m%d"}`, v, i)
		path := filepath.Join(dir, fmt.Sprintf("doc%03d.json", i))
		if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
			t.Fatalf("failed to write doc: %v", err)
		}
	}
}

func runConfig(root string, workers int) *models.RunConfig {
	return &models.RunConfig{
		Root:        root,
		Field:       "movieIMDbRating",
		WorkerCount: workers,
	}
}

func TestRun_TextbookDistribution(t *testing.T) {
	root := t.TempDir()
	writeDocs(t, root, []float64{2, 4, 4, 4, 5, 5, 7, 9})

	summary, err := run(testLogger(), runConfig(root, 4))
	if err != nil {
		t.Fatalf("run() failed: %v", err)
	}

	if summary.FileCount != 8 || summary.SuccessCount != 8 {
		t.Errorf("counts = %d/%d, want 8/8", summary.SuccessCount, summary.FileCount)
	}
	if math.Abs(summary.Result.Mean-5.0) > 1e-12 {
		t.Errorf("Mean = %v, want 5.0", summary.Result.Mean)
	}
	if math.Abs(summary.Result.StdDev-2.0) > 1e-12 {
		t.Errorf("StdDev = %v, want 2.0", summary.Result.StdDev)
	}
}

func TestRun_SingleDocument(t *testing.T) {
	root := t.TempDir()
	writeDocs(t, root, []float64{7.3})

	summary, err := run(testLogger(), runConfig(root, 2))
	if err != nil {
		t.Fatalf("run() failed: %v", err)
	}
	if summary.Result.Mean != 7.3 {
		t.Errorf("Mean = %v, want 7.3", summary.Result.Mean)
	}
	if summary.Result.StdDev != 0 {
		t.Errorf("StdDev = %v, want 0", summary.Result.StdDev)
	}
}

func TestRun_ParallelismInvariance(t *testing.T) {
	root := t.TempDir()
	values := []float64{1.5, 2.5, 3.5, 4.5, 5.5, 6.5, 7.5, 8.5, 9.5}
	writeDocs(t, root, values)

	var results []models.Result
	for _, workers := range []int{1, 2, len(values)} {
		summary, err := run(testLogger(), runConfig(root, workers))
		if err != nil {
			t.Fatalf("run() with %d workers failed: %v", workers, err)
		}
		results = append(results, *summary.Result)
	}

	for i := 1; i < len(results); i++ {
		if math.Abs(results[i].Mean-results[0].Mean) > 1e-9*math.Abs(results[0].Mean) {
			t.Errorf("Mean varies with pool size: %v vs %v", results[i].Mean, results[0].Mean)
		}
		if math.Abs(results[i].StdDev-results[0].StdDev) > 1e-9 {
			t.Errorf("StdDev varies with pool size: %v vs %v", results[i].StdDev, results[0].StdDev)
		}
	}
}

func TestRun_EmptyTree(t *testing.T) {
	_, err := run(testLogger(), runConfig(t.TempDir(), 2))
	if !errors.Is(err, mapreduce.ErrNoDocuments) {
		t.Fatalf("run() on empty tree: error = %v, want ErrNoDocuments", err)
	}
}

func TestRun_MissingRoot(t *testing.T) {
	_, err := run(testLogger(), runConfig(filepath.Join(t.TempDir(), "nope"), 2))
	if err == nil {
		t.Fatal("run() on missing root succeeded, want error")
	}
}

func TestRun_FailFastNamesDocument(t *testing.T) {
	root := t.TempDir()
	writeDocs(t, root, []float64{4, 5, 6})
	badPath := filepath.Join(root, "broken.json")
	if err := os.WriteFile(badPath, []byte(`{"movieTitle": "no rating"}`), 0644); err != nil {
		t.Fatalf("failed to write bad doc: %v", err)
	}

	summary, err := run(testLogger(), runConfig(root, 2))
	if err == nil {
		t.Fatal("run() with a bad document succeeded, want error")
	}
	if !errors.Is(err, mapreduce.ErrFieldMissing) {
		t.Errorf("error = %v, want ErrFieldMissing", err)
	}
	if !strings.Contains(err.Error(), badPath) {
		t.Errorf("error %q does not name the bad document", err)
	}
	if summary == nil || summary.Result != nil {
		t.Error("fail-fast run should report a summary without a result")
	}
}

func TestRun_SkipBad(t *testing.T) {
	root := t.TempDir()
	writeDocs(t, root, []float64{2, 4, 4, 4, 5, 5, 7, 9})
	if err := os.WriteFile(filepath.Join(root, "broken.json"), []byte(`{oops`), 0644); err != nil {
		t.Fatalf("failed to write bad doc: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "unrated.json"), []byte(`{"movieTitle": "x"}`), 0644); err != nil {
		t.Fatalf("failed to write bad doc: %v", err)
	}

	config := runConfig(root, 3)
	config.SkipBad = true

	summary, err := run(testLogger(), config)
	if err != nil {
		t.Fatalf("run() with skip-bad failed: %v", err)
	}

	if summary.SuccessCount != 8 || len(summary.Failures) != 2 {
		t.Fatalf("got %d ok / %d failed, want 8/2", summary.SuccessCount, len(summary.Failures))
	}
	if math.Abs(summary.Result.Mean-5.0) > 1e-12 {
		t.Errorf("Mean = %v, want 5.0 over the valid subset", summary.Result.Mean)
	}
	if math.Abs(summary.Result.StdDev-2.0) > 1e-12 {
		t.Errorf("StdDev = %v, want 2.0 over the valid subset", summary.Result.StdDev)
	}

	types := map[string]int{}
	for _, f := range summary.Failures {
		types[f.ErrorType]++
	}
	if types["parse_error"] != 1 || types["field_error"] != 1 {
		t.Errorf("failure classification = %v, want one parse_error and one field_error", types)
	}
}

func TestRun_SkipBadAllFailed(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "broken.json"), []byte(`{oops`), 0644); err != nil {
		t.Fatalf("failed to write bad doc: %v", err)
	}

	config := runConfig(root, 1)
	config.SkipBad = true

	_, err := run(testLogger(), config)
	if !errors.Is(err, mapreduce.ErrNoDocuments) {
		t.Fatalf("run() with every document skipped: error = %v, want ErrNoDocuments", err)
	}
}
