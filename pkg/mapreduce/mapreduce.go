// Package mapreduce implements the two stages of the rating pipeline:
// Map extracts one Record per JSON document, Reduce folds all Records
// into a single mean/stddev Result.
package mapreduce

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/ahollis/ratingstats/models"
)

var (
	// ErrNoDocuments is returned by the reduce stage when zero records
	// were produced; mean and variance are undefined for an empty set.
	ErrNoDocuments = errors.New("no documents to aggregate")

	// ErrFieldMissing marks a valid JSON document without the rating field.
	ErrFieldMissing = errors.New("rating field missing")

	// ErrFieldNotNumeric marks a rating field that cannot be coerced to float64.
	ErrFieldNotNumeric = errors.New("rating field is not numeric")
)

// Map loads one JSON document and extracts the named rating field as a
// Record. It is a pure function of its inputs: no shared state, safe to
// run from any number of workers concurrently.
//
// Every error is wrapped with the document path so a failed run can name
// the offending file.
func Map(path, field string) (models.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Record{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.Record{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	raw, ok := doc[field]
	if !ok {
		return models.Record{}, fmt.Errorf("%s: %w (%q)", path, ErrFieldMissing, field)
	}

	value, err := coerceFloat(raw)
	if err != nil {
		return models.Record{}, fmt.Errorf("%s: field %q: %w", path, field, err)
	}

	return models.NewRecord(value), nil
}

// coerceFloat accepts JSON numbers and numeric strings. Ratings in the
// wild appear both ways ("7.4" and 7.4); everything else is an error.
func coerceFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrFieldNotNumeric, v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: got %T", ErrFieldNotNumeric, raw)
	}
}

// Reduce folds a slice of Records into a single Result.
func Reduce(records []models.Record) (models.Result, error) {
	acc := &Accumulator{}
	for _, r := range records {
		acc.Add(r)
	}
	return acc.Finalize()
}
