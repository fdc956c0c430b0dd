package mapreduce

import (
	"errors"
	"math"
	"testing"

	"github.com/ahollis/ratingstats/models"
)

func TestAccumulator_Empty(t *testing.T) {
	acc := &Accumulator{}
	_, err := acc.Finalize()
	if !errors.Is(err, ErrNoDocuments) {
		t.Fatalf("Finalize() on empty accumulator: error = %v, want ErrNoDocuments", err)
	}
}

func TestAccumulator_Count(t *testing.T) {
	acc := &Accumulator{}
	acc.Add(models.NewRecord(3.0))
	acc.Add(models.NewRecord(4.0))
	if acc.Count() != 2 {
		t.Errorf("Count() = %d, want 2", acc.Count())
	}
}

func TestAccumulator_IdenticalValues(t *testing.T) {
	acc := &Accumulator{}
	for i := 0; i < 100; i++ {
		acc.Add(models.NewRecord(6.6))
	}

	result, err := acc.Finalize()
	if err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	if math.Abs(result.Mean-6.6) > 1e-12 {
		t.Errorf("Mean = %v, want 6.6", result.Mean)
	}
	// Cancellation can drive the raw variance slightly negative here;
	// the clamp must keep StdDev at a real, non-negative zero.
	if result.StdDev < 0 || math.IsNaN(result.StdDev) {
		t.Errorf("StdDev = %v, want non-negative real", result.StdDev)
	}
	if result.StdDev > 1e-6 {
		t.Errorf("StdDev = %v, want ~0 for identical values", result.StdDev)
	}
}

func TestAccumulator_ClampsNegativeVariance(t *testing.T) {
	// Force Q/n slightly below mean² to exercise the clamp directly.
	acc := &Accumulator{}
	acc.Add(models.Record{Count: 1, Value: 4.0, ValueSquared: 16.0 - 1e-12})

	result, err := acc.Finalize()
	if err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	if result.StdDev != 0 {
		t.Errorf("StdDev = %v, want clamped 0", result.StdDev)
	}
}

func TestAccumulator_NonNegativeStdDev(t *testing.T) {
	values := []float64{1e6, 1e6 + 0.1, 1e6 + 0.2, 1e6 + 0.3}
	acc := &Accumulator{}
	for _, v := range values {
		acc.Add(models.NewRecord(v))
	}

	result, err := acc.Finalize()
	if err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	if result.StdDev < 0 || math.IsNaN(result.StdDev) {
		t.Errorf("StdDev = %v, want non-negative real", result.StdDev)
	}
}
