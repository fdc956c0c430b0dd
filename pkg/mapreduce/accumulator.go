package mapreduce

import (
	"math"

	"github.com/ahollis/ratingstats/models"
)

// Accumulator holds the sufficient statistics for a one-pass mean and
// variance: count, sum, and sum of squares. The fold is associative and
// commutative over Records, so any completion order from the map stage
// yields the same Result up to float summation order.
type Accumulator struct {
	n          int
	sum        float64
	sumSquared float64
}

// Add folds one record into the running sums.
func (a *Accumulator) Add(r models.Record) {
	a.n += r.Count
	a.sum += r.Value
	a.sumSquared += r.ValueSquared
}

// Count reports how many records have been folded so far.
func (a *Accumulator) Count() int {
	return a.n
}

// Finalize derives the mean and standard deviation from the running sums.
// Returns ErrNoDocuments when nothing was folded. A negative variance from
// floating-point cancellation is clamped to zero, so StdDev is never NaN.
func (a *Accumulator) Finalize() (models.Result, error) {
	if a.n == 0 {
		return models.Result{}, ErrNoDocuments
	}

	n := float64(a.n)
	mean := a.sum / n
	variance := a.sumSquared/n - mean*mean
	if variance < 0 {
		variance = 0
	}

	return models.Result{Mean: mean, StdDev: math.Sqrt(variance)}, nil
}
