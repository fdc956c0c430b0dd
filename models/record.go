package models

// Record is the fixed-shape output of the map stage: one document
// contributes a unit count, its rating, and the rating squared.
// Carrying the square forward lets the reduce stage compute variance
// in a single pass (variance = E[x²] - E[x]²) without revisiting values.
type Record struct {
	Count        int
	Value        float64
	ValueSquared float64
}

// NewRecord builds the record for one extracted rating.
// ValueSquared is always derived here, never supplied independently.
func NewRecord(value float64) Record {
	return Record{Count: 1, Value: value, ValueSquared: value * value}
}

// Result is the final output of the reduce stage.
type Result struct {
	Mean   float64
	StdDev float64
}
