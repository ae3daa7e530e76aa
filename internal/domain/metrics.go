package domain

import "time"

// MetricKind enumerates the exposition types a sample can take.
type MetricKind string

const (
	// Gauge represents a floating-point value that can move up or down.
	Gauge MetricKind = "gauge"
	// Counter represents a monotonically increasing value.
	Counter MetricKind = "counter"
	// Info represents a constant 1 whose payload lives in its labels.
	Info MetricKind = "info"
)

// Sample is one flattened metric observation.
type Sample struct {
	Labels map[string]string
	Name   string
	Kind   MetricKind
	Value  float64
}

// Snapshot is the complete, immutable output of one successful collection
// cycle. It replaces the previous snapshot as a whole; readers never see a
// mix of two cycles.
type Snapshot struct {
	CollectedAt time.Time
	Err         ErrorKind
	Samples     []Sample
	Sequence    uint64
	Success     bool
}
