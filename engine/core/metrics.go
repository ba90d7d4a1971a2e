package core

import "sync/atomic"

// MetricsState counts what the binding system did since start-up.
type MetricsState struct {
	PlansBuilt        atomic.Uint64
	MissingAttributes atomic.Uint64
	FormatMismatches  atomic.Uint64
	SetMismatches     atomic.Uint64
	Submissions       atomic.Uint64
	SetsFlattened     atomic.Uint64
	VerticesSubmitted atomic.Uint64
}

var metricsState MetricsState

func Metrics() *MetricsState {
	return &metricsState
}

// MetricsSnapshot is a plain copy of MetricsState.
type MetricsSnapshot struct {
	PlansBuilt        uint64
	MissingAttributes uint64
	FormatMismatches  uint64
	SetMismatches     uint64
	Submissions       uint64
	SetsFlattened     uint64
	VerticesSubmitted uint64
}

func MetricsSnapshotNow() MetricsSnapshot {
	return MetricsSnapshot{
		PlansBuilt:        metricsState.PlansBuilt.Load(),
		MissingAttributes: metricsState.MissingAttributes.Load(),
		FormatMismatches:  metricsState.FormatMismatches.Load(),
		SetMismatches:     metricsState.SetMismatches.Load(),
		Submissions:       metricsState.Submissions.Load(),
		SetsFlattened:     metricsState.SetsFlattened.Load(),
		VerticesSubmitted: metricsState.VerticesSubmitted.Load(),
	}
}
