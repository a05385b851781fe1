package graph

import "errors"

var (
	// ErrNilJob is returned when a nil job is added.
	ErrNilJob = errors.New("job is nil")

	// ErrDuplicateJob is returned when a job ID is added twice.
	ErrDuplicateJob = errors.New("duplicate job id")

	// ErrUnknownJob is returned when an edge references a job not in the graph.
	ErrUnknownJob = errors.New("unknown job id")

	// ErrSelfDependency is returned when a job depends on itself.
	ErrSelfDependency = errors.New("job cannot depend on itself")

	// ErrCycle is returned when the graph has no valid breadth-first order.
	ErrCycle = errors.New("workflow graph contains a cycle")
)
