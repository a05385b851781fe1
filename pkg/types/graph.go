package types

// Node wraps a job with its breadth-first depth.
type Node struct {
	Depth int
	Job   *Job
}

// Graph yields workflow nodes in a breadth-first, dependency-respecting order.
// Implementations return an error when the graph is malformed (for example cyclic).
type Graph interface {
	BreadthFirst() ([]*Node, error)
}
