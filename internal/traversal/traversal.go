// Package traversal walks a workflow graph once in breadth-first order and
// stamps every job, including the constituents of clustered jobs, with its depth.
package traversal

import (
	"fmt"

	"github.com/swarmourr/pegasus-sub001/pkg/types"
)

// VisitFunc is called for every top-level node after its level is stamped.
type VisitFunc func(node *types.Node) error

// Walk stamps levels on all nodes of g and calls fn for each top-level node in
// traversal order. Clustered jobs have their sub-graphs stamped before fn sees them.
// A nil fn only assigns levels.
func Walk(g types.Graph, fn VisitFunc) error {
	nodes, err := g.BreadthFirst()
	if err != nil {
		return fmt.Errorf("traverse workflow: %w", err)
	}

	for _, node := range nodes {
		node.Job.SetLevel(node.Depth)

		if node.Job.IsClustered() {
			if err := AssignLevels(node.Job.Constituents()); err != nil {
				return fmt.Errorf("clustered job %s: %w", node.Job.ID, err)
			}
		}

		if fn != nil {
			if err := fn(node); err != nil {
				return err
			}
		}
	}
	return nil
}

// AssignLevels stamps every job in g with its traversal depth.
func AssignLevels(g types.Graph) error {
	if g == nil {
		return nil
	}
	return Walk(g, nil)
}
