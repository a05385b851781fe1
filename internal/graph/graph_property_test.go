package graph

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// buildLayered builds a random DAG where edges only go from lower to higher index.
func buildLayered(size int, edges []int) *Graph {
	g := New()
	for i := 0; i < size; i++ {
		_ = g.AddJob(newJob(fmt.Sprintf("job%02d", i)))
	}
	for i, e := range edges {
		from := i % size
		to := e % size
		if from < to {
			_ = g.AddDependency(fmt.Sprintf("job%02d", from), fmt.Sprintf("job%02d", to))
		}
	}
	return g
}

// TestBreadthFirstProperty checks that every node is visited once and after all its parents.
func TestBreadthFirstProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("parents precede children and depth exceeds parent depth", prop.ForAll(
		func(size int, edges []int) bool {
			g := buildLayered(size, edges)
			nodes, err := g.BreadthFirst()
			if err != nil || len(nodes) != size {
				return false
			}

			pos := make(map[string]int)
			depth := make(map[string]int)
			for i, n := range nodes {
				if _, seen := pos[n.Job.ID]; seen {
					return false
				}
				pos[n.Job.ID] = i
				depth[n.Job.ID] = n.Depth
			}

			for _, n := range nodes {
				parents := g.Parents(n.Job.ID)
				if len(parents) == 0 && n.Depth != 0 {
					return false
				}
				for _, p := range parents {
					if pos[p] >= pos[n.Job.ID] || depth[p] >= n.Depth {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(1, 30),
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}
