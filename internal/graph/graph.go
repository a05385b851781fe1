// Package graph provides an in-memory workflow DAG with a breadth-first
// iterator that reports the depth of every node.
package graph

import (
	"fmt"

	"github.com/duke-git/lancet/v2/slice"

	"github.com/swarmourr/pegasus-sub001/pkg/types"
)

type vertex struct {
	job      *types.Job
	parents  []string
	children []string
}

// Graph is a directed acyclic graph of jobs keyed by job ID.
// It is not safe for concurrent mutation.
type Graph struct {
	vertices map[string]*vertex
	order    []string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		vertices: make(map[string]*vertex),
	}
}

// AddJob adds a job to the graph.
func (g *Graph) AddJob(job *types.Job) error {
	if job == nil {
		return ErrNilJob
	}
	if _, exists := g.vertices[job.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, job.ID)
	}
	g.vertices[job.ID] = &vertex{job: job}
	g.order = append(g.order, job.ID)
	return nil
}

// AddDependency records that child runs after parent. Adding an existing edge is a no-op.
func (g *Graph) AddDependency(parent, child string) error {
	if parent == child {
		return fmt.Errorf("%w: %s", ErrSelfDependency, parent)
	}
	p, ok := g.vertices[parent]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, parent)
	}
	c, ok := g.vertices[child]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, child)
	}
	if slice.Contain(p.children, child) {
		return nil
	}
	p.children = append(p.children, child)
	c.parents = append(c.parents, parent)
	return nil
}

// Job returns the job with the given ID.
func (g *Graph) Job(id string) (*types.Job, bool) {
	v, ok := g.vertices[id]
	if !ok {
		return nil, false
	}
	return v.job, true
}

// Jobs returns all jobs in insertion order.
func (g *Graph) Jobs() []*types.Job {
	jobs := make([]*types.Job, 0, len(g.order))
	for _, id := range g.order {
		jobs = append(jobs, g.vertices[id].job)
	}
	return jobs
}

// Len returns the number of jobs.
func (g *Graph) Len() int {
	return len(g.order)
}

// Parents returns the IDs of the direct parents of a job.
func (g *Graph) Parents(id string) []string {
	v, ok := g.vertices[id]
	if !ok {
		return nil
	}
	return append([]string(nil), v.parents...)
}

// Children returns the IDs of the direct children of a job.
func (g *Graph) Children(id string) []string {
	v, ok := g.vertices[id]
	if !ok {
		return nil
	}
	return append([]string(nil), v.children...)
}

// Roots returns the jobs without parents in insertion order.
func (g *Graph) Roots() []*types.Job {
	var roots []*types.Job
	for _, id := range g.order {
		if v := g.vertices[id]; len(v.parents) == 0 {
			roots = append(roots, v.job)
		}
	}
	return roots
}

// BreadthFirst returns every node in breadth-first order starting from the roots.
// A node is emitted only after all of its parents, and its depth is one more
// than the deepest parent. Roots have depth 0.
func (g *Graph) BreadthFirst() ([]*types.Node, error) {
	pending := make(map[string]int, len(g.vertices))
	depth := make(map[string]int, len(g.vertices))
	queue := make([]string, 0, len(g.vertices))

	for _, id := range g.order {
		v := g.vertices[id]
		pending[id] = len(v.parents)
		if len(v.parents) == 0 {
			queue = append(queue, id)
		}
	}

	nodes := make([]*types.Node, 0, len(g.vertices))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		v := g.vertices[id]
		nodes = append(nodes, &types.Node{Depth: depth[id], Job: v.job})

		for _, child := range v.children {
			if d := depth[id] + 1; d > depth[child] {
				depth[child] = d
			}
			pending[child]--
			if pending[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if len(nodes) != len(g.vertices) {
		return nil, fmt.Errorf("%w: %d of %d jobs unreachable in dependency order",
			ErrCycle, len(g.vertices)-len(nodes), len(g.vertices))
	}
	return nodes, nil
}
