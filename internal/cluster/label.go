// Package cluster collapses workflow jobs into clustered jobs.
package cluster

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/swarmourr/pegasus-sub001/internal/graph"
	"github.com/swarmourr/pegasus-sub001/internal/namespace"
	"github.com/swarmourr/pegasus-sub001/pkg/types"
)

// IDPrefix prefixes the ID of every clustered job.
const IDPrefix = "merge_"

// ErrNilGraph is returned when there is no workflow to cluster.
var ErrNilGraph = errors.New("cluster: workflow graph is nil")

// LabelClusterer groups jobs by their pegasus.label profile.
type LabelClusterer struct {
	merger *namespace.Merger
	logger *zap.Logger
}

// NewLabelClusterer creates a clusterer. A nil merger uses the default rules.
func NewLabelClusterer(merger *namespace.Merger, logger *zap.Logger) *LabelClusterer {
	if merger == nil {
		merger = namespace.NewMerger(namespace.DefaultRules()...)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LabelClusterer{merger: merger, logger: logger}
}

// Cluster returns a new graph in which every label shared by two or more jobs
// becomes one clustered job owning those jobs and the edges between them.
// Unlabelled jobs and labels with a single job are kept as they are. Edges
// crossing a cluster boundary are rerouted to the clustered job.
func (c *LabelClusterer) Cluster(g *graph.Graph) (*graph.Graph, error) {
	if g == nil {
		return nil, ErrNilGraph
	}

	jobs := g.Jobs()
	members := make(map[string][]*types.Job)
	for _, job := range jobs {
		if label := labelOf(job); label != "" {
			members[label] = append(members[label], job)
		}
	}

	owner := make(map[string]string, len(jobs))
	subgraphs := make(map[string]*graph.Graph)
	out := graph.New()
	for _, job := range jobs {
		label := labelOf(job)
		if label == "" || len(members[label]) < 2 {
			owner[job.ID] = job.ID
			if err := out.AddJob(job); err != nil {
				return nil, err
			}
			continue
		}

		id := IDPrefix + label
		owner[job.ID] = id
		sub, ok := subgraphs[label]
		if !ok {
			sub = graph.New()
			subgraphs[label] = sub
			if err := out.AddJob(types.NewClusteredJob(id, sub)); err != nil {
				return nil, fmt.Errorf("cluster %s: %w", label, err)
			}
		}
		if err := sub.AddJob(job); err != nil {
			return nil, err
		}
	}

	for _, job := range jobs {
		for _, child := range g.Children(job.ID) {
			from, to := owner[job.ID], owner[child]
			var err error
			if from == to {
				err = subgraphs[labelOf(job)].AddDependency(job.ID, child)
			} else {
				err = out.AddDependency(from, to)
			}
			if err != nil {
				return nil, err
			}
		}
	}

	for label, sub := range subgraphs {
		clustered, _ := out.Job(IDPrefix + label)
		if err := c.fill(clustered, sub); err != nil {
			return nil, fmt.Errorf("cluster %s: %w", label, err)
		}
		c.logger.Debug("clustered jobs by label",
			zap.String("cluster", clustered.ID),
			zap.String("label", label),
			zap.Int("jobs", sub.Len()))
	}

	if _, err := out.BreadthFirst(); err != nil {
		return nil, fmt.Errorf("clustering by label: %w", err)
	}
	return out, nil
}

// fill merges the constituent profiles and file uses into the clustered job.
// Files produced inside the cluster are not inputs of the cluster.
func (c *LabelClusterer) fill(clustered *types.Job, sub *graph.Graph) error {
	nodes, err := sub.BreadthFirst()
	if err != nil {
		return err
	}

	produced := make(map[string]bool)
	for _, n := range nodes {
		for _, u := range n.Job.Uses {
			if u.IsOutput() {
				produced[u.LFN] = true
			}
		}
	}

	seen := make(map[string]bool)
	for _, n := range nodes {
		c.merger.Merge(clustered.Profiles, withoutSiteHint(n.Job.Profiles))
		for _, u := range n.Job.Uses {
			if u.Type == types.LinkInput && produced[u.LFN] {
				continue
			}
			key := u.LFN + "\x00" + string(u.Type)
			if seen[key] {
				continue
			}
			seen[key] = true
			clustered.Uses = append(clustered.Uses, u)
		}
	}
	return nil
}

// withoutSiteHint returns profiles without the selector execution.site key.
// Site hints stay on the constituent; the planner resolves the cluster site.
func withoutSiteHint(profiles types.Profiles) types.Profiles {
	if _, ok := profiles.Get(types.SelectorNamespace, types.ExecutionSiteKey); !ok {
		return profiles
	}
	out := profiles.Clone()
	delete(out[types.SelectorNamespace], types.ExecutionSiteKey)
	return out
}

func labelOf(job *types.Job) string {
	label, _ := job.Profiles.Get(types.PegasusNamespace, types.LabelKey)
	return label
}
