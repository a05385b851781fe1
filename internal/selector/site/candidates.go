package site

import (
	"github.com/duke-git/lancet/v2/slice"

	"github.com/swarmourr/pegasus-sub001/internal/selector/transformation"
	"github.com/swarmourr/pegasus-sub001/pkg/types"
)

// TransformationLookup returns the catalog entries of a transformation on a site.
type TransformationLookup interface {
	Lookup(namespace, name, version, site string) []*types.TransformationEntry
}

// candidateFilter narrows candidate sites to those that can run a job.
type candidateFilter struct {
	catalog  TransformationLookup
	selector transformation.Selector
}

func newCandidateFilter(catalog TransformationLookup, selector transformation.Selector) candidateFilter {
	if selector == nil {
		selector = transformation.NewInstalled()
	}
	return candidateFilter{catalog: catalog, selector: selector}
}

// viable returns the sites, in candidate order, where the job can run.
// Without a catalog every candidate is viable. A clustered job prefers the
// sites its constituents were mapped to.
func (f candidateFilter) viable(job *types.Job, sites []string) []string {
	if job.IsClustered() {
		return clusterSites(job, sites)
	}
	if f.catalog == nil {
		return sites
	}

	var result []string
	for _, site := range sites {
		entries := f.catalog.Lookup(job.Namespace, job.Name, job.Version, site)
		if _, ok := f.selector.Select(entries, site); ok {
			result = append(result, site)
		}
	}
	return result
}

func clusterSites(job *types.Job, sites []string) []string {
	nodes, err := job.Constituents().BreadthFirst()
	if err != nil {
		return sites
	}

	var mapped []string
	for _, n := range nodes {
		if n.Job.SiteHandle != "" {
			mapped = append(mapped, n.Job.SiteHandle)
		}
	}
	mapped = slice.Unique(mapped)

	result := slice.Filter(sites, func(_ int, s string) bool {
		return slice.Contain(mapped, s)
	})
	if len(result) == 0 {
		return sites
	}
	return result
}
