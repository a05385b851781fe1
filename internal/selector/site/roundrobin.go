package site

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/swarmourr/pegasus-sub001/pkg/types"
)

// RoundRobin spreads jobs evenly: each job goes to the viable site that has
// received the fewest jobs so far, ties broken by candidate order.
type RoundRobin struct {
	filter   candidateFilter
	assigned map[string]int
	logger   *zap.Logger
}

// NewRoundRobin creates a round-robin mapper.
func NewRoundRobin(opts Options) *RoundRobin {
	return &RoundRobin{
		filter:   newCandidateFilter(opts.Catalog, opts.Selector),
		assigned: make(map[string]int),
		logger:   opts.logger(),
	}
}

// MapJob implements JobMapper.
func (m *RoundRobin) MapJob(job *types.Job, sites []string) error {
	if len(sites) == 0 {
		return ErrNoCandidateSites
	}
	viable := m.filter.viable(job, sites)
	if len(viable) == 0 {
		return fmt.Errorf("%w: %s (%s)", ErrNoViableSite, job.ID, job.TransformationName())
	}

	chosen := viable[0]
	for _, s := range viable[1:] {
		if m.assigned[s] < m.assigned[chosen] {
			chosen = s
		}
	}
	m.assigned[chosen]++
	job.SiteHandle = chosen

	m.logger.Debug("mapped job", zap.String("job", job.ID), zap.String("site", chosen))
	return nil
}
