package site

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/swarmourr/pegasus-sub001/pkg/types"
)

// Random maps each job to a uniformly chosen viable site.
type Random struct {
	filter candidateFilter
	rnd    *rand.Rand
	logger *zap.Logger
}

// NewRandom creates a random mapper. A zero seed gives a fixed sequence.
func NewRandom(opts Options) *Random {
	return &Random{
		filter: newCandidateFilter(opts.Catalog, opts.Selector),
		rnd:    rand.New(rand.NewSource(opts.Seed)),
		logger: opts.logger(),
	}
}

// MapJob implements JobMapper.
func (m *Random) MapJob(job *types.Job, sites []string) error {
	if len(sites) == 0 {
		return ErrNoCandidateSites
	}
	viable := m.filter.viable(job, sites)
	if len(viable) == 0 {
		return fmt.Errorf("%w: %s (%s)", ErrNoViableSite, job.ID, job.TransformationName())
	}

	job.SiteHandle = viable[m.rnd.Intn(len(viable))]
	m.logger.Debug("mapped job", zap.String("job", job.ID), zap.String("site", job.SiteHandle))
	return nil
}
