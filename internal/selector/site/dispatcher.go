package site

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/swarmourr/pegasus-sub001/internal/traversal"
	"github.com/swarmourr/pegasus-sub001/pkg/types"
)

// JobMapper chooses an execution site for a single job and records it on the job.
type JobMapper interface {
	MapJob(job *types.Job, sites []string) error
}

// JobMapperFunc adapts a function to JobMapper.
type JobMapperFunc func(job *types.Job, sites []string) error

// MapJob calls f.
func (f JobMapperFunc) MapJob(job *types.Job, sites []string) error {
	return f(job, sites)
}

// Dispatcher walks a workflow and delegates per-job site choice to a JobMapper.
type Dispatcher struct {
	mapper JobMapper
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher. It panics if mapper is nil.
func NewDispatcher(mapper JobMapper, logger *zap.Logger) *Dispatcher {
	if mapper == nil {
		panic("site: job mapper passed to the dispatcher is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		mapper: mapper,
		logger: logger,
	}
}

// MapWorkflow maps every job of the workflow in breadth-first order.
//
// Jobs whose selector profiles or hints already carry execution.site are not
// passed to the mapper. For a clustered job every constituent is mapped in the
// sub-graph order, then the clustered job itself is mapped as well.
// The candidate sites are passed through unvalidated.
func (d *Dispatcher) MapWorkflow(workflow types.Graph, sites []string) error {
	return traversal.Walk(workflow, func(node *types.Node) error {
		job := node.Job

		if hasExecutionSiteKey(job) {
			d.logger.Info("job will be mapped based on selector|hints profile key",
				zap.String("job", job.ID),
				zap.String("key", types.ExecutionSiteKey))
			return nil
		}

		if job.IsClustered() {
			constituents, err := job.Constituents().BreadthFirst()
			if err != nil {
				return fmt.Errorf("clustered job %s: %w", job.ID, err)
			}
			for _, c := range constituents {
				if err := d.mapper.MapJob(c.Job, sites); err != nil {
					return fmt.Errorf("map constituent %s of %s: %w", c.Job.ID, job.ID, err)
				}
			}
		}

		if err := d.mapper.MapJob(job, sites); err != nil {
			return fmt.Errorf("map job %s: %w", job.ID, err)
		}
		return nil
	})
}

func hasExecutionSiteKey(job *types.Job) bool {
	if _, ok := job.SelectorProfiles()[types.ExecutionSiteKey]; ok {
		return true
	}
	_, ok := job.Hints[types.ExecutionSiteKey]
	return ok
}
