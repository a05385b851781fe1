package planner

import (
	"github.com/swarmourr/pegasus-sub001/pkg/types"
)

// Plan is the result of planning a workflow.
type Plan struct {
	ID        string               `json:"id"`
	Workflow  string               `json:"workflow"`
	Jobs      []*PlannedJob        `json:"jobs"`
	Transfers []*types.TransferJob `json:"transfers"`
}

// PlannedJob is a compute job with its site assignment.
type PlannedJob struct {
	ID             string         `json:"id"`
	Transformation string         `json:"transformation"`
	Site           string         `json:"site"`
	Level          int            `json:"level"`
	Clustered      bool           `json:"clustered,omitempty"`
	Profiles       types.Profiles `json:"profiles,omitempty"`
	Constituents   []*PlannedJob  `json:"constituents,omitempty"`
}

// TransfersFor returns the transfers serving the given job, in plan order.
func (p *Plan) TransfersFor(jobID string) []*types.TransferJob {
	var out []*types.TransferJob
	for _, t := range p.Transfers {
		if t.ForJob == jobID {
			out = append(out, t)
		}
	}
	return out
}

// Job returns the top-level planned job with the given ID.
func (p *Plan) Job(id string) (*PlannedJob, bool) {
	for _, j := range p.Jobs {
		if j.ID == id {
			return j, true
		}
	}
	return nil, false
}

func newPlannedJob(job *types.Job) *PlannedJob {
	return &PlannedJob{
		ID:             job.ID,
		Transformation: job.TransformationName(),
		Site:           job.SiteHandle,
		Level:          job.Level,
		Clustered:      job.IsClustered(),
		Profiles:       job.Profiles,
	}
}
