package planner

import "errors"

var (
	// ErrNoWorkflow is returned when Plan receives no workflow.
	ErrNoWorkflow = errors.New("planner: no workflow to plan")

	// ErrNoSites is returned when there are no candidate execution sites.
	ErrNoSites = errors.New("planner: no candidate execution sites")

	// ErrUnknownSite is returned when a site is missing from the site catalog.
	ErrUnknownSite = errors.New("planner: site not in site catalog")

	// ErrUnmappedJob is returned when a job has no site after mapping.
	ErrUnmappedJob = errors.New("planner: job was not mapped to a site")

	// ErrNoReplica is returned when a required raw input has no replica.
	ErrNoReplica = errors.New("planner: no replica for input file")
)
