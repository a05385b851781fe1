package site

import "errors"

var (
	// ErrNoCandidateSites is returned when a mapper receives an empty candidate list.
	ErrNoCandidateSites = errors.New("no candidate sites to map job to")

	// ErrNoViableSite is returned when no candidate site can run the job.
	ErrNoViableSite = errors.New("no viable site for job")
)
