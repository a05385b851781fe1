package planner

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/swarmourr/pegasus-sub001/internal/catalog"
	"github.com/swarmourr/pegasus-sub001/internal/graph"
	"github.com/swarmourr/pegasus-sub001/pkg/types"
)

// synthesizer adds the data movement around mapped compute jobs:
//   - stage-in of raw inputs whose replica is not on the job site
//   - inter-site transfer of files produced on a different site
//   - stage-out of outputs marked stageOut to the output site
type synthesizer struct {
	planner  *Planner
	graph    *graph.Graph
	producer map[string]*types.Job
	seen     map[string]bool
	perJob   map[string]int
	out      []*types.TransferJob
}

func newSynthesizer(p *Planner, g *graph.Graph) *synthesizer {
	return &synthesizer{
		planner:  p,
		graph:    g,
		producer: make(map[string]*types.Job),
		seen:     make(map[string]bool),
		perJob:   make(map[string]int),
	}
}

func (s *synthesizer) run(nodes []*types.Node) ([]*types.TransferJob, error) {
	for _, n := range nodes {
		for _, u := range n.Job.Uses {
			if u.IsOutput() {
				if _, ok := s.producer[u.LFN]; !ok {
					s.producer[u.LFN] = n.Job
				}
			}
		}
	}

	for _, n := range nodes {
		job := n.Job
		for _, u := range job.Uses {
			if !u.IsInput() {
				continue
			}
			if producer, ok := s.producer[u.LFN]; ok && producer != job {
				if producer.SiteHandle != job.SiteHandle {
					if err := s.interSite(producer, job, u); err != nil {
						return nil, err
					}
				}
				continue
			}
			if u.Type == types.LinkInout {
				continue
			}
			if err := s.stageIn(job, u); err != nil {
				return nil, err
			}
		}
		for _, u := range job.Uses {
			if u.IsOutput() && u.StageOut {
				if err := s.stageOut(job, u); err != nil {
					return nil, err
				}
			}
		}
	}
	return s.out, nil
}

func (s *synthesizer) stageIn(job *types.Job, u types.FileUse) error {
	if u.Bypass {
		return nil
	}

	var replicas []catalog.Replica
	if s.planner.catalogs.Replicas != nil {
		replicas = s.planner.catalogs.Replicas.Lookup(u.LFN)
	}
	if len(replicas) == 0 {
		if u.Optional {
			return nil
		}
		return fmt.Errorf("%w: %s (job %s)", ErrNoReplica, u.LFN, job.ID)
	}

	replica := pickReplica(replicas, job.SiteHandle)
	if replica.Site == job.SiteHandle {
		s.planner.logger.Debug("input already on job site",
			zap.String("job", job.ID),
			zap.String("lfn", u.LFN))
		return nil
	}

	staging, err := s.planner.siteEntry(job.SiteHandle)
	if err != nil {
		return err
	}
	s.add(types.StageInTransfer, job, u.LFN, toURL(replica.PFN), joinURL(staging.ScratchURL(), u.LFN), staging)
	return nil
}

func (s *synthesizer) interSite(producer, consumer *types.Job, u types.FileUse) error {
	from, err := s.planner.siteEntry(producer.SiteHandle)
	if err != nil {
		return err
	}
	to, err := s.planner.siteEntry(consumer.SiteHandle)
	if err != nil {
		return err
	}
	s.add(types.InterSiteTransfer, consumer, u.LFN,
		joinURL(from.ScratchURL(), u.LFN), joinURL(to.ScratchURL(), u.LFN), to)
	return nil
}

func (s *synthesizer) stageOut(job *types.Job, u types.FileUse) error {
	staging, err := s.planner.siteEntry(job.SiteHandle)
	if err != nil {
		return err
	}
	output, err := s.planner.siteEntry(s.planner.opts.OutputSite)
	if err != nil {
		return err
	}
	s.add(types.StageOutTransfer, job, u.LFN,
		joinURL(staging.ScratchURL(), u.LFN), joinURL(output.StorageURL(), u.LFN), staging)
	return nil
}

// add records a transfer once per type, file and staging site, and places it
// with the job placer.
func (s *synthesizer) add(t types.TransferType, job *types.Job, lfn, src, dst string, staging *types.SiteEntry) {
	key := t.String() + "|" + lfn + "|" + staging.Handle
	if s.seen[key] {
		return
	}
	s.seen[key] = true

	runSite := staging.Handle
	if s.planner.placer.RunTransferOnLocalSite(staging, staging.ScratchURL(), t) {
		runSite = types.LocalSiteHandle
	}

	idx := s.perJob[job.ID]
	s.perJob[job.ID]++
	tj := &types.TransferJob{
		ID:          fmt.Sprintf("%s_%s_%d", t, job.ID, idx),
		Type:        t,
		TypeName:    t.String(),
		LFN:         lfn,
		SourceURL:   src,
		DestURL:     dst,
		StagingSite: staging.Handle,
		RunSite:     runSite,
		ForJob:      job.ID,
	}
	s.out = append(s.out, tj)

	s.planner.logger.Debug("added transfer",
		zap.String("transfer", tj.ID),
		zap.String("lfn", lfn),
		zap.String("run_site", runSite))
}

// pickReplica prefers a replica on the job site, then one on the local site,
// then the first in catalog order.
func pickReplica(replicas []catalog.Replica, siteHandle string) catalog.Replica {
	for _, r := range replicas {
		if r.Site == siteHandle {
			return r
		}
	}
	for _, r := range replicas {
		if r.Site == types.LocalSiteHandle {
			return r
		}
	}
	return replicas[0]
}

func toURL(pfn string) string {
	if strings.HasPrefix(pfn, "/") {
		return "file://" + pfn
	}
	return pfn
}

func joinURL(base, lfn string) string {
	if base == "" {
		return lfn
	}
	return base + "/" + lfn
}
