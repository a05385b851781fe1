// Package planner drives a workflow through clustering, site selection,
// transfer synthesis and transfer placement.
package planner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swarmourr/pegasus-sub001/internal/catalog"
	"github.com/swarmourr/pegasus-sub001/internal/cluster"
	"github.com/swarmourr/pegasus-sub001/internal/graph"
	"github.com/swarmourr/pegasus-sub001/internal/namespace"
	"github.com/swarmourr/pegasus-sub001/internal/parser"
	"github.com/swarmourr/pegasus-sub001/internal/selector/site"
	"github.com/swarmourr/pegasus-sub001/internal/selector/transformation"
	"github.com/swarmourr/pegasus-sub001/internal/transfer"
	"github.com/swarmourr/pegasus-sub001/internal/traversal"
	"github.com/swarmourr/pegasus-sub001/pkg/types"
)

// Catalogs are the catalogs consulted while planning. Any of them may be nil.
type Catalogs struct {
	Sites           *catalog.SiteCatalog
	Transformations *catalog.TransformationCatalog
	Replicas        *catalog.ReplicaCatalog
}

// Options configures a Planner.
type Options struct {
	SiteSelector           string
	TransformationSelector string
	// Sites are the candidate execution sites; empty means every non-local
	// site of the site catalog.
	Sites []string
	// OutputSite receives stage-out transfers; defaults to local.
	OutputSite     string
	ClusterByLabel bool
	Seed           int64
	Merger         *namespace.Merger
	Refiner        transfer.Refiner
	Logger         *zap.Logger
}

// Planner plans workflows against a fixed set of catalogs.
type Planner struct {
	catalogs Catalogs
	opts     Options
	selector transformation.Selector
	placer   *transfer.JobPlacer
	logger   *zap.Logger
}

// New creates a planner.
func New(catalogs Catalogs, opts Options) (*Planner, error) {
	if opts.SiteSelector == "" {
		opts.SiteSelector = site.NameRoundRobin
	}
	if opts.OutputSite == "" {
		opts.OutputSite = types.LocalSiteHandle
	}
	if opts.Refiner == nil {
		opts.Refiner = transfer.NewConfigRefiner(transfer.RefinerConfig{})
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if len(opts.Sites) == 0 && catalogs.Sites != nil {
		opts.Sites = catalogs.Sites.ExecutionSites()
	}
	if len(opts.Sites) == 0 {
		return nil, ErrNoSites
	}

	selector, err := transformation.DefaultRegistry.GetOrDefault(opts.TransformationSelector)
	if err != nil {
		return nil, err
	}

	// validate the site selector name up front
	if _, err := site.Get(opts.SiteSelector, site.Options{}); err != nil {
		return nil, err
	}

	if catalogs.Sites != nil {
		for _, h := range append([]string{opts.OutputSite}, opts.Sites...) {
			if _, ok := catalogs.Sites.Lookup(h); !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownSite, h)
			}
		}
	}

	return &Planner{
		catalogs: catalogs,
		opts:     opts,
		selector: selector,
		placer:   transfer.NewJobPlacer(opts.Refiner),
		logger:   opts.Logger,
	}, nil
}

// Plan maps every job of the workflow to a site and synthesizes the
// transfers it needs. Jobs of wf are updated in place.
func (p *Planner) Plan(ctx context.Context, wf *parser.Workflow) (*Plan, error) {
	if wf == nil || wf.Graph == nil {
		return nil, ErrNoWorkflow
	}

	g := wf.Graph
	if p.opts.ClusterByLabel {
		clustered, err := cluster.NewLabelClusterer(p.opts.Merger, p.logger).Cluster(g)
		if err != nil {
			return nil, err
		}
		g = clustered
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// hinted constituents are sited before dispatch so their cluster can
	// follow them, and again after because the mapper sees them too
	if err := p.applyHints(g); err != nil {
		return nil, err
	}
	if err := p.dispatch(g); err != nil {
		return nil, err
	}
	if err := p.applyHints(g); err != nil {
		return nil, err
	}
	if err := alignConstituents(g); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plan := &Plan{
		ID:       uuid.NewString(),
		Workflow: wf.Name,
	}
	nodes, err := g.BreadthFirst()
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		planned, err := p.plannedJob(n.Job)
		if err != nil {
			return nil, err
		}
		plan.Jobs = append(plan.Jobs, planned)
	}

	transfers, err := newSynthesizer(p, g).run(nodes)
	if err != nil {
		return nil, err
	}
	plan.Transfers = transfers

	p.logger.Info("planned workflow",
		zap.String("plan", plan.ID),
		zap.String("workflow", plan.Workflow),
		zap.Int("jobs", len(plan.Jobs)),
		zap.Int("transfers", len(plan.Transfers)))
	return plan, nil
}

func (p *Planner) dispatch(g *graph.Graph) error {
	var lookup site.TransformationLookup
	if p.catalogs.Transformations != nil {
		lookup = p.catalogs.Transformations
	}
	mapper, err := site.Get(p.opts.SiteSelector, site.Options{
		Catalog:  lookup,
		Selector: p.selector,
		Seed:     p.opts.Seed,
		Logger:   p.logger,
	})
	if err != nil {
		return err
	}
	return site.NewDispatcher(mapper, p.logger).MapWorkflow(g, p.opts.Sites)
}

// applyHints sets the site of every job carrying an execution.site hint or
// selector profile, constituents included. A clustered job without a hint of
// its own takes the first hint found among its constituents.
func (p *Planner) applyHints(g types.Graph) error {
	return traversal.Walk(g, func(n *types.Node) error {
		job := n.Job
		hint, ok := job.ExecutionSiteHint()
		if job.IsClustered() {
			if err := p.applyHints(job.Constituents()); err != nil {
				return err
			}
			if !ok {
				var err error
				if hint, ok, err = constituentHint(job.Constituents()); err != nil {
					return err
				}
			}
		}
		if !ok {
			return nil
		}
		if p.catalogs.Sites != nil {
			if _, known := p.catalogs.Sites.Lookup(hint); !known {
				return fmt.Errorf("%w: %s (hint of job %s)", ErrUnknownSite, hint, job.ID)
			}
		}
		job.SiteHandle = hint
		return nil
	})
}

func constituentHint(g types.Graph) (string, bool, error) {
	nodes, err := g.BreadthFirst()
	if err != nil {
		return "", false, err
	}
	for _, n := range nodes {
		if hint, ok := n.Job.ExecutionSiteHint(); ok {
			return hint, true, nil
		}
	}
	return "", false, nil
}

// alignConstituents runs every constituent of a clustered job on the site of
// the clustered job.
func alignConstituents(g types.Graph) error {
	nodes, err := g.BreadthFirst()
	if err != nil {
		return err
	}
	for _, n := range nodes {
		if !n.Job.IsClustered() || n.Job.SiteHandle == "" {
			continue
		}
		constituents, err := n.Job.Constituents().BreadthFirst()
		if err != nil {
			return err
		}
		for _, c := range constituents {
			c.Job.SiteHandle = n.Job.SiteHandle
		}
		if err := alignConstituents(n.Job.Constituents()); err != nil {
			return err
		}
	}
	return nil
}

func (p *Planner) plannedJob(job *types.Job) (*PlannedJob, error) {
	if job.SiteHandle == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnmappedJob, job.ID)
	}
	planned := newPlannedJob(job)
	if !job.IsClustered() {
		return planned, nil
	}

	nodes, err := job.Constituents().BreadthFirst()
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		c, err := p.plannedJob(n.Job)
		if err != nil {
			return nil, err
		}
		planned.Constituents = append(planned.Constituents, c)
	}
	return planned, nil
}

// siteEntry returns the catalog entry of a site. Without a site catalog a
// bare entry carrying only the handle is returned.
func (p *Planner) siteEntry(handle string) (*types.SiteEntry, error) {
	if p.catalogs.Sites == nil {
		return &types.SiteEntry{Handle: handle}, nil
	}
	entry, ok := p.catalogs.Sites.Lookup(handle)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSite, handle)
	}
	return entry, nil
}
