package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/swarmourr/pegasus-sub001/internal/catalog"
	"github.com/swarmourr/pegasus-sub001/internal/config"
	"github.com/swarmourr/pegasus-sub001/internal/keywords"
	"github.com/swarmourr/pegasus-sub001/internal/logger"
	"github.com/swarmourr/pegasus-sub001/internal/namespace"
	"github.com/swarmourr/pegasus-sub001/internal/parser"
	"github.com/swarmourr/pegasus-sub001/internal/planner"
	"github.com/swarmourr/pegasus-sub001/internal/transfer"
	"github.com/swarmourr/pegasus-sub001/internal/util"
)

var (
	planSiteCatalog           string
	planTransformationCatalog string
	planReplicaCatalog        string
	planSiteSelector          string
	planSites                 []string
	planOutputSite            string
	planCluster               bool
	planSeed                  int64
	planOverrides             []string
	planOutput                string
)

var planCmd = &cobra.Command{
	Use:   "plan <workflow.yml>",
	Short: "Plan a workflow",
	Long: `Map every job of a workflow to an execution site and add the transfers it needs.
The plan is written as JSON.`,
	Example: `  # plan with catalogs embedded in the workflow
  planner plan workflow.yml

  # explicit catalogs and candidate sites
  planner plan --sc sites.yml --tc transformations.yml --rc replicas.yml -s condorpool,hpc workflow.yml

  # cluster by label and run every stage-in remotely
  planner plan --cluster --set transfer.stagein_remote_sites=* workflow.yml`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringVar(&planSiteCatalog, "sc", "", "site catalog file")
	planCmd.Flags().StringVar(&planTransformationCatalog, "tc", "", "transformation catalog file")
	planCmd.Flags().StringVar(&planReplicaCatalog, "rc", "", "replica catalog file")
	planCmd.Flags().StringVar(&planSiteSelector, "site-selector", "", "site selector (RoundRobin, Random)")
	planCmd.Flags().StringSliceVarP(&planSites, "sites", "s", nil, "candidate execution sites")
	planCmd.Flags().StringVar(&planOutputSite, "output-site", "", "site receiving stage-out transfers")
	planCmd.Flags().BoolVar(&planCluster, "cluster", false, "cluster jobs by pegasus.label")
	planCmd.Flags().Int64Var(&planSeed, "seed", 0, "seed for randomized site selection")
	planCmd.Flags().StringArrayVar(&planOverrides, "set", nil, "configuration override, format: section.key=value")
	planCmd.Flags().StringVarP(&planOutput, "output", "o", "", "write the plan to a file instead of stdout")
}

// planArgs collects the flag values as dotted configuration overrides.
func planArgs() (map[string]string, error) {
	args := make(map[string]string)
	for _, kv := range planOverrides {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q, expected section.key=value", kv)
		}
		args[key] = value
	}

	set := func(key, value string) {
		if value != "" {
			args[key] = value
		}
	}
	set("catalogs.sites", planSiteCatalog)
	set("catalogs.transformations", planTransformationCatalog)
	set("catalogs.replicas", planReplicaCatalog)
	set("planner.site_selector", planSiteSelector)
	set("planner.sites", strings.Join(planSites, ","))
	set("planner.output_site", planOutputSite)
	if planCluster {
		args["planner.cluster_by_label"] = "true"
	}
	if planSeed != 0 {
		args["planner.random_seed"] = strconv.FormatInt(planSeed, 10)
	}
	switch {
	case debug:
		args["logging.level"] = "debug"
	case quiet:
		args["logging.level"] = "error"
	}
	return args, nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	overrides, err := planArgs()
	if err != nil {
		return err
	}

	cfg, err := config.LoadAndValidate(config.NewLoader().WithConfigPath(cfgFile).WithCmdArgs(overrides))
	if err != nil {
		return err
	}

	log := logger.New(&logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		FilePath:   cfg.Logging.FilePath,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
	})
	defer func() { _ = log.Sync() }()

	wf, err := parser.NewYAMLParser().ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("parse workflow: %w", err)
	}

	catalogs, err := loadCatalogs(cfg.Catalogs, wf)
	if err != nil {
		return err
	}

	rules, err := cfg.AggregationRules()
	if err != nil {
		return err
	}

	p, err := planner.New(catalogs, planner.Options{
		SiteSelector:           cfg.Planner.SiteSelector,
		TransformationSelector: cfg.Planner.TransformationSelector,
		Sites:                  cfg.Planner.Sites,
		OutputSite:             cfg.Planner.OutputSite,
		ClusterByLabel:         cfg.Planner.ClusterByLabel,
		Seed:                   cfg.Planner.RandomSeed,
		Merger:                 namespace.NewMerger(rules...),
		Refiner:                transfer.NewConfigRefiner(cfg.RefinerConfig()),
		Logger:                 log,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	plan, err := p.Plan(ctx, wf)
	if err != nil {
		return fmt.Errorf("plan workflow %s: %w", wf.Name, err)
	}

	out, err := util.ToJSONPretty(plan)
	if err != nil {
		return err
	}
	if planOutput != "" {
		if err := os.WriteFile(planOutput, []byte(out+"\n"), 0o644); err != nil {
			return fmt.Errorf("write plan: %w", err)
		}
		log.Info("wrote plan", zap.String("path", planOutput))
		return nil
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

// loadCatalogs loads the configured catalog files. A catalog without a file
// falls back to the one embedded in the workflow, if any.
func loadCatalogs(cfg config.CatalogConfig, wf *parser.Workflow) (planner.Catalogs, error) {
	var catalogs planner.Catalogs
	var err error

	switch {
	case cfg.Sites != "":
		catalogs.Sites, err = catalog.LoadSiteCatalog(cfg.Sites)
	case wf.Catalogs[keywords.WorkflowSiteCatalog] != nil:
		catalogs.Sites, err = catalog.DecodeSiteCatalog(wf.Catalogs[keywords.WorkflowSiteCatalog])
	}
	if err != nil {
		return catalogs, err
	}

	switch {
	case cfg.Transformations != "":
		catalogs.Transformations, err = catalog.LoadTransformationCatalog(cfg.Transformations)
	case wf.Catalogs[keywords.WorkflowTransformationCatalog] != nil:
		catalogs.Transformations, err = catalog.DecodeTransformationCatalog(wf.Catalogs[keywords.WorkflowTransformationCatalog])
	}
	if err != nil {
		return catalogs, err
	}

	switch {
	case cfg.Replicas != "":
		catalogs.Replicas, err = catalog.LoadReplicaCatalog(cfg.Replicas)
	case wf.Catalogs[keywords.WorkflowReplicaCatalog] != nil:
		catalogs.Replicas, err = catalog.DecodeReplicaCatalog(wf.Catalogs[keywords.WorkflowReplicaCatalog])
	}
	return catalogs, err
}
