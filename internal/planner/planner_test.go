package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/swarmourr/pegasus-sub001/internal/catalog"
	"github.com/swarmourr/pegasus-sub001/internal/parser"
	"github.com/swarmourr/pegasus-sub001/internal/transfer"
	"github.com/swarmourr/pegasus-sub001/pkg/types"
)

const testSites = `
pegasus: "5.0"
sites:
  - name: local
    directories:
      - type: sharedScratch
        path: /local/scratch
      - type: sharedStorage
        path: /local/storage
  - name: condorpool
    directories:
      - type: sharedScratch
        path: /scratch
        fileServers:
          - operation: all
            url: gsiftp://pool/scratch
  - name: hpc
    directories:
      - type: sharedScratch
        path: /hpc/scratch
        sharedFileSystem: true
`

const testTransformations = `
pegasus: "5.0"
transformations:
  - name: preprocess
    sites:
      - {name: condorpool, pfn: /bin/pre, type: installed}
  - name: findrange
    sites:
      - {name: condorpool, pfn: /bin/find, type: installed}
      - {name: hpc, pfn: /bin/find, type: installed}
  - name: analyze
    sites:
      - {name: hpc, pfn: /bin/an, type: installed}
`

const testReplicas = `
pegasus: "5.0"
replicas:
  - lfn: f.a
    pfns:
      - {site: local, pfn: /data/f.a}
`

const testWorkflow = `
pegasus: "5.0"
name: chain
jobs:
  - type: job
    name: preprocess
    id: ID1
    uses:
      - {lfn: f.a, type: input}
      - {lfn: f.b, type: output}
  - type: job
    name: findrange
    id: ID2
    profiles:
      pegasus: {label: x, runtime: 10}
    uses:
      - {lfn: f.b, type: input}
      - {lfn: f.c, type: output}
  - type: job
    name: analyze
    id: ID3
    profiles:
      pegasus: {label: x, runtime: 5}
    uses:
      - {lfn: f.c, type: input}
      - {lfn: f.d, type: output, stageOut: true}
jobDependencies:
  - {id: ID1, children: [ID2]}
  - {id: ID2, children: [ID3]}
`

func testCatalogs(t *testing.T) Catalogs {
	t.Helper()
	sc, err := catalog.ParseSiteCatalog([]byte(testSites))
	require.NoError(t, err)
	tc, err := catalog.ParseTransformationCatalog([]byte(testTransformations))
	require.NoError(t, err)
	rc, err := catalog.ParseReplicaCatalog([]byte(testReplicas))
	require.NoError(t, err)
	return Catalogs{Sites: sc, Transformations: tc, Replicas: rc}
}

func parseWorkflow(t *testing.T, doc string) *parser.Workflow {
	t.Helper()
	wf, err := parser.NewYAMLParser().Parse([]byte(doc))
	require.NoError(t, err)
	return wf
}

func transferSummary(plan *Plan) [][3]string {
	out := make([][3]string, 0, len(plan.Transfers))
	for _, tj := range plan.Transfers {
		out = append(out, [3]string{tj.ID, tj.LFN, tj.RunSite})
	}
	return out
}

func TestPlan_Chain(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	p, err := New(testCatalogs(t), Options{Logger: zap.New(core)})
	require.NoError(t, err)

	plan, err := p.Plan(context.Background(), parseWorkflow(t, testWorkflow))
	require.NoError(t, err)

	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, "chain", plan.Workflow)
	require.Len(t, plan.Jobs, 3)

	sites := map[string]string{}
	levels := map[string]int{}
	for _, j := range plan.Jobs {
		sites[j.ID] = j.Site
		levels[j.ID] = j.Level
	}
	assert.Equal(t, map[string]string{"ID1": "condorpool", "ID2": "hpc", "ID3": "hpc"}, sites)
	assert.Equal(t, map[string]int{"ID1": 0, "ID2": 1, "ID3": 2}, levels)

	assert.Equal(t, [][3]string{
		{"stage_in_ID1_0", "f.a", "local"},
		{"stage_inter_ID2_0", "f.b", "local"},
		{"stage_out_ID3_0", "f.d", "local"},
	}, transferSummary(plan))

	in := plan.Transfers[0]
	assert.Equal(t, "file:///data/f.a", in.SourceURL)
	assert.Equal(t, "gsiftp://pool/scratch/f.a", in.DestURL)
	assert.Equal(t, "condorpool", in.StagingSite)

	inter := plan.Transfers[1]
	assert.Equal(t, "gsiftp://pool/scratch/f.b", inter.SourceURL)
	assert.Equal(t, "file:///hpc/scratch/f.b", inter.DestURL)
	assert.Equal(t, types.InterSiteTransfer, inter.Type)

	out := plan.Transfers[2]
	assert.Equal(t, "file:///local/storage/f.d", out.DestURL)

	require.Equal(t, 1, logs.FilterMessage("planned workflow").Len())
}

func TestPlan_RemotePreference(t *testing.T) {
	refiner := transfer.NewConfigRefiner(transfer.RefinerConfig{LocationPreference: transfer.PreferenceRemote})
	p, err := New(testCatalogs(t), Options{Refiner: refiner})
	require.NoError(t, err)

	plan, err := p.Plan(context.Background(), parseWorkflow(t, testWorkflow))
	require.NoError(t, err)

	// condorpool follows the preference; hpc is visible to the local site
	assert.Equal(t, [][3]string{
		{"stage_in_ID1_0", "f.a", "condorpool"},
		{"stage_inter_ID2_0", "f.b", "local"},
		{"stage_out_ID3_0", "f.d", "local"},
	}, transferSummary(plan))
}

func TestPlan_ClusterByLabel(t *testing.T) {
	p, err := New(testCatalogs(t), Options{ClusterByLabel: true})
	require.NoError(t, err)

	plan, err := p.Plan(context.Background(), parseWorkflow(t, testWorkflow))
	require.NoError(t, err)
	require.Len(t, plan.Jobs, 2)

	merged, ok := plan.Job("merge_x")
	require.True(t, ok)
	assert.True(t, merged.Clustered)
	assert.Equal(t, "hpc", merged.Site)
	assert.Equal(t, "15", merged.Profiles.Namespace(types.PegasusNamespace)[types.RuntimeKey])
	require.Len(t, merged.Constituents, 2)
	assert.Equal(t, "ID2", merged.Constituents[0].ID)
	assert.Equal(t, "hpc", merged.Constituents[1].Site)

	assert.Equal(t, [][3]string{
		{"stage_inter_merge_x_0", "f.b", "local"},
		{"stage_out_merge_x_1", "f.d", "local"},
	}, transferSummary(&Plan{Transfers: plan.TransfersFor("merge_x")}))
}

const clusterWorkflow = `
pegasus: "5.0"
name: clustered
jobs:
  - type: job
    name: findrange
    id: A
    profiles:
      pegasus: {label: x}
  - type: job
    name: findrange
    id: B
    profiles:
      pegasus: {label: x}
`

func TestPlan_ConstituentsRunOnClusterSite(t *testing.T) {
	p, err := New(testCatalogs(t), Options{ClusterByLabel: true})
	require.NoError(t, err)

	plan, err := p.Plan(context.Background(), parseWorkflow(t, clusterWorkflow))
	require.NoError(t, err)

	merged, ok := plan.Job("merge_x")
	require.True(t, ok)
	assert.Equal(t, "condorpool", merged.Site)
	require.Len(t, merged.Constituents, 2)
	for _, c := range merged.Constituents {
		assert.Equal(t, merged.Site, c.Site, c.ID)
	}
}

func TestPlan_ClusterFollowsHintedConstituent(t *testing.T) {
	doc := `
pegasus: "5.0"
name: clustered
jobs:
  - type: job
    name: findrange
    id: A
    profiles:
      pegasus: {label: x}
      selector: {execution.site: hpc}
  - type: job
    name: findrange
    id: B
    profiles:
      pegasus: {label: x}
`
	p, err := New(testCatalogs(t), Options{ClusterByLabel: true})
	require.NoError(t, err)

	plan, err := p.Plan(context.Background(), parseWorkflow(t, doc))
	require.NoError(t, err)

	merged, ok := plan.Job("merge_x")
	require.True(t, ok)
	assert.Equal(t, "hpc", merged.Site)
	require.Len(t, merged.Constituents, 2)
	for _, c := range merged.Constituents {
		assert.Equal(t, "hpc", c.Site, c.ID)
	}
}

func TestPlan_HintWins(t *testing.T) {
	doc := `
pegasus: "5.0"
name: hinted
jobs:
  - type: job
    name: preprocess
    id: ID1
    profiles:
      hints: {execution.site: hpc}
`
	p, err := New(testCatalogs(t), Options{})
	require.NoError(t, err)

	plan, err := p.Plan(context.Background(), parseWorkflow(t, doc))
	require.NoError(t, err)
	assert.Equal(t, "hpc", plan.Jobs[0].Site)
	assert.Empty(t, plan.Transfers)
}

func TestPlan_Errors(t *testing.T) {
	unknownHint := `
pegasus: "5.0"
name: bad
jobs:
  - type: job
    name: preprocess
    id: ID1
    profiles:
      hints: {execution.site: mars}
`
	missingReplica := `
pegasus: "5.0"
name: bad
jobs:
  - type: job
    name: preprocess
    id: ID1
    uses: [{lfn: f.zzz, type: input}]
`
	noSite := `
pegasus: "5.0"
name: bad
jobs:
  - type: job
    name: unknown-tool
    id: ID1
`
	p, err := New(testCatalogs(t), Options{})
	require.NoError(t, err)

	_, err = p.Plan(context.Background(), parseWorkflow(t, unknownHint))
	assert.ErrorIs(t, err, ErrUnknownSite)

	_, err = p.Plan(context.Background(), parseWorkflow(t, missingReplica))
	assert.ErrorIs(t, err, ErrNoReplica)

	_, err = p.Plan(context.Background(), parseWorkflow(t, noSite))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no viable site")

	_, err = p.Plan(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoWorkflow)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Plan(ctx, parseWorkflow(t, testWorkflow))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlan_OptionalInputWithoutReplica(t *testing.T) {
	doc := `
pegasus: "5.0"
name: optional
jobs:
  - type: job
    name: preprocess
    id: ID1
    uses: [{lfn: f.zzz, type: input, optional: true}]
`
	p, err := New(testCatalogs(t), Options{})
	require.NoError(t, err)

	plan, err := p.Plan(context.Background(), parseWorkflow(t, doc))
	require.NoError(t, err)
	assert.Empty(t, plan.Transfers)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Catalogs{}, Options{})
	assert.ErrorIs(t, err, ErrNoSites)

	_, err = New(testCatalogs(t), Options{Sites: []string{"mars"}})
	assert.ErrorIs(t, err, ErrUnknownSite)

	_, err = New(testCatalogs(t), Options{SiteSelector: "Nearest"})
	assert.Error(t, err)

	_, err = New(testCatalogs(t), Options{TransformationSelector: "Compiled"})
	assert.Error(t, err)
}

func TestPlan_WithoutCatalogs(t *testing.T) {
	doc := `
pegasus: "5.0"
name: bare
jobs:
  - type: job
    name: a
    id: A
    uses: [{lfn: out.txt, type: output, stageOut: true}]
`
	p, err := New(Catalogs{}, Options{Sites: []string{"s1", "s2"}, SiteSelector: "Random", Seed: 7})
	require.NoError(t, err)

	plan, err := p.Plan(context.Background(), parseWorkflow(t, doc))
	require.NoError(t, err)
	assert.Contains(t, []string{"s1", "s2"}, plan.Jobs[0].Site)
	require.Len(t, plan.Transfers, 1)
	assert.Equal(t, "out.txt", plan.Transfers[0].DestURL)
	assert.Equal(t, types.LocalSiteHandle, plan.Transfers[0].RunSite)
}
