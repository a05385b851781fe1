package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarmourr/pegasus-sub001/internal/planner"
	"github.com/swarmourr/pegasus-sub001/internal/util"
)

const inlineWorkflow = `
pegasus: "5.0"
name: inline
siteCatalog:
  pegasus: "5.0"
  sites:
    - name: local
      directories:
        - {type: sharedScratch, path: /tmp/local}
    - name: condorpool
      directories:
        - {type: sharedScratch, path: /scratch}
transformationCatalog:
  pegasus: "5.0"
  transformations:
    - name: keg
      sites:
        - {name: condorpool, pfn: /usr/bin/keg, type: installed}
replicaCatalog:
  pegasus: "5.0"
  replicas:
    - lfn: f.in
      pfns:
        - {site: local, pfn: /data/f.in}
jobs:
  - type: job
    name: keg
    id: ID1
    uses:
      - {lfn: f.in, type: input}
      - {lfn: f.out, type: output, stageOut: true}
`

func resetFlags() {
	cfgFile, debug, quiet = "", false, false
	planSiteCatalog, planTransformationCatalog, planReplicaCatalog = "", "", ""
	planSiteSelector, planOutputSite, planOutput = "", "", ""
	planSites, planOverrides = nil, nil
	planCluster, planSeed = false, 0
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var out bytes.Buffer
	root := GetRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPlanCommand_InlineCatalogs(t *testing.T) {
	dir := t.TempDir()
	wfPath := filepath.Join(dir, "workflow.yml")
	require.NoError(t, os.WriteFile(wfPath, []byte(inlineWorkflow), 0644))
	outPath := filepath.Join(dir, "plan.json")

	_, err := execute(t, "plan", "--quiet", "-o", outPath, wfPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	plan, err := util.FromJSONBytes[planner.Plan](data)
	require.NoError(t, err)

	assert.Equal(t, "inline", plan.Workflow)
	require.Len(t, plan.Jobs, 1)
	assert.Equal(t, "condorpool", plan.Jobs[0].Site)
	require.Len(t, plan.Transfers, 2)
	assert.Equal(t, "stage_in", plan.Transfers[0].TypeName)
	// condorpool scratch is a file URL only the remote site can reach
	assert.Equal(t, "condorpool", plan.Transfers[0].RunSite)
	assert.Equal(t, "stage_out", plan.Transfers[1].TypeName)
	assert.Equal(t, "file:///tmp/local/f.out", plan.Transfers[1].DestURL)
}

func TestPlanCommand_StdoutAndOverrides(t *testing.T) {
	wfPath := filepath.Join(t.TempDir(), "workflow.yml")
	require.NoError(t, os.WriteFile(wfPath, []byte(inlineWorkflow), 0644))

	out, err := execute(t, "plan", "--quiet", "--set", "transfer.location_preference=local", wfPath)
	require.NoError(t, err)

	plan, err := util.FromJSONBytes[planner.Plan]([]byte(out))
	require.NoError(t, err)
	require.Len(t, plan.Transfers, 2)
	assert.Equal(t, "local", plan.Transfers[0].RunSite)
}

func TestPlanCommand_Errors(t *testing.T) {
	_, err := execute(t, "plan")
	assert.Error(t, err)

	_, err = execute(t, "plan", "--quiet", "/nonexistent/workflow.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse workflow")

	wfPath := filepath.Join(t.TempDir(), "workflow.yml")
	require.NoError(t, os.WriteFile(wfPath, []byte(inlineWorkflow), 0644))

	_, err = execute(t, "plan", "--quiet", "--set", "broken", wfPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --set")

	_, err = execute(t, "plan", "--quiet", "--site-selector", "Nearest", wfPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "planner.site_selector")

	_, err = execute(t, "plan", "--quiet", "-s", "mars", wfPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mars")
}

func TestKeywordsCommand(t *testing.T) {
	out, err := execute(t, "keywords")
	require.NoError(t, err)
	assert.Contains(t, out, "jobDependencies")
	assert.Contains(t, out, "x-pegasus")

	out, err = execute(t, "keywords", "replica")
	require.NoError(t, err)
	assert.Contains(t, out, "sha256")
	assert.NotContains(t, out, "jobDependencies")

	_, err = execute(t, "keywords", "site")
	assert.Error(t, err)
}
