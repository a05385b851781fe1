package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarmourr/pegasus-sub001/internal/graph"
	"github.com/swarmourr/pegasus-sub001/internal/keywords"
	"github.com/swarmourr/pegasus-sub001/pkg/types"
)

const diamond = `
pegasus: "5.0"
name: diamond
metadata:
  owner: alice
jobs:
  - type: job
    namespace: diamond
    name: preprocess
    version: "4.0"
    id: ID0000001
    arguments: [-a, preprocess, -i, f.a]
    uses:
      - lfn: f.a
        type: input
      - lfn: f.b1
        type: output
        stageOut: false
        registerReplica: false
        size: 1024
    profiles:
      pegasus:
        label: cluster-1
        runtime: 30
      hints:
        execution.site: condorpool
  - type: job
    name: findrange
    id: ID0000002
    nodeLabel: left
    uses:
      - lfn: f.b1
        type: input
      - lfn: f.c1
        type: output
        stageOut: true
  - type: job
    name: analyze
    id: ID0000003
    uses:
      - lfn: f.c1
        type: input
      - lfn: f.d
        type: output
        stageOut: true
        registerReplica: true
jobDependencies:
  - id: ID0000001
    children: [ID0000002]
  - id: ID0000002
    children: [ID0000003]
`

func TestParse_Diamond(t *testing.T) {
	wf, err := NewYAMLParser().Parse([]byte(diamond))
	require.NoError(t, err)

	assert.Equal(t, "5.0", wf.Pegasus)
	assert.Equal(t, "diamond", wf.Name)
	assert.Equal(t, map[string]string{"owner": "alice"}, wf.Metadata)
	require.Equal(t, 3, wf.Graph.Len())

	pre, ok := wf.Graph.Job("ID0000001")
	require.True(t, ok)
	assert.Equal(t, "diamond::preprocess:4.0", pre.TransformationName())
	assert.Equal(t, []string{"-a", "preprocess", "-i", "f.a"}, pre.Arguments)
	require.Len(t, pre.Uses, 2)
	assert.Equal(t, types.LinkInput, pre.Uses[0].Type)
	assert.Equal(t, int64(1024), pre.Uses[1].Size)
	assert.Equal(t, "cluster-1", pre.Profiles.Namespace(types.PegasusNamespace)[types.LabelKey])
	assert.Equal(t, "30", pre.Profiles.Namespace(types.PegasusNamespace)[types.RuntimeKey])

	site, ok := pre.ExecutionSiteHint()
	require.True(t, ok)
	assert.Equal(t, "condorpool", site)
	assert.Empty(t, pre.Profiles.Namespace(types.HintsNamespace), "hints are not kept as profiles")

	mid, _ := wf.Graph.Job("ID0000002")
	assert.Equal(t, "left", mid.NodeLabel)
	assert.Equal(t, []string{"ID0000001"}, wf.Graph.Parents("ID0000002"))
	assert.Equal(t, []string{"ID0000003"}, wf.Graph.Children("ID0000002"))
}

func TestParse_InlineCatalogs(t *testing.T) {
	doc := `
pegasus: "5.0"
name: inline
replicaCatalog:
  pegasus: "5.0"
  replicas: []
x-pegasus:
  apiLang: python
jobs:
  - type: job
    name: ls
    id: j1
`
	wf, err := NewYAMLParser().Parse([]byte(doc))
	require.NoError(t, err)
	require.Contains(t, wf.Catalogs, keywords.WorkflowReplicaCatalog)
	assert.NotContains(t, wf.Catalogs, keywords.WorkflowSiteCatalog)
}

func TestParse_UnknownKeyHasLocation(t *testing.T) {
	doc := "pegasus: \"5.0\"\nname: bad\njobs:\n  - type: job\n    name: ls\n    id: j1\n    colour: red\n"
	_, err := NewYAMLParser().Parse([]byte(doc))
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 7, pe.Line)
	assert.Equal(t, 5, pe.Column)
	assert.Contains(t, pe.Message, "colour")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"empty", "", "empty workflow document"},
		{"not a mapping", "- a\n- b\n", "workflow must be a mapping"},
		{"missing version", "name: x\njobs: [{type: job, name: a, id: a}]\n", "schema version is required"},
		{"missing name", "pegasus: '5.0'\njobs: [{type: job, name: a, id: a}]\n", "workflow name is required"},
		{"no jobs", "pegasus: '5.0'\nname: x\n", "at least one job"},
		{"empty jobs", "pegasus: '5.0'\nname: x\njobs: []\n", "at least one job"},
		{"bad job type", "pegasus: '5.0'\nname: x\njobs: [{type: pegasusWorkflow, name: a, id: a}]\n", "unsupported job type"},
		{"missing id", "pegasus: '5.0'\nname: x\njobs: [{type: job, name: a}]\n", "job id is required"},
		{"duplicate id", "pegasus: '5.0'\nname: x\njobs: [{type: job, name: a, id: a}, {type: job, name: b, id: a}]\n", "duplicate"},
		{"bad link", "pegasus: '5.0'\nname: x\njobs: [{type: job, name: a, id: a, uses: [{lfn: f, type: sideways}]}]\n", "unknown link type"},
		{"bad bool", "pegasus: '5.0'\nname: x\njobs: [{type: job, name: a, id: a, uses: [{lfn: f, type: output, stageOut: maybe}]}]\n", "must be a boolean"},
		{"unknown child", "pegasus: '5.0'\nname: x\njobs: [{type: job, name: a, id: a}]\njobDependencies: [{id: a, children: [b]}]\n", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewYAMLParser().Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse_DependencyErrorsUnwrap(t *testing.T) {
	doc := "pegasus: '5.0'\nname: x\njobs: [{type: job, name: a, id: a}]\njobDependencies: [{id: a, children: [a]}]\n"
	_, err := NewYAMLParser().Parse([]byte(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, graph.ErrSelfDependency)
}

func TestParseFile_Missing(t *testing.T) {
	_, err := NewYAMLParser().ParseFile("/nonexistent/workflow.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestErrors_Format(t *testing.T) {
	assert.Equal(t, "parse error at line 3, column 4: boom", NewParseError(3, 4, "boom", nil).Error())
	assert.Equal(t, "parse error at line 3: boom", NewParseError(3, 0, "boom", nil).Error())
	assert.Equal(t, "parse error: boom", NewParseError(0, 0, "boom", nil).Error())
	assert.Equal(t, "validation error for field 'name': missing", NewValidationError("name", "missing").Error())
	assert.Equal(t, "validation error: missing", NewValidationError("", "missing").Error())
}
