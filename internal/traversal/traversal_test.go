package traversal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarmourr/pegasus-sub001/internal/graph"
	"github.com/swarmourr/pegasus-sub001/pkg/types"
)

func chain(t *testing.T, ids ...string) *graph.Graph {
	t.Helper()
	g := graph.New()
	for i, id := range ids {
		require.NoError(t, g.AddJob(types.NewJob(id, "", id, "")))
		if i > 0 {
			require.NoError(t, g.AddDependency(ids[i-1], id))
		}
	}
	return g
}

func TestAssignLevels(t *testing.T) {
	g := chain(t, "a", "b", "c")

	require.NoError(t, AssignLevels(g))

	for i, id := range []string{"a", "b", "c"} {
		j, _ := g.Job(id)
		assert.Equal(t, i, j.Level, id)
	}
}

func TestAssignLevelsRecursesIntoClusters(t *testing.T) {
	inner := chain(t, "x", "y")
	outer := graph.New()
	require.NoError(t, outer.AddJob(types.NewJob("root", "", "root", "")))
	cluster := types.NewClusteredJob("cluster_1", inner)
	require.NoError(t, outer.AddJob(cluster))
	require.NoError(t, outer.AddDependency("root", "cluster_1"))

	require.NoError(t, AssignLevels(outer))

	assert.Equal(t, 1, cluster.Level)
	x, _ := inner.Job("x")
	y, _ := inner.Job("y")
	assert.Equal(t, 0, x.Level)
	assert.Equal(t, 1, y.Level)
}

func TestWalkVisitsInOrder(t *testing.T) {
	g := chain(t, "a", "b", "c")

	var seen []string
	err := Walk(g, func(n *types.Node) error {
		assert.Equal(t, n.Depth, n.Job.Level)
		seen = append(seen, n.Job.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, seen)
}

func TestWalkStopsOnVisitError(t *testing.T) {
	g := chain(t, "a", "b", "c")
	boom := errors.New("boom")

	var seen []string
	err := Walk(g, func(n *types.Node) error {
		seen = append(seen, n.Job.ID)
		if n.Job.ID == "b" {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestWalkPropagatesCycle(t *testing.T) {
	g := chain(t, "a", "b")
	require.NoError(t, g.AddDependency("b", "a"))

	err := AssignLevels(g)
	assert.ErrorIs(t, err, graph.ErrCycle)
}
