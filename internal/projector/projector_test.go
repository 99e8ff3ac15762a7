package projector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowlattice/workflowcore/internal/model"
)

func arc(t *testing.T, n *model.Net, from, to string, kind model.ArcKind) {
	t.Helper()
	require.NoError(t, n.AddArc(model.Arc{FromID: from, ToID: to, Weight: 1, Kind: kind}))
}

func buildCICDNet(t *testing.T) *model.Net {
	t.Helper()
	n := model.NewNet("cicd", "cicd")
	for _, p := range []string{"p_code", "p_testing", "p_pass", "p_fail", "p_deployed", "p_done"} {
		require.NoError(t, n.AddPlace(model.Place{ID: p, Capacity: model.Unbounded}))
	}
	for _, tr := range []string{"t_run", "t_pass", "t_fail", "t_deploy", "t_notify", "t_finish"} {
		require.NoError(t, n.AddTransition(model.Transition{ID: tr, Action: tr}))
	}
	arc(t, n, "p_code", "t_run", model.ArcPlaceToTransition)
	arc(t, n, "t_run", "p_testing", model.ArcTransitionToPlace)
	arc(t, n, "p_testing", "t_pass", model.ArcPlaceToTransition)
	arc(t, n, "p_testing", "t_fail", model.ArcPlaceToTransition)
	arc(t, n, "t_pass", "p_pass", model.ArcTransitionToPlace)
	arc(t, n, "p_pass", "t_deploy", model.ArcPlaceToTransition)
	arc(t, n, "t_deploy", "p_deployed", model.ArcTransitionToPlace)
	arc(t, n, "p_deployed", "t_finish", model.ArcPlaceToTransition)
	arc(t, n, "t_finish", "p_done", model.ArcTransitionToPlace)
	arc(t, n, "t_fail", "p_fail", model.ArcTransitionToPlace)
	arc(t, n, "p_fail", "t_notify", model.ArcPlaceToTransition)
	arc(t, n, "t_notify", "p_done", model.ArcTransitionToPlace)
	n.InitialMarking = model.NewMarking(map[string]int{"p_code": 1})
	return n
}

func TestProjectCICDNet(t *testing.T) {
	n := buildCICDNet(t)
	dag, err := Project(n)
	require.NoError(t, err)

	assert.Equal(t, "t_run", dag.RootNodeID)
	assert.Equal(t, 6, dag.Len())

	byID := map[string]*model.TaskNode{}
	for _, node := range dag.Nodes() {
		byID[node.ID] = node
	}

	assert.ElementsMatch(t, []string{"t_run"}, byID["t_pass"].DependencyIDs)
	assert.ElementsMatch(t, []string{"t_run"}, byID["t_fail"].DependencyIDs)
	assert.ElementsMatch(t, []string{"t_pass"}, byID["t_deploy"].DependencyIDs)
	assert.ElementsMatch(t, []string{"t_fail"}, byID["t_notify"].DependencyIDs)
	assert.ElementsMatch(t, []string{"t_deploy", "t_notify"}, byID["t_finish"].DependencyIDs)
}

func TestProjectParallelJoin(t *testing.T) {
	n := model.NewNet("parjoin", "parjoin")
	for _, p := range []string{"p_start", "p_warmed", "p_passing", "p_shooting", "p_pdone", "p_sdone", "p_done"} {
		require.NoError(t, n.AddPlace(model.Place{ID: p, Capacity: model.Unbounded}))
	}
	for _, tr := range []string{"t_warm", "t_pass", "t_shoot", "t_cool"} {
		require.NoError(t, n.AddTransition(model.Transition{ID: tr, Action: tr}))
	}
	arc(t, n, "p_start", "t_warm", model.ArcPlaceToTransition)
	arc(t, n, "t_warm", "p_passing", model.ArcTransitionToPlace)
	arc(t, n, "t_warm", "p_shooting", model.ArcTransitionToPlace)
	arc(t, n, "p_passing", "t_pass", model.ArcPlaceToTransition)
	arc(t, n, "t_pass", "p_pdone", model.ArcTransitionToPlace)
	arc(t, n, "p_shooting", "t_shoot", model.ArcPlaceToTransition)
	arc(t, n, "t_shoot", "p_sdone", model.ArcTransitionToPlace)
	arc(t, n, "p_pdone", "t_cool", model.ArcPlaceToTransition)
	arc(t, n, "p_sdone", "t_cool", model.ArcPlaceToTransition)
	n.InitialMarking = model.NewMarking(map[string]int{"p_start": 1})

	dag, err := Project(n)
	require.NoError(t, err)

	assert.Equal(t, "t_warm", dag.RootNodeID)
	cool, _ := dag.Node("t_cool")
	assert.ElementsMatch(t, []string{"t_pass", "t_shoot"}, cool.DependencyIDs)
}

func TestProjectIsDeterministic(t *testing.T) {
	n := buildCICDNet(t)
	d1, err := Project(n)
	require.NoError(t, err)
	d2, err := Project(n)
	require.NoError(t, err)

	assert.Equal(t, d1.RootNodeID, d2.RootNodeID)
	for _, node := range d1.Nodes() {
		other, ok := d2.Node(node.ID)
		require.True(t, ok)
		assert.Equal(t, node.DependencyIDs, other.DependencyIDs)
	}
}
