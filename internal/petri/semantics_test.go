package petri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowlattice/workflowcore/internal/model"
)

// buildCICDNet constructs scenario 1 from the testable-properties table: a
// CI/CD pipeline with a pass/fail split that rejoins at p_done.
func buildCICDNet(t *testing.T) *model.Net {
	t.Helper()
	n := model.NewNet("cicd", "cicd")
	places := []string{"p_code", "p_testing", "p_pass", "p_fail", "p_deployed", "p_done"}
	for _, p := range places {
		require.NoError(t, n.AddPlace(model.Place{ID: p, Capacity: model.Unbounded}))
	}
	transitions := []string{"t_run", "t_pass", "t_fail", "t_deploy", "t_notify", "t_finish"}
	for _, tr := range transitions {
		require.NoError(t, n.AddTransition(model.Transition{ID: tr, Action: tr}))
	}

	arc := func(from, to string, kind model.ArcKind) {
		require.NoError(t, n.AddArc(model.Arc{FromID: from, ToID: to, Weight: 1, Kind: kind}))
	}
	arc("p_code", "t_run", model.ArcPlaceToTransition)
	arc("t_run", "p_testing", model.ArcTransitionToPlace)
	arc("p_testing", "t_pass", model.ArcPlaceToTransition)
	arc("p_testing", "t_fail", model.ArcPlaceToTransition)
	arc("t_pass", "p_pass", model.ArcTransitionToPlace)
	arc("p_pass", "t_deploy", model.ArcPlaceToTransition)
	arc("t_deploy", "p_deployed", model.ArcTransitionToPlace)
	arc("p_deployed", "t_finish", model.ArcPlaceToTransition)
	arc("t_finish", "p_done", model.ArcTransitionToPlace)
	arc("t_fail", "p_fail", model.ArcTransitionToPlace)
	arc("p_fail", "t_notify", model.ArcPlaceToTransition)
	arc("t_notify", "p_done", model.ArcTransitionToPlace)

	n.InitialMarking = model.NewMarking(map[string]int{"p_code": 1})
	return n
}

func TestEnabledAtInitialMarking(t *testing.T) {
	n := buildCICDNet(t)
	enabled := EnabledTransitions(n, n.InitialMarking)
	assert.Equal(t, []string{"t_run"}, enabled)
}

func TestFireAdvancesMarking(t *testing.T) {
	n := buildCICDNet(t)
	tr, _ := n.Transition("t_run")
	m2 := Fire(n, tr, n.InitialMarking)
	assert.Equal(t, 0, m2.Get("p_code"))
	assert.Equal(t, 1, m2.Get("p_testing"))

	enabled := EnabledTransitions(n, m2)
	assert.Equal(t, []string{"t_pass", "t_fail"}, enabled)
}

func TestIsTerminalRequiresDonePlace(t *testing.T) {
	n := buildCICDNet(t)
	assert.False(t, IsTerminal(n, n.InitialMarking))

	done := model.NewMarking(map[string]int{"p_done": 1})
	assert.True(t, IsTerminal(n, done))
}

func TestIsTerminalDoesNotTreatNoEnabledAsDone(t *testing.T) {
	// A marking with no enabled transitions that never reached p_done is a
	// deadlock, not a terminal marking — the two must stay distinguishable
	// or the Deadlock check could never fire (see DESIGN.md).
	n := model.NewNet("stuck", "stuck")
	require.NoError(t, n.AddPlace(model.Place{ID: "p_isolated", Capacity: model.Unbounded}))
	require.NoError(t, n.AddPlace(model.Place{ID: "p_done", Capacity: model.Unbounded}))
	require.NoError(t, n.AddTransition(model.Transition{ID: "t_unused"}))
	require.NoError(t, n.AddArc(model.Arc{FromID: "p_done", ToID: "t_unused", Weight: 1, Kind: model.ArcPlaceToTransition}))

	stuck := model.NewMarking(map[string]int{"p_isolated": 1})
	assert.Empty(t, EnabledTransitions(n, stuck))
	assert.False(t, IsTerminal(n, stuck))
}

func TestCapacityBlocksFiring(t *testing.T) {
	n := model.NewNet("cap", "cap")
	require.NoError(t, n.AddPlace(model.Place{ID: "p_in", Capacity: model.Unbounded}))
	require.NoError(t, n.AddPlace(model.Place{ID: "p_out", Capacity: 0}))
	require.NoError(t, n.AddTransition(model.Transition{ID: "t"}))
	require.NoError(t, n.AddArc(model.Arc{FromID: "p_in", ToID: "t", Weight: 1, Kind: model.ArcPlaceToTransition}))
	require.NoError(t, n.AddArc(model.Arc{FromID: "t", ToID: "p_out", Weight: 1, Kind: model.ArcTransitionToPlace}))

	m := model.NewMarking(map[string]int{"p_in": 1})
	tr, _ := n.Transition("t")
	assert.False(t, Enabled(n, tr, m))
}

func TestBuildFromIntentWiresDependencies(t *testing.T) {
	spec := model.IntentSpec{
		Name: "demo",
		Steps: []model.IntentStep{
			{ID: "a", Type: model.IntentStepAction},
			{ID: "b", Type: model.IntentStepAction, Dependencies: []string{"a"}},
		},
	}
	n, err := BuildFromIntent(spec)
	require.NoError(t, err)

	enabled := EnabledTransitions(n, n.InitialMarking)
	assert.Equal(t, []string{"a"}, enabled)

	trA, _ := n.Transition("a")
	m2 := Fire(n, trA, n.InitialMarking)
	assert.Equal(t, []string{"b"}, EnabledTransitions(n, m2))
}
