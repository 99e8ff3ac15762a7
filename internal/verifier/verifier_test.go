package verifier

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

func TestVerifyCICDHappyPath(t *testing.T) {
	n := buildCICDNet(t)
	report := Verify(n, model.DefaultValidationConfig())

	assert.Equal(t, model.StatusPass, report.Status)
	for _, c := range model.AllChecks {
		if c == model.CheckStructural {
			continue
		}
		assert.Equal(t, model.StatusPass, report.Checks[c].Status, "check %s", c)
	}
	assert.LessOrEqual(t, report.StatesExplored, 8)
}

// buildParallelJoinNet constructs scenario 2: a fork into two independent
// branches that rejoin at a single join transition.
func buildParallelJoinNet(t *testing.T, includeShoot bool) *model.Net {
	t.Helper()
	n := model.NewNet("parjoin", "parjoin")
	places := []string{"p_start", "p_warmed", "p_passing", "p_shooting", "p_pdone", "p_sdone", "p_done"}
	for _, p := range places {
		require.NoError(t, n.AddPlace(model.Place{ID: p, Capacity: model.Unbounded}))
	}
	transitions := []string{"t_warm", "t_pass"}
	if includeShoot {
		transitions = append(transitions, "t_shoot")
	}
	transitions = append(transitions, "t_cool")
	for _, tr := range transitions {
		require.NoError(t, n.AddTransition(model.Transition{ID: tr, Action: tr}))
	}

	arc(t, n, "p_start", "t_warm", model.ArcPlaceToTransition)
	arc(t, n, "t_warm", "p_warmed", model.ArcTransitionToPlace)
	arc(t, n, "t_warm", "p_passing", model.ArcTransitionToPlace)
	arc(t, n, "t_warm", "p_shooting", model.ArcTransitionToPlace)
	arc(t, n, "p_passing", "t_pass", model.ArcPlaceToTransition)
	arc(t, n, "t_pass", "p_pdone", model.ArcTransitionToPlace)
	if includeShoot {
		arc(t, n, "p_shooting", "t_shoot", model.ArcPlaceToTransition)
		arc(t, n, "t_shoot", "p_sdone", model.ArcTransitionToPlace)
		arc(t, n, "p_pdone", "t_cool", model.ArcPlaceToTransition)
		arc(t, n, "p_sdone", "t_cool", model.ArcPlaceToTransition)
	} else {
		arc(t, n, "p_pdone", "t_cool", model.ArcPlaceToTransition)
		arc(t, n, "p_sdone", "t_cool", model.ArcPlaceToTransition)
	}
	arc(t, n, "t_cool", "p_done", model.ArcTransitionToPlace)

	n.InitialMarking = model.NewMarking(map[string]int{"p_start": 1})
	return n
}

func TestVerifyParallelJoinPasses(t *testing.T) {
	n := buildParallelJoinNet(t, true)
	report := Verify(n, model.DefaultValidationConfig())
	assert.Equal(t, model.StatusPass, report.Status)
	assert.Nil(t, report.Counterexample)
}

func TestVerifyDeadlockScenario(t *testing.T) {
	n := buildParallelJoinNet(t, false)
	report := Verify(n, model.DefaultValidationConfig())

	assert.Equal(t, model.StatusFail, report.Status)
	assert.Equal(t, model.StatusFail, report.Checks[model.CheckDeadlock].Status)
	require.NotNil(t, report.Counterexample)
	assert.Equal(t, 1, report.Counterexample.FailingMarking["p_shooting"])
	assert.Equal(t, 1, report.Counterexample.FailingMarking["p_pdone"])
	assert.Equal(t, []string{"t_warm", "t_pass"}, report.Counterexample.PathToFailure)
}

// buildCounterNet constructs scenario 4: an unbounded self-loop place that
// keeps producing new markings forever, to exercise INCONCLUSIVE_BOUND.
func buildCounterNet(t *testing.T) *model.Net {
	t.Helper()
	n := model.NewNet("counter", "counter")
	require.NoError(t, n.AddPlace(model.Place{ID: "p_count", Capacity: model.Unbounded}))
	require.NoError(t, n.AddTransition(model.Transition{ID: "t_inc", Action: "t_inc"}))
	arc(t, n, "p_count", "t_inc", model.ArcPlaceToTransition)
	require.NoError(t, n.AddArc(model.Arc{FromID: "t_inc", ToID: "p_count", Weight: 2, Kind: model.ArcTransitionToPlace}))
	// t_inc both consumes and produces p_count at different weights so each
	// firing yields a strictly new marking (net token gain of 1 per firing).
	n.InitialMarking = model.NewMarking(map[string]int{"p_count": 1})
	return n
}

func TestVerifyInconclusiveByBound(t *testing.T) {
	n := buildCounterNet(t)
	// With weight 1 in and weight 2 out, each firing nets +1 token, so the
	// state space is infinite and bound-limited exploration never settles.
	n2 := model.NewNet("counter2", "counter2")
	require.NoError(t, n2.AddPlace(model.Place{ID: "p_count", Capacity: model.Unbounded}))
	require.NoError(t, n2.AddTransition(model.Transition{ID: "t_inc", Action: "t_inc"}))
	require.NoError(t, n2.AddArc(model.Arc{FromID: "p_count", ToID: "t_inc", Weight: 1, Kind: model.ArcPlaceToTransition}))
	require.NoError(t, n2.AddArc(model.Arc{FromID: "t_inc", ToID: "p_count", Weight: 2, Kind: model.ArcTransitionToPlace}))
	n2.InitialMarking = model.NewMarking(map[string]int{"p_count": 1})

	cfg := model.DefaultValidationConfig()
	cfg.KBound = 50
	cfg.EnabledChecks = []model.CheckType{model.CheckReachability}
	report := Verify(n2, cfg)

	assert.Equal(t, model.StatusInconclusiveBound, report.Checks[model.CheckReachability].Status)
	assert.Equal(t, model.StatusInconclusiveBound, report.Status)
	assert.Equal(t, 50, report.StatesExplored)
	assert.NotEmpty(t, report.Hints)
	_ = n
}

func TestKBoundOneExploresExactlyOneState(t *testing.T) {
	n := buildCICDNet(t)
	cfg := model.DefaultValidationConfig()
	cfg.KBound = 1
	report := Verify(n, cfg)
	assert.Equal(t, 1, report.StatesExplored)
}
