package plugin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowlattice/workflowcore/internal/model"
)

type stubPlugin struct {
	id      string
	actions []string
}

func (s *stubPlugin) ID() string   { return s.id }
func (s *stubPlugin) Name() string { return s.id }
func (s *stubPlugin) Execute(context.Context, *model.ExecutionContext, map[string]any) (model.PluginExecutionResult, error) {
	return model.PluginExecutionResult{Status: model.PluginStatusSuccess, PluginID: s.id}, nil
}
func (s *stubPlugin) HealthCheck(context.Context) bool   { return true }
func (s *stubPlugin) SupportedActions() []string { return s.actions }

func TestRegistryRejectsConflictingActions(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubPlugin{id: "p1", actions: []string{"run"}}))

	err := r.Register(&stubPlugin{id: "p2", actions: []string{"run"}})
	assert.Error(t, err)
}

func TestRegistryResolveAndList(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubPlugin{id: "p1", actions: []string{"run"}}))
	require.NoError(t, r.Register(&stubPlugin{id: "p2", actions: []string{"deploy"}}))

	p, err := r.Resolve("deploy")
	require.NoError(t, err)
	assert.Equal(t, "p2", p.ID())

	_, err = r.Resolve("unknown")
	assert.Error(t, err)

	all := r.AllPlugins()
	require.Len(t, all, 2)
	assert.Equal(t, "p1", all[0].ID())
	assert.Equal(t, "p2", all[1].ID())
}
