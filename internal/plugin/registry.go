package plugin

import (
	"context"
	"fmt"
	"sort"
	"sync"

	werrors "github.com/flowlattice/workflowcore/pkg/errors"
)

// Registry maps action strings to plugins. Registration is infrequent and
// serialized; resolution is read-mostly and must stay safe against
// concurrent resolves per the concurrency model in §5.
type Registry struct {
	mu         sync.RWMutex
	byAction   map[string]Plugin
	plugins    map[string]Plugin
	actionsOf  map[string][]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byAction:  make(map[string]Plugin),
		plugins:   make(map[string]Plugin),
		actionsOf: make(map[string][]string),
	}
}

// Register adds a plugin, claiming every action in its SupportedActions().
// Two plugins claiming the same action is a configuration error raised at
// registration time, never at dispatch time.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID() == "" {
		return werrors.NewPluginDispatchError("", "plugin id must not be empty", "", nil)
	}
	if _, exists := r.plugins[p.ID()]; exists {
		return werrors.NewPluginDispatchError(p.ID(), fmt.Sprintf("plugin %q already registered", p.ID()), "", nil)
	}

	actions := p.SupportedActions()
	for _, action := range actions {
		if existing, claimed := r.byAction[action]; claimed {
			return werrors.NewPluginDispatchError(action,
				fmt.Sprintf("action %q already claimed by plugin %q (conflicts with %q)", action, existing.ID(), p.ID()), "", nil)
		}
	}

	for _, action := range actions {
		r.byAction[action] = p
	}
	r.plugins[p.ID()] = p
	r.actionsOf[p.ID()] = append([]string(nil), actions...)
	return nil
}

// Resolve returns the plugin registered for the given action.
func (r *Registry) Resolve(action string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byAction[action]
	if !ok {
		return nil, werrors.NewPluginDispatchError(action, fmt.Sprintf("no plugin registered for action %q", action), "", nil)
	}
	return p, nil
}

// GetByID returns the plugin registered under the given plugin id,
// independent of action claims. Used for fallback dispatch, which targets a
// specific plugin rather than an action.
func (r *Registry) GetByID(id string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[id]
	if !ok {
		return nil, werrors.NewPluginDispatchError(id, fmt.Sprintf("no plugin registered with id %q", id), "", nil)
	}
	return p, nil
}

// AllPlugins returns every registered plugin, sorted by id for deterministic
// iteration.
func (r *Registry) AllPlugins() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.plugins))
	for id := range r.plugins {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Plugin, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.plugins[id])
	}
	return out
}

// HealthOf runs the health check for a single registered plugin.
func (r *Registry) HealthOf(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	p, ok := r.plugins[id]
	r.mu.RUnlock()
	if !ok {
		return false, werrors.NewPluginDispatchError(id, fmt.Sprintf("plugin %q not registered", id), "", nil)
	}
	return p.HealthCheck(ctx), nil
}
