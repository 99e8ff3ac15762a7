package plugins

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/flowlattice/workflowcore/internal/model"
	"github.com/flowlattice/workflowcore/internal/plugin"
)

var _ plugin.WebhookPlugin = (*Webhook)(nil)

// Webhook implements plugin.WebhookPlugin: it dispatches like any other
// plugin for DAG node actions, and additionally accepts inbound events after
// verifying an HMAC-SHA256 signature over a shared secret (see DESIGN.md for
// why this stays on stdlib crypto/hmac rather than a third-party library).
type Webhook struct {
	id      string
	secret  []byte
	actions []string
	events  []string
}

// NewWebhook returns a Webhook plugin that verifies signatures against
// secret and claims the given dispatch actions and inbound event types.
func NewWebhook(id string, secret []byte, actions, events []string) *Webhook {
	return &Webhook{id: id, secret: secret, actions: actions, events: events}
}

func (p *Webhook) ID() string   { return p.id }
func (p *Webhook) Name() string { return "webhook" }

func (p *Webhook) Execute(_ context.Context, _ *model.ExecutionContext, params map[string]any) (model.PluginExecutionResult, error) {
	return model.PluginExecutionResult{
		Status:   model.PluginStatusSuccess,
		Result:   map[string]any{"dispatched": params},
		PluginID: p.id,
	}, nil
}

func (p *Webhook) HealthCheck(_ context.Context) bool { return len(p.secret) > 0 }

func (p *Webhook) SupportedActions() []string { return append([]string(nil), p.actions...) }

func (p *Webhook) SupportedEvents() []string { return append([]string(nil), p.events...) }

// VerifySignature reports whether signature is the lowercase-hex
// HMAC-SHA256 of payload under the plugin's secret, using a constant-time
// comparison to avoid timing side channels.
func (p *Webhook) VerifySignature(payload []byte, signature string) bool {
	mac := hmac.New(sha256.New, p.secret)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ProcessEvent decodes payload as a JSON object and reports it as a
// successful plugin result carrying the event type and decoded body; the
// caller is expected to have verified the signature first via
// VerifySignature.
func (p *Webhook) ProcessEvent(_ context.Context, eventType string, payload []byte) (model.PluginExecutionResult, error) {
	var body map[string]any
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &body); err != nil {
			return model.PluginExecutionResult{
				Status:        model.PluginStatusFailure,
				ErrorCategory: model.ErrorTypeValidation,
				ErrorMessage:  fmt.Sprintf("invalid webhook payload: %v", err),
				PluginID:      p.id,
			}, nil
		}
	}
	return model.PluginExecutionResult{
		Status:   model.PluginStatusSuccess,
		Result:   map[string]any{"eventType": eventType, "body": body},
		PluginID: p.id,
	}, nil
}
