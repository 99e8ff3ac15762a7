package plugins

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret, payload []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookVerifySignature(t *testing.T) {
	secret := []byte("shh")
	w := NewWebhook("wh", secret, []string{"notify"}, []string{"push"})

	payload := []byte(`{"ref":"main"}`)
	assert.True(t, w.VerifySignature(payload, sign(secret, payload)))
	assert.False(t, w.VerifySignature(payload, sign([]byte("wrong"), payload)))
	assert.False(t, w.VerifySignature(payload, "not-hex-garbage"))
}

func TestWebhookProcessEvent(t *testing.T) {
	w := NewWebhook("wh", []byte("shh"), nil, []string{"push"})

	result, err := w.ProcessEvent(context.Background(), "push", []byte(`{"ref":"main"}`))
	require.NoError(t, err)
	assert.Equal(t, "SUCCESS", string(result.Status))
	assert.Equal(t, "push", result.Result["eventType"])

	result, err = w.ProcessEvent(context.Background(), "push", []byte(`not json`))
	require.NoError(t, err)
	assert.Equal(t, "FAILURE", string(result.Status))
	assert.Equal(t, "VALIDATION", string(result.ErrorCategory))
}
