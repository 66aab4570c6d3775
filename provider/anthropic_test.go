package provider

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatterm/model"
	"chatterm/provider/testutil"
)

func TestAnthropicProvider_Complete(t *testing.T) {
	srv, bodies := chatServer(t, http.StatusOK, `{
		"id": "msg_1",
		"type": "message",
		"role": "assistant",
		"model": "claude-sonnet-4-5-20250929",
		"content": [{"type": "text", "text": "Hi there"}],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 5, "output_tokens": 2}
	}`)

	p, err := NewAnthropicProvider(srv.URL, "test-key", "", srv.Client())
	require.NoError(t, err)

	reply, err := p.Complete(context.Background(), testutil.TestMessages(), model.CompletionParams{Temperature: 1.8})
	require.NoError(t, err)
	assert.Equal(t, "Hi there", reply)

	require.Len(t, *bodies, 1)
	body := (*bodies)[0]
	assert.Equal(t, float64(unlimitedTokenCap), body["max_tokens"])
	assert.Equal(t, 1.0, body["temperature"])

	system, ok := body["system"].([]any)
	require.True(t, ok)
	require.Len(t, system, 1)
	assert.Equal(t, model.DefaultSystemPrompt, system[0].(map[string]any)["text"])

	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, messages, 3)
}

func TestAnthropicProvider_EmptyContent(t *testing.T) {
	srv, _ := chatServer(t, http.StatusOK, `{
		"id": "msg_1", "type": "message", "role": "assistant", "model": "claude",
		"content": [], "stop_reason": "end_turn", "usage": {"input_tokens": 1, "output_tokens": 0}
	}`)

	p, err := NewAnthropicProvider(srv.URL, "test-key", "", srv.Client())
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), testutil.SingleUserMessage("Hello"), model.CompletionParams{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrEmptyCompletion))
}
