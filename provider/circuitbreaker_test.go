package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatterm/model"
	"chatterm/provider/testutil"
)

// namedCompleter gives a testutil mock the Provider identity methods.
type namedCompleter struct {
	*testutil.MockCompleter
}

func (namedCompleter) Name() string  { return "Mock" }
func (namedCompleter) Model() string { return "mock-model" }

func TestCircuitBreakerProvider_PassesThrough(t *testing.T) {
	inner := namedCompleter{testutil.NewMockCompleter("Hi there")}
	cb := NewCircuitBreakerProvider(inner, CircuitBreakerConfig{})

	reply, err := cb.Complete(context.Background(), testutil.SingleUserMessage("Hello"), model.CompletionParams{})
	require.NoError(t, err)
	assert.Equal(t, "Hi there", reply)
	assert.Equal(t, "Mock", cb.Name())
	assert.Equal(t, "mock-model", cb.Model())
	assert.Equal(t, gobreaker.StateClosed, cb.State())
	assert.NoError(t, cb.Close())
}

func TestCircuitBreakerProvider_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := namedCompleter{testutil.NewFailingCompleter("network down")}
	cb := NewCircuitBreakerProvider(inner, CircuitBreakerConfig{MaxFailures: 3, OpenTimeout: time.Minute})

	for range 3 {
		_, err := cb.Complete(context.Background(), testutil.SingleUserMessage("Hello"), model.CompletionParams{})
		require.EqualError(t, err, "network down")
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := cb.Complete(context.Background(), testutil.SingleUserMessage("Hello"), model.CompletionParams{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Contains(t, err.Error(), "Mock unavailable")
	assert.Equal(t, 3, inner.CallCount())
}

func TestCircuitBreakerProvider_CancellationDoesNotTrip(t *testing.T) {
	inner := namedCompleter{testutil.NewMockCompleter("")}
	inner.CompleteFunc = func(ctx context.Context, messages []model.Message, params model.CompletionParams) (string, error) {
		return "", context.Canceled
	}
	cb := NewCircuitBreakerProvider(inner, CircuitBreakerConfig{MaxFailures: 1})

	for range 3 {
		_, err := cb.Complete(context.Background(), testutil.SingleUserMessage("Hello"), model.CompletionParams{})
		require.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
	assert.Equal(t, 3, inner.CallCount())
}
