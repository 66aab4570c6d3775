package model

import (
	"context"
	"errors"
)

// Completer abstracts the remote chat-completion call.
//
// This interface is defined in the model package (not the provider package) so provider
// implementations can import model without an import cycle.
type Completer interface {
	// Complete sends the ordered messages and returns the generated assistant text.
	// An empty or missing completion must be reported as an error wrapping ErrEmptyCompletion.
	Complete(ctx context.Context, messages []Message, params CompletionParams) (string, error)
}

// CompletionParams carries generation parameters alongside the transcript.
type CompletionParams struct {
	// MaxTokens is nil when no cap was configured. The Completer decides what
	// "unlimited" means for its API.
	MaxTokens   *int
	Temperature float64
	// Structured asks the backend for JSON output when it supports a JSON mode.
	Structured bool
}

// SettingsStore loads and saves Settings.
type SettingsStore interface {
	// Load returns DefaultSettings when nothing has been persisted.
	Load() (Settings, error)
	Save(settings Settings) error
}

// ErrEmptyCompletion is returned when the backend produced no choices or no content.
var ErrEmptyCompletion = errors.New("empty response from completion service")

// UnknownErrorMessage is shown when a failure carries no description.
const UnknownErrorMessage = "Unknown error"

// FailureMessage converts an error into the text surfaced as ConversationState.LastError.
func FailureMessage(err error) string {
	if err == nil {
		return UnknownErrorMessage
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return UnknownErrorMessage
}
