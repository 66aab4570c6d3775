package model

import "slices"

// ConnectionStatus describes the outcome of the last CheckConnection.
type ConnectionStatus string

const (
	ConnectionIdle     ConnectionStatus = "idle"
	ConnectionChecking ConnectionStatus = "checking"
	ConnectionOK       ConnectionStatus = "ok"
	ConnectionFailed   ConnectionStatus = "failed"
)

// State is an immutable snapshot of the conversation.
//
// The Controller never mutates a published State; each transition builds a new value.
// Transcript never contains the synthetic system message.
type State struct {
	Transcript   []Message
	Draft        string
	Busy         bool
	LastError    string // empty when there is no error
	Settings     Settings
	PanelVisible bool

	Connection      ConnectionStatus
	ConnectionReply string // reply text on ConnectionOK, error text on ConnectionFailed
}

// NewState returns the initial snapshot for a session seeded with settings.
func NewState(settings Settings) State {
	return State{
		Settings:   settings,
		Connection: ConnectionIdle,
	}
}

// HasError reports whether a failure is currently shown.
func (s State) HasError() bool {
	return s.LastError != ""
}

// LastAssistantMessage returns the most recent assistant message, if any.
func (s State) LastAssistantMessage() (Message, bool) {
	for i := len(s.Transcript) - 1; i >= 0; i-- {
		if s.Transcript[i].Role == RoleAssistant {
			return s.Transcript[i], true
		}
	}
	return Message{}, false
}

// withMessage returns a copy of s with msg appended to a fresh transcript slice.
func (s State) withMessage(msg Message) State {
	s.Transcript = append(slices.Clip(s.Transcript), msg)
	return s
}
