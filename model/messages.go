package model

// Intent is a user action handled by the Controller.
// The set of implementations is closed; the Controller switches over all of them.
type Intent interface {
	isIntent()
}

// UpdateInput replaces the draft input.
type UpdateInput struct {
	Text string
}

// Send submits the draft input as a user message.
type Send struct{}

// ClearChat empties the transcript and clears the last error.
type ClearChat struct{}

// UpdateSetting applies a single settings change and persists the result.
type UpdateSetting struct {
	Update SettingUpdate
}

// ToggleSettingsPanel shows or hides the settings panel.
type ToggleSettingsPanel struct{}

// CheckConnection sends a fixed probe message to verify the completion service is reachable.
type CheckConnection struct{}

func (UpdateInput) isIntent()         {}
func (Send) isIntent()                {}
func (ClearChat) isIntent()           {}
func (UpdateSetting) isIntent()       {}
func (ToggleSettingsPanel) isIntent() {}
func (CheckConnection) isIntent()     {}

// completionResult is posted back to the Controller loop when a Send finishes.
type completionResult struct {
	requestID  string
	generation uint64
	content    string
	err        error
}

// connectionResult is posted back to the Controller loop when a CheckConnection finishes.
type connectionResult struct {
	content string
	err     error
}
