package model

import (
	"math"
	"strconv"
	"strings"
)

// PromptMode selects how the system message is produced at send time.
type PromptMode string

const (
	// PromptModeFreeForm sends the user-edited SystemPrompt as-is.
	PromptModeFreeForm PromptMode = "free_form"
	// PromptModeTemplated assembles the system message from PromptTemplates.
	PromptModeTemplated PromptMode = "templated"
)

// ResponseFormat selects the suffix block used in templated mode.
type ResponseFormat string

const (
	ResponseFormatPlain      ResponseFormat = "plain"
	ResponseFormatStructured ResponseFormat = "structured"
)

const (
	DefaultSystemPrompt = "You are a helpful assistant"
	DefaultStopWord     = "stop"
	DefaultTemperature  = 1.0

	MinTemperature = 0.0
	MaxTemperature = 2.0
)

// Settings describes the tunable generation parameters.
//
// Settings is a value type. Apply returns a new value and never mutates the receiver.
// MaxTokensRaw is the persisted form; use MaxTokens for the derived cap.
type Settings struct {
	PromptMode     PromptMode
	SystemPrompt   string
	StopWord       string
	ResponseFormat ResponseFormat
	MaxTokensRaw   string
	Temperature    float64
}

// DefaultSettings returns the settings used when nothing has been persisted.
func DefaultSettings() Settings {
	return Settings{
		PromptMode:     PromptModeFreeForm,
		SystemPrompt:   DefaultSystemPrompt,
		StopWord:       DefaultStopWord,
		ResponseFormat: ResponseFormatPlain,
		MaxTokensRaw:   "",
		Temperature:    DefaultTemperature,
	}
}

// MaxTokens returns the token cap parsed from MaxTokensRaw, or nil for no limit.
func (s Settings) MaxTokens() *int {
	return ParseMaxTokens(s.MaxTokensRaw)
}

// Structured reports whether replies are expected as structured JSON objects.
func (s Settings) Structured() bool {
	return s.PromptMode == PromptModeTemplated && s.ResponseFormat == ResponseFormatStructured
}

// CompletionParams derives the generation parameters sent with a request.
func (s Settings) CompletionParams() CompletionParams {
	return CompletionParams{
		MaxTokens:   s.MaxTokens(),
		Temperature: s.Temperature,
		Structured:  s.Structured(),
	}
}

// ParseMaxTokens parses raw as a base-10 integer.
// It returns nil (unlimited) when raw is empty or not a valid integer.
func ParseMaxTokens(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

// ParsePromptMode maps a persisted identifier to a PromptMode.
// Unknown identifiers yield the default mode and false.
func ParsePromptMode(id string) (PromptMode, bool) {
	switch PromptMode(id) {
	case PromptModeFreeForm, PromptModeTemplated:
		return PromptMode(id), true
	default:
		return PromptModeFreeForm, false
	}
}

// ParseResponseFormat maps a persisted identifier to a ResponseFormat.
// Unknown identifiers yield the default format and false.
func ParseResponseFormat(id string) (ResponseFormat, bool) {
	switch ResponseFormat(id) {
	case ResponseFormatPlain, ResponseFormatStructured:
		return ResponseFormat(id), true
	default:
		return ResponseFormatPlain, false
	}
}

// Next returns the other prompt mode.
func (m PromptMode) Next() PromptMode {
	if m == PromptModeTemplated {
		return PromptModeFreeForm
	}
	return PromptModeTemplated
}

// Next returns the other response format.
func (f ResponseFormat) Next() ResponseFormat {
	if f == ResponseFormatStructured {
		return ResponseFormatPlain
	}
	return ResponseFormatStructured
}

// SettingUpdate is a single field change applied with Settings.Apply.
// The set of implementations is closed.
type SettingUpdate interface {
	isSettingUpdate()
}

type SetPromptMode struct{ Mode PromptMode }
type SetSystemPrompt struct{ Text string }
type SetStopWord struct{ Word string }
type SetResponseFormat struct{ Format ResponseFormat }
type SetMaxTokens struct{ Raw string }
type SetTemperature struct{ Value float64 }

func (SetPromptMode) isSettingUpdate()     {}
func (SetSystemPrompt) isSettingUpdate()   {}
func (SetStopWord) isSettingUpdate()       {}
func (SetResponseFormat) isSettingUpdate() {}
func (SetMaxTokens) isSettingUpdate()      {}
func (SetTemperature) isSettingUpdate()    {}

// Apply returns a copy of s with update applied.
func (s Settings) Apply(update SettingUpdate) Settings {
	switch u := update.(type) {
	case SetPromptMode:
		s.PromptMode, _ = ParsePromptMode(string(u.Mode))
	case SetSystemPrompt:
		s.SystemPrompt = u.Text
	case SetStopWord:
		s.StopWord = u.Word
	case SetResponseFormat:
		s.ResponseFormat, _ = ParseResponseFormat(string(u.Format))
	case SetMaxTokens:
		s.MaxTokensRaw = u.Raw
	case SetTemperature:
		s.Temperature = clampTemperature(u.Value)
	case nil:
	default:
		panic("model: unhandled setting update")
	}
	return s
}

func clampTemperature(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return DefaultTemperature
	case v < MinTemperature:
		return MinTemperature
	case v > MaxTemperature:
		return MaxTemperature
	default:
		return v
	}
}
