package storage

import (
	"strconv"

	"chatterm/model"
)

// Persisted keys. Enum-like values are stored as stable string identifiers.
const (
	KeyPromptMode     = "prompt_mode"
	KeySystemPrompt   = "system_prompt"
	KeyStopWord       = "stop_word"
	KeyResponseFormat = "response_format"
	KeyMaxTokens      = "max_tokens"
	KeyTemperature    = "temperature"
)

// settingsRecord is the flat on-disk layout of model.Settings.
type settingsRecord struct {
	PromptMode     string  `toml:"prompt_mode"`
	SystemPrompt   string  `toml:"system_prompt"`
	StopWord       string  `toml:"stop_word"`
	ResponseFormat string  `toml:"response_format"`
	MaxTokens      string  `toml:"max_tokens"`
	Temperature    float64 `toml:"temperature"`
}

func recordFromSettings(s model.Settings) settingsRecord {
	return settingsRecord{
		PromptMode:     string(s.PromptMode),
		SystemPrompt:   s.SystemPrompt,
		StopWord:       s.StopWord,
		ResponseFormat: string(s.ResponseFormat),
		MaxTokens:      s.MaxTokensRaw,
		Temperature:    s.Temperature,
	}
}

// settings converts the record back, replacing unknown identifiers with defaults.
func (r settingsRecord) settings() model.Settings {
	mode, _ := model.ParsePromptMode(r.PromptMode)
	format, _ := model.ParseResponseFormat(r.ResponseFormat)

	return model.DefaultSettings().
		Apply(model.SetPromptMode{Mode: mode}).
		Apply(model.SetSystemPrompt{Text: r.SystemPrompt}).
		Apply(model.SetStopWord{Word: r.StopWord}).
		Apply(model.SetResponseFormat{Format: format}).
		Apply(model.SetMaxTokens{Raw: r.MaxTokens}).
		Apply(model.SetTemperature{Value: r.Temperature})
}

// keyValues flattens the record for key-value backends.
func (r settingsRecord) keyValues() map[string]string {
	return map[string]string{
		KeyPromptMode:     r.PromptMode,
		KeySystemPrompt:   r.SystemPrompt,
		KeyStopWord:       r.StopWord,
		KeyResponseFormat: r.ResponseFormat,
		KeyMaxTokens:      r.MaxTokens,
		KeyTemperature:    strconv.FormatFloat(r.Temperature, 'g', -1, 64),
	}
}

// recordFromKeyValues rebuilds a record from kv, keeping defaults for missing or
// malformed entries.
func recordFromKeyValues(kv map[string]string) settingsRecord {
	r := recordFromSettings(model.DefaultSettings())

	if v, ok := kv[KeyPromptMode]; ok {
		r.PromptMode = v
	}
	if v, ok := kv[KeySystemPrompt]; ok {
		r.SystemPrompt = v
	}
	if v, ok := kv[KeyStopWord]; ok {
		r.StopWord = v
	}
	if v, ok := kv[KeyResponseFormat]; ok {
		r.ResponseFormat = v
	}
	if v, ok := kv[KeyMaxTokens]; ok {
		r.MaxTokens = v
	}
	if v, ok := kv[KeyTemperature]; ok {
		if t, err := strconv.ParseFloat(v, 64); err == nil {
			r.Temperature = t
		}
	}

	return r
}
