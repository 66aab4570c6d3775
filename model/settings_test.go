package model_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatterm/model"
)

func TestParseMaxTokens(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *int
	}{
		{name: "empty is unlimited", raw: "", want: nil},
		{name: "whitespace is unlimited", raw: "   ", want: nil},
		{name: "integer", raw: "256", want: intPtr(256)},
		{name: "surrounding spaces", raw: " 42 ", want: intPtr(42)},
		{name: "zero", raw: "0", want: intPtr(0)},
		{name: "negative", raw: "-5", want: intPtr(-5)},
		{name: "decimal", raw: "12.5", want: nil},
		{name: "letters", raw: "abc", want: nil},
		{name: "hex", raw: "0x10", want: nil},
		{name: "overflow", raw: "99999999999999999999999", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.ParseMaxTokens(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	s := model.DefaultSettings()

	assert.Equal(t, model.PromptModeFreeForm, s.PromptMode)
	assert.Equal(t, "You are a helpful assistant", s.SystemPrompt)
	assert.Equal(t, model.ResponseFormatPlain, s.ResponseFormat)
	assert.Equal(t, "", s.MaxTokensRaw)
	assert.Nil(t, s.MaxTokens())
	assert.Equal(t, 1.0, s.Temperature)
}

func TestSettingsApplyReturnsNewValue(t *testing.T) {
	before := model.DefaultSettings()

	after := before.Apply(model.SetSystemPrompt{Text: "Be terse"})

	assert.Equal(t, "Be terse", after.SystemPrompt)
	assert.Equal(t, model.DefaultSystemPrompt, before.SystemPrompt, "receiver must not change")
}

func TestSettingsApply(t *testing.T) {
	base := model.DefaultSettings()

	tests := []struct {
		name   string
		update model.SettingUpdate
		check  func(t *testing.T, s model.Settings)
	}{
		{
			name:   "prompt mode",
			update: model.SetPromptMode{Mode: model.PromptModeTemplated},
			check: func(t *testing.T, s model.Settings) {
				assert.Equal(t, model.PromptModeTemplated, s.PromptMode)
			},
		},
		{
			name:   "unknown prompt mode falls back to default",
			update: model.SetPromptMode{Mode: "bogus"},
			check: func(t *testing.T, s model.Settings) {
				assert.Equal(t, model.PromptModeFreeForm, s.PromptMode)
			},
		},
		{
			name:   "stop word",
			update: model.SetStopWord{Word: "halt"},
			check: func(t *testing.T, s model.Settings) {
				assert.Equal(t, "halt", s.StopWord)
			},
		},
		{
			name:   "response format",
			update: model.SetResponseFormat{Format: model.ResponseFormatStructured},
			check: func(t *testing.T, s model.Settings) {
				assert.Equal(t, model.ResponseFormatStructured, s.ResponseFormat)
			},
		},
		{
			name:   "max tokens keeps raw text",
			update: model.SetMaxTokens{Raw: "12x"},
			check: func(t *testing.T, s model.Settings) {
				assert.Equal(t, "12x", s.MaxTokensRaw)
				assert.Nil(t, s.MaxTokens())
			},
		},
		{
			name:   "temperature",
			update: model.SetTemperature{Value: 0.7},
			check: func(t *testing.T, s model.Settings) {
				assert.InDelta(t, 0.7, s.Temperature, 1e-9)
			},
		},
		{
			name:   "temperature clamped high",
			update: model.SetTemperature{Value: 5},
			check: func(t *testing.T, s model.Settings) {
				assert.Equal(t, model.MaxTemperature, s.Temperature)
			},
		},
		{
			name:   "temperature NaN falls back to default",
			update: model.SetTemperature{Value: math.NaN()},
			check: func(t *testing.T, s model.Settings) {
				assert.Equal(t, model.DefaultTemperature, s.Temperature)
			},
		},
		{
			name:   "temperature clamped low",
			update: model.SetTemperature{Value: -1},
			check: func(t *testing.T, s model.Settings) {
				assert.Equal(t, model.MinTemperature, s.Temperature)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, base.Apply(tt.update))
		})
	}
}

func TestCompletionParams(t *testing.T) {
	s := model.DefaultSettings().
		Apply(model.SetMaxTokens{Raw: "128"}).
		Apply(model.SetTemperature{Value: 0.3})

	params := s.CompletionParams()
	require.NotNil(t, params.MaxTokens)
	assert.Equal(t, 128, *params.MaxTokens)
	assert.InDelta(t, 0.3, params.Temperature, 1e-9)
	assert.False(t, params.Structured)

	structured := s.
		Apply(model.SetPromptMode{Mode: model.PromptModeTemplated}).
		Apply(model.SetResponseFormat{Format: model.ResponseFormatStructured})
	assert.True(t, structured.CompletionParams().Structured)
}

func TestParseIdentifiers(t *testing.T) {
	mode, ok := model.ParsePromptMode("templated")
	assert.True(t, ok)
	assert.Equal(t, model.PromptModeTemplated, mode)

	mode, ok = model.ParsePromptMode("1")
	assert.False(t, ok)
	assert.Equal(t, model.PromptModeFreeForm, mode)

	format, ok := model.ParseResponseFormat("structured")
	assert.True(t, ok)
	assert.Equal(t, model.ResponseFormatStructured, format)

	format, ok = model.ParseResponseFormat("")
	assert.False(t, ok)
	assert.Equal(t, model.ResponseFormatPlain, format)
}

func intPtr(n int) *int {
	return &n
}
