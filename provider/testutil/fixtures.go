package testutil

import (
	"time"

	"chatterm/model"
)

// TestMessages returns a sample conversation for testing, led by a system message
func TestMessages() []model.Message {
	return []model.Message{
		{
			Role:      model.RoleSystem,
			Content:   model.DefaultSystemPrompt,
			Timestamp: time.Now(),
		},
		{
			Role:      model.RoleUser,
			Content:   "Hello, how are you?",
			Timestamp: time.Now(),
		},
		{
			Role:      model.RoleAssistant,
			Content:   "I'm doing well, thank you!",
			Timestamp: time.Now(),
		},
		{
			Role:      model.RoleUser,
			Content:   "Can you help me with a task?",
			Timestamp: time.Now(),
		},
	}
}

// SingleUserMessage returns a single user message for simple tests
func SingleUserMessage(content string) []model.Message {
	return []model.Message{
		{
			Role:      model.RoleUser,
			Content:   content,
			Timestamp: time.Now(),
		},
	}
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}

// TemplatedSettings returns settings in templated mode with the given format.
func TemplatedSettings(format model.ResponseFormat) model.Settings {
	s := model.DefaultSettings()
	s.PromptMode = model.PromptModeTemplated
	s.StopWord = "enough"
	s.ResponseFormat = format
	return s
}
