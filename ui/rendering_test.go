package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"chatterm/model"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 5, 1, hour, minute, 0, 0, time.Local)
}

func TestDisplayContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"plain text", "Hello there", "Hello there"},
		{"structured reply", `{"previous_user_message":"hi","assistant_message":"Hello!"}`, "Hello!"},
		{"fenced structured reply", "```json\n{\"previous_user_message\":\"hi\",\"assistant_message\":\"Yo\"}\n```", "Yo"},
		{"json without assistant_message", `{"foo":"bar"}`, `{"foo":"bar"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, displayContent(tt.content))
		})
	}
}

func TestFormatTranscript(t *testing.T) {
	messages := []model.Message{
		{Role: model.RoleUser, Content: "Hello", Timestamp: at(9, 5)},
		{Role: model.RoleAssistant, Content: `{"previous_user_message":"Hello","assistant_message":"Hi there"}`, Timestamp: at(9, 6)},
	}

	assert.Equal(t, "[09:05] You:\nHello\n\n[09:06] Assistant:\nHi there", formatTranscript(messages))
}

func TestFormatTranscript_Empty(t *testing.T) {
	assert.Equal(t, "", formatTranscript(nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hel…", truncate("hello world", 4))
	assert.Equal(t, "", truncate("hello", 0))
	// Wide runes take two cells each
	assert.LessOrEqual(t, len([]rune(truncate("日本語のテキスト", 6))), 4)
}

func TestRenderTranscript_Empty(t *testing.T) {
	out := renderTranscript(nil, 80, make(renderCache), false, "*")
	assert.Contains(t, out, "No messages yet")
}

func TestRenderTranscript_BusyShowsSpinner(t *testing.T) {
	messages := []model.Message{{Role: model.RoleUser, Content: "Hello", Timestamp: at(10, 0)}}

	out := renderTranscript(messages, 80, make(renderCache), true, "<spin>")

	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "<spin>")
	assert.Contains(t, out, waitingText)
}

func TestRenderTranscript_CachesAssistantReplies(t *testing.T) {
	msg := model.Message{Role: model.RoleAssistant, Content: "Some **bold** text", Timestamp: at(10, 1)}
	cache := make(renderCache)

	first := renderTranscript([]model.Message{msg}, 80, cache, false, "")
	second := renderTranscript([]model.Message{msg}, 80, cache, false, "")

	assert.Equal(t, first, second)
	assert.Len(t, cache, 1)
	assert.Contains(t, first, "bold")
}

func TestFormatUserMessage_PrefixesEveryLine(t *testing.T) {
	out := formatUserMessage("[10:00]", "You", "line one\nline two")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 3)
	for _, line := range lines {
		assert.Contains(t, line, "┃")
	}
}
