package model

import (
	"encoding/json"
	"strings"
)

// StopWordPlaceholder marks where the stop word is inserted into PromptTemplates.Base.
const StopWordPlaceholder = "{{stop_word}}"

// StructuredClosingMessage is the reply the model must give once the user sends the stop word
// in structured mode.
const StructuredClosingMessage = "The conversation is over. Thank you!"

// PromptTemplates holds the text used to assemble the system message in templated mode.
// The suffixes are instructions the remote model is expected to follow, so their text must
// not be reworded casually.
type PromptTemplates struct {
	Base             string
	PlainSuffix      string
	StructuredSuffix string
}

// DefaultPromptTemplates returns the templates shipped with the client.
func DefaultPromptTemplates() PromptTemplates {
	return PromptTemplates{
		Base: "You are a helpful assistant. Keep the dialogue going and answer every user message. " +
			"The conversation ends when the user sends the stop word \"" + StopWordPlaceholder + "\". " +
			"Never use the stop word yourself.\n\n",
		PlainSuffix: "Answer in plain text. Do not wrap your answer in JSON, XML or code fences.",
		StructuredSuffix: "Every reply MUST be a single syntactically valid JSON object and nothing else, " +
			"with exactly two string fields:\n" +
			"  \"previous_user_message\": the user's previous message, copied verbatim;\n" +
			"  \"assistant_message\": your next message to the user.\n" +
			"Do not add any other fields, comments or code fences.\n" +
			"When the user's message is the stop word, reply with \"assistant_message\" set to exactly \"" +
			StructuredClosingMessage + "\".",
	}
}

// BuildSystemPrompt returns the instruction text sent as the leading system message.
// It only depends on its arguments.
func BuildSystemPrompt(settings Settings, templates PromptTemplates) string {
	switch settings.PromptMode {
	case PromptModeTemplated:
		var b strings.Builder
		b.WriteString(strings.ReplaceAll(templates.Base, StopWordPlaceholder, settings.StopWord))
		switch settings.ResponseFormat {
		case ResponseFormatStructured:
			b.WriteString(templates.StructuredSuffix)
		default:
			b.WriteString(templates.PlainSuffix)
		}
		return b.String()
	default:
		return settings.SystemPrompt
	}
}

// StructuredReply is the JSON object requested by the structured suffix.
type StructuredReply struct {
	PreviousUserMessage string `json:"previous_user_message"`
	AssistantMessage    string `json:"assistant_message"`
}

// ParseStructuredReply decodes content as a StructuredReply.
// Surrounding whitespace and a ```json fence are tolerated.
func ParseStructuredReply(content string) (StructuredReply, bool) {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	var reply StructuredReply
	if err := json.Unmarshal([]byte(trimmed), &reply); err != nil {
		return StructuredReply{}, false
	}
	if reply.AssistantMessage == "" {
		return StructuredReply{}, false
	}
	return reply, true
}
