package provider

import (
	"math"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/google/generative-ai-go/genai"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"

	"chatterm/model"
)

// ConvertToOpenAIMessages converts transcript messages to OpenAI chat messages.
// Order is preserved and system messages stay inline.
func ConvertToOpenAIMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case model.RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Content))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}
	return result
}

// ConvertToOllamaMessages converts transcript messages to Ollama api.Message.
//
// Timestamps are dropped; the Ollama API has no field for them.
func ConvertToOllamaMessages(messages []model.Message) []api.Message {
	result := make([]api.Message, len(messages))
	for i, msg := range messages {
		result[i] = api.Message{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}
	return result
}

// convertToAnthropicMessages splits out system messages, which Anthropic takes as a
// separate parameter, and converts the rest.
func convertToAnthropicMessages(messages []model.Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var systemBlocks []anthropic.TextBlockParam
	anthropicMsgs := make([]anthropic.MessageParam, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			if msg.Content == "" {
				continue
			}
			systemBlocks = append(systemBlocks, anthropic.TextBlockParam{
				Text: msg.Content,
			})

		case model.RoleAssistant:
			anthropicMsgs = append(anthropicMsgs,
				anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)),
			)

		default:
			anthropicMsgs = append(anthropicMsgs,
				anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)),
			)
		}
	}

	return anthropicMsgs, systemBlocks
}

// geminiConversation is a transcript laid out the way a Gemini chat session wants it:
// system text as the instruction, all but the last turn as history, and the last
// turn as the message to send.
type geminiConversation struct {
	system  string
	history []*genai.Content
	last    string
}

func convertToGeminiConversation(messages []model.Message) geminiConversation {
	var conv geminiConversation
	var system []string
	var turns []model.Message

	for _, msg := range messages {
		if msg.Role == model.RoleSystem {
			if strings.TrimSpace(msg.Content) != "" {
				system = append(system, msg.Content)
			}
			continue
		}
		turns = append(turns, msg)
	}
	conv.system = strings.Join(system, "\n\n")

	if len(turns) == 0 {
		return conv
	}

	for _, msg := range turns[:len(turns)-1] {
		role := "user"
		if msg.Role == model.RoleAssistant {
			role = "model"
		}
		conv.history = append(conv.history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}
	conv.last = turns[len(turns)-1].Content

	return conv
}

// convertToBedrockMessages splits out system messages and converts the rest to
// Converse API messages.
func convertToBedrockMessages(messages []model.Message) ([]types.Message, []types.SystemContentBlock) {
	var system []types.SystemContentBlock
	result := make([]types.Message, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			if msg.Content == "" {
				continue
			}
			system = append(system, &types.SystemContentBlockMemberText{Value: msg.Content})
		case model.RoleAssistant:
			result = append(result, types.Message{
				Role:    types.ConversationRoleAssistant,
				Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: msg.Content}},
			})
		default:
			result = append(result, types.Message{
				Role:    types.ConversationRoleUser,
				Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: msg.Content}},
			})
		}
	}

	return result, system
}

// tokenCap returns the configured cap, or unlimitedTokenCap for APIs that
// require a value.
func tokenCap(maxTokens *int) int {
	if maxTokens == nil || *maxTokens <= 0 {
		return unlimitedTokenCap
	}
	return *maxTokens
}

// int32Tokens converts a token count for APIs with 32-bit fields, saturating
// instead of wrapping.
func int32Tokens(n int) int32 {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(n)
}
