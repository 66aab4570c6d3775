package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"chatterm/model"
)

const AnthropicBaseURL = "https://api.anthropic.com"

// anthropicMaxTemperature is the upper bound of the Messages API temperature range.
const anthropicMaxTemperature = 1.0

// AnthropicProvider implements model.Completer using Anthropic's Messages API.
type AnthropicProvider struct {
	client  *anthropic.Client
	model   anthropic.Model
	baseURL string
}

// NewAnthropicProvider creates a new Anthropic provider instance.
//
// Parameters:
//   - baseURL: Anthropic API base URL (default: "https://api.anthropic.com")
//   - apiKey: Anthropic API key (required)
//   - model: Model to use (default: "claude-sonnet-4-5-20250929")
func NewAnthropicProvider(baseURL, apiKey, model string, httpClient *http.Client) (*AnthropicProvider, error) {
	if baseURL == "" {
		baseURL = AnthropicBaseURL
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	anthropicModel := anthropic.ModelClaudeSonnet4_5_20250929
	if model != "" {
		anthropicModel = anthropic.Model(model)
	}

	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	client := anthropic.NewClient(opts...)

	return &AnthropicProvider{
		client:  &client,
		model:   anthropicModel,
		baseURL: baseURL,
	}, nil
}

// Complete implements model.Completer.
//
// The Messages API has no JSON mode; structured replies rely on the system prompt.
func (p *AnthropicProvider) Complete(ctx context.Context, messages []model.Message, params model.CompletionParams) (string, error) {
	anthropicMessages, systemPrompt := convertToAnthropicMessages(messages)

	req := anthropic.MessageNewParams{
		Model:       p.model,
		Messages:    anthropicMessages,
		MaxTokens:   int64(tokenCap(params.MaxTokens)), // Required by Anthropic API
		Temperature: anthropic.Float(min(params.Temperature, anthropicMaxTemperature)),
	}
	if len(systemPrompt) > 0 {
		req.System = systemPrompt
	}

	msg, err := p.client.Messages.New(ctx, req)
	if err != nil {
		return "", fmt.Errorf("Anthropic request failed: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if textBlock, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(textBlock.Text)
		}
	}

	if text.Len() == 0 {
		return "", emptyResponse(p.Name())
	}
	return text.String(), nil
}

func (p *AnthropicProvider) Name() string {
	return "Anthropic"
}

func (p *AnthropicProvider) Model() string {
	return string(p.model)
}
