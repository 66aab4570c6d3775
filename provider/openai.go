package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"chatterm/config"
	"chatterm/model"
)

const (
	DeepSeekBaseURL = "https://api.deepseek.com"
	DeepSeekModel   = "deepseek-chat"

	OpenAIBaseURL = "https://api.openai.com/v1"
	OpenAIModel   = "gpt-4o-mini"
)

// OpenAIProvider talks to any OpenAI-compatible chat completions endpoint.
// DeepSeek, OpenAI and OpenRouter are all served by this type.
type OpenAIProvider struct {
	client  openai.Client
	name    string
	model   string
	baseURL string
}

// NewDeepSeekProvider creates a provider for the DeepSeek chat completions API.
//
// Parameters:
//   - baseURL: DeepSeek API base URL (default: "https://api.deepseek.com")
//   - apiKey: DeepSeek API key (required)
//   - model: Model to use (default: "deepseek-chat")
func NewDeepSeekProvider(baseURL, apiKey, model string, httpClient *http.Client) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = DeepSeekBaseURL
	}
	if model == "" {
		model = DeepSeekModel
	}
	return newOpenAICompatibleProvider("DeepSeek", baseURL, apiKey, model, httpClient)
}

// NewOpenAIProvider creates a provider for OpenAI's API.
//
// Parameters:
//   - baseURL: OpenAI API base URL (default: "https://api.openai.com/v1")
//   - apiKey: OpenAI API key (required)
//   - model: Model to use (default: "gpt-4o-mini")
func NewOpenAIProvider(baseURL, apiKey, model string, httpClient *http.Client) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = OpenAIBaseURL
	}
	if model == "" {
		model = OpenAIModel // Default to affordable model
	}
	return newOpenAICompatibleProvider("OpenAI", baseURL, apiKey, model, httpClient)
}

func newOpenAICompatibleProvider(name, baseURL, apiKey, model string, httpClient *http.Client, extra ...option.RequestOption) (*OpenAIProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%s API key is required", name)
	}

	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	opts = append(opts, extra...)

	return &OpenAIProvider{
		client:  openai.NewClient(opts...),
		name:    name,
		model:   model,
		baseURL: baseURL,
	}, nil
}

// Complete implements model.Completer with a single non-streaming request.
func (p *OpenAIProvider) Complete(ctx context.Context, messages []model.Message, params model.CompletionParams) (string, error) {
	req := openai.ChatCompletionNewParams{
		Messages:    ConvertToOpenAIMessages(messages),
		Model:       openai.ChatModel(p.model),
		Temperature: openai.Float(params.Temperature),
	}
	// An absent cap is omitted, leaving the service default
	if params.MaxTokens != nil {
		req.MaxTokens = openai.Int(int64(*params.MaxTokens))
	}
	if params.Structured {
		req.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := p.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", p.name, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", emptyResponse(p.name)
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Provider] %s completion: model=%s finish_reason=%s completion_tokens=%d",
			p.name, resp.Model, resp.Choices[0].FinishReason, resp.Usage.CompletionTokens)
	}

	return resp.Choices[0].Message.Content, nil
}

// Name returns the service name used in errors and logs.
func (p *OpenAIProvider) Name() string {
	return p.name
}

func (p *OpenAIProvider) Model() string {
	return p.model
}

func (p *OpenAIProvider) BaseURL() string {
	return p.baseURL
}
