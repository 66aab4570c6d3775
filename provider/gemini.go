package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"chatterm/model"
)

const GeminiModel = "gemini-2.5-flash"

// GeminiProvider implements model.Completer using Google's Gemini API.
type GeminiProvider struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiProvider creates a Gemini provider. The genai client manages its own
// transport, so timeout is applied per request through the context.
func NewGeminiProvider(apiKey, model string, timeout time.Duration) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("Gemini API key is required")
	}
	return newGeminiProvider(model, timeout, option.WithAPIKey(apiKey))
}

func newGeminiProvider(model string, timeout time.Duration, opts ...option.ClientOption) (*GeminiProvider, error) {
	if strings.TrimSpace(model) == "" {
		model = GeminiModel
	}
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	client, err := genai.NewClient(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiProvider{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

// Complete implements model.Completer.
func (p *GeminiProvider) Complete(ctx context.Context, messages []model.Message, params model.CompletionParams) (string, error) {
	conv := convertToGeminiConversation(messages)
	if conv.last == "" {
		return "", errors.New("gemini requires at least one user message")
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	gm := p.client.GenerativeModel(p.model)
	gm.SetTemperature(float32(params.Temperature))
	if params.MaxTokens != nil && *params.MaxTokens > 0 {
		gm.SetMaxOutputTokens(int32Tokens(*params.MaxTokens))
	}
	if params.Structured {
		gm.ResponseMIMEType = "application/json"
	}
	if conv.system != "" {
		gm.SystemInstruction = genai.NewUserContent(genai.Text(conv.system))
	}

	cs := gm.StartChat()
	cs.History = conv.history

	resp, err := cs.SendMessage(ctx, genai.Text(conv.last))
	if err != nil {
		return "", fmt.Errorf("Gemini request failed: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", emptyResponse(p.Name())
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", emptyResponse(p.Name())
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	if text.Len() == 0 {
		return "", emptyResponse(p.Name())
	}

	return text.String(), nil
}

func (p *GeminiProvider) Name() string {
	return "Gemini"
}

func (p *GeminiProvider) Model() string {
	return p.model
}

// Close releases resources held by the Gemini client.
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}
