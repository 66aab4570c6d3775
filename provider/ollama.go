package provider

import (
	"context"
	"net/http"

	"chatterm/model"
	"chatterm/ollama"
)

// OllamaProvider implements model.Completer by wrapping the ollama.Client.
type OllamaProvider struct {
	client *ollama.Client
}

// NewOllamaProvider creates a new Ollama provider instance.
//
// Parameters:
//   - baseURL: Ollama server URL (default: "http://localhost:11434")
//   - model: Model to use (default: "llama3.1:latest")
//
// Returns an error if the URL is invalid. The server is not contacted.
func NewOllamaProvider(baseURL, model string, httpClient *http.Client) (*OllamaProvider, error) {
	client, err := ollama.NewClient(baseURL, model, httpClient)
	if err != nil {
		return nil, err
	}

	return &OllamaProvider{
		client: client,
	}, nil
}

// Complete implements model.Completer.
func (p *OllamaProvider) Complete(ctx context.Context, messages []model.Message, params model.CompletionParams) (string, error) {
	opts := ollama.ChatOptions{
		Temperature: params.Temperature,
		JSON:        params.Structured,
	}
	if params.MaxTokens != nil {
		opts.NumPredict = *params.MaxTokens
	}

	reply, err := p.client.Chat(ctx, ConvertToOllamaMessages(messages), opts)
	if err != nil {
		return "", err
	}
	if reply == "" {
		return "", emptyResponse(p.Name())
	}
	return reply, nil
}

func (p *OllamaProvider) Name() string {
	return "Ollama"
}

func (p *OllamaProvider) Model() string {
	return p.client.Model()
}

