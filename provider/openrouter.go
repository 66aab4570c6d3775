package provider

import (
	"net/http"

	"github.com/openai/openai-go/v3/option"
)

const (
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
	OpenRouterModel   = "meta-llama/llama-3.2-90b-instruct"
)

// NewOpenRouterProvider creates a provider for OpenRouter, which is OpenAI-compatible.
//
// Parameters:
//   - baseURL: OpenRouter API base URL (default: "https://openrouter.ai/api/v1")
//   - apiKey: OpenRouter API key (required)
//   - model: Model to use, with vendor prefix (default: "meta-llama/llama-3.2-90b-instruct")
func NewOpenRouterProvider(baseURL, apiKey, model string, httpClient *http.Client) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = OpenRouterBaseURL
	}
	if model == "" {
		model = OpenRouterModel
	}

	// OpenRouter attributes traffic using these optional headers
	return newOpenAICompatibleProvider("OpenRouter", baseURL, apiKey, model, httpClient,
		option.WithHeader("HTTP-Referer", "https://github.com/chatterm/chatterm"),
		option.WithHeader("X-Title", "chatterm"),
	)
}
