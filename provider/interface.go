// Package provider implements the completion port for the remote chat services
// chatterm can talk to.
//
// Every adapter turns the ordered transcript into one non-streaming request and
// returns the assistant text, so the controller stays unaware of which service is
// answering. Provider-specific request types never leave this package; see
// conversions.go for the mappings.
//
// # Architecture
//
//   - model.Completer defines the contract (in the model package)
//   - OpenAIProvider serves DeepSeek, OpenAI and OpenRouter (OpenAI-compatible APIs)
//   - AnthropicProvider, OllamaProvider, GeminiProvider and BedrockProvider cover the rest
//   - NewProvider() creates an adapter from Config
//   - CircuitBreakerProvider wraps any adapter to fail fast when the service is down
//
// # Usage
//
//	p, err := provider.NewProvider(provider.Config{
//	    Type:   provider.ProviderTypeDeepSeek,
//	    APIKey: os.Getenv("DEEPSEEK_API_KEY"),
//	})
//	if err != nil {
//	    // handle error
//	}
//	reply, err := p.Complete(ctx, messages, params)
package provider

import (
	"time"

	"chatterm/model"
)

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeDeepSeek   ProviderType = "deepseek"
	ProviderTypeOpenAI     ProviderType = "openai"
	ProviderTypeOpenRouter ProviderType = "openrouter"
	ProviderTypeAnthropic  ProviderType = "anthropic"
	ProviderTypeOllama     ProviderType = "ollama"
	ProviderTypeGemini     ProviderType = "gemini"
	ProviderTypeBedrock    ProviderType = "bedrock"
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string // Unused for Ollama and Bedrock
	Region  string // Bedrock only

	// Timeout bounds a whole request. Zero means DefaultRequestTimeout.
	Timeout time.Duration
}

// Provider is a completer that can report which service and model it talks to.
type Provider interface {
	model.Completer
	Name() string
	Model() string
}

// unlimitedTokenCap is sent to APIs that require an explicit max_tokens value
// when the user configured no limit.
const unlimitedTokenCap = 4096
