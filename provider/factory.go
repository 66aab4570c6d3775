package provider

import (
	"fmt"
)

// NewProvider creates a provider based on configuration.
//
// Supported provider types:
//   - ProviderTypeDeepSeek: DeepSeek chat completions (default)
//   - ProviderTypeOpenAI: OpenAI API
//   - ProviderTypeOpenRouter: OpenRouter (OpenAI-compatible)
//   - ProviderTypeAnthropic: Anthropic Messages API
//   - ProviderTypeOllama: Local Ollama server
//   - ProviderTypeGemini: Google Gemini
//   - ProviderTypeBedrock: AWS Bedrock Converse API
//
// Returns an error if the provider type is unknown or the provider-specific
// constructor fails (e.g. missing API key, invalid URL).
func NewProvider(cfg Config) (Provider, error) {
	httpClient := NewHTTPClient(cfg.Timeout)

	switch cfg.Type {
	case ProviderTypeDeepSeek:
		return asProvider(NewDeepSeekProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, httpClient))
	case ProviderTypeOpenAI:
		return asProvider(NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, httpClient))
	case ProviderTypeOpenRouter:
		return asProvider(NewOpenRouterProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, httpClient))
	case ProviderTypeAnthropic:
		return asProvider(NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, httpClient))
	case ProviderTypeOllama:
		return asProvider(NewOllamaProvider(cfg.BaseURL, cfg.Model, httpClient))
	case ProviderTypeGemini:
		return asProvider(NewGeminiProvider(cfg.APIKey, cfg.Model, cfg.Timeout))
	case ProviderTypeBedrock:
		return asProvider(NewBedrockProvider(cfg.Region, cfg.Model, httpClient))
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// MapProviderIDToType converts a config provider ID to a ProviderType.
//
// IDs are matched case-sensitively; "" maps to ProviderTypeDeepSeek. For unknown
// IDs the ID is returned cast as ProviderType and NewProvider reports the error.
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "", "deepseek":
		return ProviderTypeDeepSeek
	case "openai":
		return ProviderTypeOpenAI
	case "openrouter":
		return ProviderTypeOpenRouter
	case "anthropic", "claude":
		return ProviderTypeAnthropic
	case "ollama":
		return ProviderTypeOllama
	case "gemini", "google":
		return ProviderTypeGemini
	case "bedrock", "aws":
		return ProviderTypeBedrock
	default:
		return ProviderType(id)
	}
}

// asProvider keeps a failed constructor's typed nil pointer out of the interface.
func asProvider[P Provider](p P, err error) (Provider, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}
