package config

import "time"

const (
	DefaultProviderType       = "deepseek"
	DefaultRequestTimeout     = 60 * time.Second
	DefaultBreakerMaxFailures = 5
	DefaultBreakerOpenTimeout = 30 * time.Second
)

func DefaultConfig() *Config {
	return &Config{
		DataDirectory:      "~/.local/share/chatterm",
		Provider:           ProviderConfig{Type: DefaultProviderType},
		RequestTimeout:     DefaultRequestTimeout,
		SettingsBackend:    BackendFile,
		BreakerMaxFailures: DefaultBreakerMaxFailures,
		BreakerOpenTimeout: DefaultBreakerOpenTimeout,
	}
}

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/chatterm",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Provider: ProviderConfig{
			Type: DefaultProviderType,
		},
		RequestTimeout:  DefaultRequestTimeout.String(),
		SettingsBackend: BackendFile,
		Breaker: BreakerConfig{
			MaxFailures: DefaultBreakerMaxFailures,
			OpenTimeout: DefaultBreakerOpenTimeout.String(),
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# chatterm System Configuration
# Location: ~/.config/chatterm/settings.toml
# This file uses TOML format: https://toml.io

# Directory where chat settings, user config and the debug log are stored
data_directory = "~/.local/share/chatterm"
`
}

func GenerateUserConfigTemplate() string {
	return `# chatterm User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

# Per-request timeout for the completion service
request_timeout = "60s"

# Where generation settings are persisted: "file", "sqlite" or "memory"
settings_backend = "file"

[provider]
# One of: deepseek, openai, openrouter, anthropic, ollama, gemini, bedrock
type = "deepseek"

# Optional overrides (defaults depend on the provider type)
# base_url = "https://api.deepseek.com"
# model = "deepseek-chat"

# API key (or set CHATTERM_API_KEY / DEEPSEEK_API_KEY, e.g. in a .env file)
# api_key = ""

# AWS region, bedrock only
# region = "us-east-1"

[breaker]
# Consecutive failures before requests fail fast
max_failures = 5
# How long requests fail fast before a probe is allowed
open_timeout = "30s"
`
}
