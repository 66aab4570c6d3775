package provider

import (
	"context"
	"fmt"

	"chatterm/config"
	"chatterm/model"
)

// FromConfig creates the completion provider configured for the application.
//
// The provider is always wrapped in a circuit breaker. Construction failures
// (missing API key, invalid URL) do not stop the application: the returned
// provider reports the failure on every request, so it surfaces as the
// conversation's error line instead of a crash.
func FromConfig(cfg *config.Config) Provider {
	providerType := MapProviderIDToType(cfg.Provider.Type)

	p, err := NewProvider(Config{
		Type:    providerType,
		BaseURL: cfg.Provider.BaseURL,
		Model:   cfg.Provider.Model,
		APIKey:  cfg.Provider.APIKey,
		Region:  cfg.Provider.Region,
		Timeout: cfg.RequestTimeout,
	})
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Provider] Failed to initialize provider %s: %v", providerType, err)
		}
		return NewUnavailableProvider(string(providerType), err)
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Provider] Initialized provider %s (model %s)", p.Name(), p.Model())
	}

	return NewCircuitBreakerProvider(p, CircuitBreakerConfig{
		MaxFailures: cfg.BreakerMaxFailures,
		OpenTimeout: cfg.BreakerOpenTimeout,
	})
}

// UnavailableProvider fails every request with the error that prevented the
// real provider from being created.
type UnavailableProvider struct {
	name string
	err  error
}

func NewUnavailableProvider(name string, err error) *UnavailableProvider {
	return &UnavailableProvider{name: name, err: err}
}

func (p *UnavailableProvider) Complete(context.Context, []model.Message, model.CompletionParams) (string, error) {
	return "", fmt.Errorf("provider %s is not configured: %w", p.name, p.err)
}

func (p *UnavailableProvider) Name() string { return p.name }

func (p *UnavailableProvider) Model() string { return "" }
