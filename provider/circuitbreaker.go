package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sony/gobreaker/v2"

	"chatterm/config"
	"chatterm/model"
)

// Default circuit breaker settings.
const (
	defaultCBMaxFailures uint32        = 5
	defaultCBTimeout     time.Duration = 30 * time.Second
)

// CircuitBreakerConfig configures the circuit breaker behaviour.
type CircuitBreakerConfig struct {
	// MaxFailures is the number of consecutive failures before the circuit opens.
	MaxFailures uint32
	// OpenTimeout is how long the circuit stays open before allowing a probe.
	OpenTimeout time.Duration
}

// CircuitBreakerProvider wraps a Provider so that repeated failures make further
// calls fail fast without reaching the service.
type CircuitBreakerProvider struct {
	inner   Provider
	breaker *gobreaker.CircuitBreaker[string]
}

// NewCircuitBreakerProvider wraps inner with a circuit breaker. Zero config
// fields use the defaults.
func NewCircuitBreakerProvider(inner Provider, cfg CircuitBreakerConfig) *CircuitBreakerProvider {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultCBMaxFailures
	}
	timeout := cfg.OpenTimeout
	if timeout == 0 {
		timeout = defaultCBTimeout
	}

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "completion:" + inner.Name(),
		MaxRequests: 1, // allow 1 probe in half-open state
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Provider] Circuit breaker %s: %s -> %s", name, from, to)
			}
		},
		IsSuccessful: func(err error) bool {
			// A cancelled request says nothing about the service's health
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &CircuitBreakerProvider{
		inner:   inner,
		breaker: cb,
	}
}

// Complete implements model.Completer. Calls are routed through the breaker.
func (p *CircuitBreakerProvider) Complete(ctx context.Context, messages []model.Message, params model.CompletionParams) (string, error) {
	reply, err := p.breaker.Execute(func() (string, error) {
		return p.inner.Complete(ctx, messages, params)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%s unavailable (circuit open): %w", p.inner.Name(), err)
		}
		return "", err
	}
	return reply, nil
}

func (p *CircuitBreakerProvider) Name() string { return p.inner.Name() }

func (p *CircuitBreakerProvider) Model() string { return p.inner.Model() }

// Close releases the wrapped provider's resources when it holds any.
func (p *CircuitBreakerProvider) Close() error {
	if c, ok := p.inner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// State returns the current circuit breaker state.
func (p *CircuitBreakerProvider) State() gobreaker.State {
	return p.breaker.State()
}

var _ Provider = (*CircuitBreakerProvider)(nil)
