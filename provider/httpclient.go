package provider

import (
	"net"
	"net/http"
	"time"
)

const (
	// DefaultRequestTimeout bounds a whole completion request.
	DefaultRequestTimeout = 60 * time.Second
	defaultConnectTimeout = 15 * time.Second

	defaultMaxIdleConns        = 10
	defaultMaxIdleConnsPerHost = 4
	defaultIdleConnTimeout     = 90 * time.Second
)

// NewHTTPClient returns a client with a pooled transport shared by the HTTP-based
// adapters. timeout bounds the whole request; zero uses DefaultRequestTimeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   defaultConnectTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: 10 * time.Second,
			MaxIdleConns:        defaultMaxIdleConns,
			MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
			IdleConnTimeout:     defaultIdleConnTimeout,
			ForceAttemptHTTP2:   true,
		},
		Timeout: timeout,
	}
}
