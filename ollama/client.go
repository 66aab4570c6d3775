package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.1:latest"
)

// Client is a thin wrapper around the Ollama API client that collects a whole
// chat reply instead of streaming it.
type Client struct {
	client  *api.Client
	model   string
	baseURL string
}

// ChatOptions carries the generation parameters for a single chat call.
type ChatOptions struct {
	// NumPredict caps the generated tokens. Zero or negative leaves it unset.
	NumPredict  int
	Temperature float64
	// JSON asks the model for a JSON object reply.
	JSON bool
}

func NewClient(baseURL, model string, httpClient *http.Client) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	return &Client{
		client:  api.NewClient(parsedURL, httpClient),
		model:   model,
		baseURL: baseURL,
	}, nil
}

// Chat sends messages and returns the assistant reply.
func (c *Client) Chat(ctx context.Context, messages []api.Message, opts ChatOptions) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   &stream,
		Options:  requestOptions(opts),
	}
	if opts.JSON {
		req.Format = json.RawMessage(`"json"`)
	}

	// With streaming disabled the callback fires once, but concatenating keeps
	// partial chunks if a server streams anyway.
	var reply strings.Builder
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}

	return reply.String(), nil
}

func requestOptions(opts ChatOptions) map[string]any {
	options := map[string]any{
		"temperature": opts.Temperature,
	}
	if opts.NumPredict > 0 {
		options["num_predict"] = opts.NumPredict
	}
	return options
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

