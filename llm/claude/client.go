package claude

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/m-mizutani/botconsole"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

var (
	// DefaultModels is the fallback order, most capable model first.
	DefaultModels = []string{
		"claude-sonnet-4-0",
		"claude-3-7-sonnet-latest",
		"claude-3-5-haiku-latest",
	}

	// EnvAPIKeys are the environment variables that may hold the API key. The
	// first non-empty one wins.
	EnvAPIKeys = []string{"ANTHROPIC_API_KEY", "BOTCONSOLE_ANTHROPIC_API_KEY"}
)

var (
	claudePromptScope   = ctxlog.NewScope("claude_prompt", ctxlog.EnabledBy("BOTCONSOLE_LOGGING_CLAUDE_PROMPT"))
	claudeResponseScope = ctxlog.NewScope("claude_response", ctxlog.EnabledBy("BOTCONSOLE_LOGGING_CLAUDE_RESPONSE"))
)

type generationParameters struct {
	// Temperature controls randomness in output generation.
	// Range: 0.0 to 1.0
	Temperature float64

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int64
}

// Client generates plan text with the Anthropic Messages API. It implements
// botconsole.Generator.
type Client struct {
	apiKey  string
	baseURL string
	params  generationParameters

	// projectID and region select Vertex AI when both are set.
	projectID string
	region    string

	// apiClient is nil when the client is not configured.
	apiClient apiClient
}

var _ botconsole.Generator = (*Client)(nil)

// Option is a configuration option for the Claude client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithTemperature sets the temperature parameter for text generation.
// Default: 0.7
func WithTemperature(temp float64) Option {
	return func(c *Client) {
		c.params.Temperature = temp
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
// Default: 1500
func WithMaxTokens(maxTokens int64) Option {
	return func(c *Client) {
		c.params.MaxTokens = maxTokens
	}
}

// New creates a new client for the Claude API. Without an apiKey or Vertex AI
// settings every Generate call reports botconsole.ErrMissingAPIKey.
func New(ctx context.Context, apiKey string, options ...Option) (*Client, error) {
	client := &Client{
		apiKey: apiKey,
		params: generationParameters{
			Temperature: botconsole.Temperature,
			MaxTokens:   botconsole.MaxOutputTokens,
		},
	}

	for _, opt := range options {
		opt(client)
	}

	var requestOptions []option.RequestOption
	switch {
	case client.vertexEnabled():
		requestOptions = vertexRequestOptions(ctx, client.region, client.projectID)
	case client.apiKey != "":
		requestOptions = []option.RequestOption{option.WithAPIKey(apiKey)}
		if client.baseURL != "" {
			requestOptions = append(requestOptions, option.WithBaseURL(client.baseURL))
		}
	default:
		return client, nil
	}
	newClient := anthropic.NewClient(requestOptions...)
	client.apiClient = &realAPIClient{client: &newClient}

	return client, nil
}

// Generate implements botconsole.Generator. The text of the first text block
// is returned.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	if c.apiClient == nil {
		return "", goerr.Wrap(botconsole.ErrMissingAPIKey,
			fmt.Sprintf("Anthropic API key is not configured (set %s)", strings.Join(EnvAPIKeys, " or ")))
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   c.params.MaxTokens,
		Temperature: anthropic.Float(c.params.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	logger := ctxlog.From(ctx, claudePromptScope)
	if logger.Enabled(ctx, slog.LevelInfo) {
		logger.Info("Claude prompt", "model", model, "prompt", prompt)
	}

	resp, err := c.apiClient.MessagesNew(ctx, params)
	if err != nil {
		return "", convertError(err, model)
	}

	var text string
	if resp != nil {
		for _, block := range resp.Content {
			if block.Type == "text" {
				text = block.Text
				break
			}
		}
	}

	responseLogger := ctxlog.From(ctx, claudeResponseScope)
	if responseLogger.Enabled(ctx, slog.LevelInfo) {
		responseLogger.Info("Claude response", "model", model, "text", text)
	}

	return text, nil
}

// errorBody is the JSON body of an Anthropic error response.
type errorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func convertError(err error, model string) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		var body errorBody
		msg := ""
		if json.Unmarshal([]byte(apiErr.RawJSON()), &body) == nil {
			msg = body.Error.Message
		}
		if msg == "" {
			msg = fmt.Sprintf("API request failed with status %d", apiErr.StatusCode)
		}
		return goerr.New(msg, goerr.V("model", model), goerr.V("status", apiErr.StatusCode))
	}

	return goerr.Wrap(err, "failed to call Anthropic API", goerr.V("model", model))
}
