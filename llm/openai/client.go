package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m-mizutani/botconsole"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/sashabaranov/go-openai"
)

var (
	// DefaultModels is the fallback order, most capable model first.
	DefaultModels = []string{
		"gpt-4o",
		"gpt-4o-mini",
		"gpt-4-turbo",
	}

	// EnvAPIKeys are the environment variables that may hold the API key. The
	// first non-empty one wins.
	EnvAPIKeys = []string{"OPENAI_API_KEY", "BOTCONSOLE_OPENAI_API_KEY"}
)

var (
	openaiPromptScope   = ctxlog.NewScope("openai_prompt", ctxlog.EnabledBy("BOTCONSOLE_LOGGING_OPENAI_PROMPT"))
	openaiResponseScope = ctxlog.NewScope("openai_response", ctxlog.EnabledBy("BOTCONSOLE_LOGGING_OPENAI_RESPONSE"))
)

type generationParameters struct {
	Temperature float32
	MaxTokens   int
}

// Client generates plan text with the OpenAI chat completion API. It
// implements botconsole.Generator.
type Client struct {
	apiKey  string
	baseURL string
	params  generationParameters

	// apiClient is nil when no API key was given.
	apiClient apiClient
}

var _ botconsole.Generator = (*Client)(nil)

// Option is a configuration option for the OpenAI client.
type Option func(*Client)

// WithBaseURL sets the custom base URL for the OpenAI API.
// Allows usage with compatible endpoints, proxies, or self-hosted instances.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithTemperature sets the temperature parameter for text generation.
// Default: 0.7
func WithTemperature(temp float32) Option {
	return func(c *Client) {
		c.params.Temperature = temp
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
// Default: 1500
func WithMaxTokens(maxTokens int) Option {
	return func(c *Client) {
		c.params.MaxTokens = maxTokens
	}
}

// New creates a new client for the OpenAI API. With an empty apiKey every
// Generate call reports botconsole.ErrMissingAPIKey.
func New(ctx context.Context, apiKey string, options ...Option) (*Client, error) {
	client := &Client{
		apiKey: apiKey,
		params: generationParameters{
			Temperature: botconsole.Temperature,
			MaxTokens:   botconsole.MaxOutputTokens,
		},
	}

	for _, option := range options {
		option(client)
	}

	if client.apiKey == "" {
		return client, nil
	}

	config := openai.DefaultConfig(apiKey)
	if client.baseURL != "" {
		config.BaseURL = client.baseURL
	}
	client.apiClient = &realAPIClient{client: openai.NewClientWithConfig(config)}

	return client, nil
}

// Generate implements botconsole.Generator.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	if c.apiClient == nil {
		return "", goerr.Wrap(botconsole.ErrMissingAPIKey,
			fmt.Sprintf("OpenAI API key is not configured (set %s)", strings.Join(EnvAPIKeys, " or ")))
	}

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.params.MaxTokens,
		Temperature: c.params.Temperature,
	}

	logger := ctxlog.From(ctx, openaiPromptScope)
	if logger.Enabled(ctx, slog.LevelInfo) {
		logger.Info("OpenAI prompt", "model", model, "prompt", prompt)
	}

	resp, err := c.apiClient.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", convertError(err, model)
	}

	var text string
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}

	responseLogger := ctxlog.From(ctx, openaiResponseScope)
	if responseLogger.Enabled(ctx, slog.LevelInfo) {
		responseLogger.Info("OpenAI response",
			"model", model,
			"usage", map[string]any{
				"prompt_tokens":     resp.Usage.PromptTokens,
				"completion_tokens": resp.Usage.CompletionTokens,
			},
			"text", text,
		)
	}

	return text, nil
}

func convertError(err error, model string) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fmt.Sprintf("API request failed with status %d", apiErr.HTTPStatusCode)
		}
		return goerr.New(msg, goerr.V("model", model), goerr.V("status", apiErr.HTTPStatusCode))
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return goerr.New(fmt.Sprintf("API request failed with status %d", reqErr.HTTPStatusCode),
			goerr.V("model", model),
			goerr.V("cause", reqErr.Error()),
		)
	}

	return goerr.Wrap(err, "failed to call OpenAI API", goerr.V("model", model))
}
