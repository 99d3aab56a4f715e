package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/m-mizutani/botconsole"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

const (
	DefaultBaseURL    = "https://generativelanguage.googleapis.com/"
	DefaultAPIVersion = "v1beta"
)

var (
	// DefaultModels is the fallback order, newest model first.
	DefaultModels = []string{
		"gemini-2.5-flash",
		"gemini-1.5-flash",
		"gemini-1.5-pro",
	}

	// EnvAPIKeys are the environment variables that may hold the API key. The
	// first non-empty one wins.
	EnvAPIKeys = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}
)

var (
	// geminiPromptScope is the logging scope for Gemini prompts
	geminiPromptScope = ctxlog.NewScope("gemini_prompt", ctxlog.EnabledBy("BOTCONSOLE_LOGGING_GEMINI_PROMPT"))

	// geminiResponseScope is the logging scope for Gemini responses
	geminiResponseScope = ctxlog.NewScope("gemini_response", ctxlog.EnabledBy("BOTCONSOLE_LOGGING_GEMINI_RESPONSE"))
)

// Client generates plan text with the Gemini API. It implements
// botconsole.Generator.
type Client struct {
	apiKey string

	// projectID and location select the Vertex AI backend when both are set.
	projectID string
	location  string

	baseURL    string
	apiVersion string
	httpClient *http.Client

	// generationConfig contains the generation parameters sent with every call
	generationConfig *genai.GenerateContentConfig

	// apiClient is nil when the client is not configured.
	apiClient apiClient
}

var _ botconsole.Generator = (*Client)(nil)

// Option is a configuration option for the Gemini client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
// Default: "https://generativelanguage.googleapis.com/"
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithAPIVersion overrides the API version path segment.
// Default: "v1beta"
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		c.apiVersion = version
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithVertexAI uses the Vertex AI backend with application default credentials
// instead of an API key.
func WithVertexAI(projectID, location string) Option {
	return func(c *Client) {
		c.projectID = projectID
		c.location = location
	}
}

// WithTemperature sets the temperature parameter for text generation.
// Default: 0.7
func WithTemperature(temp float32) Option {
	return func(c *Client) {
		c.generationConfig.Temperature = &temp
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
// Default: 1500
func WithMaxTokens(maxTokens int32) Option {
	return func(c *Client) {
		c.generationConfig.MaxOutputTokens = maxTokens
	}
}

// New creates a client for the Gemini API. An empty apiKey is not an error
// here: the client is created unconfigured and every Generate call reports
// botconsole.ErrMissingAPIKey without touching the network.
func New(ctx context.Context, apiKey string, options ...Option) (*Client, error) {
	client := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		apiVersion: DefaultAPIVersion,
		generationConfig: &genai.GenerateContentConfig{
			MaxOutputTokens: botconsole.MaxOutputTokens,
			Temperature:     genai.Ptr[float32](botconsole.Temperature),
		},
	}

	for _, option := range options {
		option(client)
	}

	var config *genai.ClientConfig
	switch {
	case client.projectID != "" && client.location != "":
		config = &genai.ClientConfig{
			Project:    client.projectID,
			Location:   client.location,
			Backend:    genai.BackendVertexAI,
			HTTPClient: client.httpClient,
		}
	case client.apiKey != "":
		config = &genai.ClientConfig{
			APIKey:     client.apiKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: client.httpClient,
			HTTPOptions: genai.HTTPOptions{
				BaseURL:    client.baseURL,
				APIVersion: client.apiVersion,
			},
		}
	default:
		return client, nil
	}

	newClient, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client")
	}
	client.apiClient = &realAPIClient{client: newClient}

	return client, nil
}

// Generate implements botconsole.Generator. A non-successful HTTP status is
// reported with the provider's error message, or with the status code when the
// provider sent none.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	if c.apiClient == nil {
		return "", goerr.Wrap(botconsole.ErrMissingAPIKey,
			fmt.Sprintf("Gemini API key is not configured (set %s)", strings.Join(EnvAPIKeys, " or ")))
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	promptLogger := ctxlog.From(ctx, geminiPromptScope)
	if promptLogger.Enabled(ctx, slog.LevelInfo) {
		promptLogger.Info("Gemini prompt", "model", model, "prompt", prompt)
	}

	resp, err := c.apiClient.GenerateContent(ctx, model, contents, c.generationConfig)
	if err != nil {
		return "", convertError(err, model)
	}

	text := firstText(resp)

	responseLogger := ctxlog.From(ctx, geminiResponseScope)
	if responseLogger.Enabled(ctx, slog.LevelInfo) {
		var finishReason string
		if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
			finishReason = string(resp.Candidates[0].FinishReason)
		}
		responseLogger.Info("Gemini response",
			"model", model,
			"finish_reason", finishReason,
			"text", text,
		)
	}

	return text, nil
}

// firstText returns candidates[0].content.parts[0].text, or "" when any level
// is missing.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}
	if part := candidate.Content.Parts[0]; part != nil {
		return part.Text
	}
	return ""
}

func convertError(err error, model string) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fmt.Sprintf("API request failed with status %d", apiErr.Code)
		}
		return goerr.New(msg,
			goerr.V("model", model),
			goerr.V("code", apiErr.Code),
			goerr.V("status", apiErr.Status),
		)
	}

	return goerr.Wrap(err, "failed to call Gemini API", goerr.V("model", model))
}
