package gemini

import "google.golang.org/genai"

// Export for testing
type APIClient = apiClient

// NewWithAPIClient creates a configured client backed by a custom API client.
func NewWithAPIClient(client apiClient, options ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiVersion: DefaultAPIVersion,
		generationConfig: &genai.GenerateContentConfig{
			MaxOutputTokens: 1500,
			Temperature:     genai.Ptr[float32](0.7),
		},
	}
	for _, option := range options {
		option(c)
	}
	c.apiClient = client
	return c
}

// GetGenerationConfig returns the generationConfig for testing
func (c *Client) GetGenerationConfig() *genai.GenerateContentConfig {
	return c.generationConfig
}
