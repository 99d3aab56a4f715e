package claude

// Export for testing
type APIClient = apiClient

// NewWithAPIClient creates a configured client backed by a custom API client.
func NewWithAPIClient(client apiClient, options ...Option) *Client {
	c := &Client{
		params: generationParameters{
			Temperature: 0.7,
			MaxTokens:   1500,
		},
	}
	for _, opt := range options {
		opt(c)
	}
	c.apiClient = client
	return c
}
