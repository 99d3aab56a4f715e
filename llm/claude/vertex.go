package claude

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/vertex"
)

// DefaultVertexModels is the fallback order when Claude is served by Vertex AI.
var DefaultVertexModels = []string{
	"claude-sonnet-4@20250514",
	"claude-3-7-sonnet@20250219",
	"claude-3-5-haiku@20241022",
}

// WithVertexAI serves Claude through Vertex AI with application default
// credentials instead of an Anthropic API key.
func WithVertexAI(projectID, region string) Option {
	return func(c *Client) {
		c.projectID = projectID
		c.region = region
	}
}

func (c *Client) vertexEnabled() bool {
	return c.projectID != "" && c.region != ""
}

func vertexRequestOptions(ctx context.Context, region, projectID string) []option.RequestOption {
	return []option.RequestOption{
		option.WithAPIKey("unused"), // Vertex AI authenticates with Google credentials
		vertex.WithGoogleAuth(ctx, region, projectID),
	}
}
