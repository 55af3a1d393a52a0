package messagestreams

import (
	"context"

	"github.com/starius/postmark"
)

// Client is a typed client of the message streams API.
type Client struct {
	client *postmark.Client
}

var _ Service = (*Client)(nil)

// New wraps a postmark client. Its routes must include Routes(nil).
func New(client *postmark.Client) *Client {
	return &Client{client: client}
}

// NewClient creates a client of the message streams API. Pass the server
// token with postmark.ServerToken.
func NewClient(baseURL string, opts ...postmark.Option) *Client {
	return New(postmark.NewClient(Routes(nil), baseURL, opts...))
}

func (c *Client) ListMessageStreams(ctx context.Context, req *ListMessageStreamsRequest) (*ListMessageStreamsResponse, error) {
	return postmark.Do[ListMessageStreamsResponse](ctx, c.client, req)
}

func (c *Client) GetMessageStream(ctx context.Context, req *GetMessageStreamRequest) (*MessageStream, error) {
	return postmark.Do[MessageStream](ctx, c.client, req)
}

func (c *Client) CreateMessageStream(ctx context.Context, req *CreateMessageStreamRequest) (*MessageStream, error) {
	return postmark.Do[MessageStream](ctx, c.client, req)
}

func (c *Client) EditMessageStream(ctx context.Context, req *EditMessageStreamRequest) (*MessageStream, error) {
	return postmark.Do[MessageStream](ctx, c.client, req)
}

func (c *Client) ArchiveMessageStream(ctx context.Context, req *ArchiveMessageStreamRequest) (*ArchiveMessageStreamResponse, error) {
	return postmark.Do[ArchiveMessageStreamResponse](ctx, c.client, req)
}

func (c *Client) UnarchiveMessageStream(ctx context.Context, req *UnarchiveMessageStreamRequest) (*MessageStream, error) {
	return postmark.Do[MessageStream](ctx, c.client, req)
}

func (c *Client) GetSuppressions(ctx context.Context, req *GetSuppressionsRequest) (*GetSuppressionsResponse, error) {
	return postmark.Do[GetSuppressionsResponse](ctx, c.client, req)
}

func (c *Client) CreateSuppressions(ctx context.Context, req *CreateSuppressionsRequest) (*SuppressionResultsResponse, error) {
	return postmark.Do[SuppressionResultsResponse](ctx, c.client, req)
}

func (c *Client) DeleteSuppressions(ctx context.Context, req *DeleteSuppressionsRequest) (*SuppressionResultsResponse, error) {
	return postmark.Do[SuppressionResultsResponse](ctx, c.client, req)
}

func (c *Client) Close() error {
	return c.client.Close()
}
