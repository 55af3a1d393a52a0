package email

import (
	"context"
	"fmt"
	"net/http"

	"github.com/starius/postmark"
)

// Client is a typed client of the email API.
type Client struct {
	client *postmark.Client
}

var _ Service = (*Client)(nil)

// New wraps a postmark client. Its routes must include Routes(nil).
func New(client *postmark.Client) *Client {
	return &Client{client: client}
}

// NewClient creates a client of the email API. Pass the server token with
// postmark.ServerToken.
func NewClient(baseURL string, opts ...postmark.Option) *Client {
	return New(postmark.NewClient(Routes(nil), baseURL, opts...))
}

func (c *Client) SendEmail(ctx context.Context, req *Message) (*SendResponse, error) {
	return postmark.Do[SendResponse](ctx, c.client, req)
}

// SendBatch sends up to MaxBatchSize messages in one call. Messages are
// accepted or rejected one by one, see BatchResponse.Failed.
func (c *Client) SendBatch(ctx context.Context, req *BatchRequest) (*BatchResponse, error) {
	res, err := postmark.Do[BatchResponse](ctx, c.client, req)
	if err != nil {
		return nil, err
	}
	if len(res.Results) != len(req.Messages) {
		return nil, &postmark.DecodeError{
			StatusCode: http.StatusOK,
			Err:        fmt.Errorf("batch of %d messages returned %d results", len(req.Messages), len(res.Results)),
		}
	}
	return res, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
