package servers

import (
	"context"
	"errors"
	"fmt"

	"github.com/starius/postmark"
)

// ErrServerNotFound is returned by Lookup if no server has the name.
var ErrServerNotFound = errors.New("server not found")

// Client is a typed client of the servers API.
type Client struct {
	client *postmark.Client
}

var _ Service = (*Client)(nil)

// New wraps a postmark client. Its routes must include Routes(nil).
func New(client *postmark.Client) *Client {
	return &Client{client: client}
}

// NewClient creates a client of the servers API. Pass the account token
// with postmark.AccountToken.
func NewClient(baseURL string, opts ...postmark.Option) *Client {
	return New(postmark.NewClient(Routes(nil), baseURL, opts...))
}

func (c *Client) ListServers(ctx context.Context, req *ListServersRequest) (*ListServersResponse, error) {
	return postmark.Do[ListServersResponse](ctx, c.client, req)
}

func (c *Client) GetServer(ctx context.Context, req *GetServerRequest) (*Server, error) {
	return postmark.Do[Server](ctx, c.client, req)
}

func (c *Client) CreateServer(ctx context.Context, req *CreateServerRequest) (*Server, error) {
	return postmark.Do[Server](ctx, c.client, req)
}

func (c *Client) EditServer(ctx context.Context, req *EditServerRequest) (*Server, error) {
	return postmark.Do[Server](ctx, c.client, req)
}

func (c *Client) DeleteServer(ctx context.Context, req *DeleteServerRequest) (*DeleteServerResponse, error) {
	return postmark.Do[DeleteServerResponse](ctx, c.client, req)
}

// Lookup finds a server by ID or by exact name. The API has no endpoint
// to get a server by name, so names are resolved by listing servers
// filtered by the name.
func (c *Client) Lookup(ctx context.Context, server ServerIDOrName) (*Server, error) {
	if id, ok := server.ID(); ok {
		return c.GetServer(ctx, &GetServerRequest{ID: id})
	}
	name, ok := server.Name()
	if !ok {
		return nil, fmt.Errorf("server identifier is empty")
	}

	req := &ListServersRequest{
		Count: MaxListCount,
		Name:  server,
	}
	for {
		res, err := c.ListServers(ctx, req)
		if err != nil {
			return nil, err
		}
		for i := range res.Servers {
			if res.Servers[i].Name == name {
				return &res.Servers[i], nil
			}
		}
		req.Offset += len(res.Servers)
		if len(res.Servers) == 0 || req.Offset >= res.TotalCount {
			return nil, fmt.Errorf("%w: %q", ErrServerNotFound, name)
		}
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}
