package postmark

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client is used to call Postmark API endpoints.
//
// Client is immutable after construction and safe for concurrent use.
type Client struct {
	routeMap  map[signature]Route
	client    HttpClient
	baseURL   string
	logger    zerolog.Logger
	tokens    map[TokenKind]string
	userAgent string
	maxBody   int64
}

type signature struct {
	request  reflect.Type
	response reflect.Type
}

// NewClient creates new instance of client.
//
// The list of routes must provide all routes that this client is aware of.
// Endpoints of routes are appended to baseURL to generate final URL used
// by HTTP client. All pairs of (request type, response type) must be
// unique in the table of routes.
func NewClient(routes []Route, baseURL string, opts ...Option) *Client {
	config := NewDefaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	client := config.client
	if client == nil {
		client = &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}

	routeMap := make(map[signature]Route, len(routes))
	for _, route := range routes {
		handlerType := reflect.TypeOf(handlerFunc(route.Handler))
		validateHandler(handlerType, route.Path)
		key := signature{
			request:  handlerType.In(1),
			response: handlerType.Out(0),
		}
		if _, has := routeMap[key]; has {
			panic(fmt.Sprintf("Already has a handler with signature %v.", key))
		}
		routeMap[key] = route
	}

	return &Client{
		routeMap: routeMap,
		client:   client,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		logger:   config.logger,
		tokens: map[TokenKind]string{
			ServerAuth:  config.serverToken,
			AccountAuth: config.accountToken,
		},
		userAgent: config.userAgent,
		maxBody:   config.maxBody,
	}
}

// Route returns the route serving the pair of request and response types.
func (c *Client) Route(response, request interface{}) (Route, bool) {
	route, has := c.routeMap[signature{
		request:  reflect.TypeOf(request),
		response: reflect.TypeOf(response),
	}]
	return route, has
}

// Call calls remote method deduced by request and response types.
// Both request and response must be pointers to structs.
//
// Errors are *TransportError if no response was received, *APIError if
// the status is not 2xx and *DecodeError if the response body does not
// match the response type. Nothing is retried.
func (c *Client) Call(ctx context.Context, response, request interface{}) error {
	route, has := c.Route(response, request)
	if !has {
		panic(fmt.Sprintf("No registered method with signature %T %T.", request, response))
	}

	t := route.Transport
	if t == nil {
		t = DefaultTransport
	}

	endpoint, err := route.Endpoint(request)
	if err != nil {
		return fmt.Errorf("failed to build endpoint of %s %s: %w", route.Method, route.Path, err)
	}
	url := c.baseURL + endpoint

	req, err := t.EncodeRequest(ctx, route.Method, url, request)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	if token := c.tokens[route.Token]; token != "" {
		req.Header.Set(route.Token.Header(), token)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	res, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", route.Method).Str("endpoint", endpoint).Msg("postmark request failed")
		return &TransportError{
			Method: route.Method,
			URL:    url,
			Err:    err,
		}
	}
	res.Body = http.MaxBytesReader(nil, res.Body, c.maxBody)
	defer func() {
		if err := res.Body.Close(); err != nil {
			c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("failed to close response body")
		}
	}()

	c.logger.Debug().
		Str("method", route.Method).
		Str("endpoint", endpoint).
		Int("status", res.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("postmark call")

	// Handle all 2xx responses as success.
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return t.DecodeError(req.Context(), res)
	}
	if err := t.DecodeResponse(req.Context(), res, response); err != nil {
		return &DecodeError{
			StatusCode: res.StatusCode,
			Err:        err,
		}
	}
	return nil
}

// Do calls the endpoint serving request and returns the decoded response.
// Res is the response type of the route, e.g.:
//
//	res, err := postmark.Do[servers.ListServersResponse](ctx, client, req)
func Do[Res any, Req any](ctx context.Context, c *Client, req *Req) (*Res, error) {
	res := new(Res)
	if err := c.Call(ctx, res, req); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes idle connections of the HTTP client.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()

	if closer, ok := c.client.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return err
		}
	}

	return nil
}

// Ptr returns a pointer to v. Use it to fill optional fields of requests.
func Ptr[T any](v T) *T {
	return &v
}
