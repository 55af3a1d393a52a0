// Package debugclient wraps an HTTP client to dump each Postmark request
// as a curl command followed by the response. Use it with
// postmark.CustomClient. API tokens are replaced with a placeholder.
package debugclient

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"sync/atomic"

	"github.com/starius/postmark"
	"moul.io/http2curl"
)

// Redacted replaces values of token headers in the dump.
const Redacted = "REDACTED"

var tokenHeaders = []string{
	postmark.ServerTokenHeader,
	postmark.AccountTokenHeader,
}

type DebugClient struct {
	impl postmark.HttpClient
	log  io.Writer
	n    uint64
}

var _ postmark.HttpClient = (*DebugClient)(nil)

func New(impl postmark.HttpClient, log io.Writer) (*DebugClient, error) {
	if impl == nil {
		return nil, fmt.Errorf("debugclient: HTTP client is nil")
	}
	return &DebugClient{
		impl: impl,
		log:  log,
	}, nil
}

func (c *DebugClient) Do(req *http.Request) (*http.Response, error) {
	n := atomic.AddUint64(&c.n, 1)

	curl, err := c.curlCommand(req)
	if err != nil {
		return nil, fmt.Errorf("http2curl.GetCurlCommand failed for %d: %w", n, err)
	}
	if _, err = fmt.Fprintf(c.log, "=== client request %d ===\n$ %s\n=== end of client request %d ===\n", n, curl, n); err != nil {
		return nil, fmt.Errorf("fmt.Fprintf(request) failed for %d: %w", n, err)
	}

	res, err := c.impl.Do(req)
	if err != nil {
		if _, err := fmt.Fprintf(c.log, "=== request %d failed: %v ===\n", n, err); err != nil {
			return nil, fmt.Errorf("fmt.Fprintf(error) failed for %d: %w", n, err)
		}
		return nil, err
	}

	resDump, err := httputil.DumpResponse(res, true)
	if err != nil {
		res.Body.Close()
		return nil, fmt.Errorf("httputil.DumpResponse failed for %d: %w", n, err)
	}
	if _, err = fmt.Fprintf(c.log, "=== server response %d ===\n%s\n=== end of server response %d ===\n", n, string(resDump), n); err != nil {
		res.Body.Close()
		return nil, fmt.Errorf("fmt.Fprintf(response) failed for %d: %w", n, err)
	}

	return res, nil
}

// curlCommand renders a copy of req with tokens redacted. http2curl
// consumes the body it reads, so the request keeps the buffered copy.
func (c *DebugClient) curlCommand(req *http.Request) (*http2curl.CurlCommand, error) {
	clone := req.Clone(req.Context())
	for _, header := range tokenHeaders {
		if clone.Header.Get(header) != "" {
			clone.Header.Set(header, Redacted)
		}
	}
	curl, err := http2curl.GetCurlCommand(clone)
	if err != nil {
		return nil, err
	}
	req.Body = clone.Body
	return curl, nil
}

func (c *DebugClient) CloseIdleConnections() {
	c.impl.CloseIdleConnections()
}
