// Package postmarktest runs fake Postmark API servers for tests.
package postmarktest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/starius/postmark"
	pmerrors "github.com/starius/postmark/errors"
)

// Tokens expected by the fake server. Requests to a route must carry the
// token of the route's kind, like in Postmark.
type Tokens struct {
	Server  string
	Account string
}

func (t Tokens) get(kind postmark.TokenKind) string {
	if kind == postmark.AccountAuth {
		return t.Account
	}
	return t.Server
}

// Handler serves route tables, checking tokens first.
func Handler(tokens Tokens, routeTables ...[]postmark.Route) http.Handler {
	kind2routes := make(map[postmark.TokenKind][]postmark.Route)
	for _, routes := range routeTables {
		for _, route := range routes {
			kind2routes[route.Token] = append(kind2routes[route.Token], route)
		}
	}
	kind2mux := make(map[postmark.TokenKind]*http.ServeMux, len(kind2routes))
	for kind, routes := range kind2routes {
		mux := http.NewServeMux()
		postmark.BindRoutes(mux, routes)
		kind2mux[kind] = mux
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for kind, mux := range kind2mux {
			if _, pattern := mux.Handler(r); pattern == "" {
				continue
			}
			if token := r.Header.Get(kind.Header()); token == "" || token != tokens.get(kind) {
				err := pmerrors.Unauthorized("request does not contain a valid %s token in header %s", kind, kind.Header())
				_ = postmark.DefaultTransport.EncodeError(context.Background(), w, err)
				return
			}
			mux.ServeHTTP(w, r)
			return
		}
		_ = postmark.DefaultTransport.EncodeError(context.Background(), w, pmerrors.NotFound(0, "no route for %s %s", r.Method, r.URL.Path))
	})
}

// NewServer starts a fake Postmark API serving the route tables.
// The server is closed when the test finishes.
func NewServer(t testing.TB, tokens Tokens, routeTables ...[]postmark.Route) *httptest.Server {
	server := httptest.NewServer(Handler(tokens, routeTables...))
	t.Cleanup(server.Close)
	return server
}
