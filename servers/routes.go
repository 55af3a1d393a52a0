package servers

import (
	"context"
	"net/http"

	"github.com/starius/postmark"
)

type Service interface {
	ListServers(ctx context.Context, req *ListServersRequest) (*ListServersResponse, error)
	GetServer(ctx context.Context, req *GetServerRequest) (*Server, error)
	CreateServer(ctx context.Context, req *CreateServerRequest) (*Server, error)
	EditServer(ctx context.Context, req *EditServerRequest) (*Server, error)
	DeleteServer(ctx context.Context, req *DeleteServerRequest) (*DeleteServerResponse, error)
}

func Routes(s Service) []postmark.Route {
	return []postmark.Route{
		{Method: http.MethodGet, Path: "/servers", Handler: postmark.Method(&s, "ListServers"), Token: postmark.AccountAuth},
		{Method: http.MethodGet, Path: "/servers/:serverid", Handler: postmark.Method(&s, "GetServer"), Token: postmark.AccountAuth},
		{Method: http.MethodPost, Path: "/servers", Handler: postmark.Method(&s, "CreateServer"), Token: postmark.AccountAuth},
		{Method: http.MethodPut, Path: "/servers/:serverid", Handler: postmark.Method(&s, "EditServer"), Token: postmark.AccountAuth},
		{Method: http.MethodDelete, Path: "/servers/:serverid", Handler: postmark.Method(&s, "DeleteServer"), Token: postmark.AccountAuth},
	}
}
