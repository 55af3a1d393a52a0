package email

import (
	"context"
	"net/http"

	"github.com/starius/postmark"
)

type Service interface {
	SendEmail(ctx context.Context, req *Message) (*SendResponse, error)
	SendBatch(ctx context.Context, req *BatchRequest) (*BatchResponse, error)
}

func Routes(s Service) []postmark.Route {
	return []postmark.Route{
		{Method: http.MethodPost, Path: "/email", Handler: postmark.Method(&s, "SendEmail"), Token: postmark.ServerAuth},
		{Method: http.MethodPost, Path: "/email/batch", Handler: postmark.Method(&s, "SendBatch"), Token: postmark.ServerAuth},
	}
}
