package messagestreams

import (
	"context"
	"net/http"

	"github.com/starius/postmark"
)

type Service interface {
	ListMessageStreams(ctx context.Context, req *ListMessageStreamsRequest) (*ListMessageStreamsResponse, error)
	GetMessageStream(ctx context.Context, req *GetMessageStreamRequest) (*MessageStream, error)
	CreateMessageStream(ctx context.Context, req *CreateMessageStreamRequest) (*MessageStream, error)
	EditMessageStream(ctx context.Context, req *EditMessageStreamRequest) (*MessageStream, error)
	ArchiveMessageStream(ctx context.Context, req *ArchiveMessageStreamRequest) (*ArchiveMessageStreamResponse, error)
	UnarchiveMessageStream(ctx context.Context, req *UnarchiveMessageStreamRequest) (*MessageStream, error)

	GetSuppressions(ctx context.Context, req *GetSuppressionsRequest) (*GetSuppressionsResponse, error)
	CreateSuppressions(ctx context.Context, req *CreateSuppressionsRequest) (*SuppressionResultsResponse, error)
	DeleteSuppressions(ctx context.Context, req *DeleteSuppressionsRequest) (*SuppressionResultsResponse, error)
}

func Routes(s Service) []postmark.Route {
	return []postmark.Route{
		{Method: http.MethodGet, Path: "/message-streams", Handler: postmark.Method(&s, "ListMessageStreams"), Token: postmark.ServerAuth},
		{Method: http.MethodGet, Path: "/message-streams/:stream", Handler: postmark.Method(&s, "GetMessageStream"), Token: postmark.ServerAuth},
		{Method: http.MethodPost, Path: "/message-streams", Handler: postmark.Method(&s, "CreateMessageStream"), Token: postmark.ServerAuth},
		{Method: http.MethodPatch, Path: "/message-streams/:stream", Handler: postmark.Method(&s, "EditMessageStream"), Token: postmark.ServerAuth},
		{Method: http.MethodPost, Path: "/message-streams/:stream/archive", Handler: postmark.Method(&s, "ArchiveMessageStream"), Token: postmark.ServerAuth},
		{Method: http.MethodPost, Path: "/message-streams/:stream/unarchive", Handler: postmark.Method(&s, "UnarchiveMessageStream"), Token: postmark.ServerAuth},

		{Method: http.MethodGet, Path: "/message-streams/:stream/suppressions/dump", Handler: postmark.Method(&s, "GetSuppressions"), Token: postmark.ServerAuth},
		{Method: http.MethodPost, Path: "/message-streams/:stream/suppressions", Handler: postmark.Method(&s, "CreateSuppressions"), Token: postmark.ServerAuth},
		{Method: http.MethodPost, Path: "/message-streams/:stream/suppressions/delete", Handler: postmark.Method(&s, "DeleteSuppressions"), Token: postmark.ServerAuth},
	}
}
