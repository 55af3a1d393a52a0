package servers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/starius/postmark"
	pmerrors "github.com/starius/postmark/errors"
	"github.com/starius/postmark/postmarktest"
	"github.com/stretchr/testify/require"
)

const accountToken = "account-token"

type fakeServers struct {
	mu      sync.Mutex
	lastID  int
	servers map[int]*Server
}

func newFakeServers() *fakeServers {
	return &fakeServers{servers: make(map[int]*Server)}
}

func (f *fakeServers) ListServers(ctx context.Context, req *ListServersRequest) (*ListServersResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name, _ := req.Name.Name()
	all := []Server{}
	for _, s := range f.servers {
		if strings.Contains(s.Name, name) {
			all = append(all, *s)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].ID < all[j].ID
	})
	res := &ListServersResponse{TotalCount: len(all), Servers: []Server{}}
	if req.Offset < len(all) {
		all = all[req.Offset:]
		if len(all) > req.Count {
			all = all[:req.Count]
		}
		res.Servers = all
	}
	return res, nil
}

func (f *fakeServers) GetServer(ctx context.Context, req *GetServerRequest) (*Server, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, has := f.servers[req.ID]
	if !has {
		return nil, pmerrors.NotFound(0, "server %d not found", req.ID)
	}
	server := *s
	return &server, nil
}

func (f *fakeServers) CreateServer(ctx context.Context, req *CreateServerRequest) (*Server, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if req.Name == "" {
		return nil, pmerrors.Unprocessable(pmerrors.InvalidJSON, "Name is required")
	}
	f.lastID++
	s := &Server{
		ID:           f.lastID,
		Name:         req.Name,
		APITokens:    []string{fmt.Sprintf("server-token-%d", f.lastID)},
		Color:        Purple,
		DeliveryType: Live,
		TrackLinks:   postmark.TrackLinksNone,
		ServerLink:   fmt.Sprintf("https://postmarkapp.com/servers/%d/streams", f.lastID),
	}
	if req.Color != "" {
		s.Color = req.Color
	}
	if req.DeliveryType != "" {
		s.DeliveryType = req.DeliveryType
	}
	if req.TrackOpens != nil {
		s.TrackOpens = *req.TrackOpens
	}
	f.servers[s.ID] = s
	server := *s
	return &server, nil
}

func (f *fakeServers) EditServer(ctx context.Context, req *EditServerRequest) (*Server, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, has := f.servers[req.ID]
	if !has {
		return nil, pmerrors.NotFound(0, "server %d not found", req.ID)
	}
	if req.Name != nil {
		s.Name = *req.Name
	}
	if req.Color != nil {
		s.Color = *req.Color
	}
	if req.BounceHookURL != nil {
		s.BounceHookURL = *req.BounceHookURL
	}
	if req.TrackLinks != nil {
		s.TrackLinks = *req.TrackLinks
	}
	server := *s
	return &server, nil
}

func (f *fakeServers) DeleteServer(ctx context.Context, req *DeleteServerRequest) (*DeleteServerResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, has := f.servers[req.ID]
	if !has {
		return nil, pmerrors.NotFound(0, "server %d not found", req.ID)
	}
	delete(f.servers, req.ID)
	return &DeleteServerResponse{Message: fmt.Sprintf("Server %s removed.", s.Name)}, nil
}

func newTestClient(t *testing.T) *Client {
	server := postmarktest.NewServer(t, postmarktest.Tokens{Account: accountToken}, Routes(newFakeServers()))
	client := NewClient(server.URL, postmark.AccountToken(accountToken))
	t.Cleanup(func() {
		client.Close()
	})
	return client
}

func TestEndpoints(t *testing.T) {
	client := postmark.NewClient(Routes(nil), postmark.DefaultBaseURL)

	cases := []struct {
		name       string
		request    interface{}
		response   interface{}
		wantMethod string
		wantPath   string
	}{
		{
			name:       "list with name",
			request:    &ListServersRequest{Count: 1, Offset: 0, Name: ServerName("TEST-NAME")},
			response:   &ListServersResponse{},
			wantMethod: http.MethodGet,
			wantPath:   "/servers?count=1&offset=0&name=TEST-NAME",
		},
		{
			name:       "list without name",
			request:    &ListServersRequest{Count: 1, Offset: 0},
			response:   &ListServersResponse{},
			wantMethod: http.MethodGet,
			wantPath:   "/servers?count=1&offset=0",
		},
		{
			name:       "list with escaped name",
			request:    &ListServersRequest{Count: 10, Offset: 20, Name: ServerName("a&b c")},
			response:   &ListServersResponse{},
			wantMethod: http.MethodGet,
			wantPath:   "/servers?count=10&offset=20&name=a%26b+c",
		},
		{
			name:       "list defaults",
			request:    NewListServersRequest(),
			response:   &ListServersResponse{},
			wantMethod: http.MethodGet,
			wantPath:   "/servers?count=100&offset=0",
		},
		{
			name:       "get",
			request:    &GetServerRequest{ID: 123},
			response:   &Server{},
			wantMethod: http.MethodGet,
			wantPath:   "/servers/123",
		},
		{
			name:       "create",
			request:    NewCreateServerRequest("Production"),
			response:   &Server{},
			wantMethod: http.MethodPost,
			wantPath:   "/servers",
		},
		{
			name:       "edit",
			request:    NewEditServerRequest(7),
			response:   &Server{},
			wantMethod: http.MethodPut,
			wantPath:   "/servers/7",
		},
		{
			name:       "delete",
			request:    &DeleteServerRequest{ID: 7},
			response:   &DeleteServerResponse{},
			wantMethod: http.MethodDelete,
			wantPath:   "/servers/7",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			route, has := client.Route(tc.response, tc.request)
			require.True(t, has)
			require.Equal(t, tc.wantMethod, route.Method)
			require.Equal(t, postmark.AccountAuth, route.Token)
			path, err := route.Endpoint(tc.request)
			require.NoError(t, err)
			require.Equal(t, tc.wantPath, path)
		})
	}
}

func TestServerIDOrName(t *testing.T) {
	id := ServerID(1024)
	require.Equal(t, "1024", id.String())
	gotID, ok := id.ID()
	require.True(t, ok)
	require.Equal(t, 1024, gotID)
	_, ok = id.Name()
	require.False(t, ok)
	require.False(t, id.IsZero())

	name := ServerName("Production01")
	require.Equal(t, "Production01", name.String())
	gotName, ok := name.Name()
	require.True(t, ok)
	require.Equal(t, "Production01", gotName)
	_, ok = name.ID()
	require.False(t, ok)

	var zero ServerIDOrName
	require.True(t, zero.IsZero())
	require.Equal(t, "", zero.String())
	_, ok = zero.ID()
	require.False(t, ok)

	require.Equal(t, "0", ServerID(0).String())
	require.Equal(t, "-5", ServerID(-5).String())

	var parsed ServerIDOrName
	require.NoError(t, parsed.UnmarshalText([]byte("42")))
	require.Equal(t, ServerName("42"), parsed)
}

func TestRequestJSON(t *testing.T) {
	cases := []struct {
		name    string
		request interface{}
		want    string
	}{
		{
			name:    "create with required fields",
			request: NewCreateServerRequest("Production"),
			want:    `{"Name":"Production"}`,
		},
		{
			name: "create with optional fields",
			request: &CreateServerRequest{
				Name:             "Production",
				Color:            Red,
				SMTPAPIActivated: postmark.Ptr(false),
				InboundHookURL:   "https://hooks.example.com/inbound",
				TrackLinks:       postmark.TrackLinksHtmlOnly,
			},
			want: `{"Name":"Production","Color":"Red","SmtpApiActivated":false,"InboundHookUrl":"https://hooks.example.com/inbound","TrackLinks":"HtmlOnly"}`,
		},
		{
			name:    "edit without changes",
			request: NewEditServerRequest(10),
			want:    `{}`,
		},
		{
			name: "edit clears a hook",
			request: &EditServerRequest{
				ID:            10,
				Name:          postmark.Ptr("Staging"),
				BounceHookURL: postmark.Ptr(""),
			},
			want: `{"Name":"Staging","BounceHookUrl":""}`,
		},
		{
			name:    "list has no body fields",
			request: &ListServersRequest{Count: 1, Name: ServerName("x")},
			want:    `{}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := json.Marshal(tc.request)
			require.NoError(t, err)
			require.JSONEq(t, tc.want, string(got))
		})
	}
}

const listServersJSON = `{
  "TotalCount": 2,
  "Servers": [
    {
      "ID": 1,
      "Name": "Production01",
      "ApiTokens": ["server token"],
      "Color": "red",
      "SmtpApiActivated": true,
      "RawEmailEnabled": false,
      "DeliveryType": "Live",
      "ServerLink": "https://postmarkapp.com/servers/1/streams",
      "InboundAddress": "yourhash@inbound.postmarkapp.com",
      "InboundHookUrl": "http://inboundhook.example.com/inbound",
      "BounceHookUrl": "http://bouncehook.example.com/bounce",
      "OpenHookUrl": "http://openhook.example.com/open",
      "DeliveryHookUrl": "http://hooks.example.com/delivery",
      "PostFirstOpenOnly": true,
      "InboundDomain": "",
      "InboundHash": "yourhash",
      "InboundSpamThreshold": 5,
      "TrackOpens": false,
      "TrackLinks": "None",
      "IncludeBounceContentInHook": true,
      "ClickHookUrl": "http://hooks.example.com/click",
      "EnableSmtpApiErrorHooks": false
    },
    {
      "ID": 2,
      "Name": "Production02",
      "ApiTokens": ["server token"],
      "Color": "green",
      "SmtpApiActivated": true,
      "RawEmailEnabled": false,
      "DeliveryType": "Sandbox",
      "ServerLink": "https://postmarkapp.com/servers/2/streams",
      "InboundAddress": "yourhash@inbound.postmarkapp.com",
      "InboundHookUrl": "",
      "BounceHookUrl": "",
      "OpenHookUrl": "",
      "DeliveryHookUrl": "http://hooks.example.com/delivery",
      "PostFirstOpenOnly": false,
      "InboundDomain": "",
      "InboundHash": "yourhash",
      "InboundSpamThreshold": 0,
      "TrackOpens": true,
      "TrackLinks": "HtmlAndText",
      "IncludeBounceContentInHook": false,
      "ClickHookUrl": "",
      "EnableSmtpApiErrorHooks": false
    }
  ]
}`

func TestListServersWire(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/servers" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get(postmark.AccountTokenHeader) != accountToken || r.Header.Get(postmark.ServerTokenHeader) != "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.RawQuery != "count=100&offset=0&name=TEST-NAME" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, listServersJSON)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, postmark.AccountToken(accountToken), postmark.ServerToken("unused"))
	t.Cleanup(func() {
		client.Close()
	})

	req := NewListServersRequest()
	req.Name = ServerName("TEST-NAME")
	res, err := client.ListServers(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 2, res.TotalCount)
	require.Len(t, res.Servers, 2)

	first := res.Servers[0]
	require.Equal(t, 1, first.ID)
	require.Equal(t, "Production01", first.Name)
	require.Equal(t, []string{"server token"}, first.APITokens)
	require.Equal(t, ServerColor("red"), first.Color)
	require.True(t, first.SMTPAPIActivated)
	require.Equal(t, Live, first.DeliveryType)
	require.Equal(t, "http://bouncehook.example.com/bounce", first.BounceHookURL)
	require.Equal(t, 5, first.InboundSpamThreshold)
	require.Equal(t, postmark.TrackLinksNone, first.TrackLinks)
	require.True(t, first.IncludeBounceContentInHook)

	second := res.Servers[1]
	require.Equal(t, Sandbox, second.DeliveryType)
	require.Equal(t, postmark.TrackLinksHtmlAndText, second.TrackLinks)
	require.True(t, second.TrackOpens)
}

func TestListItemMissingRequiredField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"TotalCount": 2, "Servers": [{"ID": 1, "Name": "mail"}, {"Color": "Red"}]}`)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, postmark.AccountToken(accountToken))
	t.Cleanup(func() {
		client.Close()
	})

	_, err := client.ListServers(context.Background(), NewListServersRequest())
	var decodeErr *postmark.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, http.StatusOK, decodeErr.StatusCode)
	require.Contains(t, err.Error(), `Servers[1]: required field "ID" is missing`)

	_, err = client.Lookup(context.Background(), ServerName("mail"))
	require.ErrorAs(t, err, &decodeErr)
}

func TestClient(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	created, err := client.CreateServer(ctx, &CreateServerRequest{
		Name:       "Production01",
		Color:      Green,
		TrackOpens: postmark.Ptr(true),
	})
	require.NoError(t, err)
	require.Equal(t, "Production01", created.Name)
	require.Equal(t, Green, created.Color)
	require.Equal(t, Live, created.DeliveryType)
	require.True(t, created.TrackOpens)

	_, err = client.CreateServer(ctx, NewCreateServerRequest("Staging"))
	require.NoError(t, err)
	_, err = client.CreateServer(ctx, NewCreateServerRequest("Production02"))
	require.NoError(t, err)

	got, err := client.GetServer(ctx, &GetServerRequest{ID: created.ID})
	require.NoError(t, err)
	require.Equal(t, created, got)

	list, err := client.ListServers(ctx, NewListServersRequest())
	require.NoError(t, err)
	require.Equal(t, 3, list.TotalCount)
	require.Len(t, list.Servers, 3)

	list, err = client.ListServers(ctx, &ListServersRequest{Count: 1, Offset: 1, Name: ServerName("Production")})
	require.NoError(t, err)
	require.Equal(t, 2, list.TotalCount)
	require.Len(t, list.Servers, 1)
	require.Equal(t, "Production02", list.Servers[0].Name)

	edit := NewEditServerRequest(created.ID)
	edit.Name = postmark.Ptr("Production03")
	edit.TrackLinks = postmark.Ptr(postmark.TrackLinksTextOnly)
	edited, err := client.EditServer(ctx, edit)
	require.NoError(t, err)
	require.Equal(t, "Production03", edited.Name)
	require.Equal(t, Green, edited.Color)
	require.Equal(t, postmark.TrackLinksTextOnly, edited.TrackLinks)

	deleted, err := client.DeleteServer(ctx, &DeleteServerRequest{ID: created.ID})
	require.NoError(t, err)
	require.Equal(t, 0, deleted.ErrorCode)
	require.Equal(t, "Server Production03 removed.", deleted.Message)

	_, err = client.GetServer(ctx, &GetServerRequest{ID: created.ID})
	var apiErr *postmark.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Contains(t, apiErr.Message, "not found")

	_, err = client.CreateServer(ctx, NewCreateServerRequest(""))
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	require.True(t, pmerrors.Is(err, pmerrors.InvalidJSON))
}

func TestLookup(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	for _, name := range []string{"mail", "mail-eu", "mail-us"} {
		_, err := client.CreateServer(ctx, NewCreateServerRequest(name))
		require.NoError(t, err)
	}

	found, err := client.Lookup(ctx, ServerName("mail"))
	require.NoError(t, err)
	require.Equal(t, "mail", found.Name)

	byID, err := client.Lookup(ctx, ServerID(found.ID))
	require.NoError(t, err)
	require.Equal(t, found, byID)

	_, err = client.Lookup(ctx, ServerName("mail-asia"))
	require.True(t, errors.Is(err, ErrServerNotFound))

	_, err = client.Lookup(ctx, ServerIDOrName{})
	require.Error(t, err)
}

func TestWrongToken(t *testing.T) {
	server := postmarktest.NewServer(t, postmarktest.Tokens{Account: accountToken}, Routes(newFakeServers()))
	client := NewClient(server.URL, postmark.AccountToken("wrong"))
	t.Cleanup(func() {
		client.Close()
	})

	_, err := client.ListServers(context.Background(), NewListServersRequest())
	var apiErr *postmark.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, pmerrors.InvalidAPIToken, apiErr.ErrorCode)
}
