package postmark_test

import (
	"encoding/json"
	"net/http"
	"testing"

	spec "github.com/getkin/kin-openapi/openapi3"
	"github.com/starius/postmark"
	"github.com/starius/postmark/email"
	"github.com/starius/postmark/messagestreams"
	"github.com/starius/postmark/servers"
	"github.com/stretchr/testify/require"
)

func findParameter(op *spec.Operation, name string) *spec.Parameter {
	for _, p := range op.Parameters {
		if p.Value.Name == name {
			return p.Value
		}
	}
	return nil
}

func TestGenerateOpenApiSpec(t *testing.T) {
	swag, err := postmark.GenerateOpenApiSpec(
		servers.Routes(nil),
		messagestreams.Routes(nil),
		email.Routes(nil),
	)
	require.NoError(t, err)

	require.Equal(t, "3.0.0", swag.OpenAPI)
	require.Equal(t, postmark.DefaultBaseURL, swag.Servers[0].URL)
	require.Contains(t, swag.Components.SecuritySchemes, "ServerToken")
	require.Contains(t, swag.Components.SecuritySchemes, "AccountToken")
	require.Equal(t, postmark.AccountTokenHeader, swag.Components.SecuritySchemes["AccountToken"].Value.Name)

	for _, path := range []string{
		"/servers",
		"/servers/{serverid}",
		"/message-streams",
		"/message-streams/{stream}",
		"/message-streams/{stream}/archive",
		"/message-streams/{stream}/unarchive",
		"/message-streams/{stream}/suppressions",
		"/message-streams/{stream}/suppressions/dump",
		"/message-streams/{stream}/suppressions/delete",
		"/email",
		"/email/batch",
	} {
		require.Contains(t, swag.Paths, path)
	}
	require.Len(t, swag.Paths, 11)

	list := swag.Paths["/servers"].Get
	require.NotNil(t, list)
	require.Equal(t, "ListServers", list.OperationID)
	require.Equal(t, []string{"servers"}, list.Tags)
	require.Nil(t, list.RequestBody)
	require.Equal(t, spec.TypeInteger, findParameter(list, "count").Schema.Value.Type)
	require.Equal(t, spec.TypeString, findParameter(list, "name").Schema.Value.Type)
	require.Equal(t, "query", findParameter(list, "offset").In)
	require.Contains(t, (*list.Security)[0], "AccountToken")

	edit := swag.Paths["/servers/{serverid}"].Put
	require.NotNil(t, edit)
	require.Equal(t, "EditServer", edit.OperationID)
	id := findParameter(edit, "serverid")
	require.NotNil(t, id)
	require.Equal(t, "path", id.In)
	require.True(t, id.Required)
	require.NotNil(t, edit.RequestBody)

	editStream := swag.Paths["/message-streams/{stream}"].Patch
	require.NotNil(t, editStream)
	require.Equal(t, []string{"messagestreams"}, editStream.Tags)
	require.Contains(t, (*editStream.Security)[0], "ServerToken")
	body := editStream.RequestBody.Value.Content.Get("application/json").Schema.Value
	require.Contains(t, body.Properties, "Name")
	require.Contains(t, body.Properties, "Description")
	require.NotContains(t, body.Properties, "StreamID")

	dump := swag.Paths["/message-streams/{stream}/suppressions/dump"].Get
	require.NotNil(t, findParameter(dump, "fromdate"))
	require.Equal(t, spec.TypeString, findParameter(dump, "fromdate").Schema.Value.Type)

	batch := swag.Paths["/email/batch"].Post
	require.Equal(t, "SendBatch", batch.OperationID)
	require.Equal(t, spec.TypeArray, batch.RequestBody.Value.Content.Get("application/json").Schema.Value.Type)
	ok := batch.Responses.Get(http.StatusOK)
	require.NotNil(t, ok)
	require.Equal(t, spec.TypeArray, ok.Value.Content.Get("application/json").Schema.Value.Type)
	require.NotNil(t, batch.Responses.Default())

	_, err = json.Marshal(swag)
	require.NoError(t, err)
}
