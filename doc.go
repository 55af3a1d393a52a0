/*
Package postmark is a typed client of the Postmark transactional email API.

Every endpoint of the API is a pair of Go types, a request and a response,
plus an HTTP method and a path. The endpoints of one area of the API
(servers, message streams, email) are collected in a table of routes:

	func Routes(s Service) []postmark.Route {
		return []postmark.Route{
			{Method: http.MethodGet, Path: "/servers", Handler: postmark.Method(&s, "ListServers"), Token: postmark.AccountAuth},
			{Method: http.MethodPut, Path: "/servers/:serverid", Handler: postmark.Method(&s, "EditServer"), Token: postmark.AccountAuth},
		}
	}

Service is a Go interface whose methods have the signature

	func(ctx, *Request) (*Response, error)

Request fields are tagged to tell where they go on the wire:

	type EditServerRequest struct {
		// Path parameter, fills ":serverid" of the path.
		ID int `json:"-" url:"serverid"`

		// Query parameter, omitted if zero.
		Name string `json:"-" query:"name,omitempty"`

		// Body fields use the PascalCase names of Postmark.
		Color *ServerColor `json:"Color,omitempty"`
	}

Values of path and query parameters are escaped. Query parameters are
written in the order of fields. GET and DELETE requests and requests
without body fields are sent without body. If the body is not a JSON
object (e.g. a batch of emails is a JSON array), put it in the only body
field tagged `use_as_body:"true"`.

Response fields tagged `required:"true"` must be present in the response,
otherwise Call returns *DecodeError.

The client is created from the table of routes:

	client := postmark.NewClient(servers.Routes(nil), postmark.DefaultBaseURL,
		postmark.AccountToken(token))
	res := &servers.ListServersResponse{}
	err := client.Call(ctx, res, &servers.ListServersRequest{Count: 10})

The route is found by the types of request and response, so the service
passed to Routes may be nil on client side. Area packages provide typed
clients on top of Call (servers.Client, messagestreams.Client,
email.Client), and BindRoutes serves a Service implementation over HTTP
with the same wire format, which is used as fake Postmark in tests.

Errors returned by Call are one of:

  - *TransportError: no HTTP response was received;
  - *APIError: the response has non-2xx status, ErrorCode and Message
    are taken from the Postmark error payload when it parses;
  - *DecodeError: the response has 2xx status, but its body does not
    match the response type.

The client never retries.
*/
package postmark
