package servers

import "github.com/starius/postmark"

// DefaultListCount is the page size set by NewListServersRequest.
// The API accepts at most MaxListCount.
const (
	DefaultListCount = 100
	MaxListCount     = 500
)

type ListServersRequest struct {
	Count  int            `json:"-" query:"count"`
	Offset int            `json:"-" query:"offset"`
	Name   ServerIDOrName `json:"-" query:"name,omitempty"`
}

// NewListServersRequest returns the first page of DefaultListCount servers.
func NewListServersRequest() *ListServersRequest {
	return &ListServersRequest{
		Count: DefaultListCount,
	}
}

type ListServersResponse struct {
	TotalCount int      `json:"TotalCount" required:"true"`
	Servers    []Server `json:"Servers" required:"true"`
}

type GetServerRequest struct {
	ID int `json:"-" url:"serverid"`
}

type CreateServerRequest struct {
	Name                       string              `json:"Name"`
	Color                      ServerColor         `json:"Color,omitempty"`
	SMTPAPIActivated           *bool               `json:"SmtpApiActivated,omitempty"`
	RawEmailEnabled            *bool               `json:"RawEmailEnabled,omitempty"`
	DeliveryType               DeliveryType        `json:"DeliveryType,omitempty"`
	InboundHookURL             string              `json:"InboundHookUrl,omitempty"`
	BounceHookURL              string              `json:"BounceHookUrl,omitempty"`
	OpenHookURL                string              `json:"OpenHookUrl,omitempty"`
	DeliveryHookURL            string              `json:"DeliveryHookUrl,omitempty"`
	PostFirstOpenOnly          *bool               `json:"PostFirstOpenOnly,omitempty"`
	InboundDomain              string              `json:"InboundDomain,omitempty"`
	InboundSpamThreshold       *int                `json:"InboundSpamThreshold,omitempty"`
	TrackOpens                 *bool               `json:"TrackOpens,omitempty"`
	TrackLinks                 postmark.TrackLinks `json:"TrackLinks,omitempty"`
	IncludeBounceContentInHook *bool               `json:"IncludeBounceContentInHook,omitempty"`
	ClickHookURL               string              `json:"ClickHookUrl,omitempty"`
	EnableSMTPAPIErrorHooks    *bool               `json:"EnableSmtpApiErrorHooks,omitempty"`
}

func NewCreateServerRequest(name string) *CreateServerRequest {
	return &CreateServerRequest{
		Name: name,
	}
}

// EditServerRequest changes only the fields which are not nil.
// Set a hook URL to "" to remove the hook.
type EditServerRequest struct {
	ID                         int                  `json:"-" url:"serverid"`
	Name                       *string              `json:"Name,omitempty"`
	Color                      *ServerColor         `json:"Color,omitempty"`
	SMTPAPIActivated           *bool                `json:"SmtpApiActivated,omitempty"`
	RawEmailEnabled            *bool                `json:"RawEmailEnabled,omitempty"`
	InboundHookURL             *string              `json:"InboundHookUrl,omitempty"`
	BounceHookURL              *string              `json:"BounceHookUrl,omitempty"`
	OpenHookURL                *string              `json:"OpenHookUrl,omitempty"`
	DeliveryHookURL            *string              `json:"DeliveryHookUrl,omitempty"`
	PostFirstOpenOnly          *bool                `json:"PostFirstOpenOnly,omitempty"`
	InboundDomain              *string              `json:"InboundDomain,omitempty"`
	InboundSpamThreshold       *int                 `json:"InboundSpamThreshold,omitempty"`
	TrackOpens                 *bool                `json:"TrackOpens,omitempty"`
	TrackLinks                 *postmark.TrackLinks `json:"TrackLinks,omitempty"`
	IncludeBounceContentInHook *bool                `json:"IncludeBounceContentInHook,omitempty"`
	ClickHookURL               *string              `json:"ClickHookUrl,omitempty"`
	EnableSMTPAPIErrorHooks    *bool                `json:"EnableSmtpApiErrorHooks,omitempty"`
}

func NewEditServerRequest(id int) *EditServerRequest {
	return &EditServerRequest{
		ID: id,
	}
}

type DeleteServerRequest struct {
	ID int `json:"-" url:"serverid"`
}

type DeleteServerResponse struct {
	ErrorCode int    `json:"ErrorCode"`
	Message   string `json:"Message" required:"true"`
}
