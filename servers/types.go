// Package servers covers the account API managing Postmark servers.
// Requests are authenticated with the account token.
package servers

import (
	"fmt"
	"strconv"

	"github.com/starius/postmark"
)

// ServerIDOrName addresses a server either by its numeric ID or by its name.
// Create it with ServerID or ServerName. The zero value addresses nothing
// and is omitted from optional parameters.
type ServerIDOrName struct {
	id     int
	name   string
	byName bool
	set    bool
}

// ServerID addresses a server by ID.
func ServerID(id int) ServerIDOrName {
	return ServerIDOrName{id: id, set: true}
}

// ServerName addresses a server by name.
func ServerName(name string) ServerIDOrName {
	return ServerIDOrName{name: name, byName: true, set: true}
}

// ID returns the server ID if the value is a ServerID.
func (s ServerIDOrName) ID() (int, bool) {
	return s.id, s.set && !s.byName
}

// Name returns the server name if the value is a ServerName.
func (s ServerIDOrName) Name() (string, bool) {
	return s.name, s.byName
}

func (s ServerIDOrName) IsZero() bool {
	return !s.set
}

// String renders the value the way the API expects it: decimal ID
// or the name as is.
func (s ServerIDOrName) String() string {
	if s.byName {
		return s.name
	}
	if !s.set {
		return ""
	}
	return strconv.Itoa(s.id)
}

func (s ServerIDOrName) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText always produces a ServerName: the API uses the text form
// of the identifier only as a name filter.
func (s *ServerIDOrName) UnmarshalText(text []byte) error {
	*s = ServerName(string(text))
	return nil
}

func (s ServerIDOrName) GoString() string {
	if s.byName {
		return fmt.Sprintf("servers.ServerName(%q)", s.name)
	}
	return fmt.Sprintf("servers.ServerID(%d)", s.id)
}

type DeliveryType string

const (
	Live    DeliveryType = "Live"
	Sandbox DeliveryType = "Sandbox"
)

type ServerColor string

const (
	Purple    ServerColor = "Purple"
	Blue      ServerColor = "Blue"
	Turquoise ServerColor = "Turquoise"
	Green     ServerColor = "Green"
	Red       ServerColor = "Red"
	Yellow    ServerColor = "Yellow"
	Grey      ServerColor = "Grey"
	Orange    ServerColor = "Orange"
)

// Server is a Postmark server as returned by the account API.
type Server struct {
	ID                         int                 `json:"ID" required:"true"`
	Name                       string              `json:"Name" required:"true"`
	APITokens                  []string            `json:"ApiTokens"`
	Color                      ServerColor         `json:"Color"`
	SMTPAPIActivated           bool                `json:"SmtpApiActivated"`
	RawEmailEnabled            bool                `json:"RawEmailEnabled"`
	DeliveryType               DeliveryType        `json:"DeliveryType"`
	ServerLink                 string              `json:"ServerLink"`
	InboundAddress             string              `json:"InboundAddress"`
	InboundHookURL             string              `json:"InboundHookUrl"`
	BounceHookURL              string              `json:"BounceHookUrl"`
	OpenHookURL                string              `json:"OpenHookUrl"`
	DeliveryHookURL            string              `json:"DeliveryHookUrl"`
	PostFirstOpenOnly          bool                `json:"PostFirstOpenOnly"`
	InboundDomain              string              `json:"InboundDomain"`
	InboundHash                string              `json:"InboundHash"`
	InboundSpamThreshold       int                 `json:"InboundSpamThreshold"`
	TrackOpens                 bool                `json:"TrackOpens"`
	TrackLinks                 postmark.TrackLinks `json:"TrackLinks"`
	IncludeBounceContentInHook bool                `json:"IncludeBounceContentInHook"`
	ClickHookURL               string              `json:"ClickHookUrl"`
	EnableSMTPAPIErrorHooks    bool                `json:"EnableSmtpApiErrorHooks"`
}
