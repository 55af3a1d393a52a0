package messagestreams

import "time"

type ListMessageStreamsRequest struct {
	MessageStreamType      StreamType `json:"-" query:"MessageStreamType,omitempty"`
	IncludeArchivedStreams bool       `json:"-" query:"IncludeArchivedStreams,omitempty"`
}

type ListMessageStreamsResponse struct {
	MessageStreams []MessageStream `json:"MessageStreams" required:"true"`
	TotalCount     int             `json:"TotalCount" required:"true"`
}

type GetMessageStreamRequest struct {
	StreamID StreamID `json:"-" url:"stream"`
}

type CreateMessageStreamRequest struct {
	ID                                  StreamID                             `json:"ID"`
	Name                                string                               `json:"Name"`
	MessageStreamType                   StreamType                           `json:"MessageStreamType"`
	Description                         string                               `json:"Description,omitempty"`
	SubscriptionManagementConfiguration *SubscriptionManagementConfiguration `json:"SubscriptionManagementConfiguration,omitempty"`
}

func NewCreateMessageStreamRequest(id StreamID, name string, streamType StreamType) *CreateMessageStreamRequest {
	return &CreateMessageStreamRequest{
		ID:                id,
		Name:              name,
		MessageStreamType: streamType,
	}
}

// EditMessageStreamRequest changes only the fields which are not nil.
type EditMessageStreamRequest struct {
	StreamID                            StreamID                             `json:"-" url:"stream"`
	Name                                *string                              `json:"Name,omitempty"`
	Description                         *string                              `json:"Description,omitempty"`
	SubscriptionManagementConfiguration *SubscriptionManagementConfiguration `json:"SubscriptionManagementConfiguration,omitempty"`
}

func NewEditMessageStreamRequest(id StreamID) *EditMessageStreamRequest {
	return &EditMessageStreamRequest{
		StreamID: id,
	}
}

type ArchiveMessageStreamRequest struct {
	StreamID StreamID `json:"-" url:"stream"`
}

type ArchiveMessageStreamResponse struct {
	ID                StreamID  `json:"ID" required:"true"`
	ServerID          int       `json:"ServerID"`
	ExpectedPurgeDate time.Time `json:"ExpectedPurgeDate" required:"true"`
}

type UnarchiveMessageStreamRequest struct {
	StreamID StreamID `json:"-" url:"stream"`
}

// GetSuppressionsRequest dumps the suppression list of a stream.
// Filters are optional.
type GetSuppressionsRequest struct {
	StreamID          StreamID          `json:"-" url:"stream"`
	SuppressionReason SuppressionReason `json:"-" query:"SuppressionReason,omitempty"`
	Origin            SuppressionOrigin `json:"-" query:"Origin,omitempty"`
	FromDate          Date              `json:"-" query:"fromdate,omitempty"`
	ToDate            Date              `json:"-" query:"todate,omitempty"`
	EmailAddress      string            `json:"-" query:"EmailAddress,omitempty"`
}

type GetSuppressionsResponse struct {
	Suppressions []Suppression `json:"Suppressions" required:"true"`
}

type CreateSuppressionsRequest struct {
	StreamID     StreamID           `json:"-" url:"stream"`
	Suppressions []SuppressionEntry `json:"Suppressions"`
}

type DeleteSuppressionsRequest struct {
	StreamID     StreamID           `json:"-" url:"stream"`
	Suppressions []SuppressionEntry `json:"Suppressions"`
}

type SuppressionResultsResponse struct {
	Suppressions []SuppressionResult `json:"Suppressions" required:"true"`
}

// Entries converts addresses to suppression entries.
func Entries(emailAddresses ...string) []SuppressionEntry {
	entries := make([]SuppressionEntry, 0, len(emailAddresses))
	for _, address := range emailAddresses {
		entries = append(entries, SuppressionEntry{EmailAddress: address})
	}
	return entries
}
