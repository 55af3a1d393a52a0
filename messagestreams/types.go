// Package messagestreams covers message streams of a server and their
// suppression lists. Requests are authenticated with the server token.
package messagestreams

import (
	"fmt"
	"time"
)

// StreamID identifies a message stream, e.g. "outbound" or "broadcast".
type StreamID string

func (id StreamID) String() string {
	return string(id)
}

type StreamType string

const (
	Transactional StreamType = "Transactional"
	Broadcasts    StreamType = "Broadcasts"
	Inbound       StreamType = "Inbound"

	// AllStreams is only valid as a filter of ListMessageStreamsRequest.
	AllStreams StreamType = "All"
)

type UnsubscribeHandlingType string

const (
	UnsubscribeNone     UnsubscribeHandlingType = "None"
	UnsubscribePostmark UnsubscribeHandlingType = "Postmark"
	UnsubscribeCustom   UnsubscribeHandlingType = "Custom"
)

type SubscriptionManagementConfiguration struct {
	UnsubscribeHandlingType UnsubscribeHandlingType `json:"UnsubscribeHandlingType"`
}

type MessageStream struct {
	ID                                  StreamID                            `json:"ID" required:"true"`
	ServerID                            int                                 `json:"ServerID"`
	Name                                string                              `json:"Name" required:"true"`
	Description                         string                              `json:"Description"`
	MessageStreamType                   StreamType                          `json:"MessageStreamType"`
	CreatedAt                           time.Time                           `json:"CreatedAt"`
	UpdatedAt                           *time.Time                          `json:"UpdatedAt"`
	ArchivedAt                          *time.Time                          `json:"ArchivedAt"`
	ExpectedPurgeDate                   *time.Time                          `json:"ExpectedPurgeDate"`
	SubscriptionManagementConfiguration SubscriptionManagementConfiguration `json:"SubscriptionManagementConfiguration"`
}

type SuppressionReason string

const (
	HardBounce        SuppressionReason = "HardBounce"
	SpamComplaint     SuppressionReason = "SpamComplaint"
	ManualSuppression SuppressionReason = "ManualSuppression"
)

type SuppressionOrigin string

const (
	OriginRecipient SuppressionOrigin = "Recipient"
	OriginCustomer  SuppressionOrigin = "Customer"
	OriginAdmin     SuppressionOrigin = "Admin"
)

// SuppressionStatusType is the outcome of adding or removing one address.
type SuppressionStatusType string

const (
	Deleted    SuppressionStatusType = "Deleted"
	Failed     SuppressionStatusType = "Failed"
	Suppressed SuppressionStatusType = "Suppressed"
)

// Date is a calendar date used by suppression filters, rendered as
// 2006-01-02. The zero value means no date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the date of t in its location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	t, err := time.Parse("2006-01-02", string(text))
	if err != nil {
		return err
	}
	*d = DateOf(t)
	return nil
}

type Suppression struct {
	EmailAddress      string            `json:"EmailAddress" required:"true"`
	SuppressionReason SuppressionReason `json:"SuppressionReason"`
	Origin            SuppressionOrigin `json:"Origin"`
	CreatedAt         time.Time         `json:"CreatedAt"`
}

// SuppressionEntry is an address to add to or remove from suppressions.
type SuppressionEntry struct {
	EmailAddress string `json:"EmailAddress"`
}

type SuppressionResult struct {
	EmailAddress string                `json:"EmailAddress"`
	Status       SuppressionStatusType `json:"Status"`
	Message      *string               `json:"Message"`
}
