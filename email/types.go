// Package email sends messages through a Postmark server. Requests are
// authenticated with the server token.
package email

import (
	"time"

	"github.com/google/uuid"
	"github.com/starius/postmark"
	pmerrors "github.com/starius/postmark/errors"
)

// MaxBatchSize is the maximum number of messages in one batch.
const MaxBatchSize = 500

// Message is an email to send. To, Cc and Bcc are comma separated lists
// of addresses.
type Message struct {
	From          string              `json:"From"`
	To            string              `json:"To"`
	Cc            string              `json:"Cc,omitempty"`
	Bcc           string              `json:"Bcc,omitempty"`
	Subject       string              `json:"Subject,omitempty"`
	Tag           string              `json:"Tag,omitempty"`
	HTMLBody      string              `json:"HtmlBody,omitempty"`
	TextBody      string              `json:"TextBody,omitempty"`
	ReplyTo       string              `json:"ReplyTo,omitempty"`
	Headers       []Header            `json:"Headers,omitempty"`
	TrackOpens    *bool               `json:"TrackOpens,omitempty"`
	TrackLinks    postmark.TrackLinks `json:"TrackLinks,omitempty"`
	Metadata      map[string]string   `json:"Metadata,omitempty"`
	Attachments   []Attachment        `json:"Attachments,omitempty"`
	MessageStream string              `json:"MessageStream,omitempty"`
}

func NewMessage(from, to, subject string) *Message {
	return &Message{
		From:    from,
		To:      to,
		Subject: subject,
	}
}

type Header struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

// Attachment content is sent base64 encoded.
type Attachment struct {
	Name        string `json:"Name"`
	Content     []byte `json:"Content"`
	ContentType string `json:"ContentType"`
	ContentID   string `json:"ContentID,omitempty"`
}

type SendResponse struct {
	To          string    `json:"To,omitempty"`
	SubmittedAt time.Time `json:"SubmittedAt"`
	MessageID   uuid.UUID `json:"MessageID"`
	ErrorCode   int       `json:"ErrorCode" required:"true"`
	Message     string    `json:"Message" required:"true"`
}

// Err returns nil if the message was accepted. Batch results report
// rejected messages with HTTP status 200, so check each of them.
func (r *SendResponse) Err() error {
	if r.ErrorCode == 0 {
		return nil
	}
	return pmerrors.Unprocessable(r.ErrorCode, "message to %q rejected: %s", r.To, r.Message)
}

// BatchRequest is sent as JSON array of messages.
type BatchRequest struct {
	Messages []Message `json:"-" use_as_body:"true"`
}

// BatchResponse has one result per message, in the order of messages.
type BatchResponse struct {
	Results []SendResponse `json:"-" use_as_body:"true"`
}

// Failed returns indices of rejected messages.
func (r *BatchResponse) Failed() []int {
	var failed []int
	for i := range r.Results {
		if r.Results[i].ErrorCode != 0 {
			failed = append(failed, i)
		}
	}
	return failed
}
