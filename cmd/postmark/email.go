package main

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/starius/postmark"
	"github.com/starius/postmark/email"
)

// splitPairs parses key=value pairs of a repeated flag.
func splitPairs(flag string, pairs []string) (map[string]string, error) {
	result := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --%s %q, want key=value", flag, pair)
		}
		result[name] = value
	}
	return result, nil
}

func readAttachment(path string) (email.Attachment, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return email.Attachment{}, fmt.Errorf("failed to read attachment: %w", err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}
	return email.Attachment{
		Name:        filepath.Base(path),
		Content:     content,
		ContentType: contentType,
	}, nil
}

func newEmailCmd() *cobra.Command {
	emailCmd := &cobra.Command{
		Use:   "email",
		Short: "Send email (needs server token)",
	}

	m := &email.Message{}
	var (
		trackOpens  bool
		trackLinks  string
		headers     []string
		metadata    []string
		attachments []string
	)
	sendCmd := &cobra.Command{
		Use:   "send",
		Short: "Send one message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if m.From == "" || m.To == "" {
				return fmt.Errorf("--from and --to are required")
			}
			if m.MessageStream == "" {
				m.MessageStream = state.config.MessageStream
			}
			if cmd.Flags().Changed("track-opens") {
				m.TrackOpens = postmark.Ptr(trackOpens)
			}
			m.TrackLinks = postmark.TrackLinks(trackLinks)

			for _, header := range headers {
				name, value, ok := strings.Cut(header, "=")
				if !ok || name == "" {
					return fmt.Errorf("invalid --header %q, want name=value", header)
				}
				m.Headers = append(m.Headers, email.Header{Name: name, Value: value})
			}
			if len(metadata) != 0 {
				var err error
				if m.Metadata, err = splitPairs("metadata", metadata); err != nil {
					return err
				}
			}
			for _, path := range attachments {
				attachment, err := readAttachment(path)
				if err != nil {
					return err
				}
				m.Attachments = append(m.Attachments, attachment)
			}

			client, err := state.emailClient()
			if err != nil {
				return err
			}
			defer client.Close()
			res, err := client.SendEmail(cmd.Context(), m)
			if err != nil {
				return err
			}
			log.Info().Str("to", res.To).Str("message_id", res.MessageID.String()).Msg("message sent")
			return state.print(res)
		},
	}
	flags := sendCmd.Flags()
	flags.StringVar(&m.From, "from", "", "Sender address")
	flags.StringVar(&m.To, "to", "", "Recipients, comma separated")
	flags.StringVar(&m.Cc, "cc", "", "Cc recipients, comma separated")
	flags.StringVar(&m.Bcc, "bcc", "", "Bcc recipients, comma separated")
	flags.StringVar(&m.Subject, "subject", "", "Subject")
	flags.StringVar(&m.TextBody, "text", "", "Plain text body")
	flags.StringVar(&m.HTMLBody, "html", "", "HTML body")
	flags.StringVar(&m.ReplyTo, "reply-to", "", "Reply-To address")
	flags.StringVar(&m.Tag, "tag", "", "Tag for statistics")
	flags.StringVar(&m.MessageStream, "stream", "", "Message stream (default from config, then outbound)")
	flags.BoolVar(&trackOpens, "track-opens", false, "Track opens")
	flags.StringVar(&trackLinks, "track-links", "", "Track links (None, HtmlAndText, HtmlOnly, TextOnly)")
	flags.StringArrayVar(&headers, "header", nil, "Custom header name=value")
	flags.StringArrayVar(&metadata, "metadata", nil, "Metadata key=value")
	flags.StringArrayVar(&attachments, "attach", nil, "File to attach")

	emailCmd.AddCommand(sendCmd)
	return emailCmd
}
