package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/starius/postmark"
	"github.com/starius/postmark/messagestreams"
)

func newStreamsCmd() *cobra.Command {
	streamsCmd := &cobra.Command{
		Use:   "streams",
		Short: "Manage message streams of a server (needs server token)",
	}

	listReq := &messagestreams.ListMessageStreamsRequest{}
	var listType string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List message streams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := state.streamsClient()
			if err != nil {
				return err
			}
			defer client.Close()
			listReq.MessageStreamType = messagestreams.StreamType(listType)
			res, err := client.ListMessageStreams(cmd.Context(), listReq)
			if err != nil {
				return err
			}
			return state.print(res)
		},
	}
	listCmd.Flags().StringVar(&listType, "type", "", "Filter by type (Transactional, Broadcasts, Inbound, All)")
	listCmd.Flags().BoolVar(&listReq.IncludeArchivedStreams, "archived", false, "Include archived streams")

	getCmd := &cobra.Command{
		Use:   "get <stream>",
		Short: "Show a message stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := state.streamsClient()
			if err != nil {
				return err
			}
			defer client.Close()
			stream, err := client.GetMessageStream(cmd.Context(), &messagestreams.GetMessageStreamRequest{
				StreamID: messagestreams.StreamID(args[0]),
			})
			if err != nil {
				return err
			}
			return state.print(stream)
		},
	}

	var editName, editDescription, editUnsubscribe string
	editCmd := &cobra.Command{
		Use:   "edit <stream>",
		Short: "Change name, description or unsubscribe handling of a stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := messagestreams.NewEditMessageStreamRequest(messagestreams.StreamID(args[0]))
			flags := cmd.Flags()
			if flags.Changed("name") {
				req.Name = postmark.Ptr(editName)
			}
			if flags.Changed("description") {
				req.Description = postmark.Ptr(editDescription)
			}
			if flags.Changed("unsubscribe") {
				req.SubscriptionManagementConfiguration = &messagestreams.SubscriptionManagementConfiguration{
					UnsubscribeHandlingType: messagestreams.UnsubscribeHandlingType(editUnsubscribe),
				}
			}
			if req.Name == nil && req.Description == nil && req.SubscriptionManagementConfiguration == nil {
				return fmt.Errorf("nothing to change, set --name, --description or --unsubscribe")
			}

			client, err := state.streamsClient()
			if err != nil {
				return err
			}
			defer client.Close()
			stream, err := client.EditMessageStream(cmd.Context(), req)
			if err != nil {
				return err
			}
			return state.print(stream)
		},
	}
	editCmd.Flags().StringVar(&editName, "name", "", "New name")
	editCmd.Flags().StringVar(&editDescription, "description", "", "New description")
	editCmd.Flags().StringVar(&editUnsubscribe, "unsubscribe", "", "Unsubscribe handling (None, Postmark, Custom)")

	archiveCmd := &cobra.Command{
		Use:   "archive <stream>",
		Short: "Archive a message stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := state.streamsClient()
			if err != nil {
				return err
			}
			defer client.Close()
			res, err := client.ArchiveMessageStream(cmd.Context(), &messagestreams.ArchiveMessageStreamRequest{
				StreamID: messagestreams.StreamID(args[0]),
			})
			if err != nil {
				return err
			}
			return state.print(res)
		},
	}

	unarchiveCmd := &cobra.Command{
		Use:   "unarchive <stream>",
		Short: "Restore an archived message stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := state.streamsClient()
			if err != nil {
				return err
			}
			defer client.Close()
			stream, err := client.UnarchiveMessageStream(cmd.Context(), &messagestreams.UnarchiveMessageStreamRequest{
				StreamID: messagestreams.StreamID(args[0]),
			})
			if err != nil {
				return err
			}
			return state.print(stream)
		},
	}

	streamsCmd.AddCommand(listCmd, getCmd, editCmd, archiveCmd, unarchiveCmd)
	return streamsCmd
}

func newSuppressionsCmd() *cobra.Command {
	suppressionsCmd := &cobra.Command{
		Use:   "suppressions",
		Short: "Manage suppressed recipients of a message stream (needs server token)",
	}

	var reason, origin, from, to, address string
	dumpCmd := &cobra.Command{
		Use:   "dump <stream>",
		Short: "Print suppressed recipients",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &messagestreams.GetSuppressionsRequest{
				StreamID:          messagestreams.StreamID(args[0]),
				SuppressionReason: messagestreams.SuppressionReason(reason),
				Origin:            messagestreams.SuppressionOrigin(origin),
				EmailAddress:      address,
			}
			if from != "" {
				if err := req.FromDate.UnmarshalText([]byte(from)); err != nil {
					return fmt.Errorf("bad --from: %w", err)
				}
			}
			if to != "" {
				if err := req.ToDate.UnmarshalText([]byte(to)); err != nil {
					return fmt.Errorf("bad --to: %w", err)
				}
			}

			client, err := state.streamsClient()
			if err != nil {
				return err
			}
			defer client.Close()
			res, err := client.GetSuppressions(cmd.Context(), req)
			if err != nil {
				return err
			}
			return state.print(res)
		},
	}
	dumpCmd.Flags().StringVar(&reason, "reason", "", "Filter by reason (HardBounce, SpamComplaint, ManualSuppression)")
	dumpCmd.Flags().StringVar(&origin, "origin", "", "Filter by origin (Recipient, Customer, Admin)")
	dumpCmd.Flags().StringVar(&from, "from", "", "Suppressed on or after the date (YYYY-MM-DD)")
	dumpCmd.Flags().StringVar(&to, "to", "", "Suppressed on or before the date (YYYY-MM-DD)")
	dumpCmd.Flags().StringVar(&address, "email", "", "Filter by email address")

	createCmd := &cobra.Command{
		Use:   "create <stream> <email>...",
		Short: "Suppress recipients",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := state.streamsClient()
			if err != nil {
				return err
			}
			defer client.Close()
			res, err := client.CreateSuppressions(cmd.Context(), &messagestreams.CreateSuppressionsRequest{
				StreamID:     messagestreams.StreamID(args[0]),
				Suppressions: messagestreams.Entries(args[1:]...),
			})
			if err != nil {
				return err
			}
			return state.print(res)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <stream> <email>...",
		Short: "Reactivate suppressed recipients",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := state.streamsClient()
			if err != nil {
				return err
			}
			defer client.Close()
			res, err := client.DeleteSuppressions(cmd.Context(), &messagestreams.DeleteSuppressionsRequest{
				StreamID:     messagestreams.StreamID(args[0]),
				Suppressions: messagestreams.Entries(args[1:]...),
			})
			if err != nil {
				return err
			}
			return state.print(res)
		},
	}

	suppressionsCmd.AddCommand(dumpCmd, createCmd, deleteCmd)
	return suppressionsCmd
}
