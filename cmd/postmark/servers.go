package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/starius/postmark"
	"github.com/starius/postmark/servers"
)

// parseServer treats decimal numbers as IDs and everything else as names.
func parseServer(arg string) servers.ServerIDOrName {
	if id, err := strconv.Atoi(arg); err == nil {
		return servers.ServerID(id)
	}
	return servers.ServerName(arg)
}

func newServersCmd() *cobra.Command {
	serversCmd := &cobra.Command{
		Use:   "servers",
		Short: "Manage servers of the account (needs account token)",
	}

	listReq := servers.NewListServersRequest()
	var listName string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := state.serversClient()
			if err != nil {
				return err
			}
			defer client.Close()
			if listName != "" {
				listReq.Name = servers.ServerName(listName)
			}
			res, err := client.ListServers(cmd.Context(), listReq)
			if err != nil {
				return err
			}
			return state.print(res)
		},
	}
	listCmd.Flags().IntVar(&listReq.Count, "count", servers.DefaultListCount, "Number of servers to return")
	listCmd.Flags().IntVar(&listReq.Offset, "offset", 0, "Number of servers to skip")
	listCmd.Flags().StringVar(&listName, "name", "", "Filter by name")

	getCmd := &cobra.Command{
		Use:   "get <id-or-name>",
		Short: "Show a server found by ID or exact name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := state.serversClient()
			if err != nil {
				return err
			}
			defer client.Close()
			server, err := client.Lookup(cmd.Context(), parseServer(args[0]))
			if err != nil {
				return err
			}
			return state.print(server)
		},
	}

	var createColor, createDeliveryType string
	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := state.serversClient()
			if err != nil {
				return err
			}
			defer client.Close()
			req := servers.NewCreateServerRequest(args[0])
			req.Color = servers.ServerColor(createColor)
			req.DeliveryType = servers.DeliveryType(createDeliveryType)
			server, err := client.CreateServer(cmd.Context(), req)
			if err != nil {
				return err
			}
			return state.print(server)
		},
	}
	createCmd.Flags().StringVar(&createColor, "color", "", "Color of the server (Purple, Blue, Turquoise, Green, Red, Yellow, Grey, Orange)")
	createCmd.Flags().StringVar(&createDeliveryType, "delivery-type", "", "Live or Sandbox")

	var editName, editColor string
	editCmd := &cobra.Command{
		Use:   "edit <id-or-name>",
		Short: "Change name or color of a server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := state.serversClient()
			if err != nil {
				return err
			}
			defer client.Close()
			server, err := client.Lookup(cmd.Context(), parseServer(args[0]))
			if err != nil {
				return err
			}
			req := servers.NewEditServerRequest(server.ID)
			if cmd.Flags().Changed("name") {
				req.Name = postmark.Ptr(editName)
			}
			if cmd.Flags().Changed("color") {
				req.Color = postmark.Ptr(servers.ServerColor(editColor))
			}
			edited, err := client.EditServer(cmd.Context(), req)
			if err != nil {
				return err
			}
			return state.print(edited)
		},
	}
	editCmd.Flags().StringVar(&editName, "name", "", "New name")
	editCmd.Flags().StringVar(&editColor, "color", "", "New color")

	deleteCmd := &cobra.Command{
		Use:   "delete <id-or-name>",
		Short: "Delete a server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := state.serversClient()
			if err != nil {
				return err
			}
			defer client.Close()
			server, err := client.Lookup(cmd.Context(), parseServer(args[0]))
			if err != nil {
				return err
			}
			res, err := client.DeleteServer(cmd.Context(), &servers.DeleteServerRequest{ID: server.ID})
			if err != nil {
				return err
			}
			if res.ErrorCode != 0 {
				return fmt.Errorf("failed to delete server %d: %s", server.ID, res.Message)
			}
			return state.print(res)
		},
	}

	serversCmd.AddCommand(listCmd, getCmd, createCmd, editCmd, deleteCmd)
	return serversCmd
}
