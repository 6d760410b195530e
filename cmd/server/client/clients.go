package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/trainer-api/internal/clients/apiclient"
)

var input apiclient.ClientInput

var createClientCmd = &cobra.Command{
	Use:   "create-client",
	Short: "Add a client to the roster",
	Args:  cobra.NoArgs,
	RunE:  runCreateClient,
}

var getClientCmd = &cobra.Command{
	Use:   "get-client [client-id]",
	Short: "Show one client",
	Args:  cobra.ExactArgs(1),
	RunE:  runGetClient,
}

var listClientsCmd = &cobra.Command{
	Use:   "list-clients",
	Short: "List the roster",
	Args:  cobra.NoArgs,
	RunE:  runListClients,
}

var updateClientCmd = &cobra.Command{
	Use:   "update-client [client-id]",
	Short: "Replace a client's details",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdateClient,
}

var deleteClientCmd = &cobra.Command{
	Use:   "delete-client [client-id]",
	Short: "Remove a client from the roster",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteClient,
}

func init() {
	for _, cmd := range []*cobra.Command{createClientCmd, updateClientCmd} {
		cmd.Flags().StringVar(&input.FirstName, "first-name", "", "first name")
		cmd.Flags().StringVar(&input.LastName, "last-name", "", "last name")
		cmd.Flags().StringVar(&input.Email, "email", "", "email address, unique per trainer")
		cmd.Flags().StringVar(&input.Phone, "phone", "", "phone number")
		cmd.Flags().StringVar(&input.Goal, "goal", "", "training goal")
		cmd.Flags().StringVar(&input.Notes, "notes", "", "free-form notes")
	}
}

func runCreateClient(cmd *cobra.Command, _ []string) error {
	c, err := newAPIClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	created, err := c.CreateClient(ctx, &input)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), created)
}

func runGetClient(cmd *cobra.Command, args []string) error {
	c, err := newAPIClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	got, err := c.GetClient(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), got)
}

func runListClients(cmd *cobra.Command, _ []string) error {
	c, err := newAPIClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	list, err := c.ListClients(ctx)
	if err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No clients yet.")
		return nil
	}
	for _, cl := range list {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s %s <%s>\n", cl.ID, cl.FirstName, cl.LastName, cl.Email)
	}
	return nil
}

func runUpdateClient(cmd *cobra.Command, args []string) error {
	c, err := newAPIClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	updated, err := c.UpdateClient(ctx, args[0], &input)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), updated)
}

func runDeleteClient(cmd *cobra.Command, args []string) error {
	c, err := newAPIClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if err := c.DeleteClient(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted client %s\n", args[0])
	return nil
}
