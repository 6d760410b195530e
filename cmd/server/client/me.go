package client

import (
	"context"

	"github.com/spf13/cobra"
)

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the trainer named by the token",
	Args:  cobra.NoArgs,
	RunE:  runMe,
}

func runMe(cmd *cobra.Command, _ []string) error {
	c, err := newAPIClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	trainer, err := c.Me(ctx)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), trainer)
}
