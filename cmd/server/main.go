// Package main is the entry point for the trainer API
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/trainer-api/cmd/server/client"
	"github.com/KirkDiggler/trainer-api/internal/clients/apiclient"
)

var rootCmd = &cobra.Command{
	Use:           "trainer-api",
	Short:         "Trainer API server and client",
	Long:          `Trainer API manages a personal trainer's client roster over HTTP and reports every failure as a uniform error envelope.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// normalized failures were already reported by the client's sink
		var normalized *apiclient.NormalizedError
		if !errors.As(err, &normalized) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(repairCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
