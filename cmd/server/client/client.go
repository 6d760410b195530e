// Package client provides commands that call the trainer API over HTTP
package client

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/trainer-api/internal/clients/apiclient"
	"github.com/KirkDiggler/trainer-api/internal/pkg/logger"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
	token      string
)

// ClientCmd is the root command for all client commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Call the trainer API",
	Long:  `Client commands make real HTTP requests against a running trainer API. Failures are normalized and logged before the command exits non-zero.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "http://localhost:8080", "trainer API base URL")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	ClientCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("TRAINER_TOKEN"), "bearer token, defaults to $TRAINER_TOKEN")

	ClientCmd.AddCommand(meCmd)

	ClientCmd.AddCommand(createClientCmd)
	ClientCmd.AddCommand(getClientCmd)
	ClientCmd.AddCommand(listClientsCmd)
	ClientCmd.AddCommand(updateClientCmd)
	ClientCmd.AddCommand(deleteClientCmd)
}

// newAPIClient builds a client that reports failures through the standard logger
func newAPIClient() (*apiclient.Client, error) {
	transport, err := apiclient.NewTransport(&apiclient.TransportConfig{
		BaseURL: serverAddr,
		Timeout: timeout,
		Token:   token,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	return apiclient.NewClient(&apiclient.Config{
		Transport: transport,
		Sink:      apiclient.NewLogSink(logger.StandardLogger()),
	})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
