package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/trainer-api/internal/auth"
	"github.com/KirkDiggler/trainer-api/internal/config"
	"github.com/KirkDiggler/trainer-api/internal/entities"
	"github.com/KirkDiggler/trainer-api/internal/pkg/clock"
)

var (
	tokenTrainerID  string
	tokenEmail      string
	tokenUnverified bool
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a development bearer token",
	Long:  `Issue a bearer token signed with the configured auth secret, for use with the client commands.`,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&configPath, "config-path", "./configs", "directory holding config_<env>.yaml")
	tokenCmd.Flags().StringVar(&tokenTrainerID, "trainer-id", "", "trainer ID placed in the subject claim")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "trainer email")
	tokenCmd.Flags().BoolVar(&tokenUnverified, "unverified", false, "mark the email as not verified")
	_ = tokenCmd.MarkFlagRequired("trainer-id")
	_ = tokenCmd.MarkFlagRequired("email")
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.LoadOptions{ConfigPath: configPath, AllowNoConfig: true})
	if err != nil {
		return err
	}

	authenticator, err := auth.New(authConfig(cfg.Auth, clock.New()))
	if err != nil {
		return fmt.Errorf("failed to create authenticator: %w", err)
	}

	token, expiresAt, err := authenticator.Issue(entities.Trainer{
		ID:            tokenTrainerID,
		Email:         tokenEmail,
		EmailVerified: !tokenUnverified,
	})
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format(time.RFC3339))
	return nil
}
