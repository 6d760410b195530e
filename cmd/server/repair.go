package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/trainer-api/internal/config"
	"github.com/KirkDiggler/trainer-api/internal/redis"
	clientrepo "github.com/KirkDiggler/trainer-api/internal/repositories/clients"
)

var repairApply bool

var repairCmd = &cobra.Command{
	Use:   "repair-roster",
	Short: "Find and remove inconsistent client records",
	Long:  `Scan client records and roster indexes in Redis. Without --apply nothing is changed.`,
	RunE:  runRepair,
}

func init() {
	repairCmd.Flags().StringVar(&configPath, "config-path", "./configs", "directory holding config_<env>.yaml")
	repairCmd.Flags().BoolVar(&repairApply, "apply", false, "delete corrupted records and dangling index entries")
}

func runRepair(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.LoadOptions{ConfigPath: configPath, AllowNoConfig: true})
	if err != nil {
		return err
	}

	client, err := redis.NewFromConfig(cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer func() { _ = client.Close() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	report, err := clientrepo.Audit(ctx, client, repairApply)
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Checked %d client records\n", report.Checked)
	for _, key := range report.Corrupted {
		fmt.Fprintf(out, "  corrupted record %s\n", key)
	}
	for _, d := range report.Dangling {
		fmt.Fprintf(out, "  trainer %s lists missing client %s\n", d.TrainerID, d.ClientID)
	}

	switch {
	case report.Clean():
		fmt.Fprintln(out, "No problems found.")
	case report.Repaired:
		fmt.Fprintln(out, "Repaired.")
	default:
		fmt.Fprintln(out, "Run again with --apply to fix.")
	}
	return nil
}
