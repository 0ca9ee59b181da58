package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/onboarding-tracker/internal/inventory"
	inventoryPostgres "github.com/frahmantamala/onboarding-tracker/internal/inventory/postgres"
	"github.com/frahmantamala/onboarding-tracker/pkg/logger"
)

var reconcileTimeout time.Duration

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Repair equipment status from the assignment ledger",
	Long: `Recomputes every equipment item's status from its open assignments and
reports items that have more than one open assignment.`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().DurationVar(&reconcileTimeout, "timeout", time.Minute, "maximum time the reconcile may take")
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	lg := logger.L()

	dbs, err := initDB(cfg.Database)
	if err != nil {
		return err
	}
	defer dbs.Close()

	// reconcile publishes no events
	service := inventory.NewService(inventoryPostgres.NewInventoryRepository(dbs.Gorm), nil, lg)

	ctx, cancel := context.WithTimeout(cmd.Context(), reconcileTimeout)
	defer cancel()

	report, err := service.Reconcile(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "marked assigned: %v\nmarked available: %v\nduplicate open: %v\n",
		report.MarkedAssigned, report.MarkedAvailable, report.DuplicateOpen)
	return nil
}
