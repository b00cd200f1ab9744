package cmd

import (
	"context"
	"fmt"

	"registry-sync/core/database"
	"registry-sync/core/models"
	"registry-sync/core/store"
	"registry-sync/feature/managers"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	migrateSeed  bool
	migrateCheck bool
)

// migrateCmd creates the registry schema.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the registry tables",
	Long: `Create or update the registry tables.

With --seed, also create the sources, package managers, url types and
dependency types every supported manager needs. With --check, only report
tables or columns missing from the live schema.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", false, "Seed lookup tables for every supported manager")
	migrateCmd.Flags().BoolVar(&migrateCheck, "check", false, "Report schema drift without changing anything")

	RootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, l, err := bootstrap()
	if err != nil {
		return err
	}
	defer l.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if migrateCheck {
		drifts, err := database.Inspect(db, models.All()...)
		if err != nil {
			return err
		}
		for _, d := range drifts {
			l.Warn("Schema drift",
				zap.String("table", d.Table),
				zap.Bool("missing_table", d.MissingTable),
				zap.Strings("missing_columns", d.MissingColumns),
			)
		}
		if len(drifts) > 0 {
			return fmt.Errorf("schema has %d drifted tables, run migrate", len(drifts))
		}
		l.Info("Schema is up to date")
		return nil
	}

	st := store.New(db, l)
	if err := st.Migrate(ctx); err != nil {
		return err
	}
	l.Info("Schema migrated", zap.Int("tables", len(models.All())))

	if !migrateSeed {
		return nil
	}
	return st.Seed(ctx, store.SeedSpec{
		Sources:         managers.Names(),
		URLTypes:        managers.URLTypes(),
		DependencyTypes: managers.DependencyTypes(),
	})
}
