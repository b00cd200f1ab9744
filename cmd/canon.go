package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"registry-sync/core/canon"
	"registry-sync/core/database"
	"registry-sync/core/models"
	"registry-sync/core/reconcile"
	"registry-sync/core/store"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	canonDryRun bool
	canonYes    bool
)

// canonCmd adds canonical homepage URLs to packages that lack one.
var canonCmd = &cobra.Command{
	Use:   "canon",
	Short: "Add canonical homepage URLs to packages that only have raw ones",
	Long: `Scan every homepage link and, for packages without a canonical homepage,
create the canonical form of their first homepage and link it.

Examples:
  # Report only
  canon --dry-run

  # Apply without the interactive prompt
  canon --yes`,
	RunE: runCanon,
}

func init() {
	canonCmd.Flags().BoolVar(&canonDryRun, "dry-run", false, "Report planned URLs without writing them")
	canonCmd.Flags().BoolVar(&canonYes, "yes", false, "Auto-confirm writes (non-interactive)")

	RootCmd.AddCommand(canonCmd)
}

func runCanon(cmd *cobra.Command, args []string) error {
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
	st := store.New(db, l)

	urlTypes, _, err := st.Types(ctx)
	if err != nil {
		return err
	}
	homepageTypeID, ok := urlTypes[reconcile.URLTypeHomepage]
	if !ok {
		return fmt.Errorf("%w: url type %q is not seeded", reconcile.ErrUnknownType, reconcile.URLTypeHomepage)
	}

	homepages, existing, err := st.Homepages(ctx, homepageTypeID)
	if err != nil {
		return err
	}

	planned := canon.Analyze(homepages, existing)
	urls, links := canon.Plan(planned, homepageTypeID, time.Now(), uuid.NewString)

	l.Info("Canonical homepage plan",
		zap.Int("packages_scanned", len(homepages)),
		zap.Int("urls_to_create", len(urls)),
		zap.Int("links_to_create", len(links)),
	)
	printCanonSample(l, urls)

	if len(urls) == 0 {
		l.Info("No canonical URLs to create.")
		return nil
	}
	if canonDryRun {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if !confirmWrite() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	ingester := store.NewIngester(db, store.IngestOptions{
		BatchSize:  cfg.Pipeline.BatchSize,
		MaxRetries: cfg.Pipeline.MaxRetries,
		Logger:     l,
	})
	return ingester.Ingest(ctx, &reconcile.Batch{NewURLs: urls, NewPackageURLs: links})
}

// printCanonSample logs the first planned URLs.
func printCanonSample(l *zap.Logger, urls []models.URL) {
	maxShow := 5
	if len(urls) < maxShow {
		maxShow = len(urls)
	}
	for _, u := range urls[:maxShow] {
		l.Info("Sample canonical URL", zap.String("url", u.URL))
	}
	if len(urls) > maxShow {
		l.Info("Additional URLs not shown", zap.Int("count", len(urls)-maxShow))
	}
}

// confirmWrite prompts the user for confirmation or uses --yes flag.
func confirmWrite() bool {
	if canonYes {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\nType 'yes' to create the canonical URLs: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
