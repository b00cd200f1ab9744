package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"registry-sync/core/database"
	"registry-sync/core/metrics"
	"registry-sync/core/report"
	"registry-sync/core/storage"
	"registry-sync/core/store"
	"registry-sync/feature/managers"
	"registry-sync/feature/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	ingestInput        string
	ingestDryRun       bool
	ingestReport       string
	ingestReportFormat string
	ingestArchive      bool
	ingestEvery        time.Duration
	ingestLimit        int
)

// ingestCmd syncs one package manager from a staged dump.
var ingestCmd = &cobra.Command{
	Use:   "ingest <manager>",
	Short: "Reconcile a package-manager dump into the registry",
	Long: fmt.Sprintf(`Reconcile a JSON lines dump of one package manager against the registry.

Supported managers: %s

Examples:
  # Preview the changes of a local dump
  ingest debian --input ./debian.jsonl --dry-run --report report.json

  # Sync the newest dump under a bucket prefix and archive the report
  ingest crates --input s3://registry/crates/ --archive

  # Sync every 24 hours until interrupted
  ingest homebrew --input s3://registry/homebrew/ --every 24h`, strings.Join(managers.Names(), ", ")),
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestInput, "input", "i", "", "Local path or s3://bucket/key of the JSON lines dump (a key ending in / picks the newest object)")
	ingestCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "Compute the changes without writing them")
	ingestCmd.Flags().StringVar(&ingestReport, "report", "", "Write the run report to this file")
	ingestCmd.Flags().StringVar(&ingestReportFormat, "report-format", "json", "Report format: json or yaml")
	ingestCmd.Flags().BoolVar(&ingestArchive, "archive", false, "Upload the run report to object storage")
	ingestCmd.Flags().DurationVar(&ingestEvery, "every", 0, "Repeat the run on this interval until interrupted")
	ingestCmd.Flags().IntVar(&ingestLimit, "limit", -1, "Stop after this many records (overrides pipeline.test_limit)")
	_ = ingestCmd.MarkFlagRequired("input")

	RootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, l, err := bootstrap()
	if err != nil {
		return err
	}
	defer l.Sync()

	if _, err := managers.GetProfileByName(args[0]); err != nil {
		return err
	}
	format, err := report.ParseFormat(ingestReportFormat)
	if err != nil {
		return err
	}
	if ingestLimit >= 0 {
		cfg.Pipeline.TestLimit = ingestLimit
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	var client storage.Client
	if strings.HasPrefix(ingestInput, "s3://") || ingestArchive {
		client, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
	}

	runner := pipeline.NewRunner(store.New(db, l), client, metrics.New(), *cfg, l)
	params := pipeline.Params{
		Manager:      args[0],
		Input:        ingestInput,
		DryRun:       ingestDryRun,
		ReportPath:   ingestReport,
		ReportFormat: format,
		Archive:      ingestArchive,
	}

	run := func(ctx context.Context) error {
		_, err := runner.Run(ctx, params)
		return err
	}

	if ingestEvery <= 0 {
		return run(ctx)
	}

	l.Info("Scheduling sync", zap.String("manager", args[0]), zap.Duration("every", ingestEvery))
	return pipeline.Every(ctx, ingestEvery, l, run)
}
