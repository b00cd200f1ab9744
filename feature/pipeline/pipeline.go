package pipeline

import (
	"context"
	"fmt"
	"time"

	"registry-sync/core/config"
	"registry-sync/core/logger"
	"registry-sync/core/metrics"
	"registry-sync/core/reconcile"
	"registry-sync/core/report"
	"registry-sync/core/source"
	"registry-sync/core/storage"
	"registry-sync/core/store"
	"registry-sync/feature/managers"

	"go.uber.org/zap"
)

// Params selects what one run does.
type Params struct {
	// Manager is the source name of the package manager to sync.
	Manager string
	// Input is a local path or s3:// location of the JSON lines dump.
	Input string
	// DryRun computes the batch without writing it.
	DryRun bool
	// ReportPath writes the run report to a local file when set.
	ReportPath string
	// ReportFormat is json or yaml.
	ReportFormat report.Format
	// Archive uploads the run report to object storage.
	Archive bool
}

// Runner holds the long-lived collaborators of a run.
type Runner struct {
	store   *store.Store
	storage storage.Client
	metrics *metrics.Metrics
	cfg     config.Config
	log     *zap.Logger
	now     func() time.Time
}

// NewRunner creates a runner. client and m may be nil.
func NewRunner(st *store.Store, client storage.Client, m *metrics.Metrics, cfg config.Config, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Runner{store: st, storage: client, metrics: m, cfg: cfg, log: log, now: time.Now}
}

// Run performs one sync and returns its report.
func (r *Runner) Run(ctx context.Context, p Params) (*report.Report, error) {
	started := r.now()
	l := logger.ForManager(r.log, p.Manager)

	batch, run, err := r.sync(ctx, p, l)
	run.Duration = time.Since(started)
	run.StartedAt = started

	switch {
	case err != nil:
		r.metrics.Observe(p.Manager, metrics.StatusFailure, nil, run.Stats, run.Duration)
	case p.DryRun:
		r.metrics.Observe(p.Manager, metrics.StatusDryRun, batch, run.Stats, run.Duration)
	default:
		r.metrics.Observe(p.Manager, metrics.StatusSuccess, batch, run.Stats, run.Duration)
	}
	r.push(ctx, p.Manager, l)

	if err != nil {
		l.Error("Sync failed", zap.Error(err), zap.Duration("took", run.Duration))
		return nil, err
	}

	rep := report.Build(run, batch)
	l.Info("Sync finished",
		zap.Bool("dry_run", p.DryRun),
		zap.Int("records", run.Stats.Records),
		zap.Int("skipped_lines", run.Skipped),
		zap.Any("summary", rep.Summary),
		zap.Any("warnings", run.Stats.Warnings()),
		zap.Duration("took", run.Duration),
	)

	if err := r.publish(ctx, rep, p, l); err != nil {
		return rep, err
	}
	return rep, nil
}

func (r *Runner) sync(ctx context.Context, p Params, l *zap.Logger) (*reconcile.Batch, report.Run, error) {
	run := report.Run{Manager: p.Manager, DryRun: p.DryRun}

	profile, err := managers.GetProfileByName(p.Manager)
	if err != nil {
		return nil, run, err
	}
	priority, err := config.ParsePriority(r.cfg.Pipeline.DependencyPriority)
	if err != nil {
		return nil, run, err
	}

	pm, err := r.store.PackageManager(ctx, profile.Source)
	if err != nil {
		return nil, run, fmt.Errorf("failed to resolve package manager (run migrate --seed?): %w", err)
	}
	urlTypes, depTypes, err := r.store.Types(ctx)
	if err != nil {
		return nil, run, err
	}
	types, err := reconcile.NewTypes(profile, urlTypes, depTypes, priority)
	if err != nil {
		return nil, run, err
	}

	cache, err := reconcile.BuildCache(ctx, r.store, pm.ID, profile.PackageKey)
	if err != nil {
		return nil, run, err
	}
	run.Cache = cache.Size()
	l.Info("Cache loaded",
		zap.Int("packages", run.Cache.Packages),
		zap.Int("urls", run.Cache.URLs),
		zap.Int("package_urls", run.Cache.PackageURLs),
		zap.Int("dependencies", run.Cache.Dependencies),
	)

	engine, err := reconcile.NewEngine(cache, reconcile.Options{
		Profile:          profile,
		Types:            types,
		PackageManagerID: pm.ID,
		Limit:            r.cfg.Pipeline.TestLimit,
		Logger:           l,
	})
	if err != nil {
		return nil, run, err
	}

	rc, resolved, err := source.Open(ctx, p.Input, r.storage, r.cfg.Storage.Bucket)
	if err != nil {
		return nil, run, err
	}
	defer rc.Close()
	run.Input = resolved

	var ingester reconcile.Ingester
	if !p.DryRun {
		ingester = store.NewIngester(r.store.DB(), store.IngestOptions{
			PackageManagerID: pm.ID,
			BatchSize:        r.cfg.Pipeline.BatchSize,
			MaxRetries:       r.cfg.Pipeline.MaxRetries,
			Logger:           l,
		})
	}

	decoder := source.NewDecoder(rc, l)
	batch, err := engine.Run(ctx, decoder, ingester)
	run.Stats = engine.Stats()
	run.Skipped = decoder.Skipped()
	return batch, run, err
}

func (r *Runner) push(ctx context.Context, manager string, l *zap.Logger) {
	if r.cfg.Metrics.PushgatewayURL == "" {
		return
	}
	if err := r.metrics.Push(ctx, r.cfg.Metrics.PushgatewayURL, manager); err != nil {
		l.Warn("Failed to push metrics", zap.Error(err))
	}
}

func (r *Runner) publish(ctx context.Context, rep *report.Report, p Params, l *zap.Logger) error {
	format := p.ReportFormat
	if format == "" {
		format = report.FormatJSON
	}

	if p.ReportPath != "" {
		if err := rep.WriteFile(p.ReportPath, format); err != nil {
			return err
		}
		l.Info("Report written", zap.String("path", p.ReportPath))
	}

	if p.Archive {
		if r.storage == nil {
			return fmt.Errorf("cannot archive report: object storage is not configured")
		}
		if err := storage.EnsureBucket(ctx, r.storage, r.cfg.Storage.Bucket, r.cfg.Storage.Region); err != nil {
			return err
		}
		name, err := rep.Upload(ctx, r.storage, r.cfg.Storage.Bucket, r.cfg.Pipeline.ReportPrefix, format)
		if err != nil {
			return err
		}
		l.Info("Report archived", zap.String("bucket", r.cfg.Storage.Bucket), zap.String("object", name))
	}
	return nil
}

// Every calls run immediately and then once per interval until ctx ends.
// Failed runs are logged and the schedule continues.
func Every(ctx context.Context, interval time.Duration, log *zap.Logger, run func(context.Context) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for ctx.Err() == nil {
		if err := run(ctx); err != nil && ctx.Err() == nil {
			log.Error("Scheduled run failed", zap.Error(err), zap.Duration("next_in", interval))
		}

		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
	}
	log.Info("Scheduler stopped")
	return nil
}
