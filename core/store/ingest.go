package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"sort"
	"time"

	"registry-sync/core/models"
	"registry-sync/core/reconcile"

	"github.com/cenkalti/backoff"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IngestError reports the write stage that failed.
type IngestError struct {
	Stage string
	Err   error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest %s: %v", e.Stage, e.Err)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

// IngestOptions configures an Ingester.
type IngestOptions struct {
	// PackageManagerID is recorded in load_history. Empty skips the row.
	PackageManagerID string
	// BatchSize bounds the rows per INSERT statement.
	BatchSize int
	// MaxRetries bounds retries on transient errors.
	MaxRetries int
	// Logger receives retry and remap notices.
	Logger *zap.Logger
}

// Ingester writes reconcile batches. It implements reconcile.Ingester.
type Ingester struct {
	db   *gorm.DB
	opts IngestOptions
	log  *zap.Logger
}

// NewIngester creates an ingester over db.
func NewIngester(db *gorm.DB, opts IngestOptions) *Ingester {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 1000
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Ingester{db: db, opts: opts, log: opts.Logger}
}

// Ingest writes the batch in one transaction.
func (in *Ingester) Ingest(ctx context.Context, batch *reconcile.Batch) error {
	start := time.Now()

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(in.opts.MaxRetries)),
		ctx,
	)

	err := backoff.RetryNotify(func() error {
		err := in.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return in.write(tx, batch)
		})
		if err != nil && !isTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, bo, func(err error, wait time.Duration) {
		in.log.Warn("Ingest failed, retrying", zap.Error(err), zap.Duration("backoff", wait))
	})
	if err != nil {
		return err
	}

	summary := batch.Summary()
	in.log.Info("Ingest committed",
		zap.Int("new_packages", summary.NewPackages),
		zap.Int("new_urls", summary.NewURLs),
		zap.Int("new_package_urls", summary.NewPackageURLs),
		zap.Int("updated_packages", summary.UpdatedPackages),
		zap.Int("updated_package_urls", summary.UpdatedPackageURLs),
		zap.Int("new_dependencies", summary.NewDependencies),
		zap.Int("removed_dependencies", summary.RemovedDependencies),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

func (in *Ingester) write(tx *gorm.DB, b *reconcile.Batch) error {
	if err := in.insertURLs(tx, b); err != nil {
		return &IngestError{Stage: "urls", Err: err}
	}

	if len(b.NewPackages) > 0 {
		if err := tx.CreateInBatches(b.NewPackages, in.opts.BatchSize).Error; err != nil {
			return &IngestError{Stage: "packages", Err: err}
		}
	}

	for _, p := range b.UpdatedPackages {
		err := tx.Model(&models.Package{}).
			Where("id = ?", p.ID).
			Updates(map[string]any{"readme": p.Readme, "updated_at": p.UpdatedAt}).Error
		if err != nil {
			return &IngestError{Stage: "package updates", Err: err}
		}
	}

	if len(b.NewPackageURLs) > 0 {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			CreateInBatches(b.NewPackageURLs, in.opts.BatchSize).Error; err != nil {
			return &IngestError{Stage: "package urls", Err: err}
		}
	}

	if err := in.touchLinks(tx, b.UpdatedPackageURLs); err != nil {
		return &IngestError{Stage: "package url updates", Err: err}
	}

	if len(b.RemovedDependencies) > 0 {
		ids := make([]int64, 0, len(b.RemovedDependencies))
		for _, d := range b.RemovedDependencies {
			ids = append(ids, d.ID)
		}
		for _, chunk := range chunks(ids, in.opts.BatchSize) {
			if err := tx.Where("id IN ?", chunk).Delete(&models.LegacyDependency{}).Error; err != nil {
				return &IngestError{Stage: "dependency removals", Err: err}
			}
		}
	}

	if len(b.NewDependencies) > 0 {
		// insert a copy so a rolled back attempt leaves no generated ids behind
		edges := append([]models.LegacyDependency(nil), b.NewDependencies...)
		if err := tx.CreateInBatches(edges, in.opts.BatchSize).Error; err != nil {
			return &IngestError{Stage: "dependencies", Err: err}
		}
	}

	if in.opts.PackageManagerID != "" {
		load := models.LoadHistory{
			ID:               uuid.NewString(),
			PackageManagerID: in.opts.PackageManagerID,
			CreatedAt:        time.Now(),
		}
		if err := tx.Create(&load).Error; err != nil {
			return &IngestError{Stage: "load history", Err: err}
		}
	}

	return nil
}

// insertURLs inserts new URLs, ignoring rows another writer created first,
// and points pending links at the ids that actually got stored.
func (in *Ingester) insertURLs(tx *gorm.DB, b *reconcile.Batch) error {
	if len(b.NewURLs) == 0 {
		return nil
	}

	res := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(b.NewURLs, in.opts.BatchSize)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == int64(len(b.NewURLs)) {
		return nil
	}

	values := make([]string, 0, len(b.NewURLs))
	for _, u := range b.NewURLs {
		values = append(values, u.URL)
	}

	stored := make(map[reconcile.URLKey]string, len(values))
	for _, chunk := range chunks(values, in.opts.BatchSize) {
		var rows []models.URL
		if err := tx.Where("url IN ?", chunk).Find(&rows).Error; err != nil {
			return err
		}
		for _, r := range rows {
			stored[reconcile.URLKey{URL: r.URL, TypeID: r.URLTypeID}] = r.ID
		}
	}

	remap := make(map[string]string)
	for _, u := range b.NewURLs {
		id, ok := stored[reconcile.URLKey{URL: u.URL, TypeID: u.URLTypeID}]
		if ok && id != u.ID {
			remap[u.ID] = id
		}
	}
	for i, l := range b.NewPackageURLs {
		if id, ok := remap[l.URLID]; ok {
			b.NewPackageURLs[i].URLID = id
		}
	}

	in.log.Info("Reused URLs created concurrently", zap.Int("count", len(remap)))
	return nil
}

func (in *Ingester) touchLinks(tx *gorm.DB, patches []reconcile.LinkPatch) error {
	if len(patches) == 0 {
		return nil
	}

	byTime := make(map[time.Time][]string)
	for _, p := range patches {
		byTime[p.UpdatedAt] = append(byTime[p.UpdatedAt], p.ID)
	}

	times := make([]time.Time, 0, len(byTime))
	for t := range byTime {
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	for _, t := range times {
		for _, chunk := range chunks(byTime[t], in.opts.BatchSize) {
			if err := tx.Model(&models.PackageURL{}).Where("id IN ?", chunk).Update("updated_at", t).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func isTransient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func chunks[T any](items []T, size int) [][]T {
	var out [][]T
	for size < len(items) {
		items, out = items[size:], append(out, items[:size])
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}
