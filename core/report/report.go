package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"time"

	"registry-sync/core/reconcile"
	"registry-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"gopkg.in/yaml.v3"
)

// Format selects the rendering of a report.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML:
		return Format(s), nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

// NewPackage identifies a package created by the run.
type NewPackage struct {
	ID        string `json:"id" yaml:"id"`
	DerivedID string `json:"derived_id" yaml:"derived_id"`
	PURL      string `json:"purl" yaml:"purl"`
}

// Report is the outcome of one run.
type Report struct {
	Manager     string                 `json:"manager" yaml:"manager"`
	Input       string                 `json:"input,omitempty" yaml:"input,omitempty"`
	DryRun      bool                   `json:"dry_run" yaml:"dry_run"`
	StartedAt   time.Time              `json:"started_at" yaml:"started_at"`
	Duration    string                 `json:"duration" yaml:"duration"`
	Skipped     int                    `json:"skipped_lines" yaml:"skipped_lines"`
	Cache       reconcile.CacheSize    `json:"cache" yaml:"cache"`
	Stats       reconcile.Stats        `json:"stats" yaml:"stats"`
	Summary     reconcile.BatchSummary `json:"summary" yaml:"summary"`
	NewPackages []NewPackage           `json:"new_packages" yaml:"new_packages"`
}

// Run describes the context a batch was produced in.
type Run struct {
	Manager   string
	Input     string
	DryRun    bool
	StartedAt time.Time
	Duration  time.Duration
	Skipped   int
	Cache     reconcile.CacheSize
	Stats     reconcile.Stats
}

// Build assembles the report of a run.
func Build(run Run, batch *reconcile.Batch) *Report {
	r := &Report{
		Manager:     run.Manager,
		Input:       run.Input,
		DryRun:      run.DryRun,
		StartedAt:   run.StartedAt.UTC(),
		Duration:    run.Duration.Round(time.Millisecond).String(),
		Skipped:     run.Skipped,
		Cache:       run.Cache,
		Stats:       run.Stats,
		NewPackages: []NewPackage{},
	}
	if batch == nil {
		return r
	}

	r.Summary = batch.Summary()
	for _, p := range batch.NewPackages {
		r.NewPackages = append(r.NewPackages, NewPackage{
			ID:        p.ID,
			DerivedID: p.DerivedID,
			PURL:      PackageURL(run.Manager, p.Name),
		})
	}
	return r
}

// Render encodes the report.
func (r *Report) Render(format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatJSON, "":
		out, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
		return append(out, '\n'), nil
	}
	return nil, fmt.Errorf("unknown report format %q", format)
}

// WriteFile renders the report to path.
func (r *Report) WriteFile(path string, format Format) error {
	out, err := r.Render(format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// ObjectName returns where the report is archived.
func (r *Report) ObjectName(prefix string, format Format) string {
	stamp := r.StartedAt.UTC().Format("20060102T150405Z")
	return path.Join(prefix, r.Manager, stamp+"."+string(format))
}

// Upload archives the report into bucket and returns the object name.
func (r *Report) Upload(ctx context.Context, client storage.Client, bucket, prefix string, format Format) (string, error) {
	out, err := r.Render(format)
	if err != nil {
		return "", err
	}

	contentType := "application/json"
	if format == FormatYAML {
		contentType = "application/yaml"
	}

	name := r.ObjectName(prefix, format)
	_, err = client.PutObject(ctx, bucket, name, bytes.NewReader(out), int64(len(out)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report %s: %w", name, err)
	}
	return name, nil
}
