package report

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"registry-sync/core/models"
	"registry-sync/core/reconcile"
	"registry-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var started = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestPackageURL(t *testing.T) {
	tests := []struct {
		source, name, want string
	}{
		{"debian", "libc6", "pkg:deb/debian/libc6"},
		{"crates", "serde", "pkg:cargo/serde"},
		{"npm", "left-pad", "pkg:npm/left-pad"},
		{"npm", "@babel/core", "pkg:npm/%40babel/core"},
		{"homebrew", "wget", "pkg:generic/homebrew/wget"},
		{"pkgx", "curl.se", "pkg:generic/pkgx/curl.se"},
		{"gentoo", "bash", "pkg:generic/gentoo/bash"},
	}

	for _, tt := range tests {
		t.Run(tt.source+"/"+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PackageURL(tt.source, tt.name))
		})
	}
}

func sampleReport() *Report {
	batch := &reconcile.Batch{
		NewPackages: []models.Package{
			{ID: "p1", DerivedID: "crates/serde", Name: "serde"},
		},
		NewDependencies: []models.LegacyDependency{{PackageID: "p0", DependencyID: "p1"}},
	}
	return Build(Run{
		Manager:   "crates",
		Input:     "s3://registry/crates/2026-03-01.jsonl",
		StartedAt: started,
		Duration:  1500 * time.Millisecond,
		Skipped:   2,
		Stats:     reconcile.Stats{Records: 10, Duplicates: 1},
	}, batch)
}

func TestBuild(t *testing.T) {
	r := sampleReport()

	assert.Equal(t, "1.5s", r.Duration)
	assert.Equal(t, 1, r.Summary.NewPackages)
	assert.Equal(t, 1, r.Summary.NewDependencies)
	assert.Equal(t, []NewPackage{{ID: "p1", DerivedID: "crates/serde", PURL: "pkg:cargo/serde"}}, r.NewPackages)
}

func TestBuild_NilBatch(t *testing.T) {
	r := Build(Run{Manager: "npm", StartedAt: started}, nil)
	assert.Empty(t, r.NewPackages)
	assert.NotNil(t, r.NewPackages)
}

func TestRender(t *testing.T) {
	r := sampleReport()

	t.Run("JSON", func(t *testing.T) {
		out, err := r.Render(FormatJSON)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(out, &decoded))
		assert.Equal(t, "crates", decoded["manager"])
		summary := decoded["summary"].(map[string]any)
		assert.EqualValues(t, 1, summary["new_dependency_edges"])
	})

	t.Run("YAML", func(t *testing.T) {
		out, err := r.Render(FormatYAML)
		require.NoError(t, err)

		var decoded struct {
			Manager     string       `yaml:"manager"`
			NewPackages []NewPackage `yaml:"new_packages"`
			Stats       struct {
				Duplicates int `yaml:"duplicates"`
			} `yaml:"stats"`
		}
		require.NoError(t, yaml.Unmarshal(out, &decoded))
		assert.Equal(t, "crates", decoded.Manager)
		assert.Equal(t, 1, decoded.Stats.Duplicates)
		require.Len(t, decoded.NewPackages, 1)
		assert.Equal(t, "pkg:cargo/serde", decoded.NewPackages[0].PURL)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := r.Render("xml")
		assert.Error(t, err)
	})
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("csv")
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, sampleReport().WriteFile(path, FormatJSON))

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"derived_id": "crates/serde"`)
}

func TestUpload(t *testing.T) {
	ctx := context.Background()
	r := sampleReport()

	t.Run("Success", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("PutObject", ctx, "registry", "reports/crates/20260301T120000Z.yaml",
			mock.Anything, mock.AnythingOfType("int64"),
			minio.PutObjectOptions{ContentType: "application/yaml"},
		).Return(minio.UploadInfo{}, nil)

		name, err := r.Upload(ctx, client, "registry", "reports", FormatYAML)
		require.NoError(t, err)
		assert.Equal(t, "reports/crates/20260301T120000Z.yaml", name)
		client.AssertExpectations(t)
	})

	t.Run("Failure", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("PutObject", ctx, "registry", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, errors.New("bucket not found"))

		_, err := r.Upload(ctx, client, "registry", "reports", FormatJSON)
		assert.ErrorContains(t, err, "bucket not found")
	})
}
