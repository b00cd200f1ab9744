package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"registry-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// ErrNoObjects is returned when a prefix location matches nothing.
var ErrNoObjects = errors.New("no objects under prefix")

// Location is a parsed input location.
type Location struct {
	Bucket string
	Key    string
	Path   string
}

// Remote reports whether the location lives in object storage.
func (l Location) Remote() bool {
	return l.Key != ""
}

// ParseLocation parses a local path or an s3://bucket/key URL. An s3 URL
// without a bucket falls back to defaultBucket.
func ParseLocation(location, defaultBucket string) (Location, error) {
	if !strings.HasPrefix(location, "s3://") {
		if location == "" {
			return Location{}, errors.New("empty input location")
		}
		return Location{Path: location}, nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return Location{}, fmt.Errorf("invalid location %q: %w", location, err)
	}
	loc := Location{Bucket: u.Host, Key: strings.TrimPrefix(u.Path, "/")}
	if loc.Bucket == "" {
		loc.Bucket = defaultBucket
	}
	if loc.Bucket == "" || loc.Key == "" {
		return Location{}, fmt.Errorf("invalid location %q: bucket and key are required", location)
	}
	return loc, nil
}

// Open opens location for reading. A remote key ending in "/" selects the
// greatest object name under that prefix, which for timestamped dumps is the
// newest one. client may be nil for local paths.
func Open(ctx context.Context, location string, client storage.Client, defaultBucket string) (io.ReadCloser, string, error) {
	loc, err := ParseLocation(location, defaultBucket)
	if err != nil {
		return nil, "", err
	}

	if !loc.Remote() {
		f, err := os.Open(loc.Path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open input: %w", err)
		}
		return f, loc.Path, nil
	}

	if client == nil {
		return nil, "", fmt.Errorf("object storage is not configured for %s", location)
	}

	key := loc.Key
	if strings.HasSuffix(key, "/") {
		key, err = latest(ctx, client, loc.Bucket, key)
		if err != nil {
			return nil, "", err
		}
	}

	rc, err := client.GetObject(ctx, loc.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get object %s/%s: %w", loc.Bucket, key, err)
	}
	return rc, "s3://" + loc.Bucket + "/" + key, nil
}

func latest(ctx context.Context, client storage.Client, bucket, prefix string) (string, error) {
	// stops the listing goroutine when we return before draining it
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var newest string
	for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return "", fmt.Errorf("failed to list %s/%s: %w", bucket, prefix, obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		if obj.Key > newest {
			newest = obj.Key
		}
	}
	if newest == "" {
		return "", fmt.Errorf("%w: %s/%s", ErrNoObjects, bucket, prefix)
	}
	return newest, nil
}
