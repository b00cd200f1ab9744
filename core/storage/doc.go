// Package storage wraps the MinIO client for the object storage the sync
// reads package dumps from and archives run reports to.
//
// The Client interface covers only the calls the sync makes, so the
// mocks in core/storage/mocks can stand in for S3 or MinIO in tests.
//
//	client, err := storage.NewClient(cfg.Storage)
//	rc, err := client.GetObject(ctx, cfg.Storage.Bucket, "debian/packages.jsonl", minio.GetObjectOptions{})
package storage
