package exports

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"serveon_backend/platform/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const csvContentType = "text/csv; charset=utf-8"

// Archiver keeps a copy of every exported CSV.
type Archiver interface {
	// Archive stores body and returns the object key it was stored under.
	Archive(ctx context.Context, entityType string, body []byte, at time.Time) (string, error)
}

// NopArchiver discards exports. It is used when object storage is not configured.
type NopArchiver struct{}

func (NopArchiver) Archive(context.Context, string, []byte, time.Time) (string, error) {
	return "", nil
}

// MinIOArchiver uploads exports to a MinIO bucket.
type MinIOArchiver struct {
	client *minio.Client
	bucket string
}

// NewMinIOArchiver creates an archiver writing to the configured export bucket.
func NewMinIOArchiver(cfg config.MinIOConfig) (*MinIOArchiver, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOArchiver{client: client, bucket: cfg.GetMinioBucketExports()}, nil
}

// Bucket returns the target bucket name.
func (a *MinIOArchiver) Bucket() string { return a.bucket }

// EnsureBucketExists creates the bucket if it doesn't exist.
func (a *MinIOArchiver) EnsureBucketExists(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
		}
	}

	return nil
}

// Archive uploads body under "<entityType>/<timestamp>.csv".
func (a *MinIOArchiver) Archive(ctx context.Context, entityType string, body []byte, at time.Time) (string, error) {
	key := ObjectKey(entityType, at)
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: csvContentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload export %s: %w", key, err)
	}
	return key, nil
}

// ObjectKey is where an export taken at `at` is archived.
func ObjectKey(entityType string, at time.Time) string {
	return path.Join(entityType, at.UTC().Format("20060102T150405.000000000Z")+".csv")
}

var (
	_ Archiver = NopArchiver{}
	_ Archiver = (*MinIOArchiver)(nil)
)
