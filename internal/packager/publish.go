package packager

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/bizmatters/agent-builder/sdv-studio/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrStorageDisabled is returned when publishing is requested without a
// configured bucket.
var ErrStorageDisabled = errors.New("archive storage is not configured")

const archiveContentType = "application/zip"

// Location identifies a published archive.
type Location struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Size   int64  `json:"size"`
}

// Publisher uploads finished archives.
type Publisher interface {
	Publish(ctx context.Context, key string, data []byte) (Location, error)
}

// MinioPublisher stores archives in an S3-compatible bucket.
type MinioPublisher struct {
	client *minio.Client
	bucket string
	region string
}

// NewMinioPublisher connects to the bucket described by cfg.
func NewMinioPublisher(cfg config.StorageConfig) (*MinioPublisher, error) {
	if !cfg.Enabled() {
		return nil, ErrStorageDisabled
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("storage credentials are required")
	}

	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL
	if u, err := url.Parse(cfg.Endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			useSSL = true
		}
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &MinioPublisher{client: client, bucket: cfg.Bucket, region: cfg.Region}, nil
}

func (p *MinioPublisher) ensureBucket(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", p.bucket, err)
	}
	if exists {
		return nil
	}
	if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{Region: p.region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", p.bucket, err)
	}
	return nil
}

// Publish uploads data under key, creating the bucket on first use.
func (p *MinioPublisher) Publish(ctx context.Context, key string, data []byte) (Location, error) {
	if key == "" {
		return Location{}, fmt.Errorf("object key is required")
	}
	if err := p.ensureBucket(ctx); err != nil {
		return Location{}, err
	}

	info, err := p.client.PutObject(ctx, p.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: archiveContentType,
	})
	if err != nil {
		return Location{}, fmt.Errorf("failed to upload archive %s: %w", key, err)
	}

	return Location{Bucket: p.bucket, Key: key, Size: info.Size}, nil
}
