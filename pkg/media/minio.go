package media

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

type minioStore struct {
	client *minio.Client
	bucket string
	base   string
}

// NewMinioStore creates a Store backed by an S3-compatible object store.
func NewMinioStore(cfg Config) (Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &minioStore{
		client: client,
		bucket: cfg.Bucket,
		base:   cfg.PublicURL,
	}, nil
}

func (s *minioStore) Upload(ctx context.Context, name string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, name, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %q: %w", name, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.base, s.bucket, name), nil
}
