package storage

import (
	"context"
	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"
	"io"
)

type MinIO struct {
	client  *minio.Client
	baseURL string
}

func NewMinIO(client *minio.Client, publicBaseURL string) *MinIO {
	return &MinIO{client: client, baseURL: publicBaseURL}
}

// EnsureBuckets creates any missing bucket.
func (m *MinIO) EnsureBuckets(ctx context.Context, buckets ...string) error {
	for _, bucket := range buckets {
		exists, err := m.client.BucketExists(ctx, bucket)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return err
		}
		zerolog.Ctx(ctx).Info().Str("bucket", bucket).Msg("created bucket")
	}
	return nil
}

func (m *MinIO) PresignPut(ctx context.Context, bucket, key string) (string, error) {
	u, err := m.client.PresignedPutObject(ctx, bucket, key, PresignExpiry)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (m *MinIO) PublicURL(bucket, key string) string {
	return PublicURL(m.baseURL, bucket, key)
}

func (m *MinIO) Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := m.client.PutObject(ctx, bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (m *MinIO) Stat(ctx context.Context, bucket, key string) (int64, error) {
	info, err := m.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return 0, ErrObjectNotFound
		}
		return 0, err
	}
	return info.Size, nil
}
