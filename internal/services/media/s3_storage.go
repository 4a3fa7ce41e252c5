package media

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
)

// S3Storage keeps photo objects in a single bucket. The bucket is created
// lazily on the first write.
type S3Storage struct {
	client *minio.Client
	bucket string

	ensureOnce sync.Once
	ensureErr  error
}

func NewS3Storage(client *minio.Client, bucket string) *S3Storage {
	return &S3Storage{
		client: client,
		bucket: strings.TrimSpace(bucket),
	}
}

func (s *S3Storage) ensureBucket(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	if s.bucket == "" {
		return fmt.Errorf("s3 bucket is empty")
	}

	s.ensureOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.ensureErr = err
			return
		}
		if exists {
			return
		}
		s.ensureErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	})

	if s.ensureErr != nil {
		return fmt.Errorf("ensure s3 bucket %q: %w", s.bucket, s.ensureErr)
	}

	return nil
}

func (s *S3Storage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if key == "" || body == nil || size == 0 {
		return ErrValidation
	}
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object to s3: %w", err)
	}

	return nil
}

func (s *S3Storage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("s3 client is nil")
	}
	if key == "" {
		return "", ErrValidation
	}
	if ttl <= 0 {
		ttl = signedURLTTL
	}

	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign get object: %w", err)
	}

	return presigned.String(), nil
}

func (s *S3Storage) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	if s.client == nil {
		return nil, fmt.Errorf("s3 client is nil")
	}
	if prefix == "" {
		return nil, ErrValidation
	}

	var keys []string
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("list objects: %w", object.Err)
		}
		keys = append(keys, object.Key)
	}

	return keys, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	if s.client == nil || key == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}
