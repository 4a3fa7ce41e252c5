package media

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ivankudzin/profilehub/internal/domain/model"
	"github.com/ivankudzin/profilehub/internal/repo/postgres"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrPhotoLimitReached = errors.New("photo limit reached")
	ErrProfileNotFound   = errors.New("profile not found")
)

const signedURLTTL = 5 * time.Minute

type TxRunner interface {
	WithTx(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

type Store interface {
	CreatePhoto(ctx context.Context, tx pgx.Tx, telegramID int64, objectKey string) (model.Photo, error)
	ListPhotos(ctx context.Context, telegramID int64) ([]model.Photo, error)
}

type ObjectStorage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

type Service struct {
	store   Store
	storage ObjectStorage
	tx      TxRunner
}

// Photo is the transport-facing view: the stored object key is replaced
// with a short-lived presigned URL.
type Photo struct {
	ID        int64
	Position  int
	URL       string
	CreatedAt time.Time
}

func NewService(store Store, storage ObjectStorage, tx TxRunner) *Service {
	return &Service{store: store, storage: storage, tx: tx}
}

func (s *Service) UploadPhoto(ctx context.Context, telegramID int64, fileName, contentType string, body io.Reader, size int64) (Photo, error) {
	if telegramID <= 0 || body == nil || size <= 0 {
		return Photo{}, ErrValidation
	}
	if s.store == nil || s.storage == nil || s.tx == nil {
		return Photo{}, fmt.Errorf("media dependencies are not configured")
	}

	objectKey, err := buildObjectKey(telegramID, fileName)
	if err != nil {
		return Photo{}, fmt.Errorf("build object key: %w", err)
	}

	if strings.TrimSpace(contentType) == "" {
		contentType = "application/octet-stream"
	}

	if err := s.storage.Put(ctx, objectKey, body, size, contentType); err != nil {
		return Photo{}, fmt.Errorf("put object: %w", err)
	}

	var record model.Photo
	err = s.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		created, err := s.store.CreatePhoto(ctx, tx, telegramID, objectKey)
		if err != nil {
			return err
		}
		record = created
		return nil
	})
	if err != nil {
		_ = s.storage.Delete(ctx, objectKey)
		switch {
		case errors.Is(err, postgres.ErrPhotoLimitReached):
			return Photo{}, ErrPhotoLimitReached
		case errors.Is(err, postgres.ErrForeignKey):
			return Photo{}, ErrProfileNotFound
		}
		return Photo{}, fmt.Errorf("create photo record: %w", err)
	}

	url, err := s.storage.PresignGet(ctx, record.ObjectKey, signedURLTTL)
	if err != nil {
		return Photo{}, fmt.Errorf("presign photo url: %w", err)
	}

	return Photo{
		ID:        record.ID,
		Position:  record.Position,
		URL:       url,
		CreatedAt: record.CreatedAt,
	}, nil
}

func (s *Service) ListPhotos(ctx context.Context, telegramID int64) ([]Photo, error) {
	if telegramID <= 0 {
		return nil, ErrValidation
	}
	if s.store == nil || s.storage == nil {
		return nil, fmt.Errorf("media dependencies are not configured")
	}

	records, err := s.store.ListPhotos(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("list photo records: %w", err)
	}

	photos := make([]Photo, 0, len(records))
	for _, rec := range records {
		url, err := s.storage.PresignGet(ctx, rec.ObjectKey, signedURLTTL)
		if err != nil {
			return nil, fmt.Errorf("presign photo url: %w", err)
		}
		photos = append(photos, Photo{
			ID:        rec.ID,
			Position:  rec.Position,
			URL:       url,
			CreatedAt: rec.CreatedAt,
		})
	}

	return photos, nil
}

// RemoveUserPhotos deletes the stored objects under the profile's key
// prefix. It works off object storage directly, so it stays correct after
// the schema cascade has already dropped the photo rows.
func (s *Service) RemoveUserPhotos(ctx context.Context, telegramID int64) error {
	if telegramID <= 0 {
		return ErrValidation
	}
	if s.storage == nil {
		return fmt.Errorf("media dependencies are not configured")
	}

	keys, err := s.storage.ListKeys(ctx, objectKeyPrefix(telegramID))
	if err != nil {
		return fmt.Errorf("list photo objects: %w", err)
	}

	var firstErr error
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func objectKeyPrefix(telegramID int64) string {
	return fmt.Sprintf("users/%d/photos/", telegramID)
}

func buildObjectKey(telegramID int64, fileName string) (string, error) {
	rnd := make([]byte, 8)
	if _, err := rand.Read(rnd); err != nil {
		return "", err
	}

	ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	if ext == "" {
		ext = ".bin"
	}

	stamp := time.Now().UTC().Format("20060102T150405")
	return fmt.Sprintf("%s%s_%s%s", objectKeyPrefix(telegramID), stamp, hex.EncodeToString(rnd), ext), nil
}
