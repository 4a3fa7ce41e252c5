package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivankudzin/profilehub/internal/domain/model"
)

// MaxActivePhotos caps how many photos one profile may hold.
const MaxActivePhotos = 3

var ErrPhotoLimitReached = errors.New("photo limit reached")

type PhotoRepo struct {
	pool *pgxpool.Pool
}

func NewPhotoRepo(pool *pgxpool.Pool) *PhotoRepo {
	return &PhotoRepo{pool: pool}
}

// CreatePhoto claims the lowest free position under the per-profile cap.
// Positions are locked FOR UPDATE inside the caller's transaction so
// concurrent uploads cannot both claim the last free slot.
func (r *PhotoRepo) CreatePhoto(ctx context.Context, tx pgx.Tx, telegramID int64, objectKey string) (model.Photo, error) {
	if tx == nil {
		return model.Photo{}, fmt.Errorf("transaction is required")
	}

	rows, err := tx.Query(ctx, `
SELECT position
FROM profile_photos
WHERE telegram_id = $1
ORDER BY position
FOR UPDATE
`, telegramID)
	if err != nil {
		return model.Photo{}, fmt.Errorf("query photo positions: %w", err)
	}

	occupied := map[int]struct{}{}
	for rows.Next() {
		var position int
		if err := rows.Scan(&position); err != nil {
			rows.Close()
			return model.Photo{}, fmt.Errorf("scan photo position: %w", err)
		}
		occupied[position] = struct{}{}
	}
	rows.Close()
	if rows.Err() != nil {
		return model.Photo{}, fmt.Errorf("iterate photo positions: %w", rows.Err())
	}

	position := nextPosition(occupied)
	if position == 0 {
		return model.Photo{}, ErrPhotoLimitReached
	}

	var photo model.Photo
	err = tx.QueryRow(ctx, `
INSERT INTO profile_photos (telegram_id, s3_key, position)
VALUES ($1, $2, $3)
RETURNING id, telegram_id, position, s3_key, created_at
`, telegramID, objectKey, position).Scan(&photo.ID, &photo.TelegramID, &photo.Position, &photo.ObjectKey, &photo.CreatedAt)
	if err != nil {
		if sentinel := constraintError(err); sentinel != nil {
			return model.Photo{}, sentinel
		}
		return model.Photo{}, fmt.Errorf("insert profile photo: %w", err)
	}

	return photo, nil
}

func (r *PhotoRepo) ListPhotos(ctx context.Context, telegramID int64) ([]model.Photo, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, telegram_id, position, s3_key, created_at
FROM profile_photos
WHERE telegram_id = $1
ORDER BY position ASC, created_at ASC
`, telegramID)
	if err != nil {
		return nil, fmt.Errorf("list profile photos: %w", err)
	}
	defer rows.Close()

	photos := make([]model.Photo, 0)
	for rows.Next() {
		var photo model.Photo
		if err := rows.Scan(&photo.ID, &photo.TelegramID, &photo.Position, &photo.ObjectKey, &photo.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan profile photo: %w", err)
		}
		photos = append(photos, photo)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate profile photos: %w", rows.Err())
	}

	return photos, nil
}

func nextPosition(occupied map[int]struct{}) int {
	for i := 1; i <= MaxActivePhotos; i++ {
		if _, ok := occupied[i]; !ok {
			return i
		}
	}
	return 0
}
