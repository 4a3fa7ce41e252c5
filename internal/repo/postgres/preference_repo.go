package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivankudzin/profilehub/internal/domain/enums"
	"github.com/ivankudzin/profilehub/internal/domain/model"
)

type PreferenceRepo struct {
	pool *pgxpool.Pool
}

func NewPreferenceRepo(pool *pgxpool.Pool) *PreferenceRepo {
	return &PreferenceRepo{pool: pool}
}

// Create inserts the one-per-profile preference row. A duplicate create
// surfaces as ErrDuplicateKey, a missing profile as ErrForeignKey; both are
// enforced by the table's constraints rather than a racy pre-check.
func (r *PreferenceRepo) Create(ctx context.Context, tx pgx.Tx, pref model.Preference) (int64, error) {
	if tx == nil {
		return 0, fmt.Errorf("transaction is required")
	}

	var id int64
	err := tx.QueryRow(ctx, `
INSERT INTO user_preferences (telegram_id, sex)
VALUES ($1, $2)
RETURNING telegram_id
`, pref.TelegramID, string(pref.Sex)).Scan(&id)
	if err != nil {
		if sentinel := constraintError(err); sentinel != nil {
			return 0, sentinel
		}
		return 0, fmt.Errorf("insert preference: %w", err)
	}

	return id, nil
}

func (r *PreferenceRepo) Find(ctx context.Context, telegramID int64) (model.Preference, error) {
	if r.pool == nil {
		return model.Preference{}, fmt.Errorf("postgres pool is nil")
	}
	if telegramID <= 0 {
		return model.Preference{}, ErrPreferenceNotFound
	}

	var (
		pref model.Preference
		sex  string
	)
	err := r.pool.QueryRow(ctx, `
SELECT telegram_id, sex, created_at, updated_at
FROM user_preferences
WHERE telegram_id = $1
LIMIT 1
`, telegramID).Scan(&pref.TelegramID, &sex, &pref.CreatedAt, &pref.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Preference{}, ErrPreferenceNotFound
		}
		return model.Preference{}, fmt.Errorf("find preference: %w", err)
	}

	pref.Sex = enums.Sex(sex)
	return pref, nil
}
