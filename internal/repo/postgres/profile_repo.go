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

// ProfileRepo maps profile CRUD onto the user_profiles table. Reads run on
// the pool; mutating methods take the caller's open transaction so several
// repository calls can share one commit-or-rollback scope.
type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) Create(ctx context.Context, tx pgx.Tx, profile model.Profile) (int64, error) {
	if tx == nil {
		return 0, fmt.Errorf("transaction is required")
	}

	var id int64
	err := tx.QueryRow(ctx, `
INSERT INTO user_profiles (telegram_id, name, about_me, age, city, sex)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING telegram_id
`, profile.TelegramID, profile.Name, profile.AboutMe, profile.Age, profile.City, string(profile.Sex)).Scan(&id)
	if err != nil {
		if sentinel := constraintError(err); sentinel != nil {
			return 0, sentinel
		}
		return 0, fmt.Errorf("insert profile: %w", err)
	}

	return id, nil
}

func (r *ProfileRepo) Find(ctx context.Context, telegramID int64) (model.Profile, error) {
	if r.pool == nil {
		return model.Profile{}, fmt.Errorf("postgres pool is nil")
	}
	if telegramID <= 0 {
		return model.Profile{}, ErrProfileNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT telegram_id, name, about_me, age, city, sex, created_at, updated_at
FROM user_profiles
WHERE telegram_id = $1
LIMIT 1
`, telegramID)

	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("find profile: %w", err)
	}

	return profile, nil
}

func (r *ProfileRepo) FindAll(ctx context.Context) ([]model.Profile, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT telegram_id, name, about_me, age, city, sex, created_at, updated_at
FROM user_profiles
`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]model.Profile, 0)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate profiles: %w", rows.Err())
	}

	return profiles, nil
}

// Patch overwrites only the fields set in the patch and bumps updated_at.
// Returns the number of rows touched so the caller can distinguish a
// missing profile from a successful no-op update.
func (r *ProfileRepo) Patch(ctx context.Context, tx pgx.Tx, telegramID int64, patch model.ProfilePatch) (int64, error) {
	if tx == nil {
		return 0, fmt.Errorf("transaction is required")
	}
	if telegramID <= 0 {
		return 0, nil
	}

	var sex *string
	if patch.Sex != nil {
		v := string(*patch.Sex)
		sex = &v
	}

	tag, err := tx.Exec(ctx, `
UPDATE user_profiles
SET
	name = COALESCE($2, name),
	about_me = COALESCE($3, about_me),
	age = COALESCE($4, age),
	city = COALESCE($5, city),
	sex = COALESCE($6, sex),
	updated_at = NOW()
WHERE telegram_id = $1
`, telegramID, patch.Name, patch.AboutMe, patch.Age, patch.City, sex)
	if err != nil {
		return 0, fmt.Errorf("patch profile: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *ProfileRepo) Delete(ctx context.Context, tx pgx.Tx, telegramID int64) (int64, error) {
	if tx == nil {
		return 0, fmt.Errorf("transaction is required")
	}

	tag, err := tx.Exec(ctx, `
DELETE FROM user_profiles
WHERE telegram_id = $1
`, telegramID)
	if err != nil {
		return 0, fmt.Errorf("delete profile: %w", err)
	}

	return tag.RowsAffected(), nil
}

// DeleteAll removes every profile row. Test/reset paths only.
func (r *ProfileRepo) DeleteAll(ctx context.Context, tx pgx.Tx) (int64, error) {
	if tx == nil {
		return 0, fmt.Errorf("transaction is required")
	}

	tag, err := tx.Exec(ctx, `DELETE FROM user_profiles`)
	if err != nil {
		return 0, fmt.Errorf("delete all profiles: %w", err)
	}

	return tag.RowsAffected(), nil
}

func scanProfile(row pgx.Row) (model.Profile, error) {
	var (
		profile model.Profile
		sex     string
	)
	if err := row.Scan(
		&profile.TelegramID,
		&profile.Name,
		&profile.AboutMe,
		&profile.Age,
		&profile.City,
		&sex,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return model.Profile{}, err
	}
	profile.Sex = enums.Sex(sex)
	return profile, nil
}
