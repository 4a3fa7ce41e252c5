package preferences

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ivankudzin/profilehub/internal/domain/enums"
	"github.com/ivankudzin/profilehub/internal/domain/model"
	"github.com/ivankudzin/profilehub/internal/repo/postgres"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("preference not found")
	ErrAlreadyExists   = errors.New("preference already exists")
	ErrProfileNotFound = errors.New("profile not found")
)

type TxRunner interface {
	WithTx(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

type PreferenceStore interface {
	Create(ctx context.Context, tx pgx.Tx, pref model.Preference) (int64, error)
	Find(ctx context.Context, telegramID int64) (model.Preference, error)
}

type Service struct {
	store PreferenceStore
	tx    TxRunner
}

type CreateInput struct {
	TelegramID int64
	Sex        string
}

func NewService(store PreferenceStore, tx TxRunner) *Service {
	return &Service{store: store, tx: tx}
}

// Create stores the single preference row for a profile. The foreign key
// makes an orphan preference impossible, so a missing profile shows up as
// a constraint violation rather than a separate lookup.
func (s *Service) Create(ctx context.Context, in CreateInput) (int64, error) {
	if s.store == nil || s.tx == nil {
		return 0, fmt.Errorf("preference dependencies are not configured")
	}
	if in.TelegramID <= 0 {
		return 0, fmt.Errorf("invalid telegram id: %w", ErrValidation)
	}

	sex, ok := enums.ParseSex(in.Sex)
	if !ok {
		return 0, fmt.Errorf("sex %q is not allowed: %w", in.Sex, ErrValidation)
	}

	var id int64
	err := s.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		created, err := s.store.Create(ctx, tx, model.Preference{
			TelegramID: in.TelegramID,
			Sex:        sex,
		})
		if err != nil {
			return err
		}
		id = created
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, postgres.ErrDuplicateKey):
			return 0, ErrAlreadyExists
		case errors.Is(err, postgres.ErrForeignKey):
			return 0, ErrProfileNotFound
		}
		return 0, fmt.Errorf("create preference: %w", err)
	}

	return id, nil
}

func (s *Service) Get(ctx context.Context, telegramID int64) (model.Preference, error) {
	if s.store == nil {
		return model.Preference{}, fmt.Errorf("preference store is nil")
	}
	if telegramID <= 0 {
		return model.Preference{}, fmt.Errorf("invalid telegram id: %w", ErrValidation)
	}

	pref, err := s.store.Find(ctx, telegramID)
	if err != nil {
		if errors.Is(err, postgres.ErrPreferenceNotFound) {
			return model.Preference{}, ErrNotFound
		}
		return model.Preference{}, fmt.Errorf("get preference: %w", err)
	}

	return pref, nil
}
