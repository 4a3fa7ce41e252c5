package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ivankudzin/profilehub/internal/domain/enums"
	"github.com/ivankudzin/profilehub/internal/domain/model"
	"github.com/ivankudzin/profilehub/internal/pkg/validate"
	"github.com/ivankudzin/profilehub/internal/repo/postgres"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("profile not found")
	ErrAlreadyExists = errors.New("profile already exists")
)

const (
	maxNameLen  = 100
	maxAboutLen = 300
	maxCityLen  = 50
	minAge      = 1
	maxAge      = 120
)

type TxRunner interface {
	WithTx(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

type ProfileStore interface {
	Create(ctx context.Context, tx pgx.Tx, profile model.Profile) (int64, error)
	Find(ctx context.Context, telegramID int64) (model.Profile, error)
	FindAll(ctx context.Context) ([]model.Profile, error)
	Patch(ctx context.Context, tx pgx.Tx, telegramID int64, patch model.ProfilePatch) (int64, error)
	Delete(ctx context.Context, tx pgx.Tx, telegramID int64) (int64, error)
}

// PhotoCleaner removes a profile's stored photo objects. Row cleanup is
// handled by the schema's cascade; object storage needs an explicit sweep.
type PhotoCleaner interface {
	RemoveUserPhotos(ctx context.Context, telegramID int64) error
}

type Dependencies struct {
	Store   ProfileStore
	Tx      TxRunner
	Cleaner PhotoCleaner
}

type Service struct {
	store   ProfileStore
	tx      TxRunner
	cleaner PhotoCleaner
}

type CreateInput struct {
	TelegramID int64
	Name       string
	AboutMe    *string
	Age        int
	City       string
	Sex        string
}

type PatchInput struct {
	Name    *string
	AboutMe *string
	Age     *int
	City    *string
	Sex     *string
}

func NewService(deps Dependencies) *Service {
	return &Service{
		store:   deps.Store,
		tx:      deps.Tx,
		cleaner: deps.Cleaner,
	}
}

// Create inserts a new profile. Uniqueness is enforced by the primary key,
// so a concurrent duplicate create still maps to ErrAlreadyExists.
func (s *Service) Create(ctx context.Context, in CreateInput) (int64, error) {
	if s.store == nil || s.tx == nil {
		return 0, fmt.Errorf("profile dependencies are not configured")
	}

	profile, err := buildProfile(in)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		created, err := s.store.Create(ctx, tx, profile)
		if err != nil {
			return err
		}
		id = created
		return nil
	})
	if err != nil {
		if errors.Is(err, postgres.ErrDuplicateKey) {
			return 0, ErrAlreadyExists
		}
		return 0, fmt.Errorf("create profile: %w", err)
	}

	return id, nil
}

func (s *Service) Get(ctx context.Context, telegramID int64) (model.Profile, error) {
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}
	if telegramID <= 0 {
		return model.Profile{}, fmt.Errorf("invalid telegram id: %w", ErrValidation)
	}

	profile, err := s.store.Find(ctx, telegramID)
	if err != nil {
		if errors.Is(err, postgres.ErrProfileNotFound) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	return profile, nil
}

func (s *Service) List(ctx context.Context) ([]model.Profile, error) {
	if s.store == nil {
		return nil, fmt.Errorf("profile store is nil")
	}

	profiles, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	return profiles, nil
}

// Update applies only the supplied fields. A patch that touches zero rows
// means the profile does not exist.
func (s *Service) Update(ctx context.Context, telegramID int64, in PatchInput) error {
	if s.store == nil || s.tx == nil {
		return fmt.Errorf("profile dependencies are not configured")
	}
	if telegramID <= 0 {
		return fmt.Errorf("invalid telegram id: %w", ErrValidation)
	}

	patch, err := buildPatch(in)
	if err != nil {
		return err
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		affected, err := s.store.Patch(ctx, tx, telegramID, patch)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("update profile: %w", err)
	}

	return nil
}

func (s *Service) Delete(ctx context.Context, telegramID int64) error {
	if s.store == nil || s.tx == nil {
		return fmt.Errorf("profile dependencies are not configured")
	}
	if telegramID <= 0 {
		return fmt.Errorf("invalid telegram id: %w", ErrValidation)
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		affected, err := s.store.Delete(ctx, tx, telegramID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete profile: %w", err)
	}

	if s.cleaner != nil {
		// Object storage cleanup is best effort; orphaned objects do not
		// affect correctness of the deleted profile.
		_ = s.cleaner.RemoveUserPhotos(ctx, telegramID)
	}

	return nil
}

func buildProfile(in CreateInput) (model.Profile, error) {
	if in.TelegramID <= 0 {
		return model.Profile{}, fmt.Errorf("telegram_id must be positive: %w", ErrValidation)
	}
	if !validate.Required(in.Name) {
		return model.Profile{}, fmt.Errorf("name is required: %w", ErrValidation)
	}
	if !validate.MaxRunes(in.Name, maxNameLen) {
		return model.Profile{}, fmt.Errorf("name is longer than %d characters: %w", maxNameLen, ErrValidation)
	}
	if in.AboutMe != nil && !validate.MaxRunes(*in.AboutMe, maxAboutLen) {
		return model.Profile{}, fmt.Errorf("about_me is longer than %d characters: %w", maxAboutLen, ErrValidation)
	}
	if !validate.IntInRange(in.Age, minAge, maxAge) {
		return model.Profile{}, fmt.Errorf("age must be between %d and %d: %w", minAge, maxAge, ErrValidation)
	}
	if !validate.Required(in.City) {
		return model.Profile{}, fmt.Errorf("city is required: %w", ErrValidation)
	}
	if !validate.MaxRunes(in.City, maxCityLen) {
		return model.Profile{}, fmt.Errorf("city is longer than %d characters: %w", maxCityLen, ErrValidation)
	}

	sex, ok := enums.ParseSex(in.Sex)
	if !ok {
		return model.Profile{}, fmt.Errorf("sex %q is not allowed: %w", in.Sex, ErrValidation)
	}

	return model.Profile{
		TelegramID: in.TelegramID,
		Name:       in.Name,
		AboutMe:    in.AboutMe,
		Age:        in.Age,
		City:       in.City,
		Sex:        sex,
	}, nil
}

func buildPatch(in PatchInput) (model.ProfilePatch, error) {
	patch := model.ProfilePatch{
		Name:    in.Name,
		AboutMe: in.AboutMe,
		Age:     in.Age,
		City:    in.City,
	}

	if in.Name != nil {
		if !validate.Required(*in.Name) {
			return model.ProfilePatch{}, fmt.Errorf("name cannot be empty: %w", ErrValidation)
		}
		if !validate.MaxRunes(*in.Name, maxNameLen) {
			return model.ProfilePatch{}, fmt.Errorf("name is longer than %d characters: %w", maxNameLen, ErrValidation)
		}
	}
	if in.AboutMe != nil && !validate.MaxRunes(*in.AboutMe, maxAboutLen) {
		return model.ProfilePatch{}, fmt.Errorf("about_me is longer than %d characters: %w", maxAboutLen, ErrValidation)
	}
	if in.Age != nil && !validate.IntInRange(*in.Age, minAge, maxAge) {
		return model.ProfilePatch{}, fmt.Errorf("age must be between %d and %d: %w", minAge, maxAge, ErrValidation)
	}
	if in.City != nil {
		if !validate.Required(*in.City) {
			return model.ProfilePatch{}, fmt.Errorf("city cannot be empty: %w", ErrValidation)
		}
		if !validate.MaxRunes(*in.City, maxCityLen) {
			return model.ProfilePatch{}, fmt.Errorf("city is longer than %d characters: %w", maxCityLen, ErrValidation)
		}
	}
	if in.Sex != nil {
		sex, ok := enums.ParseSex(*in.Sex)
		if !ok {
			return model.ProfilePatch{}, fmt.Errorf("sex %q is not allowed: %w", *in.Sex, ErrValidation)
		}
		patch.Sex = &sex
	}

	if patch.IsEmpty() {
		return model.ProfilePatch{}, fmt.Errorf("at least one field is required: %w", ErrValidation)
	}

	return patch, nil
}
