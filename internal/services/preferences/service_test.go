package preferences

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/ivankudzin/profilehub/internal/domain/enums"
	"github.com/ivankudzin/profilehub/internal/domain/model"
	"github.com/ivankudzin/profilehub/internal/repo/postgres"
)

type fakeTxRunner struct{}

func (f *fakeTxRunner) WithTx(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
	return fn(ctx, nil)
}

type fakePreferenceStore struct {
	prefs     map[int64]model.Preference
	profiles  map[int64]struct{}
	createErr error
}

func newFakePreferenceStore(profileIDs ...int64) *fakePreferenceStore {
	profiles := map[int64]struct{}{}
	for _, id := range profileIDs {
		profiles[id] = struct{}{}
	}
	return &fakePreferenceStore{
		prefs:    map[int64]model.Preference{},
		profiles: profiles,
	}
}

func (f *fakePreferenceStore) Create(_ context.Context, _ pgx.Tx, pref model.Preference) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	if _, ok := f.profiles[pref.TelegramID]; !ok {
		return 0, postgres.ErrForeignKey
	}
	if _, ok := f.prefs[pref.TelegramID]; ok {
		return 0, postgres.ErrDuplicateKey
	}
	f.prefs[pref.TelegramID] = pref
	return pref.TelegramID, nil
}

func (f *fakePreferenceStore) Find(_ context.Context, telegramID int64) (model.Preference, error) {
	pref, ok := f.prefs[telegramID]
	if !ok {
		return model.Preference{}, postgres.ErrPreferenceNotFound
	}
	return pref, nil
}

func TestCreatePreference(t *testing.T) {
	store := newFakePreferenceStore(42)
	svc := NewService(store, &fakeTxRunner{})

	id, err := svc.Create(context.Background(), CreateInput{TelegramID: 42, Sex: "female"})
	if err != nil {
		t.Fatalf("create preference: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected id 42, got %d", id)
	}
	if store.prefs[42].Sex != enums.SexFemale {
		t.Fatalf("unexpected stored preference: %+v", store.prefs[42])
	}
}

func TestCreatePreferenceDuplicate(t *testing.T) {
	store := newFakePreferenceStore(42)
	svc := NewService(store, &fakeTxRunner{})

	if _, err := svc.Create(context.Background(), CreateInput{TelegramID: 42, Sex: "female"}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := svc.Create(context.Background(), CreateInput{TelegramID: 42, Sex: "male"})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestCreatePreferenceWithoutProfile(t *testing.T) {
	store := newFakePreferenceStore()
	svc := NewService(store, &fakeTxRunner{})

	_, err := svc.Create(context.Background(), CreateInput{TelegramID: 42, Sex: "male"})
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected profile not found, got %v", err)
	}
}

func TestCreatePreferenceRejectsUnknownSex(t *testing.T) {
	store := newFakePreferenceStore(42)
	svc := NewService(store, &fakeTxRunner{})

	_, err := svc.Create(context.Background(), CreateInput{TelegramID: 42, Sex: "robot"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetPreference(t *testing.T) {
	store := newFakePreferenceStore(42)
	svc := NewService(store, &fakeTxRunner{})

	if _, err := svc.Create(context.Background(), CreateInput{TelegramID: 42, Sex: "male"}); err != nil {
		t.Fatalf("create preference: %v", err)
	}

	pref, err := svc.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("get preference: %v", err)
	}
	if pref.Sex != enums.SexMale {
		t.Fatalf("unexpected preference: %+v", pref)
	}

	if _, err := svc.Get(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
