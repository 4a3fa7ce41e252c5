package model

import (
	"time"

	"github.com/ivankudzin/profilehub/internal/domain/enums"
)

// Preference is the one-to-one sex preference attached to a profile.
// It shares the profile's telegram id and is cascade-deleted with it.
type Preference struct {
	TelegramID int64
	Sex        enums.Sex
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
