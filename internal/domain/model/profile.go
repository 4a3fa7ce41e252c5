package model

import (
	"time"

	"github.com/ivankudzin/profilehub/internal/domain/enums"
)

// Profile is the read-model handed to transport. Timestamps are owned by
// the storage layer and never set by callers.
type Profile struct {
	TelegramID int64
	Name       string
	AboutMe    *string
	Age        int
	City       string
	Sex        enums.Sex
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ProfilePatch carries a partial update. Nil fields are left untouched.
type ProfilePatch struct {
	Name    *string
	AboutMe *string
	Age     *int
	City    *string
	Sex     *enums.Sex
}

func (p ProfilePatch) IsEmpty() bool {
	return p.Name == nil && p.AboutMe == nil && p.Age == nil && p.City == nil && p.Sex == nil
}
