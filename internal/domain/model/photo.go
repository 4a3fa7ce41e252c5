package model

import "time"

type Photo struct {
	ID         int64
	TelegramID int64
	Position   int
	ObjectKey  string
	CreatedAt  time.Time
}
