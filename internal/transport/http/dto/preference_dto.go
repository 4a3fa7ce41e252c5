package dto

import "time"

type CreatePreferenceRequest struct {
	Sex string `json:"sex"`
}

type CreatePreferenceResponse struct {
	TelegramID int64 `json:"telegram_id"`
}

type PreferenceResponse struct {
	TelegramID int64     `json:"telegram_id"`
	Sex        string    `json:"sex"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
