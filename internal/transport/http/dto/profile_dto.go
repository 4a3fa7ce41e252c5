package dto

import "time"

type CreateProfileRequest struct {
	TelegramID int64   `json:"telegram_id"`
	Name       string  `json:"name"`
	AboutMe    *string `json:"about_me"`
	Age        int     `json:"age"`
	City       string  `json:"city"`
	Sex        string  `json:"sex"`
}

type CreateProfileResponse struct {
	TelegramID int64 `json:"telegram_id"`
}

type ProfileResponse struct {
	TelegramID int64     `json:"telegram_id"`
	Name       string    `json:"name"`
	AboutMe    *string   `json:"about_me"`
	Age        int       `json:"age"`
	City       string    `json:"city"`
	Sex        string    `json:"sex"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type PatchProfileRequest struct {
	Name    *string `json:"name"`
	AboutMe *string `json:"about_me"`
	Age     *int    `json:"age"`
	City    *string `json:"city"`
	Sex     *string `json:"sex"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
