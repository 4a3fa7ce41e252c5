package handlers

import (
	"errors"
	"net/http"

	"github.com/ivankudzin/profilehub/internal/domain/model"
	profilesvc "github.com/ivankudzin/profilehub/internal/services/profiles"
	"github.com/ivankudzin/profilehub/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/profilehub/internal/transport/http/errors"
)

type ProfileHandler struct {
	service *profilesvc.Service
}

func NewProfileHandler(service *profilesvc.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "profile service is unavailable")
		return
	}

	var req dto.CreateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	id, err := h.service.Create(r.Context(), profilesvc.CreateInput{
		TelegramID: req.TelegramID,
		Name:       req.Name,
		AboutMe:    req.AboutMe,
		Age:        req.Age,
		City:       req.City,
		Sex:        req.Sex,
	})
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrAlreadyExists):
			writeConflict(w, "profile already exists")
		case errors.Is(err, profilesvc.ErrValidation):
			writeBadRequest(w, err.Error())
		default:
			writeInternal(w, "failed to create profile")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.CreateProfileResponse{TelegramID: id})
}

func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "profile service is unavailable")
		return
	}

	profiles, err := h.service.List(r.Context())
	if err != nil {
		writeInternal(w, "failed to list profiles")
		return
	}

	out := make([]dto.ProfileResponse, 0, len(profiles))
	for _, profile := range profiles {
		out = append(out, profileResponse(profile))
	}

	httperrors.Write(w, http.StatusOK, out)
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "profile service is unavailable")
		return
	}

	id, ok := telegramIDParam(r)
	if !ok {
		writeBadRequest(w, "telegram_id must be a positive integer")
		return
	}

	profile, err := h.service.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrNotFound):
			writeNotFound(w, "profile not found")
		case errors.Is(err, profilesvc.ErrValidation):
			writeBadRequest(w, err.Error())
		default:
			writeInternal(w, "failed to get profile")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, profileResponse(profile))
}

func (h *ProfileHandler) Patch(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "profile service is unavailable")
		return
	}

	id, ok := telegramIDParam(r)
	if !ok {
		writeBadRequest(w, "telegram_id must be a positive integer")
		return
	}

	var req dto.PatchProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	err := h.service.Update(r.Context(), id, profilesvc.PatchInput{
		Name:    req.Name,
		AboutMe: req.AboutMe,
		Age:     req.Age,
		City:    req.City,
		Sex:     req.Sex,
	})
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrNotFound):
			writeNotFound(w, "profile not found")
		case errors.Is(err, profilesvc.ErrValidation):
			writeBadRequest(w, err.Error())
		default:
			writeInternal(w, "failed to update profile")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.StatusResponse{Status: "ok"})
}

func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "profile service is unavailable")
		return
	}

	id, ok := telegramIDParam(r)
	if !ok {
		writeBadRequest(w, "telegram_id must be a positive integer")
		return
	}

	err := h.service.Delete(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrNotFound):
			writeNotFound(w, "profile not found")
		case errors.Is(err, profilesvc.ErrValidation):
			writeBadRequest(w, err.Error())
		default:
			writeInternal(w, "failed to delete profile")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.StatusResponse{Status: "ok"})
}

func profileResponse(profile model.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		TelegramID: profile.TelegramID,
		Name:       profile.Name,
		AboutMe:    profile.AboutMe,
		Age:        profile.Age,
		City:       profile.City,
		Sex:        string(profile.Sex),
		CreatedAt:  profile.CreatedAt,
		UpdatedAt:  profile.UpdatedAt,
	}
}
