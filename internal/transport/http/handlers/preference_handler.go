package handlers

import (
	"errors"
	"net/http"

	prefsvc "github.com/ivankudzin/profilehub/internal/services/preferences"
	"github.com/ivankudzin/profilehub/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/profilehub/internal/transport/http/errors"
)

type PreferenceHandler struct {
	service *prefsvc.Service
}

func NewPreferenceHandler(service *prefsvc.Service) *PreferenceHandler {
	return &PreferenceHandler{service: service}
}

func (h *PreferenceHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "preference service is unavailable")
		return
	}

	id, ok := telegramIDParam(r)
	if !ok {
		writeBadRequest(w, "telegram_id must be a positive integer")
		return
	}

	var req dto.CreatePreferenceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	created, err := h.service.Create(r.Context(), prefsvc.CreateInput{
		TelegramID: id,
		Sex:        req.Sex,
	})
	if err != nil {
		switch {
		case errors.Is(err, prefsvc.ErrAlreadyExists):
			writeConflict(w, "preference already exists")
		case errors.Is(err, prefsvc.ErrProfileNotFound):
			writeNotFound(w, "profile not found")
		case errors.Is(err, prefsvc.ErrValidation):
			writeBadRequest(w, err.Error())
		default:
			writeInternal(w, "failed to create preference")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.CreatePreferenceResponse{TelegramID: created})
}

func (h *PreferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "preference service is unavailable")
		return
	}

	id, ok := telegramIDParam(r)
	if !ok {
		writeBadRequest(w, "telegram_id must be a positive integer")
		return
	}

	pref, err := h.service.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, prefsvc.ErrNotFound):
			writeNotFound(w, "preference not found")
		case errors.Is(err, prefsvc.ErrValidation):
			writeBadRequest(w, err.Error())
		default:
			writeInternal(w, "failed to get preference")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.PreferenceResponse{
		TelegramID: pref.TelegramID,
		Sex:        string(pref.Sex),
		CreatedAt:  pref.CreatedAt,
		UpdatedAt:  pref.UpdatedAt,
	})
}
