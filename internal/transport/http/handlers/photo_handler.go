package handlers

import (
	"errors"
	"net/http"

	mediasvc "github.com/ivankudzin/profilehub/internal/services/media"
	"github.com/ivankudzin/profilehub/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/profilehub/internal/transport/http/errors"
)

const maxPhotoUploadSize = 20 << 20 // 20 MiB

type PhotoHandler struct {
	service *mediasvc.Service
}

func NewPhotoHandler(service *mediasvc.Service) *PhotoHandler {
	return &PhotoHandler{service: service}
}

func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "media service is unavailable")
		return
	}

	id, ok := telegramIDParam(r)
	if !ok {
		writeBadRequest(w, "telegram_id must be a positive integer")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoUploadSize)
	if err := r.ParseMultipartForm(maxPhotoUploadSize); err != nil {
		writeBadRequest(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "file is required")
		return
	}
	defer file.Close()

	if header == nil || header.Size <= 0 {
		writeBadRequest(w, "file is empty")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	photo, err := h.service.UploadPhoto(r.Context(), id, header.Filename, contentType, file, header.Size)
	if err != nil {
		switch {
		case errors.Is(err, mediasvc.ErrPhotoLimitReached):
			writeConflict(w, "photo limit reached")
		case errors.Is(err, mediasvc.ErrProfileNotFound):
			writeNotFound(w, "profile not found")
		case errors.Is(err, mediasvc.ErrValidation):
			writeBadRequest(w, "photo validation failed")
		default:
			writeInternal(w, "failed to upload photo")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.PhotoResponse{
		ID:        photo.ID,
		Position:  photo.Position,
		URL:       photo.URL,
		CreatedAt: photo.CreatedAt,
	})
}

func (h *PhotoHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "media service is unavailable")
		return
	}

	id, ok := telegramIDParam(r)
	if !ok {
		writeBadRequest(w, "telegram_id must be a positive integer")
		return
	}

	photos, err := h.service.ListPhotos(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, mediasvc.ErrValidation):
			writeBadRequest(w, "photo validation failed")
		default:
			writeInternal(w, "failed to list photos")
		}
		return
	}

	items := make([]dto.PhotoResponse, 0, len(photos))
	for _, photo := range photos {
		items = append(items, dto.PhotoResponse{
			ID:        photo.ID,
			Position:  photo.Position,
			URL:       photo.URL,
			CreatedAt: photo.CreatedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, items)
}
