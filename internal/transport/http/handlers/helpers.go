package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/ivankudzin/profilehub/internal/transport/http/errors"
)

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func telegramIDParam(r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "telegramID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func writeBadRequest(w http.ResponseWriter, detail string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Detail: detail})
}

func writeNotFound(w http.ResponseWriter, detail string) {
	httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Detail: detail})
}

func writeConflict(w http.ResponseWriter, detail string) {
	httperrors.Write(w, http.StatusConflict, httperrors.APIError{Detail: detail})
}

func writeInternal(w http.ResponseWriter, detail string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Detail: detail})
}
