package handlers

import (
	"net/http"

	"github.com/ivankudzin/profilehub/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/profilehub/internal/transport/http/errors"
)

type PingHandler struct{}

func NewPingHandler() *PingHandler {
	return &PingHandler{}
}

func (h *PingHandler) Ping(w http.ResponseWriter, _ *http.Request) {
	httperrors.Write(w, http.StatusOK, dto.StatusResponse{Status: "OK"})
}
