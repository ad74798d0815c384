package handlers

import (
	"net/http"

	"github.com/124-Aaron-Liu/telegram-stars/internal/transport/http/dto"
	httperrors "github.com/124-Aaron-Liu/telegram-stars/internal/transport/http/errors"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Get(w http.ResponseWriter, _ *http.Request) {
	httperrors.Write(w, http.StatusOK, dto.HealthResponse{
		Success: true,
		Status:  "success",
		Message: "查詢成功",
	})
}
