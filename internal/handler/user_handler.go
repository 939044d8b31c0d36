package handler

import (
	"net/http"

	"storefront-admin-server/internal/middleware"
	"storefront-admin-server/internal/service"
	"storefront-admin-server/pkg/response"

	"go.uber.org/zap"
)

type UserHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewUserHandler(authService *service.AuthService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		authService: authService,
		logger:      logger,
	}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	user, err := h.authService.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, user)
}
