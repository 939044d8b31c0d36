package handler

import (
	"encoding/json"
	"net/http"

	"storefront-admin-server/internal/domain"
	"storefront-admin-server/internal/schema"
	"storefront-admin-server/internal/service"
	"storefront-admin-server/pkg/response"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const authBodyLimit = 1 << 20

type AuthHandler struct {
	authService *service.AuthService
	validator   *validator.Validate
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator.New(),
		logger:      logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody(w, r, schema.Registry.MustSchema(schema.Register), authBodyLimit)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	in, err := schema.ValidateRegister(raw)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.authService.Register(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("user registered", zap.String("user_id", user.ID))
	response.Created(w, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody(w, r, schema.Registry.MustSchema(schema.Login), authBodyLimit)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	in, err := schema.ValidateLogin(raw)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	loginResp, err := h.authService.Login(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, loginResp)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req domain.RefreshTokenRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, authBodyLimit)).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, "refresh_token is required")
		return
	}

	tokenResp, err := h.authService.RefreshToken(&req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.Success(w, tokenResp)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]string{
		"message": "Logged out successfully",
	})
}
