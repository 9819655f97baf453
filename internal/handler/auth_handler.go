package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/progresspoint/internal/model"
	"github.com/stemsi/progresspoint/internal/response"
	"github.com/stemsi/progresspoint/internal/service"
	"github.com/stemsi/progresspoint/internal/validator"
)

// AuthHandler handles the admin login gate.
type AuthHandler struct {
	authService *service.AuthService
	log         zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log.With().Str("component", "auth_handler").Logger(),
	}
}

// Login godoc
// POST /api/v1/auth/login
// Matches the credentials against the built-in admins and opens the session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ok, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.log.Error().Err(err).Msg("Login failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	admin := h.authService.Current()
	if admin == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrNoActiveSession)
		return
	}
	response.OK(c, model.AdminLoginResponse{Admin: *admin})
}

// Logout godoc
// POST /api/v1/auth/logout
// Closes the session. Always succeeds from the caller's point of view; a
// failure to delete the stored copy is only logged.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context()); err != nil {
		h.log.Error().Err(err).Msg("Session delete failed")
	}
	response.OK(c, gin.H{})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the logged-in admin.
func (h *AuthHandler) Me(c *gin.Context) {
	admin := h.authService.Current()
	if admin == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrNoActiveSession)
		return
	}
	response.OK(c, gin.H{"admin": admin})
}
