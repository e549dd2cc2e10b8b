package handlers

import (
	"errors"
	"strings"
	"time"

	"caseportal/internal/adapters/http/middleware"
	"caseportal/internal/config"
	"caseportal/internal/core/domain"
	"caseportal/internal/core/services"
	"caseportal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles admin authentication endpoints
type AdminHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authService *services.AuthService, cfg *config.Config) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// AdminLoginRequest represents admin login request body
type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles admin login
// @Summary Admin login
// @Description Authenticate an admin (bcrypt) and set the admin token cookie
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body AdminLoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /admin/auth/login [post]
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	token, admin, err := h.authService.LoginAdmin(c.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return response.Unauthorized(c, "Invalid email or password")
		}
		return response.InternalServerError(c, "Failed to login")
	}

	h.setAdminCookie(c, token)

	return response.Success(c, "Login successful", fiber.Map{
		"token": token,
		"admin": admin.ToResponse(),
	})
}

// Logout clears the admin token cookie
// @Summary Admin logout
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/auth/logout [post]
func (h *AdminHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-1 * time.Hour),
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
	return response.Success(c, "Logged out successfully", nil)
}

// setAdminCookie stores the admin token in the shared token cookie
func (h *AdminHandler) setAdminCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   h.cfg.JWT.SessionTokenDays * 24 * 60 * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}
