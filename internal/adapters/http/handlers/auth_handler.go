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

// AuthHandler handles the applicant step-up login flow:
// password check → temp token → OTP email → OTP verify → session token →
// optional security-question challenge → protected resources.
type AuthHandler struct {
	authService     *services.AuthService
	otpService      *services.OTPService
	questionService *services.SecurityQuestionService
	cfg             *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	authService *services.AuthService,
	otpService *services.OTPService,
	questionService *services.SecurityQuestionService,
	cfg *config.Config,
) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		otpService:      otpService,
		questionService: questionService,
		cfg:             cfg,
	}
}

// LoginRequest represents applicant login request body
type LoginRequest struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

// VerifyOTPRequest represents OTP verification request body
type VerifyOTPRequest struct {
	Code string `json:"code"`
}

// VerifyQuestionRequest represents security question answer submission
type VerifyQuestionRequest struct {
	QuestionID uint   `json:"question_id"`
	Answer     string `json:"answer"`
}

// Login handles applicant login (step 1: password check)
// @Summary Applicant login
// @Description Check credentials, set the temp token cookie and email an OTP
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.UserName == "" {
		return response.BadRequest(c, "Username is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	tempToken, app, err := h.authService.LoginApplicant(c.Context(), strings.TrimSpace(req.UserName), req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return response.Unauthorized(c, "Invalid username or password")
		}
		return response.InternalServerError(c, "Failed to login")
	}

	// Dispatch the OTP. A mail failure leaves the stored code valid; the
	// client may retry via the resend endpoint.
	if err := h.otpService.Issue(c.Context(), app.ID); err != nil {
		if errors.Is(err, domain.ErrSendFailed) {
			return response.InternalServerError(c, "Failed to send OTP")
		}
		return response.InternalServerError(c, "Failed to issue OTP")
	}

	h.setTempCookie(c, tempToken)

	return response.Success(c, "OTP sent to your email", fiber.Map{
		"temp_token": tempToken,
	})
}

// ResendOTP re-issues the OTP for a mid-flight login
// @Summary Resend OTP
// @Description Generate and email a fresh OTP, replacing the previous one
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/otp/resend [post]
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	applicationID, ok := c.Locals("applicationID").(uint)
	if !ok {
		return response.Unauthorized(c, "Temporary token is missing or expired")
	}

	if err := h.otpService.Issue(c.Context(), applicationID); err != nil {
		switch {
		case errors.Is(err, domain.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, domain.ErrSendFailed):
			return response.InternalServerError(c, "Failed to send OTP")
		default:
			return response.InternalServerError(c, "Failed to issue OTP")
		}
	}

	return response.Success(c, "OTP sent to your email", nil)
}

// VerifyOTP handles step 2: OTP check and session token issuance
// @Summary Verify OTP
// @Description Exchange the temp token plus a valid OTP for the session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body VerifyOTPRequest true "OTP code"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/otp/verify [post]
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Code == "" {
		return response.BadRequest(c, "OTP code is required")
	}

	tempToken := c.Cookies(middleware.TempTokenCookie)
	if tempToken == "" {
		return response.Unauthorized(c, "Temporary token is missing or expired")
	}

	sessionToken, app, err := h.otpService.Verify(c.Context(), tempToken, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenExpired), errors.Is(err, domain.ErrTokenInvalid):
			return response.Unauthorized(c, "Invalid or expired temporary token")
		case errors.Is(err, domain.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, domain.ErrOTPExpired):
			return response.Unauthorized(c, "OTP verification failed")
		case errors.Is(err, domain.ErrOTPMismatch):
			return response.Unauthorized(c, "Invalid OTP code")
		default:
			return response.InternalServerError(c, "Failed to verify OTP")
		}
	}

	h.clearTempCookie(c)
	h.setSessionCookie(c, sessionToken)

	return response.Success(c, "Login successful", fiber.Map{
		"token":       sessionToken,
		"application": app,
	})
}

// ListSecurityQuestions returns the applicant's challenge questions
// @Summary List security questions
// @Description List the session holder's security questions (answers excluded)
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/security-questions [get]
func (h *AuthHandler) ListSecurityQuestions(c *fiber.Ctx) error {
	applicationID, ok := c.Locals("applicationID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	questions, err := h.questionService.List(c.Context(), applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrApplicationNotFound) {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to load security questions")
	}

	return response.Success(c, "Security questions retrieved", fiber.Map{
		"questions": questions,
	})
}

// VerifySecurityQuestion checks a submitted answer
// @Summary Verify security question answer
// @Description Case-sensitive exact match against the stored answer
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body VerifyQuestionRequest true "Answer"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /auth/security-questions/verify [post]
func (h *AuthHandler) VerifySecurityQuestion(c *fiber.Ctx) error {
	applicationID, ok := c.Locals("applicationID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req VerifyQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.QuestionID == 0 {
		return response.BadRequest(c, "Question id is required")
	}

	correct, err := h.questionService.Verify(c.Context(), applicationID, req.QuestionID, req.Answer)
	if err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			return response.NotFound(c, "Security question not found")
		}
		return response.InternalServerError(c, "Failed to verify answer")
	}

	return response.Success(c, "Answer checked", fiber.Map{
		"correct": correct,
	})
}

// Me returns the session holder's application
// @Summary Get own application
// @Description Return the authenticated applicant's case record
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	applicationID, ok := c.Locals("applicationID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	app, err := h.authService.GetApplicant(c.Context(), applicationID)
	if err != nil {
		return response.NotFound(c, "Application not found")
	}

	return response.Success(c, "Application retrieved", fiber.Map{
		"application": app.ToResponse(),
	})
}

// Logout clears the session cookies. Tokens are self-contained, so expiry is
// the only server-side invalidation; logout is a client-side cookie clear.
// @Summary Logout
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearTempCookie(c)
	h.clearSessionCookie(c)
	return response.Success(c, "Logged out successfully", nil)
}

// setTempCookie stores the temp token (600s window)
func (h *AuthHandler) setTempCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TempTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   h.cfg.JWT.TempTokenMins * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}

// setSessionCookie stores the session token (7-day window)
func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
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

func (h *AuthHandler) clearTempCookie(c *fiber.Ctx) {
	h.expireCookie(c, middleware.TempTokenCookie)
}

func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	h.expireCookie(c, middleware.TokenCookie)
}

func (h *AuthHandler) expireCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-1 * time.Hour),
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}
