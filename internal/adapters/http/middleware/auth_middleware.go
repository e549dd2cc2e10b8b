package middleware

import (
	"strings"

	"caseportal/internal/config"
	"caseportal/internal/pkg/jwt"
	"caseportal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Cookie names used by the token boundary
const (
	TempTokenCookie = "tempToken"
	TokenCookie     = "token"
)

// SessionAuthMiddleware guards applicant routes. It requires the final
// session token; a temp token is rejected here — the two classes are never
// interchangeable.
func SessionAuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromRequest(c, TokenCookie)
		if token == "" {
			return response.Unauthorized(c, "Session token required")
		}

		claims, err := jwt.ValidateSessionToken(token, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Session expired, please login again")
			}
			return response.Unauthorized(c, "Invalid session token")
		}

		c.Locals("applicationID", claims.ApplicationID)
		c.Locals("userName", claims.UserName)
		c.Locals("role", "APPLICANT")

		return c.Next()
	}
}

// AdminAuthMiddleware guards the admin panel routes. Absence of the token
// cookie yields 401 before any admin content is served.
func AdminAuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromRequest(c, TokenCookie)
		if token == "" {
			return response.Unauthorized(c, "Admin session required")
		}

		claims, err := jwt.ValidateAdminToken(token, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Admin session expired, please login again")
			}
			return response.Unauthorized(c, "Invalid admin token")
		}

		c.Locals("adminID", claims.AdminID)
		c.Locals("email", claims.Email)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// TempAuthMiddleware guards the mid-login OTP endpoints using the temp token
func TempAuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromRequest(c, TempTokenCookie)
		if token == "" {
			return response.Unauthorized(c, "Temporary token is missing or expired")
		}

		claims, err := jwt.ValidateTempToken(token, cfg.JWT.Secret)
		if err != nil {
			return response.Unauthorized(c, "Invalid or expired temporary token")
		}

		c.Locals("applicationID", claims.ApplicationID)
		c.Locals("userName", claims.UserName)

		return c.Next()
	}
}

// tokenFromRequest reads a token from its cookie first, falling back to the
// Authorization header
func tokenFromRequest(c *fiber.Ctx, cookieName string) string {
	if token := c.Cookies(cookieName); token != "" {
		return token
	}

	authHeader := c.Get("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
