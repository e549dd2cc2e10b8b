package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Token use markers. Every token carries one, and every validator checks it,
// so a temp token is never accepted where a session token is required and
// vice versa.
const (
	useTemp    = "temp"
	useSession = "session"
	useAdmin   = "admin"
)

const issuer = "caseportal"

// TempClaims bridges the password-check step to the OTP-check step
type TempClaims struct {
	ApplicationID uint   `json:"application_id"`
	UserName      string `json:"user_name"`
	TokenUse      string `json:"token_use"`
	jwt.RegisteredClaims
}

// SessionClaims represents an authenticated applicant session
type SessionClaims struct {
	ApplicationID uint   `json:"application_id"`
	UserName      string `json:"user_name"`
	TokenUse      string `json:"token_use"`
	jwt.RegisteredClaims
}

// AdminClaims represents an authenticated admin session
type AdminClaims struct {
	AdminID  uint   `json:"admin_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	TokenUse string `json:"token_use"`
	jwt.RegisteredClaims
}

// GenerateTempToken mints the short-lived pre-2FA token. The secret is always
// passed in from config — there is no package-level signing state.
func GenerateTempToken(applicationID uint, userName, secret string, expiryMinutes int) (string, error) {
	claims := TempClaims{
		ApplicationID: applicationID,
		UserName:      userName,
		TokenUse:      useTemp,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expiryMinutes) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
			Subject:   userName,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateSessionToken mints the long-lived applicant session token
func GenerateSessionToken(applicationID uint, userName, secret string, expiryDays int) (string, error) {
	claims := SessionClaims{
		ApplicationID: applicationID,
		UserName:      userName,
		TokenUse:      useSession,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expiryDays) * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
			Subject:   userName,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateAdminToken mints an admin session token carrying the role claim
func GenerateAdminToken(adminID uint, email, secret string, expiryDays int) (string, error) {
	claims := AdminClaims{
		AdminID:  adminID,
		Email:    email,
		Role:     "ADMIN",
		TokenUse: useAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expiryDays) * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
			Subject:   email,
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateTempToken validates a temp token and returns its claims
func ValidateTempToken(tokenString, secret string) (*TempClaims, error) {
	claims := &TempClaims{}
	if err := parseInto(tokenString, secret, claims); err != nil {
		return nil, err
	}
	if claims.TokenUse != useTemp {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ValidateSessionToken validates an applicant session token and returns its claims
func ValidateSessionToken(tokenString, secret string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := parseInto(tokenString, secret, claims); err != nil {
		return nil, err
	}
	if claims.TokenUse != useSession {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ValidateAdminToken validates an admin session token and returns its claims
func ValidateAdminToken(tokenString, secret string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	if err := parseInto(tokenString, secret, claims); err != nil {
		return nil, err
	}
	if claims.TokenUse != useAdmin || claims.Role != "ADMIN" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// parseInto verifies signature and expiry, filling claims on success
func parseInto(tokenString, secret string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}

	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}
