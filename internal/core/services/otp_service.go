package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"caseportal/internal/adapters/persistence/models"
	"caseportal/internal/adapters/persistence/repositories"
	"caseportal/internal/config"
	"caseportal/internal/core/domain"
	"caseportal/internal/pkg/jwt"

	"gorm.io/gorm"
)

// OTPService handles one-time passcode issuance and verification. Codes are
// persisted on the owning application row — exactly one OTP is live at a time
// per application, and issuing a new one silently replaces the previous.
type OTPService struct {
	appRepo repositories.ApplicationRepository
	mailer  Mailer
	cfg     *config.Config
}

// NewOTPService creates a new OTP service
func NewOTPService(appRepo repositories.ApplicationRepository, mailer Mailer, cfg *config.Config) *OTPService {
	return &OTPService{
		appRepo: appRepo,
		mailer:  mailer,
		cfg:     cfg,
	}
}

// Issue generates a fresh code, persists it with its expiry window, and
// dispatches it to the applicant's email. A mail failure propagates but the
// persisted OTP remains valid — the caller decides whether to retry issuance.
func (s *OTPService) Issue(ctx context.Context, applicationID uint) error {
	// 1. Resolve the application
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrApplicationNotFound
		}
		return err
	}

	// 2. Generate the code
	code, err := generateOTPCode()
	if err != nil {
		return err
	}

	// 3. Persist first — the email send must not race an unpersisted code
	expires := time.Now().Add(domain.OTPValidityMinutes * time.Minute)
	if err := s.appRepo.SetOTP(ctx, applicationID, code, expires); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrApplicationNotFound
		}
		return err
	}

	// 4. Dispatch. No rollback on failure: the stored code stays verifiable.
	if err := s.mailer.Send(app.Email, code); err != nil {
		return err
	}

	log.Printf("📨 OTP issued for application %d", applicationID)
	return nil
}

// Verify checks a submitted code against the pending OTP reached through the
// temp token, and on success clears the code and mints the session token.
func (s *OTPService) Verify(ctx context.Context, tempToken, submittedCode string) (string, *models.ApplicationResponse, error) {
	// 1. Verify the temp token
	claims, err := jwt.ValidateTempToken(tempToken, s.cfg.JWT.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", nil, domain.ErrTokenExpired
		}
		return "", nil, domain.ErrTokenInvalid
	}

	// 2. Load the application including its transient OTP fields
	app, err := s.appRepo.GetByIDWithOTP(ctx, claims.ApplicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, domain.ErrApplicationNotFound
		}
		return "", nil, err
	}

	// 3. No pending OTP, or past the window
	if app.OTPExpires == nil || app.OTPExpires.Before(time.Now()) {
		return "", nil, domain.ErrOTPExpired
	}

	// 4. Case-sensitive exact match
	if app.OTPCode == nil || *app.OTPCode != submittedCode {
		return "", nil, domain.ErrOTPMismatch
	}

	// 5. Clear the code with a compare-and-swap so two concurrent verifies
	// cannot both pass; the loser sees the code already gone.
	cleared, err := s.appRepo.ClearOTPIfMatches(ctx, app.ID, submittedCode)
	if err != nil {
		return "", nil, err
	}
	if !cleared {
		return "", nil, domain.ErrOTPExpired
	}

	// 6. Mint the session token
	sessionToken, err := jwt.GenerateSessionToken(app.ID, app.UserName, s.cfg.JWT.Secret, s.cfg.JWT.SessionTokenDays)
	if err != nil {
		return "", nil, err
	}

	app.OTPCode = nil
	app.OTPExpires = nil

	log.Printf("✅ OTP verified for application %d", app.ID)
	return sessionToken, app.ToResponse(), nil
}

// generateOTPCode draws a code uniformly from [A-Z0-9]
func generateOTPCode() (string, error) {
	alphabet := domain.OTPAlphabet
	code := make([]byte, domain.OTPLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate otp: %w", err)
		}
		code[i] = alphabet[n.Int64()]
	}
	return string(code), nil
}
