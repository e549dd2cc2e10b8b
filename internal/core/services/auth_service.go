package services

import (
	"context"
	"errors"
	"log"

	"caseportal/internal/adapters/persistence/models"
	"caseportal/internal/adapters/persistence/repositories"
	"caseportal/internal/config"
	"caseportal/internal/core/domain"
	"caseportal/internal/pkg/jwt"
	"caseportal/internal/pkg/password"

	"gorm.io/gorm"
)

// AuthService handles applicant and admin authentication
type AuthService struct {
	appRepo   repositories.ApplicationRepository
	adminRepo repositories.AdminRepository
	cfg       *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	appRepo repositories.ApplicationRepository,
	adminRepo repositories.AdminRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		appRepo:   appRepo,
		adminRepo: adminRepo,
		cfg:       cfg,
	}
}

// LoginApplicant checks applicant credentials and mints the temp token that
// bridges the password check to the OTP check. The stored applicant password
// is compared in plaintext — a known legacy behavior of this path, unlike the
// hashed admin path below.
func (s *AuthService) LoginApplicant(ctx context.Context, userName, pass string) (string, *models.Application, error) {
	// 1. Find the application by username
	app, err := s.appRepo.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	// 2. Plaintext comparison (legacy, preserved)
	if app.Password != pass {
		return "", nil, domain.ErrInvalidCredentials
	}

	// 3. Mint the temp token (10-minute window)
	tempToken, err := jwt.GenerateTempToken(app.ID, app.UserName, s.cfg.JWT.Secret, s.cfg.JWT.TempTokenMins)
	if err != nil {
		return "", nil, err
	}

	log.Printf("✅ Applicant passed password check: %s", app.UserName)
	return tempToken, app, nil
}

// LoginAdmin checks admin credentials (bcrypt at rest) and mints an admin
// session token carrying the role claim.
func (s *AuthService) LoginAdmin(ctx context.Context, email, pass string) (string, *models.Admin, error) {
	// 1. Find the admin by email
	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	// 2. bcrypt comparison
	if !password.Verify(pass, admin.Password) {
		return "", nil, domain.ErrInvalidCredentials
	}

	// 3. Mint the admin token (7 days, role=ADMIN)
	token, err := jwt.GenerateAdminToken(admin.ID, admin.Email, s.cfg.JWT.Secret, s.cfg.JWT.SessionTokenDays)
	if err != nil {
		return "", nil, err
	}

	log.Printf("✅ Admin logged in: %s", admin.Email)
	return token, admin, nil
}

// GetApplicant loads an applicant's own application by id
func (s *AuthService) GetApplicant(ctx context.Context, applicationID uint) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}
