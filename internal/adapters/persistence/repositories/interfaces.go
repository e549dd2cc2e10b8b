package repositories

import (
	"context"
	"time"

	"caseportal/internal/adapters/persistence/models"
)

// ApplicationRepository defines application repository interface
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	// GetByID loads an application without its transient OTP fields
	GetByID(ctx context.Context, id uint) (*models.Application, error)
	// GetByIDWithOTP loads an application including otp_code/otp_expires —
	// only the OTP verification path may ask for these
	GetByIDWithOTP(ctx context.Context, id uint) (*models.Application, error)
	GetByUserName(ctx context.Context, userName string) (*models.Application, error)
	Update(ctx context.Context, app *models.Application) error
	Delete(ctx context.Context, id uint) error
	// List returns applications ordered newest-created-first
	List(ctx context.Context, offset, limit int) ([]*models.Application, int64, error)
	ExistsByApplicationNumber(ctx context.Context, number string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// OTP lifecycle
	SetOTP(ctx context.Context, id uint, code string, expires time.Time) error
	// ClearOTPIfMatches clears otp_code/otp_expires only when the stored code
	// equals the given one (compare-and-swap against concurrent verifies).
	// Returns false when another caller already cleared or replaced it.
	ClearOTPIfMatches(ctx context.Context, id uint, code string) (bool, error)
	ClearExpiredOTPs(ctx context.Context, now time.Time) (int64, error)

	// Biometrics housekeeping
	ExpireBiometrics(ctx context.Context, now time.Time) (int64, error)

	// Messages sub-resource
	AppendMessage(ctx context.Context, msg *models.Message) error
	MarkAllMessagesRead(ctx context.Context, applicationID uint) error
}

// SecurityQuestionRepository defines security question repository interface
type SecurityQuestionRepository interface {
	Create(ctx context.Context, question *models.SecurityQuestion) error
	// GetByID resolves a question id scoped to its owning application
	GetByID(ctx context.Context, applicationID, questionID uint) (*models.SecurityQuestion, error)
	ListByApplication(ctx context.Context, applicationID uint) ([]*models.SecurityQuestion, error)
	UpdateAnswer(ctx context.Context, applicationID, questionID uint, answer string) error
	Delete(ctx context.Context, applicationID, questionID uint) error
}

// AdminRepository defines admin repository interface
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id uint) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
