package repositories

import (
	"context"
	"time"

	"caseportal/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// applicationColumns is the default projection — otp_code/otp_expires are
// excluded from default reads and must be requested via GetByIDWithOTP
var applicationColumns = []string{
	"id", "user_name", "password", "email",
	"application_type", "application_number", "applicant_name",
	"date_of_submission", "status", "unique_client_identifier",
	"biometrics_number", "biometrics_enrolment_date", "biometrics_expiry_date", "biometrics_status",
	"created_at", "updated_at",
}

// applicationRepository implements ApplicationRepository on GORM
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create creates a new application
func (r *applicationRepository) Create(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// GetByID gets an application by ID without OTP fields, messages preloaded
func (r *applicationRepository) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Select(applicationColumns).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.id ASC")
		}).
		Where("id = ?", id).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// GetByIDWithOTP gets an application by ID including OTP fields
func (r *applicationRepository) GetByIDWithOTP(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.id ASC")
		}).
		Where("id = ?", id).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// GetByUserName gets an application by username (login path, includes password)
func (r *applicationRepository) GetByUserName(ctx context.Context, userName string) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Select(applicationColumns).
		Where("user_name = ?", userName).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Update saves the full mutable field set of an application
func (r *applicationRepository) Update(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", app.ID).
		Updates(map[string]interface{}{
			"user_name":                 app.UserName,
			"password":                  app.Password,
			"email":                     app.Email,
			"application_type":          app.ApplicationType,
			"application_number":        app.ApplicationNumber,
			"applicant_name":            app.ApplicantName,
			"date_of_submission":        app.DateOfSubmission,
			"status":                    app.Status,
			"unique_client_identifier":  app.UniqueClientIdentifier,
			"biometrics_number":         app.BiometricsNumber,
			"biometrics_enrolment_date": app.BiometricsEnrolmentDate,
			"biometrics_expiry_date":    app.BiometricsExpiryDate,
			"biometrics_status":         app.BiometricsStatus,
		}).Error
}

// Delete deletes an application and its owned sub-resources
func (r *applicationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("application_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("application_id = ?", id).Delete(&models.SecurityQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Application{}, id).Error
	})
}

// List lists applications newest-created-first with pagination
func (r *applicationRepository) List(ctx context.Context, offset, limit int) ([]*models.Application, int64, error) {
	var apps []*models.Application
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Application{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Select(applicationColumns).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.id ASC")
		}).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&apps).Error
	if err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

// ExistsByApplicationNumber checks if an application number is taken
func (r *applicationRepository) ExistsByApplicationNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("application_number = ?", number).Count(&count).Error
	return count > 0, err
}

// ExistsByEmail checks if an email is taken
func (r *applicationRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// SetOTP persists a fresh OTP, silently replacing any previous one
func (r *applicationRepository) SetOTP(ctx context.Context, id uint, code string, expires time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"otp_code":    code,
			"otp_expires": expires,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearOTPIfMatches clears the OTP fields only when the stored code matches
func (r *applicationRepository) ClearOTPIfMatches(ctx context.Context, id uint, code string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ? AND otp_code = ?", id, code).
		Updates(map[string]interface{}{
			"otp_code":    nil,
			"otp_expires": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ClearExpiredOTPs clears otp_code/otp_expires on every application whose
// window has passed
func (r *applicationRepository) ClearExpiredOTPs(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("otp_expires IS NOT NULL AND otp_expires < ?", now).
		Updates(map[string]interface{}{
			"otp_code":    nil,
			"otp_expires": nil,
		})
	return res.RowsAffected, res.Error
}

// ExpireBiometrics marks biometrics Expired once past their expiry date
func (r *applicationRepository) ExpireBiometrics(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("biometrics_expiry_date < ? AND biometrics_status <> ?", now, "Expired").
		Update("biometrics_status", "Expired")
	return res.RowsAffected, res.Error
}

// AppendMessage appends a message to an application
func (r *applicationRepository) AppendMessage(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// MarkAllMessagesRead sets is_read on every message of an application
func (r *applicationRepository) MarkAllMessagesRead(ctx context.Context, applicationID uint) error {
	return r.db.WithContext(ctx).Model(&models.Message{}).
		Where("application_id = ?", applicationID).
		Update("is_read", true).Error
}
