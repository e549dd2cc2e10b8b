package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"caseportal/internal/adapters/persistence/models"
	"caseportal/internal/adapters/persistence/repositories"
	"caseportal/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationInput represents the flat field set accepted on create and
// update. Dates arrive as strings ("2006-01-02" or RFC 3339) the way the form
// boundary submits them.
type ApplicationInput struct {
	UserName                string `json:"user_name"`
	Password                string `json:"password"`
	Email                   string `json:"email"`
	ApplicationType         string `json:"application_type"`
	ApplicationNumber       string `json:"application_number"`
	ApplicantName           string `json:"applicant_name"`
	DateOfSubmission        string `json:"date_of_submission"`
	Status                  string `json:"status"`
	UniqueClientIdentifier  string `json:"unique_client_identifier"`
	BiometricsNumber        string `json:"biometrics_number"`
	BiometricsEnrolmentDate string `json:"biometrics_enrolment_date"`
	BiometricsExpiryDate    string `json:"biometrics_expiry_date"`
	BiometricsStatus        string `json:"biometrics_status"`
}

// ApplicationService handles application CRUD plus nested message operations
type ApplicationService struct {
	appRepo repositories.ApplicationRepository
}

// NewApplicationService creates a new application service
func NewApplicationService(appRepo repositories.ApplicationRepository) *ApplicationService {
	return &ApplicationService{appRepo: appRepo}
}

// Create validates input and creates a new application. Field violations come
// back as ValidationErrors (a value, not an error) so the caller can render
// them per field; duplicate applicationNumber/email surfaces as
// domain.ErrDuplicateEntry.
func (s *ApplicationService) Create(ctx context.Context, input *ApplicationInput) (*models.ApplicationResponse, domain.ValidationErrors, error) {
	// 1. Validate
	app, fieldErrs := buildApplication(input)
	if fieldErrs.HasErrors() {
		return nil, fieldErrs, nil
	}

	// 2. Uniqueness checks
	if taken, err := s.appRepo.ExistsByApplicationNumber(ctx, app.ApplicationNumber); err != nil {
		return nil, nil, err
	} else if taken {
		return nil, nil, domain.ErrDuplicateEntry
	}
	if taken, err := s.appRepo.ExistsByEmail(ctx, app.Email); err != nil {
		return nil, nil, err
	} else if taken {
		return nil, nil, domain.ErrDuplicateEntry
	}

	// 3. Defaults
	if app.Status == "" {
		app.Status = string(domain.StatusPending)
	}
	if app.BiometricsStatus == "" {
		app.BiometricsStatus = string(domain.BiometricsNotCompleted)
	}
	if app.UniqueClientIdentifier == "" {
		app.UniqueClientIdentifier = uuid.New().String()
	}

	// 4. Create
	if err := s.appRepo.Create(ctx, app); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, domain.ErrDuplicateEntry
		}
		return nil, nil, err
	}

	log.Printf("✅ Application created: %s", app.ApplicationNumber)
	return app.ToResponse(), nil, nil
}

// GetByID returns one application (OTP fields never included)
func (s *ApplicationService) GetByID(ctx context.Context, id uint) (*models.ApplicationResponse, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}
	return app.ToResponse(), nil
}

// List returns applications newest-created-first
func (s *ApplicationService) List(ctx context.Context, offset, limit int) ([]*models.ApplicationResponse, int64, error) {
	apps, total, err := s.appRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		responses = append(responses, app.ToResponse())
	}
	return responses, total, nil
}

// Update replaces the full mutable field set — this is a full-document
// replace, not a partial patch: omitted fields fall back to defaults rather
// than keeping their previous values.
func (s *ApplicationService) Update(ctx context.Context, id uint, input *ApplicationInput) (*models.ApplicationResponse, domain.ValidationErrors, error) {
	// 1. Resolve the target
	existing, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.ErrApplicationNotFound
		}
		return nil, nil, err
	}

	// 2. Validate the replacement field set
	app, fieldErrs := buildApplication(input)
	if fieldErrs.HasErrors() {
		return nil, fieldErrs, nil
	}

	// 3. Uniqueness checks when the unique fields change
	if app.ApplicationNumber != existing.ApplicationNumber {
		if taken, err := s.appRepo.ExistsByApplicationNumber(ctx, app.ApplicationNumber); err != nil {
			return nil, nil, err
		} else if taken {
			return nil, nil, domain.ErrDuplicateEntry
		}
	}
	if !strings.EqualFold(app.Email, existing.Email) {
		if taken, err := s.appRepo.ExistsByEmail(ctx, app.Email); err != nil {
			return nil, nil, err
		} else if taken {
			return nil, nil, domain.ErrDuplicateEntry
		}
	}

	// 4. Defaults for omitted fields (full replace semantics)
	if app.Status == "" {
		app.Status = string(domain.StatusPending)
	}
	if app.BiometricsStatus == "" {
		app.BiometricsStatus = string(domain.BiometricsNotCompleted)
	}
	if app.UniqueClientIdentifier == "" {
		app.UniqueClientIdentifier = uuid.New().String()
	}

	app.ID = id
	if err := s.appRepo.Update(ctx, app); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, domain.ErrDuplicateEntry
		}
		return nil, nil, err
	}

	// 5. Return the post-mutation document
	updated, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	log.Printf("✅ Application updated: %s", updated.ApplicationNumber)
	return updated.ToResponse(), nil, nil
}

// Delete removes an application and returns the deleted record
func (s *ApplicationService) Delete(ctx context.Context, id uint) (*models.ApplicationResponse, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}

	if err := s.appRepo.Delete(ctx, id); err != nil {
		return nil, err
	}

	log.Printf("🗑️ Application deleted: %s", app.ApplicationNumber)
	return app.ToResponse(), nil
}

// AppendMessage pushes a message with the current server timestamp and
// isRead=false, returning the post-mutation document
func (s *ApplicationService) AppendMessage(ctx context.Context, id uint, content string) (*models.ApplicationResponse, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrInvalidInput
	}

	msg := &models.Message{
		ApplicationID: id,
		Content:       content,
		SentAt:        time.Now(),
		IsRead:        false,
	}
	if err := s.appRepo.AppendMessage(ctx, msg); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}

	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}
	return app.ToResponse(), nil
}

// MarkAllMessagesRead sets isRead on every message. Idempotent.
func (s *ApplicationService) MarkAllMessagesRead(ctx context.Context, id uint) (*models.ApplicationResponse, error) {
	// Resolve first so a missing id is NotFound, not a silent no-op
	if _, err := s.appRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}

	if err := s.appRepo.MarkAllMessagesRead(ctx, id); err != nil {
		return nil, err
	}

	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return app.ToResponse(), nil
}

// buildApplication validates the flat input and assembles the model.
// Returns field-keyed violations; an empty map means the input is valid.
func buildApplication(input *ApplicationInput) (*models.Application, domain.ValidationErrors) {
	fieldErrs := domain.ValidationErrors{}

	if input.UserName == "" {
		fieldErrs.Add("user_name", "userName is required")
	}
	if input.Password == "" {
		fieldErrs.Add("password", "password is required")
	} else if len(input.Password) < domain.MinPasswordLength {
		fieldErrs.Add("password", "password must be at least 6 characters")
	}
	if input.Email == "" {
		fieldErrs.Add("email", "email is required")
	} else if !strings.Contains(input.Email, "@") {
		fieldErrs.Add("email", "email is invalid")
	}
	if input.ApplicationType == "" {
		fieldErrs.Add("application_type", "applicationType is required")
	}
	if input.ApplicationNumber == "" {
		fieldErrs.Add("application_number", "applicationNumber is required")
	}
	if input.ApplicantName == "" {
		fieldErrs.Add("applicant_name", "applicantName is required")
	}

	dateOfSubmission := parseDateField(input.DateOfSubmission, "date_of_submission", "dateOfSubmission", fieldErrs)

	if input.Status != "" && !domain.ValidApplicationStatus(input.Status) {
		fieldErrs.Add("status", "status must be one of Pending, Approved, Rejected, InReview")
	}

	if input.BiometricsNumber == "" {
		fieldErrs.Add("biometrics_number", "biometrics number is required")
	}
	enrolmentDate := parseDateField(input.BiometricsEnrolmentDate, "biometrics_enrolment_date", "biometrics enrolment date", fieldErrs)
	expiryDate := parseDateField(input.BiometricsExpiryDate, "biometrics_expiry_date", "biometrics expiry date", fieldErrs)

	if input.BiometricsStatus != "" && !domain.ValidBiometricsStatus(input.BiometricsStatus) {
		fieldErrs.Add("biometrics_status", "biometrics status must be one of Completed, NotCompleted, Expired")
	}

	if fieldErrs.HasErrors() {
		return nil, fieldErrs
	}

	return &models.Application{
		UserName:                input.UserName,
		Password:                input.Password,
		Email:                   input.Email,
		ApplicationType:         input.ApplicationType,
		ApplicationNumber:       input.ApplicationNumber,
		ApplicantName:           input.ApplicantName,
		DateOfSubmission:        dateOfSubmission,
		Status:                  input.Status,
		UniqueClientIdentifier:  input.UniqueClientIdentifier,
		BiometricsNumber:        input.BiometricsNumber,
		BiometricsEnrolmentDate: enrolmentDate,
		BiometricsExpiryDate:    expiryDate,
		BiometricsStatus:        input.BiometricsStatus,
	}, fieldErrs
}

// parseDateField parses "2006-01-02" or RFC 3339, recording a violation on
// absence or bad format
func parseDateField(value, field, label string, fieldErrs domain.ValidationErrors) time.Time {
	if value == "" {
		fieldErrs.Add(field, label+" is required")
		return time.Time{}
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	fieldErrs.Add(field, label+" must be a date (YYYY-MM-DD)")
	return time.Time{}
}
