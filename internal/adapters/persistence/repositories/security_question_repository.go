package repositories

import (
	"context"

	"caseportal/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// securityQuestionRepository implements SecurityQuestionRepository on GORM
type securityQuestionRepository struct {
	db *gorm.DB
}

// NewSecurityQuestionRepository creates a new security question repository
func NewSecurityQuestionRepository(db *gorm.DB) SecurityQuestionRepository {
	return &securityQuestionRepository{db: db}
}

// Create creates a security question under an application
func (r *securityQuestionRepository) Create(ctx context.Context, question *models.SecurityQuestion) error {
	return r.db.WithContext(ctx).Create(question).Error
}

// GetByID gets a question by id scoped to its owning application
func (r *securityQuestionRepository) GetByID(ctx context.Context, applicationID, questionID uint) (*models.SecurityQuestion, error) {
	var question models.SecurityQuestion
	err := r.db.WithContext(ctx).
		Where("id = ? AND application_id = ?", questionID, applicationID).
		First(&question).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// ListByApplication lists all questions of an application
func (r *securityQuestionRepository) ListByApplication(ctx context.Context, applicationID uint) ([]*models.SecurityQuestion, error) {
	var questions []*models.SecurityQuestion
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// UpdateAnswer replaces the stored answer of a question
func (r *securityQuestionRepository) UpdateAnswer(ctx context.Context, applicationID, questionID uint, answer string) error {
	res := r.db.WithContext(ctx).Model(&models.SecurityQuestion{}).
		Where("id = ? AND application_id = ?", questionID, applicationID).
		Update("answer", answer)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a question
func (r *securityQuestionRepository) Delete(ctx context.Context, applicationID, questionID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND application_id = ?", questionID, applicationID).
		Delete(&models.SecurityQuestion{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
