package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"caseportal/internal/adapters/persistence/models"
	"caseportal/internal/adapters/persistence/repositories"
	"caseportal/internal/core/domain"

	"gorm.io/gorm"
)

// SecurityQuestionService handles the knowledge-factor challenge and its
// admin-side CRUD. Answers never leave the service.
type SecurityQuestionService struct {
	questionRepo repositories.SecurityQuestionRepository
	appRepo      repositories.ApplicationRepository
}

// NewSecurityQuestionService creates a new security question service
func NewSecurityQuestionService(
	questionRepo repositories.SecurityQuestionRepository,
	appRepo repositories.ApplicationRepository,
) *SecurityQuestionService {
	return &SecurityQuestionService{
		questionRepo: questionRepo,
		appRepo:      appRepo,
	}
}

// List returns {id, question} pairs for an application — answers excluded
func (s *SecurityQuestionService) List(ctx context.Context, applicationID uint) ([]*models.SecurityQuestionResponse, error) {
	if err := s.resolveApplication(ctx, applicationID); err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.SecurityQuestionResponse, 0, len(questions))
	for _, q := range questions {
		responses = append(responses, q.ToResponse())
	}
	return responses, nil
}

// Verify compares a submitted answer against the stored one. Case-sensitive
// exact match; returns false on any mismatch. No attempt counting.
func (s *SecurityQuestionService) Verify(ctx context.Context, applicationID, questionID uint, answer string) (bool, error) {
	question, err := s.questionRepo.GetByID(ctx, applicationID, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, domain.ErrQuestionNotFound
		}
		return false, err
	}

	return question.Answer == answer, nil
}

// Add creates a question/answer pair under an application (admin side)
func (s *SecurityQuestionService) Add(ctx context.Context, applicationID uint, questionText, answer string) (*models.SecurityQuestionResponse, error) {
	if strings.TrimSpace(questionText) == "" || strings.TrimSpace(answer) == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := s.resolveApplication(ctx, applicationID); err != nil {
		return nil, err
	}

	question := &models.SecurityQuestion{
		ApplicationID: applicationID,
		Question:      questionText,
		Answer:        answer,
	}
	if err := s.questionRepo.Create(ctx, question); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}

	log.Printf("✅ Security question added for application %d", applicationID)
	return question.ToResponse(), nil
}

// UpdateAnswer replaces the stored answer of a question (admin side)
func (s *SecurityQuestionService) UpdateAnswer(ctx context.Context, applicationID, questionID uint, answer string) error {
	if strings.TrimSpace(answer) == "" {
		return domain.ErrInvalidInput
	}
	if err := s.resolveApplication(ctx, applicationID); err != nil {
		return err
	}

	if err := s.questionRepo.UpdateAnswer(ctx, applicationID, questionID, answer); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrQuestionNotFound
		}
		return err
	}
	return nil
}

// Delete removes a question (admin side)
func (s *SecurityQuestionService) Delete(ctx context.Context, applicationID, questionID uint) error {
	if err := s.resolveApplication(ctx, applicationID); err != nil {
		return err
	}

	if err := s.questionRepo.Delete(ctx, applicationID, questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrQuestionNotFound
		}
		return err
	}
	return nil
}

// resolveApplication maps a missing application to its NotFound error
func (s *SecurityQuestionService) resolveApplication(ctx context.Context, applicationID uint) error {
	if _, err := s.appRepo.GetByID(ctx, applicationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrApplicationNotFound
		}
		return err
	}
	return nil
}
