package handlers

import (
	"errors"

	"caseportal/internal/core/domain"
	"caseportal/internal/core/services"
	"caseportal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SecurityQuestionHandler handles admin-side security question CRUD
type SecurityQuestionHandler struct {
	questionService *services.SecurityQuestionService
}

// NewSecurityQuestionHandler creates a new security question handler
func NewSecurityQuestionHandler(questionService *services.SecurityQuestionService) *SecurityQuestionHandler {
	return &SecurityQuestionHandler{questionService: questionService}
}

// AddQuestionRequest represents question creation request body
type AddQuestionRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// UpdateAnswerRequest represents answer update request body
type UpdateAnswerRequest struct {
	Answer string `json:"answer"`
}

// List lists an application's security questions (answers excluded)
// @Summary List security questions
// @Tags SecurityQuestions
// @Produce json
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/applications/{id}/security-questions [get]
func (h *SecurityQuestionHandler) List(c *fiber.Ctx) error {
	applicationID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application id")
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

// Add creates a question/answer pair under an application
// @Summary Add security question
// @Tags SecurityQuestions
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param body body AddQuestionRequest true "Question and answer"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/applications/{id}/security-questions [post]
func (h *SecurityQuestionHandler) Add(c *fiber.Ctx) error {
	applicationID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application id")
	}

	var req AddQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	question, err := h.questionService.Add(c.Context(), applicationID, req.Question, req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Question and answer are required")
		default:
			return response.InternalServerError(c, "Failed to add security question")
		}
	}

	return response.Created(c, "Security question added", fiber.Map{
		"question": question,
	})
}

// UpdateAnswer replaces the stored answer of a question
// @Summary Update security question answer
// @Tags SecurityQuestions
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param qid path int true "Question ID"
// @Param body body UpdateAnswerRequest true "New answer"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/applications/{id}/security-questions/{qid} [put]
func (h *SecurityQuestionHandler) UpdateAnswer(c *fiber.Ctx) error {
	applicationID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application id")
	}
	questionID, err := parseID(c, "qid")
	if err != nil {
		return response.BadRequest(c, "Invalid question id")
	}

	var req UpdateAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.questionService.UpdateAnswer(c.Context(), applicationID, questionID, req.Answer); err != nil {
		switch {
		case errors.Is(err, domain.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, domain.ErrQuestionNotFound):
			return response.NotFound(c, "Security question not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Answer is required")
		default:
			return response.InternalServerError(c, "Failed to update answer")
		}
	}

	return response.Success(c, "Answer updated", nil)
}

// Delete removes a question
// @Summary Delete security question
// @Tags SecurityQuestions
// @Produce json
// @Param id path int true "Application ID"
// @Param qid path int true "Question ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/applications/{id}/security-questions/{qid} [delete]
func (h *SecurityQuestionHandler) Delete(c *fiber.Ctx) error {
	applicationID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application id")
	}
	questionID, err := parseID(c, "qid")
	if err != nil {
		return response.BadRequest(c, "Invalid question id")
	}

	if err := h.questionService.Delete(c.Context(), applicationID, questionID); err != nil {
		switch {
		case errors.Is(err, domain.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, domain.ErrQuestionNotFound):
			return response.NotFound(c, "Security question not found")
		default:
			return response.InternalServerError(c, "Failed to delete security question")
		}
	}

	return response.Success(c, "Security question deleted", nil)
}
