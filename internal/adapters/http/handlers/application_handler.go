package handlers

import (
	"errors"
	"strconv"
	"strings"

	"caseportal/internal/core/domain"
	"caseportal/internal/core/services"
	"caseportal/internal/pkg/pagination"
	"caseportal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles admin-side application CRUD plus the nested
// message sub-resource
type ApplicationHandler struct {
	appService *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(appService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService}
}

// AppendMessageRequest represents message append request body
type AppendMessageRequest struct {
	Content string `json:"content"`
}

// Create handles application creation
// @Summary Create application
// @Description Create a case record; field violations return a 422 with per-field messages
// @Tags Applications
// @Accept json
// @Produce json
// @Param body body services.ApplicationInput true "Application data"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /admin/applications [post]
func (h *ApplicationHandler) Create(c *fiber.Ctx) error {
	var input services.ApplicationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	sanitizeInput(&input)

	app, fieldErrs, err := h.appService.Create(c.Context(), &input)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return response.Conflict(c, "Application number or email already exists")
		}
		return response.InternalServerError(c, "Failed to create application")
	}
	if fieldErrs.HasErrors() {
		return response.ValidationFailed(c, fieldErrs)
	}

	return response.Created(c, "Application created successfully", fiber.Map{
		"application": app,
	})
}

// List handles application listing (newest-created-first)
// @Summary List applications
// @Tags Applications
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /admin/applications [get]
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	apps, total, err := h.appService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list applications")
	}

	return response.Success(c, "Applications retrieved", pagination.NewResponse(apps, params, total))
}

// GetByID handles single application retrieval
// @Summary Get application
// @Tags Applications
// @Produce json
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/applications/{id} [get]
func (h *ApplicationHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application id")
	}

	app, err := h.appService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrApplicationNotFound) {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to load application")
	}

	return response.Success(c, "Application retrieved", fiber.Map{
		"application": app,
	})
}

// Update handles full-replacement update of an application
// @Summary Update application
// @Description Full-document replace of the mutable fields — callers must resupply the complete set
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param body body services.ApplicationInput true "Replacement data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /admin/applications/{id} [put]
func (h *ApplicationHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application id")
	}

	var input services.ApplicationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	sanitizeInput(&input)

	app, fieldErrs, err := h.appService.Update(c.Context(), id, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, domain.ErrDuplicateEntry):
			return response.Conflict(c, "Application number or email already exists")
		default:
			return response.InternalServerError(c, "Failed to update application")
		}
	}
	if fieldErrs.HasErrors() {
		return response.ValidationFailed(c, fieldErrs)
	}

	return response.Success(c, "Application updated successfully", fiber.Map{
		"application": app,
	})
}

// Delete handles application deletion
// @Summary Delete application
// @Tags Applications
// @Produce json
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/applications/{id} [delete]
func (h *ApplicationHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application id")
	}

	app, err := h.appService.Delete(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrApplicationNotFound) {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to delete application")
	}

	return response.Success(c, "Application deleted successfully", fiber.Map{
		"application": app,
	})
}

// AppendMessage handles message append
// @Summary Append message
// @Description Push a message with the current server timestamp, unread
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param body body AppendMessageRequest true "Message content"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/applications/{id}/messages [post]
func (h *ApplicationHandler) AppendMessage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application id")
	}

	var req AppendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.appService.AppendMessage(c.Context(), id, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Message content is required")
		default:
			return response.InternalServerError(c, "Failed to append message")
		}
	}

	return response.Success(c, "Message appended", fiber.Map{
		"application": app,
	})
}

// MarkMessagesRead handles bulk mark-all-read. Idempotent.
// @Summary Mark all messages read
// @Tags Applications
// @Produce json
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/applications/{id}/messages/read [put]
func (h *ApplicationHandler) MarkMessagesRead(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application id")
	}

	app, err := h.appService.MarkAllMessagesRead(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrApplicationNotFound) {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to mark messages read")
	}

	return response.Success(c, "All messages marked read", fiber.Map{
		"application": app,
	})
}

// sanitizeInput trims surrounding whitespace off every string field except
// the password
func sanitizeInput(input *services.ApplicationInput) {
	input.UserName = strings.TrimSpace(input.UserName)
	input.Email = strings.TrimSpace(input.Email)
	input.ApplicationType = strings.TrimSpace(input.ApplicationType)
	input.ApplicationNumber = strings.TrimSpace(input.ApplicationNumber)
	input.ApplicantName = strings.TrimSpace(input.ApplicantName)
	input.DateOfSubmission = strings.TrimSpace(input.DateOfSubmission)
	input.Status = strings.TrimSpace(input.Status)
	input.UniqueClientIdentifier = strings.TrimSpace(input.UniqueClientIdentifier)
	input.BiometricsNumber = strings.TrimSpace(input.BiometricsNumber)
	input.BiometricsEnrolmentDate = strings.TrimSpace(input.BiometricsEnrolmentDate)
	input.BiometricsExpiryDate = strings.TrimSpace(input.BiometricsExpiryDate)
	input.BiometricsStatus = strings.TrimSpace(input.BiometricsStatus)
}

// parseID parses a positive integer path parameter
func parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
