package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/issueboard/issueboard/internal/domain"
	"github.com/issueboard/issueboard/internal/middleware"
	apperrors "github.com/issueboard/issueboard/internal/pkg/errors"
	"github.com/issueboard/issueboard/internal/pkg/id"
	"github.com/issueboard/issueboard/internal/validator"
)

// IssueService defines the issue operations the handler consumes
type IssueService interface {
	Create(ctx context.Context, project string, input *domain.IssueInput) (*domain.Issue, error)
	List(ctx context.Context, project string, filter domain.Filter) ([]domain.Issue, error)
	Update(ctx context.Context, issueID string, update domain.IssueUpdate) error
	Delete(ctx context.Context, issueID string) error
}

// IssuesHandler handles the issue endpoints.
//
// Every response on this surface is HTTP 200; logical failure is
// signaled by an "error" key in the body. This is the compatibility
// contract the API's existing consumers test against.
type IssuesHandler struct {
	issueService IssueService
	logger       *zap.Logger
}

// NewIssuesHandler creates a new issues handler
func NewIssuesHandler(issueService IssueService, logger *zap.Logger) *IssuesHandler {
	return &IssuesHandler{
		issueService: issueService,
		logger:       logger,
	}
}

// ListIssues handles GET /api/issues/:project
func (h *IssuesHandler) ListIssues(c *fiber.Ctx) error {
	project := c.Params("project")

	filter := domain.Filter(c.Queries())

	issues, err := h.issueService.List(c.Context(), project, filter)
	if err != nil {
		h.logger.Error("failed to list issues",
			zap.Error(err),
			zap.String("project", project),
		)
		middleware.RecordIssueOperation("list", "store_error")
		return c.JSON(fiber.Map{"error": "could not get issues"})
	}

	middleware.RecordIssueOperation("list", "success")
	return c.JSON(issues)
}

// CreateIssue handles POST /api/issues/:project
func (h *IssuesHandler) CreateIssue(c *fiber.Ctx) error {
	project := c.Params("project")

	input := new(domain.IssueInput)
	if err := c.BodyParser(input); err != nil {
		middleware.RecordIssueOperation("create", "validation_error")
		return c.JSON(fiber.Map{"error": "required field(s) missing"})
	}

	if project == "" || validator.Validate(input) != nil {
		middleware.RecordIssueOperation("create", "validation_error")
		return c.JSON(fiber.Map{"error": "required field(s) missing"})
	}

	issue, err := h.issueService.Create(c.Context(), project, input)
	if err != nil {
		h.logger.Error("failed to create issue",
			zap.Error(err),
			zap.String("project", project),
		)
		middleware.RecordIssueOperation("create", "store_error")
		return c.JSON(fiber.Map{"error": "could not create issue"})
	}

	middleware.RecordIssueOperation("create", "success")
	return c.JSON(issue)
}

// updateRequest is the PUT body: the identifier plus any subset of
// updatable fields. Pointers distinguish absent from zero-valued.
type updateRequest struct {
	ID         string  `json:"_id" form:"_id"`
	IssueTitle *string `json:"issue_title" form:"issue_title"`
	IssueText  *string `json:"issue_text" form:"issue_text"`
	CreatedBy  *string `json:"created_by" form:"created_by"`
	AssignedTo *string `json:"assigned_to" form:"assigned_to"`
	StatusText *string `json:"status_text" form:"status_text"`
	Open       *bool   `json:"open" form:"open"`
}

func (r *updateRequest) toUpdate() domain.IssueUpdate {
	return domain.IssueUpdate{
		IssueTitle: r.IssueTitle,
		IssueText:  r.IssueText,
		CreatedBy:  r.CreatedBy,
		AssignedTo: r.AssignedTo,
		StatusText: r.StatusText,
		Open:       r.Open,
	}
}

// UpdateIssue handles PUT /api/issues/:project.
//
// Validation is ordered and fails fast: missing _id, then no update
// fields, then malformed _id. Only then is the store consulted.
func (h *IssuesHandler) UpdateIssue(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		middleware.RecordIssueOperation("update", "validation_error")
		return c.JSON(fiber.Map{"error": "missing _id"})
	}

	if req.ID == "" {
		middleware.RecordIssueOperation("update", "validation_error")
		return c.JSON(fiber.Map{"error": "missing _id"})
	}

	update := req.toUpdate()
	if !update.HasFields() {
		middleware.RecordIssueOperation("update", "validation_error")
		return c.JSON(fiber.Map{"error": "no update field(s) sent", "_id": req.ID})
	}

	if !id.IsValid(req.ID) {
		middleware.RecordIssueOperation("update", "validation_error")
		return c.JSON(fiber.Map{"error": "could not update", "_id": req.ID})
	}

	if err := h.issueService.Update(c.Context(), req.ID, update); err != nil {
		if apperrors.IsNotFound(err) {
			middleware.RecordIssueOperation("update", "not_found")
			return c.JSON(fiber.Map{"error": "Issue not found", "_id": req.ID})
		}
		h.logger.Error("failed to update issue",
			zap.Error(err),
			zap.String("issue_id", req.ID),
		)
		middleware.RecordIssueOperation("update", "store_error")
		return c.JSON(fiber.Map{"error": "could not update", "_id": req.ID})
	}

	middleware.RecordIssueOperation("update", "success")
	return c.JSON(fiber.Map{"result": "successfully updated", "_id": req.ID})
}

// DeleteIssue handles DELETE /api/issues/:project.
//
// Deleting an identifier that addresses no record reports success:
// delete is idempotent and the postcondition holds either way.
func (h *IssuesHandler) DeleteIssue(c *fiber.Ctx) error {
	var req struct {
		ID string `json:"_id" form:"_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		middleware.RecordIssueOperation("delete", "validation_error")
		return c.JSON(fiber.Map{"error": "missing _id"})
	}

	if req.ID == "" {
		middleware.RecordIssueOperation("delete", "validation_error")
		return c.JSON(fiber.Map{"error": "missing _id"})
	}

	if !id.IsValid(req.ID) {
		middleware.RecordIssueOperation("delete", "validation_error")
		return c.JSON(fiber.Map{"error": "could not delete", "_id": req.ID})
	}

	if err := h.issueService.Delete(c.Context(), req.ID); err != nil {
		h.logger.Error("failed to delete issue",
			zap.Error(err),
			zap.String("issue_id", req.ID),
		)
		middleware.RecordIssueOperation("delete", "store_error")
		return c.JSON(fiber.Map{"error": "could not delete", "_id": req.ID})
	}

	middleware.RecordIssueOperation("delete", "success")
	return c.JSON(fiber.Map{"result": "successfully deleted", "_id": req.ID})
}
