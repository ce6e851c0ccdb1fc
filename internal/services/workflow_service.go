package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"workflow-copilot/backend/internal/ledger"
	"workflow-copilot/backend/internal/repository"
	"workflow-copilot/backend/internal/store"
	"workflow-copilot/backend/pkg/models"
)

// WorkflowService orchestrates workflow mutations and projections.
type WorkflowService struct {
	repo   *repository.Repository
	ledger *ledger.Ledger
}

// NewWorkflowService creates a new WorkflowService.
func NewWorkflowService(repo *repository.Repository, l *ledger.Ledger) *WorkflowService {
	return &WorkflowService{repo: repo, ledger: l}
}

// CreateWorkflowInput carries the caller-supplied fields for a new
// workflow.
type CreateWorkflowInput struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	OrganizationID *string `json:"organization_id"`
	Status         string  `json:"status"`
}

// UpdateWorkflowInput is a partial patch. A nil field means "leave
// unchanged"; JSON null decodes to nil and is treated the same way.
type UpdateWorkflowInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// Create validates and persists a new workflow. Un-scoped workflows
// (no organization) are permitted; status defaults to draft.
func (s *WorkflowService) Create(ctx context.Context, in CreateWorkflowInput, actorID string) (*models.Workflow, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, invalidf("workflow title is required")
	}

	status := models.WorkflowStatus(in.Status)
	if status == "" {
		status = models.WorkflowStatusDraft
	}

	wf := &models.Workflow{
		OrganizationID: in.OrganizationID,
		Title:          in.Title,
		Description:    in.Description,
		Status:         status,
		CreatedBy:      strPtr(actorID),
	}
	created, err := s.repo.CreateWorkflow(ctx, wf)
	if err != nil {
		return nil, storeFailure(err)
	}

	s.ledger.Record(ctx, models.ActivityLog{
		OrganizationID: created.OrganizationID,
		WorkflowID:     strPtr(created.ID),
		UserID:         strPtr(actorID),
		EntityType:     models.EntityWorkflow,
		EntityID:       created.ID,
		Action:         models.ActionCreated,
		Details:        fmt.Sprintf("Created workflow '%s'", created.Title),
	})
	return created, nil
}

// Get returns a workflow with its steps and step count, or NotFound.
func (s *WorkflowService) Get(ctx context.Context, id string) (*models.Workflow, error) {
	wf, err := s.repo.GetWorkflow(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	if wf == nil {
		return nil, notFound("workflow")
	}
	if err := s.project(ctx, wf); err != nil {
		return nil, storeFailure(err)
	}
	return wf, nil
}

// List returns workflows ordered by most recent update, each annotated
// with its steps and step count. The organization filter is lenient:
// anything that is not a well-formed identifier is ignored rather than
// rejected, so a malformed filter returns all workflows.
func (s *WorkflowService) List(ctx context.Context, orgFilter string) ([]*models.Workflow, error) {
	orgID := ""
	if trimmed := strings.TrimSpace(orgFilter); trimmed != "" {
		if _, err := uuid.Parse(trimmed); err == nil {
			orgID = trimmed
		}
	}

	workflows, err := s.repo.ListWorkflows(ctx, orgID)
	if err != nil {
		return nil, storeFailure(err)
	}
	for _, wf := range workflows {
		if err := s.project(ctx, wf); err != nil {
			return nil, storeFailure(err)
		}
	}
	return workflows, nil
}

// Update applies a partial patch, refreshes updated_at, and records the
// mutation.
func (s *WorkflowService) Update(ctx context.Context, id string, in UpdateWorkflowInput, actorID string) (*models.Workflow, error) {
	patch := store.Row{"updated_at": nowISO()}
	if in.Title != nil {
		patch["title"] = *in.Title
	}
	if in.Description != nil {
		patch["description"] = *in.Description
	}
	if in.Status != nil {
		patch["status"] = *in.Status
	}

	updated, err := s.repo.UpdateWorkflow(ctx, id, patch)
	if err != nil {
		return nil, storeFailure(err)
	}
	if updated == nil {
		return nil, notFound("workflow")
	}

	s.ledger.Record(ctx, models.ActivityLog{
		OrganizationID: updated.OrganizationID,
		WorkflowID:     strPtr(id),
		UserID:         strPtr(actorID),
		EntityType:     models.EntityWorkflow,
		EntityID:       id,
		Action:         models.ActionUpdated,
		Details:        fmt.Sprintf("Updated workflow '%s'", updated.Title),
	})
	return updated, nil
}

// Delete cascades: comments, then steps, then the workflow itself. The
// store offers no transactions, so a failure after a partial delete is
// surfaced as a fatal inconsistency rather than silently retried. The
// title is captured beforehand so the audit entry survives the row.
func (s *WorkflowService) Delete(ctx context.Context, id string, actorID string) error {
	wf, err := s.repo.GetWorkflow(ctx, id)
	if err != nil {
		return storeFailure(err)
	}
	if wf == nil {
		return notFound("workflow")
	}

	if err := s.repo.DeleteCommentsByWorkflow(ctx, id); err != nil {
		return storeFailure(fmt.Errorf("cascade delete comments: %w", err))
	}
	if err := s.repo.DeleteStepsByWorkflow(ctx, id); err != nil {
		return storeFailure(fmt.Errorf("cascade delete left workflow %s without comments but with steps: %w", id, err))
	}
	if err := s.repo.DeleteWorkflow(ctx, id); err != nil {
		return storeFailure(fmt.Errorf("cascade delete removed children but not workflow %s: %w", id, err))
	}

	s.ledger.Record(ctx, models.ActivityLog{
		OrganizationID: wf.OrganizationID,
		UserID:         strPtr(actorID),
		EntityType:     models.EntityWorkflow,
		EntityID:       id,
		Action:         models.ActionDeleted,
		Details:        fmt.Sprintf("Deleted workflow '%s'", wf.Title),
	})
	return nil
}

// project annotates a workflow with its derived read-time fields.
func (s *WorkflowService) project(ctx context.Context, wf *models.Workflow) error {
	steps, err := s.repo.ListSteps(ctx, wf.ID)
	if err != nil {
		return err
	}
	count := len(steps)
	wf.Steps = steps
	wf.StepCount = &count
	return nil
}
