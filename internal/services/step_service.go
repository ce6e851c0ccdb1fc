package services

import (
	"context"
	"fmt"
	"strings"

	"workflow-copilot/backend/internal/ledger"
	"workflow-copilot/backend/internal/repository"
	"workflow-copilot/backend/internal/store"
	"workflow-copilot/backend/pkg/models"
)

// StepService orchestrates step mutations and projections.
type StepService struct {
	repo   *repository.Repository
	ledger *ledger.Ledger
}

// NewStepService creates a new StepService.
func NewStepService(repo *repository.Repository, l *ledger.Ledger) *StepService {
	return &StepService{repo: repo, ledger: l}
}

// CreateStepInput carries the caller-supplied fields for a new step.
type CreateStepInput struct {
	WorkflowID  string  `json:"workflow_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	AssignedTo  *string `json:"assigned_to"`
	Role        *string `json:"role"`
	Order       *int    `json:"order"`
}

// UpdateStepInput is a partial patch; nil means "leave unchanged".
type UpdateStepInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	AssignedTo  *string `json:"assigned_to"`
	Order       *int    `json:"order"`
}

// Create validates and persists a new step. The referenced workflow must
// exist. When no order is supplied the step is appended: its order is
// the current step count for the workflow.
func (s *StepService) Create(ctx context.Context, in CreateStepInput, actorID string) (*models.Step, error) {
	if in.WorkflowID == "" {
		return nil, invalidf("workflow_id is required")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, invalidf("step title is required")
	}

	wf, err := s.repo.GetWorkflow(ctx, in.WorkflowID)
	if err != nil {
		return nil, storeFailure(err)
	}
	if wf == nil {
		return nil, notFound("workflow")
	}

	order := 0
	if in.Order != nil {
		order = *in.Order
	} else {
		existing, err := s.repo.ListSteps(ctx, in.WorkflowID)
		if err != nil {
			return nil, storeFailure(err)
		}
		order = len(existing)
	}

	status := models.StepStatus(in.Status)
	if status == "" {
		status = models.StepStatusPending
	}

	step := &models.Step{
		WorkflowID:  in.WorkflowID,
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		AssignedTo:  in.AssignedTo,
		Role:        in.Role,
		Order:       order,
	}
	created, err := s.repo.CreateStep(ctx, step)
	if err != nil {
		return nil, storeFailure(err)
	}

	s.ledger.Record(ctx, models.ActivityLog{
		OrganizationID: wf.OrganizationID,
		WorkflowID:     strPtr(in.WorkflowID),
		UserID:         strPtr(actorID),
		EntityType:     models.EntityStep,
		EntityID:       created.ID,
		Action:         models.ActionCreated,
		Details:        fmt.Sprintf("Added step '%s'", created.Title),
	})
	return created, nil
}

// Get returns a step by id, or NotFound.
func (s *StepService) Get(ctx context.Context, id string) (*models.Step, error) {
	step, err := s.repo.GetStep(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	if step == nil {
		return nil, notFound("step")
	}
	return step, nil
}

// List returns a workflow's steps in ascending display order.
func (s *StepService) List(ctx context.Context, workflowID string) ([]*models.Step, error) {
	steps, err := s.repo.ListSteps(ctx, workflowID)
	if err != nil {
		return nil, storeFailure(err)
	}
	return steps, nil
}

// Update applies a partial patch and refreshes updated_at.
func (s *StepService) Update(ctx context.Context, id string, in UpdateStepInput, actorID string) (*models.Step, error) {
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
	if in.AssignedTo != nil {
		patch["assigned_to"] = *in.AssignedTo
	}
	if in.Order != nil {
		patch["step_order"] = *in.Order
	}

	updated, err := s.repo.UpdateStep(ctx, id, patch)
	if err != nil {
		return nil, storeFailure(err)
	}
	if updated == nil {
		return nil, notFound("step")
	}

	s.ledger.Record(ctx, models.ActivityLog{
		OrganizationID: s.workflowOrg(ctx, updated.WorkflowID),
		WorkflowID:     strPtr(updated.WorkflowID),
		UserID:         strPtr(actorID),
		EntityType:     models.EntityStep,
		EntityID:       id,
		Action:         models.ActionUpdated,
		Details:        fmt.Sprintf("Updated step '%s'", updated.Title),
	})
	return updated, nil
}

// SetStatus is the dedicated lifecycle transition. Moving into completed
// stamps completed_at and completed_by once: a step already completed
// keeps its original completion record, and moving away from completed
// leaves both fields untouched, preserving history.
func (s *StepService) SetStatus(ctx context.Context, id string, status models.StepStatus, actorID string) (*models.Step, error) {
	step, err := s.repo.GetStep(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	if step == nil {
		return nil, notFound("step")
	}

	patch := store.Row{
		"status":     string(status),
		"updated_at": nowISO(),
	}
	if status == models.StepStatusCompleted && step.Status != models.StepStatusCompleted {
		patch["completed_at"] = nowISO()
		patch["completed_by"] = actorID
	}

	updated, err := s.repo.UpdateStep(ctx, id, patch)
	if err != nil {
		return nil, storeFailure(err)
	}
	if updated == nil {
		return nil, notFound("step")
	}

	action := models.ActionUpdated
	if status == models.StepStatusCompleted {
		action = models.ActionCompleted
	}
	s.ledger.Record(ctx, models.ActivityLog{
		OrganizationID: s.workflowOrg(ctx, updated.WorkflowID),
		WorkflowID:     strPtr(updated.WorkflowID),
		UserID:         strPtr(actorID),
		EntityType:     models.EntityStep,
		EntityID:       id,
		Action:         action,
		Details:        fmt.Sprintf("Step '%s' marked as %s", updated.Title, status),
	})
	return updated, nil
}

// Delete removes a step and records the deletion.
func (s *StepService) Delete(ctx context.Context, id string, actorID string) error {
	step, err := s.repo.GetStep(ctx, id)
	if err != nil {
		return storeFailure(err)
	}
	if step == nil {
		return notFound("step")
	}

	if err := s.repo.DeleteStep(ctx, id); err != nil {
		return storeFailure(err)
	}

	s.ledger.Record(ctx, models.ActivityLog{
		OrganizationID: s.workflowOrg(ctx, step.WorkflowID),
		WorkflowID:     strPtr(step.WorkflowID),
		UserID:         strPtr(actorID),
		EntityType:     models.EntityStep,
		EntityID:       id,
		Action:         models.ActionDeleted,
		Details:        fmt.Sprintf("Deleted step '%s'", step.Title),
	})
	return nil
}

// workflowOrg resolves the organization a step's workflow belongs to,
// best-effort for audit scoping only.
func (s *StepService) workflowOrg(ctx context.Context, workflowID string) *string {
	wf, err := s.repo.GetWorkflow(ctx, workflowID)
	if err != nil || wf == nil {
		return nil
	}
	return wf.OrganizationID
}
