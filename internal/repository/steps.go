package repository

import (
	"context"

	"workflow-copilot/backend/internal/store"
	"workflow-copilot/backend/pkg/models"
)

// CreateStep inserts a step and returns its post-write representation.
func (r *Repository) CreateStep(ctx context.Context, step *models.Step) (*models.Step, error) {
	row, err := encodeRow(step)
	if err != nil {
		return nil, err
	}
	rows, err := r.store.Insert(ctx, tableSteps, []store.Row{row})
	if err != nil {
		return nil, err
	}
	var created models.Step
	if ok, err := decodeFirst(rows, &created); err != nil || !ok {
		return nil, err
	}
	return &created, nil
}

// GetStep returns the step with the given id, or nil when absent.
func (r *Repository) GetStep(ctx context.Context, id string) (*models.Step, error) {
	rows, err := r.store.Select(ctx, tableSteps, idFilter(id), "")
	if err != nil {
		return nil, err
	}
	var step models.Step
	ok, err := decodeFirst(rows, &step)
	if err != nil || !ok {
		return nil, err
	}
	return &step, nil
}

// ListSteps returns a workflow's steps in ascending display order.
// Insertion order breaks ties.
func (r *Repository) ListSteps(ctx context.Context, workflowID string) ([]*models.Step, error) {
	filters := map[string]string{"workflow_id": workflowID}
	rows, err := r.store.Select(ctx, tableSteps, filters, "step_order.asc")
	if err != nil {
		return nil, err
	}
	var out []*models.Step
	if err := decodeRows(rows, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStep applies a patch to the step and returns the updated
// representation, or nil when absent.
func (r *Repository) UpdateStep(ctx context.Context, id string, patch store.Row) (*models.Step, error) {
	rows, err := r.store.Update(ctx, tableSteps, idFilter(id), patch)
	if err != nil {
		return nil, err
	}
	var step models.Step
	ok, err := decodeFirst(rows, &step)
	if err != nil || !ok {
		return nil, err
	}
	return &step, nil
}

// DeleteStep removes a single step.
func (r *Repository) DeleteStep(ctx context.Context, id string) error {
	return r.store.Delete(ctx, tableSteps, idFilter(id))
}

// DeleteStepsByWorkflow removes every step belonging to a workflow.
func (r *Repository) DeleteStepsByWorkflow(ctx context.Context, workflowID string) error {
	return r.store.Delete(ctx, tableSteps, map[string]string{"workflow_id": workflowID})
}
