package repository

import (
	"context"

	"workflow-copilot/backend/internal/store"
	"workflow-copilot/backend/pkg/models"
)

// CreateWorkflow inserts a workflow and returns its post-write
// representation.
func (r *Repository) CreateWorkflow(ctx context.Context, wf *models.Workflow) (*models.Workflow, error) {
	row, err := encodeRow(wf)
	if err != nil {
		return nil, err
	}
	rows, err := r.store.Insert(ctx, tableWorkflows, []store.Row{row})
	if err != nil {
		return nil, err
	}
	var created models.Workflow
	if ok, err := decodeFirst(rows, &created); err != nil || !ok {
		return nil, err
	}
	return &created, nil
}

// GetWorkflow returns the workflow with the given id, or nil when absent.
func (r *Repository) GetWorkflow(ctx context.Context, id string) (*models.Workflow, error) {
	rows, err := r.store.Select(ctx, tableWorkflows, idFilter(id), "")
	if err != nil {
		return nil, err
	}
	var wf models.Workflow
	ok, err := decodeFirst(rows, &wf)
	if err != nil || !ok {
		return nil, err
	}
	return &wf, nil
}

// ListWorkflows returns workflows ordered by most recent update, scoped
// to an organization when orgID is non-empty.
func (r *Repository) ListWorkflows(ctx context.Context, orgID string) ([]*models.Workflow, error) {
	filters := map[string]string{}
	if orgID != "" {
		filters["organization_id"] = orgID
	}
	rows, err := r.store.Select(ctx, tableWorkflows, filters, "updated_at.desc")
	if err != nil {
		return nil, err
	}
	var out []*models.Workflow
	if err := decodeRows(rows, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateWorkflow applies a patch to the workflow and returns the updated
// representation, or nil when absent.
func (r *Repository) UpdateWorkflow(ctx context.Context, id string, patch store.Row) (*models.Workflow, error) {
	rows, err := r.store.Update(ctx, tableWorkflows, idFilter(id), patch)
	if err != nil {
		return nil, err
	}
	var wf models.Workflow
	ok, err := decodeFirst(rows, &wf)
	if err != nil || !ok {
		return nil, err
	}
	return &wf, nil
}

// DeleteWorkflow removes the workflow row itself. Cascading of steps and
// comments is the orchestrator's job.
func (r *Repository) DeleteWorkflow(ctx context.Context, id string) error {
	return r.store.Delete(ctx, tableWorkflows, idFilter(id))
}
