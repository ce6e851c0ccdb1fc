package repository

import (
	"context"

	"workflow-copilot/backend/internal/store"
	"workflow-copilot/backend/pkg/models"
)

// CreateComment inserts a comment and returns its post-write
// representation.
func (r *Repository) CreateComment(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	row, err := encodeRow(c)
	if err != nil {
		return nil, err
	}
	rows, err := r.store.Insert(ctx, tableComments, []store.Row{row})
	if err != nil {
		return nil, err
	}
	var created models.Comment
	if ok, err := decodeFirst(rows, &created); err != nil || !ok {
		return nil, err
	}
	return &created, nil
}

// GetComment returns the comment with the given id, or nil when absent.
func (r *Repository) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	rows, err := r.store.Select(ctx, tableComments, idFilter(id), "")
	if err != nil {
		return nil, err
	}
	var c models.Comment
	ok, err := decodeFirst(rows, &c)
	if err != nil || !ok {
		return nil, err
	}
	return &c, nil
}

// ListComments returns comments newest-first. Both filters are optional
// and AND-combined.
func (r *Repository) ListComments(ctx context.Context, workflowID, stepID string) ([]*models.Comment, error) {
	filters := map[string]string{}
	if workflowID != "" {
		filters["workflow_id"] = workflowID
	}
	if stepID != "" {
		filters["step_id"] = stepID
	}
	rows, err := r.store.Select(ctx, tableComments, filters, "created_at.desc")
	if err != nil {
		return nil, err
	}
	var out []*models.Comment
	if err := decodeRows(rows, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateComment applies a patch to the comment and returns the updated
// representation, or nil when absent.
func (r *Repository) UpdateComment(ctx context.Context, id string, patch store.Row) (*models.Comment, error) {
	rows, err := r.store.Update(ctx, tableComments, idFilter(id), patch)
	if err != nil {
		return nil, err
	}
	var c models.Comment
	ok, err := decodeFirst(rows, &c)
	if err != nil || !ok {
		return nil, err
	}
	return &c, nil
}

// DeleteComment removes a single comment.
func (r *Repository) DeleteComment(ctx context.Context, id string) error {
	return r.store.Delete(ctx, tableComments, idFilter(id))
}

// DeleteCommentsByWorkflow removes every comment attached to a workflow.
func (r *Repository) DeleteCommentsByWorkflow(ctx context.Context, workflowID string) error {
	return r.store.Delete(ctx, tableComments, map[string]string{"workflow_id": workflowID})
}
