package repository

import (
	"context"

	"workflow-copilot/backend/internal/store"
	"workflow-copilot/backend/pkg/models"
)

// InsertActivity appends one activity entry. Entries are immutable; the
// repository offers no update or delete for this table.
func (r *Repository) InsertActivity(ctx context.Context, entry *models.ActivityLog) error {
	row, err := encodeRow(entry)
	if err != nil {
		return err
	}
	_, err = r.store.Insert(ctx, tableActivityLogs, []store.Row{row})
	return err
}

// ListActivities returns activity entries newest-first. Filters are
// optional and AND-combined. The workflow filter matches entries scoped
// to the workflow as well as entries where the workflow itself is the
// acted-upon entity, so a deleted workflow's trail stays reachable.
func (r *Repository) ListActivities(ctx context.Context, orgID, workflowID, userID string) ([]*models.ActivityLog, error) {
	filters := map[string]string{}
	if orgID != "" {
		filters["organization_id"] = orgID
	}
	if userID != "" {
		filters["user_id"] = userID
	}
	rows, err := r.store.Select(ctx, tableActivityLogs, filters, "created_at.desc")
	if err != nil {
		return nil, err
	}
	var all []*models.ActivityLog
	if err := decodeRows(rows, &all); err != nil {
		return nil, err
	}
	if workflowID == "" {
		return all, nil
	}

	out := make([]*models.ActivityLog, 0, len(all))
	for _, a := range all {
		if (a.WorkflowID != nil && *a.WorkflowID == workflowID) || a.EntityID == workflowID {
			out = append(out, a)
		}
	}
	return out, nil
}
