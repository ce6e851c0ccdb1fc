// Package repository provides typed entity CRUD over the row store.
// An absent entity is a nil result, not an error; store failures are the
// only error condition.
package repository

import (
	"encoding/json"
	"fmt"

	"workflow-copilot/backend/internal/store"
)

// Logical table names shared by every store backend.
const (
	tableOrganizations = "organizations"
	tableMembers       = "organization_members"
	tableWorkflows     = "workflows"
	tableSteps         = "workflow_steps"
	tableComments      = "comments"
	tableActivityLogs  = "activity_logs"
	tableUsers         = "users"
)

// Repository is the typed entity store.
type Repository struct {
	store store.Store
}

// New creates a Repository over the given row store.
func New(s store.Store) *Repository {
	return &Repository{store: s}
}

// encodeRow converts a model to its wire row via its JSON representation.
func encodeRow(v any) (store.Row, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	var row store.Row
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	return row, nil
}

// decodeRows converts wire rows into a slice of models. dst must be a
// pointer to a slice.
func decodeRows(rows []store.Row, dst any) error {
	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("decode rows: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode rows: %w", err)
	}
	return nil
}

// decodeFirst converts the first wire row into dst, reporting whether a
// row was present at all.
func decodeFirst(rows []store.Row, dst any) (bool, error) {
	if len(rows) == 0 {
		return false, nil
	}
	raw, err := json.Marshal(rows[0])
	if err != nil {
		return false, fmt.Errorf("decode row: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode row: %w", err)
	}
	return true, nil
}

func idFilter(id string) map[string]string {
	return map[string]string{"id": id}
}
