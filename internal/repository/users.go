package repository

import (
	"context"

	"workflow-copilot/backend/internal/store"
	"workflow-copilot/backend/pkg/models"
)

// GetUser returns the user with the given id, or nil when absent.
func (r *Repository) GetUser(ctx context.Context, id string) (*models.User, error) {
	rows, err := r.store.Select(ctx, tableUsers, idFilter(id), "")
	if err != nil {
		return nil, err
	}
	var u models.User
	ok, err := decodeFirst(rows, &u)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a user row and returns its post-write
// representation. The id comes from the identity provider, not the store.
func (r *Repository) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	row, err := encodeRow(u)
	if err != nil {
		return nil, err
	}
	rows, err := r.store.Insert(ctx, tableUsers, []store.Row{row})
	if err != nil {
		return nil, err
	}
	var created models.User
	if ok, err := decodeFirst(rows, &created); err != nil || !ok {
		return nil, err
	}
	return &created, nil
}

// UpdateUser applies a patch to the user and returns the updated
// representation, or nil when absent.
func (r *Repository) UpdateUser(ctx context.Context, id string, patch store.Row) (*models.User, error) {
	rows, err := r.store.Update(ctx, tableUsers, idFilter(id), patch)
	if err != nil {
		return nil, err
	}
	var u models.User
	ok, err := decodeFirst(rows, &u)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}
