package repository

import (
	"context"

	"workflow-copilot/backend/internal/store"
	"workflow-copilot/backend/pkg/models"
)

// CreateOrganization inserts an organization and returns its post-write
// representation.
func (r *Repository) CreateOrganization(ctx context.Context, org *models.Organization) (*models.Organization, error) {
	row, err := encodeRow(org)
	if err != nil {
		return nil, err
	}
	rows, err := r.store.Insert(ctx, tableOrganizations, []store.Row{row})
	if err != nil {
		return nil, err
	}
	var created models.Organization
	if ok, err := decodeFirst(rows, &created); err != nil || !ok {
		return nil, err
	}
	return &created, nil
}

// GetOrganization returns the organization with the given id, or nil
// when absent.
func (r *Repository) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	rows, err := r.store.Select(ctx, tableOrganizations, idFilter(id), "")
	if err != nil {
		return nil, err
	}
	var org models.Organization
	ok, err := decodeFirst(rows, &org)
	if err != nil || !ok {
		return nil, err
	}
	return &org, nil
}

// ListOrganizations returns all organizations newest-first.
func (r *Repository) ListOrganizations(ctx context.Context) ([]*models.Organization, error) {
	rows, err := r.store.Select(ctx, tableOrganizations, nil, "created_at.desc")
	if err != nil {
		return nil, err
	}
	var out []*models.Organization
	if err := decodeRows(rows, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateOrganization applies a patch to the organization and returns the
// updated representation, or nil when absent.
func (r *Repository) UpdateOrganization(ctx context.Context, id string, patch store.Row) (*models.Organization, error) {
	rows, err := r.store.Update(ctx, tableOrganizations, idFilter(id), patch)
	if err != nil {
		return nil, err
	}
	var org models.Organization
	ok, err := decodeFirst(rows, &org)
	if err != nil || !ok {
		return nil, err
	}
	return &org, nil
}
