package repository

import (
	"context"

	"workflow-copilot/backend/internal/store"
	"workflow-copilot/backend/pkg/models"
)

func memberFilter(orgID, userID string) map[string]string {
	return map[string]string{"organization_id": orgID, "user_id": userID}
}

// AddMember inserts a membership row and returns its post-write
// representation.
func (r *Repository) AddMember(ctx context.Context, m *models.OrgMember) (*models.OrgMember, error) {
	row, err := encodeRow(m)
	if err != nil {
		return nil, err
	}
	// Drop enrichment-only fields before writing.
	delete(row, "name")
	delete(row, "email")

	rows, err := r.store.Insert(ctx, tableMembers, []store.Row{row})
	if err != nil {
		return nil, err
	}
	var created models.OrgMember
	if ok, err := decodeFirst(rows, &created); err != nil || !ok {
		return nil, err
	}
	return &created, nil
}

// GetMember returns the (organization, user) membership, or nil when
// absent.
func (r *Repository) GetMember(ctx context.Context, orgID, userID string) (*models.OrgMember, error) {
	rows, err := r.store.Select(ctx, tableMembers, memberFilter(orgID, userID), "")
	if err != nil {
		return nil, err
	}
	var m models.OrgMember
	ok, err := decodeFirst(rows, &m)
	if err != nil || !ok {
		return nil, err
	}
	return &m, nil
}

// ListMembers returns an organization's members, newest joiners first.
func (r *Repository) ListMembers(ctx context.Context, orgID string) ([]*models.OrgMember, error) {
	filters := map[string]string{"organization_id": orgID}
	rows, err := r.store.Select(ctx, tableMembers, filters, "joined_at.desc")
	if err != nil {
		return nil, err
	}
	var out []*models.OrgMember
	if err := decodeRows(rows, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListMemberships returns every membership a user holds.
func (r *Repository) ListMemberships(ctx context.Context, userID string) ([]*models.OrgMember, error) {
	filters := map[string]string{"user_id": userID}
	rows, err := r.store.Select(ctx, tableMembers, filters, "")
	if err != nil {
		return nil, err
	}
	var out []*models.OrgMember
	if err := decodeRows(rows, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveMember deletes the (organization, user) membership.
func (r *Repository) RemoveMember(ctx context.Context, orgID, userID string) error {
	return r.store.Delete(ctx, tableMembers, memberFilter(orgID, userID))
}

// UpdateMemberRole changes a member's role and returns the updated
// membership, or nil when the pair is absent.
func (r *Repository) UpdateMemberRole(ctx context.Context, orgID, userID, role string) (*models.OrgMember, error) {
	rows, err := r.store.Update(ctx, tableMembers, memberFilter(orgID, userID), store.Row{"role": role})
	if err != nil {
		return nil, err
	}
	var m models.OrgMember
	ok, err := decodeFirst(rows, &m)
	if err != nil || !ok {
		return nil, err
	}
	return &m, nil
}
