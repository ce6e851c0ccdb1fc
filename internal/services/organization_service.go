package services

import (
	"context"
	"strings"
	"time"

	"workflow-copilot/backend/internal/repository"
	"workflow-copilot/backend/internal/store"
	"workflow-copilot/backend/pkg/models"
)

// OrganizationService orchestrates organization and membership
// mutations and projections.
type OrganizationService struct {
	repo *repository.Repository
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(repo *repository.Repository) *OrganizationService {
	return &OrganizationService{repo: repo}
}

// CreateOrganizationInput carries the caller-supplied fields for a new
// organization.
type CreateOrganizationInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateOrganizationInput is a partial patch; nil means "leave
// unchanged".
type UpdateOrganizationInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Create persists a new organization and auto-enrolls the creator as an
// admin member.
func (s *OrganizationService) Create(ctx context.Context, in CreateOrganizationInput, ownerID string) (*models.Organization, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, invalidf("organization name is required")
	}

	org := &models.Organization{
		Name:        in.Name,
		Description: in.Description,
		CreatedBy:   strPtr(ownerID),
	}
	created, err := s.repo.CreateOrganization(ctx, org)
	if err != nil {
		return nil, storeFailure(err)
	}

	if ownerID != "" {
		if _, err := s.AddMember(ctx, created.ID, ownerID, models.RoleAdmin); err != nil {
			return nil, err
		}
	}
	return created, nil
}

// Get returns an organization annotated with its derived member and
// workflow counts, or NotFound.
func (s *OrganizationService) Get(ctx context.Context, id string) (*models.Organization, error) {
	org, err := s.repo.GetOrganization(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	if org == nil {
		return nil, notFound("organization")
	}
	if err := s.project(ctx, org); err != nil {
		return nil, storeFailure(err)
	}
	return org, nil
}

// List returns organizations, restricted to ones the given user is
// enrolled in when userID is non-empty. Each result carries its derived
// counts.
func (s *OrganizationService) List(ctx context.Context, userID string) ([]*models.Organization, error) {
	orgs, err := s.repo.ListOrganizations(ctx)
	if err != nil {
		return nil, storeFailure(err)
	}

	if userID != "" {
		memberships, err := s.repo.ListMemberships(ctx, userID)
		if err != nil {
			return nil, storeFailure(err)
		}
		enrolled := make(map[string]bool, len(memberships))
		for _, m := range memberships {
			enrolled[m.OrganizationID] = true
		}
		filtered := orgs[:0]
		for _, org := range orgs {
			if enrolled[org.ID] {
				filtered = append(filtered, org)
			}
		}
		orgs = filtered
	}

	for _, org := range orgs {
		if err := s.project(ctx, org); err != nil {
			return nil, storeFailure(err)
		}
	}
	return orgs, nil
}

// Update applies a partial patch and refreshes updated_at.
func (s *OrganizationService) Update(ctx context.Context, id string, in UpdateOrganizationInput) (*models.Organization, error) {
	patch := store.Row{"updated_at": nowISO()}
	if in.Name != nil {
		patch["name"] = *in.Name
	}
	if in.Description != nil {
		patch["description"] = *in.Description
	}

	updated, err := s.repo.UpdateOrganization(ctx, id, patch)
	if err != nil {
		return nil, storeFailure(err)
	}
	if updated == nil {
		return nil, notFound("organization")
	}
	return updated, nil
}

// Members returns an organization's members enriched with user display
// fields. A missing user record yields placeholder fields, never an
// error.
func (s *OrganizationService) Members(ctx context.Context, orgID string) ([]*models.OrgMember, error) {
	org, err := s.repo.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, storeFailure(err)
	}
	if org == nil {
		return nil, notFound("organization")
	}

	members, err := s.repo.ListMembers(ctx, orgID)
	if err != nil {
		return nil, storeFailure(err)
	}
	for _, m := range members {
		user, err := s.repo.GetUser(ctx, m.UserID)
		if err != nil {
			return nil, storeFailure(err)
		}
		if user != nil {
			m.Name = user.Name
			m.Email = user.Email
		}
		if m.Name == "" {
			m.Name = "User"
		}
	}
	return members, nil
}

// AddMember enrolls a user. The (organization, user) natural key is
// enforced here: a duplicate invite returns the existing membership
// unchanged.
func (s *OrganizationService) AddMember(ctx context.Context, orgID, userID, role string) (*models.OrgMember, error) {
	if role == "" {
		role = models.RoleMember
	}

	existing, err := s.repo.GetMember(ctx, orgID, userID)
	if err != nil {
		return nil, storeFailure(err)
	}
	if existing != nil {
		return existing, nil
	}

	member := &models.OrgMember{
		OrganizationID: orgID,
		UserID:         userID,
		Role:           role,
		JoinedAt:       time.Now().UTC(),
	}
	created, err := s.repo.AddMember(ctx, member)
	if err != nil {
		return nil, storeFailure(err)
	}
	return created, nil
}

// Invite adds a member by email. There is no mail delivery; the invitee
// is enrolled directly under a placeholder id derived from the email
// local part.
func (s *OrganizationService) Invite(ctx context.Context, orgID, email, role string) (*models.OrgMember, error) {
	if strings.TrimSpace(email) == "" {
		return nil, invalidf("email is required")
	}
	org, err := s.repo.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, storeFailure(err)
	}
	if org == nil {
		return nil, notFound("organization")
	}

	local, _, _ := strings.Cut(email, "@")
	return s.AddMember(ctx, orgID, "user-"+local, role)
}

// RemoveMember drops the (organization, user) membership, or NotFound
// when the pair is absent.
func (s *OrganizationService) RemoveMember(ctx context.Context, orgID, userID string) error {
	existing, err := s.repo.GetMember(ctx, orgID, userID)
	if err != nil {
		return storeFailure(err)
	}
	if existing == nil {
		return notFound("member")
	}
	if err := s.repo.RemoveMember(ctx, orgID, userID); err != nil {
		return storeFailure(err)
	}
	return nil
}

// UpdateMemberRole changes a member's role, or NotFound when the pair is
// absent.
func (s *OrganizationService) UpdateMemberRole(ctx context.Context, orgID, userID, role string) (*models.OrgMember, error) {
	if strings.TrimSpace(role) == "" {
		return nil, invalidf("role is required")
	}
	updated, err := s.repo.UpdateMemberRole(ctx, orgID, userID, role)
	if err != nil {
		return nil, storeFailure(err)
	}
	if updated == nil {
		return nil, notFound("member")
	}
	return updated, nil
}

// project annotates an organization with its derived read-time counts.
func (s *OrganizationService) project(ctx context.Context, org *models.Organization) error {
	members, err := s.repo.ListMembers(ctx, org.ID)
	if err != nil {
		return err
	}
	workflows, err := s.repo.ListWorkflows(ctx, org.ID)
	if err != nil {
		return err
	}
	memberCount := len(members)
	workflowCount := len(workflows)
	org.MemberCount = &memberCount
	org.WorkflowCount = &workflowCount
	return nil
}
