package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-copilot/backend/pkg/models"
)

func TestCreateOrganizationAutoEnrollsAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	org, err := env.orgs.Create(ctx, CreateOrganizationInput{Name: "Acme"}, "alice")
	require.NoError(t, err)

	members, err := env.orgs.Members(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "alice", members[0].UserID)
	assert.Equal(t, models.RoleAdmin, members[0].Role)
}

func TestCreateOrganizationRequiresName(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.orgs.Create(context.Background(), CreateOrganizationInput{Name: ""}, "alice")
	require.Error(t, err)
	assert.Equal(t, CodeInvalidInput, CodeOf(err))
}

func TestAddMemberDedupesNaturalKey(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	org, err := env.orgs.Create(ctx, CreateOrganizationInput{Name: "Acme"}, "alice")
	require.NoError(t, err)

	first, err := env.orgs.AddMember(ctx, org.ID, "bob", models.RoleMember)
	require.NoError(t, err)

	again, err := env.orgs.AddMember(ctx, org.ID, "bob", models.RoleAdmin)
	require.NoError(t, err)

	// The duplicate enrollment returns the existing membership unchanged.
	assert.Equal(t, first.Role, again.Role)

	members, err := env.orgs.Members(ctx, org.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestInviteEnrollsPlaceholderMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	org, err := env.orgs.Create(ctx, CreateOrganizationInput{Name: "Acme"}, "alice")
	require.NoError(t, err)

	member, err := env.orgs.Invite(ctx, org.ID, "bob@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "user-bob", member.UserID)
	assert.Equal(t, models.RoleMember, member.Role)

	// Re-inviting the same email does not add a second membership.
	_, err = env.orgs.Invite(ctx, org.ID, "bob@example.com", "")
	require.NoError(t, err)

	members, err := env.orgs.Members(ctx, org.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestInviteRequiresEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	org, err := env.orgs.Create(ctx, CreateOrganizationInput{Name: "Acme"}, "alice")
	require.NoError(t, err)

	_, err = env.orgs.Invite(ctx, org.ID, " ", "")
	require.Error(t, err)
	assert.Equal(t, CodeInvalidInput, CodeOf(err))
}

func TestListOrganizationsFiltersByMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.orgs.Create(ctx, CreateOrganizationInput{Name: "Alice Org"}, "alice")
	require.NoError(t, err)
	_, err = env.orgs.Create(ctx, CreateOrganizationInput{Name: "Bob Org"}, "bob")
	require.NoError(t, err)

	mine, err := env.orgs.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Alice Org", mine[0].Name)

	all, err := env.orgs.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOrganizationProjectionCounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	org, err := env.orgs.Create(ctx, CreateOrganizationInput{Name: "Acme"}, "alice")
	require.NoError(t, err)
	_, err = env.orgs.AddMember(ctx, org.ID, "bob", models.RoleMember)
	require.NoError(t, err)
	_, err = env.workflows.Create(ctx, CreateWorkflowInput{Title: "wf", OrganizationID: &org.ID}, "alice")
	require.NoError(t, err)

	got, err := env.orgs.Get(ctx, org.ID)
	require.NoError(t, err)
	require.NotNil(t, got.MemberCount)
	require.NotNil(t, got.WorkflowCount)
	assert.Equal(t, 2, *got.MemberCount)
	assert.Equal(t, 1, *got.WorkflowCount)
}

func TestMembersEnrichedFromUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.Upsert(ctx, "alice", UpsertUserInput{
		Email: strPtr("alice@example.com"),
		Name:  strPtr("Alice Smith"),
	})
	require.NoError(t, err)

	org, err := env.orgs.Create(ctx, CreateOrganizationInput{Name: "Acme"}, "alice")
	require.NoError(t, err)
	_, err = env.orgs.AddMember(ctx, org.ID, "ghost", models.RoleMember)
	require.NoError(t, err)

	members, err := env.orgs.Members(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)

	byUser := map[string]*models.OrgMember{}
	for _, m := range members {
		byUser[m.UserID] = m
	}
	assert.Equal(t, "Alice Smith", byUser["alice"].Name)
	assert.Equal(t, "alice@example.com", byUser["alice"].Email)
	// Unknown users get a placeholder display name, never an error.
	assert.Equal(t, "User", byUser["ghost"].Name)
}

func TestRemoveMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	org, err := env.orgs.Create(ctx, CreateOrganizationInput{Name: "Acme"}, "alice")
	require.NoError(t, err)
	_, err = env.orgs.AddMember(ctx, org.ID, "bob", models.RoleMember)
	require.NoError(t, err)

	require.NoError(t, env.orgs.RemoveMember(ctx, org.ID, "bob"))

	err = env.orgs.RemoveMember(ctx, org.ID, "bob")
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestUpdateMemberRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	org, err := env.orgs.Create(ctx, CreateOrganizationInput{Name: "Acme"}, "alice")
	require.NoError(t, err)
	_, err = env.orgs.AddMember(ctx, org.ID, "bob", models.RoleMember)
	require.NoError(t, err)

	updated, err := env.orgs.UpdateMemberRole(ctx, org.ID, "bob", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)

	_, err = env.orgs.UpdateMemberRole(ctx, org.ID, "nobody", models.RoleAdmin)
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}
