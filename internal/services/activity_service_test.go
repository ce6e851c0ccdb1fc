package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-copilot/backend/pkg/models"
)

func TestListActivitiesNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	wf, err := env.workflows.Create(ctx, CreateWorkflowInput{Title: "wf"}, "alice")
	require.NoError(t, err)
	title := "wf v2"
	_, err = env.workflows.Update(ctx, wf.ID, UpdateWorkflowInput{Title: &title}, "alice")
	require.NoError(t, err)

	entries, err := env.activities.List(ctx, "", "", "")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.ActionUpdated, entries[0].Action)
	assert.Equal(t, models.ActionCreated, entries[1].Action)
}

func TestWorkflowFilterMatchesEntityID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	wf, err := env.workflows.Create(ctx, CreateWorkflowInput{Title: "wf"}, "alice")
	require.NoError(t, err)
	_, err = env.steps.Create(ctx, CreateStepInput{WorkflowID: wf.ID, Title: "s"}, "alice")
	require.NoError(t, err)

	other, err := env.workflows.Create(ctx, CreateWorkflowInput{Title: "other"}, "alice")
	require.NoError(t, err)

	// The deletion entry has no workflow_id link, only the entity id.
	require.NoError(t, env.workflows.Delete(ctx, wf.ID, "alice"))

	entries, err := env.activities.List(ctx, "", wf.ID, "")
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	for _, e := range entries {
		assert.NotEqual(t, other.ID, e.EntityID)
	}
}

func TestUserFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.workflows.Create(ctx, CreateWorkflowInput{Title: "a"}, "alice")
	require.NoError(t, err)
	_, err = env.workflows.Create(ctx, CreateWorkflowInput{Title: "b"}, "bob")
	require.NoError(t, err)

	entries, err := env.activities.List(ctx, "", "", "bob")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Created workflow 'b'", entries[0].Details)
}

func TestOrganizationFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	org, err := env.orgs.Create(ctx, CreateOrganizationInput{Name: "Acme"}, "alice")
	require.NoError(t, err)

	_, err = env.workflows.Create(ctx, CreateWorkflowInput{Title: "scoped", OrganizationID: &org.ID}, "alice")
	require.NoError(t, err)
	_, err = env.workflows.Create(ctx, CreateWorkflowInput{Title: "unscoped"}, "alice")
	require.NoError(t, err)

	entries, err := env.activities.List(ctx, org.ID, "", "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Created workflow 'scoped'", entries[0].Details)
}
