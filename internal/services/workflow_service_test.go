package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-copilot/backend/pkg/models"
)

func TestCreateWorkflowDefaultsToDraft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	wf, err := env.workflows.Create(ctx, CreateWorkflowInput{Title: "Onboarding"}, "alice")
	require.NoError(t, err)

	assert.NotEmpty(t, wf.ID)
	assert.Equal(t, models.WorkflowStatusDraft, wf.Status)
	require.NotNil(t, wf.CreatedBy)
	assert.Equal(t, "alice", *wf.CreatedBy)

	entries := env.activityLog(t)
	require.Len(t, entries, 1)
	assert.Equal(t, models.EntityWorkflow, entries[0].EntityType)
	assert.Equal(t, models.ActionCreated, entries[0].Action)
	assert.Equal(t, "Created workflow 'Onboarding'", entries[0].Details)
}

func TestCreateWorkflowRequiresTitle(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.workflows.Create(context.Background(), CreateWorkflowInput{Title: "   "}, "alice")
	require.Error(t, err)
	assert.Equal(t, CodeInvalidInput, CodeOf(err))

	// A rejected mutation must leave no audit trace.
	assert.Empty(t, env.activityLog(t))
}

func TestGetWorkflowProjectsSteps(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	wf, err := env.workflows.Create(ctx, CreateWorkflowInput{Title: "Release"}, "alice")
	require.NoError(t, err)

	_, err = env.steps.Create(ctx, CreateStepInput{WorkflowID: wf.ID, Title: "Tag"}, "alice")
	require.NoError(t, err)
	_, err = env.steps.Create(ctx, CreateStepInput{WorkflowID: wf.ID, Title: "Ship"}, "alice")
	require.NoError(t, err)

	got, err := env.workflows.Get(ctx, wf.ID)
	require.NoError(t, err)
	require.NotNil(t, got.StepCount)
	assert.Equal(t, 2, *got.StepCount)
	require.Len(t, got.Steps, 2)
	assert.Equal(t, "Tag", got.Steps[0].Title)
	assert.Equal(t, "Ship", got.Steps[1].Title)
}

func TestGetWorkflowNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.workflows.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestListWorkflowsMalformedOrgFilterReturnsAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.workflows.Create(ctx, CreateWorkflowInput{Title: "A"}, "alice")
	require.NoError(t, err)
	_, err = env.workflows.Create(ctx, CreateWorkflowInput{Title: "B"}, "alice")
	require.NoError(t, err)

	got, err := env.workflows.List(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestListWorkflowsFiltersByOrganization(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	org, err := env.orgs.Create(ctx, CreateOrganizationInput{Name: "Acme"}, "alice")
	require.NoError(t, err)

	_, err = env.workflows.Create(ctx, CreateWorkflowInput{Title: "Scoped", OrganizationID: &org.ID}, "alice")
	require.NoError(t, err)
	_, err = env.workflows.Create(ctx, CreateWorkflowInput{Title: "Unscoped"}, "alice")
	require.NoError(t, err)

	got, err := env.workflows.List(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Scoped", got[0].Title)
}

func TestUpdateWorkflowPatchesOnlyProvidedFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	wf, err := env.workflows.Create(ctx, CreateWorkflowInput{Title: "Before", Description: "keep me"}, "alice")
	require.NoError(t, err)

	title := "After"
	updated, err := env.workflows.Update(ctx, wf.ID, UpdateWorkflowInput{Title: &title}, "alice")
	require.NoError(t, err)

	assert.Equal(t, "After", updated.Title)
	assert.Equal(t, "keep me", updated.Description)
	assert.Equal(t, models.WorkflowStatusDraft, updated.Status)
}

func TestUpdateWorkflowNotFound(t *testing.T) {
	env := newTestEnv(t)

	title := "x"
	_, err := env.workflows.Update(context.Background(), "missing", UpdateWorkflowInput{Title: &title}, "alice")
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestDeleteWorkflowCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	wf, err := env.workflows.Create(ctx, CreateWorkflowInput{Title: "Doomed"}, "alice")
	require.NoError(t, err)
	step, err := env.steps.Create(ctx, CreateStepInput{WorkflowID: wf.ID, Title: "Step"}, "alice")
	require.NoError(t, err)
	_, err = env.comments.Create(ctx, CreateCommentInput{WorkflowID: &wf.ID, StepID: &step.ID, Content: "note"}, "alice")
	require.NoError(t, err)

	require.NoError(t, env.workflows.Delete(ctx, wf.ID, "alice"))

	_, err = env.workflows.Get(ctx, wf.ID)
	assert.Equal(t, CodeNotFound, CodeOf(err))

	steps, err := env.steps.List(ctx, wf.ID)
	require.NoError(t, err)
	assert.Empty(t, steps)

	comments, err := env.comments.List(ctx, wf.ID, "")
	require.NoError(t, err)
	assert.Empty(t, comments)

	// The audit entry survives the row it describes.
	var found bool
	for _, e := range env.activityLog(t) {
		if e.Action == models.ActionDeleted && e.EntityType == models.EntityWorkflow && e.EntityID == wf.ID {
			found = true
			assert.Equal(t, "Deleted workflow 'Doomed'", e.Details)
		}
	}
	assert.True(t, found, "expected a deletion entry for the workflow")
}

func TestDeleteWorkflowNotFound(t *testing.T) {
	env := newTestEnv(t)

	err := env.workflows.Delete(context.Background(), "missing", "alice")
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestEveryMutationRecordsExactlyOneEntry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	wf, err := env.workflows.Create(ctx, CreateWorkflowInput{Title: "Audit"}, "alice")
	require.NoError(t, err)
	assert.Len(t, env.activityLog(t), 1)

	title := "Audit v2"
	_, err = env.workflows.Update(ctx, wf.ID, UpdateWorkflowInput{Title: &title}, "alice")
	require.NoError(t, err)
	assert.Len(t, env.activityLog(t), 2)

	step, err := env.steps.Create(ctx, CreateStepInput{WorkflowID: wf.ID, Title: "One"}, "alice")
	require.NoError(t, err)
	assert.Len(t, env.activityLog(t), 3)

	_, err = env.steps.SetStatus(ctx, step.ID, models.StepStatusCompleted, "bob")
	require.NoError(t, err)
	assert.Len(t, env.activityLog(t), 4)

	comment, err := env.comments.Create(ctx, CreateCommentInput{WorkflowID: &wf.ID, Content: "hi"}, "alice")
	require.NoError(t, err)
	assert.Len(t, env.activityLog(t), 5)

	require.NoError(t, env.comments.Delete(ctx, comment.ID, "alice"))
	assert.Len(t, env.activityLog(t), 6)

	require.NoError(t, env.workflows.Delete(ctx, wf.ID, "alice"))
	assert.Len(t, env.activityLog(t), 7)
}
