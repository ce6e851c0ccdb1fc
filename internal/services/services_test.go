package services

import (
	"context"
	"testing"

	"workflow-copilot/backend/internal/ledger"
	"workflow-copilot/backend/internal/logging"
	"workflow-copilot/backend/internal/repository"
	"workflow-copilot/backend/internal/store"
	"workflow-copilot/backend/pkg/models"
)

// testEnv wires the full service stack over the in-memory store.
type testEnv struct {
	repo       *repository.Repository
	workflows  *WorkflowService
	steps      *StepService
	comments   *CommentService
	orgs       *OrganizationService
	users      *UserService
	activities *ActivityService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := repository.New(store.NewMemory())
	l := ledger.New(repo, logging.NewLogger())

	return &testEnv{
		repo:       repo,
		workflows:  NewWorkflowService(repo, l),
		steps:      NewStepService(repo, l),
		comments:   NewCommentService(repo, l),
		orgs:       NewOrganizationService(repo),
		users:      NewUserService(repo),
		activities: NewActivityService(repo),
	}
}

func (e *testEnv) activityLog(t *testing.T) []*models.ActivityLog {
	t.Helper()
	entries, err := e.activities.List(context.Background(), "", "", "")
	if err != nil {
		t.Fatalf("failed to list activities: %v", err)
	}
	return entries
}
