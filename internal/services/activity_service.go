package services

import (
	"context"

	"workflow-copilot/backend/internal/repository"
	"workflow-copilot/backend/pkg/models"
)

// ActivityService exposes the read side of the activity trail.
type ActivityService struct {
	repo *repository.Repository
}

// NewActivityService creates a new ActivityService.
func NewActivityService(repo *repository.Repository) *ActivityService {
	return &ActivityService{repo: repo}
}

// List returns activity entries newest-first with optional AND-combined
// filters. The workflow filter also matches entries where the workflow
// itself is the acted-upon entity.
func (s *ActivityService) List(ctx context.Context, orgID, workflowID, userID string) ([]*models.ActivityLog, error) {
	entries, err := s.repo.ListActivities(ctx, orgID, workflowID, userID)
	if err != nil {
		return nil, storeFailure(err)
	}
	return entries, nil
}
