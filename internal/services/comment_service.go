package services

import (
	"context"
	"strings"

	"workflow-copilot/backend/internal/ledger"
	"workflow-copilot/backend/internal/repository"
	"workflow-copilot/backend/internal/store"
	"workflow-copilot/backend/pkg/models"
)

// CommentService orchestrates comment mutations. Only a comment's author
// may update or delete it.
type CommentService struct {
	repo   *repository.Repository
	ledger *ledger.Ledger
}

// NewCommentService creates a new CommentService.
func NewCommentService(repo *repository.Repository, l *ledger.Ledger) *CommentService {
	return &CommentService{repo: repo, ledger: l}
}

// CreateCommentInput carries the caller-supplied fields for a new
// comment. At least one of WorkflowID/StepID associates the comment with
// its context.
type CreateCommentInput struct {
	WorkflowID *string `json:"workflow_id"`
	StepID     *string `json:"step_id"`
	Content    string  `json:"content"`
}

// Create validates and persists a new comment. A referenced workflow
// must exist.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput, actorID string) (*models.Comment, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, invalidf("comment content is required")
	}

	var orgID *string
	if in.WorkflowID != nil && *in.WorkflowID != "" {
		wf, err := s.repo.GetWorkflow(ctx, *in.WorkflowID)
		if err != nil {
			return nil, storeFailure(err)
		}
		if wf == nil {
			return nil, notFound("workflow")
		}
		orgID = wf.OrganizationID
	}

	comment := &models.Comment{
		WorkflowID: in.WorkflowID,
		StepID:     in.StepID,
		CreatedBy:  strPtr(actorID),
		Content:    in.Content,
	}
	created, err := s.repo.CreateComment(ctx, comment)
	if err != nil {
		return nil, storeFailure(err)
	}

	s.ledger.Record(ctx, models.ActivityLog{
		OrganizationID: orgID,
		WorkflowID:     in.WorkflowID,
		UserID:         strPtr(actorID),
		EntityType:     models.EntityComment,
		EntityID:       created.ID,
		Action:         models.ActionCreated,
		Details:        "Added a comment",
	})
	return created, nil
}

// List returns comments newest-first, with both filters optional and
// AND-combined.
func (s *CommentService) List(ctx context.Context, workflowID, stepID string) ([]*models.Comment, error) {
	comments, err := s.repo.ListComments(ctx, workflowID, stepID)
	if err != nil {
		return nil, storeFailure(err)
	}
	return comments, nil
}

// Update rewrites a comment's content. Fails Forbidden unless the actor
// is the author.
func (s *CommentService) Update(ctx context.Context, id, content, actorID string) (*models.Comment, error) {
	existing, err := s.repo.GetComment(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	if existing == nil {
		return nil, notFound("comment")
	}
	if existing.CreatedBy == nil || *existing.CreatedBy != actorID {
		return nil, forbidden("not authorized to update this comment")
	}

	patch := store.Row{"content": content, "updated_at": nowISO()}
	updated, err := s.repo.UpdateComment(ctx, id, patch)
	if err != nil {
		return nil, storeFailure(err)
	}
	if updated == nil {
		return nil, notFound("comment")
	}

	s.ledger.Record(ctx, models.ActivityLog{
		WorkflowID: updated.WorkflowID,
		UserID:     strPtr(actorID),
		EntityType: models.EntityComment,
		EntityID:   id,
		Action:     models.ActionUpdated,
		Details:    "Updated a comment",
	})
	return updated, nil
}

// Delete removes a comment. Fails Forbidden unless the actor is the
// author.
func (s *CommentService) Delete(ctx context.Context, id, actorID string) error {
	existing, err := s.repo.GetComment(ctx, id)
	if err != nil {
		return storeFailure(err)
	}
	if existing == nil {
		return notFound("comment")
	}
	if existing.CreatedBy == nil || *existing.CreatedBy != actorID {
		return forbidden("not authorized to delete this comment")
	}

	if err := s.repo.DeleteComment(ctx, id); err != nil {
		return storeFailure(err)
	}

	s.ledger.Record(ctx, models.ActivityLog{
		WorkflowID: existing.WorkflowID,
		UserID:     strPtr(actorID),
		EntityType: models.EntityComment,
		EntityID:   id,
		Action:     models.ActionDeleted,
		Details:    "Deleted a comment",
	})
	return nil
}
