package services

import (
	"context"

	"workflow-copilot/backend/internal/repository"
	"workflow-copilot/backend/internal/store"
	"workflow-copilot/backend/pkg/models"
)

// UserService manages user profiles. Users are created implicitly, on
// first sight of a principal at the auth boundary or through a profile
// update.
type UserService struct {
	repo *repository.Repository
}

// NewUserService creates a new UserService.
func NewUserService(repo *repository.Repository) *UserService {
	return &UserService{repo: repo}
}

// UpsertUserInput carries profile fields; nil means "leave unchanged"
// for an existing user.
type UpsertUserInput struct {
	Email     *string `json:"email"`
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatar_url"`
	Phone     *string `json:"phone"`
}

// Get returns a user by id, or NotFound.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	if user == nil {
		return nil, notFound("user")
	}
	return user, nil
}

// Ensure provisions a user row on first sight of a principal. An
// existing row is returned untouched.
func (s *UserService) Ensure(ctx context.Context, id, email string) (*models.User, error) {
	existing, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	if existing != nil {
		return existing, nil
	}
	created, err := s.repo.CreateUser(ctx, &models.User{ID: id, Email: email})
	if err != nil {
		return nil, storeFailure(err)
	}
	return created, nil
}

// Upsert creates the user on first sight or patches the present fields
// of an existing one.
func (s *UserService) Upsert(ctx context.Context, id string, in UpsertUserInput) (*models.User, error) {
	existing, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}

	if existing == nil {
		user := &models.User{
			ID:        id,
			AvatarURL: in.AvatarURL,
			Phone:     in.Phone,
		}
		if in.Email != nil {
			user.Email = *in.Email
		}
		if in.Name != nil {
			user.Name = *in.Name
		}
		created, err := s.repo.CreateUser(ctx, user)
		if err != nil {
			return nil, storeFailure(err)
		}
		return created, nil
	}

	patch := store.Row{"updated_at": nowISO()}
	if in.Email != nil {
		patch["email"] = *in.Email
	}
	if in.Name != nil {
		patch["name"] = *in.Name
	}
	if in.AvatarURL != nil {
		patch["avatar_url"] = *in.AvatarURL
	}
	if in.Phone != nil {
		patch["phone"] = *in.Phone
	}

	updated, err := s.repo.UpdateUser(ctx, id, patch)
	if err != nil {
		return nil, storeFailure(err)
	}
	if updated == nil {
		return existing, nil
	}
	return updated, nil
}
