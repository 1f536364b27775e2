package services

import (
	"context"
	"errors"
	"strings"

	"github.com/P3chys/studyshare-api/internal/apperrors"
	"github.com/P3chys/studyshare-api/internal/models"
	"github.com/P3chys/studyshare-api/internal/repository"
	"github.com/P3chys/studyshare-api/internal/utils"
)

type RegisterInput struct {
	Name     string `json:"name" binding:"required" validate:"required,max=100"`
	Email    string `json:"email" binding:"required,email" validate:"required,email"`
	Password string `json:"password" binding:"required,min=8" validate:"required,min=8"`
	Branch   string `json:"branch" binding:"required" validate:"required,branch"`
	Semester int    `json:"semester" binding:"required" validate:"required,min=1,max=8"`
}

// Authenticate checks the credentials against the user store. The role
// always comes from the stored account.
func (s *DataService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		s.observe("authenticate", apperrors.ErrInvalidCredentials)
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.observe("authenticate", apperrors.ErrInvalidCredentials)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, internalError(err, "failed to load user")
	}
	if !utils.VerifyPassword(user.PasswordHash, password) {
		s.observe("authenticate", apperrors.ErrInvalidCredentials)
		return nil, apperrors.ErrInvalidCredentials
	}

	s.observe("authenticate", nil)
	return user, nil
}

// Register creates a student account.
func (s *DataService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err, "registration")
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.Clone(apperrors.ErrConflict, "email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, internalError(err, "failed to check email uniqueness")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, internalError(err, "failed to hash password")
	}

	user := models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		PasswordHash: hash,
		Role:         models.RoleStudent,
		Branch:       in.Branch,
		Semester:     in.Semester,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, internalError(err, "failed to create user")
	}
	s.observe("register", nil)
	return &user, nil
}

func (s *DataService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Clone(apperrors.ErrNotFound, "user not found")
		}
		return nil, internalError(err, "failed to load user")
	}
	return user, nil
}

func (s *DataService) ListUsers(ctx context.Context) ([]models.User, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list users")
	}
	return users, nil
}

// DeleteUser removes a student account. Admin accounts can never be
// deleted; unknown ids are ignored.
func (s *DataService) DeleteUser(ctx context.Context, actor *models.User, id string) error {
	err := s.deleteUser(ctx, actor, id)
	s.observe("delete_user", err)
	return err
}

func (s *DataService) deleteUser(ctx context.Context, actor *models.User, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	user, err := s.users.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return internalError(err, "failed to load user")
	}
	if user.IsAdmin() {
		return apperrors.Clone(apperrors.ErrForbidden, "admin accounts cannot be deleted")
	}

	if _, err := s.users.Delete(ctx, id); err != nil {
		return internalError(err, "failed to delete user")
	}

	s.recordActivity(ctx, models.Activity{
		UserID:       actorID(actor),
		ActivityType: models.ActivityUserDeleted,
		Summary:      user.Email,
	})
	return nil
}
