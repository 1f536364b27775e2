package repository

import (
	"context"

	"github.com/P3chys/studyshare-api/internal/models"
)

var ErrNotFound = RepositoryError("not found")

// RepositoryError distinguishes repository failures from domain errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ResourceRepository owns the resource collection. List returns
// newest-created first.
type ResourceRepository interface {
	List(ctx context.Context) ([]models.Resource, error)
	Get(ctx context.Context, id string) (*models.Resource, error)
	Create(ctx context.Context, resource *models.Resource) error
	// Delete reports whether a record was removed.
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// RequestRepository owns the material request collection. List returns
// insertion order, newest first.
type RequestRepository interface {
	List(ctx context.Context) ([]models.MaterialRequest, error)
	Get(ctx context.Context, id string) (*models.MaterialRequest, error)
	Create(ctx context.Context, request *models.MaterialRequest) error
	Update(ctx context.Context, request *models.MaterialRequest) error
	Delete(ctx context.Context, id string) (bool, error)
	CountByStatus(ctx context.Context, status models.RequestStatus) (int, error)
}

type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	Recent(ctx context.Context, limit int) ([]models.Activity, error)
}

// Store bundles one repository per collection.
type Store struct {
	Resources  ResourceRepository
	Requests   RequestRepository
	Users      UserRepository
	Activities ActivityRepository
}
