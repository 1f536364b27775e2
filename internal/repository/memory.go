package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/P3chys/studyshare-api/internal/models"
)

// NewMemoryStore returns a Store whose collections live in process memory.
// Each collection has its own lock; reads hand out copies.
func NewMemoryStore() Store {
	return Store{
		Resources:  &MemoryResourceRepository{},
		Requests:   &MemoryRequestRepository{},
		Users:      &MemoryUserRepository{},
		Activities: &MemoryActivityRepository{},
	}
}

type MemoryResourceRepository struct {
	mu    sync.RWMutex
	items []models.Resource
}

func (r *MemoryResourceRepository) List(ctx context.Context) ([]models.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Resource, len(r.items))
	for i, item := range r.items {
		out[i] = item.Clone()
	}
	return out, nil
}

func (r *MemoryResourceRepository) Get(ctx context.Context, id string) (*models.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.ID == id {
			res := item.Clone()
			return &res, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryResourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	if err := resource.BeforeCreate(nil); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append([]models.Resource{resource.Clone()}, r.items...)
	return nil
}

func (r *MemoryResourceRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, item := range r.items {
		if item.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryResourceRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

type MemoryRequestRepository struct {
	mu    sync.RWMutex
	items []models.MaterialRequest
}

func (r *MemoryRequestRepository) List(ctx context.Context) ([]models.MaterialRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.MaterialRequest, len(r.items))
	for i, item := range r.items {
		out[i] = item.Clone()
	}
	return out, nil
}

func (r *MemoryRequestRepository) Get(ctx context.Context, id string) (*models.MaterialRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.ID == id {
			req := item.Clone()
			return &req, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRequestRepository) Create(ctx context.Context, request *models.MaterialRequest) error {
	if err := request.BeforeCreate(nil); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append([]models.MaterialRequest{request.Clone()}, r.items...)
	return nil
}

func (r *MemoryRequestRepository) Update(ctx context.Context, request *models.MaterialRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, item := range r.items {
		if item.ID == request.ID {
			r.items[i] = request.Clone()
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRequestRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, item := range r.items {
		if item.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRequestRepository) CountByStatus(ctx context.Context, status models.RequestStatus) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, item := range r.items {
		if item.Status == status {
			n++
		}
	}
	return n, nil
}

type MemoryUserRepository struct {
	mu    sync.RWMutex
	items []models.User
}

func (r *MemoryUserRepository) List(ctx context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.User(nil), r.items...), nil
}

func (r *MemoryUserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.ID == id {
			u := item
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if strings.EqualFold(item.Email, email) {
			u := item
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := user.BeforeCreate(nil); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.items {
		if strings.EqualFold(item.Email, user.Email) {
			return RepositoryError("duplicate email")
		}
	}
	r.items = append(r.items, *user)
	return nil
}

func (r *MemoryUserRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, item := range r.items {
		if item.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryUserRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

// maxActivities bounds the in-memory feed; older entries are dropped.
const maxActivities = 500

type MemoryActivityRepository struct {
	mu    sync.Mutex
	items []models.Activity
}

func (r *MemoryActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	if err := activity.BeforeCreate(nil); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append([]models.Activity{*activity}, r.items...)
	if len(r.items) > maxActivities {
		r.items = r.items[:maxActivities]
	}
	return nil
}

func (r *MemoryActivityRepository) Recent(ctx context.Context, limit int) ([]models.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 || limit > len(r.items) {
		limit = len(r.items)
	}
	return append([]models.Activity(nil), r.items[:limit]...), nil
}
