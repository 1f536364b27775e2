package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/P3chys/studyshare-api/internal/models"
)

// NewGormStore returns a Store backed by a relational database.
func NewGormStore(db *gorm.DB) Store {
	return Store{
		Resources:  &GormResourceRepository{db: db},
		Requests:   &GormRequestRepository{db: db},
		Users:      &GormUserRepository{db: db},
		Activities: &GormActivityRepository{db: db},
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

type GormResourceRepository struct {
	db *gorm.DB
}

func (r *GormResourceRepository) List(ctx context.Context) ([]models.Resource, error) {
	var resources []models.Resource
	err := r.db.WithContext(ctx).Order("uploaded_at desc").Find(&resources).Error
	return resources, err
}

func (r *GormResourceRepository) Get(ctx context.Context, id string) (*models.Resource, error) {
	var resource models.Resource
	if err := r.db.WithContext(ctx).First(&resource, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &resource, nil
}

func (r *GormResourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	return r.db.WithContext(ctx).Create(resource).Error
}

func (r *GormResourceRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Resource{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *GormResourceRepository) Count(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Resource{}).Count(&count).Error
	return int(count), err
}

type GormRequestRepository struct {
	db *gorm.DB
}

func (r *GormRequestRepository) List(ctx context.Context) ([]models.MaterialRequest, error) {
	var requests []models.MaterialRequest
	err := r.db.WithContext(ctx).Order("requested_at desc").Find(&requests).Error
	return requests, err
}

func (r *GormRequestRepository) Get(ctx context.Context, id string) (*models.MaterialRequest, error) {
	var request models.MaterialRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &request, nil
}

func (r *GormRequestRepository) Create(ctx context.Context, request *models.MaterialRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *GormRequestRepository) Update(ctx context.Context, request *models.MaterialRequest) error {
	result := r.db.WithContext(ctx).
		Model(&models.MaterialRequest{}).
		Where("id = ?", request.ID).
		Select("*").
		Updates(request)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRequestRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.MaterialRequest{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *GormRequestRepository) CountByStatus(ctx context.Context, status models.RequestStatus) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MaterialRequest{}).Where("status = ?", status).Count(&count).Error
	return int(count), err
}

type GormUserRepository struct {
	db *gorm.DB
}

func (r *GormUserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Order("created_at").Find(&users).Error
	return users, err
}

func (r *GormUserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *GormUserRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *GormUserRepository) Count(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return int(count), err
}

type GormActivityRepository struct {
	db *gorm.DB
}

func (r *GormActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *GormActivityRepository) Recent(ctx context.Context, limit int) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}
