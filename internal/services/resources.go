package services

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/P3chys/studyshare-api/internal/apperrors"
	"github.com/P3chys/studyshare-api/internal/models"
	"github.com/P3chys/studyshare-api/internal/repository"
)

// TrendingLimit is the number of resources returned by TrendingResources.
const TrendingLimit = 4

// ResourceInput carries the caller-supplied fields of a new resource.
// Zero values are replaced by resourceDefaults.
type ResourceInput struct {
	Title       string              `json:"title" form:"title" validate:"max=255"`
	Type        models.ResourceType `json:"type" form:"type" validate:"omitempty,rtype"`
	Branch      string              `json:"branch" form:"branch" validate:"omitempty,branch"`
	Semester    int                 `json:"semester" form:"semester" validate:"omitempty,min=1,max=8"`
	Subject     string              `json:"subject" form:"subject" validate:"max=200"`
	Author      string              `json:"author" form:"author" validate:"max=200"`
	Year        int                 `json:"year" form:"year" validate:"omitempty,min=1900,max=2100"`
	ExamType    models.ExamType     `json:"exam_type" form:"exam_type" validate:"omitempty,examtype"`
	Tags        []string            `json:"tags" form:"tags"`
	Description string              `json:"description" form:"description"`
	DownloadURL string              `json:"download_url" form:"download_url" validate:"max=500"`

	ObjectKey   string `json:"-" form:"-"`
	ContentText string `json:"-" form:"-"`
}

func resourceDefaults(in ResourceInput, uploadedBy string, now time.Time) models.Resource {
	r := models.Resource{
		Title:       strings.TrimSpace(in.Title),
		Type:        in.Type,
		Branch:      in.Branch,
		Semester:    in.Semester,
		Subject:     strings.TrimSpace(in.Subject),
		Author:      in.Author,
		Year:        in.Year,
		ExamType:    in.ExamType,
		Tags:        in.Tags,
		Description: in.Description,
		DownloadURL: in.DownloadURL,
		UploadedBy:  uploadedBy,
		UploadedAt:  now,
		ObjectKey:   in.ObjectKey,
		ContentText: in.ContentText,
	}
	if r.Title == "" {
		r.Title = "Untitled"
	}
	if r.Type == "" {
		r.Type = models.ResourceNote
	}
	if r.Branch == "" {
		r.Branch = "CSE"
	}
	if r.Semester == 0 {
		r.Semester = 1
	}
	if r.Subject == "" {
		r.Subject = "General"
	}
	if r.DownloadURL == "" {
		r.DownloadURL = models.PlaceholderDownloadURL
	}
	return r
}

// ListResources returns every resource, newest first, or only those of
// kind. An empty kind or "all" selects everything.
func (s *DataService) ListResources(ctx context.Context, kind models.ResourceType) ([]models.Resource, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if kind != "" && kind != "all" && !kind.Valid() {
		return nil, apperrors.Clone(apperrors.ErrValidation, "unknown resource type "+string(kind))
	}

	resources, err := s.resources.List(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list resources")
	}
	if kind == "" || kind == "all" {
		return resources, nil
	}

	out := resources[:0]
	for _, r := range resources {
		if r.Type == kind {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *DataService) GetResource(ctx context.Context, id string) (*models.Resource, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	resource, err := s.resources.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Clone(apperrors.ErrNotFound, "resource not found")
		}
		return nil, internalError(err, "failed to load resource")
	}
	return resource, nil
}

// TrendingResources returns the most downloaded resources, ties kept in
// collection order.
func (s *DataService) TrendingResources(ctx context.Context) ([]models.Resource, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	resources, err := s.resources.List(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list resources")
	}

	slices.SortStableFunc(resources, func(a, b models.Resource) int {
		return cmp.Compare(b.Downloads, a.Downloads)
	})
	if len(resources) > TrendingLimit {
		resources = resources[:TrendingLimit]
	}
	return resources, nil
}

// CreateResource stores a new resource at the front of the collection.
func (s *DataService) CreateResource(ctx context.Context, actor *models.User, in ResourceInput) (*models.Resource, error) {
	resource, err := s.createResource(ctx, actor, in, models.ActivityResourceUploaded)
	s.observe("create_resource", err)
	return resource, err
}

func (s *DataService) createResource(ctx context.Context, actor *models.User, in ResourceInput, activity models.ActivityType) (*models.Resource, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err, "resource")
	}

	resource := resourceDefaults(in, actorName(actor), s.now().UTC())
	if err := s.resources.Create(ctx, &resource); err != nil {
		return nil, internalError(err, "failed to create resource")
	}

	s.recordActivity(ctx, models.Activity{
		UserID:       actorID(actor),
		ActivityType: activity,
		ResourceID:   resource.ID,
		Summary:      resource.Title,
	})

	if s.indexer != nil {
		indexed := resource.Clone()
		go func() {
			if err := s.indexer.IndexResource(indexed); err != nil {
				s.logger.Warn("failed to index resource", zap.String("resource_id", indexed.ID), zap.Error(err))
			}
		}()
	}

	return &resource, nil
}

// DeleteResource removes a resource permanently. Deleting an unknown id is
// not an error. Requests that referenced it are left untouched.
func (s *DataService) DeleteResource(ctx context.Context, actor *models.User, id string) error {
	err := s.deleteResource(ctx, actor, id)
	s.observe("delete_resource", err)
	return err
}

func (s *DataService) deleteResource(ctx context.Context, actor *models.User, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	existing, err := s.resources.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return internalError(err, "failed to load resource")
	}

	removed, err := s.resources.Delete(ctx, id)
	if err != nil {
		return internalError(err, "failed to delete resource")
	}
	if !removed {
		return nil
	}

	s.recordActivity(ctx, models.Activity{
		UserID:       actorID(actor),
		ActivityType: models.ActivityResourceDeleted,
		ResourceID:   id,
		Summary:      existing.Title,
	})

	if s.indexer != nil {
		go func() {
			if err := s.indexer.DeleteResource(id); err != nil {
				s.logger.Warn("failed to remove resource from index", zap.String("resource_id", id), zap.Error(err))
			}
		}()
	}
	if s.files != nil && existing.ObjectKey != "" {
		key := existing.ObjectKey
		go func() {
			if err := s.files.DeleteFile(context.Background(), key); err != nil {
				s.logger.Warn("failed to delete stored file", zap.String("object_key", key), zap.Error(err))
			}
		}()
	}
	return nil
}
