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

type RequestInput struct {
	Topic    string              `json:"topic" validate:"max=300"`
	Type     models.ResourceType `json:"type" validate:"omitempty,rtype"`
	Branch   string              `json:"branch" validate:"omitempty,branch"`
	Semester int                 `json:"semester" validate:"omitempty,min=1,max=8"`
	Subject  string              `json:"subject" validate:"max=200"`
}

// RequestPatch lists the fields to overwrite; nil fields are kept.
type RequestPatch struct {
	Topic    *string               `json:"topic" validate:"omitempty,max=300"`
	Type     *models.ResourceType  `json:"type" validate:"omitempty,rtype"`
	Branch   *string               `json:"branch" validate:"omitempty,branch"`
	Semester *int                  `json:"semester" validate:"omitempty,min=1,max=8"`
	Subject  *string               `json:"subject" validate:"omitempty,max=200"`
	Status   *models.RequestStatus `json:"status" validate:"omitempty,rstatus"`
	// FulfilledResourceID links the resource that satisfies the request.
	// Setting it implies status fulfilled; an empty string clears the link.
	FulfilledResourceID *string `json:"fulfilled_resource_id"`
}

func requestDefaults(in RequestInput, actor *models.User, now time.Time) models.MaterialRequest {
	r := models.MaterialRequest{
		Topic:       strings.TrimSpace(in.Topic),
		Type:        in.Type,
		Branch:      in.Branch,
		Semester:    in.Semester,
		Subject:     strings.TrimSpace(in.Subject),
		RequestedBy: actorName(actor),
		RequesterID: actorID(actor),
		RequestedAt: now,
		Status:      models.RequestPending,
	}
	if r.Topic == "" {
		r.Topic = "Untitled Request"
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
	return r
}

// ListRequests returns requests newest first. status narrows the result;
// an empty status or "all" keeps every request.
func (s *DataService) ListRequests(ctx context.Context, status models.RequestStatus) ([]models.MaterialRequest, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if status != "" && status != "all" && !status.Valid() {
		return nil, apperrors.Clone(apperrors.ErrValidation, "unknown request status "+string(status))
	}

	requests, err := s.requests.List(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list requests")
	}

	slices.SortStableFunc(requests, func(a, b models.MaterialRequest) int {
		return cmp.Compare(b.RequestedAt.UnixNano(), a.RequestedAt.UnixNano())
	})

	if status == "" || status == "all" {
		return requests, nil
	}
	out := requests[:0]
	for _, r := range requests {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *DataService) GetRequest(ctx context.Context, id string) (*models.MaterialRequest, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	request, err := s.requests.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Clone(apperrors.ErrNotFound, "request not found")
		}
		return nil, internalError(err, "failed to load request")
	}
	return request, nil
}

func (s *DataService) CreateRequest(ctx context.Context, actor *models.User, in RequestInput) (*models.MaterialRequest, error) {
	request, err := s.createRequest(ctx, actor, in)
	s.observe("create_request", err)
	return request, err
}

func (s *DataService) createRequest(ctx context.Context, actor *models.User, in RequestInput) (*models.MaterialRequest, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err, "request")
	}

	request := requestDefaults(in, actor, s.now().UTC())
	if err := s.requests.Create(ctx, &request); err != nil {
		return nil, internalError(err, "failed to create request")
	}

	s.recordActivity(ctx, models.Activity{
		UserID:       actorID(actor),
		ActivityType: models.ActivityRequestCreated,
		RequestID:    request.ID,
		Summary:      request.Topic,
	})
	return &request, nil
}

// UpdateRequest merges patch into the stored request. A fulfilled request
// cannot go back to pending.
func (s *DataService) UpdateRequest(ctx context.Context, id string, patch RequestPatch) (*models.MaterialRequest, error) {
	request, err := s.updateRequest(ctx, id, patch)
	s.observe("update_request", err)
	return request, err
}

func (s *DataService) updateRequest(ctx context.Context, id string, patch RequestPatch) (*models.MaterialRequest, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(patch); err != nil {
		return nil, validationError(err, "request update")
	}

	current, err := s.requests.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Clone(apperrors.ErrNotFound, "request not found")
		}
		return nil, internalError(err, "failed to load request")
	}

	updated := current.Clone()
	if patch.Topic != nil {
		updated.Topic = strings.TrimSpace(*patch.Topic)
	}
	if patch.Type != nil {
		updated.Type = *patch.Type
	}
	if patch.Branch != nil {
		updated.Branch = *patch.Branch
	}
	if patch.Semester != nil {
		updated.Semester = *patch.Semester
	}
	if patch.Subject != nil {
		updated.Subject = strings.TrimSpace(*patch.Subject)
	}
	if patch.Status != nil {
		if current.Status == models.RequestFulfilled && *patch.Status == models.RequestPending {
			return nil, apperrors.Clone(apperrors.ErrConflict, "a fulfilled request cannot be reopened")
		}
		updated.Status = *patch.Status
	}
	if patch.FulfilledResourceID != nil {
		if *patch.FulfilledResourceID == "" {
			updated.FulfilledResourceID = nil
		} else {
			if _, err := s.resources.Get(ctx, *patch.FulfilledResourceID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, apperrors.Clone(apperrors.ErrValidation, "fulfilling resource does not exist")
				}
				return nil, internalError(err, "failed to load fulfilling resource")
			}
			linked := *patch.FulfilledResourceID
			updated.FulfilledResourceID = &linked
			updated.Status = models.RequestFulfilled
		}
	}
	if updated.Topic == "" {
		return nil, apperrors.Clone(apperrors.ErrValidation, "topic must not be empty")
	}

	if err := s.requests.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Clone(apperrors.ErrNotFound, "request not found")
		}
		return nil, internalError(err, "failed to update request")
	}

	if current.Status == models.RequestPending && updated.Status == models.RequestFulfilled {
		s.recordActivity(ctx, models.Activity{
			ActivityType: models.ActivityRequestFulfilled,
			RequestID:    updated.ID,
			ResourceID:   derefString(updated.FulfilledResourceID),
			Summary:      updated.Topic,
		})
		s.notifyFulfilled(ctx, updated)
	}
	return &updated, nil
}

// DeleteRequest removes a request; unknown ids are ignored.
func (s *DataService) DeleteRequest(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	_, err := s.requests.Delete(ctx, id)
	if err != nil {
		err = internalError(err, "failed to delete request")
	}
	s.observe("delete_request", err)
	return err
}

func (s *DataService) notifyFulfilled(ctx context.Context, request models.MaterialRequest) {
	if s.notifier == nil || request.RequesterID == "" {
		return
	}
	requester, err := s.users.Get(ctx, request.RequesterID)
	if err != nil {
		s.logger.Debug("requester not found for notification", zap.String("request_id", request.ID))
		return
	}
	go func() {
		if err := s.notifier.NotifyRequestFulfilled(*requester, request); err != nil {
			s.logger.Warn("failed to notify requester", zap.String("request_id", request.ID), zap.Error(err))
		}
	}()
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
