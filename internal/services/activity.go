package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/P3chys/studyshare-api/internal/models"
)

const (
	defaultActivityLimit = 10
	maxActivityLimit     = 50
)

// Stats backs the admin overview.
type Stats struct {
	Users           int `json:"users"`
	Resources       int `json:"resources"`
	PendingRequests int `json:"pending_requests"`
}

// recordActivity is best effort; failures are only logged.
func (s *DataService) recordActivity(ctx context.Context, activity models.Activity) {
	if s.activities == nil {
		return
	}
	activity.CreatedAt = s.now().UTC()
	if err := s.activities.Create(ctx, &activity); err != nil {
		s.logger.Warn("failed to record activity",
			zap.String("activity_type", string(activity.ActivityType)),
			zap.Error(err))
	}
}

func (s *DataService) RecentActivity(ctx context.Context, limit int) ([]models.Activity, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	if s.activities == nil {
		return []models.Activity{}, nil
	}

	activities, err := s.activities.Recent(ctx, limit)
	if err != nil {
		return nil, internalError(err, "failed to fetch activities")
	}
	return activities, nil
}

func (s *DataService) Overview(ctx context.Context) (*Stats, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, internalError(err, "failed to count users")
	}
	resources, err := s.resources.Count(ctx)
	if err != nil {
		return nil, internalError(err, "failed to count resources")
	}
	pending, err := s.requests.CountByStatus(ctx, models.RequestPending)
	if err != nil {
		return nil, internalError(err, "failed to count requests")
	}

	return &Stats{Users: users, Resources: resources, PendingRequests: pending}, nil
}
