package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/P3chys/studyshare-api/internal/apperrors"
	"github.com/P3chys/studyshare-api/internal/models"
	"github.com/P3chys/studyshare-api/internal/repository"
)

// ResourceIndexer keeps an external search index in step with the
// resource collection.
type ResourceIndexer interface {
	IndexResource(resource models.Resource) error
	DeleteResource(id string) error
}

// FileRemover deletes stored upload objects.
type FileRemover interface {
	DeleteFile(ctx context.Context, key string) error
}

// RequestNotifier tells a requester that their request was fulfilled.
type RequestNotifier interface {
	NotifyRequestFulfilled(user models.User, request models.MaterialRequest) error
}

type Options struct {
	Indexer  ResourceIndexer
	Files    FileRemover
	Notifier RequestNotifier
	Metrics  *MetricsService
	Logger   *zap.Logger
	// Latency is an artificial delay applied before every operation.
	Latency time.Duration
	Now     func() time.Time
}

// DataService is the only component allowed to read or mutate the
// resource, request and user collections.
type DataService struct {
	resources  repository.ResourceRepository
	requests   repository.RequestRepository
	users      repository.UserRepository
	activities repository.ActivityRepository
	external   *ExternalCatalog

	indexer  ResourceIndexer
	files    FileRemover
	notifier RequestNotifier
	metrics  *MetricsService

	validate *validator.Validate
	logger   *zap.Logger
	latency  time.Duration
	now      func() time.Time
}

func NewDataService(store repository.Store, external *ExternalCatalog, opts Options) *DataService {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if external == nil {
		external = NewExternalCatalog(nil)
	}
	return &DataService{
		resources:  store.Resources,
		requests:   store.Requests,
		users:      store.Users,
		activities: store.Activities,
		external:   external,
		indexer:    opts.Indexer,
		files:      opts.Files,
		notifier:   opts.Notifier,
		metrics:    opts.Metrics,
		validate:   newValidator(),
		logger:     opts.Logger,
		latency:    opts.Latency,
		now:        opts.Now,
	}
}

// wait applies the artificial latency. A caller whose context ends first
// gets an error and the operation performs no work.
func (s *DataService) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrUnavailable, "operation cancelled")
	}
	if s.latency <= 0 {
		return nil
	}

	timer := time.NewTimer(s.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return apperrors.Wrap(ctx.Err(), apperrors.ErrUnavailable, "operation cancelled")
	case <-timer.C:
		return nil
	}
}

func (s *DataService) observe(operation string, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = apperrors.FromError(err).Code
	}
	s.metrics.RecordOperation(operation, outcome)
}

func validationError(err error, what string) error {
	return apperrors.Wrap(err, apperrors.ErrValidation, fmt.Sprintf("invalid %s: %v", what, err))
}

func internalError(err error, message string) error {
	return apperrors.Wrap(err, apperrors.ErrInternal, message)
}

func actorName(actor *models.User) string {
	if actor == nil || actor.Name == "" {
		return "System"
	}
	return actor.Name
}

func actorID(actor *models.User) string {
	if actor == nil {
		return ""
	}
	return actor.ID
}
