package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/P3chys/studyshare-api/internal/models"
	"github.com/P3chys/studyshare-api/internal/repository"
	"github.com/P3chys/studyshare-api/internal/utils"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fakeIndexer struct {
	indexed chan models.Resource
	deleted chan string
}

func newFakeIndexer() *fakeIndexer {
	return &fakeIndexer{indexed: make(chan models.Resource, 8), deleted: make(chan string, 8)}
}

func (f *fakeIndexer) IndexResource(resource models.Resource) error {
	f.indexed <- resource
	return nil
}

func (f *fakeIndexer) DeleteResource(id string) error {
	f.deleted <- id
	return nil
}

type fakeFiles struct {
	deleted chan string
}

func (f *fakeFiles) DeleteFile(ctx context.Context, key string) error {
	f.deleted <- key
	return nil
}

type fakeNotifier struct {
	sent chan models.MaterialRequest
}

func (f *fakeNotifier) NotifyRequestFulfilled(user models.User, request models.MaterialRequest) error {
	f.sent <- request
	return nil
}

type testEnv struct {
	svc      *DataService
	store    repository.Store
	indexer  *fakeIndexer
	files    *fakeFiles
	notifier *fakeNotifier
	metrics  *MetricsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithLatency(t, 0)
}

func newTestEnvWithLatency(t *testing.T, latency time.Duration) *testEnv {
	t.Helper()

	catalog, err := LoadExternalCatalog("")
	require.NoError(t, err)

	env := &testEnv{
		store:    repository.NewMemoryStore(),
		indexer:  newFakeIndexer(),
		files:    &fakeFiles{deleted: make(chan string, 8)},
		notifier: &fakeNotifier{sent: make(chan models.MaterialRequest, 8)},
		metrics:  NewMetricsService(),
	}
	env.svc = NewDataService(env.store, catalog, Options{
		Indexer:  env.indexer,
		Files:    env.files,
		Notifier: env.notifier,
		Metrics:  env.metrics,
		Latency:  latency,
		Now:      newStepClock().Now,
	})
	return env
}

func (e *testEnv) addUser(t *testing.T, name, email, password string, role models.UserRole) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{Name: name, Email: email, PasswordHash: hash, Role: role}
	if role == models.RoleStudent {
		user.Branch = "CSE"
		user.Semester = 5
	}
	require.NoError(t, e.store.Users.Create(context.Background(), user))
	return user
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for side effect")
		var zero T
		return zero
	}
}
