package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/P3chys/studyshare-api/internal/apperrors"
	"github.com/P3chys/studyshare-api/internal/models"
)

func TestLatencyIsApplied(t *testing.T) {
	env := newTestEnvWithLatency(t, 50*time.Millisecond)

	start := time.Now()
	_, err := env.svc.ListResources(context.Background(), "")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestCancelledCallerPerformsNoMutation(t *testing.T) {
	env := newTestEnvWithLatency(t, time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := env.svc.CreateResource(ctx, nil, ResourceInput{Title: "late"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnavailable))

	count, err := env.store.Resources.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAlreadyCancelledContext(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.svc.CreateRequest(ctx, nil, RequestInput{Topic: "t"})
	assert.True(t, errors.Is(err, apperrors.ErrUnavailable))
}

func TestOverviewAndActivity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	student := env.addUser(t, "Alex Student", "alex@studyshare.local", "password123", models.RoleStudent)

	_, err := env.svc.CreateResource(ctx, student, ResourceInput{Title: "Notes"})
	require.NoError(t, err)
	first, err := env.svc.CreateRequest(ctx, student, RequestInput{Topic: "a"})
	require.NoError(t, err)
	_, err = env.svc.CreateRequest(ctx, student, RequestInput{Topic: "b"})
	require.NoError(t, err)

	fulfilled := models.RequestFulfilled
	_, err = env.svc.UpdateRequest(ctx, first.ID, RequestPatch{Status: &fulfilled})
	require.NoError(t, err)

	stats, err := env.svc.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Users: 1, Resources: 1, PendingRequests: 1}, *stats)

	activities, err := env.svc.RecentActivity(ctx, 2)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, models.ActivityRequestFulfilled, activities[0].ActivityType)
	assert.Equal(t, models.ActivityRequestCreated, activities[1].ActivityType)
}

func TestOperationsAreCounted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.CreateResource(ctx, nil, ResourceInput{})
	require.NoError(t, err)
	_, err = env.svc.CreateResource(ctx, nil, ResourceInput{Branch: "nope"})
	require.Error(t, err)

	assert.Equal(t, 1.0, operationCount(t, env.metrics, "create_resource", "ok"))
	assert.Equal(t, 1.0, operationCount(t, env.metrics, "create_resource", apperrors.ErrValidation.Code))
}

func operationCount(t *testing.T, m *MetricsService, operation, outcome string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != "studyshare_data_operations_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := map[string]string{}
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			if labels["operation"] == operation && labels["outcome"] == outcome {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestCatalog(t *testing.T) {
	env := newTestEnv(t)
	catalog := env.svc.Catalog()

	assert.Equal(t, models.Branches, catalog.Branches)
	assert.Len(t, catalog.Semesters, 8)
	for _, branch := range catalog.Branches {
		assert.NotEmpty(t, catalog.SubjectsByBranch[branch], branch)
	}
}
