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

func TestResourceDefaults(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := resourceDefaults(ResourceInput{Title: "  "}, "System", now)

	assert.Equal(t, "Untitled", r.Title)
	assert.Equal(t, models.ResourceNote, r.Type)
	assert.Equal(t, "CSE", r.Branch)
	assert.Equal(t, 1, r.Semester)
	assert.Equal(t, "General", r.Subject)
	assert.Equal(t, models.PlaceholderDownloadURL, r.DownloadURL)
	assert.Zero(t, r.Downloads)
	assert.Zero(t, r.Likes)
	assert.Equal(t, "System", r.UploadedBy)
	assert.Equal(t, now, r.UploadedAt)
}

func TestCreateResourcePrependsAndIndexes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actor := &models.User{ID: "u1", Name: "Alex Student"}

	first, err := env.svc.CreateResource(ctx, actor, ResourceInput{Title: "First", Type: models.ResourcePYQ})
	require.NoError(t, err)
	second, err := env.svc.CreateResource(ctx, nil, ResourceInput{Title: "Second"})
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "Alex Student", first.UploadedBy)
	assert.Equal(t, "System", second.UploadedBy)

	all, err := env.svc.ListResources(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)

	indexed := []string{receive(t, env.indexer.indexed).ID, receive(t, env.indexer.indexed).ID}
	assert.ElementsMatch(t, []string{first.ID, second.ID}, indexed)
}

func TestCreateResourceRejectsInvalidFields(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateResource(context.Background(), nil, ResourceInput{Branch: "Physics"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = env.svc.CreateResource(context.Background(), nil, ResourceInput{Semester: 9})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	count, err := env.store.Resources.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListResourcesByKind(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, kind := range []models.ResourceType{models.ResourcePYQ, models.ResourceNote, models.ResourcePYQ} {
		_, err := env.svc.CreateResource(ctx, nil, ResourceInput{Type: kind})
		require.NoError(t, err)
	}

	pyqs, err := env.svc.ListResources(ctx, models.ResourcePYQ)
	require.NoError(t, err)
	assert.Len(t, pyqs, 2)

	all, err := env.svc.ListResources(ctx, "all")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = env.svc.ListResources(ctx, "video")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestTrendingResources(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Stored newest first, so insert in reverse of the wanted collection order.
	downloads := []int{5, 20, 1, 8, 12}
	for i := len(downloads) - 1; i >= 0; i-- {
		r := models.Resource{Title: "r", Downloads: downloads[i]}
		require.NoError(t, env.store.Resources.Create(ctx, &r))
	}

	trending, err := env.svc.TrendingResources(ctx)
	require.NoError(t, err)
	require.Len(t, trending, TrendingLimit)

	got := make([]int, len(trending))
	for i, r := range trending {
		got[i] = r.Downloads
	}
	assert.Equal(t, []int{20, 12, 8, 5}, got)
}

func TestTrendingKeepsCollectionOrderOnTies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, title := range []string{"c", "b", "a"} {
		r := models.Resource{Title: title, Downloads: 3}
		require.NoError(t, env.store.Resources.Create(ctx, &r))
	}

	trending, err := env.svc.TrendingResources(ctx)
	require.NoError(t, err)
	require.Len(t, trending, 3)
	assert.Equal(t, "a", trending[0].Title)
	assert.Equal(t, "b", trending[1].Title)
	assert.Equal(t, "c", trending[2].Title)
}

func TestGetResourceNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.GetResource(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestDeleteResource(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	stored := models.Resource{Title: "With file", ObjectKey: "resources/abc.pdf"}
	require.NoError(t, env.store.Resources.Create(ctx, &stored))

	require.NoError(t, env.svc.DeleteResource(ctx, nil, stored.ID))

	_, err := env.svc.GetResource(ctx, stored.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Equal(t, stored.ID, receive(t, env.indexer.deleted))
	assert.Equal(t, "resources/abc.pdf", receive(t, env.files.deleted))
}

func TestDeleteMissingResourceIsNoop(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.CreateResource(ctx, nil, ResourceInput{Title: "keep"})
	require.NoError(t, err)

	require.NoError(t, env.svc.DeleteResource(ctx, nil, "missing"))

	all, err := env.svc.ListResources(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDeleteResourceLeavesRequestsUntouched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resource, err := env.svc.CreateResource(ctx, nil, ResourceInput{Title: "Answer"})
	require.NoError(t, err)
	request, err := env.svc.CreateRequest(ctx, nil, RequestInput{Topic: "Question"})
	require.NoError(t, err)
	_, err = env.svc.UpdateRequest(ctx, request.ID, RequestPatch{FulfilledResourceID: &resource.ID})
	require.NoError(t, err)

	require.NoError(t, env.svc.DeleteResource(ctx, nil, resource.ID))

	requests, err := env.svc.ListRequests(ctx, "")
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, models.RequestFulfilled, requests[0].Status)
	require.NotNil(t, requests[0].FulfilledResourceID)
	assert.Equal(t, resource.ID, *requests[0].FulfilledResourceID)
}
