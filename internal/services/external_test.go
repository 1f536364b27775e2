package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/P3chys/studyshare-api/internal/apperrors"
	"github.com/P3chys/studyshare-api/internal/models"
)

func TestDefaultExternalCatalogLoads(t *testing.T) {
	catalog, err := LoadExternalCatalog("")
	require.NoError(t, err)
	assert.Equal(t, 8, catalog.Len())
}

func TestParseExternalCatalogRequiresIDs(t *testing.T) {
	_, err := ParseExternalCatalog([]byte("- title: Orphan\n"))
	assert.Error(t, err)
}

func TestSearchExternal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, q := range []string{"", "   "} {
		results, err := env.svc.SearchExternal(ctx, q)
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	}

	results, err := env.svc.SearchExternal(ctx, "CONTROL")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		haystack := strings.ToLower(r.Title + " " + r.Subject + " " + r.Author)
		assert.Contains(t, haystack, "control")
	}

	byAuthor, err := env.svc.SearchExternal(ctx, "nise")
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "ext-4", byAuthor[0].ID)
}

func TestImportExternal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.addUser(t, "Admin User", "admin@studyshare.local", "AdminPassword123!", models.RoleAdmin)

	entry, ok := env.svc.external.Get("ext-4")
	require.True(t, ok)

	imported, err := env.svc.ImportExternal(ctx, admin, "ext-4")
	require.NoError(t, err)
	assert.NotEqual(t, "ext-4", imported.ID)
	assert.Equal(t, entry.Title, imported.Title)
	assert.Equal(t, entry.Branch, imported.Branch)
	assert.Equal(t, entry.Semester, imported.Semester)
	assert.Equal(t, entry.Author, imported.Author)
	assert.Equal(t, "Admin User", imported.UploadedBy)
	assert.Zero(t, imported.Downloads)

	all, err := env.svc.ListResources(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, imported.ID, all[0].ID)

	_, err = env.svc.ImportExternal(ctx, admin, "ext-404")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
