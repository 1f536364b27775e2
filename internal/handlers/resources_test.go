package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/P3chys/studyshare-api/internal/middleware"
	"github.com/P3chys/studyshare-api/internal/models"
	"github.com/P3chys/studyshare-api/internal/repository"
	"github.com/P3chys/studyshare-api/internal/response"
	"github.com/P3chys/studyshare-api/internal/services"
)

type memoryFileStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	deleted []string
}

func newMemoryFileStore() *memoryFileStore {
	return &memoryFileStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryFileStore) UploadFile(ctx context.Context, r io.Reader, key string, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memoryFileStore) DownloadFile(ctx context.Context, key string) (io.ReadCloser, *services.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, nil, services.ErrFileNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), &services.FileInfo{Size: int64(len(data)), ContentType: m.types[key]}, nil
}

func (m *memoryFileStore) DeleteFile(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

type echoExtractor struct{}

func (echoExtractor) ExtractText(ctx context.Context, file io.ReadSeeker) (string, error) {
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	data, err := io.ReadAll(file)
	return string(data), err
}

type fixture struct {
	svc     *services.DataService
	store   repository.Store
	student models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	student := models.User{Name: "Alex Student", Email: "alex@studyshare.local", Role: models.RoleStudent}
	require.NoError(t, store.Users.Create(context.Background(), &student))

	return &fixture{
		svc:     services.NewDataService(store, nil, services.Options{}),
		store:   store,
		student: student,
	}
}

func multipartBody(t *testing.T, fields map[string]string, filename, contentType, content string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func TestCreateResourceWithFile(t *testing.T) {
	f := newFixture(t)
	files := newMemoryFileStore()

	body, contentType := multipartBody(t, map[string]string{
		"type": "note", "branch": "CSE", "semester": "5", "subject": "Operating Systems",
	}, "os-notes.txt", "text/plain", "paging and segmentation")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/resources", body)
	c.Request.Header.Set("Content-Type", contentType)
	middleware.SetUser(c, f.student)

	CreateResource(f.svc, files, echoExtractor{}, zap.NewNop())(c)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var env struct {
		Data models.Resource `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	created := env.Data
	assert.Equal(t, "os-notes", created.Title)
	assert.Equal(t, 5, created.Semester)
	assert.True(t, strings.HasPrefix(created.DownloadURL, "/api/v1/files/resources/"))

	stored, err := f.store.Resources.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "paging and segmentation", stored.ContentText)
	assert.Equal(t, []byte("paging and segmentation"), files.objects[stored.ObjectKey])
}

func TestCreateResourceRejectsUnsupportedFile(t *testing.T) {
	f := newFixture(t)
	files := newMemoryFileStore()

	body, contentType := multipartBody(t, nil, "virus.exe", "application/x-msdownload", "MZ")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/resources", body)
	c.Request.Header.Set("Content-Type", contentType)
	middleware.SetUser(c, f.student)

	CreateResource(f.svc, files, nil, zap.NewNop())(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, files.objects)
}

func TestCreateResourceCleansUpFileOnValidationError(t *testing.T) {
	f := newFixture(t)
	files := newMemoryFileStore()

	body, contentType := multipartBody(t, map[string]string{"branch": "Physics"}, "notes.pdf", "application/pdf", "%PDF")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/resources", body)
	c.Request.Header.Set("Content-Type", contentType)
	middleware.SetUser(c, f.student)

	CreateResource(f.svc, files, nil, zap.NewNop())(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, files.objects)
	assert.Len(t, files.deleted, 1)
}

func TestCreateResourceWithoutStorage(t *testing.T) {
	f := newFixture(t)
	body, contentType := multipartBody(t, nil, "notes.pdf", "application/pdf", "%PDF")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/resources", body)
	c.Request.Header.Set("Content-Type", contentType)
	middleware.SetUser(c, f.student)

	CreateResource(f.svc, nil, nil, zap.NewNop())(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCreateResourceUnknownUser(t *testing.T) {
	f := newFixture(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/resources", strings.NewReader(`{"title":"x"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	middleware.SetUser(c, models.User{ID: "gone", Role: models.RoleStudent})

	CreateResource(f.svc, nil, nil, zap.NewNop())(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDownloadFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	files := newMemoryFileStore()
	require.NoError(t, files.UploadFile(context.Background(), strings.NewReader("hello"), "resources/a.txt", 5, "text/plain"))

	r := gin.New()
	r.GET("/files/*key", DownloadFile(files))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/resources/a.txt", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())
	assert.Equal(t, "text/plain", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "a.txt")

	for _, path := range []string{"/files/resources/missing.txt", "/files/other/a.txt"} {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

type fakeSearcher struct {
	got services.SearchQuery
	err error
}

func (f *fakeSearcher) Search(q services.SearchQuery) (*services.SearchResult, error) {
	f.got = q
	if f.err != nil {
		return nil, f.err
	}
	return &services.SearchResult{Query: q.Query, Hits: []models.Resource{{ID: "r1", Title: "DBMS Notes"}}, Total: 1}, nil
}

func TestSearch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	searcher := &fakeSearcher{}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/search?q=+dbms+&branch=CSE&semester=5&type=note", nil)

	Search(searcher)(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.SearchQuery{Query: "dbms", Branch: "CSE", Semester: 5, Type: models.ResourceNote}, searcher.got)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
}

func TestSearchErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/search?q=x&branch=Physics", nil)
	Search(&fakeSearcher{})(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/search?q=x", nil)
	Search(&fakeSearcher{err: errors.New("meili down")})(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)
	Health(
		HealthCheck{Name: "database", Check: func(ctx context.Context) error { return nil }},
		HealthCheck{Name: "search", Check: func(ctx context.Context) error { return errors.New("down") }},
	)(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unhealthy","database":"ok","search":"unreachable"}`, w.Body.String())
}
