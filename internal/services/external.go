package services

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/P3chys/studyshare-api/internal/apperrors"
	"github.com/P3chys/studyshare-api/internal/models"
)

//go:embed external_catalog.yaml
var defaultExternalCatalog []byte

// ExternalCatalog is the read-only remote catalog admins import from.
type ExternalCatalog struct {
	entries []models.Resource
}

func NewExternalCatalog(entries []models.Resource) *ExternalCatalog {
	return &ExternalCatalog{entries: entries}
}

// LoadExternalCatalog reads a catalog file. An empty path selects the
// bundled catalog.
func LoadExternalCatalog(path string) (*ExternalCatalog, error) {
	if path == "" {
		return ParseExternalCatalog(defaultExternalCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading external catalog: %w", err)
	}
	return ParseExternalCatalog(data)
}

func ParseExternalCatalog(data []byte) (*ExternalCatalog, error) {
	var entries []models.Resource
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parsing external catalog: %w", err)
		}
	}
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("external catalog entry %d has no id", i)
		}
	}
	return NewExternalCatalog(entries), nil
}

func (c *ExternalCatalog) Len() int {
	return len(c.entries)
}

// Search matches query against title, subject and author. A blank query
// matches nothing.
func (c *ExternalCatalog) Search(query string) []models.Resource {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []models.Resource{}
	if q == "" {
		return out
	}
	for _, e := range c.entries {
		if strings.Contains(strings.ToLower(e.Title), q) ||
			strings.Contains(strings.ToLower(e.Subject), q) ||
			strings.Contains(strings.ToLower(e.Author), q) {
			out = append(out, e.Clone())
		}
	}
	return out
}

func (c *ExternalCatalog) Get(id string) (models.Resource, bool) {
	for _, e := range c.entries {
		if e.ID == id {
			return e.Clone(), true
		}
	}
	return models.Resource{}, false
}

func (s *DataService) SearchExternal(ctx context.Context, query string) ([]models.Resource, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.external.Search(query), nil
}

// ImportExternal copies an external catalog entry into the resource
// collection as a new resource.
func (s *DataService) ImportExternal(ctx context.Context, actor *models.User, externalID string) (*models.Resource, error) {
	entry, ok := s.external.Get(externalID)
	if !ok {
		err := apperrors.Clone(apperrors.ErrNotFound, "external resource not found")
		s.observe("import_external", err)
		return nil, err
	}

	resource, err := s.createResource(ctx, actor, ResourceInput{
		Title:       entry.Title,
		Type:        entry.Type,
		Branch:      entry.Branch,
		Semester:    entry.Semester,
		Subject:     entry.Subject,
		Author:      entry.Author,
		Tags:        entry.Tags,
		Description: entry.Description,
		DownloadURL: entry.DownloadURL,
	}, models.ActivityResourceImported)
	s.observe("import_external", err)
	return resource, err
}
