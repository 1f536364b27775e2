package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"

	"github.com/P3chys/studyshare-api/internal/config"
	"github.com/P3chys/studyshare-api/internal/models"
)

const resourcesIndex = "resources"

// SearchService mirrors resources into a Meilisearch index for full-text
// search over titles, subjects, authors and extracted file text.
type SearchService struct {
	client *meilisearch.Client
	host   string
	index  string
	logger *zap.Logger
}

// searchDocument flattens the resource and adds fields hidden from the API.
type searchDocument struct {
	models.Resource
	Content string `json:"content,omitempty"`
}

// SearchQuery narrows a full-text search.
type SearchQuery struct {
	Query    string
	Branch   string
	Semester int
	Type     models.ResourceType
	Limit    int64
}

func NewSearchService(cfg *config.Config, logger *zap.Logger) *SearchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   cfg.MeiliURL,
		APIKey: cfg.MeiliAPIKey,
	})

	// Ensure the index exists (best effort)
	if _, err := client.GetIndex(resourcesIndex); err != nil {
		if _, err := client.CreateIndex(&meilisearch.IndexConfig{
			Uid:        resourcesIndex,
			PrimaryKey: "id",
		}); err != nil {
			logger.Warn("failed to create meilisearch index", zap.String("index", resourcesIndex), zap.Error(err))
		}

		index := client.Index(resourcesIndex)
		if _, err := index.UpdateFilterableAttributes(&[]string{"branch", "semester", "type", "subject"}); err != nil {
			logger.Warn("failed to update filterable attributes", zap.Error(err))
		}
		if _, err := index.UpdateSortableAttributes(&[]string{"uploaded_at", "downloads"}); err != nil {
			logger.Warn("failed to update sortable attributes", zap.Error(err))
		}
		if _, err := index.UpdateSearchableAttributes(&[]string{"title", "subject", "author", "tags", "description", "content"}); err != nil {
			logger.Warn("failed to update searchable attributes", zap.Error(err))
		}
	}

	return &SearchService{
		client: client,
		host:   cfg.MeiliURL,
		index:  resourcesIndex,
		logger: logger,
	}
}

func toSearchDocuments(resources []models.Resource) []searchDocument {
	docs := make([]searchDocument, len(resources))
	for i, r := range resources {
		docs[i] = searchDocument{Resource: r, Content: r.ContentText}
	}
	return docs
}

func (s *SearchService) IndexResource(resource models.Resource) error {
	_, err := s.client.Index(s.index).AddDocuments(toSearchDocuments([]models.Resource{resource}))
	return err
}

func (s *SearchService) IndexResources(resources []models.Resource) error {
	if len(resources) == 0 {
		return nil
	}
	_, err := s.client.Index(s.index).AddDocuments(toSearchDocuments(resources))
	return err
}

func (s *SearchService) DeleteResource(id string) error {
	_, err := s.client.Index(s.index).DeleteDocument(id)
	return err
}

// SearchResult holds the matching resources in relevance order.
type SearchResult struct {
	Query string            `json:"query"`
	Hits  []models.Resource `json:"hits"`
	Total int64             `json:"total"`
}

// retrievedAttributes keeps the extracted content out of search responses.
var retrievedAttributes = []string{
	"id", "title", "type", "branch", "semester", "subject", "author", "year", "exam_type",
	"tags", "description", "download_url", "downloads", "likes", "uploaded_by", "uploaded_at",
}

func (s *SearchService) Search(q SearchQuery) (*SearchResult, error) {
	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	request := &meilisearch.SearchRequest{
		Limit:                limit,
		AttributesToRetrieve: retrievedAttributes,
	}
	if filter := q.filter(); filter != "" {
		request.Filter = filter
	}

	resp, err := s.client.Index(s.index).Search(q.Query, request)
	if err != nil {
		return nil, err
	}

	hits, err := decodeHits(resp.Hits)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Query: q.Query, Hits: hits, Total: resp.EstimatedTotalHits}, nil
}

func decodeHits(raw []interface{}) ([]models.Resource, error) {
	hits := []models.Resource{}
	if len(raw) == 0 {
		return hits, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &hits); err != nil {
		return nil, fmt.Errorf("decoding search hits: %w", err)
	}
	return hits, nil
}

func (q SearchQuery) filter() string {
	var parts []string
	if q.Branch != "" {
		parts = append(parts, fmt.Sprintf("branch = %q", q.Branch))
	}
	if q.Semester != 0 {
		parts = append(parts, fmt.Sprintf("semester = %d", q.Semester))
	}
	if q.Type != "" {
		parts = append(parts, fmt.Sprintf("type = %q", string(q.Type)))
	}
	return strings.Join(parts, " AND ")
}

func (s *SearchService) GetResourceCount() (int64, error) {
	stats, err := s.client.Index(s.index).GetStats()
	if err != nil {
		return 0, err
	}
	return stats.NumberOfDocuments, nil
}

func (s *SearchService) Ping(ctx context.Context) error {
	if !s.client.IsHealthy() {
		return fmt.Errorf("meilisearch at %s is not healthy", s.host)
	}
	return nil
}
