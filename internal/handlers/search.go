package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/P3chys/studyshare-api/internal/apperrors"
	"github.com/P3chys/studyshare-api/internal/models"
	"github.com/P3chys/studyshare-api/internal/response"
	"github.com/P3chys/studyshare-api/internal/services"
)

// Searcher runs full-text queries over the resource index.
type Searcher interface {
	Search(q services.SearchQuery) (*services.SearchResult, error)
}

type searchParams struct {
	Query    string              `form:"q"`
	Branch   string              `form:"branch"`
	Semester int                 `form:"semester"`
	Type     models.ResourceType `form:"type"`
	Limit    int64               `form:"limit"`
}

func Search(search Searcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		if search == nil {
			response.Error(c, apperrors.Clone(apperrors.ErrUnavailable, "search is not configured"))
			return
		}

		var p searchParams
		if err := c.ShouldBindQuery(&p); err != nil {
			response.Error(c, apperrors.Clone(apperrors.ErrValidation, err.Error()))
			return
		}
		if p.Branch != "" && !models.IsValidBranch(p.Branch) {
			response.Error(c, apperrors.Clone(apperrors.ErrValidation, "unknown branch "+p.Branch))
			return
		}
		if p.Type != "" && !p.Type.Valid() {
			response.Error(c, apperrors.Clone(apperrors.ErrValidation, "unknown resource type "+string(p.Type)))
			return
		}

		result, err := search.Search(services.SearchQuery{
			Query:    strings.TrimSpace(p.Query),
			Branch:   p.Branch,
			Semester: p.Semester,
			Type:     p.Type,
			Limit:    p.Limit,
		})
		if err != nil {
			response.Error(c, apperrors.Wrap(err, apperrors.ErrInternal, "search failed"))
			return
		}
		response.OK(c, result)
	}
}
