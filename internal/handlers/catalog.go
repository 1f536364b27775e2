package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/P3chys/studyshare-api/internal/response"
	"github.com/P3chys/studyshare-api/internal/services"
)

func GetCatalog(svc *services.DataService) gin.HandlerFunc {
	return func(c *gin.Context) {
		response.OK(c, svc.Catalog())
	}
}
