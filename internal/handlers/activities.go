package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/P3chys/studyshare-api/internal/response"
	"github.com/P3chys/studyshare-api/internal/services"
)

func GetRecentActivities(svc *services.DataService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

		activities, err := svc.RecentActivity(c.Request.Context(), limit)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, activities)
	}
}
