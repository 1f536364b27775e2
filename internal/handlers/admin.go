package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/P3chys/studyshare-api/internal/response"
	"github.com/P3chys/studyshare-api/internal/services"
)

func ListUsers(svc *services.DataService) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := svc.ListUsers(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, users)
	}
}

func DeleteUser(svc *services.DataService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := currentUser(c, svc)
		if err != nil {
			response.Error(c, err)
			return
		}
		if err := svc.DeleteUser(c.Request.Context(), actor, c.Param("id")); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"message": "User deleted"})
	}
}

func SearchExternal(svc *services.DataService) gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := svc.SearchExternal(c.Request.Context(), c.Query("q"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, results)
	}
}

func ImportExternal(svc *services.DataService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := currentUser(c, svc)
		if err != nil {
			response.Error(c, err)
			return
		}
		resource, err := svc.ImportExternal(c.Request.Context(), actor, c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, resource)
	}
}

func Overview(svc *services.DataService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.Overview(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, stats)
	}
}
