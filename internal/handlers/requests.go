package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/P3chys/studyshare-api/internal/apperrors"
	"github.com/P3chys/studyshare-api/internal/models"
	"github.com/P3chys/studyshare-api/internal/response"
	"github.com/P3chys/studyshare-api/internal/services"
)

func ListRequests(svc *services.DataService) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := models.RequestStatus(c.Query("status"))
		requests, err := svc.ListRequests(c.Request.Context(), status)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, requests)
	}
}

func CreateRequest(svc *services.DataService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := currentUser(c, svc)
		if err != nil {
			response.Error(c, err)
			return
		}

		var in services.RequestInput
		if err := c.ShouldBindJSON(&in); err != nil {
			response.Error(c, apperrors.Clone(apperrors.ErrValidation, err.Error()))
			return
		}

		request, err := svc.CreateRequest(c.Request.Context(), actor, in)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, request)
	}
}

// UpdateRequest applies a partial update. Only the requester or an admin
// may change a request.
func UpdateRequest(svc *services.DataService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := currentUser(c, svc)
		if err != nil {
			response.Error(c, err)
			return
		}

		var patch services.RequestPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			response.Error(c, apperrors.Clone(apperrors.ErrValidation, err.Error()))
			return
		}

		id := c.Param("id")
		if !actor.IsAdmin() {
			owned, err := ownsRequest(c, svc, actor, id)
			if err != nil {
				response.Error(c, err)
				return
			}
			if !owned {
				response.Error(c, apperrors.Clone(apperrors.ErrForbidden, "not authorized to update this request"))
				return
			}
		}

		request, err := svc.UpdateRequest(c.Request.Context(), id, patch)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, request)
	}
}

type fulfillBody struct {
	ResourceID string `json:"resource_id"`
}

// FulfillRequest marks a request fulfilled, optionally linking the
// resource that satisfies it.
func FulfillRequest(svc *services.DataService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body fulfillBody
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&body); err != nil {
				response.Error(c, apperrors.Clone(apperrors.ErrValidation, err.Error()))
				return
			}
		}

		status := models.RequestFulfilled
		patch := services.RequestPatch{Status: &status}
		if body.ResourceID != "" {
			patch.FulfilledResourceID = &body.ResourceID
		}

		request, err := svc.UpdateRequest(c.Request.Context(), c.Param("id"), patch)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, request)
	}
}

func DeleteRequest(svc *services.DataService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteRequest(c.Request.Context(), c.Param("id")); err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"message": "Request deleted"})
	}
}

func ownsRequest(c *gin.Context, svc *services.DataService, actor *models.User, id string) (bool, error) {
	request, err := svc.GetRequest(c.Request.Context(), id)
	if err != nil {
		return false, err
	}
	return request.RequesterID == actor.ID, nil
}
