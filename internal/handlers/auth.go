package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/P3chys/studyshare-api/internal/apperrors"
	"github.com/P3chys/studyshare-api/internal/config"
	"github.com/P3chys/studyshare-api/internal/middleware"
	"github.com/P3chys/studyshare-api/internal/models"
	"github.com/P3chys/studyshare-api/internal/response"
	"github.com/P3chys/studyshare-api/internal/services"
	"github.com/P3chys/studyshare-api/internal/utils"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
}

// Login binds with the cached body so the email rate limiter can read it
// first. Empty fields are left to the data service to reject.
func Login(svc *services.DataService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
			response.Error(c, apperrors.Clone(apperrors.ErrValidation, "invalid JSON body"))
			return
		}

		user, err := svc.Authenticate(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			response.Error(c, err)
			return
		}

		issueToken(c, cfg, user, false)
	}
}

func Register(svc *services.DataService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.RegisterInput
		if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
			response.Error(c, apperrors.Clone(apperrors.ErrValidation, err.Error()))
			return
		}

		user, err := svc.Register(c.Request.Context(), req)
		if err != nil {
			response.Error(c, err)
			return
		}

		issueToken(c, cfg, user, true)
	}
}

func Me(svc *services.DataService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := currentUser(c, svc)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, user)
	}
}

func issueToken(c *gin.Context, cfg *config.Config, user *models.User, created bool) {
	token, err := utils.GenerateAccessToken(user, cfg.JWTSecret, cfg.JWTAccessExpiry)
	if err != nil {
		response.Error(c, apperrors.Wrap(err, apperrors.ErrInternal, "failed to generate token"))
		return
	}

	body := AuthResponse{
		User:        user,
		AccessToken: token,
		ExpiresIn:   int64(cfg.JWTAccessExpiry.Seconds()),
	}
	if created {
		response.Created(c, body)
		return
	}
	response.OK(c, body)
}

// currentUser loads the authenticated account so role and name always
// come from the store.
func currentUser(c *gin.Context, svc *services.DataService) (*models.User, error) {
	id := middleware.UserID(c)
	if id == "" {
		return nil, apperrors.ErrUnauthorized
	}
	user, err := svc.GetUser(c.Request.Context(), id)
	if err != nil {
		if apperrors.FromError(err).Code == apperrors.ErrNotFound.Code {
			return nil, apperrors.Clone(apperrors.ErrUnauthorized, "account no longer exists")
		}
		return nil, err
	}
	return user, nil
}
