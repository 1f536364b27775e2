package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/P3chys/studyshare-api/internal/apperrors"
	"github.com/P3chys/studyshare-api/internal/models"
	"github.com/P3chys/studyshare-api/internal/response"
	"github.com/P3chys/studyshare-api/internal/utils"
)

const (
	contextUserID = "user_id"
	contextRole   = "role"
	contextName   = "name"
)

// AuthRequired accepts requests carrying a valid bearer access token and
// stores the token's subject in the gin context.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, apperrors.Clone(apperrors.ErrUnauthorized, "authorization header required"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Abort(c, apperrors.Clone(apperrors.ErrUnauthorized, "invalid authorization format"))
			return
		}

		claims, err := utils.ParseAccessToken(parts[1], secret)
		if err != nil {
			response.Abort(c, apperrors.Wrap(err, apperrors.ErrUnauthorized, "invalid or expired token"))
			return
		}

		c.Set(contextUserID, claims.UserID)
		c.Set(contextRole, string(claims.Role))
		c.Set(contextName, claims.Name)
		c.Next()
	}
}

func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Role(c) != models.RoleAdmin {
			response.Abort(c, apperrors.Clone(apperrors.ErrForbidden, "admin access required"))
			return
		}
		c.Next()
	}
}

func UserID(c *gin.Context) string {
	return c.GetString(contextUserID)
}

func Role(c *gin.Context) models.UserRole {
	return models.UserRole(c.GetString(contextRole))
}

// SetUser populates the context the way AuthRequired does.
func SetUser(c *gin.Context, user models.User) {
	c.Set(contextUserID, user.ID)
	c.Set(contextRole, string(user.Role))
	c.Set(contextName, user.Name)
}
