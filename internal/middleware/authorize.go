package middleware

import (
	"github.com/gin-gonic/gin"

	"wishlist/api/internal/apperr"
	"wishlist/api/internal/auth"
	"wishlist/api/internal/models"
)

// RequireRoles lets the request through when the session holds any of roles.
// It must run after Authenticate.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := CurrentSession(c)
		if !ok {
			abortWithError(c, apperr.Unauthorized(auth.MsgSignInRequired))
			return
		}

		var err error
		for _, role := range roles {
			if err = auth.RequireRole(role, session.Roles); err == nil {
				c.Next()
				return
			}
		}
		if err == nil {
			err = apperr.Forbidden(auth.MsgForbidden)
		}
		abortWithError(c, err)
	}
}
