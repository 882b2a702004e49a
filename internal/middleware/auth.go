package middleware

import (
	"github.com/gin-gonic/gin"

	"wishlist/api/internal/auth"
)

const sessionKey = "session"

// Authenticate rejects the request unless its bearer token verifies and
// stores the resulting session on the context.
func Authenticate(authenticator *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := authenticator.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

func CurrentSession(c *gin.Context) (auth.Session, bool) {
	val, ok := c.Get(sessionKey)
	if !ok {
		return auth.Session{}, false
	}
	session, ok := val.(auth.Session)
	return session, ok
}
