package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errLanguagesNotUnique = errors.New("languages must be a non-empty list of unique tags")

const contextUserIDKey = "user_id"

// RequireAuth is left unimplemented: authentication and request
// authorization are out of scope for this core. A real deployment
// resolves the caller's identity here and sets contextUserIDKey before
// the request reaches JobHandler.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
	}
}

func requestingUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(contextUserIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
