// utils/context.go
package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/rentfest/web/logger"
	"github.com/rentfest/web/models"
)

// SessionKey is the context key under which the auth middleware stores the
// active session.
const SessionKey = "session"

// SessionFromContext extracts the active session placed in the Gin context
// by the auth middleware.
func SessionFromContext(c *gin.Context) (*models.Session, error) {
	v, exists := c.Get(SessionKey)
	if !exists {
		logger.ErrorLogger.Error("Session not found in context.")
		return nil, ErrNoSession
	}

	sess, ok := v.(*models.Session)
	if !ok {
		logger.ErrorLogger.Errorf("Session in context has unexpected type: %T", v)
		return nil, ErrNoSession
	}
	return sess, nil
}
