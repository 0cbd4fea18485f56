package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/rentfest/web/logger"
	"github.com/rentfest/web/sessions"
	"github.com/rentfest/web/utils"
)

// SetSessionCookie writes the opaque session id cookie.
func SetSessionCookie(c *gin.Context, sid string, ttl time.Duration) {
	c.SetCookie(sessions.CookieName, sid, int(ttl.Seconds()), "/", "", false, true)
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(c *gin.Context) {
	c.SetCookie(sessions.CookieName, "", -1, "/", "", false, true)
}

// RequireSession gates a route on an active session. A missing, unknown or
// expired session redirects to the login page; valid sessions land in the
// context under utils.SessionKey.
func RequireSession(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(sessions.CookieName)
		if err != nil || sid == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		sess, err := store.Get(c.Request.Context(), sid)
		if err != nil {
			if !errors.Is(err, sessions.ErrNotFound) {
				logger.ErrorLogger.Errorf("Failed to load session %s: %v", sid, err)
			}
			ClearSessionCookie(c)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		if tokenExpired(sess.Token) {
			logger.WarnLogger.Warnf("Session %s carries an expired token, forcing re-login", sid)
			if err := store.Delete(c.Request.Context(), sid); err != nil {
				logger.ErrorLogger.Errorf("Failed to delete expired session %s: %v", sid, err)
			}
			ClearSessionCookie(c)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set(utils.SessionKey, sess)
		c.Next()
	}
}

// RequireAdmin gates a route on an admin session. It must run after
// RequireSession.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := utils.SessionFromContext(c)
		if err != nil || !sess.IsAdmin() {
			logger.WarnLogger.Warn("Non-admin request to admin route")
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalSession loads the session when one exists, without gating. Public
// pages use it to render the signed-in navbar state.
func OptionalSession(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(sessions.CookieName)
		if err == nil && sid != "" {
			if sess, err := store.Get(c.Request.Context(), sid); err == nil && !tokenExpired(sess.Token) {
				c.Set(utils.SessionKey, sess)
			}
		}
		c.Next()
	}
}

// tokenExpired reads the bearer token's exp claim without verifying the
// signature. The backend holds the signing secret; the only thing this
// client can honestly check is whether the token is already past its expiry.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque (non-JWT) tokens can't be inspected; let the backend decide.
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
