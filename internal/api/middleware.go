package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yourname/sleepscope/internal/session"
)

const SessionCookie = "sleepscope_session"

// RequestIDMiddleware ensures every request has a correlation/request ID
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set("request_id", reqID)
		c.Writer.Header().Set("X-Request-ID", reqID)
		c.Next()
	}
}

// SessionMiddleware attaches the visitor's Holder. Reads from a visitor
// without a live session get an unsaved default holder; only a write creates
// a stored session and issues the cookie.
func SessionMiddleware(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(SessionCookie)
		if holder, ok := app.Sessions().Lookup(cookie); ok {
			c.Set("session", holder)
			c.Next()
			return
		}

		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Set("session", session.NewHolder(app.Analyzer(), app.Logger()))
			c.Next()
			return
		}

		id, holder := app.Sessions().Create()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, 0, "/", "", false, true)
		c.Set("session", holder)
		c.Next()
	}
}

func currentHolder(c *gin.Context) *session.Holder {
	return c.MustGet("session").(*session.Holder)
}
