package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vagondeck/internal/services"
)

// SessionCookie is the dashboard session cookie name.
const SessionCookie = "deck_session"

// Auth enforces the optional login wall. With no password hash configured the
// middleware passes everything through. API routes answer 401 JSON, page
// routes redirect to the login form.
func Auth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.Enabled() {
			c.Next()
			return
		}

		if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
			if err := auth.ValidateToken(token); err == nil {
				c.Next()
				return
			}
		}

		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":       "authentication required",
				"client_code": http.StatusUnauthorized,
				"status_code": http.StatusUnauthorized,
			})
			return
		}

		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}
