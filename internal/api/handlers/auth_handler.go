package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vagondeck/internal/api/middleware"
	"vagondeck/internal/services"
)

// AuthHandler drives the optional login wall: a login form, a session cookie
// and a logout. Nothing here exists when no password hash is configured.
type AuthHandler struct {
	auth       *services.AuthService
	production bool
}

func NewAuthHandler(auth *services.AuthService, production bool) *AuthHandler {
	return &AuthHandler{auth: auth, production: production}
}

// setSessionCookie sets the session cookie HttpOnly, SameSite=Strict and
// Secure in production.
func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", "", h.production, true)
}

// LoginForm renders the login page, or goes straight to the dashboard when no
// login wall is configured.
func (h *AuthHandler) LoginForm(c *gin.Context) {
	if !h.auth.Enabled() {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// Login checks the submitted password and issues the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	if !h.auth.Enabled() {
		c.Redirect(http.StatusFound, "/")
		return
	}

	token, err := h.auth.Login(c.PostForm("password"))
	if err != nil {
		status := http.StatusUnauthorized
		if !errors.Is(err, services.ErrInvalidPassword) {
			status = http.StatusInternalServerError
		}
		c.HTML(status, "login.html", gin.H{"error": "Invalid password"})
		return
	}

	h.setSessionCookie(c, token, 3600*24)
	c.Redirect(http.StatusFound, "/")
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.Redirect(http.StatusFound, "/login")
}
