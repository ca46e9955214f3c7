package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username  string `form:"username" json:"username"`
	Password  string `form:"password" json:"password"`
	Password2 string `form:"password2" json:"password2"`
}

type loginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Register creates an account. Validation problems come back together, the
// way the registration form lists them.
func (h *Handlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration request"})
		return
	}

	user, err := h.Auth.Register(c.Request.Context(), req.Username, req.Password, req.Password2)
	if err != nil {
		respondError(c, "register", req.Username, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "You are now registered and can log in",
		"user":    user,
	})
}

// Login verifies credentials and sets the session cookie.
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login request"})
		return
	}

	session, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, "login", req.Username, err)
		return
	}

	c.SetCookie(h.CookieName, session.Token, int(h.Auth.TTL().Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged in"})
}

// Logout drops the session and clears the cookie. Works without a session
// too, so stale clients can always log out.
func (h *Handlers) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.CookieName); err == nil && token != "" {
		if err := h.Auth.Logout(c.Request.Context(), token); err != nil {
			respondError(c, "logout", "", err)
			return
		}
	}

	c.SetCookie(h.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
