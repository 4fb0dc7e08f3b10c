package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"olstar_backend/internal/apperr"
	"olstar_backend/internal/middleware"
	"olstar_backend/internal/services"
)

// loginFailed is the only failure message the login endpoint returns, so
// callers cannot tell which check rejected them.
const loginFailed = "Login failed"

const dashboardPath = "/admin/dashboard"

type AuthController struct {
	auth     *services.AuthService
	sessions *middleware.Sessions
}

func NewAuthController(auth *services.AuthService, sessions *middleware.Sessions) *AuthController {
	return &AuthController{auth: auth, sessions: sessions}
}

// Login accepts JSON or form credentials and, on success, replaces any
// existing session with a fresh admin session.
func (a *AuthController) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}
	if err := c.ShouldBind(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": loginFailed})
		return
	}

	principal, err := a.auth.Login(c.Request.Context(), strings.TrimSpace(body.Email), body.Password)
	if err != nil {
		c.JSON(apperr.Status(err), gin.H{"error": loginFailed})
		return
	}

	csrf, err := a.sessions.Issue(c, principal)
	if err != nil {
		logrus.WithError(err).Error("could not issue session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": loginFailed})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"redirect":  dashboardPath,
		"csrfToken": csrf,
	})
}

// Logout clears the session and sends the browser to the login page.
func (a *AuthController) Logout(c *gin.Context) {
	a.sessions.Clear(c)
	c.Redirect(http.StatusFound, middleware.LoginPage)
}
