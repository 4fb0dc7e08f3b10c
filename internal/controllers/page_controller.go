package controllers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"olstar_backend/internal/middleware"
)

// PageController serves the dashboard's static HTML pages.
type PageController struct {
	dir string
}

func NewPageController(dir string) *PageController {
	return &PageController{dir: dir}
}

// Page serves name from the pages directory.
func (p *PageController) Page(name string) gin.HandlerFunc {
	path := filepath.Join(p.dir, name)
	return func(c *gin.Context) {
		if _, err := os.Stat(path); err != nil {
			logrus.WithField("page", path).WithError(err).Error("page missing")
			c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
			return
		}
		c.File(path)
	}
}

// LoginPage serves the login form, or sends an existing admin session
// straight to the dashboard.
func (p *PageController) LoginPage(c *gin.Context) {
	if principal, ok := middleware.PrincipalFrom(c.Request.Context()); ok && principal.IsAdmin() {
		c.Redirect(http.StatusFound, dashboardPath)
		return
	}
	p.Page("index.html")(c)
}
