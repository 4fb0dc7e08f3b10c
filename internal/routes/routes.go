package routes

import (
	"fmt"
	"io"
	"net/http"
	"time"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"olstar_backend/internal/controllers"
	"olstar_backend/internal/middleware"
)

// Handlers is everything the router needs, built once in main.
type Handlers struct {
	Sessions       *middleware.Sessions
	LoginLimiter   *middleware.IPRateLimiter
	OnLoginLimited func()

	Auth           *controllers.AuthController
	Pages          *controllers.PageController
	Schedules      *controllers.ScheduleController
	TransportUnits *controllers.TransportUnitController
	Tracking       *controllers.TrackingController
	LocationStream *controllers.LocationStreamController
	Users          *controllers.UserController

	Metrics        http.Handler
	AccessLog      io.Writer
	CORSOrigins    []string
	RequestTimeout time.Duration

	// TrustedProxies are the proxy addresses or CIDRs whose forwarding
	// headers are believed. Empty means the socket address is the client.
	TrustedProxies []string
}

func SetupRouter(h Handlers) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(h.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logrus.WithFields(logrus.Fields{"path": c.Request.URL.Path, "panic": recovered}).Error("recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}))
	if h.AccessLog != nil {
		r.Use(ginlog.SetLogger(
			ginlog.WithWriter(h.AccessLog),
			ginlog.WithUTC(true),
			ginlog.WithSkipPath([]string{"/healthz", "/metrics"}),
		))
	}
	r.Use(middleware.CORS(h.CORSOrigins))
	r.Use(h.Sessions.LoadSession())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}

	AuthRoutes(r, h)
	PageRoutes(r, h)
	ScheduleRoutes(r, h)
	AdminRoutes(r, h)
	TrackingRoutes(r, h)

	return r, nil
}
