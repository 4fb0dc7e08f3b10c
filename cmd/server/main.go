package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"olstar_backend/internal/config"
	"olstar_backend/internal/controllers"
	"olstar_backend/internal/docstore"
	"olstar_backend/internal/logger"
	"olstar_backend/internal/metrics"
	"olstar_backend/internal/middleware"
	"olstar_backend/internal/notify"
	"olstar_backend/internal/routes"
	"olstar_backend/internal/services"
	"olstar_backend/internal/stores"
)

func main() {
	cfg := config.Load()

	// Initialize structured logging to file
	accessLog := logger.Setup(cfg.LogFile, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var app *firebase.App
	if cfg.NeedsFirebase() {
		var err error
		if app, err = config.NewFirebaseApp(ctx, cfg); err != nil {
			logrus.WithError(err).Fatal("failed to initialize firebase")
		}
	}

	m := metrics.NewMetrics("olstar", prometheus.DefaultRegisterer)

	// Connect to the document store
	rawStore, closeStore, err := config.OpenStore(ctx, cfg, app)
	if err != nil {
		logrus.WithError(err).WithField("driver", cfg.StoreDriver).Fatal("failed to open document store")
	}
	store := docstore.Instrument(rawStore, m.ObserveStore)

	users := stores.NewUserStore(store)
	idp, err := config.OpenIdentity(ctx, cfg, app, users)
	if err != nil {
		logrus.WithError(err).WithField("driver", cfg.IdentityDriver).Fatal("failed to initialize identity provider")
	}

	dispatcher := notify.NewDispatcher(
		notify.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken),
		cfg.TwilioPhoneNumber,
		m,
		cfg.NotifyConcurrency,
	)
	tracking := services.NewTrackingService(users)
	hub := controllers.NewLocationHub(tracking, cfg.TrackingInterval)
	sessions := middleware.NewSessions(cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure)

	r, err := routes.SetupRouter(routes.Handlers{
		Sessions:       sessions,
		LoginLimiter:   middleware.NewIPRateLimiter(cfg.LoginRatePerMinute),
		OnLoginLimited: func() { m.Login("throttled") },

		Auth:           controllers.NewAuthController(services.NewAuthService(idp, users, m), sessions),
		Pages:          controllers.NewPageController(cfg.PagesDir),
		Schedules:      controllers.NewScheduleController(services.NewScheduleService(stores.NewScheduleStore(store), dispatcher, m)),
		TransportUnits: controllers.NewTransportUnitController(stores.NewFleetStore(store)),
		Tracking:       controllers.NewTrackingController(tracking),
		LocationStream: controllers.NewLocationStreamController(hub, cfg.CORSOrigins),
		Users:          controllers.NewUserController(users),

		Metrics:        promhttp.Handler(),
		AccessLog:      accessLog,
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		TrustedProxies: cfg.TrustedProxies,
	})
	if err != nil {
		logrus.WithError(err).Fatal("failed to set up router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go hub.Run(ctx)
	go func() {
		logrus.WithFields(logrus.Fields{
			"port":     cfg.Port,
			"store":    cfg.StoreDriver,
			"identity": cfg.IdentityDriver,
		}).Info("🚀 server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("HTTP server shutdown error")
	}
	if err := closeStore(shutdownCtx); err != nil {
		logrus.WithError(err).Error("document store close error")
	}
	logrus.Info("server stopped")
}
