package router

import (
	"github.com/gin-gonic/gin"
	"github.com/nbfc/backoffice/internal/application/importer"
	appmaster "github.com/nbfc/backoffice/internal/application/master"
	"github.com/nbfc/backoffice/internal/application/screen"
	"github.com/nbfc/backoffice/internal/application/session"
	"github.com/nbfc/backoffice/internal/application/upload"
	"github.com/nbfc/backoffice/internal/infrastructure/auth"
	"github.com/nbfc/backoffice/internal/infrastructure/config"
	"github.com/nbfc/backoffice/internal/infrastructure/logger"
	"github.com/nbfc/backoffice/internal/interfaces/http/handler"
	"github.com/nbfc/backoffice/internal/interfaces/http/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps are the services behind the console HTTP surface
type Deps struct {
	Config      *config.Config
	Logger      *zap.Logger
	Version     string
	Sessions    *session.Sessions
	JWT         *auth.JWTService
	Revocations *auth.Revocations
	API         *appmaster.API
	Uploads     *upload.Service
	Importer    *importer.Importer
	Toasts      *screen.Toasts
	// Metrics receives the HTTP metrics and is served on /metrics
	Metrics *prometheus.Registry
}

// NewConsole assembles the gin engine: middleware chain, health and
// metrics endpoints, and every console route under /api/v1.
func NewConsole(d Deps) *gin.Engine {
	cfg := d.Config
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if d.Toasts == nil {
		d.Toasts = screen.NewToasts(0, log)
	}
	if d.Importer == nil {
		d.Importer = importer.New(d.API.Registry, importer.WithNotifier(d.Toasts), importer.WithLogger(log))
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
			_ = engine.SetTrustedProxies(nil)
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if d.Metrics != nil {
		engine.Use(middleware.NewHTTPMetrics(d.Metrics).Middleware())
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{})))
	}

	system := handler.NewSystemHandler(cfg.App.Name, d.Version)
	engine.GET("/health", system.Health)

	jwtConfig := middleware.DefaultJWTConfig(d.JWT)
	jwtConfig.Logger = log
	if d.Revocations != nil {
		jwtConfig.Revocations = d.Revocations
	}

	var revoker handler.TokenRevoker
	if d.Revocations != nil {
		revoker = d.Revocations
	}
	authHandler := handler.NewAuthHandler(d.Sessions, d.JWT, revoker)

	r := NewRouter(engine, WithAuth(
		middleware.JWTAuthMiddleware(jwtConfig),
		middleware.OperatorSession(d.Sessions),
	))
	r.RegisterPublic(RegistrarFunc(authHandler.RegisterPublicRoutes))
	r.Register(authHandler).
		Register(system).
		Register(handler.NewCompanyHandler()).
		Register(handler.NewMasterHandler(d.API.Registry, d.Toasts)).
		Register(handler.NewImportHandler(d.Importer)).
		Register(handler.NewDashboardHandler(d.API.Registry, d.Toasts)).
		Register(handler.NewUserHandler(d.API.Users)).
		Register(handler.NewNotificationHandler(d.Toasts))
	if d.Uploads != nil {
		r.Register(handler.NewFileHandler(d.Uploads))
	}
	r.Setup()

	return engine
}
