// Package bootstrap wires the console services from configuration. The
// HTTP console and nbfcctl share it.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/nbfc/backoffice/internal/application/importer"
	appmaster "github.com/nbfc/backoffice/internal/application/master"
	"github.com/nbfc/backoffice/internal/application/screen"
	"github.com/nbfc/backoffice/internal/application/session"
	"github.com/nbfc/backoffice/internal/application/upload"
	"github.com/nbfc/backoffice/internal/infrastructure/auth"
	"github.com/nbfc/backoffice/internal/infrastructure/config"
	"github.com/nbfc/backoffice/internal/infrastructure/kv"
	"github.com/nbfc/backoffice/internal/infrastructure/restclient"
	"github.com/nbfc/backoffice/internal/infrastructure/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// Services holds everything a console front end needs
type Services struct {
	Config *config.Config
	Logger *zap.Logger
	Store  kv.Store
	Client *restclient.Client
	API    *appmaster.API
	// Session is the single local session used by nbfcctl
	Session *session.Session
	// Sessions holds one session per console operator
	Sessions    *session.Sessions
	Uploads     *upload.Service
	Importer    *importer.Importer
	JWT         *auth.JWTService
	Revocations *auth.Revocations
	Toasts      *screen.Toasts
	Metrics     *prometheus.Registry
}

// Build opens the session store, restores the operator session and wires
// the backend client, master APIs and upload driver.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Services, error) {
	if log == nil {
		log = zap.NewNop()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	store, err := kv.New(cfg.Session, cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	client := restclient.New(cfg.Backend.BaseURL(),
		restclient.WithLogger(log.Named("backend")),
		restclient.WithTimeout(cfg.Backend.Timeout),
		restclient.WithMetrics(restclient.NewMetrics(reg)),
	)

	var deleter *appmaster.GuarantorDeleter
	if cfg.Backend.GuarantorDeleteFallbacks {
		deleter = appmaster.NewGuarantorDeleter(client, true, appmaster.WithDeleterLogger(log))
	}
	api := appmaster.NewAPI(client, cfg.Backend.LegacyBaseURL(), deleter)

	sessLog := session.WithLogger(log.Named("session"))
	sess, err := session.New(ctx, store, api.Organizations, sessLog)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}

	uploader, err := storage.NewUploader(ctx, &cfg.Storage, client, log)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}

	toasts := screen.NewToasts(screen.DefaultToastLimit, log)

	return &Services{
		Config:   cfg,
		Logger:   log,
		Store:    store,
		Client:   client,
		API:      api,
		Session:  sess,
		Sessions: session.NewSessions(store, api.Organizations, sessLog),
		Uploads: upload.NewService(uploader,
			upload.WithTimeout(cfg.Backend.UploadTimeout),
			upload.WithLogger(log.Named("upload")),
		),
		Importer: importer.New(api.Registry,
			importer.WithNotifier(toasts),
			importer.WithLogger(log.Named("import")),
		),
		JWT:         auth.NewJWTService(cfg.JWT),
		Revocations: auth.NewRevocations(store),
		Toasts:      toasts,
		Metrics:     reg,
	}, nil
}

// Close stops company polling and releases the session store
func (s *Services) Close() error {
	s.Session.Stop()
	s.Sessions.Stop()
	return s.Store.Close()
}
