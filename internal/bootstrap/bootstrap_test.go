package bootstrap

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nbfc/backoffice/internal/application/session"
	"github.com/nbfc/backoffice/internal/domain/master"
	"github.com/nbfc/backoffice/internal/infrastructure/config"
	"github.com/nbfc/backoffice/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, backend *testutil.FakeBackend) *config.Config {
	t.Helper()
	return &config.Config{
		App: config.AppConfig{Name: "nbfc-console", Env: "development"},
		Backend: config.BackendConfig{
			Origin:       backend.Server.URL,
			APIPrefix:    "/api/v1",
			LegacyPrefix: "/api/api/v1",
		},
		Session: config.SessionConfig{
			Store:        "sqlite",
			SQLitePath:   filepath.Join(t.TempDir(), "session.db"),
			PollInterval: time.Minute,
		},
		Storage: config.StorageConfig{Driver: "backend"},
		JWT: config.JWTConfig{
			Secret:                "bootstrap-test-secret-32-characters",
			AccessTokenExpiration: time.Hour,
			Issuer:                "nbfc-console",
		},
	}
}

func TestBuild_SessionSurvivesRestart(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Seed(master.TableOrganization, map[string]any{"id": "org-1", "organization_name": "Shree Finance"})
	cfg := testConfig(t, backend)
	ctx := context.Background()

	first, err := Build(ctx, cfg, nil)
	require.NoError(t, err)
	require.True(t, first.Session.Login(ctx, "manager@nbfc.com", session.DemoPassword))
	require.NoError(t, first.Close())

	second, err := Build(ctx, cfg, nil)
	require.NoError(t, err)
	defer second.Close()

	u, ok := second.Session.User()
	require.True(t, ok)
	assert.Equal(t, "manager@nbfc.com", u.Email)
	company, ok := second.Session.SelectedCompany()
	require.True(t, ok)
	assert.Equal(t, "org-1", company.ID)
}

func TestBuild_RecordsBackendMetrics(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	svc, err := Build(context.Background(), testConfig(t, backend), nil)
	require.NoError(t, err)
	defer svc.Close()

	_, err = svc.API.Areas.GetAll(context.Background())
	require.NoError(t, err)

	families, err := svc.Metrics.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, strings.Join(names, ","), "nbfc_backend_requests_total")
}

func TestBuild_RejectsUnknownStorage(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	cfg := testConfig(t, backend)
	cfg.Storage.Driver = "ftp"

	_, err := Build(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init storage")
}
