package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nbfc/backoffice/internal/application/importer"
	"github.com/nbfc/backoffice/internal/application/session"
	"github.com/nbfc/backoffice/internal/application/upload"
	"github.com/nbfc/backoffice/internal/bootstrap"
	"github.com/nbfc/backoffice/internal/domain/master"
	"github.com/nbfc/backoffice/internal/infrastructure/config"
	"github.com/nbfc/backoffice/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type harness struct {
	backend *testutil.FakeBackend
	cfg     *config.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	backend := testutil.NewFakeBackend(t)
	backend.Seed(master.TableOrganization,
		map[string]any{"id": "org-1", "organization_name": "Shree Finance"},
		map[string]any{"id": "org-2", "organization_name": "Metro Credit"},
	)
	return &harness{
		backend: backend,
		cfg: &config.Config{
			App: config.AppConfig{Name: "nbfcctl"},
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
			JWT:     config.JWTConfig{Secret: "cli-test-secret-at-least-32-chars!", AccessTokenExpiration: time.Hour},
		},
	}
}

// run executes one nbfcctl invocation with fresh services, as a new
// process would.
func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := newCLI(func(ctx context.Context) (*bootstrap.Services, error) {
		return bootstrap.Build(ctx, h.cfg, nil)
	})
	cmd := newRootCmd(c)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	require.NoError(t, c.close())
	return out.String(), err
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	_, err := h.run(t, "login", "--email", "admin@nbfc.com", "--password", session.DemoPassword)
	require.NoError(t, err)
}

func TestRequiresLogin(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "masters", "list", "areas")
	assert.ErrorIs(t, err, errNotLoggedIn)

	_, err = h.run(t, "login", "--email", "admin@nbfc.com", "--password", "nope")
	assert.EqualError(t, err, "invalid email or password")
}

func TestLoginPersistsAcrossInvocations(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	out, err := h.run(t, "whoami")
	require.NoError(t, err)
	var got sessionOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NotNil(t, got.User)
	assert.Equal(t, "admin@nbfc.com", got.User.Email)
	assert.Equal(t, "org-1", got.SelectedCompany.ID)

	out, err = h.run(t, "companies", "select", "org-2")
	require.NoError(t, err)
	assert.Contains(t, out, "Metro Credit")

	out, err = h.run(t, "companies")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "org-2", got.SelectedCompany.ID)

	_, err = h.run(t, "logout")
	require.NoError(t, err)
	_, err = h.run(t, "whoami")
	assert.ErrorIs(t, err, errNotLoggedIn)
}

func TestMastersCommands(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	out, err := h.run(t, "masters", "create", "areas", "--set", "area-name=Powai", "--set", "city=Mumbai", "--set", "is-active=on")
	require.NoError(t, err)
	var created master.Record
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	id := created.GetID()
	require.NotEmpty(t, id)

	_, err = h.run(t, "masters", "update", "areas", id, "--set", "city=Thane")
	require.NoError(t, err)
	rows := h.backend.Records(master.TableArea)
	require.Len(t, rows, 1)
	assert.Equal(t, "Thane", rows[0]["city"])
	assert.Equal(t, "Powai", rows[0]["areaName"])

	out, err = h.run(t, "masters", "get", "areas", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Thane")

	out, err = h.run(t, "masters", "list", "areas")
	require.NoError(t, err)
	var items []master.Record
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Len(t, items, 1)

	path := filepath.Join(t.TempDir(), "areas.xlsx")
	_, err = h.run(t, "masters", "export", "areas", "-o", path)
	require.NoError(t, err)
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	xrows, err := f.GetRows("Areas")
	require.NoError(t, err)
	assert.Len(t, xrows, 2)
	require.NoError(t, f.Close())

	_, err = h.run(t, "masters", "delete", "areas", id)
	require.NoError(t, err)
	assert.Empty(t, h.backend.Records(master.TableArea))

	_, err = h.run(t, "masters", "create", "areas", "--set", "city=Pune")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Please fill in the required fields")

	_, err = h.run(t, "masters", "list", "planets")
	assert.Error(t, err)

	_, err = h.run(t, "masters", "create", "areas", "--set", "no-equals-sign")
	assert.Error(t, err)
}

func TestMastersImport(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	path := filepath.Join(t.TempDir(), "castes.csv")
	require.NoError(t, os.WriteFile(path, []byte("Caste Name,category\nMaratha,OBC\n,SC\n"), 0o600))

	out, err := h.run(t, "masters", "import", "castes", path, "--dry-run")
	require.NoError(t, err)
	var result importer.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.ImportedRows)
	assert.Equal(t, 1, result.ErrorRows)
	assert.Empty(t, h.backend.Records(master.TableCaste))

	out, err = h.run(t, "masters", "import", "castes", path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1, result.ImportedRows)
	rows := h.backend.Records(master.TableCaste)
	require.Len(t, rows, 1)
	assert.Equal(t, "OBC", rows[0]["category"])

	_, err = h.run(t, "masters", "import", "castes", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestMastersKinds(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "masters", "kinds")
	require.NoError(t, err)
	assert.Contains(t, out, "loan-products")
	assert.Contains(t, out, "area-name*")
}

func TestFilesCommands(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	path := filepath.Join(t.TempDir(), "aadhaar.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 aadhaar"), 0o600))

	out, err := h.run(t, "files", "upload", path, "--category", "kyc")
	require.NoError(t, err)
	var results []upload.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	id := results[0].ID
	assert.Equal(t, "kyc", h.backend.Files()[id].Category)

	out, err = h.run(t, "files", "url", id)
	require.NoError(t, err)
	assert.Contains(t, out, "/mastergetfile/"+id)

	_, err = h.run(t, "files", "delete", id)
	require.NoError(t, err)
	assert.Empty(t, h.backend.Files())
}

func TestParseSet(t *testing.T) {
	form, err := parseSet([]string{"area-name=Powai", "pincode=400076", "note=a=b"})
	require.NoError(t, err)
	assert.Equal(t, "Powai", form.Get("area-name"))
	assert.Equal(t, "a=b", form.Get("note"))

	_, err = parseSet([]string{"=x"})
	assert.Error(t, err)
}
