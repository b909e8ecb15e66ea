package importer

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/nbfc/backoffice/internal/application/export"
	appmaster "github.com/nbfc/backoffice/internal/application/master"
	"github.com/nbfc/backoffice/internal/application/screen"
	"github.com/nbfc/backoffice/internal/domain/master"
	"github.com/nbfc/backoffice/internal/domain/shared"
	"github.com/nbfc/backoffice/internal/infrastructure/restclient"
	"github.com/nbfc/backoffice/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, opts ...Option) (*testutil.FakeBackend, *Importer, *screen.Toasts) {
	t.Helper()
	backend := testutil.NewFakeBackend(t)
	api := appmaster.NewAPI(restclient.New(backend.BaseURL()), backend.LegacyBaseURL(), nil)
	toasts := screen.NewToasts(0, nil)
	opts = append([]Option{WithNotifier(toasts)}, opts...)
	return backend, New(api.Registry, opts...), toasts
}

func csvRequest(slug, body string) Request {
	return Request{Slug: slug, FileName: slug + ".csv", Body: strings.NewReader(body)}
}

func TestImport_CreatesRowsInOrder(t *testing.T) {
	backend, imp, toasts := setup(t)

	body := "Area Name,city,isActive,notes\n" +
		"Andheri,Mumbai,Yes,x\n" +
		",,,\n" +
		"Bandra,Mumbai,No,\n"
	res, err := imp.Import(context.Background(), csvRequest("areas", body))
	require.NoError(t, err)

	assert.Equal(t, 2, res.TotalRows)
	assert.Equal(t, 2, res.ImportedRows)
	assert.Equal(t, 1, res.SkippedRows)
	assert.Zero(t, res.ErrorRows)
	assert.Equal(t, []string{"notes"}, res.IgnoredColumns)

	rows := backend.Records(master.TableArea)
	require.Len(t, rows, 2)
	assert.Equal(t, "Andheri", rows[0]["areaName"])
	assert.Equal(t, true, rows[0]["isActive"])
	assert.Equal(t, "Bandra", rows[1]["areaName"])
	assert.Equal(t, false, rows[1]["isActive"])

	recent := toasts.Recent()
	require.Len(t, recent, 1)
	assert.Equal(t, screen.LevelSuccess, recent[0].Level)
	assert.Equal(t, "Imported 2 areas", recent[0].Message)
}

func TestImport_RowErrors(t *testing.T) {
	backend, imp, toasts := setup(t)

	body := "product-name,product-code,min-amount,max-amount,interest-rate,tenure-months\n" +
		"Gold,GL,1000,50000,12.5,12\n" +
		"Bad,BD,lots,50000,12.5,12\n" +
		",NM,1000,50000,12.5,12\n" +
		"gold,GL2,1000,50000,12.5,12\n"
	res, err := imp.Import(context.Background(), csvRequest("loan-products", body))
	require.NoError(t, err)

	assert.Equal(t, 4, res.TotalRows)
	assert.Equal(t, 1, res.ImportedRows)
	assert.Equal(t, 3, res.ErrorRows)
	require.Len(t, res.Errors, 3)

	assert.Equal(t, 3, res.Errors[0].Row)
	assert.Equal(t, ErrCodeInvalidFormat, res.Errors[0].Code)
	assert.Equal(t, "Min Amount must be a number", res.Errors[0].Message)

	assert.Equal(t, 4, res.Errors[1].Row)
	assert.Equal(t, ErrCodeRequiredField, res.Errors[1].Code)
	assert.Equal(t, "Product Name", res.Errors[1].Column)

	assert.Equal(t, 5, res.Errors[2].Row)
	assert.Equal(t, ErrCodeDuplicate, res.Errors[2].Code)
	assert.Equal(t, "duplicates row 2", res.Errors[2].Message)

	assert.Len(t, backend.Records(master.TableLoanProduct), 1)

	recent := toasts.Recent()
	require.Len(t, recent, 1)
	assert.Equal(t, screen.LevelError, recent[0].Level)
	assert.Equal(t, "Imported 1 loan products, 3 rows failed", recent[0].Message)
}

func TestImport_ZeroValuesAreFilled(t *testing.T) {
	backend, imp, _ := setup(t)

	body := "product-name,product-code,tenure-months,max-amount,min-amount,interest-rate\n" +
		"Gold,G1,0,100,0,0\n"
	res, err := imp.Import(context.Background(), csvRequest("loan-products", body))
	require.NoError(t, err)

	assert.Equal(t, 1, res.ImportedRows)
	assert.Empty(t, res.Errors)
	rows := backend.Records(master.TableLoanProduct)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 0, rows[0]["tenureMonths"])
}

func TestImport_FailedRowDoesNotClaimKey(t *testing.T) {
	header := "product-name,product-code,tenure-months,max-amount,min-amount,interest-rate\n"

	t.Run("invalid row", func(t *testing.T) {
		backend, imp, _ := setup(t)
		res, err := imp.Import(context.Background(), csvRequest("loan-products",
			header+"Gold,G1,abc,100,0,0\nGold,G1,10,100,0,0\n"))
		require.NoError(t, err)

		assert.Equal(t, 1, res.ImportedRows)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, ErrCodeInvalidFormat, res.Errors[0].Code)
		assert.Len(t, backend.Records(master.TableLoanProduct), 1)
	})

	t.Run("backend rejection", func(t *testing.T) {
		backend, imp, _ := setup(t)
		backend.FailOnce(http.MethodPost, "/api/v1/create_master", http.StatusInternalServerError, `{"message":"busy"}`)
		res, err := imp.Import(context.Background(), csvRequest("loan-products",
			header+"Gold,G1,10,100,0,0\nGold,G1,10,100,0,0\n"))
		require.NoError(t, err)

		assert.Equal(t, 1, res.ImportedRows)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, ErrCodeBackend, res.Errors[0].Code)
	})

	t.Run("dry run", func(t *testing.T) {
		_, imp, _ := setup(t)
		req := csvRequest("loan-products", header+"Gold,G1,abc,100,0,0\nGold,G1,10,100,0,0\ngold,G2,10,100,0,0\n")
		req.DryRun = true
		res, err := imp.Import(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, 1, res.ImportedRows)
		require.Len(t, res.Errors, 2)
		assert.Equal(t, ErrCodeInvalidFormat, res.Errors[0].Code)
		assert.Equal(t, RowError{Row: 4, Column: "Product Name", Code: ErrCodeDuplicate, Message: "duplicates row 3"}, res.Errors[1])
	})
}

func TestImport_BackendRejection(t *testing.T) {
	backend, imp, _ := setup(t)
	backend.FailOnce(http.MethodPost, "/api/v1/create_master", http.StatusBadRequest, `{"message":"duplicate caste"}`)

	res, err := imp.Import(context.Background(), csvRequest("castes", "caste-name\nMaratha\nKunbi\n"))
	require.NoError(t, err)

	assert.Equal(t, 1, res.ImportedRows)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, RowError{Row: 2, Code: ErrCodeBackend, Message: "duplicate caste"}, res.Errors[0])
	rows := backend.Records(master.TableCaste)
	require.Len(t, rows, 1)
	assert.Equal(t, "Kunbi", rows[0]["casteName"])
}

func TestImport_DryRun(t *testing.T) {
	backend, imp, toasts := setup(t)

	req := csvRequest("areas", "area-name\nAndheri\n\nBandra\n")
	req.DryRun = true
	res, err := imp.Import(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, res.DryRun)
	assert.Equal(t, 2, res.ImportedRows)
	assert.Zero(t, backend.CountRequests(http.MethodPost, "/api/v1/create_master"))
	assert.Empty(t, toasts.Recent())
}

func TestImport_FileErrors(t *testing.T) {
	_, imp, _ := setup(t, WithMaxRows(2))
	ctx := context.Background()

	_, err := imp.Import(ctx, csvRequest("planets", "name\nMars\n"))
	assert.True(t, errors.Is(err, shared.ErrUnknownMaster))

	_, err = imp.Import(ctx, csvRequest("areas", "city,state\nMumbai,MH\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	assert.Contains(t, err.Error(), "Missing required columns: Area Name")

	_, err = imp.Import(ctx, csvRequest("areas", "area-name\na\nb\nc\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than 2 rows")

	_, err = imp.Import(ctx, csvRequest("areas", ""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}

func TestImport_TruncatesErrors(t *testing.T) {
	_, imp, _ := setup(t, WithMaxErrors(2))

	res, err := imp.Import(context.Background(), csvRequest("areas", "area-name,city\n,a\n,b\n,c\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, res.ErrorRows)
	assert.Len(t, res.Errors, 2)
	assert.True(t, res.IsTruncated)
	assert.Equal(t, 3, res.TotalErrors)
}

func TestImport_Cancelled(t *testing.T) {
	_, imp, _ := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := imp.Import(ctx, csvRequest("areas", "area-name\nAndheri\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImport_ExportedWorkbookRoundTrip(t *testing.T) {
	backend, imp, _ := setup(t)
	desc := appmaster.Descriptors[0]
	require.Equal(t, "areas", desc.Slug)

	data, err := export.Workbook(desc, []master.Record{
		{"id": "a-1", "areaName": "Andheri", "city": "Mumbai", "isActive": true},
		{"id": "a-2", "areaName": "Pune Camp", "city": "Pune", "isActive": false},
	})
	require.NoError(t, err)

	res, err := imp.Import(context.Background(), Request{Slug: "areas", FileName: "areas.xlsx", Body: bytes.NewReader(data)})
	require.NoError(t, err)
	assert.Equal(t, 2, res.ImportedRows)

	rows := backend.Records(master.TableArea)
	require.Len(t, rows, 2)
	assert.Equal(t, "Pune Camp", rows[1]["areaName"])
	assert.Equal(t, true, rows[0]["isActive"])
}
