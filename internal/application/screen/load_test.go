package screen

import (
	"context"
	"net/http"
	"testing"

	"github.com/nbfc/backoffice/internal/domain/master"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAll(t *testing.T) {
	f := newFixture(t)
	f.backend.Seed(master.TableBranch, map[string]any{"id": "b-1", "branchName": "Pune Main"})
	f.backend.Seed(master.TableSalesMan, map[string]any{"id": "s-1", "salesManName": "Ajay", "branchId": "b-1"})
	salesmen := f.screen(t, "salesmen")
	branches := f.screen(t, "branches")

	require.NoError(t, LoadAll(context.Background(), salesmen, branches))

	man := salesmen.Items()[0]
	assert.Equal(t, "Pune Main", BranchName(branches.Items(), man.String("branchId")))
}

func TestLoadAll_ReturnsFirstErrorAndLoadsTheRest(t *testing.T) {
	f := newFixture(t)
	f.backend.Seed(master.TableSalesMan, map[string]any{"id": "s-1", "salesManName": "Ajay"})
	f.backend.Fail(http.MethodGet, "/api/v1/get_master/branch", http.StatusBadGateway, `{"message":"upstream"}`)
	salesmen := f.screen(t, "salesmen")
	branches := f.screen(t, "branches")

	err := LoadAll(context.Background(), salesmen, branches)
	require.Error(t, err)
	assert.Len(t, salesmen.Items(), 1)
	assert.Equal(t, "upstream", branches.State().Err)
}

func TestBranchName(t *testing.T) {
	branches := []master.Record{
		{"id": "b-1", "branchName": "Pune Main"},
		{"_id": "b-2", "branchName": "Nashik"},
		{"id": "b-3"},
	}
	assert.Equal(t, "Pune Main", BranchName(branches, "b-1"))
	assert.Equal(t, "Nashik", BranchName(branches, "b-2"))
	assert.Equal(t, "b-3", BranchName(branches, "b-3"))
	assert.Equal(t, "b-9", BranchName(branches, "b-9"))
	assert.Equal(t, "", BranchName(nil, ""))
}
