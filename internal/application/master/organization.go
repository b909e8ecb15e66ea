package master

import (
	"context"

	"github.com/nbfc/backoffice/internal/domain/master"
	"github.com/nbfc/backoffice/internal/infrastructure/restclient"
)

// OrganizationAPI reads the company list for the company switcher
type OrganizationAPI struct {
	res *Resource[master.Organization]
}

// NewOrganizationAPI creates the organization API
func NewOrganizationAPI(client *restclient.Client) *OrganizationAPI {
	return &OrganizationAPI{res: NewResource[master.Organization](client, master.TableOrganization)}
}

// Companies fetches organizations and normalizes their field names
func (a *OrganizationAPI) Companies(ctx context.Context) ([]master.Company, error) {
	orgs, err := a.res.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return master.NormalizeCompanies(orgs), nil
}
