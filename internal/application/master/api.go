package master

import (
	"github.com/nbfc/backoffice/internal/domain/master"
	"github.com/nbfc/backoffice/internal/infrastructure/restclient"
)

// API bundles the typed resource modules of every master entity
type API struct {
	Areas               *Resource[master.Area]
	Castes              *Resource[master.Caste]
	Education           *Resource[master.Education]
	Relationships       *Resource[master.Relationship]
	SalesMen            *Resource[master.SalesMan]
	References          *Resource[master.Reference]
	KYCDocuments        *Resource[master.KYCDocument]
	Guarantors          *Resource[master.Guarantor]
	LoanProducts        *Resource[master.LoanProduct]
	Penalties           *Resource[master.Penalty]
	Objectives          *Resource[master.Objective]
	CancellationReasons *Resource[master.CancellationReason]
	Branches            *Resource[master.Branch]
	Organizations       *OrganizationAPI
	Users               *UsersAPI

	GuarantorDeleter *GuarantorDeleter
	Registry         *Registry
}

// NewAPI wires every module onto client. Users go to legacyBaseURL.
func NewAPI(client *restclient.Client, legacyBaseURL string, deleter *GuarantorDeleter) *API {
	if deleter == nil {
		deleter = NewGuarantorDeleter(client, false)
	}
	return &API{
		Areas:               NewResource[master.Area](client, master.TableArea),
		Castes:              NewResource[master.Caste](client, master.TableCaste),
		Education:           NewResource[master.Education](client, master.TableEducation),
		Relationships:       NewResource[master.Relationship](client, master.TableRelationship),
		SalesMen:            NewResource[master.SalesMan](client, master.TableSalesMan),
		References:          NewResource[master.Reference](client, master.TableReference),
		KYCDocuments:        NewResource[master.KYCDocument](client, master.TableKYCDocument),
		Guarantors:          NewResource[master.Guarantor](client, master.TableGuarantor),
		LoanProducts:        NewResource[master.LoanProduct](client, master.TableLoanProduct),
		Penalties:           NewResource[master.Penalty](client, master.TablePenalty),
		Objectives:          NewResource[master.Objective](client, master.TableObjective),
		CancellationReasons: NewResource[master.CancellationReason](client, master.TableCancellationReason),
		Branches:            NewResource[master.Branch](client, master.TableBranch),
		Organizations:       NewOrganizationAPI(client),
		Users:               NewUsersAPI(client, legacyBaseURL),
		GuarantorDeleter:    deleter,
		Registry:            NewRegistry(client, deleter),
	}
}
