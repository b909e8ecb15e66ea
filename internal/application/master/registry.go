package master

import (
	"context"

	"github.com/nbfc/backoffice/internal/domain/master"
	"github.com/nbfc/backoffice/internal/domain/shared"
	"github.com/nbfc/backoffice/internal/infrastructure/restclient"
)

// Descriptor describes one master-data screen
type Descriptor struct {
	Slug   string
	Title  string
	Table  string
	Fields master.FieldMap
	// Optimistic screens remove a row locally before the delete call
	// resolves and restore it on failure.
	Optimistic bool
}

// Descriptors lists every master entity in menu order.
var Descriptors = []Descriptor{
	{Slug: "areas", Title: "Areas", Table: master.TableArea, Fields: master.AreaFields},
	{Slug: "castes", Title: "Castes", Table: master.TableCaste, Fields: master.CasteFields},
	{Slug: "education", Title: "Education", Table: master.TableEducation, Fields: master.EducationFields},
	{Slug: "relationships", Title: "Relationships", Table: master.TableRelationship, Fields: master.RelationshipFields},
	{Slug: "salesmen", Title: "Salesmen", Table: master.TableSalesMan, Fields: master.SalesManFields},
	{Slug: "references", Title: "References", Table: master.TableReference, Fields: master.ReferenceFields},
	{Slug: "kyc-documents", Title: "KYC Documents", Table: master.TableKYCDocument, Fields: master.KYCDocumentFields},
	{Slug: "guarantors", Title: "Guarantors", Table: master.TableGuarantor, Fields: master.GuarantorFields, Optimistic: true},
	{Slug: "loan-products", Title: "Loan Products", Table: master.TableLoanProduct, Fields: master.LoanProductFields},
	{Slug: "penalties", Title: "Penalties", Table: master.TablePenalty, Fields: master.PenaltyFields},
	{Slug: "objectives", Title: "Objectives", Table: master.TableObjective, Fields: master.ObjectiveFields},
	{Slug: "cancellation-reasons", Title: "Cancellation Reasons", Table: master.TableCancellationReason, Fields: master.CancellationReasonFields},
	{Slug: "branches", Title: "Branches", Table: master.TableBranch, Fields: master.BranchFields},
	{Slug: "organizations", Title: "Companies", Table: master.TableOrganization, Fields: master.OrganizationFields},
}

// RecordResource is the untyped CRUD API used by generic screens
type RecordResource interface {
	GetAll(ctx context.Context) ([]master.Record, error)
	GetByID(ctx context.Context, id string) (master.Record, error)
	Create(ctx context.Context, payload any) (master.Record, error)
	Update(ctx context.Context, id string, payload any) (master.Record, error)
	Delete(ctx context.Context, id string) error
}

// guarantorResource routes deletes through the strategy chain
type guarantorResource struct {
	*Resource[master.Record]
	deleter *GuarantorDeleter
}

func (g guarantorResource) Delete(ctx context.Context, id string) error {
	return g.deleter.Delete(ctx, id)
}

// Registry resolves route slugs to descriptors and untyped resources
type Registry struct {
	order     []Descriptor
	bySlug    map[string]Descriptor
	resources map[string]RecordResource
}

// NewRegistry builds the registry over client; guarantor deletes use deleter
func NewRegistry(client *restclient.Client, deleter *GuarantorDeleter) *Registry {
	r := &Registry{
		order:     Descriptors,
		bySlug:    make(map[string]Descriptor, len(Descriptors)),
		resources: make(map[string]RecordResource, len(Descriptors)),
	}
	for _, d := range Descriptors {
		r.bySlug[d.Slug] = d
		res := NewResource[master.Record](client, d.Table)
		if d.Table == master.TableGuarantor && deleter != nil {
			r.resources[d.Slug] = guarantorResource{Resource: res, deleter: deleter}
			continue
		}
		r.resources[d.Slug] = res
	}
	return r
}

// Descriptors returns all descriptors in menu order
func (r *Registry) Descriptors() []Descriptor {
	return r.order
}

// Lookup finds a descriptor by slug
func (r *Registry) Lookup(slug string) (Descriptor, bool) {
	d, ok := r.bySlug[slug]
	return d, ok
}

// Resource returns the untyped API for slug
func (r *Registry) Resource(slug string) (RecordResource, error) {
	res, ok := r.resources[slug]
	if !ok {
		return nil, shared.ErrUnknownMaster.WithMessage("unknown master resource: " + slug)
	}
	return res, nil
}
