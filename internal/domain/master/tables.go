package master

// Table discriminators sent as "tablename" to the generic master endpoints.
const (
	TableArea               = "area"
	TableCaste              = "caste"
	TableEducation          = "education"
	TableRelationship       = "relationship"
	TableSalesMan           = "salesman"
	TableReference          = "reference"
	TableKYCDocument        = "kyc_document"
	TableGuarantor          = "guarantor"
	TableLoanProduct        = "loan_product"
	TablePenalty            = "penalty"
	TableObjective          = "objective"
	TableCancellationReason = "cancellation_reason"
	TableOrganization       = "organization"
	TableBranch             = "branch"
)
