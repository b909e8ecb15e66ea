package master

var AreaFields = FieldMap{
	{Form: "area-name", JSON: "areaName", Required: true},
	{Form: "area-code", JSON: "areaCode"},
	{Form: "city", JSON: "city"},
	{Form: "state", JSON: "state"},
	{Form: "pincode", JSON: "pincode"},
	{Form: "is-active", JSON: "isActive", Kind: KindBool, Label: "Active"},
}

var CasteFields = FieldMap{
	{Form: "caste-name", JSON: "casteName", Required: true},
	{Form: "category", JSON: "category"},
	{Form: "description", JSON: "description"},
	{Form: "is-active", JSON: "isActive", Kind: KindBool, Label: "Active"},
}

var EducationFields = FieldMap{
	{Form: "education-name", JSON: "educationName", Required: true},
	{Form: "level", JSON: "level"},
	{Form: "description", JSON: "description"},
	{Form: "is-active", JSON: "isActive", Kind: KindBool, Label: "Active"},
}

var RelationshipFields = FieldMap{
	{Form: "relationship-name", JSON: "relationshipName", Required: true},
	{Form: "description", JSON: "description"},
	{Form: "is-active", JSON: "isActive", Kind: KindBool, Label: "Active"},
}

var SalesManFields = FieldMap{
	{Form: "salesman-name", JSON: "salesManName", Required: true, Label: "Salesman Name"},
	{Form: "employee-code", JSON: "employeeCode", Required: true},
	{Form: "mobile", JSON: "mobile", Required: true},
	{Form: "email", JSON: "email"},
	{Form: "branch-id", JSON: "branchId", Label: "Branch"},
	{Form: "joining-date", JSON: "joiningDate", Kind: KindDate},
	{Form: "is-active", JSON: "isActive", Kind: KindBool, Label: "Active"},
}

var ReferenceFields = FieldMap{
	{Form: "reference-name", JSON: "referenceName", Required: true},
	{Form: "reference-type", JSON: "referenceType"},
	{Form: "mobile", JSON: "mobile"},
	{Form: "address", JSON: "address"},
	{Form: "branch-id", JSON: "branchId", Label: "Branch"},
	{Form: "is-active", JSON: "isActive", Kind: KindBool, Label: "Active"},
}

var KYCDocumentFields = FieldMap{
	{Form: "document-name", JSON: "documentName", Required: true},
	{Form: "document-type", JSON: "documentType", Required: true},
	{Form: "is-mandatory", JSON: "isMandatory", Kind: KindBool, Label: "Mandatory"},
	{Form: "description", JSON: "description"},
	{Form: "is-active", JSON: "isActive", Kind: KindBool, Label: "Active"},
}

var GuarantorFields = FieldMap{
	{Form: "guarantor-name", JSON: "guarantorName", Required: true},
	{Form: "father-name", JSON: "fatherName"},
	{Form: "mobile", JSON: "mobile", Required: true},
	{Form: "address", JSON: "address"},
	{Form: "occupation", JSON: "occupation"},
	{Form: "relation-id", JSON: "relationId", Label: "Relationship"},
	{Form: "aadhar-number", JSON: "aadharNumber"},
	{Form: "pan-number", JSON: "panNumber", Label: "PAN Number"},
	{Form: "document-id", JSON: "documentId", Label: "Document"},
}

var LoanProductFields = FieldMap{
	{Form: "product-name", JSON: "productName", Required: true},
	{Form: "product-code", JSON: "productCode", Required: true},
	{Form: "min-amount", JSON: "minAmount", Kind: KindDecimal, Required: true},
	{Form: "max-amount", JSON: "maxAmount", Kind: KindDecimal, Required: true},
	{Form: "interest-rate", JSON: "interestRate", Kind: KindDecimal, Required: true},
	{Form: "processing-fee", JSON: "processingFee", Kind: KindDecimal},
	{Form: "tenure-months", JSON: "tenureMonths", Kind: KindInt, Required: true},
	{Form: "interest-type", JSON: "interestType"},
	{Form: "is-active", JSON: "isActive", Kind: KindBool, Label: "Active"},
}

var PenaltyFields = FieldMap{
	{Form: "penalty-name", JSON: "penaltyName", Required: true},
	{Form: "penalty-type", JSON: "penaltyType"},
	{Form: "amount", JSON: "amount", Kind: KindDecimal, Required: true},
	{Form: "grace-days", JSON: "graceDays", Kind: KindInt},
	{Form: "description", JSON: "description"},
	{Form: "is-active", JSON: "isActive", Kind: KindBool, Label: "Active"},
}

var ObjectiveFields = FieldMap{
	{Form: "objective-name", JSON: "objectiveName", Required: true},
	{Form: "description", JSON: "description"},
	{Form: "is-active", JSON: "isActive", Kind: KindBool, Label: "Active"},
}

var CancellationReasonFields = FieldMap{
	{Form: "reason-name", JSON: "reasonName", Required: true},
	{Form: "description", JSON: "description"},
	{Form: "is-active", JSON: "isActive", Kind: KindBool, Label: "Active"},
}

var BranchFields = FieldMap{
	{Form: "branch-name", JSON: "branchName", Required: true},
	{Form: "branch-code", JSON: "branchCode"},
	{Form: "address", JSON: "address"},
	{Form: "city", JSON: "city"},
	{Form: "phone", JSON: "phone"},
	{Form: "is-active", JSON: "isActive", Kind: KindBool, Label: "Active"},
}

var OrganizationFields = FieldMap{
	{Form: "org-name", JSON: "name", Required: true, Label: "Company Name"},
	{Form: "org-code", JSON: "code", Label: "Company Code"},
	{Form: "address", JSON: "address"},
	{Form: "email", JSON: "email"},
	{Form: "phone", JSON: "phone"},
}
