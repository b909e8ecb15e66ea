package master

import (
	"github.com/shopspring/decimal"
)

// Entities mirror the backend records. IDs are assigned by the backend and
// never generated here. Cross-entity links (BranchID) are soft references.

// Area is a serviced locality
type Area struct {
	ID       string `json:"id,omitempty"`
	AreaName string `json:"areaName"`
	AreaCode string `json:"areaCode,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Pincode  string `json:"pincode,omitempty"`
	IsActive bool   `json:"isActive"`
}

func (a Area) GetID() string { return a.ID }

// Caste is a borrower demographic lookup
type Caste struct {
	ID          string `json:"id,omitempty"`
	CasteName   string `json:"casteName"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"isActive"`
}

func (c Caste) GetID() string { return c.ID }

// Education is a qualification lookup
type Education struct {
	ID            string `json:"id,omitempty"`
	EducationName string `json:"educationName"`
	Level         string `json:"level,omitempty"`
	Description   string `json:"description,omitempty"`
	IsActive      bool   `json:"isActive"`
}

func (e Education) GetID() string { return e.ID }

// Relationship is a kinship lookup used for nominees and guarantors
type Relationship struct {
	ID               string `json:"id,omitempty"`
	RelationshipName string `json:"relationshipName"`
	Description      string `json:"description,omitempty"`
	IsActive         bool   `json:"isActive"`
}

func (r Relationship) GetID() string { return r.ID }

// SalesMan is a field agent attached to a branch
type SalesMan struct {
	ID           string `json:"id,omitempty"`
	SalesManName string `json:"salesManName"`
	EmployeeCode string `json:"employeeCode,omitempty"`
	Mobile       string `json:"mobile,omitempty"`
	Email        string `json:"email,omitempty"`
	BranchID     string `json:"branchId,omitempty"`
	JoiningDate  string `json:"joiningDate,omitempty"`
	IsActive     bool   `json:"isActive"`
}

func (s SalesMan) GetID() string { return s.ID }

// Reference is a lead source attached to a branch
type Reference struct {
	ID            string `json:"id,omitempty"`
	ReferenceName string `json:"referenceName"`
	ReferenceType string `json:"referenceType,omitempty"`
	Mobile        string `json:"mobile,omitempty"`
	Address       string `json:"address,omitempty"`
	BranchID      string `json:"branchId,omitempty"`
	IsActive      bool   `json:"isActive"`
}

func (r Reference) GetID() string { return r.ID }

// KYCDocument describes a document requirement for onboarding
type KYCDocument struct {
	ID           string `json:"id,omitempty"`
	DocumentName string `json:"documentName"`
	DocumentType string `json:"documentType,omitempty"`
	IsMandatory  bool   `json:"isMandatory"`
	Description  string `json:"description,omitempty"`
	IsActive     bool   `json:"isActive"`
}

func (k KYCDocument) GetID() string { return k.ID }

// Guarantor stands surety for a borrower
type Guarantor struct {
	ID            string `json:"id,omitempty"`
	GuarantorName string `json:"guarantorName"`
	FatherName    string `json:"fatherName,omitempty"`
	Mobile        string `json:"mobile,omitempty"`
	Address       string `json:"address,omitempty"`
	Occupation    string `json:"occupation,omitempty"`
	RelationID    string `json:"relationId,omitempty"`
	AadharNumber  string `json:"aadharNumber,omitempty"`
	PANNumber     string `json:"panNumber,omitempty"`
	DocumentID    string `json:"documentId,omitempty"`
	Status        string `json:"status,omitempty"`
}

func (g Guarantor) GetID() string { return g.ID }

// LoanProduct is a sanctioned loan scheme
type LoanProduct struct {
	ID            string          `json:"id,omitempty"`
	ProductName   string          `json:"productName"`
	ProductCode   string          `json:"productCode,omitempty"`
	MinAmount     decimal.Decimal `json:"minAmount"`
	MaxAmount     decimal.Decimal `json:"maxAmount"`
	InterestRate  decimal.Decimal `json:"interestRate"`
	ProcessingFee decimal.Decimal `json:"processingFee"`
	TenureMonths  int             `json:"tenureMonths"`
	InterestType  string          `json:"interestType,omitempty"`
	IsActive      bool            `json:"isActive"`
}

func (l LoanProduct) GetID() string { return l.ID }

// Penalty is a late-payment charge rule
type Penalty struct {
	ID          string          `json:"id,omitempty"`
	PenaltyName string          `json:"penaltyName"`
	PenaltyType string          `json:"penaltyType,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	GraceDays   int             `json:"graceDays"`
	Description string          `json:"description,omitempty"`
	IsActive    bool            `json:"isActive"`
}

func (p Penalty) GetID() string { return p.ID }

// Objective is a loan purpose lookup
type Objective struct {
	ID            string `json:"id,omitempty"`
	ObjectiveName string `json:"objectiveName"`
	Description   string `json:"description,omitempty"`
	IsActive      bool   `json:"isActive"`
}

func (o Objective) GetID() string { return o.ID }

// CancellationReason is a loan cancellation lookup
type CancellationReason struct {
	ID          string `json:"id,omitempty"`
	ReasonName  string `json:"reasonName"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"isActive"`
}

func (c CancellationReason) GetID() string { return c.ID }

// Branch is an office of the selected company
type Branch struct {
	ID         string `json:"id,omitempty"`
	BranchName string `json:"branchName"`
	BranchCode string `json:"branchCode,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	Phone      string `json:"phone,omitempty"`
	IsActive   bool   `json:"isActive"`
}

func (b Branch) GetID() string { return b.ID }

// Organization is the backend's company record. Field names vary between
// deployments, so it is decoded loosely and normalized into a Company.
type Organization map[string]any
