package master

import (
	"fmt"
	"strconv"
	"strings"
)

// Company is the normalized organization shown in the company switcher
// and persisted as the selected company.
type Company struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// FallbackCompany is selected when the organization list cannot be fetched
// and nothing was selected before.
var FallbackCompany = Company{
	ID:   "default-company",
	Name: "NBFC Finance Ltd",
	Code: "NBFC",
}

var (
	companyIDKeys   = []string{"id", "_id", "company_id", "org_id"}
	companyNameKeys = []string{"name", "company_name", "org_name", "organization_name"}
	companyCodeKeys = []string{"code", "company_code", "org_code"}
)

// NormalizeCompany maps a backend organization record with any of the known
// field spellings into a Company. ok is false when no id can be found.
func NormalizeCompany(org Organization) (Company, bool) {
	c := Company{
		ID:   firstString(org, companyIDKeys),
		Name: firstString(org, companyNameKeys),
		Code: firstString(org, companyCodeKeys),
	}
	if c.ID == "" {
		return Company{}, false
	}
	if c.Name == "" {
		c.Name = c.ID
	}
	return c, true
}

// NormalizeCompanies normalizes a list, dropping records without an id
func NormalizeCompanies(orgs []Organization) []Company {
	out := make([]Company, 0, len(orgs))
	for _, org := range orgs {
		if c, ok := NormalizeCompany(org); ok {
			out = append(out, c)
		}
	}
	return out
}

// firstString returns the first non-empty value among keys, stringified
func firstString(m map[string]any, keys []string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch t := v.(type) {
		case string:
			s = t
		case float64:
			s = strconv.FormatFloat(t, 'f', -1, 64)
		default:
			s = fmt.Sprint(t)
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
