package master

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nbfc/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind is the value type of a form field
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindDecimal
	KindBool
	KindDate
)

// DateLayout is the layout of date inputs
const DateLayout = "2006-01-02"

// Field maps one legacy form input onto an entity property.
type Field struct {
	Form     string // hyphenated form input name, e.g. "area-name"
	JSON     string // entity property, e.g. "areaName"
	Kind     Kind
	Required bool
	Label    string // optional; derived from Form when empty
}

// Title returns the human label of the field. A cases.Caser keeps state
// between calls, so each call builds its own.
func (f Field) Title() string {
	if f.Label != "" {
		return f.Label
	}
	return cases.Title(language.English).String(strings.ReplaceAll(f.Form, "-", " "))
}

// FieldMap is the declarative form <-> entity mapping of one master entity.
type FieldMap []Field

// Lookup finds a field by form name
func (m FieldMap) Lookup(form string) (Field, bool) {
	for _, f := range m {
		if f.Form == form {
			return f, true
		}
	}
	return Field{}, false
}

// Required returns the fields that must be non-empty on submit
func (m FieldMap) Required() []Field {
	var out []Field
	for _, f := range m {
		if f.Required {
			out = append(out, f)
		}
	}
	return out
}

// Titles returns the column labels in declaration order
func (m FieldMap) Titles() []string {
	out := make([]string, len(m))
	for i, f := range m {
		out[i] = f.Title()
	}
	return out
}

// Payload converts submitted form values into an entity payload keyed by
// JSON property. Inputs absent from the form are left out, except
// checkboxes, which browsers omit when unchecked.
func (m FieldMap) Payload(form url.Values) (Record, error) {
	payload := make(Record, len(m))
	for _, f := range m {
		values, present := form[f.Form]
		raw := ""
		if len(values) > 0 {
			raw = strings.TrimSpace(values[0])
		}

		if f.Kind == KindBool {
			payload[f.JSON] = parseCheckbox(raw)
			continue
		}
		if !present {
			continue
		}

		v, err := f.convert(raw)
		if err != nil {
			return nil, err
		}
		if v != nil {
			payload[f.JSON] = v
		}
	}
	return payload, nil
}

func (f Field) convert(raw string) (any, error) {
	switch f.Kind {
	case KindInt:
		if raw == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, shared.ErrInvalidInput.WithMessage(fmt.Sprintf("%s must be a whole number", f.Title()))
		}
		return n, nil
	case KindDecimal:
		if raw == "" {
			return nil, nil
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, shared.ErrInvalidInput.WithMessage(fmt.Sprintf("%s must be a number", f.Title()))
		}
		return json.Number(d.String()), nil
	case KindDate:
		if raw == "" {
			return "", nil
		}
		if _, err := time.Parse(DateLayout, raw); err != nil {
			return nil, shared.ErrInvalidInput.WithMessage(fmt.Sprintf("%s must be a date (YYYY-MM-DD)", f.Title()))
		}
		return raw, nil
	default:
		return raw, nil
	}
}

func parseCheckbox(raw string) bool {
	switch strings.ToLower(raw) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// FormValues renders a record back into form values for edit and view dialogs
func (m FieldMap) FormValues(r Record) url.Values {
	out := make(url.Values, len(m))
	for _, f := range m {
		v, ok := r[f.JSON]
		if !ok || v == nil {
			continue
		}
		if f.Kind == KindBool {
			if b, _ := v.(bool); b {
				out.Set(f.Form, "on")
			}
			continue
		}
		out.Set(f.Form, r.String(f.JSON))
	}
	return out
}
