package importer

import "fmt"

// Row error codes
const (
	ErrCodeRequiredField = "ERR_IMPORT_REQUIRED_FIELD"
	ErrCodeInvalidFormat = "ERR_IMPORT_INVALID_FORMAT"
	ErrCodeDuplicate     = "ERR_IMPORT_DUPLICATE_IN_FILE"
	ErrCodeBackend       = "ERR_IMPORT_BACKEND"
)

// DefaultMaxErrors caps how many row errors a result carries
const DefaultMaxErrors = 100

// RowError is a failure tied to one line of the import file
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// errorList keeps the first max row errors and counts the rest
type errorList struct {
	items []RowError
	max   int
	total int
}

func newErrorList(max int) *errorList {
	if max <= 0 {
		max = DefaultMaxErrors
	}
	return &errorList{max: max}
}

func (l *errorList) add(e RowError) {
	l.total++
	if len(l.items) < l.max {
		l.items = append(l.items, e)
	}
}

func (l *errorList) truncated() bool {
	return l.total > len(l.items)
}
