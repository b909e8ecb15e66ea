// Package importer bulk-creates master records from CSV or xlsx sheets
// whose columns are the entity's form fields.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	appmaster "github.com/nbfc/backoffice/internal/application/master"
	"github.com/nbfc/backoffice/internal/application/screen"
	"github.com/nbfc/backoffice/internal/domain/master"
	"github.com/nbfc/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultMaxRows caps the data rows of one import
const DefaultMaxRows = 5000

// Request is one import file for a master entity
type Request struct {
	Slug     string
	FileName string
	Body     io.Reader
	// DryRun validates every row without creating anything
	DryRun bool
}

// Result summarizes an import
type Result struct {
	Slug           string     `json:"slug"`
	DryRun         bool       `json:"dryRun"`
	TotalRows      int        `json:"totalRows"`
	ImportedRows   int        `json:"importedRows"`
	SkippedRows    int        `json:"skippedRows"`
	ErrorRows      int        `json:"errorRows"`
	IgnoredColumns []string   `json:"ignoredColumns,omitempty"`
	Errors         []RowError `json:"errors,omitempty"`
	IsTruncated    bool       `json:"isTruncated,omitempty"`
	TotalErrors    int        `json:"totalErrors,omitempty"`
}

// Importer maps sheet rows through a master field map and creates them
// one by one in file order.
type Importer struct {
	registry  *appmaster.Registry
	notifier  screen.Notifier
	logger    *zap.Logger
	validate  *validator.Validate
	delimiter rune
	maxRows   int
	maxErrors int
}

// Option configures an Importer
type Option func(*Importer)

// WithNotifier sets where the completion toast goes
func WithNotifier(n screen.Notifier) Option {
	return func(i *Importer) {
		if n != nil {
			i.notifier = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithDelimiter sets the CSV field separator
func WithDelimiter(r rune) Option {
	return func(i *Importer) {
		i.delimiter = r
	}
}

// WithMaxRows overrides DefaultMaxRows
func WithMaxRows(n int) Option {
	return func(i *Importer) {
		if n > 0 {
			i.maxRows = n
		}
	}
}

// WithMaxErrors overrides DefaultMaxErrors
func WithMaxErrors(n int) Option {
	return func(i *Importer) {
		if n > 0 {
			i.maxErrors = n
		}
	}
}

type discard struct{}

func (discard) Notify(screen.Toast) {}

// New creates an Importer over the master registry
func New(registry *appmaster.Registry, opts ...Option) *Importer {
	i := &Importer{
		registry:  registry,
		notifier:  discard{},
		logger:    zap.NewNop(),
		validate:  validator.New(),
		delimiter: ',',
		maxRows:   DefaultMaxRows,
		maxErrors: DefaultMaxErrors,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Import reads req.Body and creates one record per non-blank row. Row
// failures are collected in the result; the returned error is reserved
// for problems with the file as a whole, an unknown slug or a cancelled
// context.
func (i *Importer) Import(ctx context.Context, req Request) (*Result, error) {
	desc, ok := i.registry.Lookup(req.Slug)
	if !ok {
		return nil, shared.ErrUnknownMaster.WithMessage("unknown master resource: " + req.Slug)
	}
	res, err := i.registry.Resource(req.Slug)
	if err != nil {
		return nil, err
	}

	table, err := ReadTable(req.FileName, req.Body, i.delimiter)
	if err != nil {
		return nil, shared.ErrInvalidInput.WithMessage(err.Error()).WithCause(err)
	}
	if len(table.Rows) > i.maxRows {
		return nil, shared.ErrInvalidInput.WithMessage(fmt.Sprintf("import file has more than %d rows", i.maxRows))
	}

	columns, ignored := mapColumns(desc.Fields, table.Headers)
	if missing := missingRequired(desc.Fields, columns); len(missing) > 0 {
		return nil, shared.ErrInvalidInput.WithMessage("Missing required columns: " + strings.Join(missing, ", "))
	}

	result := &Result{Slug: desc.Slug, DryRun: req.DryRun, IgnoredColumns: ignored}
	errs := newErrorList(i.maxErrors)
	key := keyField(desc.Fields)
	seen := make(map[string]int)

	for _, row := range table.Rows {
		if row.IsEmpty() {
			result.SkippedRows++
			continue
		}
		result.TotalRows++
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		form := make(url.Values, len(columns))
		for header, field := range columns {
			form.Set(field.Form, row.Values[header])
		}

		// only accepted rows claim their key
		var dupKey string
		if key != nil {
			dupKey = strings.ToLower(strings.TrimSpace(form.Get(key.Form)))
			if first, dup := seen[dupKey]; dup && dupKey != "" {
				errs.add(RowError{Row: row.Line, Column: key.Title(), Code: ErrCodeDuplicate,
					Message: fmt.Sprintf("duplicates row %d", first)})
				result.ErrorRows++
				continue
			}
		}
		accept := func() {
			if dupKey != "" {
				seen[dupKey] = row.Line
			}
			result.ImportedRows++
		}

		payload, rowErr := i.payload(desc.Fields, form, row.Line)
		if rowErr != nil {
			errs.add(*rowErr)
			result.ErrorRows++
			continue
		}
		if req.DryRun {
			accept()
			continue
		}

		if _, err := res.Create(ctx, payload); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			i.logger.Warn("import row rejected",
				zap.String("table", desc.Table), zap.Int("row", row.Line), zap.Error(err))
			errs.add(RowError{Row: row.Line, Code: ErrCodeBackend, Message: screen.Message(err)})
			result.ErrorRows++
			continue
		}
		accept()
	}

	result.Errors = errs.items
	result.IsTruncated = errs.truncated()
	if result.IsTruncated {
		result.TotalErrors = errs.total
	}

	i.logger.Info("master import finished",
		zap.String("table", desc.Table),
		zap.Bool("dry_run", req.DryRun),
		zap.Int("total", result.TotalRows),
		zap.Int("imported", result.ImportedRows),
		zap.Int("errors", result.ErrorRows),
	)
	if !req.DryRun {
		i.notify(desc, result)
	}
	return result, nil
}

func (i *Importer) payload(fields master.FieldMap, form url.Values, line int) (master.Record, *RowError) {
	payload, err := fields.Payload(form)
	if err != nil {
		msg := err.Error()
		var de *shared.DomainError
		if errors.As(err, &de) {
			msg = de.Message
		}
		return nil, &RowError{Row: line, Code: ErrCodeInvalidFormat, Message: msg}
	}
	for _, f := range fields.Required() {
		if err := i.validate.Var(strings.TrimSpace(form.Get(f.Form)), "required"); err != nil {
			return nil, &RowError{Row: line, Column: f.Title(), Code: ErrCodeRequiredField, Message: f.Title() + " is required"}
		}
	}
	return payload, nil
}

func (i *Importer) notify(desc appmaster.Descriptor, r *Result) {
	if r.ErrorRows == 0 {
		i.notifier.Notify(screen.Toast{Level: screen.LevelSuccess,
			Message: fmt.Sprintf("Imported %d %s", r.ImportedRows, strings.ToLower(desc.Title))})
		return
	}
	i.notifier.Notify(screen.Toast{Level: screen.LevelError,
		Message: fmt.Sprintf("Imported %d %s, %d rows failed", r.ImportedRows, strings.ToLower(desc.Title), r.ErrorRows)})
}

// mapColumns matches headers to fields by form name, entity property or
// title, ignoring case. Unmatched headers are returned separately.
func mapColumns(fields master.FieldMap, headers []string) (map[string]master.Field, []string) {
	byName := make(map[string]master.Field, len(fields)*3)
	for _, f := range fields {
		byName[strings.ToLower(f.Form)] = f
		byName[strings.ToLower(f.JSON)] = f
		byName[strings.ToLower(f.Title())] = f
	}

	columns := make(map[string]master.Field, len(headers))
	taken := make(map[string]bool, len(headers))
	var ignored []string
	for _, h := range headers {
		if h == "" {
			continue
		}
		f, ok := byName[strings.ToLower(h)]
		if !ok || taken[f.Form] {
			ignored = append(ignored, h)
			continue
		}
		taken[f.Form] = true
		columns[h] = f
	}
	return columns, ignored
}

func missingRequired(fields master.FieldMap, columns map[string]master.Field) []string {
	present := make(map[string]bool, len(columns))
	for _, f := range columns {
		present[f.Form] = true
	}
	var missing []string
	for _, f := range fields.Required() {
		if !present[f.Form] {
			missing = append(missing, f.Title())
		}
	}
	return missing
}

// keyField is the first required text field; rows repeating its value
// within one file are rejected.
func keyField(fields master.FieldMap) *master.Field {
	for _, f := range fields.Required() {
		if f.Kind == master.KindText {
			return &f
		}
	}
	return nil
}
