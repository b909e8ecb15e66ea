// Package screen implements the master-data CRUD screens: a list, a dialog
// in add, edit or view mode, and toasts for the outcome of each action.
package screen

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	appmaster "github.com/nbfc/backoffice/internal/application/master"
	"github.com/nbfc/backoffice/internal/domain/master"
	"github.com/nbfc/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// Mode is the dialog state of a screen
type Mode string

const (
	ModeClosed Mode = ""
	ModeAdd    Mode = "add"
	ModeEdit   Mode = "edit"
	ModeView   Mode = "view"
)

// State is a snapshot of a screen
type State struct {
	Items   []master.Record `json:"items"`
	Loading bool            `json:"loading"`
	Err     string          `json:"error,omitempty"`
	Mode    Mode            `json:"mode,omitempty"`
	Current master.Record   `json:"current,omitempty"`
}

// Screen is the controller behind one master list. It holds no cache:
// every Load refetches from the backend.
type Screen struct {
	desc     appmaster.Descriptor
	res      appmaster.RecordResource
	notifier Notifier
	validate *validator.Validate
	logger   *zap.Logger

	mu      sync.Mutex
	items   []master.Record
	loading bool
	err     string
	mode    Mode
	current master.Record
}

// Option configures a Screen
type Option func(*Screen)

// WithNotifier sets where toasts go
func WithNotifier(n Notifier) Option {
	return func(s *Screen) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger sets the screen logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Screen) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithValidator shares a validator instance between screens
func WithValidator(v *validator.Validate) Option {
	return func(s *Screen) {
		if v != nil {
			s.validate = v
		}
	}
}

// New creates a screen for desc backed by res
func New(desc appmaster.Descriptor, res appmaster.RecordResource, opts ...Option) *Screen {
	s := &Screen{
		desc:   desc,
		res:    res,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = NewToasts(DefaultToastLimit, s.logger)
	}
	if s.validate == nil {
		s.validate = validator.New()
	}
	return s
}

// Descriptor returns the entity descriptor
func (s *Screen) Descriptor() appmaster.Descriptor {
	return s.desc
}

// State returns a copy of the current state
func (s *Screen) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		Items:   make([]master.Record, len(s.items)),
		Loading: s.loading,
		Err:     s.err,
		Mode:    s.mode,
	}
	for i, r := range s.items {
		st.Items[i] = r.Clone()
	}
	if s.current != nil {
		st.Current = s.current.Clone()
	}
	return st
}

// Items returns a copy of the list
func (s *Screen) Items() []master.Record {
	return s.State().Items
}

// Load refetches the list. On failure the previous rows stay and the
// error is kept in State.Err.
func (s *Screen) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	items, err := s.res.GetAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = Message(err)
		s.logger.Warn("failed to load list", zap.String("table", s.desc.Table), zap.Error(err))
		s.notifier.Notify(Toast{Level: LevelError, Message: fmt.Sprintf("Failed to load %s: %s", s.desc.Title, s.err)})
		return err
	}
	s.items = items
	s.err = ""
	return nil
}

// OpenAdd opens an empty add dialog
func (s *Screen) OpenAdd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ModeAdd
	s.current = nil
}

// OpenEdit opens the edit dialog for a listed row
func (s *Screen) OpenEdit(id string) error {
	return s.open(ModeEdit, id)
}

// OpenView opens the read-only dialog for a listed row
func (s *Screen) OpenView(id string) error {
	return s.open(ModeView, id)
}

func (s *Screen) open(mode Mode, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.items {
		if r.GetID() == id {
			s.mode = mode
			s.current = r.Clone()
			return nil
		}
	}
	return shared.ErrNotFound.WithMessage(fmt.Sprintf("%s %q is not in the list", s.desc.Title, id))
}

// Close closes the dialog
func (s *Screen) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ModeClosed
	s.current = nil
}

// FormValues returns the dialog's form values for the current row
func (s *Screen) FormValues() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return url.Values{}
	}
	return s.desc.Fields.FormValues(s.current)
}

// Submit saves the dialog. The form is mapped through the entity's field
// map, required fields are checked, then the row is created (add) or
// updated (edit) and the list is refetched. The dialog stays open on
// failure.
func (s *Screen) Submit(ctx context.Context, form url.Values) (master.Record, error) {
	s.mu.Lock()
	mode := s.mode
	var id string
	if s.current != nil {
		id = s.current.GetID()
	}
	s.mu.Unlock()

	switch mode {
	case ModeAdd, ModeEdit:
	case ModeView:
		return nil, shared.ErrInvalidState.WithMessage("view dialogs are read-only")
	default:
		return nil, shared.ErrInvalidState.WithMessage("no dialog is open")
	}

	payload, err := s.desc.Fields.Payload(form)
	if err != nil {
		s.notifyErr(err)
		return nil, err
	}
	if err := s.checkRequired(form); err != nil {
		s.notifyErr(err)
		return nil, err
	}

	var saved master.Record
	verb := "created"
	if mode == ModeAdd {
		saved, err = s.res.Create(ctx, payload)
	} else {
		verb = "updated"
		saved, err = s.res.Update(ctx, id, payload)
	}
	if err != nil {
		s.logger.Warn("failed to save", zap.String("table", s.desc.Table), zap.String("mode", string(mode)), zap.Error(err))
		s.notifyErr(err)
		return nil, err
	}

	s.notifier.Notify(Toast{Level: LevelSuccess, Message: fmt.Sprintf("%s %s successfully", singular(s.desc.Title), verb)})
	s.Close()
	_ = s.Load(ctx)
	return saved, nil
}

// checkRequired applies the validator "required" rule to the trimmed input
// of each required field. A typed zero such as tenure 0 is a filled field.
func (s *Screen) checkRequired(form url.Values) error {
	var missing []string
	for _, f := range s.desc.Fields.Required() {
		if err := s.validate.Var(strings.TrimSpace(form.Get(f.Form)), "required"); err != nil {
			missing = append(missing, f.Title())
		}
	}
	if len(missing) > 0 {
		return shared.ErrInvalidInput.WithMessage("Please fill in the required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

// Delete removes a row. Optimistic screens drop the row first and put the
// exact previous list back when the call fails; others refetch after a
// successful delete.
func (s *Screen) Delete(ctx context.Context, id string) error {
	if !s.desc.Optimistic {
		if err := s.res.Delete(ctx, id); err != nil {
			s.logger.Warn("failed to delete", zap.String("table", s.desc.Table), zap.String("id", id), zap.Error(err))
			s.notifyErr(err)
			return err
		}
		s.notifier.Notify(Toast{Level: LevelSuccess, Message: singular(s.desc.Title) + " deleted successfully"})
		_ = s.Load(ctx)
		return nil
	}

	s.mu.Lock()
	snapshot := s.items
	kept := make([]master.Record, 0, len(snapshot))
	for _, r := range snapshot {
		if r.GetID() != id {
			kept = append(kept, r)
		}
	}
	s.items = kept
	s.mu.Unlock()

	if err := s.res.Delete(ctx, id); err != nil {
		s.mu.Lock()
		s.items = snapshot
		s.mu.Unlock()
		s.logger.Warn("delete failed, restored list", zap.String("table", s.desc.Table), zap.String("id", id), zap.Error(err))
		s.notifyErr(err)
		return err
	}
	s.notifier.Notify(Toast{Level: LevelSuccess, Message: singular(s.desc.Title) + " deleted successfully"})
	return nil
}

func (s *Screen) notifyErr(err error) {
	s.notifier.Notify(Toast{Level: LevelError, Message: Message(err)})
}

func singular(title string) string {
	switch {
	case strings.HasSuffix(title, "ies"):
		return strings.TrimSuffix(title, "ies") + "y"
	case strings.HasSuffix(title, "ches"):
		return strings.TrimSuffix(title, "es")
	case strings.HasSuffix(title, "men"):
		return strings.TrimSuffix(title, "men") + "man"
	case strings.HasSuffix(title, "s"):
		return strings.TrimSuffix(title, "s")
	}
	return title
}
