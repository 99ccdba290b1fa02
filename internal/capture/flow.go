// Package capture owns the lead form: field state, the country selector,
// validation and the single submission that moves the visitor to the
// reveal screen.
package capture

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/AnshRaj112/multicrypto-funnel/internal/apperr"
	"github.com/AnshRaj112/multicrypto-funnel/internal/country"
	"github.com/AnshRaj112/multicrypto-funnel/internal/models"
)

type Screen string

const (
	ScreenForm   Screen = "form"
	ScreenReveal Screen = "reveal"
)

const (
	FieldName    = "name"
	FieldPhone   = "phone"
	FieldCountry = "country"
)

const (
	KeyNameRequired   = "capture.nameRequired"
	KeyNameMin        = "capture.nameMin"
	KeyPhoneRequired  = "capture.phoneRequired"
	KeyCountryUnknown = "capture.countryUnknown"
	KeyInFlight       = "capture.inFlight"
)

const minNameLength = 3

// ErrSubmissionInFlight is returned while an earlier Submit has not resolved.
var ErrSubmissionInFlight = apperr.New(apperr.Validation, KeyInFlight, nil)

// Submitter persists a lead. *leadstore.Store satisfies it.
type Submitter interface {
	Submit(ctx context.Context, name, phone string) (models.LeadRecord, error)
}

type Snapshot struct {
	Screen       Screen             `json:"screen"`
	Name         string             `json:"name"`
	Phone        string             `json:"phone"`
	Country      string             `json:"country"`
	DropdownOpen bool               `json:"dropdown_open"`
	Submitting   bool               `json:"submitting"`
	Errors       FieldErrors        `json:"errors,omitempty"`
	Lead         *models.LeadRecord `json:"lead,omitempty"`
}

type Flow struct {
	store    Submitter
	activate func(ctx context.Context, lead models.LeadRecord)
	logger   *zap.Logger

	mu           sync.Mutex
	screen       Screen
	name         string
	phone        string
	country      models.CountryProfile
	dropdownOpen bool
	submitting   bool
	errors       FieldErrors
	lead         *models.LeadRecord
}

type Option func(*Flow)

// WithActivation registers what happens once a lead is stored, typically
// starting the reveal player. It runs outside the flow's lock.
func WithActivation(fn func(ctx context.Context, lead models.LeadRecord)) Option {
	return func(f *Flow) { f.activate = fn }
}

func WithLogger(logger *zap.Logger) Option {
	return func(f *Flow) {
		if logger != nil {
			f.logger = logger
		}
	}
}

func New(store Submitter, opts ...Option) *Flow {
	f := &Flow{
		store:   store,
		logger:  zap.NewNop(),
		screen:  ScreenForm,
		country: country.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flow) SetName(name string) {
	f.mu.Lock()
	f.name = name
	delete(f.errors, FieldName)
	f.mu.Unlock()
}

func (f *Flow) SetPhone(phone string) {
	f.mu.Lock()
	f.phone = phone
	delete(f.errors, FieldPhone)
	f.mu.Unlock()
}

// SelectCountry switches the phone country. The phone field is cleared since
// its mask no longer applies, and the dropdown closes.
func (f *Flow) SelectCountry(code string) error {
	c, ok := country.ByCode(strings.ToUpper(strings.TrimSpace(code)))
	if !ok {
		return apperr.New(apperr.Validation, KeyCountryUnknown, nil)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.country = c
	f.phone = ""
	f.dropdownOpen = false
	delete(f.errors, FieldPhone)
	return nil
}

// ToggleDropdown flips the selector and returns the new state.
func (f *Flow) ToggleDropdown() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dropdownOpen = !f.dropdownOpen
	return f.dropdownOpen
}

// DismissDropdown handles a click outside the selector. It only ever closes.
func (f *Flow) DismissDropdown() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dropdownOpen {
		f.dropdownOpen = false
	}
	return f.dropdownOpen
}

// Validate checks every field and records the result for the form.
// An empty map means the form may be submitted.
func (f *Flow) Validate() FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validateLocked()
}

func (f *Flow) validateLocked() FieldErrors {
	errs := FieldErrors{}

	name := strings.TrimSpace(f.name)
	switch {
	case name == "":
		errs[FieldName] = KeyNameRequired
	case utf8.RuneCountInString(name) < minNameLength:
		errs[FieldName] = KeyNameMin
	}

	if strings.TrimSpace(f.phone) == "" {
		errs[FieldPhone] = KeyPhoneRequired
	} else if err := country.Validate(f.phone, f.country); err != nil {
		errs[FieldPhone] = apperr.KeyOf(err)
	}

	f.errors = errs
	return errs
}

// Submit validates the form and stores the lead. On success the screen
// switches to reveal and the activation hook runs. A second call while one
// is outstanding returns ErrSubmissionInFlight; once a lead exists further
// calls return it unchanged.
func (f *Flow) Submit(ctx context.Context) (models.LeadRecord, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return models.LeadRecord{}, ErrSubmissionInFlight
	}
	if f.lead != nil {
		lead := *f.lead
		f.mu.Unlock()
		return lead, nil
	}
	if errs := f.validateLocked(); len(errs) > 0 {
		f.mu.Unlock()
		return models.LeadRecord{}, &ValidationError{Fields: errs.clone()}
	}
	name := strings.TrimSpace(f.name)
	phone := country.Normalize(f.phone, f.country)
	f.submitting = true
	f.mu.Unlock()

	rec, err := f.store.Submit(ctx, name, phone)

	f.mu.Lock()
	f.submitting = false
	if err != nil {
		f.mu.Unlock()
		f.logger.Error("lead submission failed", zap.Stringer("kind", apperr.KindOf(err)), zap.Error(err))
		return models.LeadRecord{}, err
	}
	f.lead = &rec
	f.screen = ScreenReveal
	f.mu.Unlock()

	f.logger.Info("lead captured",
		zap.String("id", rec.ID),
		zap.String("source", rec.Source),
		zap.String("country", f.Country().Code))

	if f.activate != nil {
		f.activate(ctx, rec)
	}
	return rec, nil
}

// Lead is the session identity, set once a submission succeeds.
func (f *Flow) Lead() (models.LeadRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lead == nil {
		return models.LeadRecord{}, false
	}
	return *f.lead, true
}

func (f *Flow) Country() models.CountryProfile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.country
}

func (f *Flow) Screen() Screen {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.screen
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := Snapshot{
		Screen:       f.screen,
		Name:         f.name,
		Phone:        f.phone,
		Country:      f.country.Code,
		DropdownOpen: f.dropdownOpen,
		Submitting:   f.submitting,
		Errors:       f.errors.clone(),
	}
	if f.lead != nil {
		lead := *f.lead
		s.Lead = &lead
	}
	return s
}
