package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/AnshRaj112/multicrypto-funnel/internal/apperr"
	"github.com/AnshRaj112/multicrypto-funnel/internal/capture"
	"github.com/AnshRaj112/multicrypto-funnel/internal/country"
	"github.com/AnshRaj112/multicrypto-funnel/internal/models"
)

// FormRequest carries the form fields. Empty country keeps the current one.
type FormRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Country string `json:"country,omitempty"`
}

type CountryRequest struct {
	Country string `json:"country"`
}

type SessionResponse struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message,omitempty"`
	Language string           `json:"language"`
	Form     capture.Snapshot `json:"form"`
}

type CountriesResponse struct {
	Success   bool                    `json:"success"`
	Default   string                  `json:"default"`
	Countries []models.CountryProfile `json:"countries"`
}

type DropdownResponse struct {
	Success bool `json:"success"`
	Open    bool `json:"open"`
}

type ValidateResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type SubmitResponse struct {
	Success  bool               `json:"success"`
	Message  string             `json:"message"`
	Screen   capture.Screen     `json:"screen"`
	Lead     *models.LeadRecord `json:"lead,omitempty"`
	Greeting string             `json:"greeting,omitempty"`
	Errors   map[string]string  `json:"errors,omitempty"`
}

// GetSession creates or resumes the session and returns the form state.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	writeJSON(w, http.StatusOK, SessionResponse{
		Success:  true,
		Language: h.lang(r),
		Form:     s.Flow.Snapshot(),
	})
}

// GetCountries lists the phone selector's countries.
func (h *Handler) GetCountries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CountriesResponse{
		Success:   true,
		Default:   country.DefaultCode,
		Countries: country.All(),
	})
}

// SelectCountry switches the phone country, clearing the phone field.
func (h *Handler) SelectCountry(w http.ResponseWriter, r *http.Request) {
	var req CountryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s := h.session(w, r)
	if err := s.Flow.SelectCountry(req.Country); err != nil {
		writeError(w, http.StatusBadRequest, h.t(r, apperr.KeyOf(err), nil))
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{Success: true, Language: h.lang(r), Form: s.Flow.Snapshot()})
}

func (h *Handler) ToggleDropdown(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	writeJSON(w, http.StatusOK, DropdownResponse{Success: true, Open: s.Flow.ToggleDropdown()})
}

// DismissDropdown is the outside-click handler; it never opens the selector.
func (h *Handler) DismissDropdown(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	writeJSON(w, http.StatusOK, DropdownResponse{Success: true, Open: s.Flow.DismissDropdown()})
}

// applyForm copies request fields into the flow. The country goes first
// since switching it clears the phone.
func applyForm(f *capture.Flow, req FormRequest) error {
	if c := strings.TrimSpace(req.Country); c != "" && !strings.EqualFold(c, f.Country().Code) {
		if err := f.SelectCountry(c); err != nil {
			return err
		}
	}
	f.SetName(req.Name)
	f.SetPhone(req.Phone)
	return nil
}

func (h *Handler) translateFields(r *http.Request, errs capture.FieldErrors) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	out := make(map[string]string, len(errs))
	for field, key := range errs {
		out[field] = h.t(r, key, nil)
	}
	return out
}

// Validate checks the form without submitting it.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req FormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s := h.session(w, r)
	if err := applyForm(s.Flow, req); err != nil {
		writeJSON(w, http.StatusBadRequest, ValidateResponse{
			Success: false,
			Errors:  map[string]string{capture.FieldCountry: h.t(r, apperr.KeyOf(err), nil)},
		})
		return
	}
	errs := s.Flow.Validate()
	if len(errs) > 0 {
		writeJSON(w, http.StatusOK, ValidateResponse{Success: false, Errors: h.translateFields(r, errs)})
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{Success: true})
}

// Submit stores the lead and moves the session to the reveal screen.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req FormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s := h.session(w, r)

	if s.Flow.Screen() == capture.ScreenForm {
		if err := applyForm(s.Flow, req); err != nil {
			writeJSON(w, http.StatusBadRequest, SubmitResponse{
				Success: false,
				Message: h.t(r, apperr.KeyOf(err), nil),
				Screen:  capture.ScreenForm,
				Errors:  map[string]string{capture.FieldCountry: h.t(r, apperr.KeyOf(err), nil)},
			})
			return
		}
	}

	lead, err := s.Flow.Submit(r.Context())
	if err != nil {
		var verr *capture.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, SubmitResponse{
				Success: false,
				Message: h.t(r, apperr.KeyOf(err), nil),
				Screen:  capture.ScreenForm,
				Errors:  h.translateFields(r, verr.Fields),
			})
		case errors.Is(err, capture.ErrSubmissionInFlight):
			writeJSON(w, http.StatusConflict, SubmitResponse{
				Success: false,
				Message: h.t(r, capture.KeyInFlight, nil),
				Screen:  capture.ScreenForm,
			})
		default:
			h.Logger.Error("submission failed", zap.String("session", s.ID), zap.Error(err))
			key := apperr.KeyOf(err)
			if key == "" {
				key = "capture.saveError"
			}
			writeJSON(w, http.StatusInternalServerError, SubmitResponse{
				Success: false,
				Message: h.t(r, key, nil),
				Screen:  capture.ScreenForm,
			})
		}
		return
	}

	writeJSON(w, http.StatusCreated, SubmitResponse{
		Success:  true,
		Message:  "Lead captured",
		Screen:   s.Flow.Screen(),
		Lead:     &lead,
		Greeting: h.t(r, "header.welcome", map[string]string{"name": lead.FirstName()}),
	})
}
