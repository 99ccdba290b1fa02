// Package handlers maps the funnel's HTTP surface onto the session core.
// Every JSON response carries {success, message} like the rest of the API.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/AnshRaj112/multicrypto-funnel/internal/i18n"
	"github.com/AnshRaj112/multicrypto-funnel/internal/models"
	"github.com/AnshRaj112/multicrypto-funnel/internal/session"
)

const SessionCookie = "funnel_session"

// CounterReader is the read side of the social-proof counter.
type CounterReader interface {
	Current() models.CounterState
}

type Deps struct {
	Sessions       *session.Registry
	Counter        CounterReader
	Catalog        *i18n.Catalog
	WhatsAppNumber string
	AllowedOrigins []string
	SecureCookies  bool
	SessionTTL     time.Duration
	Logger         *zap.Logger
}

type Handler struct {
	Deps
	upgrader websocket.Upgrader
}

func New(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	h := &Handler{Deps: d}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// GenericResponse is used for plain acknowledgements and errors.
type GenericResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, GenericResponse{Success: false, Message: message})
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

// lang picks the response language: an explicit ?lang= wins over Accept-Language.
func (h *Handler) lang(r *http.Request) string {
	if l := strings.TrimSpace(r.URL.Query().Get("lang")); l != "" {
		return h.Catalog.Match(l)
	}
	return h.Catalog.Match(r.Header.Get("Accept-Language"))
}

func (h *Handler) t(r *http.Request, key string, params map[string]string) string {
	return h.Catalog.Lookup(h.lang(r), key, params)
}

// session resumes the caller's session, issuing a new cookie when needed.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	s, created := h.Sessions.Resume(id)
	if created {
		cookie := &http.Cookie{
			Name:     SessionCookie,
			Value:    s.ID,
			Path:     "/",
			HttpOnly: true,
			Secure:   h.SecureCookies,
			SameSite: http.SameSiteLaxMode,
		}
		if h.SessionTTL > 0 {
			cookie.MaxAge = int(h.SessionTTL / time.Second)
		}
		http.SetCookie(w, cookie)
	}
	return s
}

// existingSession looks up the caller's session without creating one.
func (h *Handler) existingSession(r *http.Request) (*session.Session, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, false
	}
	return h.Sessions.Get(c.Value)
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" || len(h.AllowedOrigins) == 0 {
		return true
	}
	for _, a := range h.AllowedOrigins {
		if strings.EqualFold(strings.TrimSpace(a), origin) {
			return true
		}
	}
	return false
}
