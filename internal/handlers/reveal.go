package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/AnshRaj112/multicrypto-funnel/internal/capture"
	"github.com/AnshRaj112/multicrypto-funnel/internal/countdown"
	"github.com/AnshRaj112/multicrypto-funnel/internal/playerbridge"
	"github.com/AnshRaj112/multicrypto-funnel/internal/reveal"
	"github.com/AnshRaj112/multicrypto-funnel/internal/session"
)

type CounterResponse struct {
	Success    bool      `json:"success"`
	Count      int64     `json:"count"`
	LastUpdate time.Time `json:"last_update"`
}

type CountdownResponse struct {
	Success bool           `json:"success"`
	Target  time.Time      `json:"target"`
	Tick    countdown.Tick `json:"tick"`
	Digits  [4]string      `json:"digits"`
}

type CTA struct {
	Visible bool   `json:"visible"`
	Link    string `json:"link,omitempty"`
}

type RevealResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message,omitempty"`
	Screen   capture.Screen  `json:"screen"`
	Greeting string          `json:"greeting,omitempty"`
	Player   reveal.Snapshot `json:"player"`
	CTA      CTA             `json:"cta"`
}

// GetCounter returns the social-proof counter.
func (h *Handler) GetCounter(w http.ResponseWriter, r *http.Request) {
	st := h.Counter.Current()
	writeJSON(w, http.StatusOK, CounterResponse{Success: true, Count: st.Count, LastUpdate: st.LastUpdate})
}

// GetCountdown returns the session's latest countdown tick. Callers without
// a session get a tick computed on the spot.
func (h *Handler) GetCountdown(w http.ResponseWriter, r *http.Request) {
	s, ok := h.existingSession(r)
	if !ok {
		target := h.Sessions.LaunchDate()
		tick := countdown.At(target, time.Now())
		writeJSON(w, http.StatusOK, CountdownResponse{
			Success: true,
			Target:  target,
			Tick:    tick,
			Digits:  tick.Current.Digits(),
		})
		return
	}
	tick := s.Countdown.Last()
	writeJSON(w, http.StatusOK, CountdownResponse{
		Success: true,
		Target:  s.Countdown.Target(),
		Tick:    tick,
		Digits:  tick.Current.Digits(),
	})
}

func (h *Handler) revealResponse(r *http.Request, s *session.Session) RevealResponse {
	resp := RevealResponse{
		Success: true,
		Screen:  s.Flow.Screen(),
		Player:  s.Reveal.Snapshot(),
	}
	lead, ok := s.Flow.Lead()
	if ok {
		resp.Greeting = h.t(r, "header.welcome", map[string]string{"name": lead.FirstName()})
	}
	if resp.Player.CTAVisible {
		name := lead.DisplayName
		if name == "" {
			name = h.t(r, "cta.defaultName", nil)
		}
		resp.CTA = CTA{
			Visible: true,
			Link:    reveal.WhatsAppLink(h.WhatsAppNumber, h.t(r, "cta.whatsappMessage", map[string]string{"name": name})),
		}
	}
	return resp
}

// GetReveal returns the player state and, once the video has played, the CTA.
func (h *Handler) GetReveal(w http.ResponseWriter, r *http.Request) {
	s, ok := h.existingSession(r)
	if !ok {
		writeJSON(w, http.StatusOK, RevealResponse{
			Success: true,
			Screen:  capture.ScreenForm,
			Player:  reveal.Snapshot{State: reveal.Idle, StateName: reveal.Idle.String()},
		})
		return
	}
	writeJSON(w, http.StatusOK, h.revealResponse(r, s))
}

// ToggleReveal is the play/pause button.
func (h *Handler) ToggleReveal(w http.ResponseWriter, r *http.Request) {
	s, ok := h.existingSession(r)
	if !ok || s.Flow.Screen() != capture.ScreenReveal {
		writeError(w, http.StatusConflict, "Reveal not available yet")
		return
	}
	s.Reveal.Toggle()
	writeJSON(w, http.StatusOK, h.revealResponse(r, s))
}

// PlayerWebSocket attaches the browser-side player to the session's bridge.
func (h *Handler) PlayerWebSocket(w http.ResponseWriter, r *http.Request) {
	s, ok := h.existingSession(r)
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	d, ok := s.Driver()
	if !ok {
		http.Error(w, "reveal not started", http.StatusConflict)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	logger := h.Logger.With(zap.String("session", s.ID))
	if err := playerbridge.Serve(s.Context(), conn, d, logger); err != nil {
		logger.Debug("player bridge closed", zap.Error(err))
	}
}
