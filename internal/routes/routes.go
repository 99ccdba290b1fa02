package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/multicrypto-funnel/internal/handlers"
	"github.com/AnshRaj112/multicrypto-funnel/internal/middleware"
)

func SetupRoutes(r *chi.Mux, h *handlers.Handler) {
	// Health check
	r.Get("/health", h.Health)

	// Session + capture form
	r.Get("/api/countries", h.GetCountries)
	r.Get("/api/session", h.GetSession)
	r.Post("/api/capture/country", h.SelectCountry)
	r.Post("/api/capture/dropdown/toggle", h.ToggleDropdown)
	r.Post("/api/capture/dropdown/dismiss", h.DismissDropdown)
	r.Post("/api/capture/validate", h.Validate)
	r.With(middleware.SubmitRateLimit).Post("/api/capture/submit", h.Submit)

	// Reveal screen
	r.Get("/api/counter", h.GetCounter)
	r.Get("/api/countdown", h.GetCountdown)
	r.Get("/api/reveal", h.GetReveal)
	r.Post("/api/reveal/toggle", h.ToggleReveal)

	// WebSocket endpoint for the embedded video player
	r.Get("/ws/player", h.PlayerWebSocket)
}
