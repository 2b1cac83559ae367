package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/deckstats/internal/server/handlers"
	"github.com/ramonehamilton/deckstats/internal/server/response"
	"github.com/ramonehamilton/deckstats/internal/surface"
)

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no versioning)
	s.router.Get("/health", s.healthCheck)

	// WebSocket endpoint (no JSON content-type requirement)
	s.router.Get("/ws", s.wsHub.ServeWs)

	// Shell
	s.router.Get("/", s.assets.File("shell/index.html"))
	s.router.Get("/shell/*", s.assets.Under("shell/"))

	// Page-relative assets of the graphs page, and the same assets mounted
	// for markup loaded into the legacy surface.
	s.router.Get("/js/*", s.assets.Under("js/"))
	s.router.Get("/pages/*", s.assets.Under("pages/"))
	s.router.Get(surface.MountRoot+"*", s.assets.Under(""))

	if s.graphsSource != nil {
		s.router.Get("/graphs", s.graphs)
	}

	if s.stats == nil {
		return
	}

	s.router.Route("/api/v1", func(r chi.Router) {
		statsHandler := handlers.NewStatsHandler(s.stats)
		r.Get("/decks", statsHandler.GetDecks)
		r.Route("/stats", func(r chi.Router) {
			r.Post("/open", statsHandler.Open)
			r.Post("/deck", statsHandler.SelectDeck)
			r.Post("/card", statsHandler.SelectCard)
			r.Post("/scope", statsHandler.SetScope)
			r.Post("/period", statsHandler.SetPeriod)
			r.Post("/pdf", statsHandler.SavePDF)
			r.Post("/close", statsHandler.Close)
			r.Get("/cards", statsHandler.GetCards)
			r.Get("/state", statsHandler.GetState)
		})
	})
}

// healthCheck returns server health status.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.Data(w, map[string]any{
		"status":  "healthy",
		"shells":  s.wsHub.ClientCount(),
		"watched": s.watch,
	})
}
