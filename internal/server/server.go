// Package server exposes the game over HTTP: session creation, attempt
// updates, and the leaderboard. Handlers stay thin; validation and store
// access live in the service layer.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/SANNNNN-123/threeDials/internal/service"
)

// Server routes the JSON API.
type Server struct {
	games  *service.Games
	board  *service.Leaderboard
	router chi.Router
}

// New wires the API routes over the given services.
func New(games *service.Games, board *service.Leaderboard) *Server {
	s := &Server{games: games, board: board}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/game", s.createGame)
		r.Get("/game/{id}", s.getGame)
		r.Put("/game", s.updateGame)
		r.Get("/leaderboard", s.getLeaderboard)
		r.Patch("/leaderboard", s.submitScore)
	})

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger logs one line per request with the final status.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
