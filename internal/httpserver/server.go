// internal/httpserver/server.go
//
// HTTP wiring for the game backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Thin REST surface over the session layer: POST /games/create,
//     POST /games/join.
//   - Guest identity endpoint: POST /auth/guest (see auth.go).
//   - Websocket endpoint /ws for the synchronization protocol, mounted
//     outside the request-timeout middleware because connections are
//     long-lived.
//
// Domain failures map onto status codes: rule violations → 400, unknown
// game id → 404.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/codenames-live/go-server/internal/hub"
	"github.com/codenames-live/go-server/internal/session"
	"github.com/codenames-live/go-server/internal/store"
)

// Server bundles the router, the session layer and the websocket hub.
type Server struct {
	r   *chi.Mux
	svc *session.Service
	hub *hub.Hub
}

// New constructs a Server, installs middleware, and registers routes.
func New(svc *session.Service, h *hub.Hub) *Server {
	s := &Server{r: chi.NewRouter(), svc: svc, hub: h}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(corsFromEnv)

	// Long-lived connection; no timeout middleware here.
	s.r.Get("/ws", h.ServeWS)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(jsonContentType)

		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"codenames-go","endpoints":["/health","POST /auth/guest","POST /games/create","POST /games/join","/ws"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"result":"Ok"}`))
		})

		r.Post("/auth/guest", s.handleGuest)

		r.With(s.withOptionalAuth()).Post("/games/create", s.handleCreateGame)
		r.With(s.withOptionalAuth()).Post("/games/join", s.handleJoinGame)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- games -------------------------------------

type createGameReq struct {
	UserID string `json:"userId"`
}

type joinGameReq struct {
	GameID string `json:"gameId"`
	UserID string `json:"userId"`
}

// handleCreateGame creates a new Idle game and returns the full entity.
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	userID := s.effectiveUserID(r, req.UserID)
	if userID == "" {
		http.Error(w, `{"error":"missing_user_id"}`, http.StatusBadRequest)
		return
	}
	g, err := s.svc.CreateGame(r.Context(), "", userID)
	if err != nil {
		log.Error().Err(err).Msg("create game")
		http.Error(w, `{"error":"create_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(g)
}

// handleJoinGame adds the user to an existing game and returns the updated
// entity. Unknown game ids map to 404.
func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	var req joinGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	userID := s.effectiveUserID(r, req.UserID)
	if req.GameID == "" || userID == "" {
		http.Error(w, `{"error":"missing_field"}`, http.StatusBadRequest)
		return
	}
	g, err := s.svc.JoinGame(r.Context(), "", req.GameID, userID)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"game_not_found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("gameId", req.GameID).Msg("join game")
		http.Error(w, `{"error":"join_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(g)
}

// effectiveUserID prefers the explicit body field and falls back to the
// authenticated guest identity.
func (s *Server) effectiveUserID(r *http.Request, bodyUserID string) string {
	if bodyUserID != "" {
		return bodyUserID
	}
	if u, ok := r.Context().Value(ctxUserKey{}).(*authUser); ok && u != nil {
		return u.ID
	}
	return ""
}
