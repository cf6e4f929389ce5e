// Package api provides the HTTP API for observing the event engine.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/galactic-events/internal/archive"
	"github.com/talgya/galactic-events/internal/engine"
)

// Server serves engine state over HTTP. All reads go through the engine's
// locked accessors, so they are safe while ticks run.
type Server struct {
	Eng      *engine.Engine
	DB       *archive.DB // optional; history endpoints degrade without it
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	knobLimiter := NewRateLimiter(60, time.Hour)

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/events/scheduled", s.handleScheduled)
	mux.HandleFunc("/api/v1/events/active", s.handleActive)
	mux.HandleFunc("/api/v1/events/history", s.handleHistory)
	mux.HandleFunc("/api/v1/events/archive", s.handleArchive)
	mux.HandleFunc("/api/v1/elections", s.handleElections)
	mux.HandleFunc("/api/v1/elections/", s.handleElectionDetail)
	mux.HandleFunc("/api/v1/participants/", s.handleParticipant)
	mux.HandleFunc("/api/v1/analytics", s.handleAnalytics)

	// Admin endpoints (POST requires bearer token; GET passes through).
	mux.HandleFunc("/api/v1/knobs", s.adminOnly(RateLimitMiddleware(knobLimiter, s.handleKnobs)))
	mux.HandleFunc("/api/v1/events/cancel", s.adminOnly(s.handleCancel))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
// GET requests pass through (for endpoints that support both GET and POST).
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no EVENTSIM_API_ADMIN_KEY set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Eng.CurrentStatus())
}

func (s *Server) handleScheduled(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Eng.ScheduledEvents())
}

func (s *Server) handleActive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Eng.ActiveEvents())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	writeJSON(w, s.Eng.History(limit))
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "archive not available", http.StatusServiceUnavailable)
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	rows, err := s.DB.RecentCompleted(limit)
	if err != nil {
		slog.Error("archive query failed", "error", err)
		writeJSON(w, []archive.CompletedRow{})
		return
	}
	if rows == nil {
		rows = []archive.CompletedRow{}
	}
	writeJSON(w, rows)
}

func (s *Server) handleElections(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Eng.Elections())
}

// handleElectionDetail serves GET /api/v1/elections/:id/polls.
func (s *Server) handleElectionDetail(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	if len(parts) < 5 || parts[4] == "" {
		http.Error(w, "missing election id", http.StatusBadRequest)
		return
	}
	id := parts[4]

	if len(parts) >= 6 && parts[5] == "polls" {
		writeJSON(w, s.Eng.PollsFor(id))
		return
	}

	for _, el := range s.Eng.Elections() {
		if el.ID == id {
			writeJSON(w, el)
			return
		}
	}
	http.Error(w, "election not found", http.StatusNotFound)
}

// handleParticipant serves GET /api/v1/participants/:id.
func (s *Server) handleParticipant(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	if len(parts) < 5 || parts[4] == "" {
		http.Error(w, "missing participant id", http.StatusBadRequest)
		return
	}

	ph := s.Eng.ParticipantLog(parts[4])
	if ph == nil {
		http.Error(w, "participant not found", http.StatusNotFound)
		return
	}
	writeJSON(w, ph)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Eng.ComputeAnalytics())
}

// handleKnobs returns the current knob values on GET and merges overrides on
// POST. Values are clamped to each knob's declared range; unknown names are
// rejected per key.
func (s *Server) handleKnobs(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var req map[string]float64
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rep := s.Eng.Knobs.Merge(req, "api")
		writeJSON(w, map[string]any{
			"applied":  rep.Applied,
			"rejected": rep.Rejected,
			"knobs":    s.Eng.Knobs.Snapshot(),
		})
		return
	}

	writeJSON(w, map[string]any{
		"knobs":       s.Eng.Knobs.Snapshot(),
		"definitions": s.Eng.Knobs.Defs(),
	})
}

// handleCancel requests cancellation of an active event by id.
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		EventID string `json:"event_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EventID == "" {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	s.Eng.RequestCancel(req.EventID)
	writeJSON(w, map[string]string{"requested": req.EventID})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("JSON encode failed", "error", err)
	}
}
