// Package api serves the map generation engine over HTTP.
// GET endpoints are public (read-only). POST /generate requires a bearer
// token and is rate limited, since it may call the hosted batch source.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/solenne/mapforge/internal/engine"
	"github.com/solenne/mapforge/internal/export"
	"github.com/solenne/mapforge/internal/persistence"
	"github.com/solenne/mapforge/internal/placement"
)

// Server exposes the generation pipeline and saved maps over HTTP.
type Server struct {
	Gen      *engine.Generator
	DB       *persistence.DB
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Handler builds the route table. Split out from Start so tests can drive
// the server through httptest.
func (s *Server) Handler() http.Handler {
	generateLimiter := NewRateLimiter(30, time.Hour)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/maps", s.handleMaps)
	mux.HandleFunc("/api/v1/map/", s.handleMapDetail)
	mux.HandleFunc("/api/v1/export/", s.handleExport)
	mux.HandleFunc("/api/v1/generate", s.adminOnly(RateLimitMiddleware(generateLimiter, s.handleGenerate)))

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	handler := s.Handler()
	go func() {
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed editor origins.
// Set CORS_ORIGINS to a comma-separated list; localhost dev servers are
// always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly requires bearer token auth on POST requests.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "generation disabled (no MAPFORGE_ADMIN_KEY set)", http.StatusForbidden)
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
	mapCount := 0
	if s.DB != nil {
		if rows, err := s.DB.ListMaps(1000); err == nil {
			mapCount = len(rows)
		}
	}
	writeJSON(w, map[string]any{
		"engine": export.EngineVersion,
		"maps":   mapCount,
	})
}

func (s *Server) handleMaps(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}
	rows, err := s.DB.ListMaps(50)
	if err != nil {
		slog.Error("map listing failed", "error", err)
		http.Error(w, "listing failed", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []persistence.MapSummary{}
	}
	writeJSON(w, rows)
}

func (s *Server) loadMapByPath(w http.ResponseWriter, r *http.Request, prefix string) (export.Document, bool) {
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return export.Document{}, false
	}
	id := strings.TrimPrefix(r.URL.Path, prefix)
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "missing map id", http.StatusBadRequest)
		return export.Document{}, false
	}
	doc, err := s.DB.LoadMap(id)
	if errors.Is(err, persistence.ErrNotFound) {
		http.Error(w, "map not found", http.StatusNotFound)
		return export.Document{}, false
	}
	if err != nil {
		slog.Error("map load failed", "error", err, "id", id)
		http.Error(w, "load failed", http.StatusInternalServerError)
		return export.Document{}, false
	}
	return doc, true
}

func (s *Server) handleMapDetail(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadMapByPath(w, r, "/api/v1/map/")
	if !ok {
		return
	}
	writeJSON(w, doc)
}

// handleExport serves the document as a downloadable file.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadMapByPath(w, r, "/api/v1/export/")
	if !ok {
		return
	}
	data, err := doc.Marshal()
	if err != nil {
		http.Error(w, "marshal failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", doc.Settings.Name+".json"))
	w.Write(data)
}

// generateRequest is the POST /generate body.
type generateRequest struct {
	Name      string         `json:"name"`
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	Seed      int64          `json:"seed"`
	Theme     string         `json:"theme"`
	NoTerrain bool           `json:"no_terrain"`
	Counts    map[string]int `json:"counts"` // location type name → count
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	counts := make(map[placement.LocationType]int, len(req.Counts))
	for name, n := range req.Counts {
		t, err := placement.ParseLocationType(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if n < 0 {
			http.Error(w, fmt.Sprintf("negative count for %s", name), http.StatusBadRequest)
			return
		}
		counts[t] = n
	}

	name := req.Name
	if name == "" {
		name = "untitled"
	}

	result, err := s.Gen.Generate(engine.Params{
		Name:      name,
		Width:     req.Width,
		Height:    req.Height,
		Seed:      req.Seed,
		Theme:     req.Theme,
		NoTerrain: req.NoTerrain,
		Counts:    counts,
	})
	if err != nil {
		slog.Error("generation failed", "error", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if s.DB != nil {
		if err := s.DB.SaveMap(result.Document); err != nil {
			slog.Error("map save failed", "error", err)
			http.Error(w, "save failed", http.StatusInternalServerError)
			return
		}
	}

	writeJSON(w, result.Document)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encoding failed", "error", err)
	}
}
