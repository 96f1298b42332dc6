// Package httpapi is the HTTP shell over the query engine: request decoding,
// CORS, and the error envelope. All screening logic lives in internal/search.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/joelkehle/markcheck/internal/bootstrap"
	"github.com/joelkehle/markcheck/internal/search"
)

// Server wires the check and health endpoints.
type Server struct {
	engine   *search.Engine
	boot     *bootstrap.Service
	dbPath   string
	dbURLSet bool
	allowed  map[string]struct{}
	log      *zap.Logger
}

// NewServer returns the shell's handler. allowedOrigins empty means any
// origin is allowed (local fallback); otherwise only listed origins get CORS
// headers.
func NewServer(engine *search.Engine, boot *bootstrap.Service, dbPath string, dbURLSet bool, allowedOrigins []string, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	s := &Server{
		engine:   engine,
		boot:     boot,
		dbPath:   dbPath,
		dbURLSet: dbURLSet,
		allowed:  allowed,
		log:      log,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/check", s.withCORS(s.handleCheck))
	mux.HandleFunc("/health", s.withCORS(s.handleHealth))
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps a search error to the error envelope: a flat object with
// an "error" message, 400 for rejected requests, 503 when the index is
// unavailable.
func writeError(w http.ResponseWriter, err error) {
	var se *search.Error
	if errors.As(err, &se) {
		writeJSON(w, se.Status, map[string]any{"error": se.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
}

// withCORS reflects allowed origins. With an empty allow-list any origin is
// reflected, which is the local-development fallback.
func (s *Server) withCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			_, listed := s.allowed[origin]
			if len(s.allowed) == 0 || listed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

type checkPayload struct {
	Trademark      string `json:"trademark"`
	Country        string `json:"country"`
	Classes        string `json:"classes"`
	IncludePatents *bool  `json:"include_patents"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := s.boot.Ensure(r.Context()); err != nil {
		writeError(w, search.NewUnavailableError(err.Error()))
		return
	}

	var payload checkPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, search.NewValidationError("invalid json: "+err.Error()))
		return
	}

	includePatents := true
	if payload.IncludePatents != nil {
		includePatents = *payload.IncludePatents
	}

	resp, err := s.engine.Check(search.CheckRequest{
		Trademark:      payload.Trademark,
		Country:        payload.Country,
		Classes:        payload.Classes,
		IncludePatents: includePatents,
	})
	if err != nil {
		s.log.Warn("check rejected", zap.String("trademark", payload.Trademark), zap.Error(err))
		writeError(w, err)
		return
	}

	s.log.Info("check served",
		zap.String("trademark", resp.Trademark),
		zap.String("country", resp.Country),
		zap.String("risk", resp.RiskLevel),
		zap.Int("matches", resp.MatchCount),
		zap.Int("patents", resp.PatentCount))
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	err := s.boot.Ensure(r.Context())
	payload := map[string]any{
		"ok":                true,
		"index":             err == nil,
		"db_path":           s.dbPath,
		"db_url_configured": s.dbURLSet,
		"message":           "",
	}
	if err != nil {
		payload["message"] = err.Error()
	}
	writeJSON(w, http.StatusOK, payload)
}
