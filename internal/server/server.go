//-------------------------------------------------------------------------
//
// invtrack-mcp Investment Tracking Tool Server
//
//-------------------------------------------------------------------------

// Package server exposes the tool registry over HTTP. Tool calls are
// POSTed as JSON argument objects; responses are the tool envelopes.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/invtrack/invtrack-mcp/internal/logging"
	"github.com/invtrack/invtrack-mcp/internal/tools"
	"github.com/invtrack/invtrack-mcp/pkg/version"
)

// Server dispatches tool calls over HTTP against a store.
type Server struct {
	store      tools.Store
	apiKey     string
	httpServer *http.Server
}

// New creates a Server listening on port. An empty apiKey disables
// authentication.
func New(store tools.Store, port int, apiKey string) *Server {
	s := &Server{
		store:  store,
		apiKey: apiKey,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/tools", s.handleListTools)
	mux.HandleFunc("POST /v1/tools/{name}", s.handleToolCall)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.authMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start begins serving requests. It blocks until Shutdown is called or
// the listener fails.
func (s *Server) Start() error {
	logging.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info().Msg("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// authMiddleware enforces the shared-secret Bearer token on every route
// except /health. When no key is configured, all requests pass.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	database := "connected"

	if !s.store.Probe(r.Context()) {
		status = "degraded"
		code = http.StatusServiceUnavailable
		database = "disconnected"
	}

	writeJSON(w, code, map[string]any{
		"status":    status,
		"database":  database,
		"server":    "invtrack-mcp",
		"version":   version.Short(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	all := tools.All()
	listed := make([]map[string]string, 0, len(all))
	for _, t := range all {
		listed = append(listed, map[string]string{
			"name":        t.Name,
			"description": t.Description,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tools": listed,
		"count": len(listed),
	})
}

func (s *Server) handleToolCall(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	tool, err := tools.Get(name)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	// An empty body is a call with no arguments.
	args := tools.Args{}
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	start := time.Now()
	resp, err := tool.Handler(r.Context(), s.store, args)
	if err != nil {
		if tools.IsNotFound(err) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		logging.Error().Err(err).Str("tool", name).Msg("Tool call failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logging.Debug().
		Str("tool", name).
		Dur("duration", time.Since(start)).
		Msg("Tool call completed")

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{
		"status": "error",
		"error":  msg,
	})
}
