// Package server exposes the ingestion pipeline over HTTP: statement parse,
// import commit, and read endpoints for batches and mappings.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/ledgerkeep/ingest/pkg/config"
	"github.com/ledgerkeep/ingest/pkg/importer"
	"github.com/ledgerkeep/ingest/pkg/pipeline"
	"github.com/ledgerkeep/ingest/pkg/store"
)

// userHeader carries the caller's identity. Authentication itself is an
// external collaborator; the server only requires the header to be present.
const userHeader = "X-User-ID"

// Server handles HTTP requests for statement ingestion.
type Server struct {
	config    *config.Config
	logger    *log.Logger
	mux       *http.ServeMux
	pipeline  *pipeline.Pipeline
	committer *importer.Committer
	store     store.Store
}

// New creates an HTTP server around an assembled pipeline and committer.
func New(cfg *config.Config, logger *log.Logger, pl *pipeline.Pipeline, committer *importer.Committer, st store.Store) *Server {
	s := &Server{
		config:    cfg,
		logger:    logger,
		mux:       http.NewServeMux(),
		pipeline:  pl,
		committer: committer,
		store:     st,
	}
	s.setupRoutes()
	return s
}

// Start starts the HTTP server.
func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

// Handler returns the configured mux, for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/statements/parse", s.withLogging(s.withUser(s.handleParse)))
	s.mux.HandleFunc("/api/statements/import", s.withLogging(s.withUser(s.handleImport)))
	s.mux.HandleFunc("/api/imports", s.withLogging(s.withUser(s.handleListImports)))
	s.mux.HandleFunc("/api/mappings", s.withLogging(s.withUser(s.handleListMappings)))
}

// ---------------- parse ----------------

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request, userID string) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	file, header, err := r.FormFile("statement")
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "statement file required", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "failed to read statement file", err)
		return
	}

	mappings, err := s.store.ListMappings(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to load merchant mappings", err)
		return
	}

	accountID := r.FormValue("account_id")
	result, err := s.pipeline.ParseFile(data, header.Filename, accountID, mappings)
	switch {
	case errors.Is(err, pipeline.ErrUnsupportedFormat):
		s.respondError(w, r, http.StatusBadRequest, "unsupported file type, upload a CSV or PDF statement", err)
		return
	case errors.Is(err, pipeline.ErrStatementTooShort):
		s.respondError(w, r, http.StatusBadRequest, "could not extract text from this PDF, try exporting a CSV from your bank instead", err)
		return
	case err != nil:
		s.respondError(w, r, http.StatusInternalServerError, "failed to parse statement", err)
		return
	}

	if result.TotalCount == 0 {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "no transactions found in statement",
			"details": result.RawTextPreview,
		})
		return
	}

	s.logger.Info("statement parsed", "file", header.Filename, "total", result.TotalCount, "matched", result.MatchedCount)
	s.writeJSON(w, http.StatusOK, result)
}

// ---------------- import ----------------

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request, userID string) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	var req importer.Request
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.FileName == "" {
		s.respondError(w, r, http.StatusBadRequest, "file_name is required", nil)
		return
	}
	if len(req.Transactions) == 0 {
		s.respondError(w, r, http.StatusBadRequest, "no transactions to import", nil)
		return
	}
	for i, cand := range req.Transactions {
		if !cand.Amount.IsPositive() {
			s.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("transaction %d: amount must be positive", i), nil)
			return
		}
		if cand.Date == "" || cand.AccountID == "" {
			s.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("transaction %d: date and account_id are required", i), nil)
			return
		}
	}

	summary, err := s.committer.Commit(r.Context(), userID, req)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "import failed", err)
		return
	}

	s.logger.Info("statement imported", "file", req.FileName, "imported", summary.ImportedCount, "mappings_saved", summary.MappingsSaved, "row_errors", len(summary.Errors))
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":                 true,
		"imported_count":          summary.ImportedCount,
		"merchant_mappings_saved": summary.MappingsSaved,
	})
}

// ---------------- reads ----------------

func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request, userID string) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	batches, err := s.store.ListBatches(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to list imports", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"imports": batches, "count": len(batches)})
}

func (s *Server) handleListMappings(w http.ResponseWriter, r *http.Request, userID string) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	mappings, err := s.store.ListMappings(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to list mappings", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"mappings": mappings, "count": len(mappings)})
}

// --- helpers ---

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// respondError logs the error and writes the uniform error envelope.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	body := map[string]string{"error": message}
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
		body["details"] = err.Error()
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	s.writeJSON(w, status, body)
}

// withUser enforces the identity header.
func (s *Server) withUser(next func(w http.ResponseWriter, r *http.Request, userID string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(userHeader)
		if userID == "" {
			s.respondError(w, r, http.StatusUnauthorized, "missing user identity", nil)
			return
		}
		next(w, r, userID)
	}
}

// withLogging wraps a handler to log requests and recover panics.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next(w, r)
	}
}
