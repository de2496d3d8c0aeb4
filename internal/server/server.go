// Package server exposes the upload boundary and the session API over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/italord1/splitbill/internal/extract"
	"github.com/italord1/splitbill/internal/recognize"
	"github.com/italord1/splitbill/internal/session"
	"github.com/italord1/splitbill/internal/storage"
)

// maxUploadSize caps multipart bodies; phone photos of receipts stay well
// under this.
const maxUploadSize = 20 << 20 // 20MB

// Recognizer is the serialized OCR boundary the handlers call into.
type Recognizer interface {
	Recognize(ctx context.Context, path string) (string, error)
}

// Config wires the server's collaborators.
type Config struct {
	Sessions   *session.Service
	Recognizer Recognizer
	Extractor  *extract.Extractor
	// TmpDir is where uploaded images are staged before recognition.
	// Empty means the OS default temp dir.
	TmpDir  string
	Metrics *Metrics
}

// Server holds the HTTP handler state.
type Server struct {
	sessions   *session.Service
	recognizer Recognizer
	extractor  *extract.Extractor
	tmpDir     string
	metrics    *Metrics
}

// New builds the server and wires extraction metrics.
func New(cfg Config) *Server {
	s := &Server{
		sessions:   cfg.Sessions,
		recognizer: cfg.Recognizer,
		extractor:  cfg.Extractor,
		tmpDir:     cfg.TmpDir,
		metrics:    cfg.Metrics,
	}
	if s.extractor != nil {
		s.extractor.OnMatch = s.metrics.countExtracted
	}
	return s
}

// Handler builds the chi router.
func (s *Server) Handler(promRegistry *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(cors)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Post("/upload", s.handleUpload)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Put("/guests", s.handleSetGuests)
			r.Put("/tip", s.handleSetTip)
			r.Post("/items", s.handleAddItem)
			r.Delete("/items/{itemID}", s.handleRemoveItem)
			r.Post("/items/{itemID}/assignees", s.handleToggleAssignment)
			r.Post("/scan", s.handleScan)
			r.Get("/totals", s.handleTotals)
		})
	})

	return r
}

// handleUpload is the bare OCR boundary: multipart image in, raw recognized
// text out. Extraction is the caller's business.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	path, ok := s.stageUpload(w, r)
	if !ok {
		return
	}

	text, err := s.recognizer.Recognize(r.Context(), path)
	if err != nil {
		s.recognitionError(w, path, err)
		return
	}

	s.metrics.countUpload("ok")
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

// handleScan runs the full pipeline for a session: OCR, extraction, append
// to the session's items.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := s.sessions.Get(r.Context(), sessionID); err != nil {
		s.sessionError(w, err)
		return
	}

	path, ok := s.stageUpload(w, r)
	if !ok {
		return
	}

	text, err := s.recognizer.Recognize(r.Context(), path)
	if err != nil {
		s.recognitionError(w, path, err)
		return
	}

	candidates := s.extractor.Extract(text)
	added, err := s.sessions.MergeExtracted(r.Context(), sessionID, candidates)
	if err != nil {
		s.sessionError(w, err)
		return
	}

	s.metrics.countUpload("ok")
	writeJSON(w, http.StatusOK, map[string]any{
		"text":  text,
		"items": added,
	})
}

// stageUpload pulls the multipart image field into a temp file. On any
// failure it writes the response itself and returns ok=false.
func (s *Server) stageUpload(w http.ResponseWriter, r *http.Request) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, _, err := r.FormFile("image")
	if err != nil {
		s.metrics.countUpload("no_file")
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return "", false
	}
	defer file.Close()

	tmp, err := os.CreateTemp(s.tmpDir, "receipt-*.jpg")
	if err != nil {
		slog.Error("failed to create temp file", "error", err)
		s.metrics.countUpload("error")
		writeError(w, http.StatusInternalServerError, "OCR failed")
		return "", false
	}

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		removeQuietly(tmp.Name())
		slog.Error("failed to stage upload", "error", err)
		s.metrics.countUpload("error")
		writeError(w, http.StatusInternalServerError, "OCR failed")
		return "", false
	}
	if err := tmp.Close(); err != nil {
		removeQuietly(tmp.Name())
		slog.Error("failed to stage upload", "error", err)
		s.metrics.countUpload("error")
		writeError(w, http.StatusInternalServerError, "OCR failed")
		return "", false
	}

	return tmp.Name(), true
}

// recognitionError maps recognizer failures to the fixed response bodies.
// Accepted jobs have already had their temp file removed by the serializer;
// a rejected job's file is still ours to clean up.
func (s *Server) recognitionError(w http.ResponseWriter, path string, err error) {
	if errors.Is(err, recognize.ErrBusy) {
		removeQuietly(path)
		s.metrics.countUpload("busy")
		writeError(w, http.StatusServiceUnavailable, "Recognizer busy")
		return
	}
	s.metrics.countUpload("error")
	writeError(w, http.StatusInternalServerError, "OCR failed")
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	created, err := s.sessions.Create(r.Context())
	if err != nil {
		s.sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	got, err := s.sessions.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, got)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.sessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetGuests(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Guests string `json:"guests"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	updated, err := s.sessions.SetGuests(r.Context(), chi.URLParam(r, "sessionID"), body.Guests)
	if err != nil {
		s.sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleSetTip(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TipPercent float64 `json:"tip_percent"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	updated, err := s.sessions.SetTip(r.Context(), chi.URLParam(r, "sessionID"), body.TipPercent)
	if err != nil {
		s.sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	updated, err := s.sessions.AddItem(r.Context(), chi.URLParam(r, "sessionID"), body.Name, body.Price)
	if err != nil {
		s.sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	updated, err := s.sessions.RemoveItem(r.Context(), chi.URLParam(r, "sessionID"), chi.URLParam(r, "itemID"))
	if err != nil {
		s.sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleToggleAssignment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Guest string `json:"guest"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	updated, err := s.sessions.ToggleAssignment(r.Context(),
		chi.URLParam(r, "sessionID"), chi.URLParam(r, "itemID"), body.Guest)
	if err != nil {
		s.sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := s.sessions.ComputeTotals(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) sessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "Session not found")
	case errors.Is(err, session.ErrUnknownGuest), errors.Is(err, session.ErrUnknownItem):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("session operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func removeQuietly(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove temp image", "path", path, "error", err)
	}
}
