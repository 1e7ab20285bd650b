package collector

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sycobuny/errtracker/pkg/tracker"
)

// maxReportBytes caps incoming report payloads.
const maxReportBytes = 4 << 20

// Server handles report submissions over HTTP.
type Server struct {
	store *Store
	log   *slog.Logger
}

// NewServer builds a Server over the given store. A nil logger falls back to
// slog.Default().
func NewServer(store *Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{store: store, log: log}
}

// Routes returns the collector's HTTP mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/errors", s.handleSubmit)
	mux.HandleFunc("GET /v1/errors", s.handleList)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var report tracker.Report
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxReportBytes))
	if err := dec.Decode(&report); err != nil {
		s.writeFailure(w, http.StatusBadRequest, fmt.Sprintf("invalid report payload: %v", err))
		return
	}

	if report.ReportVersion != tracker.ReportVersion {
		s.writeFailure(w, http.StatusBadRequest,
			fmt.Sprintf("unsupported report version %d", report.ReportVersion))
		return
	}

	reportID, err := s.store.SaveReport(r.Context(), &report)
	if err != nil {
		s.log.Error("failed to save report", "error", err)
		s.writeFailure(w, http.StatusInternalServerError, "failed to store report")
		return
	}

	s.log.Info("report stored",
		"report_id", reportID,
		"tracker_version", report.TrackerVersion,
		"errors", len(report.ErrorsTracked))

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"report_id":     reportID,
		"errors_stored": len(report.ErrorsTracked),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeFailure(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	errs, err := s.store.ListErrors(r.Context(), limit)
	if err != nil {
		s.log.Error("failed to list errors", "error", err)
		s.writeFailure(w, http.StatusInternalServerError, "failed to list errors")
		return
	}
	if errs == nil {
		errs = []StoredError{}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"errors": errs,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.db.PingContext(r.Context()); err != nil {
		s.writeFailure(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) writeFailure(w http.ResponseWriter, code int, reason string) {
	s.writeJSON(w, code, map[string]any{
		"status": "failure",
		"reason": reason,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("failed to encode response", "error", err)
	}
}
