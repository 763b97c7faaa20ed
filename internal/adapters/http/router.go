package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/greenchainz/carbon-analysis/internal/config"
	"github.com/greenchainz/carbon-analysis/internal/core/domain"
	"github.com/greenchainz/carbon-analysis/internal/core/ports"
	"github.com/greenchainz/carbon-analysis/internal/observability/metrics"
)

const ownerIDHeader = "X-Owner-Id"

type Router struct {
	submitter ports.AnalysisSubmitter
	reader    ports.AnalysisReader
	metrics   *metrics.HTTPServerMetrics
	cfg       config.Config
}

func NewRouter(
	submitter ports.AnalysisSubmitter,
	reader ports.AnalysisReader,
	serverMetrics *metrics.HTTPServerMetrics,
	cfg config.Config,
) *Router {
	return &Router{
		submitter: submitter,
		reader:    reader,
		metrics:   serverMetrics,
		cfg:       cfg,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/analyses", rt.submitAnalysis)
	mux.HandleFunc("/v1/analyses/", rt.getAnalysisByID)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxConcurrent, 50*time.Millisecond)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware("api", handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) submitAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req domain.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ownerID := strings.TrimSpace(r.Header.Get(ownerIDHeader))
	if ownerID == "" {
		ownerID = "anonymous"
	}

	job, err := rt.submitter.Submit(r.Context(), ownerID, req)
	if err != nil {
		status := mapErrorToHTTPStatus(err)
		if rt.metrics != nil {
			rt.metrics.RecordAnalysisSubmission("api", submissionOutcome(status))
		}
		if status >= http.StatusInternalServerError {
			writeJSON(w, status, map[string]any{
				"analysis_id": "",
				"status":      domain.StatusFailed,
				"error":       err.Error(),
			})
			return
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordAnalysisSubmission("api", "accepted")
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"analysis_id": job.ID,
		"status":      job.Status,
	})
}

func (rt *Router) getAnalysisByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/analyses/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "analysis id is required"})
		return
	}

	job, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func submissionOutcome(status int) string {
	if status >= 500 {
		return "error"
	}
	return "rejected"
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
