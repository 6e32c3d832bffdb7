package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/fortuna/farmcheck/internal/eligibility"
	"github.com/fortuna/farmcheck/internal/service"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	analysis *service.AnalysisService
	reporter service.Reporter

	mu         sync.Mutex
	lastReport *eligibility.Report
}

// NewHandler creates a new handler
func NewHandler(analysis *service.AnalysisService, reporter service.Reporter) *Handler {
	if reporter == nil {
		reporter = service.NopReporter{}
	}
	return &Handler{
		analysis: analysis,
		reporter: reporter,
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "farmcheck",
		"version": "1.0.0",
	})
}

// RunAnalysis executes a full eligibility analysis and returns the report.
// Fatal pipeline errors (roster fetch, mapping load) come back as 502; the
// report itself carries non-fatal diagnostics and warnings.
func (h *Handler) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	report, err := h.analysis.Run(r.Context(), h.reporter)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Analysis failed", err)
		return
	}

	h.mu.Lock()
	h.lastReport = report
	h.mu.Unlock()

	respondJSON(w, http.StatusOK, report)
}

// GetLastAnalysis returns the most recent report without re-running.
func (h *Handler) GetLastAnalysis(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	report := h.lastReport
	h.mu.Unlock()

	if report == nil {
		respondError(w, http.StatusNotFound, "No analysis has been run yet", nil)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// DownloadCSV returns the most recent violation table as a CSV attachment.
func (h *Handler) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	report := h.lastReport
	h.mu.Unlock()

	if report == nil {
		respondError(w, http.StatusNotFound, "No analysis has been run yet", nil)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.CSVFileName()))
	w.WriteHeader(http.StatusOK)

	if err := report.WriteCSV(w); err != nil {
		// Headers are already gone; nothing left to do but log upstream.
		return
	}
}

// GetRules describes the eligibility rules the service enforces.
func (h *Handler) GetRules(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"minors_status": eligibility.MinorsStatus,
		"pitchers": map[string]interface{}{
			"positions": []string{"SP", "RP", "P"},
			"threshold": eligibility.PitcherIPThreshold,
			"label":     eligibility.PitcherThresholdLabel,
		},
		"batters": map[string]interface{}{
			"threshold": eligibility.BatterABThreshold,
			"label":     eligibility.BatterThresholdLabel,
		},
	})
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
