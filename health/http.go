package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// RunFunc produces a fresh report, typically one full probe battery.
type RunFunc func(ctx context.Context) (Report, error)

// LivenessHandler returns an HTTP handler for liveness probes.
// This is a simple check that the probe process is running.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// ReadinessHandler returns an HTTP handler for readiness probes.
// It runs the battery and answers 200 when the verdict passes.
func ReadinessHandler(run RunFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := run(r.Context())

		w.Header().Set("Content-Type", "text/plain")

		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("ERROR"))
			return
		}

		switch report.Status() {
		case StatusHealthy:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
		case StatusDegraded:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("DEGRADED"))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("UNHEALTHY"))
		}
	}
}

// HealthResponse is the serialized form of a report.
type HealthResponse struct {
	Status    string                   `json:"status" yaml:"status"`
	Passed    bool                     `json:"passed" yaml:"passed"`
	Timestamp string                   `json:"timestamp" yaml:"timestamp"`
	Checks    map[string]CheckResponse `json:"checks,omitempty" yaml:"checks,omitempty"`
	Error     string                   `json:"error,omitempty" yaml:"error,omitempty"`
}

// CheckResponse is the serialized form of a single check result.
type CheckResponse struct {
	Status   string         `json:"status" yaml:"status"`
	Passed   bool           `json:"passed" yaml:"passed"`
	Message  string         `json:"message,omitempty" yaml:"message,omitempty"`
	Warnings []string       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Duration string         `json:"duration,omitempty" yaml:"duration,omitempty"`
	Details  map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	Error    string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewHealthResponse converts a report into its serialized form.
func NewHealthResponse(report Report, now time.Time) HealthResponse {
	response := HealthResponse{
		Status:    report.Status().String(),
		Passed:    report.Passed(),
		Timestamp: now.UTC().Format(time.RFC3339),
		Checks:    make(map[string]CheckResponse, len(report.Entries)),
	}

	for _, e := range report.Entries {
		check := CheckResponse{
			Status:   e.Result.Status.String(),
			Passed:   e.Result.Passed(),
			Message:  e.Result.Message,
			Warnings: e.Result.Warnings,
			Duration: e.Result.Duration.String(),
			Details:  e.Result.Details,
		}
		if e.Result.Error != nil {
			check.Error = e.Result.Error.Error()
		}
		response.Checks[e.Name] = check
	}

	return response
}

// DetailedHandler returns an HTTP handler that provides detailed health information.
func DetailedHandler(run RunFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := run(r.Context())

		var response HealthResponse
		if err != nil {
			response = HealthResponse{
				Status:    StatusUnhealthy.String(),
				Timestamp: time.Now().UTC().Format(time.RFC3339),
				Error:     err.Error(),
			}
		} else {
			response = NewHealthResponse(report, time.Now())
		}

		w.Header().Set("Content-Type", "application/json")

		if response.Passed {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		_ = json.NewEncoder(w).Encode(response)
	}
}

// RegisterHandlers registers all health check handlers on the given mux.
func RegisterHandlers(mux *http.ServeMux, run RunFunc) {
	mux.HandleFunc("/healthz", LivenessHandler())
	mux.HandleFunc("/readyz", ReadinessHandler(run))
	mux.HandleFunc("/health", DetailedHandler(run))
}
