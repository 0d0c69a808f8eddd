package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/encore/internal/app"
	"github.com/shrimpsizemoose/encore/internal/metrics"
	"github.com/shrimpsizemoose/encore/internal/models"
)

type Handler struct {
	service *app.Service
}

func NewHandler(service *app.Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/entries/{entry}/performance", h.instrument(h.HandleEnsurePerformance))
	mux.HandleFunc("PUT /api/v1/entries/{entry}/item-number", h.instrument(h.HandleAssignItemNumber))
	mux.HandleFunc("POST /api/v1/events/{event}/reconcile", h.instrument(h.HandleReconcileEvent))
	mux.HandleFunc("PUT /api/v1/events/{event}/running-order", h.instrument(h.HandleRunningOrder))

	mux.HandleFunc("PUT /api/v1/performances/{performance}/status", h.instrument(h.HandleSetStatus))
	mux.HandleFunc("GET /api/v1/performances/{performance}/scoring", h.instrument(h.HandleScoringStatus))
	mux.HandleFunc("POST /api/v1/performances/{performance}/scores", h.instrument(h.HandleSubmitScore))
	mux.HandleFunc("POST /api/v1/performances/{performance}/publish", h.instrument(h.HandlePublish))
	mux.HandleFunc("POST /api/v1/performances/{performance}/certificate", h.instrument(h.HandleIssueCertificate))
	mux.HandleFunc("POST /api/v1/performances/{performance}/certificate/downloaded", h.instrument(h.HandleCertificateDownloaded))

	mux.HandleFunc("PUT /api/v1/scores/{score}", h.instrument(h.HandleEditScore))
	mux.HandleFunc("GET /api/v1/scores/{score}/audits", h.instrument(h.HandleScoreAudits))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument bounds the request context by the configured timeout and
// records the request duration by route pattern.
func (h *Handler) instrument(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		ctx, cancel := context.WithTimeout(r.Context(), h.service.Config.RequestTimeout())
		defer cancel()

		next(rec, r.WithContext(ctx))

		metrics.APIRequestDuration.WithLabelValues(
			r.Pattern,
			r.Method,
			strconv.Itoa(rec.status),
		).Observe(time.Since(start).Seconds())
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrDataIntegrity):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrDependency), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error.Printf("%s %s failed: %v", r.Method, r.URL.Path, err)
	} else {
		logger.Debug.Printf("%s %s rejected: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error.Printf("Failed to encode response: %v", err)
	}
}

func decode(r *http.Request, dest interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return errors.Join(models.ErrValidation, err)
	}
	return nil
}
