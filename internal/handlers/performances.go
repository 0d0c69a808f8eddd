package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/encore/internal/models"
)

type statusRequest struct {
	Status string `json:"status"`
}

type statusResponse struct {
	Performance      *models.Performance      `json:"performance"`
	PreviousStatus   models.PerformanceStatus `json:"previous_status"`
	Changed          bool                     `json:"changed"`
	Certificate      *models.Certificate      `json:"certificate,omitempty"`
	CertificateError string                   `json:"certificate_error,omitempty"`
}

func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.service.Lifecycle.SetStatus(r.Context(), r.PathValue("performance"), req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Performance:      result.Performance,
		PreviousStatus:   result.Previous,
		Changed:          result.Changed,
		Certificate:      result.Certificate,
		CertificateError: result.CertificateError(),
	})
}

func (h *Handler) HandleScoringStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Aggregator.Status(r.Context(), r.PathValue("performance"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

type publishRequest struct {
	ApproverID string `json:"approver_id"`
}

func (h *Handler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.service.Gate.Publish(r.Context(), r.PathValue("performance"), req.ApproverID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleIssueCertificate(w http.ResponseWriter, r *http.Request) {
	cert, err := h.service.Certificates.Issue(r.Context(), r.PathValue("performance"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cert)
}

func (h *Handler) HandleCertificateDownloaded(w http.ResponseWriter, r *http.Request) {
	cert, err := h.service.Certificates.MarkDownloaded(r.Context(), r.PathValue("performance"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cert)
}
