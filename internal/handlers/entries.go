package handlers

import (
	"fmt"
	"net/http"

	"github.com/shrimpsizemoose/encore/internal/models"
)

func (h *Handler) HandleEnsurePerformance(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Reconciler.EnsurePerformance(r.Context(), r.PathValue("entry"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type itemNumberRequest struct {
	ItemNumber int  `json:"item_number"`
	Force      bool `json:"force"`
}

func (h *Handler) HandleAssignItemNumber(w http.ResponseWriter, r *http.Request) {
	var req itemNumberRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.ItemNumber <= 0 {
		writeError(w, r, fmt.Errorf("item_number must be positive: %w", models.ErrValidation))
		return
	}

	entry, err := h.service.Reconciler.AssignItemNumber(r.Context(), r.PathValue("entry"), req.ItemNumber, req.Force)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) HandleReconcileEvent(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Reconciler.ReconcileEvent(r.Context(), r.PathValue("event"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type runningOrderRequest struct {
	Items []models.RunningOrderItem `json:"items"`
}

func (h *Handler) HandleRunningOrder(w http.ResponseWriter, r *http.Request) {
	var req runningOrderRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	performances, err := h.service.Reconciler.SetRunningOrder(r.Context(), r.PathValue("event"), req.Items)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows": performances,
	})
}
