package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/encore/internal/models"
)

type submitScoreRequest struct {
	JudgeID string `json:"judge_id"`
	models.ScoreValues
}

func (h *Handler) HandleSubmitScore(w http.ResponseWriter, r *http.Request) {
	var req submitScoreRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	score, err := h.service.Aggregator.Submit(r.Context(), r.PathValue("performance"), req.JudgeID, req.ScoreValues)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, score)
}

type editScoreRequest struct {
	PerformanceID string `json:"performance_id"`
	JudgeID       string `json:"judge_id"`
	EditorID      string `json:"editor_id"`
	models.ScoreEdit
}

func (h *Handler) HandleEditScore(w http.ResponseWriter, r *http.Request) {
	var req editScoreRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.service.Editor.EditScore(r.Context(), r.PathValue("score"), req.PerformanceID, req.JudgeID, req.ScoreEdit, req.EditorID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleScoreAudits(w http.ResponseWriter, r *http.Request) {
	audits, err := h.service.Editor.ListAudits(r.Context(), r.PathValue("score"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows": audits,
	})
}
