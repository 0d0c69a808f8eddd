package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	MaxSubScore   = 20
	MaxTotalScore = 100
)

// ScoreValues are the five judged categories, each on a 0-20 scale.
type ScoreValues struct {
	Technical         float64 `db:"technical_score" json:"technical_score" validate:"min=0,max=20"`
	Musical           float64 `db:"musical_score" json:"musical_score" validate:"min=0,max=20"`
	Performance       float64 `db:"performance_score" json:"performance_score" validate:"min=0,max=20"`
	Styling           float64 `db:"styling_score" json:"styling_score" validate:"min=0,max=20"`
	OverallImpression float64 `db:"overall_impression_score" json:"overall_impression_score" validate:"min=0,max=20"`
}

func (v ScoreValues) Total() float64 {
	return v.Technical + v.Musical + v.Performance + v.Styling + v.OverallImpression
}

func (v *ScoreValues) Validate() error {
	validate := validator.New()
	return validate.Struct(v)
}

// Score is unique per (PerformanceID, JudgeID).
type Score struct {
	ID            string `db:"id" json:"id"`
	PerformanceID string `db:"performance_id" json:"performance_id"`
	JudgeID       string `db:"judge_id" json:"judge_id"`
	ScoreValues
	TotalPercentage float64   `db:"total_percentage" json:"total_percentage"`
	SubmittedAt     time.Time `db:"submitted_at" json:"submitted_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// ScoreEdit is the payload of an audited edit. When TotalOnly is set only
// Total is applied (0-100) and the sub-scores are left untouched.
type ScoreEdit struct {
	Values    ScoreValues `json:"values"`
	TotalOnly bool        `json:"total_only"`
	Total     float64     `json:"total" validate:"min=0,max=100"`
}

func (e *ScoreEdit) Validate() error {
	validate := validator.New()
	if e.TotalOnly {
		return validate.Var(e.Total, "min=0,max=100")
	}
	return validate.Struct(&e.Values)
}

// ScoreAudit is append-only, one row per edit.
type ScoreAudit struct {
	ID            string    `db:"id" json:"id"`
	ScoreID       string    `db:"score_id" json:"score_id"`
	PerformanceID string    `db:"performance_id" json:"performance_id"`
	JudgeID       string    `db:"judge_id" json:"judge_id"`
	EditorID      string    `db:"editor_id" json:"editor_id"`
	Previous      string    `db:"previous_values" json:"previous_values"`
	Updated       string    `db:"new_values" json:"new_values"`
	EditedAt      time.Time `db:"edited_at" json:"edited_at"`
}

type ScoreApproval struct {
	ID            string    `db:"id" json:"id"`
	PerformanceID string    `db:"performance_id" json:"performance_id"`
	ApproverID    string    `db:"approver_id" json:"approver_id"`
	ApprovedAt    time.Time `db:"approved_at" json:"approved_at"`
}
