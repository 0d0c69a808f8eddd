package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/encore/internal/metrics"
	"github.com/shrimpsizemoose/encore/internal/models"
	"github.com/shrimpsizemoose/encore/internal/store"
)

// auditSnapshot is what an audit row records on each side of an edit.
type auditSnapshot struct {
	models.ScoreValues
	TotalPercentage float64 `json:"total_percentage"`
}

func snapshot(s *models.Score) (string, error) {
	data, err := json.Marshal(auditSnapshot{ScoreValues: s.ScoreValues, TotalPercentage: s.TotalPercentage})
	if err != nil {
		return "", fmt.Errorf("failed to encode score snapshot: %w", err)
	}
	return string(data), nil
}

type Editor struct {
	store store.CompetitionStore
	now   func() time.Time
}

func NewEditor(s store.CompetitionStore) *Editor {
	return &Editor{
		store: s,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

type EditResult struct {
	Score *models.Score      `json:"score"`
	Audit *models.ScoreAudit `json:"audit"`
}

// EditScore updates a submitted score in place and appends one audit row in
// the same transaction.
func (e *Editor) EditScore(ctx context.Context, scoreID, performanceID, judgeID string, edit models.ScoreEdit, editorID string) (*EditResult, error) {
	if err := edit.Validate(); err != nil {
		return nil, fmt.Errorf("invalid score edit: %w: %w", models.ErrValidation, err)
	}
	if editorID == "" {
		return nil, fmt.Errorf("editor id is required: %w", models.ErrValidation)
	}

	var result EditResult
	err := e.store.InTx(ctx, func(tx store.CompetitionStore) error {
		score, err := tx.GetScore(ctx, scoreID)
		if err != nil {
			return err
		}
		if score == nil || score.PerformanceID != performanceID || score.JudgeID != judgeID {
			return fmt.Errorf("score %s for performance %s by judge %s: %w",
				scoreID, performanceID, judgeID, models.ErrScoreNotFound)
		}

		previous, err := snapshot(score)
		if err != nil {
			return err
		}

		now := e.now()
		if edit.TotalOnly {
			score.TotalPercentage = edit.Total
		} else {
			score.ScoreValues = edit.Values
			score.TotalPercentage = edit.Values.Total()
		}
		score.UpdatedAt = now

		updated, err := snapshot(score)
		if err != nil {
			return err
		}

		if err := tx.UpdateScore(ctx, score); err != nil {
			return err
		}

		audit := &models.ScoreAudit{
			ID:            uuid.NewString(),
			ScoreID:       score.ID,
			PerformanceID: performanceID,
			JudgeID:       judgeID,
			EditorID:      editorID,
			Previous:      previous,
			Updated:       updated,
			EditedAt:      now,
		}
		if err := tx.InsertScoreAudit(ctx, audit); err != nil {
			return err
		}

		result = EditResult{Score: score, Audit: audit}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ScoreEdits.Inc()
	logger.Info.Printf("Score %s edited by %s (performance %s, judge %s)", scoreID, editorID, performanceID, judgeID)
	return &result, nil
}

func (e *Editor) ListAudits(ctx context.Context, scoreID string) ([]models.ScoreAudit, error) {
	score, err := e.store.GetScore(ctx, scoreID)
	if err != nil {
		return nil, err
	}
	if score == nil {
		return nil, fmt.Errorf("%s: %w", scoreID, models.ErrScoreNotFound)
	}
	return e.store.ListScoreAudits(ctx, scoreID)
}
