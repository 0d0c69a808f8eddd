package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/encore/internal/metrics"
	"github.com/shrimpsizemoose/encore/internal/models"
)

// Submit records a judge's first score for a performance. A second submission
// by the same judge is a conflict; changes go through the Editor.
func (a *Aggregator) Submit(ctx context.Context, performanceID, judgeID string, values models.ScoreValues) (*models.Score, error) {
	if err := values.Validate(); err != nil {
		metrics.ScoreSubmissions.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("invalid score values: %w: %w", models.ErrValidation, err)
	}

	p, err := a.store.GetPerformance(ctx, performanceID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%s: %w", performanceID, models.ErrPerformanceMissing)
	}

	judges, err := a.store.ListAssignedJudges(ctx, p.EventID)
	if err != nil {
		return nil, err
	}
	assigned := false
	for _, j := range judges {
		if j.JudgeID == judgeID {
			assigned = true
			break
		}
	}
	if !assigned {
		metrics.ScoreSubmissions.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("judge %s is not assigned to event %s: %w", judgeID, p.EventID, models.ErrValidation)
	}

	now := time.Now().UTC()
	score := &models.Score{
		ID:              uuid.NewString(),
		PerformanceID:   performanceID,
		JudgeID:         judgeID,
		ScoreValues:     values,
		TotalPercentage: values.Total(),
		SubmittedAt:     now,
		UpdatedAt:       now,
	}

	if err := a.store.InsertScore(ctx, score); err != nil {
		if errors.Is(err, models.ErrConflict) {
			metrics.ScoreSubmissions.WithLabelValues("duplicate").Inc()
			return nil, fmt.Errorf("judge %s, performance %s: %w", judgeID, performanceID, models.ErrDuplicateScore)
		}
		return nil, err
	}

	metrics.ScoreSubmissions.WithLabelValues("ok").Inc()
	logger.Debug.Printf("Judge %s scored performance %s: %.1f", judgeID, performanceID, score.TotalPercentage)
	return score, nil
}
