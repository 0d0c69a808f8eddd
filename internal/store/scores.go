package store

import (
	"context"
	"fmt"

	"github.com/shrimpsizemoose/encore/internal/models"
)

const scoreColumns = `
	id, performance_id, judge_id, technical_score, musical_score,
	performance_score, styling_score, overall_impression_score,
	total_percentage, submitted_at, updated_at`

func (s *BaseStore) InsertScore(ctx context.Context, score *models.Score) error {
	_, err := s.exec(ctx, `
		INSERT INTO scores (`+scoreColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		score.ID, score.PerformanceID, score.JudgeID, score.Technical, score.Musical,
		score.Performance, score.Styling, score.OverallImpression,
		score.TotalPercentage, score.SubmittedAt, score.UpdatedAt,
	)
	if err != nil {
		return s.wrap("failed to insert score", err)
	}
	return nil
}

func (s *BaseStore) GetScore(ctx context.Context, id string) (*models.Score, error) {
	var score models.Score
	found, err := s.get(ctx, &score, `SELECT `+scoreColumns+` FROM scores WHERE id = ?`, id)
	if err != nil {
		return nil, s.wrap("failed to get score", err)
	}
	if !found {
		return nil, nil
	}
	return &score, nil
}

func (s *BaseStore) ListScores(ctx context.Context, performanceID string) ([]models.Score, error) {
	var scores []models.Score
	err := s.selectRows(ctx, &scores, `
		SELECT `+scoreColumns+`
		FROM scores
		WHERE performance_id = ?
		ORDER BY submitted_at, judge_id
	`, performanceID)
	if err != nil {
		return nil, s.wrap("failed to list scores", err)
	}
	return scores, nil
}

func (s *BaseStore) UpdateScore(ctx context.Context, score *models.Score) error {
	n, err := s.exec(ctx, `
		UPDATE scores
		SET technical_score = ?,
			musical_score = ?,
			performance_score = ?,
			styling_score = ?,
			overall_impression_score = ?,
			total_percentage = ?,
			updated_at = ?
		WHERE id = ?
		AND performance_id = ?
		AND judge_id = ?
	`,
		score.Technical, score.Musical, score.Performance, score.Styling, score.OverallImpression,
		score.TotalPercentage, score.UpdatedAt,
		score.ID, score.PerformanceID, score.JudgeID,
	)
	if err != nil {
		return s.wrap("failed to update score", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", score.ID, models.ErrScoreNotFound)
	}
	return nil
}

func (s *BaseStore) InsertScoreAudit(ctx context.Context, audit *models.ScoreAudit) error {
	_, err := s.exec(ctx, `
		INSERT INTO score_audits (id, score_id, performance_id, judge_id, editor_id, previous_values, new_values, edited_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		audit.ID, audit.ScoreID, audit.PerformanceID, audit.JudgeID, audit.EditorID,
		audit.Previous, audit.Updated, audit.EditedAt,
	)
	if err != nil {
		return s.wrap("failed to insert score audit", err)
	}
	return nil
}

func (s *BaseStore) ListScoreAudits(ctx context.Context, scoreID string) ([]models.ScoreAudit, error) {
	var audits []models.ScoreAudit
	err := s.selectRows(ctx, &audits, `
		SELECT id, score_id, performance_id, judge_id, editor_id, previous_values, new_values, edited_at
		FROM score_audits
		WHERE score_id = ?
		ORDER BY edited_at, id
	`, scoreID)
	if err != nil {
		return nil, s.wrap("failed to list score audits", err)
	}
	return audits, nil
}
