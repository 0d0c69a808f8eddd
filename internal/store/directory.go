package store

import (
	"context"

	"github.com/shrimpsizemoose/encore/internal/models"
)

func (s *BaseStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	found, err := s.get(ctx, &event, `
		SELECT id, name, event_date, venue
		FROM events
		WHERE id = ?
	`, id)
	if err != nil {
		return nil, s.wrap("failed to get event", err)
	}
	if !found {
		return nil, nil
	}
	return &event, nil
}

func (s *BaseStore) GetStudio(ctx context.Context, id string) (*models.Studio, error) {
	var studio models.Studio
	found, err := s.get(ctx, &studio, `SELECT id, name FROM studios WHERE id = ?`, id)
	if err != nil {
		return nil, s.wrap("failed to get studio", err)
	}
	if !found {
		return nil, nil
	}
	return &studio, nil
}

func (s *BaseStore) GetDancer(ctx context.Context, id string) (*models.Dancer, error) {
	var dancer models.Dancer
	found, err := s.get(ctx, &dancer, `
		SELECT id, competitor_id, name, studio_id
		FROM dancers
		WHERE id = ?
	`, id)
	if err != nil {
		return nil, s.wrap("failed to get dancer", err)
	}
	if !found {
		return nil, nil
	}
	return &dancer, nil
}

func (s *BaseStore) GetDancerByCompetitorID(ctx context.Context, competitorID string) (*models.Dancer, error) {
	var dancer models.Dancer
	found, err := s.get(ctx, &dancer, `
		SELECT id, competitor_id, name, studio_id
		FROM dancers
		WHERE competitor_id = ?
	`, competitorID)
	if err != nil {
		return nil, s.wrap("failed to get dancer by competitor id", err)
	}
	if !found {
		return nil, nil
	}
	return &dancer, nil
}

func (s *BaseStore) ContestantExists(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	var count int
	if _, err := s.get(ctx, &count, `SELECT COUNT(*) FROM contestants WHERE id = ?`, id); err != nil {
		return false, s.wrap("failed to check contestant", err)
	}
	return count > 0, nil
}

func (s *BaseStore) ListAssignedJudges(ctx context.Context, eventID string) ([]models.JudgeAssignment, error) {
	var judges []models.JudgeAssignment
	err := s.selectRows(ctx, &judges, `
		SELECT
			a.judge_id,
			a.event_id,
			j.name,
			j.email,
			a.status,
			a.display_order
		FROM judge_event_assignments a
		JOIN judges j ON j.id = a.judge_id
		WHERE a.event_id = ?
		AND a.status = 'active'
		ORDER BY a.display_order, j.name
	`, eventID)
	if err != nil {
		return nil, s.wrap("failed to list assigned judges", err)
	}
	return judges, nil
}
