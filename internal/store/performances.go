package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shrimpsizemoose/encore/internal/models"
)

const performanceColumns = `
	id, event_id, event_entry_id, contestant_id, title, participant_names,
	duration, item_number, performance_order, status, scores_published,
	scores_published_at, entry_type, music_url, video_url, created_at, updated_at`

func (s *BaseStore) GetPerformance(ctx context.Context, id string) (*models.Performance, error) {
	var p models.Performance
	found, err := s.get(ctx, &p, `SELECT `+performanceColumns+` FROM performances WHERE id = ?`, id)
	if err != nil {
		return nil, s.wrap("failed to get performance", err)
	}
	if !found {
		return nil, nil
	}
	return &p, nil
}

func (s *BaseStore) GetPerformanceByEntry(ctx context.Context, entryID string) (*models.Performance, error) {
	var p models.Performance
	found, err := s.get(ctx, &p, `SELECT `+performanceColumns+` FROM performances WHERE event_entry_id = ?`, entryID)
	if err != nil {
		return nil, s.wrap("failed to get performance by entry", err)
	}
	if !found {
		return nil, nil
	}
	return &p, nil
}

func (s *BaseStore) ListPerformances(ctx context.Context, eventID string) ([]models.Performance, error) {
	var performances []models.Performance
	err := s.selectRows(ctx, &performances, `
		SELECT `+performanceColumns+`
		FROM performances
		WHERE event_id = ?
		ORDER BY item_number, id
	`, eventID)
	if err != nil {
		return nil, s.wrap("failed to list performances", err)
	}
	return performances, nil
}

func (s *BaseStore) InsertPerformanceIfAbsent(ctx context.Context, p *models.Performance) (*models.Performance, bool, error) {
	n, err := s.exec(ctx, `
		INSERT INTO performances (`+performanceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (event_entry_id) DO NOTHING
	`,
		p.ID, p.EventID, p.EventEntryID, p.ContestantID, p.Title, p.ParticipantNames,
		p.Duration, p.ItemNumber, p.PerformanceOrder, p.Status, p.ScoresPublished,
		p.ScoresPublishedAt, p.EntryType, p.MusicURL, p.VideoURL, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return nil, false, s.wrap("failed to insert performance", err)
	}

	stored, err := s.GetPerformanceByEntry(ctx, p.EventEntryID)
	if err != nil {
		return nil, false, err
	}
	if stored == nil {
		return nil, false, fmt.Errorf("performance for entry %s vanished after insert: %w", p.EventEntryID, models.ErrConflict)
	}
	return stored, n > 0, nil
}

func (s *BaseStore) updatePerformance(ctx context.Context, msg, query string, args ...interface{}) error {
	n, err := s.exec(ctx, query, args...)
	if err != nil {
		return s.wrap(msg, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", msg, models.ErrPerformanceMissing)
	}
	return nil
}

func (s *BaseStore) UpdatePerformanceEvent(ctx context.Context, id, eventID string, at time.Time) error {
	return s.updatePerformance(ctx, "failed to update performance event",
		`UPDATE performances SET event_id = ?, updated_at = ? WHERE id = ?`, eventID, at, id)
}

func (s *BaseStore) UpdatePerformanceItemNumber(ctx context.Context, id string, itemNumber *int, at time.Time) error {
	return s.updatePerformance(ctx, "failed to update performance item number",
		`UPDATE performances SET item_number = ?, updated_at = ? WHERE id = ?`, itemNumber, at, id)
}

func (s *BaseStore) SetPerformanceOrder(ctx context.Context, id string, order *int, at time.Time) error {
	return s.updatePerformance(ctx, "failed to set performance order",
		`UPDATE performances SET performance_order = ?, updated_at = ? WHERE id = ?`, order, at, id)
}

func (s *BaseStore) CompareAndSetStatus(ctx context.Context, id string, from, to models.PerformanceStatus, at time.Time) (bool, error) {
	n, err := s.exec(ctx, `
		UPDATE performances
		SET status = ?, updated_at = ?
		WHERE id = ?
		AND status = ?
	`, to, at, id, from)
	if err != nil {
		return false, s.wrap("failed to update performance status", err)
	}
	return n == 1, nil
}

func (s *BaseStore) MarkScoresPublished(ctx context.Context, id string, at time.Time) (bool, error) {
	n, err := s.exec(ctx, `
		UPDATE performances
		SET scores_published = ?, scores_published_at = ?, updated_at = ?
		WHERE id = ?
		AND scores_published = ?
	`, true, at, at, id, false)
	if err != nil {
		return false, s.wrap("failed to publish scores", err)
	}
	return n == 1, nil
}

func (s *BaseStore) InsertScoreApproval(ctx context.Context, approval *models.ScoreApproval) error {
	_, err := s.exec(ctx, `
		INSERT INTO score_approvals (id, performance_id, approver_id, approved_at)
		VALUES (?, ?, ?, ?)
	`, approval.ID, approval.PerformanceID, approval.ApproverID, approval.ApprovedAt)
	if err != nil {
		return s.wrap("failed to record score approval", err)
	}
	return nil
}
