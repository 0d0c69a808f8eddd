package store

import (
	"context"
	"fmt"

	"github.com/shrimpsizemoose/encore/internal/models"
)

const entryColumns = `
	id, event_id, owner_id, participant_ids, item_name, choreographer,
	mastery_level, style, performance_type, studio_id, estimated_duration,
	entry_type, approved, payment_status, item_number, music_url, video_url,
	submitted_at`

func (s *BaseStore) CreateEntry(ctx context.Context, entry *models.EventEntry) error {
	_, err := s.exec(ctx, `
		INSERT INTO event_entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID, entry.EventID, entry.OwnerID, entry.ParticipantIDs, entry.ItemName, entry.Choreographer,
		entry.MasteryLevel, entry.Style, entry.PerformanceType, entry.StudioID, entry.EstimatedDuration,
		entry.EntryType, entry.Approved, entry.PaymentStatus, entry.ItemNumber, entry.MusicURL, entry.VideoURL,
		entry.SubmittedAt,
	)
	if err != nil {
		return s.wrap("failed to create entry", err)
	}
	return nil
}

func (s *BaseStore) GetEntry(ctx context.Context, id string) (*models.EventEntry, error) {
	var entry models.EventEntry
	found, err := s.get(ctx, &entry, `SELECT `+entryColumns+` FROM event_entries WHERE id = ?`, id)
	if err != nil {
		return nil, s.wrap("failed to get entry", err)
	}
	if !found {
		return nil, nil
	}
	return &entry, nil
}

func (s *BaseStore) ListApprovedEntries(ctx context.Context, eventID string) ([]models.EventEntry, error) {
	var entries []models.EventEntry
	err := s.selectRows(ctx, &entries, `
		SELECT `+entryColumns+`
		FROM event_entries
		WHERE event_id = ?
		AND approved = ?
		AND entry_type IN ('live', 'virtual')
		ORDER BY submitted_at, id
	`, eventID, true)
	if err != nil {
		return nil, s.wrap("failed to list approved entries", err)
	}
	return entries, nil
}

func (s *BaseStore) SetEntryItemNumber(ctx context.Context, entryID string, itemNumber int) error {
	n, err := s.exec(ctx, `UPDATE event_entries SET item_number = ? WHERE id = ?`, itemNumber, entryID)
	if err != nil {
		return s.wrap("failed to set item number", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", entryID, models.ErrEntryNotFound)
	}
	return nil
}
