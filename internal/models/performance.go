package models

import (
	"fmt"
	"time"
)

type PerformanceStatus string

const (
	StatusScheduled  PerformanceStatus = "scheduled"
	StatusReady      PerformanceStatus = "ready"
	StatusHold       PerformanceStatus = "hold"
	StatusInProgress PerformanceStatus = "in_progress"
	StatusCompleted  PerformanceStatus = "completed"
	StatusCancelled  PerformanceStatus = "cancelled"
)

var knownStatuses = map[PerformanceStatus]bool{
	StatusScheduled:  true,
	StatusReady:      true,
	StatusHold:       true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusCancelled:  true,
}

// ParseStatus accepts only the six lifecycle states.
func ParseStatus(s string) (PerformanceStatus, error) {
	status := PerformanceStatus(s)
	if !knownStatuses[status] {
		return "", fmt.Errorf("%q: %w", s, ErrInvalidStatus)
	}
	return status, nil
}

// Performance is the scheduled, scoreable materialization of an approved entry.
// At most one exists per EventEntryID.
type Performance struct {
	ID                string            `db:"id" json:"id"`
	EventID           string            `db:"event_id" json:"event_id"`
	EventEntryID      string            `db:"event_entry_id" json:"event_entry_id"`
	ContestantID      string            `db:"contestant_id" json:"contestant_id"`
	Title             string            `db:"title" json:"title"`
	ParticipantNames  StringList        `db:"participant_names" json:"participant_names"`
	Duration          int               `db:"duration" json:"duration"`
	ItemNumber        *int              `db:"item_number" json:"item_number,omitempty"`
	PerformanceOrder  *int              `db:"performance_order" json:"performance_order,omitempty"`
	Status            PerformanceStatus `db:"status" json:"status"`
	ScoresPublished   bool              `db:"scores_published" json:"scores_published"`
	ScoresPublishedAt *time.Time        `db:"scores_published_at" json:"scores_published_at,omitempty"`
	EntryType         EntryType         `db:"entry_type" json:"entry_type"`
	MusicURL          *string           `db:"music_url" json:"music_url,omitempty"`
	VideoURL          *string           `db:"video_url" json:"video_url,omitempty"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time         `db:"updated_at" json:"updated_at"`
}

// RunningOrderItem sets or clears the day-of position of one performance.
type RunningOrderItem struct {
	PerformanceID string `json:"performance_id" validate:"required"`
	Order         *int   `json:"order" validate:"omitempty,min=1"`
}
