package models

import "time"

type Certificate struct {
	ID            string     `db:"id" json:"id"`
	PerformanceID string     `db:"performance_id" json:"performance_id"`
	DisplayName   string     `db:"display_name" json:"display_name"`
	Percentage    int        `db:"percentage" json:"percentage"`
	Style         string     `db:"style" json:"style"`
	Title         string     `db:"title" json:"title"`
	Medallion     string     `db:"medallion" json:"medallion"`
	EventDate     string     `db:"event_date" json:"event_date"`
	ArtifactRef   string     `db:"artifact_ref" json:"artifact_ref"`
	SentAt        *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	DownloadedAt  *time.Time `db:"downloaded_at" json:"downloaded_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}
