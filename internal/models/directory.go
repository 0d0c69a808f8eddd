package models

import "time"

type Event struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	EventDate time.Time `db:"event_date" json:"event_date"`
	Venue     string    `db:"venue" json:"venue"`
}

type Studio struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Contestant is the account that owns entries.
type Contestant struct {
	ID    string `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

// Dancer has a canonical internal ID and an optional public competitor ID.
type Dancer struct {
	ID           string  `db:"id" json:"id"`
	CompetitorID *string `db:"competitor_id" json:"competitor_id,omitempty"`
	Name         string  `db:"name" json:"name"`
	StudioID     *string `db:"studio_id" json:"studio_id,omitempty"`
}

// JudgeAssignment is a roster row joined with the judge's contact details.
type JudgeAssignment struct {
	JudgeID      string `db:"judge_id" json:"judge_id"`
	EventID      string `db:"event_id" json:"event_id"`
	Name         string `db:"name" json:"name"`
	Email        string `db:"email" json:"email"`
	Status       string `db:"status" json:"status"`
	DisplayOrder int    `db:"display_order" json:"display_order"`
}

const AssignmentActive = "active"
