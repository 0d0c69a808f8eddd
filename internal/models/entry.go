package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

type EntryType string

const (
	EntryTypeLive    EntryType = "live"
	EntryTypeVirtual EntryType = "virtual"
)

// StringList is stored as a JSON array in a single text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("unsupported type %T for StringList", src)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, (*[]string)(l))
}

// EventEntry is owned by the entry-management flows; the core only reads it
// and mirrors ItemNumber.
type EventEntry struct {
	ID                string     `db:"id" json:"id" validate:"required"`
	EventID           string     `db:"event_id" json:"event_id" validate:"required"`
	OwnerID           string     `db:"owner_id" json:"owner_id"`
	ParticipantIDs    StringList `db:"participant_ids" json:"participant_ids" validate:"min=1"`
	ItemName          string     `db:"item_name" json:"item_name" validate:"required"`
	Choreographer     string     `db:"choreographer" json:"choreographer"`
	MasteryLevel      string     `db:"mastery_level" json:"mastery_level"`
	Style             string     `db:"style" json:"style"`
	PerformanceType   string     `db:"performance_type" json:"performance_type"`
	StudioID          *string    `db:"studio_id" json:"studio_id,omitempty"`
	EstimatedDuration int        `db:"estimated_duration" json:"estimated_duration"`
	EntryType         EntryType  `db:"entry_type" json:"entry_type" validate:"oneof=live virtual"`
	Approved          bool       `db:"approved" json:"approved"`
	PaymentStatus     string     `db:"payment_status" json:"payment_status"`
	ItemNumber        *int       `db:"item_number" json:"item_number,omitempty"`
	MusicURL          *string    `db:"music_url" json:"music_url,omitempty"`
	VideoURL          *string    `db:"video_url" json:"video_url,omitempty"`
	SubmittedAt       time.Time  `db:"submitted_at" json:"submitted_at"`
}

func (e *EventEntry) Validate() error {
	validate := validator.New()
	return validate.Struct(e)
}
