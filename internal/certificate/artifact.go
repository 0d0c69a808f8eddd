package certificate

import (
	"encoding/json"
	"fmt"

	"github.com/shrimpsizemoose/encore/internal/models"
)

// Artifact is the document handed to a Sink for rendering and delivery.
type Artifact struct {
	PerformanceID string `json:"performance_id"`
	Name          string `json:"name"`
	Percentage    int    `json:"percentage"`
	Medallion     string `json:"medallion"`
	Style         string `json:"style"`
	Title         string `json:"title"`
	EventName     string `json:"event_name"`
	EventDate     string `json:"event_date"`
	Venue         string `json:"venue,omitempty"`
}

func newArtifact(cert *models.Certificate, name string, event *models.Event) Artifact {
	return Artifact{
		PerformanceID: cert.PerformanceID,
		Name:          name,
		Percentage:    cert.Percentage,
		Medallion:     cert.Medallion,
		Style:         cert.Style,
		Title:         cert.Title,
		EventName:     event.Name,
		EventDate:     cert.EventDate,
		Venue:         event.Venue,
	}
}

func (a Artifact) Encode() ([]byte, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to encode certificate artifact: %w", err)
	}
	return data, nil
}
