package certificate

import (
	"strings"

	"github.com/shrimpsizemoose/encore/internal/models"
)

// DefaultGroupTypes are the performance types that print the studio name.
var DefaultGroupTypes = []string{"Duet", "Trio", "Group"}

const DefaultDateFormat = "2 January 2006"

type Config struct {
	DateFormat string
	GroupTypes []string
}

func (c Config) withDefaults() Config {
	if c.DateFormat == "" {
		c.DateFormat = DefaultDateFormat
	}
	if len(c.GroupTypes) == 0 {
		c.GroupTypes = DefaultGroupTypes
	}
	return c
}

func (c Config) isGroup(performanceType string) bool {
	for _, t := range c.GroupTypes {
		if strings.EqualFold(t, performanceType) {
			return true
		}
	}
	return false
}

// Inputs carries everything a certificate is derived from.
type Inputs struct {
	Performance *models.Performance
	Entry       *models.EventEntry
	Studio      *models.Studio
	Event       *models.Event
	Percentage  int
}

// DisplayName prints the studio for group entries with a known studio and the
// participant names otherwise. Studio is the entry's studio or, failing that,
// the one all its participants share.
func (c Config) DisplayName(in Inputs) string {
	if in.Entry != nil && in.Studio != nil && in.Studio.Name != "" && c.isGroup(in.Entry.PerformanceType) {
		return in.Studio.Name
	}
	return strings.Join(in.Performance.ParticipantNames, ", ")
}

// Derive computes the regenerable fields of a certificate. It does not touch
// identity or delivery tracking columns.
func (c Config) Derive(in Inputs) *models.Certificate {
	c = c.withDefaults()

	cert := &models.Certificate{
		PerformanceID: in.Performance.ID,
		DisplayName:   c.DisplayName(in),
		Percentage:    in.Percentage,
		Title:         in.Performance.Title,
		Medallion:     MedalTier(float64(in.Percentage)),
		EventDate:     in.Event.EventDate.Format(c.DateFormat),
	}
	if in.Entry != nil {
		cert.Style = in.Entry.Style
	}
	return cert
}

// renderName is the name as printed on the artifact.
func (c Config) renderName(in Inputs, cert *models.Certificate) string {
	if in.Entry != nil && c.withDefaults().isGroup(in.Entry.PerformanceType) && in.Studio != nil && in.Studio.Name != "" {
		return strings.ToUpper(cert.DisplayName)
	}
	return cert.DisplayName
}
