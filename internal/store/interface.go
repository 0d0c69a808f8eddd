package store

import (
	"context"
	"time"

	"github.com/shrimpsizemoose/encore/internal/models"
)

// CompetitionStore is the single source of truth for entries, performances,
// scores and certificates. Every method is one round trip unless noted.
type CompetitionStore interface {
	Close() error
	ApplyMigrations() error

	// InTx runs fn against a store bound to one transaction. Nested calls
	// reuse the outer transaction.
	InTx(ctx context.Context, fn func(CompetitionStore) error) error

	GetEvent(ctx context.Context, id string) (*models.Event, error)
	GetStudio(ctx context.Context, id string) (*models.Studio, error)
	GetDancer(ctx context.Context, id string) (*models.Dancer, error)
	GetDancerByCompetitorID(ctx context.Context, competitorID string) (*models.Dancer, error)
	ContestantExists(ctx context.Context, id string) (bool, error)

	CreateEntry(ctx context.Context, entry *models.EventEntry) error
	GetEntry(ctx context.Context, id string) (*models.EventEntry, error)
	ListApprovedEntries(ctx context.Context, eventID string) ([]models.EventEntry, error)
	SetEntryItemNumber(ctx context.Context, entryID string, itemNumber int) error

	GetPerformance(ctx context.Context, id string) (*models.Performance, error)
	GetPerformanceByEntry(ctx context.Context, entryID string) (*models.Performance, error)
	ListPerformances(ctx context.Context, eventID string) ([]models.Performance, error)
	// InsertPerformanceIfAbsent inserts p unless a row with the same
	// event_entry_id exists, and returns whichever row is stored.
	InsertPerformanceIfAbsent(ctx context.Context, p *models.Performance) (*models.Performance, bool, error)
	UpdatePerformanceEvent(ctx context.Context, id, eventID string, at time.Time) error
	UpdatePerformanceItemNumber(ctx context.Context, id string, itemNumber *int, at time.Time) error
	SetPerformanceOrder(ctx context.Context, id string, order *int, at time.Time) error
	// CompareAndSetStatus updates status only if it still equals from.
	CompareAndSetStatus(ctx context.Context, id string, from, to models.PerformanceStatus, at time.Time) (bool, error)
	// MarkScoresPublished flips scores_published false->true; false means it was already set.
	MarkScoresPublished(ctx context.Context, id string, at time.Time) (bool, error)
	InsertScoreApproval(ctx context.Context, approval *models.ScoreApproval) error

	ListAssignedJudges(ctx context.Context, eventID string) ([]models.JudgeAssignment, error)

	InsertScore(ctx context.Context, score *models.Score) error
	GetScore(ctx context.Context, id string) (*models.Score, error)
	ListScores(ctx context.Context, performanceID string) ([]models.Score, error)
	UpdateScore(ctx context.Context, score *models.Score) error
	InsertScoreAudit(ctx context.Context, audit *models.ScoreAudit) error
	ListScoreAudits(ctx context.Context, scoreID string) ([]models.ScoreAudit, error)

	// UpsertCertificate writes the derived fields and keeps sent_at/downloaded_at.
	UpsertCertificate(ctx context.Context, cert *models.Certificate) (*models.Certificate, error)
	GetCertificate(ctx context.Context, performanceID string) (*models.Certificate, error)
	MarkCertificateSent(ctx context.Context, performanceID string, at time.Time) error
	MarkCertificateDownloaded(ctx context.Context, performanceID string, at time.Time) error
}
