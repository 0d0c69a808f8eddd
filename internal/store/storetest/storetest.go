// Package storetest builds migrated stores and seeds them. New gives an
// in-memory SQLite store; Attach wraps any other backend.
package storetest

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/encore/internal/models"
	"github.com/shrimpsizemoose/encore/internal/store"
	"github.com/shrimpsizemoose/encore/internal/store/sqlite"
)

// EventDate is the date every seeded event runs on.
var EventDate = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

type Fixture struct {
	t     *testing.T
	Store store.CompetitionStore
	// DB is the raw handle for assertions the store API does not expose.
	DB *sqlx.DB
}

func New(t *testing.T) *Fixture {
	t.Helper()

	s, err := sqlite.NewSQLiteStore(&store.DBConfig{DSN: ":memory:", Type: store.DBTypeSQLite})
	require.NoError(t, err, "Failed to create store")
	require.NoError(t, s.ApplyMigrations(), "Failed to apply migrations")

	t.Cleanup(func() {
		require.NoError(t, s.Close(), "Failed to close database")
	})

	return &Fixture{t: t, Store: s, DB: s.DB}
}

// Attach seeds through db into an already migrated store.
func Attach(t *testing.T, s store.CompetitionStore, db *sqlx.DB) *Fixture {
	return &Fixture{t: t, Store: s, DB: db}
}

func (f *Fixture) exec(query string, args ...interface{}) {
	f.t.Helper()
	_, err := f.DB.Exec(f.DB.Rebind(query), args...)
	require.NoError(f.t, err, "Failed to insert test data")
}

func (f *Fixture) Event(id string) {
	f.exec(`INSERT INTO events (id, name, event_date, venue) VALUES (?, ?, ?, ?)`,
		id, "Event "+id, EventDate, "Main Hall")
}

func (f *Fixture) Studio(id, name string) {
	f.exec(`INSERT INTO studios (id, name) VALUES (?, ?)`, id, name)
}

func (f *Fixture) Contestant(id, name string) {
	f.exec(`INSERT INTO contestants (id, name, email) VALUES (?, ?, ?)`, id, name, id+"@example.com")
}

// Dancer seeds a dancer; empty competitorID and studioID are stored as NULL.
func (f *Fixture) Dancer(id, competitorID, name, studioID string) {
	f.exec(`INSERT INTO dancers (id, competitor_id, name, studio_id) VALUES (?, ?, ?, ?)`,
		id, nullable(competitorID), name, nullable(studioID))
}

func (f *Fixture) Judge(id, name string) {
	f.exec(`INSERT INTO judges (id, name, email) VALUES (?, ?, ?)`, id, name, id+"@judges.example.com")
}

func (f *Fixture) Assign(judgeID, eventID, status string, order int) {
	f.exec(`INSERT INTO judge_event_assignments (judge_id, event_id, status, display_order) VALUES (?, ?, ?, ?)`,
		judgeID, eventID, status, order)
}

// Judges seeds n judges j1..jn and assigns them, active, to eventID.
func (f *Fixture) Judges(eventID string, n int) []string {
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		id := eventID + "-j" + strconv.Itoa(i)
		f.Judge(id, "Judge "+id)
		f.Assign(id, eventID, models.AssignmentActive, i)
		ids = append(ids, id)
	}
	return ids
}

// Entry fills defaults for any zero field and stores the entry.
func (f *Fixture) Entry(e models.EventEntry) *models.EventEntry {
	f.t.Helper()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.ItemName == "" {
		e.ItemName = "Item " + e.ID
	}
	if e.EntryType == "" {
		e.EntryType = models.EntryTypeLive
	}
	if e.PaymentStatus == "" {
		e.PaymentStatus = "paid"
	}
	if e.SubmittedAt.IsZero() {
		e.SubmittedAt = EventDate.Add(-30 * 24 * time.Hour)
	}
	require.NoError(f.t, f.Store.CreateEntry(context.Background(), &e))
	return &e
}

// Score stores a judge's score with each sub-score equal to total/5.
func (f *Fixture) Score(performanceID, judgeID string, total float64) *models.Score {
	f.t.Helper()
	sub := total / 5
	now := time.Now().UTC()
	score := &models.Score{
		ID:            uuid.NewString(),
		PerformanceID: performanceID,
		JudgeID:       judgeID,
		ScoreValues: models.ScoreValues{
			Technical:         sub,
			Musical:           sub,
			Performance:       sub,
			Styling:           sub,
			OverallImpression: sub,
		},
		TotalPercentage: total,
		SubmittedAt:     now,
		UpdatedAt:       now,
	}
	require.NoError(f.t, f.Store.InsertScore(context.Background(), score))
	return score
}

// Performance inserts a bare scheduled performance for entry.
func (f *Fixture) Performance(entry *models.EventEntry) *models.Performance {
	f.t.Helper()
	now := time.Now().UTC()
	p := &models.Performance{
		ID:               uuid.NewString(),
		EventID:          entry.EventID,
		EventEntryID:     entry.ID,
		ContestantID:     entry.OwnerID,
		Title:            entry.ItemName,
		ParticipantNames: models.StringList{"Seeded"},
		ItemNumber:       entry.ItemNumber,
		Status:           models.StatusScheduled,
		EntryType:        entry.EntryType,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	stored, _, err := f.Store.InsertPerformanceIfAbsent(context.Background(), p)
	require.NoError(f.t, err)
	return stored
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func IntPtr(i int) *int {
	return &i
}

func StrPtr(s string) *string {
	return &s
}
