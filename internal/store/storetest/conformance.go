package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/encore/internal/models"
	"github.com/shrimpsizemoose/encore/internal/store"
)

// RunConformance checks the behaviour every CompetitionStore backend must share.
func RunConformance(t *testing.T, newFixture func(t *testing.T) *Fixture) {
	ctx := context.Background()
	at := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	seed := func(t *testing.T) (*Fixture, *models.EventEntry) {
		f := newFixture(t)
		f.Event("ev1")
		f.Studio("st1", "Step Up Studio")
		f.Contestant("owner1", "Olga Owner")
		f.Dancer("d1", "E1001", "Ada Lovelace", "st1")
		entry := f.Entry(models.EventEntry{
			EventID:        "ev1",
			OwnerID:        "owner1",
			ParticipantIDs: models.StringList{"d1", "E1002"},
			StudioID:       StrPtr("st1"),
			Approved:       true,
		})
		return f, entry
	}

	t.Run("directory lookups", func(t *testing.T) {
		f, _ := seed(t)

		event, err := f.Store.GetEvent(ctx, "ev1")
		require.NoError(t, err)
		require.NotNil(t, event)
		assert.True(t, EventDate.Equal(event.EventDate))
		assert.Equal(t, "Main Hall", event.Venue)

		missing, err := f.Store.GetEvent(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, missing)

		dancer, err := f.Store.GetDancerByCompetitorID(ctx, "E1001")
		require.NoError(t, err)
		require.NotNil(t, dancer)
		assert.Equal(t, "d1", dancer.ID)
		require.NotNil(t, dancer.StudioID)
		assert.Equal(t, "st1", *dancer.StudioID)

		exists, err := f.Store.ContestantExists(ctx, "owner1")
		require.NoError(t, err)
		assert.True(t, exists)
		exists, err = f.Store.ContestantExists(ctx, "ghost")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("entries round trip", func(t *testing.T) {
		f, entry := seed(t)
		f.Entry(models.EventEntry{EventID: "ev1", OwnerID: "owner1", ParticipantIDs: models.StringList{"d1"}})

		got, err := f.Store.GetEntry(ctx, entry.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, models.StringList{"d1", "E1002"}, got.ParticipantIDs)
		assert.Nil(t, got.ItemNumber)

		approved, err := f.Store.ListApprovedEntries(ctx, "ev1")
		require.NoError(t, err)
		require.Len(t, approved, 1)
		assert.Equal(t, entry.ID, approved[0].ID)

		require.NoError(t, f.Store.SetEntryItemNumber(ctx, entry.ID, 42))
		got, err = f.Store.GetEntry(ctx, entry.ID)
		require.NoError(t, err)
		require.NotNil(t, got.ItemNumber)
		assert.Equal(t, 42, *got.ItemNumber)
	})

	t.Run("performance insert is idempotent per entry", func(t *testing.T) {
		f, entry := seed(t)
		first := f.Performance(entry)

		dup := *first
		dup.ID = uuid.NewString()
		dup.Title = "Other"
		stored, created, err := f.Store.InsertPerformanceIfAbsent(ctx, &dup)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, stored.ID)
		assert.Equal(t, first.Title, stored.Title)
	})

	t.Run("status compare and set", func(t *testing.T) {
		f, entry := seed(t)
		p := f.Performance(entry)

		ok, err := f.Store.CompareAndSetStatus(ctx, p.ID, models.StatusScheduled, models.StatusInProgress, at)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = f.Store.CompareAndSetStatus(ctx, p.ID, models.StatusScheduled, models.StatusCompleted, at)
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := f.Store.GetPerformance(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusInProgress, got.Status)
	})

	t.Run("running order and item number", func(t *testing.T) {
		f, entry := seed(t)
		p := f.Performance(entry)

		require.NoError(t, f.Store.SetPerformanceOrder(ctx, p.ID, IntPtr(3), at))
		require.NoError(t, f.Store.UpdatePerformanceItemNumber(ctx, p.ID, IntPtr(17), at))
		got, err := f.Store.GetPerformance(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, *got.PerformanceOrder)
		assert.Equal(t, 17, *got.ItemNumber)

		err = f.Store.SetPerformanceOrder(ctx, "missing", IntPtr(1), at)
		assert.True(t, errors.Is(err, models.ErrNotFound))
	})

	t.Run("scores published once", func(t *testing.T) {
		f, entry := seed(t)
		p := f.Performance(entry)

		flipped, err := f.Store.MarkScoresPublished(ctx, p.ID, at)
		require.NoError(t, err)
		assert.True(t, flipped)
		flipped, err = f.Store.MarkScoresPublished(ctx, p.ID, at.Add(time.Hour))
		require.NoError(t, err)
		assert.False(t, flipped)

		got, err := f.Store.GetPerformance(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, got.ScoresPublished)
		require.NotNil(t, got.ScoresPublishedAt)
		assert.True(t, at.Equal(*got.ScoresPublishedAt))
	})

	t.Run("judges and scores", func(t *testing.T) {
		f, entry := seed(t)
		p := f.Performance(entry)
		judges := f.Judges("ev1", 3)
		f.Judge("retired", "Retired")
		f.Assign("retired", "ev1", "inactive", 0)

		assigned, err := f.Store.ListAssignedJudges(ctx, "ev1")
		require.NoError(t, err)
		require.Len(t, assigned, 3)
		assert.Equal(t, judges[0], assigned[0].JudgeID)

		score := f.Score(p.ID, judges[0], 85)
		dup := *score
		dup.ID = uuid.NewString()
		err = f.Store.InsertScore(ctx, &dup)
		assert.True(t, errors.Is(err, models.ErrConflict))

		score.TotalPercentage = 90
		score.JudgeID = judges[1]
		err = f.Store.UpdateScore(ctx, score)
		assert.True(t, errors.Is(err, models.ErrScoreNotFound))

		score.JudgeID = judges[0]
		require.NoError(t, f.Store.UpdateScore(ctx, score))
		got, err := f.Store.GetScore(ctx, score.ID)
		require.NoError(t, err)
		assert.Equal(t, 90.0, got.TotalPercentage)

		scores, err := f.Store.ListScores(ctx, p.ID)
		require.NoError(t, err)
		assert.Len(t, scores, 1)
	})

	t.Run("transaction rolls back on error", func(t *testing.T) {
		f, entry := seed(t)
		p := f.Performance(entry)
		judges := f.Judges("ev1", 1)
		boom := errors.New("boom")

		err := f.Store.InTx(ctx, func(tx store.CompetitionStore) error {
			now := time.Now().UTC()
			require.NoError(t, tx.InsertScore(ctx, &models.Score{
				ID: uuid.NewString(), PerformanceID: p.ID, JudgeID: judges[0],
				TotalPercentage: 50, SubmittedAt: now, UpdatedAt: now,
			}))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		scores, err := f.Store.ListScores(ctx, p.ID)
		require.NoError(t, err)
		assert.Empty(t, scores)
	})

	t.Run("certificate upsert keeps delivery tracking", func(t *testing.T) {
		f, entry := seed(t)
		p := f.Performance(entry)

		cert := &models.Certificate{
			ID: uuid.NewString(), PerformanceID: p.ID, DisplayName: "Ada Lovelace",
			Percentage: 88, Title: "Swan Song", Medallion: "Legend", EventDate: "15 June 2024",
			CreatedAt: at, UpdatedAt: at,
		}
		first, err := f.Store.UpsertCertificate(ctx, cert)
		require.NoError(t, err)
		assert.Nil(t, first.SentAt)

		require.NoError(t, f.Store.MarkCertificateSent(ctx, p.ID, at))
		require.NoError(t, f.Store.MarkCertificateDownloaded(ctx, p.ID, at.Add(time.Minute)))
		require.NoError(t, f.Store.MarkCertificateSent(ctx, p.ID, at.Add(time.Hour)))

		again := *cert
		again.ID = uuid.NewString()
		again.Percentage = 91
		again.Medallion = "Opus"
		again.UpdatedAt = at.Add(2 * time.Hour)
		second, err := f.Store.UpsertCertificate(ctx, &again)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 91, second.Percentage)
		require.NotNil(t, second.SentAt)
		assert.True(t, at.Equal(*second.SentAt))
		require.NotNil(t, second.DownloadedAt)
		assert.True(t, at.Add(time.Minute).Equal(*second.DownloadedAt))

		err = f.Store.MarkCertificateSent(ctx, "missing", at)
		assert.True(t, errors.Is(err, models.ErrNotFound))
	})
	t.Run("certificate upsert without a ref keeps the stored one", func(t *testing.T) {
		tests := []struct {
			name     string
			ref      string
			expected string
		}{
			{"empty ref", "", "redis:cert:1"},
			{"new ref", "redis:cert:2", "redis:cert:2"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f, entry := seed(t)
				p := f.Performance(entry)

				cert := &models.Certificate{
					ID: uuid.NewString(), PerformanceID: p.ID, DisplayName: "Ada Lovelace",
					Percentage: 88, Title: "Swan Song", Medallion: "Legend", EventDate: "15 June 2024",
					ArtifactRef: "redis:cert:1", CreatedAt: at, UpdatedAt: at,
				}
				_, err := f.Store.UpsertCertificate(ctx, cert)
				require.NoError(t, err)

				again := *cert
				again.ID = uuid.NewString()
				again.ArtifactRef = tt.ref
				stored, err := f.Store.UpsertCertificate(ctx, &again)
				require.NoError(t, err)
				assert.Equal(t, tt.expected, stored.ArtifactRef)
			})
		}
	})
}
