package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/encore/internal/identity"
	"github.com/shrimpsizemoose/encore/internal/models"
	"github.com/shrimpsizemoose/encore/internal/store"
	"github.com/shrimpsizemoose/encore/internal/store/storetest"
)

// unreachableDancers fails every lookup the way a dropped connection does.
type unreachableDancers struct{}

func (unreachableDancers) GetDancer(ctx context.Context, id string) (*models.Dancer, error) {
	return nil, fmt.Errorf("failed to get dancer: %w: %w", models.ErrDependency, errors.New("connection refused"))
}

func (unreachableDancers) GetDancerByCompetitorID(ctx context.Context, competitorID string) (*models.Dancer, error) {
	return nil, fmt.Errorf("failed to get dancer: %w: %w", models.ErrDependency, errors.New("connection refused"))
}

// failingItemNumbers breaks the item number write inside transactions too.
type failingItemNumbers struct {
	store.CompetitionStore
}

func (s failingItemNumbers) InTx(ctx context.Context, fn func(store.CompetitionStore) error) error {
	return s.CompetitionStore.InTx(ctx, func(tx store.CompetitionStore) error {
		return fn(failingItemNumbers{tx})
	})
}

func (failingItemNumbers) UpdatePerformanceItemNumber(ctx context.Context, id string, itemNumber *int, at time.Time) error {
	return fmt.Errorf("failed to update item number: %w: %w", models.ErrDependency, errors.New("disk I/O error"))
}

// cancelAfterFirstLookup cancels the pass once the first entry is looked up.
type cancelAfterFirstLookup struct {
	store.CompetitionStore
	cancel context.CancelFunc
	once   sync.Once
}

func (s *cancelAfterFirstLookup) GetPerformanceByEntry(ctx context.Context, entryID string) (*models.Performance, error) {
	p, err := s.CompetitionStore.GetPerformanceByEntry(ctx, entryID)
	s.once.Do(s.cancel)
	return p, err
}

func setup(t *testing.T) (*storetest.Fixture, *Reconciler) {
	f := storetest.New(t)
	f.Event("ev1")
	f.Studio("st1", "Step Up Studio")
	f.Contestant("owner1", "Olga Owner")
	f.Dancer("d1", "E1001", "Ada Lovelace", "st1")
	f.Dancer("d2", "E1002", "Bea Arthur", "st1")

	r := NewReconciler(f.Store, identity.NewResolver(f.Store))
	return f, r
}

func TestEnsurePerformance(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a scheduled performance with resolved names", func(t *testing.T) {
		f, r := setup(t)
		entry := f.Entry(models.EventEntry{
			EventID:        "ev1",
			OwnerID:        "owner1",
			ParticipantIDs: models.StringList{"d1", "E1002", "nobody"},
			ItemName:       "Swan Song",
			Approved:       true,
			ItemNumber:     storetest.IntPtr(12),
		})

		p, err := r.EnsurePerformance(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, entry.ID, p.EventEntryID)
		assert.Equal(t, "ev1", p.EventID)
		assert.Equal(t, "owner1", p.ContestantID)
		assert.Equal(t, "Swan Song", p.Title)
		assert.Equal(t, models.StringList{"Ada Lovelace", "Bea Arthur", "Participant 3"}, p.ParticipantNames)
		assert.Equal(t, models.StatusScheduled, p.Status)
		assert.Nil(t, p.PerformanceOrder)
		require.NotNil(t, p.ItemNumber)
		assert.Equal(t, 12, *p.ItemNumber)
		assert.False(t, p.ScoresPublished)
	})

	t.Run("sequential calls are idempotent", func(t *testing.T) {
		f, r := setup(t)
		entry := f.Entry(models.EventEntry{EventID: "ev1", OwnerID: "owner1", ParticipantIDs: models.StringList{"d1"}, Approved: true})

		first, err := r.EnsurePerformance(ctx, entry.ID)
		require.NoError(t, err)
		second, err := r.EnsurePerformance(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		all, err := f.Store.ListPerformances(ctx, "ev1")
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("concurrent calls create exactly one performance", func(t *testing.T) {
		f, r := setup(t)
		entry := f.Entry(models.EventEntry{EventID: "ev1", OwnerID: "owner1", ParticipantIDs: models.StringList{"d1"}, Approved: true})

		const callers = 8
		ids := make([]string, callers)
		errs := make([]error, callers)
		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				p, err := r.EnsurePerformance(ctx, entry.ID)
				errs[i] = err
				if p != nil {
					ids[i] = p.ID
				}
			}(i)
		}
		wg.Wait()

		for i := 0; i < callers; i++ {
			require.NoError(t, errs[i])
			assert.Equal(t, ids[0], ids[i])
		}
		all, err := f.Store.ListPerformances(ctx, "ev1")
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("unapproved entry is rejected", func(t *testing.T) {
		f, r := setup(t)
		entry := f.Entry(models.EventEntry{EventID: "ev1", OwnerID: "owner1", ParticipantIDs: models.StringList{"d1"}})

		_, err := r.EnsurePerformance(ctx, entry.ID)
		assert.ErrorIs(t, err, models.ErrNotApproved)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("missing entry is not found", func(t *testing.T) {
		_, r := setup(t)
		_, err := r.EnsurePerformance(ctx, "missing")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("missing owner falls back to first participant dancer id", func(t *testing.T) {
		f, r := setup(t)
		entry := f.Entry(models.EventEntry{
			EventID:        "ev1",
			OwnerID:        "deleted-account",
			ParticipantIDs: models.StringList{"E1002", "d1"},
			Approved:       true,
		})

		p, err := r.EnsurePerformance(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, "d2", p.ContestantID)
	})

	t.Run("no owner and no resolvable participant is a data integrity error", func(t *testing.T) {
		f, r := setup(t)
		entry := f.Entry(models.EventEntry{
			EventID:        "ev1",
			OwnerID:        "deleted-account",
			ParticipantIDs: models.StringList{"ghost"},
			Approved:       true,
		})

		_, err := r.EnsurePerformance(ctx, entry.ID)
		assert.ErrorIs(t, err, models.ErrNoValidContestant)
		assert.ErrorIs(t, err, models.ErrDataIntegrity)
	})

	t.Run("directory outage aborts without inserting", func(t *testing.T) {
		tests := []struct {
			name    string
			ownerID string
		}{
			{"known owner", "owner1"},
			{"missing owner", "deleted-account"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f, healthy := setup(t)
				entry := f.Entry(models.EventEntry{
					EventID:        "ev1",
					OwnerID:        tt.ownerID,
					ParticipantIDs: models.StringList{"d1", "E1002"},
					Approved:       true,
				})

				down := NewReconciler(f.Store, identity.NewResolver(unreachableDancers{}))
				_, err := down.EnsurePerformance(ctx, entry.ID)
				assert.ErrorIs(t, err, models.ErrDependency)
				assert.NotErrorIs(t, err, models.ErrDataIntegrity)

				stored, err := f.Store.GetPerformanceByEntry(ctx, entry.ID)
				require.NoError(t, err)
				assert.Nil(t, stored)

				p, err := healthy.EnsurePerformance(ctx, entry.ID)
				require.NoError(t, err)
				assert.Equal(t, models.StringList{"Ada Lovelace", "Bea Arthur"}, p.ParticipantNames)
			})
		}
	})

	t.Run("failed repair leaves no partial correction", func(t *testing.T) {
		f, _ := setup(t)
		f.Event("ev2")
		entry := f.Entry(models.EventEntry{
			EventID:        "ev1",
			OwnerID:        "owner1",
			ParticipantIDs: models.StringList{"d1"},
			Approved:       true,
		})
		seeded := f.Performance(entry)

		_, err := f.DB.Exec(f.DB.Rebind(`UPDATE event_entries SET event_id = 'ev2', item_number = 7 WHERE id = ?`), entry.ID)
		require.NoError(t, err)

		r := NewReconciler(failingItemNumbers{f.Store}, identity.NewResolver(f.Store))
		_, err = r.EnsurePerformance(ctx, entry.ID)
		assert.ErrorIs(t, err, models.ErrDependency)

		stored, err := f.Store.GetPerformance(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, "ev1", stored.EventID)
		assert.Nil(t, stored.ItemNumber)
	})

	t.Run("repairs drifted event id and stale item number", func(t *testing.T) {
		f, r := setup(t)
		f.Event("ev2")
		entry := f.Entry(models.EventEntry{
			EventID:        "ev1",
			OwnerID:        "owner1",
			ParticipantIDs: models.StringList{"d1"},
			Approved:       true,
		})
		seeded := f.Performance(entry)

		_, err := f.DB.Exec(`UPDATE event_entries SET event_id = 'ev2', item_number = 7 WHERE id = ?`, entry.ID)
		require.NoError(t, err)

		p, err := r.EnsurePerformance(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, p.ID)
		assert.Equal(t, "ev2", p.EventID)
		require.NotNil(t, p.ItemNumber)
		assert.Equal(t, 7, *p.ItemNumber)

		stored, err := f.Store.GetPerformance(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, "ev2", stored.EventID)
		assert.Equal(t, 7, *stored.ItemNumber)
	})
}

func TestReconcileEvent(t *testing.T) {
	ctx := context.Background()
	f, r := setup(t)

	live := f.Entry(models.EventEntry{EventID: "ev1", OwnerID: "owner1", ParticipantIDs: models.StringList{"d1"}, Approved: true})
	f.Entry(models.EventEntry{EventID: "ev1", OwnerID: "owner1", ParticipantIDs: models.StringList{"d2"}, Approved: true, EntryType: models.EntryTypeVirtual})
	f.Entry(models.EventEntry{EventID: "ev1", OwnerID: "owner1", ParticipantIDs: models.StringList{"d2"}})
	broken := f.Entry(models.EventEntry{EventID: "ev1", OwnerID: "gone", ParticipantIDs: models.StringList{"ghost"}, Approved: true})

	_, err := r.EnsurePerformance(ctx, live.ID)
	require.NoError(t, err)

	report, err := r.ReconcileEvent(ctx, "ev1")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Existing)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, broken.ID, report.Failures[0].EntryID)

	again, err := r.ReconcileEvent(ctx, "ev1")
	require.NoError(t, err)
	assert.Equal(t, 0, again.Created)
	assert.Equal(t, 2, again.Existing)

	_, err = r.ReconcileEvent(ctx, "nope")
	assert.ErrorIs(t, err, models.ErrEventNotFound)
}

func TestReconcileEvent_Interrupted(t *testing.T) {
	f, _ := setup(t)
	for i := 0; i < 3; i++ {
		f.Entry(models.EventEntry{EventID: "ev1", OwnerID: "owner1", ParticipantIDs: models.StringList{"d1"}, Approved: true})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wrapped := &cancelAfterFirstLookup{CompetitionStore: f.Store, cancel: cancel}
	r := NewReconciler(wrapped, identity.NewResolver(f.Store))

	report, err := r.ReconcileEvent(ctx, "ev1")
	assert.Nil(t, report)
	assert.ErrorIs(t, err, models.ErrDependency)
	assert.ErrorIs(t, err, context.Canceled)

	all, err := f.Store.ListPerformances(context.Background(), "ev1")
	require.NoError(t, err)
	assert.Empty(t, all)
}
