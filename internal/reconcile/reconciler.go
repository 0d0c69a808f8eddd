// Package reconcile derives Performance records from approved entries and
// repairs them when they drift from their entry.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/encore/internal/identity"
	"github.com/shrimpsizemoose/encore/internal/metrics"
	"github.com/shrimpsizemoose/encore/internal/models"
	"github.com/shrimpsizemoose/encore/internal/store"
)

type Reconciler struct {
	store    store.CompetitionStore
	resolver *identity.Resolver
	now      func() time.Time
}

func NewReconciler(s store.CompetitionStore, resolver *identity.Resolver) *Reconciler {
	return &Reconciler{
		store:    s,
		resolver: resolver,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// EntryFailure records one entry skipped by ReconcileEvent.
type EntryFailure struct {
	EntryID string `json:"entry_id"`
	Error   string `json:"error"`
}

type Report struct {
	EventID  string         `json:"event_id"`
	Created  int            `json:"created"`
	Existing int            `json:"existing"`
	Failed   int            `json:"failed"`
	Failures []EntryFailure `json:"failures,omitempty"`
}

// EnsurePerformance returns the single Performance for an approved entry,
// creating or repairing it as needed.
func (r *Reconciler) EnsurePerformance(ctx context.Context, entryID string) (*models.Performance, error) {
	entry, err := r.store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("%s: %w", entryID, models.ErrEntryNotFound)
	}
	if !entry.Approved {
		return nil, fmt.Errorf("%s: %w", entryID, models.ErrNotApproved)
	}

	p, _, err := r.ensure(ctx, entry)
	return p, err
}

// ReconcileEvent ensures a performance for every approved entry of the event.
// Failing entries are logged and skipped. A cancelled or expired ctx stops the
// pass with an ErrDependency error instead of failing the remaining entries.
func (r *Reconciler) ReconcileEvent(ctx context.Context, eventID string) (*Report, error) {
	event, err := r.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("%s: %w", eventID, models.ErrEventNotFound)
	}

	entries, err := r.store.ListApprovedEntries(ctx, eventID)
	if err != nil {
		return nil, err
	}

	report := &Report{EventID: eventID}
	for i := range entries {
		entry := &entries[i]
		if err := interrupted(ctx, eventID, report); err != nil {
			return nil, err
		}
		_, created, err := r.ensure(ctx, entry)
		if err != nil {
			if err := interrupted(ctx, eventID, report); err != nil {
				return nil, err
			}
			logger.Error.Printf("Skipping entry %s of event %s: %v", entry.ID, eventID, err)
			metrics.ReconcileFailures.WithLabelValues(eventID).Inc()
			report.Failed++
			report.Failures = append(report.Failures, EntryFailure{EntryID: entry.ID, Error: err.Error()})
			continue
		}
		if created {
			report.Created++
		} else {
			report.Existing++
		}
	}

	logger.Info.Printf("Reconciled event %s: %d created, %d existing, %d failed",
		eventID, report.Created, report.Existing, report.Failed)
	return report, nil
}

func interrupted(ctx context.Context, eventID string, report *Report) error {
	if ctx.Err() == nil {
		return nil
	}
	logger.Error.Printf("Reconcile of event %s interrupted after %d created, %d existing: %v",
		eventID, report.Created, report.Existing, ctx.Err())
	return fmt.Errorf("reconcile of event %s interrupted: %w: %w", eventID, models.ErrDependency, ctx.Err())
}

func (r *Reconciler) ensure(ctx context.Context, entry *models.EventEntry) (*models.Performance, bool, error) {
	existing, err := r.store.GetPerformanceByEntry(ctx, entry.ID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		p, err := r.repair(ctx, entry, existing)
		return p, false, err
	}

	p, err := r.build(ctx, entry)
	if err != nil {
		return nil, false, err
	}

	stored, created, err := r.store.InsertPerformanceIfAbsent(ctx, p)
	if err != nil {
		return nil, false, err
	}
	if !created {
		// lost the race to a concurrent caller; its row is the one
		p, err := r.repair(ctx, entry, stored)
		return p, false, err
	}

	metrics.PerformancesCreated.WithLabelValues(entry.EventID).Inc()
	logger.Info.Printf("Created performance %s for entry %s", stored.ID, entry.ID)
	return stored, true, nil
}

// repair corrects event and item-number drift in one transaction.
func (r *Reconciler) repair(ctx context.Context, entry *models.EventEntry, p *models.Performance) (*models.Performance, error) {
	now := r.now()
	eventDrift := p.EventID != entry.EventID
	itemDrift := entry.ItemNumber != nil && (p.ItemNumber == nil || *p.ItemNumber != *entry.ItemNumber)
	if !eventDrift && !itemDrift {
		return p, nil
	}

	err := r.store.InTx(ctx, func(tx store.CompetitionStore) error {
		if eventDrift {
			logger.Info.Printf("Performance %s event drifted %s -> %s, correcting", p.ID, p.EventID, entry.EventID)
			if err := tx.UpdatePerformanceEvent(ctx, p.ID, entry.EventID, now); err != nil {
				return err
			}
		}
		if itemDrift {
			logger.Info.Printf("Performance %s item number stale, mirroring %d from entry", p.ID, *entry.ItemNumber)
			if err := tx.UpdatePerformanceItemNumber(ctx, p.ID, entry.ItemNumber, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to repair performance %s: %w", p.ID, err)
	}

	if eventDrift {
		p.EventID = entry.EventID
		metrics.PerformancesRepaired.WithLabelValues("event_id").Inc()
	}
	if itemDrift {
		n := *entry.ItemNumber
		p.ItemNumber = &n
		metrics.PerformancesRepaired.WithLabelValues("item_number").Inc()
	}
	p.UpdatedAt = now
	return p, nil
}

func (r *Reconciler) build(ctx context.Context, entry *models.EventEntry) (*models.Performance, error) {
	participants, err := r.resolver.ResolveAll(ctx, entry.ParticipantIDs)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", entry.ID, err)
	}

	contestantID, err := r.contestantFor(ctx, entry, participants)
	if err != nil {
		return nil, err
	}

	now := r.now()
	return &models.Performance{
		ID:               uuid.NewString(),
		EventID:          entry.EventID,
		EventEntryID:     entry.ID,
		ContestantID:     contestantID,
		Title:            entry.ItemName,
		ParticipantNames: identity.Names(participants),
		Duration:         entry.EstimatedDuration,
		ItemNumber:       entry.ItemNumber,
		PerformanceOrder: nil,
		Status:           models.StatusScheduled,
		EntryType:        entry.EntryType,
		MusicURL:         entry.MusicURL,
		VideoURL:         entry.VideoURL,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// contestantFor keeps the nominal owner when it exists, else the first
// participant that resolves to a dancer.
func (r *Reconciler) contestantFor(ctx context.Context, entry *models.EventEntry, participants []identity.Participant) (string, error) {
	exists, err := r.store.ContestantExists(ctx, entry.OwnerID)
	if err != nil {
		return "", err
	}
	if exists {
		return entry.OwnerID, nil
	}

	for _, p := range participants {
		if p.Resolved() {
			logger.Debug.Printf("Entry %s owner %q missing, using dancer %s", entry.ID, entry.OwnerID, p.DancerID)
			return p.DancerID, nil
		}
	}

	return "", fmt.Errorf("entry %s: owner %q unknown and no participant resolves: %w",
		entry.ID, entry.OwnerID, models.ErrNoValidContestant)
}
