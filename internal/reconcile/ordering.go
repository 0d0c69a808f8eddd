package reconcile

import (
	"context"
	"fmt"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/encore/internal/models"
	"github.com/shrimpsizemoose/encore/internal/store"
)

// AssignItemNumber sets the entry's item number and mirrors it onto its
// performance. A number, once set, only changes when force is given.
func (r *Reconciler) AssignItemNumber(ctx context.Context, entryID string, itemNumber int, force bool) (*models.EventEntry, error) {
	if itemNumber < 1 {
		return nil, fmt.Errorf("item number %d must be positive: %w", itemNumber, models.ErrValidation)
	}

	var updated *models.EventEntry
	err := r.store.InTx(ctx, func(tx store.CompetitionStore) error {
		entry, err := tx.GetEntry(ctx, entryID)
		if err != nil {
			return err
		}
		if entry == nil {
			return fmt.Errorf("%s: %w", entryID, models.ErrEntryNotFound)
		}

		if entry.ItemNumber != nil && *entry.ItemNumber != itemNumber && !force {
			return fmt.Errorf("entry %s has item number %d: %w", entryID, *entry.ItemNumber, models.ErrItemNumberLocked)
		}

		if err := tx.SetEntryItemNumber(ctx, entryID, itemNumber); err != nil {
			return err
		}
		entry.ItemNumber = &itemNumber

		p, err := tx.GetPerformanceByEntry(ctx, entryID)
		if err != nil {
			return err
		}
		if p != nil {
			if err := tx.UpdatePerformanceItemNumber(ctx, p.ID, &itemNumber, r.now()); err != nil {
				return err
			}
		}

		updated = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info.Printf("Entry %s item number set to %d (force=%t)", entryID, itemNumber, force)
	return updated, nil
}

// SetRunningOrder changes performance_order only; item numbers are untouched.
func (r *Reconciler) SetRunningOrder(ctx context.Context, eventID string, items []models.RunningOrderItem) ([]models.Performance, error) {
	err := r.store.InTx(ctx, func(tx store.CompetitionStore) error {
		now := r.now()
		for _, item := range items {
			if item.Order != nil && *item.Order < 1 {
				return fmt.Errorf("order %d for %s must be positive: %w", *item.Order, item.PerformanceID, models.ErrValidation)
			}

			p, err := tx.GetPerformance(ctx, item.PerformanceID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%s: %w", item.PerformanceID, models.ErrPerformanceMissing)
			}
			if p.EventID != eventID {
				return fmt.Errorf("performance %s belongs to event %s, not %s: %w",
					p.ID, p.EventID, eventID, models.ErrValidation)
			}

			if err := tx.SetPerformanceOrder(ctx, p.ID, item.Order, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.store.ListPerformances(ctx, eventID)
}
