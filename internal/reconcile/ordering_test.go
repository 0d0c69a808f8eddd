package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/encore/internal/models"
	"github.com/shrimpsizemoose/encore/internal/store/storetest"
)

func TestAssignItemNumber(t *testing.T) {
	ctx := context.Background()
	f, r := setup(t)
	entry := f.Entry(models.EventEntry{EventID: "ev1", OwnerID: "owner1", ParticipantIDs: models.StringList{"d1"}, Approved: true})
	p, err := r.EnsurePerformance(ctx, entry.ID)
	require.NoError(t, err)
	assert.Nil(t, p.ItemNumber)

	t.Run("first assignment is mirrored onto the performance", func(t *testing.T) {
		updated, err := r.AssignItemNumber(ctx, entry.ID, 5, false)
		require.NoError(t, err)
		assert.Equal(t, 5, *updated.ItemNumber)

		stored, err := f.Store.GetPerformance(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, *stored.ItemNumber)
	})

	t.Run("same number again is a no-op", func(t *testing.T) {
		_, err := r.AssignItemNumber(ctx, entry.ID, 5, false)
		assert.NoError(t, err)
	})

	t.Run("changing a locked number needs force", func(t *testing.T) {
		_, err := r.AssignItemNumber(ctx, entry.ID, 9, false)
		assert.ErrorIs(t, err, models.ErrItemNumberLocked)

		_, err = r.AssignItemNumber(ctx, entry.ID, 9, true)
		require.NoError(t, err)
		stored, err := f.Store.GetPerformance(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 9, *stored.ItemNumber)
	})

	t.Run("non-positive numbers are invalid", func(t *testing.T) {
		_, err := r.AssignItemNumber(ctx, entry.ID, 0, true)
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestSetRunningOrder_KeepsItemNumbers(t *testing.T) {
	ctx := context.Background()
	f, r := setup(t)

	var ids []string
	for i := 1; i <= 3; i++ {
		entry := f.Entry(models.EventEntry{
			EventID:        "ev1",
			OwnerID:        "owner1",
			ParticipantIDs: models.StringList{"d1"},
			Approved:       true,
			ItemNumber:     storetest.IntPtr(100 + i),
		})
		p, err := r.EnsurePerformance(ctx, entry.ID)
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	performances, err := r.SetRunningOrder(ctx, "ev1", []models.RunningOrderItem{
		{PerformanceID: ids[0], Order: storetest.IntPtr(3)},
		{PerformanceID: ids[1], Order: storetest.IntPtr(1)},
		{PerformanceID: ids[2], Order: storetest.IntPtr(2)},
	})
	require.NoError(t, err)
	require.Len(t, performances, 3)

	orders := map[string]int{}
	for _, p := range performances {
		require.NotNil(t, p.PerformanceOrder)
		orders[p.ID] = *p.PerformanceOrder
	}
	assert.Equal(t, map[string]int{ids[0]: 3, ids[1]: 1, ids[2]: 2}, orders)

	// listed by item number, which reordering never touches
	for i, p := range performances {
		assert.Equal(t, 101+i, *p.ItemNumber)
	}

	t.Run("clearing an order leaves the item number", func(t *testing.T) {
		performances, err := r.SetRunningOrder(ctx, "ev1", []models.RunningOrderItem{{PerformanceID: ids[0]}})
		require.NoError(t, err)
		assert.Nil(t, performances[0].PerformanceOrder)
		assert.Equal(t, 101, *performances[0].ItemNumber)
	})

	t.Run("performance from another event is rejected", func(t *testing.T) {
		f.Event("ev2")
		_, err := r.SetRunningOrder(ctx, "ev2", []models.RunningOrderItem{{PerformanceID: ids[0], Order: storetest.IntPtr(1)}})
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}
