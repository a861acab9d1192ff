package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/grievance-service/internal/domain"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newComplaint(userID, location string) *domain.Complaint {
	return &domain.Complaint{
		UserID:       userID,
		Description:  "pothole",
		Sector:       domain.SectorRoads,
		Priority:     domain.PriorityLow,
		LocationCode: location,
		Status:       domain.ComplaintStatusSubmitted,
		ClusterKey:   location + "-Roads",
	}
}

func TestMemoryComplaintRepository_CreateAssignsIDs(t *testing.T) {
	t.Parallel()

	clock := &stepClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := NewMemoryComplaintRepository(WithClock(clock.Now))
	ctx := context.Background()

	a := newComplaint("u1", "600001")
	b := newComplaint("u1", "600002")
	require.NoError(t, r.Create(ctx, a))
	require.NoError(t, r.Create(ctx, b))

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
	assert.True(t, b.CreatedAt.After(a.CreatedAt))

	got, err := r.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "600002", got.LocationCode)
}

func TestMemoryComplaintRepository_GetMissing(t *testing.T) {
	t.Parallel()

	r := NewMemoryComplaintRepository()
	_, err := r.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	_, err = r.UpdateStatus(context.Background(), 99, domain.ComplaintStatusSubmitted, domain.ComplaintStatusResolved)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestMemoryComplaintRepository_UpdateStatusStale(t *testing.T) {
	t.Parallel()

	r := NewMemoryComplaintRepository()
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, newComplaint("u1", "600001")))

	_, err := r.UpdateStatus(ctx, 1, domain.ComplaintStatusInProgress, domain.ComplaintStatusResolved)
	assert.ErrorIs(t, err, ErrStatusChanged)

	got, err := r.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusSubmitted, got.Status)
}

func TestMemoryComplaintRepository_ReturnsCopies(t *testing.T) {
	t.Parallel()

	r := NewMemoryComplaintRepository()
	ctx := context.Background()
	c := newComplaint("u1", "600001")
	require.NoError(t, r.Create(ctx, c))

	c.Description = "changed by caller"
	got, err := r.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "pothole", got.Description)

	got.Status = domain.ComplaintStatusResolved
	again, err := r.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintStatusSubmitted, again.Status)
}

func TestMemoryComplaintRepository_ListByUser(t *testing.T) {
	t.Parallel()

	clock := &stepClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := NewMemoryComplaintRepository(WithClock(clock.Now))
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, r.Create(ctx, newComplaint("u1", fmt.Sprintf("60000%d", i))))
	}
	require.NoError(t, r.Create(ctx, newComplaint("u2", "700001")))

	got, err := r.ListByUser(ctx, "u1", 2, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(5), got[0].ID)
	assert.Equal(t, int64(4), got[1].ID)

	got, err = r.ListByUser(ctx, "u1", 2, 4)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	got, err = r.ListByUser(ctx, "u1", 2, 10)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = r.ListByUser(ctx, "nobody", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryComplaintRepository_ListAllInsertionOrder(t *testing.T) {
	t.Parallel()

	r := NewMemoryComplaintRepository()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, r.Create(ctx, newComplaint("u1", "600001")))
	}
	_, err := r.UpdateStatus(ctx, 2, domain.ComplaintStatusSubmitted, domain.ComplaintStatusInProgress)
	require.NoError(t, err)

	got, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, c := range got {
		assert.Equal(t, int64(i+1), c.ID)
	}
	assert.Equal(t, domain.ComplaintStatusInProgress, got[1].Status)
}

func TestMemoryComplaintRepository_ConcurrentCreate(t *testing.T) {
	t.Parallel()

	r := NewMemoryComplaintRepository()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Create(ctx, newComplaint("u1", "600001"))
		}()
	}
	wg.Wait()

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 50)
	seen := map[int64]bool{}
	for _, c := range all {
		assert.False(t, seen[c.ID], "duplicate id %d", c.ID)
		seen[c.ID] = true
	}
}

func TestMemoryComplaintHistoryRepository(t *testing.T) {
	t.Parallel()

	r := NewMemoryComplaintHistoryRepository()
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, &domain.ComplaintHistory{ComplaintID: 1, ChangeType: domain.ChangeTypeStatus}))
	require.NoError(t, r.Create(ctx, &domain.ComplaintHistory{ComplaintID: 2, ChangeType: domain.ChangeTypeStatus}))
	require.NoError(t, r.Create(ctx, &domain.ComplaintHistory{ComplaintID: 1, ChangeType: domain.ChangeTypeStatus}))

	got, err := r.ListByComplaint(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)

	got, err = r.ListByComplaint(ctx, 42)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNewStore_FallsBackToMemory(t *testing.T) {
	store := NewStore(nil)
	assert.IsType(t, &MemoryComplaintRepository{}, store.Complaints)
	assert.IsType(t, &MemoryComplaintHistoryRepository{}, store.History)
}
