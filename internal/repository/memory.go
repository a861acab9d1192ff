package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/grievance-service/internal/domain"
)

var (
	_ ComplaintRepository        = (*MemoryComplaintRepository)(nil)
	_ ComplaintHistoryRepository = (*MemoryComplaintHistoryRepository)(nil)
)

// MemoryOption configures the in-memory repositories.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	now func() time.Time
}

// WithClock overrides the timestamp source used for created/updated times.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *memoryConfig) { c.now = now }
}

func newMemoryConfig(opts []MemoryOption) memoryConfig {
	cfg := memoryConfig{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// MemoryComplaintRepository holds complaints in memory. Used when no database is
// configured and in tests. Missing rows are reported as pgx.ErrNoRows to match the
// Postgres implementation.
type MemoryComplaintRepository struct {
	mu         sync.RWMutex
	cfg        memoryConfig
	nextID     int64
	complaints []*domain.Complaint // insertion order
	byID       map[int64]*domain.Complaint
}

// NewMemoryComplaintRepository initializes an empty store.
func NewMemoryComplaintRepository(opts ...MemoryOption) *MemoryComplaintRepository {
	return &MemoryComplaintRepository{
		cfg:  newMemoryConfig(opts),
		byID: make(map[int64]*domain.Complaint),
	}
}

func (r *MemoryComplaintRepository) Create(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	now := r.cfg.now()
	complaint.ID = r.nextID
	complaint.CreatedAt = now
	complaint.UpdatedAt = now
	cp := *complaint
	r.complaints = append(r.complaints, &cp)
	r.byID[cp.ID] = &cp
	return nil
}

func (r *MemoryComplaintRepository) GetByID(_ context.Context, id int64) (*domain.Complaint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (r *MemoryComplaintRepository) ListByUser(_ context.Context, userID string, limit, offset int) ([]domain.Complaint, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	r.mu.RLock()
	matched := []domain.Complaint{}
	for _, c := range r.complaints {
		if c.UserID == userID {
			matched = append(matched, *c)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	if offset >= len(matched) {
		return []domain.Complaint{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *MemoryComplaintRepository) ListAll(_ context.Context) ([]domain.Complaint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Complaint, 0, len(r.complaints))
	for _, c := range r.complaints {
		result = append(result, *c)
	}
	return result, nil
}

func (r *MemoryComplaintRepository) UpdateStatus(_ context.Context, id int64, from, to domain.ComplaintStatus) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if c.Status != from {
		return nil, ErrStatusChanged
	}
	c.Status = to
	c.UpdatedAt = r.cfg.now()
	cp := *c
	return &cp, nil
}

// MemoryComplaintHistoryRepository keeps audit entries in memory.
type MemoryComplaintHistoryRepository struct {
	mu      sync.RWMutex
	cfg     memoryConfig
	nextID  int64
	entries map[int64][]domain.ComplaintHistory
}

// NewMemoryComplaintHistoryRepository initializes an empty history store.
func NewMemoryComplaintHistoryRepository(opts ...MemoryOption) *MemoryComplaintHistoryRepository {
	return &MemoryComplaintHistoryRepository{
		cfg:     newMemoryConfig(opts),
		entries: make(map[int64][]domain.ComplaintHistory),
	}
}

func (r *MemoryComplaintHistoryRepository) Create(_ context.Context, history *domain.ComplaintHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	history.ID = r.nextID
	history.CreatedAt = r.cfg.now()
	r.entries[history.ComplaintID] = append(r.entries[history.ComplaintID], *history)
	return nil
}

func (r *MemoryComplaintHistoryRepository) ListByComplaint(_ context.Context, complaintID int64) ([]domain.ComplaintHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.ComplaintHistory{}, r.entries[complaintID]...), nil
}
