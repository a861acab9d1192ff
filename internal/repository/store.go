package repository

import "github.com/jackc/pgx/v5/pgxpool"

// Store groups the repositories backing the complaint service.
type Store struct {
	Complaints ComplaintRepository
	History    ComplaintHistoryRepository
}

// NewStore returns Postgres repositories over pool, or in-memory ones when pool is nil.
func NewStore(pool *pgxpool.Pool) Store {
	if pool == nil {
		return Store{
			Complaints: NewMemoryComplaintRepository(),
			History:    NewMemoryComplaintHistoryRepository(),
		}
	}
	return Store{
		Complaints: NewComplaintRepository(pool),
		History:    NewComplaintHistoryRepository(pool),
	}
}
