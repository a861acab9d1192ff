package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/grievance-service/internal/domain"
)

const defaultPageSize = 20

// ErrStatusChanged is returned by UpdateStatus when the stored status no longer matches
// the expected one.
var ErrStatusChanged = errors.New("complaint status changed concurrently")

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id int64) (*domain.Complaint, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Complaint, error)
	// ListAll returns every complaint in insertion order.
	ListAll(ctx context.Context) ([]domain.Complaint, error)
	// UpdateStatus moves a complaint from status from to status to.
	UpdateStatus(ctx context.Context, id int64, from, to domain.ComplaintStatus) (*domain.Complaint, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates a Postgres-backed repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, reference_key, user_id, description, sector, priority, location_code,
               status, cluster_key, created_at, updated_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (reference_key, user_id, description, sector, priority, location_code, status, cluster_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		complaint.ReferenceKey,
		complaint.UserID,
		complaint.Description,
		complaint.Sector,
		complaint.Priority,
		complaint.LocationCode,
		complaint.Status,
		complaint.ClusterKey,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) GetByID(ctx context.Context, id int64) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1`
	return scanComplaint(r.pool.QueryRow(ctx, query, id))
}

func (r *complaintRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Complaint, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + complaintColumns + `
             FROM complaints WHERE user_id=$1
             ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) ListAll(ctx context.Context) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.ComplaintStatus) (*domain.Complaint, error) {
	query := `UPDATE complaints SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3
             RETURNING ` + complaintColumns
	c, err := scanComplaint(r.pool.QueryRow(ctx, query, to, id, from))
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if qerr := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM complaints WHERE id=$1)`, id).Scan(&exists); qerr != nil {
			return nil, qerr
		}
		if exists {
			return nil, ErrStatusChanged
		}
	}
	return c, err
}

func scanComplaint(row pgx.Row) (*domain.Complaint, error) {
	var c domain.Complaint
	if err := row.Scan(
		&c.ID,
		&c.ReferenceKey,
		&c.UserID,
		&c.Description,
		&c.Sector,
		&c.Priority,
		&c.LocationCode,
		&c.Status,
		&c.ClusterKey,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	result := []domain.Complaint{}
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}
