package dto

import (
	"time"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// SubmitComplaintRequest payload.
type SubmitComplaintRequest struct {
	UserID       string `json:"user_id"`
	Description  string `json:"description"`
	LocationCode string `json:"location_code"`
}

// SubmitComplaintResponse is returned on successful submission.
type SubmitComplaintResponse struct {
	ComplaintID  int64           `json:"complaint_id"`
	ReferenceKey string          `json:"reference_key"`
	Sector       domain.Sector   `json:"sector"`
	Priority     domain.Priority `json:"priority"`
	ClusterKey   string          `json:"cluster_key"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status  domain.ComplaintStatus `json:"status"`
	Comment string                 `json:"comment"`
}

// ComplaintSummary response.
type ComplaintSummary struct {
	ID           int64                  `json:"id"`
	ReferenceKey string                 `json:"reference_key"`
	Sector       domain.Sector          `json:"sector"`
	Priority     domain.Priority        `json:"priority"`
	Status       domain.ComplaintStatus `json:"status"`
	LocationCode string                 `json:"location_code"`
	ClusterKey   string                 `json:"cluster_key"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// ComplaintDetailResponse provides full complaint info.
type ComplaintDetailResponse struct {
	ComplaintSummary
	UserID      string                     `json:"user_id"`
	Description string                     `json:"description"`
	History     []ComplaintHistoryResponse `json:"history"`
}

// ComplaintHistoryResponse represents an audit entry.
type ComplaintHistoryResponse struct {
	ID         int64                      `json:"id"`
	ChangeType domain.ComplaintChangeType `json:"change_type"`
	OldValue   map[string]any             `json:"old_value"`
	NewValue   map[string]any             `json:"new_value"`
	CreatedAt  time.Time                  `json:"created_at"`
}

// DashboardResponse is the admin statistics payload.
type DashboardResponse struct {
	Total            int                            `json:"total"`
	High             int                            `json:"high"`
	Pending          int                            `json:"pending"`
	Processing       int                            `json:"processing"`
	Resolved         int                            `json:"resolved"`
	BySector         map[domain.Sector]int          `json:"by_sector"`
	ByPriority       map[domain.Priority]int        `json:"by_priority"`
	ByStatus         map[domain.ComplaintStatus]int `json:"by_status"`
	RecentComplaints []RecentComplaint              `json:"recent_complaints"`
	Clusters         []ClusterResponse              `json:"clusters"`
}

// RecentComplaint is a compact row in the dashboard feed.
type RecentComplaint struct {
	ID           int64                  `json:"id"`
	Sector       domain.Sector          `json:"sector"`
	LocationCode string                 `json:"location_code"`
	Priority     domain.Priority        `json:"priority"`
	Status       domain.ComplaintStatus `json:"status"`
	CreatedAt    time.Time              `json:"created_at"`
}

// ClusterResponse summarizes one cluster.
type ClusterResponse struct {
	Key          string        `json:"key"`
	Topic        string        `json:"topic"`
	Sector       domain.Sector `json:"sector"`
	LocationCode string        `json:"location_code"`
	Total        int           `json:"total"`
	Resolved     int           `json:"resolved"`
	Processing   int           `json:"processing"`
}
