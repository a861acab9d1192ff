package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/grievance-service/internal/aggregate"
	"github.com/spec-kit/grievance-service/internal/api/dto"
	"github.com/spec-kit/grievance-service/internal/service"
)

// DashboardHandler serves admin statistics.
type DashboardHandler struct {
	service *service.ComplaintService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(complaintService *service.ComplaintService) *DashboardHandler {
	return &DashboardHandler{service: complaintService}
}

// Stats GET /api/admin/stats.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	summary, err := h.service.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dashboardResponse(summary))
}

func dashboardResponse(s aggregate.Summary) dto.DashboardResponse {
	recent := make([]dto.RecentComplaint, 0, len(s.Recent))
	for _, c := range s.Recent {
		recent = append(recent, dto.RecentComplaint{
			ID:           c.ID,
			Sector:       c.Sector,
			LocationCode: c.LocationCode,
			Priority:     c.Priority,
			Status:       c.Status,
			CreatedAt:    c.CreatedAt,
		})
	}
	clusters := make([]dto.ClusterResponse, 0, len(s.TopClusters))
	for _, cl := range s.TopClusters {
		clusters = append(clusters, dto.ClusterResponse{
			Key:          cl.Key,
			Topic:        cl.Topic,
			Sector:       cl.Sector,
			LocationCode: cl.LocationCode,
			Total:        cl.Total,
			Resolved:     cl.Resolved,
			Processing:   cl.Processing,
		})
	}
	return dto.DashboardResponse{
		Total:            s.Total,
		High:             s.High,
		Pending:          s.Pending,
		Processing:       s.Processing,
		Resolved:         s.Resolved,
		BySector:         s.BySector,
		ByPriority:       s.ByPriority,
		ByStatus:         s.ByStatus,
		RecentComplaints: recent,
		Clusters:         clusters,
	}
}
