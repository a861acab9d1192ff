package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/grievance-service/internal/api/dto"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/service"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

// ComplaintsHandler manages complaint endpoints.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// Submit POST /api/complaints.
func (h *ComplaintsHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	complaint, _, err := h.service.Submit(c.UserContext(), service.SubmitInput{
		UserID:       req.UserID,
		Description:  req.Description,
		LocationCode: req.LocationCode,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.SubmitComplaintResponse{
		ComplaintID:  complaint.ID,
		ReferenceKey: complaint.ReferenceKey,
		Sector:       complaint.Sector,
		Priority:     complaint.Priority,
		ClusterKey:   complaint.ClusterKey,
	}})
}

// Get GET /api/complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	id, err := complaintID(c)
	if err != nil {
		return err
	}
	detail, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintDetail(detail)})
}

// UpdateStatus PATCH /api/complaints/:id/status.
func (h *ComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := complaintID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}
	complaint, err := h.service.UpdateStatus(c.UserContext(), id, req.Status, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintSummary(complaint)})
}

// ListByUser GET /api/users/:userId/complaints.
func (h *ComplaintsHandler) ListByUser(c *fiber.Ctx) error {
	page := min(parseInt(c.Query("page"), 1), maxPage)
	pageSize := min(parseInt(c.Query("page_size"), 20), maxPageSize)
	complaints, err := h.service.ListByUser(c.UserContext(), c.Params("userId"), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintSummary, 0, len(complaints))
	for i := range complaints {
		items = append(items, complaintSummary(&complaints[i]))
	}
	return c.JSON(fiber.Map{
		"data":       items,
		"pagination": fiber.Map{"page": page, "page_size": pageSize},
	})
}

const (
	maxPageSize = 100
	maxPage     = 10000
)

func complaintID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid complaint id", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func complaintSummary(complaint *domain.Complaint) dto.ComplaintSummary {
	return dto.ComplaintSummary{
		ID:           complaint.ID,
		ReferenceKey: complaint.ReferenceKey,
		Sector:       complaint.Sector,
		Priority:     complaint.Priority,
		Status:       complaint.Status,
		LocationCode: complaint.LocationCode,
		ClusterKey:   complaint.ClusterKey,
		CreatedAt:    complaint.CreatedAt,
		UpdatedAt:    complaint.UpdatedAt,
	}
}

func complaintDetail(detail *service.ComplaintDetail) dto.ComplaintDetailResponse {
	return dto.ComplaintDetailResponse{
		ComplaintSummary: complaintSummary(detail.Complaint),
		UserID:           detail.Complaint.UserID,
		Description:      detail.Complaint.Description,
		History:          historyResponses(detail.History),
	}
}

func historyResponses(entries []domain.ComplaintHistory) []dto.ComplaintHistoryResponse {
	resp := make([]dto.ComplaintHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.ComplaintHistoryResponse{
			ID:         entry.ID,
			ChangeType: entry.ChangeType,
			OldValue:   entry.OldValue,
			NewValue:   entry.NewValue,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return resp
}
