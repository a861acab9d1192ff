package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/grievance-service/internal/aggregate"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/events"
	"github.com/spec-kit/grievance-service/internal/observability"
	"github.com/spec-kit/grievance-service/internal/repository"
	"github.com/spec-kit/grievance-service/internal/triage"
	"github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

// SummaryCache stores the last computed dashboard summary. Invalidate bumps the
// generation, and SetIfCurrent refuses to store a summary computed under an older one.
type SummaryCache interface {
	Get(ctx context.Context) (*aggregate.Summary, bool, error)
	Generation(ctx context.Context) (int64, error)
	SetIfCurrent(ctx context.Context, summary aggregate.Summary, generation int64) (bool, error)
	Invalidate(ctx context.Context) error
}

// ComplaintService coordinates complaint workflows.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	history    repository.ComplaintHistoryRepository
	engine     *triage.Engine
	cache      SummaryCache
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// ComplaintDependencies bundles collaborators for the complaint service. Cache,
// Dispatcher and Metrics are optional.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	HistoryRepo   repository.ComplaintHistoryRepository
	Engine        *triage.Engine
	Cache         SummaryCache
	Dispatcher    events.Dispatcher
	Metrics       *observability.Metrics
	Logger        *zap.Logger
}

// SubmitInput describes a new complaint.
type SubmitInput struct {
	UserID       string
	Description  string
	LocationCode string
}

// ComplaintDetail is a complaint together with its audit trail.
type ComplaintDetail struct {
	Complaint *domain.Complaint
	History   []domain.ComplaintHistory
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	engine := deps.Engine
	if engine == nil {
		engine = triage.NewEngine(nil, triage.EngineHooks{})
	}
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		history:    deps.HistoryRepo,
		engine:     engine,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// Submit classifies and stores a complaint.
func (s *ComplaintService) Submit(ctx context.Context, input SubmitInput) (*domain.Complaint, triage.Result, error) {
	userID := strings.TrimSpace(input.UserID)
	description := strings.TrimSpace(input.Description)
	location := strings.TrimSpace(input.LocationCode)

	missing := []string{}
	if userID == "" {
		missing = append(missing, "user_id")
	}
	if description == "" {
		missing = append(missing, "description")
	}
	if location == "" {
		missing = append(missing, "location_code")
	}
	if len(missing) > 0 {
		return nil, triage.Result{}, errorutil.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}

	result := s.engine.Classify(description, location)
	complaint := &domain.Complaint{
		ReferenceKey: generateReferenceKey(),
		UserID:       userID,
		Description:  description,
		Sector:       result.Sector,
		Priority:     result.Priority,
		LocationCode: location,
		Status:       domain.ComplaintStatusSubmitted,
		ClusterKey:   result.ClusterKey,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, triage.Result{}, err
	}

	s.invalidateSummary(ctx)
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintSubmitted,
		ComplaintID: complaint.ID,
		Payload: events.ComplaintSubmittedPayload{
			ReferenceKey: complaint.ReferenceKey,
			UserID:       complaint.UserID,
			Sector:       complaint.Sector,
			Priority:     complaint.Priority,
			Rule:         string(result.Rule),
			ClusterKey:   complaint.ClusterKey,
			LocationCode: complaint.LocationCode,
		},
	})
	return complaint, result, nil
}

// Get returns a complaint and its history.
func (s *ComplaintService) Get(ctx context.Context, id int64) (*ComplaintDetail, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errorutil.IsNotFound(err) {
			return nil, errorutil.NewNotFound("complaint", map[string]any{"id": id})
		}
		return nil, err
	}
	history := []domain.ComplaintHistory{}
	if s.history != nil {
		history, err = s.history.ListByComplaint(ctx, id)
		if err != nil {
			return nil, err
		}
	}
	return &ComplaintDetail{Complaint: complaint, History: history}, nil
}

// ListByUser returns a page of a citizen's complaints, newest first.
func (s *ComplaintService) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Complaint, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errorutil.NewValidationError("user_id is required", nil)
	}
	return s.complaints.ListByUser(ctx, userID, limit, offset)
}

// UpdateStatus moves a complaint through its workflow. Classification fields are never
// recomputed.
func (s *ComplaintService) UpdateStatus(ctx context.Context, id int64, newStatus domain.ComplaintStatus, comment string) (*domain.Complaint, error) {
	if !newStatus.Valid() {
		return nil, errorutil.NewValidationError("invalid status", map[string]any{"status": newStatus})
	}
	current, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errorutil.IsNotFound(err) {
			return nil, errorutil.NewNotFound("complaint", map[string]any{"id": id})
		}
		return nil, err
	}
	oldStatus := current.Status
	if !isValidTransition(oldStatus, newStatus) {
		return nil, errorutil.NewConflict("invalid status transition", map[string]any{
			"from": oldStatus,
			"to":   newStatus,
		})
	}

	updated, err := s.complaints.UpdateStatus(ctx, id, oldStatus, newStatus)
	if errors.Is(err, repository.ErrStatusChanged) {
		return nil, errorutil.NewConflict("complaint status changed, retry", map[string]any{"id": id})
	}
	if err != nil {
		return nil, err
	}
	s.metrics.RecordStatusChange(oldStatus, newStatus)
	s.invalidateSummary(ctx)

	// the transition is committed; a lost audit row must not turn it into a failure
	comment = strings.TrimSpace(comment)
	if err := s.recordStatusChange(ctx, id, oldStatus, newStatus, comment); err != nil {
		s.logger.Error("status history write failed",
			zap.Int64("complaint_id", id),
			zap.String("from", string(oldStatus)),
			zap.String("to", string(newStatus)),
			zap.Error(err))
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: id,
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Comment:   comment,
		},
	})
	return updated, nil
}

// Dashboard returns the admin summary, served from cache when available. A summary is
// only cached if no complaint changed while it was being computed.
func (s *ComplaintService) Dashboard(ctx context.Context) (aggregate.Summary, error) {
	var (
		generation int64
		cacheable  bool
	)
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			s.metrics.RecordCache(observability.CacheError)
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		case ok:
			s.metrics.RecordCache(observability.CacheHit)
			return *cached, nil
		default:
			s.metrics.RecordCache(observability.CacheMiss)
		}
		// read before the snapshot so a concurrent invalidation is always noticed
		if generation, err = s.cache.Generation(ctx); err != nil {
			s.logger.Warn("dashboard cache generation read failed", zap.Error(err))
		} else {
			cacheable = true
		}
	}

	snapshot, err := s.complaints.ListAll(ctx)
	if err != nil {
		return aggregate.Summary{}, err
	}
	summary := aggregate.Summarize(snapshot)

	if cacheable {
		stored, err := s.cache.SetIfCurrent(ctx, summary, generation)
		switch {
		case err != nil:
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		case !stored:
			s.logger.Debug("dashboard summary outdated before caching, skipped")
		}
	}
	return summary, nil
}

func (s *ComplaintService) invalidateSummary(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

func generateReferenceKey() string {
	return "GRV-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.Int64("complaint_id", event.ComplaintID),
			zap.Error(err))
	}
}

var allowedTransitions = map[domain.ComplaintStatus][]domain.ComplaintStatus{
	domain.ComplaintStatusSubmitted:  {domain.ComplaintStatusInProgress, domain.ComplaintStatusResolved},
	domain.ComplaintStatusInProgress: {domain.ComplaintStatusResolved},
	domain.ComplaintStatusResolved:   {domain.ComplaintStatusInProgress},
}

func isValidTransition(current, next domain.ComplaintStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

func (s *ComplaintService) recordStatusChange(ctx context.Context, complaintID int64, oldStatus, newStatus domain.ComplaintStatus, comment string) error {
	if s.history == nil {
		return nil
	}
	entry := &domain.ComplaintHistory{
		ComplaintID: complaintID,
		ChangeType:  domain.ChangeTypeStatus,
		OldValue: map[string]any{
			"status": oldStatus,
		},
		NewValue: map[string]any{
			"status":  newStatus,
			"comment": comment,
		},
	}
	return s.history.Create(ctx, entry)
}
