// Package inspection implements the inspection service: inspection and
// checklist item lifecycle, cross-service validation against the trustee
// service, and the cascade that reacts to trustee deletions.
package inspection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vendorguard/trusteed/internal/events"
	"github.com/vendorguard/trusteed/internal/idgen"
	"github.com/vendorguard/trusteed/internal/model"
	"github.com/vendorguard/trusteed/internal/rpc"
	"github.com/vendorguard/trusteed/internal/store"
)

// Source is the service name stamped onto published events.
const Source = "inspection-service"

// TrusteeValidator answers whether a trustee exists. Satisfied by
// rpc.TrusteeClient.
type TrusteeValidator interface {
	ValidateTrusteeExists(ctx context.Context, id string) (*rpc.ValidateResult, error)
}

// Service coordinates inspection writes. Writes that reference a trustee are
// validated over RPC first; a definitive "does not exist" rejects the write,
// while an inconclusive answer (peer down, timeout) lets the write proceed so
// the service stays available when the trustee service is not.
type Service struct {
	inspections store.InspectionStore
	validator   TrusteeValidator
	publisher   events.Publisher
}

// NewService returns a Service backed by the given store, validator and
// publisher.
func NewService(inspections store.InspectionStore, validator TrusteeValidator, publisher events.Publisher) *Service {
	return &Service{
		inspections: inspections,
		validator:   validator,
		publisher:   publisher,
	}
}

func (s *Service) publish(ctx context.Context, eventType string, data any) {
	if err := s.publisher.Publish(ctx, eventType, data); err != nil {
		slog.Warn("failed to publish event", "type", eventType, "error", err)
	}
}

// validateTrustee rejects only on a definitive negative. Transport failures
// are logged and treated as "unknown", which permits the write.
func (s *Service) validateTrustee(ctx context.Context, trusteeID string) error {
	res, err := s.validator.ValidateTrusteeExists(ctx, trusteeID)
	if err != nil {
		if rpc.IsNotFound(err) {
			return model.NewNotFound("trustee", trusteeID)
		}
		if rpc.Inconclusive(err) {
			slog.Warn("trustee validation inconclusive, proceeding",
				"trusteeId", trusteeID, "error", err)
			return nil
		}
		return err
	}
	if !res.Exists {
		return model.NewNotFound("trustee", trusteeID)
	}
	return nil
}

// CreateInspectionRequest carries the fields for a new inspection.
type CreateInspectionRequest struct {
	TrusteeID      string                 `json:"trusteeId"`
	InspectionDate time.Time              `json:"inspectionDate"`
	Score          *int                   `json:"score"`
	Status         model.InspectionStatus `json:"status"`
	Findings       string                 `json:"findings"`
	Improvements   string                 `json:"improvements"`
}

// UpdateInspectionRequest carries a partial inspection update.
type UpdateInspectionRequest struct {
	InspectionDate *time.Time              `json:"inspectionDate"`
	Score          *int                    `json:"score"`
	Status         *model.InspectionStatus `json:"status"`
	Findings       *string                 `json:"findings"`
	Improvements   *string                 `json:"improvements"`
}

// CreateInspection schedules a new inspection after validating the trustee.
func (s *Service) CreateInspection(ctx context.Context, req *CreateInspectionRequest) (*model.Inspection, error) {
	if err := s.validateTrustee(ctx, req.TrusteeID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	i := &model.Inspection{
		TrusteeID:      req.TrusteeID,
		InspectionDate: req.InspectionDate,
		Score:          req.Score,
		Status:         req.Status,
		Findings:       req.Findings,
		Improvements:   req.Improvements,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if i.Status == "" {
		i.Status = model.InspectionScheduled
	}
	if err := model.ValidateInspection(i); err != nil {
		return nil, err
	}

	id, err := idgen.Generate(idgen.PrefixInspection)
	if err != nil {
		return nil, err
	}
	i.ID = id

	if err := s.inspections.CreateInspection(ctx, i); err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeInspectionCreated, events.InspectionCreated{
		ID:             i.ID,
		TrusteeID:      i.TrusteeID,
		InspectionDate: i.InspectionDate,
	})

	return i, nil
}

// GetInspection fetches an inspection with its checklist items.
func (s *Service) GetInspection(ctx context.Context, id string) (*model.Inspection, error) {
	i, err := s.inspections.GetInspection(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NewNotFound("inspection", id)
	}
	if err != nil {
		return nil, err
	}
	return i, nil
}

// ListInspections returns a page of inspections and the total match count.
func (s *Service) ListInspections(ctx context.Context, filter model.InspectionFilter) ([]*model.Inspection, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.inspections.ListInspections(ctx, filter)
}

// ListInspectionsByTrustee returns every inspection for a trustee, newest
// first.
func (s *Service) ListInspectionsByTrustee(ctx context.Context, trusteeID string) ([]*model.Inspection, error) {
	return s.inspections.ListInspectionsByTrustee(ctx, trusteeID)
}

// UpdateInspection applies a partial update. If the update transitions the
// inspection into the completed state, an inspection.completed event is
// published; re-saving an already completed inspection does not re-announce.
func (s *Service) UpdateInspection(ctx context.Context, id string, req *UpdateInspectionRequest) (*model.Inspection, error) {
	i, err := s.GetInspection(ctx, id)
	if err != nil {
		return nil, err
	}
	wasCompleted := i.Status == model.InspectionCompleted

	if req.InspectionDate != nil {
		i.InspectionDate = *req.InspectionDate
	}
	if req.Score != nil {
		i.Score = req.Score
	}
	if req.Status != nil {
		i.Status = *req.Status
	}
	if req.Findings != nil {
		i.Findings = *req.Findings
	}
	if req.Improvements != nil {
		i.Improvements = *req.Improvements
	}

	if err := model.ValidateInspection(i); err != nil {
		return nil, err
	}
	i.UpdatedAt = time.Now().UTC()

	if err := s.inspections.UpdateInspection(ctx, i); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFound("inspection", id)
		}
		return nil, err
	}

	if !wasCompleted && i.Status == model.InspectionCompleted {
		s.publish(ctx, events.TypeInspectionCompleted, events.InspectionCompleted{
			ID:        i.ID,
			TrusteeID: i.TrusteeID,
			Score:     i.Score,
			Status:    i.Status.String(),
		})
	}

	return i, nil
}

// DeleteInspection removes an inspection and its items.
func (s *Service) DeleteInspection(ctx context.Context, id string) error {
	if _, err := s.GetInspection(ctx, id); err != nil {
		return err
	}
	if err := s.inspections.DeleteInspection(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.NewNotFound("inspection", id)
		}
		return err
	}
	return nil
}

// CancelByTrustee cancels every scheduled or in-progress inspection for the
// trustee and publishes a single inspection.cancelled event describing the
// cascade. Already terminal inspections are untouched, so replaying the same
// deletion is a no-op.
func (s *Service) CancelByTrustee(ctx context.Context, trusteeID, reason string) (int64, error) {
	n, err := s.inspections.CancelInspectionsByTrustee(ctx, trusteeID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.publish(ctx, events.TypeInspectionCancelled, events.InspectionCancelled{
			TrusteeID: trusteeID,
			Reason:    reason,
		})
	}
	return n, nil
}

// --- checklist items ---

// ItemRequest carries the fields for a new checklist item.
type ItemRequest struct {
	InspectionID string           `json:"inspectionId"`
	Category     string           `json:"category"`
	Question     string           `json:"question"`
	Result       model.ItemResult `json:"result"`
	Note         string           `json:"note"`
}

// UpdateItemRequest carries a partial checklist item update.
type UpdateItemRequest struct {
	Category *string           `json:"category"`
	Question *string           `json:"question"`
	Result   *model.ItemResult `json:"result"`
	Note     *string           `json:"note"`
}

// CreateItem attaches a checklist item to an existing inspection.
func (s *Service) CreateItem(ctx context.Context, req *ItemRequest) (*model.InspectionItem, error) {
	if _, err := s.GetInspection(ctx, req.InspectionID); err != nil {
		return nil, err
	}
	it, err := s.newItem(req.InspectionID, req)
	if err != nil {
		return nil, err
	}
	if err := s.inspections.CreateInspectionItem(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// CreateItems attaches a batch of checklist items to an existing inspection
// in one transaction.
func (s *Service) CreateItems(ctx context.Context, inspectionID string, reqs []*ItemRequest) ([]*model.InspectionItem, error) {
	if _, err := s.GetInspection(ctx, inspectionID); err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, model.NewValidation("items", "at least one item is required")
	}
	items := make([]*model.InspectionItem, 0, len(reqs))
	for idx, req := range reqs {
		it, err := s.newItem(inspectionID, req)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", idx, err)
		}
		items = append(items, it)
	}
	if err := s.inspections.CreateInspectionItems(ctx, inspectionID, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Service) newItem(inspectionID string, req *ItemRequest) (*model.InspectionItem, error) {
	now := time.Now().UTC()
	it := &model.InspectionItem{
		InspectionID: inspectionID,
		Category:     req.Category,
		Question:     req.Question,
		Result:       req.Result,
		Note:         req.Note,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := model.ValidateInspectionItem(it); err != nil {
		return nil, err
	}
	id, err := idgen.Generate(idgen.PrefixItem)
	if err != nil {
		return nil, err
	}
	it.ID = id
	return it, nil
}

// GetItem fetches a checklist item by id.
func (s *Service) GetItem(ctx context.Context, id string) (*model.InspectionItem, error) {
	it, err := s.inspections.GetInspectionItem(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NewNotFound("inspection item", id)
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

// ListItems returns the checklist items of an existing inspection.
func (s *Service) ListItems(ctx context.Context, inspectionID string) ([]*model.InspectionItem, error) {
	if _, err := s.GetInspection(ctx, inspectionID); err != nil {
		return nil, err
	}
	return s.inspections.ListInspectionItems(ctx, inspectionID)
}

// UpdateItem applies a partial update to a checklist item.
func (s *Service) UpdateItem(ctx context.Context, id string, req *UpdateItemRequest) (*model.InspectionItem, error) {
	it, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Category != nil {
		it.Category = *req.Category
	}
	if req.Question != nil {
		it.Question = *req.Question
	}
	if req.Result != nil {
		it.Result = *req.Result
	}
	if req.Note != nil {
		it.Note = *req.Note
	}

	if err := model.ValidateInspectionItem(it); err != nil {
		return nil, err
	}
	it.UpdatedAt = time.Now().UTC()

	if err := s.inspections.UpdateInspectionItem(ctx, it); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFound("inspection item", id)
		}
		return nil, err
	}
	return it, nil
}

// DeleteItem removes a checklist item.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	if _, err := s.GetItem(ctx, id); err != nil {
		return err
	}
	if err := s.inspections.DeleteInspectionItem(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.NewNotFound("inspection item", id)
		}
		return err
	}
	return nil
}
