// Package trustee implements the trustee service: trustee and contract
// lifecycle, the outbound trustee.* events, and the RPC surface peers
// validate against.
package trustee

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/vendorguard/trusteed/internal/events"
	"github.com/vendorguard/trusteed/internal/idgen"
	"github.com/vendorguard/trusteed/internal/model"
	"github.com/vendorguard/trusteed/internal/store"
)

// Source is the service name stamped onto published events.
const Source = "trustee-service"

// Service coordinates trustee writes: local store first, then a best-effort
// domain event describing the change.
type Service struct {
	trustees  store.TrusteeStore
	contracts store.ContractStore
	publisher events.Publisher
}

// NewService returns a Service backed by the given stores and publisher.
func NewService(trustees store.TrusteeStore, contracts store.ContractStore, publisher events.Publisher) *Service {
	return &Service{
		trustees:  trustees,
		contracts: contracts,
		publisher: publisher,
	}
}

// publish sends a domain event. Publish failures never propagate: the local
// write is authoritative and event delivery is best-effort notification.
func (s *Service) publish(ctx context.Context, eventType string, data any) {
	if err := s.publisher.Publish(ctx, eventType, data); err != nil {
		slog.Warn("failed to publish event", "type", eventType, "error", err)
	}
}

// CreateTrusteeRequest carries the fields for a new trustee.
type CreateTrusteeRequest struct {
	CompanyName    string              `json:"companyName"`
	BusinessNumber string              `json:"businessNumber"`
	Representative string              `json:"representative"`
	ContactName    string              `json:"contactName"`
	ContactPhone   string              `json:"contactPhone"`
	ContactEmail   string              `json:"contactEmail"`
	DelegatedTasks string              `json:"delegatedTasks"`
	Status         model.TrusteeStatus `json:"status"`
}

// UpdateTrusteeRequest carries a partial trustee update; nil fields are left
// unchanged.
type UpdateTrusteeRequest struct {
	CompanyName    *string              `json:"companyName"`
	BusinessNumber *string              `json:"businessNumber"`
	Representative *string              `json:"representative"`
	ContactName    *string              `json:"contactName"`
	ContactPhone   *string              `json:"contactPhone"`
	ContactEmail   *string              `json:"contactEmail"`
	DelegatedTasks *string              `json:"delegatedTasks"`
	Status         *model.TrusteeStatus `json:"status"`
}

// CreateTrustee registers a new trustee. The business number must be unique.
func (s *Service) CreateTrustee(ctx context.Context, req *CreateTrusteeRequest) (*model.Trustee, error) {
	now := time.Now().UTC()
	t := &model.Trustee{
		CompanyName:    req.CompanyName,
		BusinessNumber: req.BusinessNumber,
		Representative: req.Representative,
		ContactName:    req.ContactName,
		ContactPhone:   req.ContactPhone,
		ContactEmail:   req.ContactEmail,
		DelegatedTasks: req.DelegatedTasks,
		Status:         req.Status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if t.Status == "" {
		t.Status = model.TrusteePending
	}
	if err := model.ValidateTrustee(t); err != nil {
		return nil, err
	}

	existing, err := s.trustees.GetTrusteeByBusinessNumber(ctx, t.BusinessNumber)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		return nil, model.NewConflict("business number %q is already registered", t.BusinessNumber)
	}

	id, err := idgen.Generate(idgen.PrefixTrustee)
	if err != nil {
		return nil, err
	}
	t.ID = id

	if err := s.trustees.CreateTrustee(ctx, t); err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeTrusteeCreated, events.TrusteeCreated{
		ID:             t.ID,
		CompanyName:    t.CompanyName,
		BusinessNumber: t.BusinessNumber,
	})

	return t, nil
}

// GetTrustee fetches a trustee with its contracts.
func (s *Service) GetTrustee(ctx context.Context, id string) (*model.Trustee, error) {
	t, err := s.trustees.GetTrustee(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NewNotFound("trustee", id)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTrustees returns a page of trustees and the total match count.
func (s *Service) ListTrustees(ctx context.Context, filter model.TrusteeFilter) ([]*model.Trustee, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.trustees.ListTrustees(ctx, filter)
}

// UpdateTrustee applies a partial update and publishes a trustee.updated
// event naming the changed fields.
func (s *Service) UpdateTrustee(ctx context.Context, id string, req *UpdateTrusteeRequest) (*model.Trustee, error) {
	t, err := s.GetTrustee(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.BusinessNumber != nil && *req.BusinessNumber != t.BusinessNumber {
		dup, err := s.trustees.GetTrusteeByBusinessNumber(ctx, *req.BusinessNumber)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		if dup != nil {
			return nil, model.NewConflict("business number %q is already registered", *req.BusinessNumber)
		}
	}

	var changes []string
	apply := func(field string, dst *string, src *string) {
		if src != nil {
			*dst = *src
			changes = append(changes, field)
		}
	}
	apply("companyName", &t.CompanyName, req.CompanyName)
	apply("businessNumber", &t.BusinessNumber, req.BusinessNumber)
	apply("representative", &t.Representative, req.Representative)
	apply("contactName", &t.ContactName, req.ContactName)
	apply("contactPhone", &t.ContactPhone, req.ContactPhone)
	apply("contactEmail", &t.ContactEmail, req.ContactEmail)
	apply("delegatedTasks", &t.DelegatedTasks, req.DelegatedTasks)
	if req.Status != nil {
		t.Status = *req.Status
		changes = append(changes, "status")
	}

	if err := model.ValidateTrustee(t); err != nil {
		return nil, err
	}
	t.UpdatedAt = time.Now().UTC()

	if err := s.trustees.UpdateTrustee(ctx, t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFound("trustee", id)
		}
		return nil, err
	}

	s.publish(ctx, events.TypeTrusteeUpdated, events.TrusteeUpdated{
		ID:          t.ID,
		CompanyName: t.CompanyName,
		Changes:     changes,
	})

	return t, nil
}

// DeleteTrustee removes a trustee and announces the deletion so peers can
// cancel dependent records.
func (s *Service) DeleteTrustee(ctx context.Context, id string) error {
	t, err := s.GetTrustee(ctx, id)
	if err != nil {
		return err
	}

	if err := s.trustees.DeleteTrustee(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.NewNotFound("trustee", id)
		}
		return err
	}

	s.publish(ctx, events.TypeTrusteeDeleted, events.TrusteeDeleted{
		ID:          t.ID,
		CompanyName: t.CompanyName,
	})

	return nil
}

// --- contracts ---

// CreateContractRequest carries the fields for a new contract.
type CreateContractRequest struct {
	TrusteeID string    `json:"trusteeId"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	FileURL   string    `json:"fileUrl"`
}

// UpdateContractRequest carries a partial contract update.
type UpdateContractRequest struct {
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	FileURL   *string    `json:"fileUrl"`
}

// CreateContract attaches a contract to an existing trustee.
func (s *Service) CreateContract(ctx context.Context, req *CreateContractRequest) (*model.Contract, error) {
	exists, err := s.trustees.TrusteeExists(ctx, req.TrusteeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.NewNotFound("trustee", req.TrusteeID)
	}

	id, err := idgen.Generate(idgen.PrefixContract)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &model.Contract{
		ID:        id,
		TrusteeID: req.TrusteeID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		FileURL:   req.FileURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.contracts.CreateContract(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetContract fetches a contract by id.
func (s *Service) GetContract(ctx context.Context, id string) (*model.Contract, error) {
	c, err := s.contracts.GetContract(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NewNotFound("contract", id)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListContractsByTrustee returns all contracts for an existing trustee.
func (s *Service) ListContractsByTrustee(ctx context.Context, trusteeID string) ([]*model.Contract, error) {
	exists, err := s.trustees.TrusteeExists(ctx, trusteeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.NewNotFound("trustee", trusteeID)
	}
	return s.contracts.ListContractsByTrustee(ctx, trusteeID)
}

// UpdateContract applies a partial update to a contract.
func (s *Service) UpdateContract(ctx context.Context, id string, req *UpdateContractRequest) (*model.Contract, error) {
	c, err := s.GetContract(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.StartDate != nil {
		c.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		c.EndDate = *req.EndDate
	}
	if req.FileURL != nil {
		c.FileURL = *req.FileURL
	}
	c.UpdatedAt = time.Now().UTC()

	if err := s.contracts.UpdateContract(ctx, c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFound("contract", id)
		}
		return nil, err
	}
	return c, nil
}

// DeleteContract removes a contract.
func (s *Service) DeleteContract(ctx context.Context, id string) error {
	if _, err := s.GetContract(ctx, id); err != nil {
		return err
	}
	if err := s.contracts.DeleteContract(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.NewNotFound("contract", id)
		}
		return err
	}
	return nil
}
