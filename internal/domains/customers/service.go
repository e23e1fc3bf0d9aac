package customers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/customer-data-service/internal/apperrors"
	"github.com/sangkips/customer-data-service/internal/domains/customers/models"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500

	uniqueViolation = "23505"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// EventPublisher announces committed customer mutations.
type EventPublisher interface {
	PublishCustomerEvent(action string, customerID int32) error
}

type Service struct {
	repo   Repository
	events EventPublisher
}

// NewService builds the service. events may be nil when no broker is configured.
func NewService(repo Repository, events EventPublisher) *Service {
	return &Service{repo: repo, events: events}
}

type CreateCustomerRequest struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	DateOfBirth *string `json:"date_of_birth"`
}

// UpdateCustomerRequest fields left nil (absent or null) keep their stored value.
type UpdateCustomerRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	DateOfBirth *string `json:"date_of_birth"`
}

type ListParams struct {
	Skip  int32
	Limit int32
}

type ListResult struct {
	Items []models.Customer
	Total int64
	Skip  int32
	Limit int32
}

func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (models.Customer, error) {
	v, err := ValidateCreate(req)
	if err != nil {
		return models.Customer{}, err
	}

	customer, err := s.repo.CreateCustomer(ctx, models.CreateCustomerParams{
		FirstName:   v.FirstName,
		LastName:    v.LastName,
		Email:       v.Email,
		Phone:       toNullString(v.Phone),
		Address:     toNullString(v.Address),
		DateOfBirth: toNullTime(v.DateOfBirth),
	})
	if err != nil {
		return models.Customer{}, translateError(err, "create customer")
	}

	log.Info().Int32("customer_id", customer.ID).Msg("customer created")
	s.publish(ActionCreated, customer.ID)
	return customer, nil
}

func (s *Service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Skip < 0 {
		params.Skip = 0
	}
	if params.Limit < 1 {
		params.Limit = DefaultListLimit
	}
	if params.Limit > MaxListLimit {
		params.Limit = MaxListLimit
	}

	items, err := s.repo.ListCustomers(ctx, models.ListCustomersParams{
		Limit:  params.Limit,
		Offset: params.Skip,
	})
	if err != nil {
		return nil, translateError(err, "list customers")
	}

	total, err := s.repo.CountCustomers(ctx)
	if err != nil {
		return nil, translateError(err, "count customers")
	}

	return &ListResult{
		Items: items,
		Total: total,
		Skip:  params.Skip,
		Limit: params.Limit,
	}, nil
}

func (s *Service) Get(ctx context.Context, id int32) (models.Customer, error) {
	customer, err := s.repo.GetCustomer(ctx, id)
	if err != nil {
		return models.Customer{}, translateError(err, "get customer")
	}
	return customer, nil
}

func (s *Service) Update(ctx context.Context, id int32, req UpdateCustomerRequest) (models.Customer, error) {
	v, err := ValidateUpdate(req)
	if err != nil {
		return models.Customer{}, err
	}

	customer, err := s.repo.UpdateCustomer(ctx, models.UpdateCustomerParams{
		ID:             id,
		FirstName:      toNullString(v.FirstName),
		LastName:       toNullString(v.LastName),
		Email:          toNullString(v.Email),
		SetPhone:       v.SetPhone,
		Phone:          toNullString(v.Phone),
		SetAddress:     v.SetAddress,
		Address:        toNullString(v.Address),
		SetDateOfBirth: v.SetDateOfBirth,
		DateOfBirth:    toNullTime(v.DateOfBirth),
	})
	if err != nil {
		return models.Customer{}, translateError(err, "update customer")
	}

	log.Info().Int32("customer_id", customer.ID).Msg("customer updated")
	s.publish(ActionUpdated, customer.ID)
	return customer, nil
}

func (s *Service) Delete(ctx context.Context, id int32) error {
	rows, err := s.repo.DeleteCustomer(ctx, id)
	if err != nil {
		return translateError(err, "delete customer")
	}
	if rows == 0 {
		return apperrors.ErrNotFound
	}

	log.Info().Int32("customer_id", id).Msg("customer deleted")
	s.publish(ActionDeleted, id)
	return nil
}

// publish is best effort: the mutation is already committed and must not be
// reported as failed because the broker is unavailable.
func (s *Service) publish(action string, customerID int32) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishCustomerEvent(action, customerID); err != nil {
		log.Warn().Err(err).Str("action", action).Int32("customer_id", customerID).Msg("failed to publish customer event")
	}
}

// translateError maps persistence failures onto the service error taxonomy.
func translateError(err error, op string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return apperrors.ErrNotFound
	case isUniqueViolation(err):
		return apperrors.ErrConflict
	default:
		return fmt.Errorf("%s: %w: %w", op, apperrors.ErrPersistenceUnavailable, err)
	}
}

// isUniqueViolation recognises SQLSTATE 23505 from either supported driver.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
