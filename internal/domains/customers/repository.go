package customers

import (
	"context"
	"time"

	"github.com/sangkips/customer-data-service/internal/domains/customers/models"
)

type Repository interface {
	CreateCustomer(ctx context.Context, customer models.CreateCustomerParams) (models.Customer, error)
	GetCustomer(ctx context.Context, id int32) (models.Customer, error)
	ListCustomers(ctx context.Context, params models.ListCustomersParams) ([]models.Customer, error)
	CountCustomers(ctx context.Context) (int64, error)
	UpdateCustomer(ctx context.Context, params models.UpdateCustomerParams) (models.Customer, error)
	DeleteCustomer(ctx context.Context, id int32) (int64, error)
}

type repository struct {
	q       *models.Queries
	timeout time.Duration
}

// NewRepository bounds every query by queryTimeout; zero disables the bound.
func NewRepository(db models.DBTX, queryTimeout time.Duration) Repository {
	return &repository{q: models.New(db), timeout: queryTimeout}
}

func (r *repository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *repository) CreateCustomer(ctx context.Context, customer models.CreateCustomerParams) (models.Customer, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.q.CreateCustomer(ctx, customer)
}

func (r *repository) GetCustomer(ctx context.Context, id int32) (models.Customer, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.q.GetCustomer(ctx, id)
}

func (r *repository) ListCustomers(ctx context.Context, params models.ListCustomersParams) ([]models.Customer, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.q.ListCustomers(ctx, params)
}

func (r *repository) CountCustomers(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.q.CountCustomers(ctx)
}

func (r *repository) UpdateCustomer(ctx context.Context, params models.UpdateCustomerParams) (models.Customer, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.q.UpdateCustomer(ctx, params)
}

func (r *repository) DeleteCustomer(ctx context.Context, id int32) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.q.DeleteCustomer(ctx, id)
}
