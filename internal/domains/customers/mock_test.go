package customers

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sangkips/customer-data-service/internal/domains/customers/models"
)

// memoryRepo is an in-memory Repository that records how often it was used.
type memoryRepo struct {
	mu     sync.Mutex
	rows   map[int32]models.Customer
	nextID int32
	calls  int

	// err, when set, is returned by every method.
	err error
}

var _ Repository = (*memoryRepo)(nil)

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[int32]models.Customer), nextID: 1}
}

func (m *memoryRepo) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// emailTaken mirrors the unique index on lower(email).
func (m *memoryRepo) emailTaken(email string, except int32) bool {
	for id, c := range m.rows {
		if id != except && strings.EqualFold(c.Email, email) {
			return true
		}
	}
	return false
}

func (m *memoryRepo) CreateCustomer(ctx context.Context, p models.CreateCustomerParams) (models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return models.Customer{}, m.err
	}
	if m.emailTaken(p.Email, 0) {
		return models.Customer{}, &pgconn.PgError{Code: "23505", ConstraintName: "customers_email_lower_key"}
	}

	now := time.Now().UTC()
	c := models.Customer{
		ID:          m.nextID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		Phone:       p.Phone,
		Address:     p.Address,
		DateOfBirth: p.DateOfBirth,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.rows[c.ID] = c
	m.nextID++
	return c, nil
}

func (m *memoryRepo) GetCustomer(ctx context.Context, id int32) (models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return models.Customer{}, m.err
	}
	c, ok := m.rows[id]
	if !ok {
		return models.Customer{}, sql.ErrNoRows
	}
	return c, nil
}

func (m *memoryRepo) ListCustomers(ctx context.Context, p models.ListCustomersParams) ([]models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}

	all := make([]models.Customer, 0, len(m.rows))
	for _, c := range m.rows {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	start := int(p.Offset)
	if start > len(all) {
		start = len(all)
	}
	end := start + int(p.Limit)
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (m *memoryRepo) CountCustomers(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.rows)), nil
}

func (m *memoryRepo) UpdateCustomer(ctx context.Context, p models.UpdateCustomerParams) (models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return models.Customer{}, m.err
	}
	c, ok := m.rows[p.ID]
	if !ok {
		return models.Customer{}, sql.ErrNoRows
	}
	if p.Email.Valid && m.emailTaken(p.Email.String, p.ID) {
		return models.Customer{}, &pgconn.PgError{Code: "23505", ConstraintName: "customers_email_lower_key"}
	}

	if p.FirstName.Valid {
		c.FirstName = p.FirstName.String
	}
	if p.LastName.Valid {
		c.LastName = p.LastName.String
	}
	if p.Email.Valid {
		c.Email = p.Email.String
	}
	if p.SetPhone {
		c.Phone = p.Phone
	}
	if p.SetAddress {
		c.Address = p.Address
	}
	if p.SetDateOfBirth {
		c.DateOfBirth = p.DateOfBirth
	}

	next := time.Now().UTC()
	if !next.After(c.UpdatedAt) {
		next = c.UpdatedAt.Add(time.Microsecond)
	}
	c.UpdatedAt = next
	m.rows[c.ID] = c
	return c, nil
}

func (m *memoryRepo) DeleteCustomer(ctx context.Context, id int32) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	if _, ok := m.rows[id]; !ok {
		return 0, nil
	}
	delete(m.rows, id)
	return 1, nil
}

type publishedEvent struct {
	action     string
	customerID int32
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) PublishCustomerEvent(action string, customerID int32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{action: action, customerID: customerID})
	return p.err
}

func strPtr(s string) *string { return &s }
