package audit

import (
	"context"

	"github.com/sangkips/customer-data-service/internal/domains/audit/models"
)

type Repository interface {
	InsertAuditEntry(ctx context.Context, params models.InsertAuditEntryParams) (int64, error)
	ListAuditEntriesForCustomer(ctx context.Context, customerID int32) ([]models.CustomerAuditLog, error)
}

type repository struct {
	q *models.Queries
}

func NewRepository(db models.DBTX) Repository {
	return &repository{q: models.New(db)}
}

// InsertAuditEntry reports 0 rows when the event was already recorded.
func (r *repository) InsertAuditEntry(ctx context.Context, params models.InsertAuditEntryParams) (int64, error) {
	return r.q.InsertAuditEntry(ctx, params)
}

func (r *repository) ListAuditEntriesForCustomer(ctx context.Context, customerID int32) ([]models.CustomerAuditLog, error) {
	return r.q.ListAuditEntriesForCustomer(ctx, customerID)
}
