package audit

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/customer-data-service/internal/domains/audit/models"
	"github.com/sangkips/customer-data-service/internal/handlers"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// RegisterAuditRoutes mounts the history route under an existing /customers
// router, so it shares that router's authentication.
func (h *Handler) RegisterAuditRoutes(r chi.Router) {
	r.Get("/{id}/audit", h.listCustomerAudit)
}

type EntryResponse struct {
	EventID    uuid.UUID `json:"event_id"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
	RecordedAt time.Time `json:"recorded_at"`
}

type ListEntriesResponse struct {
	CustomerID int32           `json:"customer_id"`
	Items      []EntryResponse `json:"items"`
}

func toEntryResponse(e models.CustomerAuditLog) EntryResponse {
	return EntryResponse{
		EventID:    e.EventID,
		Action:     e.Action,
		OccurredAt: e.OccurredAt,
		RecordedAt: e.RecordedAt,
	}
}

// listCustomerAudit returns the recorded history oldest first. History
// outlives the customer row, so an unknown id yields an empty list.
func (h *Handler) listCustomerAudit(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.ParseCustomerID(w, r)
	if !ok {
		return
	}

	entries, err := h.repo.ListAuditEntriesForCustomer(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Int32("customer_id", id).Msg("failed to list audit entries")
		handlers.RespondWithError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	items := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, toEntryResponse(e))
	}

	handlers.RespondWithJSON(w, http.StatusOK, ListEntriesResponse{CustomerID: id, Items: items})
}
