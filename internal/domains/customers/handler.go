package customers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/customer-data-service/internal/apperrors"
	"github.com/sangkips/customer-data-service/internal/domains/customers/models"
	"github.com/sangkips/customer-data-service/internal/handlers"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterCustomerRoutes(r chi.Router) {
	r.Post("/", h.createCustomer)
	r.Get("/", h.listCustomers)
	r.Get("/{id}", h.getCustomer)
	r.Put("/{id}", h.updateCustomer)
	r.Delete("/{id}", h.deleteCustomer)
}

// CustomerResponse is the API response format for customers
type CustomerResponse struct {
	ID          int32     `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone"`
	Address     *string   `json:"address"`
	DateOfBirth *string   `json:"date_of_birth"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListCustomersResponse struct {
	Items []CustomerResponse `json:"items"`
	Total int64              `json:"total"`
	Skip  int32              `json:"skip"`
	Limit int32              `json:"limit"`
}

func toCustomerResponse(customer models.Customer) CustomerResponse {
	resp := CustomerResponse{
		ID:        customer.ID,
		FirstName: customer.FirstName,
		LastName:  customer.LastName,
		Email:     customer.Email,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}

	if customer.Phone.Valid {
		resp.Phone = &customer.Phone.String
	}
	if customer.Address.Valid {
		resp.Address = &customer.Address.String
	}
	if customer.DateOfBirth.Valid {
		dob := customer.DateOfBirth.Time.Format(dateLayout)
		resp.DateOfBirth = &dob
	}

	return resp
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	customer, err := h.svc.Create(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	handlers.RespondWithJSON(w, http.StatusCreated, toCustomerResponse(customer))
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	result, err := h.svc.List(r.Context(), params)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	items := make([]CustomerResponse, len(result.Items))
	for i, customer := range result.Items {
		items[i] = toCustomerResponse(customer)
	}

	handlers.RespondWithJSON(w, http.StatusOK, ListCustomersResponse{
		Items: items,
		Total: result.Total,
		Skip:  result.Skip,
		Limit: result.Limit,
	})
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.ParseCustomerID(w, r)
	if !ok {
		return
	}

	customer, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	handlers.RespondWithJSON(w, http.StatusOK, toCustomerResponse(customer))
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.ParseCustomerID(w, r)
	if !ok {
		return
	}

	var req UpdateCustomerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	customer, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	handlers.RespondWithJSON(w, http.StatusOK, toCustomerResponse(customer))
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.ParseCustomerID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	handlers.RespondWithJSON(w, http.StatusOK, handlers.MessageResponse{Message: "Customer deleted successfully"})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondWithError(w, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE", "Request body too large")
			return false
		}
		handlers.RespondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func parseListParams(r *http.Request) (ListParams, error) {
	params := ListParams{Skip: 0, Limit: DefaultListLimit}
	query := r.URL.Query()

	if s := query.Get("skip"); s != "" {
		skip, err := strconv.ParseInt(s, 10, 32)
		if err != nil || skip < 0 {
			return ListParams{}, apperrors.NewValidationError("skip", apperrors.InvalidParameter, "skip must be a non-negative integer")
		}
		params.Skip = int32(skip)
	}

	if s := query.Get("limit"); s != "" {
		limit, err := strconv.ParseInt(s, 10, 32)
		if err != nil || limit < 1 {
			return ListParams{}, apperrors.NewValidationError("limit", apperrors.InvalidParameter, "limit must be a positive integer")
		}
		params.Limit = int32(limit)
	}

	return params, nil
}

// respondWithServiceError never echoes persistence errors to the client.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := apperrors.AsValidationError(err); ok {
		handlers.RespondWithFieldError(w, http.StatusUnprocessableEntity, string(ve.Kind), ve.Field, ve.Message)
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		handlers.RespondWithError(w, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found")
	case errors.Is(err, apperrors.ErrConflict):
		handlers.RespondWithError(w, http.StatusConflict, "EMAIL_ALREADY_EXISTS", "Email already registered")
	default:
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("customer request failed")
		handlers.RespondWithError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
