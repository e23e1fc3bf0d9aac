package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ParseCustomerID reads the {id} URL parameter. Non-numeric input is a
// malformed request; a number outside the int32 key space cannot name any
// row, so it is reported the same way as an unknown customer.
func ParseCustomerID(w http.ResponseWriter, r *http.Request) (int32, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 32)
	switch {
	case errors.Is(err, strconv.ErrRange):
		RespondWithError(w, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found")
		return 0, false
	case err != nil:
		RespondWithError(w, http.StatusBadRequest, "INVALID_CUSTOMER_ID", "Invalid customer ID format")
		return 0, false
	}
	return int32(id), true
}
