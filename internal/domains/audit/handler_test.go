package audit

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sangkips/customer-data-service/internal/auth"
	"github.com/sangkips/customer-data-service/internal/domains/audit/models"
	"github.com/sangkips/customer-data-service/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	entries map[int32][]models.CustomerAuditLog
	err     error
	calls   int
}

func (s *stubRepo) InsertAuditEntry(ctx context.Context, params models.InsertAuditEntryParams) (int64, error) {
	return 0, errors.New("not implemented")
}

func (s *stubRepo) ListAuditEntriesForCustomer(ctx context.Context, customerID int32) ([]models.CustomerAuditLog, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.entries[customerID], nil
}

func newAuditRouter(repo Repository) http.Handler {
	authn := auth.NewAuthenticator(auth.NewBasicStrategy(auth.NewStaticStore(auth.Credentials{
		Username: "test_user",
		Password: "test_password",
	})))

	r := chi.NewRouter()
	r.Route("/customers", func(r chi.Router) {
		r.Use(auth.Middleware(authn))
		NewHandler(repo).RegisterAuditRoutes(r)
	})
	return r
}

func get(h http.Handler, path string, authorized bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorized {
		req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("test_user:test_password")))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestListCustomerAudit(t *testing.T) {
	occurred := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	created := models.CustomerAuditLog{ID: 1, EventID: uuid.New(), CustomerID: 7, Action: "created", OccurredAt: occurred, RecordedAt: occurred.Add(time.Second)}
	deleted := models.CustomerAuditLog{ID: 2, EventID: uuid.New(), CustomerID: 7, Action: "deleted", OccurredAt: occurred.Add(time.Hour), RecordedAt: occurred.Add(time.Hour)}
	repo := &stubRepo{entries: map[int32][]models.CustomerAuditLog{7: {created, deleted}}}
	router := newAuditRouter(repo)

	w := get(router, "/customers/7/audit", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body ListEntriesResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, int32(7), body.CustomerID)
	require.Len(t, body.Items, 2)
	assert.Equal(t, created.EventID, body.Items[0].EventID)
	assert.Equal(t, "created", body.Items[0].Action)
	assert.True(t, occurred.Equal(body.Items[0].OccurredAt))
	assert.Equal(t, "deleted", body.Items[1].Action)
}

func TestListCustomerAudit_EmptyHistory(t *testing.T) {
	router := newAuditRouter(&stubRepo{})

	w := get(router, "/customers/99/audit", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"customer_id":99,"items":[]}`, w.Body.String())
}

func TestListCustomerAudit_Errors(t *testing.T) {
	repo := &stubRepo{}
	router := newAuditRouter(repo)

	w := get(router, "/customers/7/audit", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(router, "/customers/abc/audit", true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = get(router, "/customers/99999999999/audit", true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, 0, repo.calls)

	repo.err = errors.New("pq: connection refused to 10.0.0.5")
	w = get(router, "/customers/7/audit", true)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")

	var body handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(strings.NewReader(w.Body.String())).Decode(&body))
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
}
