package health

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDB struct {
	pingErr  error
	queryErr error
}

func (f fakeDB) PingContext(ctx context.Context) error { return f.pingErr }

func (f fakeDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return nil, f.queryErr
}

type fakeQueue struct{ err error }

func (f fakeQueue) Ping() error { return f.err }

func serveHealth(t *testing.T, h *Handler) (int, HealthResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return w.Code, body
}

func TestHealth_Healthy(t *testing.T) {
	h := NewHandler(fakeDB{}, nil, "customer-data-service", "1.0.0", time.Second)

	code, body := serveHealth(t, h)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusHealthy, body.Status)
	assert.Equal(t, "connected", body.Database)
	assert.Equal(t, "customer-data-service", body.Service)
	assert.Equal(t, "1.0.0", body.Version)
	assert.NotContains(t, body.Checks, "queue")
	assert.WithinDuration(t, time.Now(), body.Timestamp, time.Minute)
}

func TestHealth_DatabaseDown(t *testing.T) {
	for name, db := range map[string]fakeDB{
		"ping":  {pingErr: errors.New("dial tcp 10.0.0.5:5432: connection refused")},
		"query": {queryErr: errors.New("terminating connection")},
	} {
		t.Run(name, func(t *testing.T) {
			code, body := serveHealth(t, NewHandler(db, nil, "svc", "v", time.Second))

			assert.Equal(t, http.StatusServiceUnavailable, code)
			assert.Equal(t, StatusUnhealthy, body.Status)
			assert.Equal(t, "disconnected", body.Database)
			assert.NotContains(t, body.Checks["database"].Message, "10.0.0.5")
		})
	}
}

func TestHealth_Queue(t *testing.T) {
	code, body := serveHealth(t, NewHandler(fakeDB{}, fakeQueue{}, "svc", "v", time.Second))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusHealthy, body.Checks["queue"].Status)

	code, body = serveHealth(t, NewHandler(fakeDB{}, fakeQueue{err: errors.New("channel is closed")}, "svc", "v", time.Second))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "connected", body.Database)
	assert.Equal(t, StatusUnhealthy, body.Checks["queue"].Status)
}
