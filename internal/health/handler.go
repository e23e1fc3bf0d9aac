package health

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sangkips/customer-data-service/internal/handlers"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Database is the part of *sql.DB the health check needs.
type Database interface {
	PingContext(ctx context.Context) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Queue is the part of *queue.RabbitMQ the health check needs.
type Queue interface {
	Ping() error
}

type Handler struct {
	db      Database
	queue   Queue
	service string
	version string
	timeout time.Duration
}

// NewHandler builds the health handler. queue may be nil when the service
// runs without a broker; it is then left out of the report.
func NewHandler(db Database, queue Queue, service, version string, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Handler{
		db:      db,
		queue:   queue,
		service: service,
		version: version,
		timeout: timeout,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string           `json:"status"`
	Database  string           `json:"database"`
	Service   string           `json:"service"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
	Timestamp time.Time        `json:"timestamp"`
}

// Check represents a single health check
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health reports database and, when configured, queue connectivity. It is
// served without authentication.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	checks := make(map[string]Check)
	overallHealthy := true

	dbCheck := h.checkDatabase(ctx)
	checks["database"] = dbCheck
	if dbCheck.Status != StatusHealthy {
		overallHealthy = false
	}

	if h.queue != nil {
		queueCheck := h.checkQueue()
		checks["queue"] = queueCheck
		if queueCheck.Status != StatusHealthy {
			overallHealthy = false
		}
	}

	status := StatusHealthy
	statusCode := http.StatusOK
	if !overallHealthy {
		status = StatusUnhealthy
		statusCode = http.StatusServiceUnavailable
	}

	database := "connected"
	if dbCheck.Status != StatusHealthy {
		database = "disconnected"
	}

	handlers.RespondWithJSON(w, statusCode, HealthResponse{
		Status:    status,
		Database:  database,
		Service:   h.service,
		Version:   h.version,
		Checks:    checks,
		Timestamp: time.Now().UTC(),
	})
}

// checkDatabase checks if the database is accessible. Driver errors are
// logged rather than returned because this endpoint is unauthenticated.
func (h *Handler) checkDatabase(ctx context.Context) Check {
	if h.db == nil {
		return Check{Status: StatusUnhealthy, Message: "database is not configured"}
	}

	if err := h.db.PingContext(ctx); err != nil {
		log.Warn().Err(err).Msg("health check: database ping failed")
		return Check{Status: StatusUnhealthy, Message: "database connection failed"}
	}

	if _, err := h.db.ExecContext(ctx, "SELECT 1"); err != nil {
		log.Warn().Err(err).Msg("health check: database query failed")
		return Check{Status: StatusUnhealthy, Message: "database query failed"}
	}

	return Check{Status: StatusHealthy, Message: "database is accessible"}
}

func (h *Handler) checkQueue() Check {
	if err := h.queue.Ping(); err != nil {
		log.Warn().Err(err).Msg("health check: queue ping failed")
		return Check{Status: StatusUnhealthy, Message: "queue connection failed"}
	}
	return Check{Status: StatusHealthy, Message: "queue is accessible"}
}
