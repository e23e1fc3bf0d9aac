package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/customer-data-service/internal/domains/audit"
	auditModels "github.com/sangkips/customer-data-service/internal/domains/audit/models"
	"github.com/sangkips/customer-data-service/internal/domains/customers"
	"github.com/sangkips/customer-data-service/internal/queue"
)

const (
	consumerTag       = "customer-audit-worker"
	prefetchCount     = 10
	defaultRetryDelay = time.Second
)

// Worker records customer events from the queue into the audit log.
type Worker struct {
	rabbitMQ   *queue.RabbitMQ
	repo       audit.Repository
	retryDelay time.Duration
}

func NewWorker(rabbitMQ *queue.RabbitMQ, db auditModels.DBTX) *Worker {
	return &Worker{
		rabbitMQ:   rabbitMQ,
		repo:       audit.NewRepository(db),
		retryDelay: defaultRetryDelay,
	}
}

func (w *Worker) Start(ctx context.Context) error {
	msgs, err := w.rabbitMQ.Consume(consumerTag, prefetchCount)
	if err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}

	log.Info().Msg("worker started, waiting for customer events")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("worker shutting down")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("rabbitMQ channel closed")
			}
			w.processMessage(ctx, d)
		}
	}
}

func knownAction(action string) bool {
	switch action {
	case customers.ActionCreated, customers.ActionUpdated, customers.ActionDeleted:
		return true
	}
	return false
}

func (w *Worker) processMessage(ctx context.Context, d amqp091.Delivery) {
	var event queue.CustomerEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal customer event")
		d.Reject(false)
		return
	}

	if event.EventID == uuid.Nil || !knownAction(event.Action) {
		log.Error().Str("event_id", event.EventID.String()).Str("action", event.Action).Msg("discarding invalid customer event")
		d.Reject(false)
		return
	}

	logger := log.With().
		Str("event_id", event.EventID.String()).
		Str("action", event.Action).
		Int32("customer_id", event.CustomerID).
		Logger()

	inserted, err := w.repo.InsertAuditEntry(ctx, auditModels.InsertAuditEntryParams{
		EventID:    event.EventID,
		CustomerID: event.CustomerID,
		Action:     event.Action,
		OccurredAt: event.OccurredAt,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to record customer event, requeueing")
		// Sleep a bit to prevent tight loop while the database is unavailable
		time.Sleep(w.retryDelay)
		d.Nack(false, true)
		return
	}

	if inserted == 0 {
		logger.Debug().Msg("customer event already recorded")
	} else {
		logger.Info().Msg("customer event recorded")
	}
	d.Ack(false)
}
