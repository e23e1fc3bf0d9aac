package queue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerEvent_WireFormat(t *testing.T) {
	id := uuid.MustParse("2f1c9a4e-8d7b-4a53-9b0e-3f7a1c2d4e5f")
	event := CustomerEvent{
		EventID:    id,
		Action:     "updated",
		CustomerID: 7,
		OccurredAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}

	body, err := json.Marshal(event)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"event_id": "2f1c9a4e-8d7b-4a53-9b0e-3f7a1c2d4e5f",
		"action": "updated",
		"customer_id": 7,
		"occurred_at": "2024-01-15T10:30:00Z"
	}`, string(body))
}

func TestPing_Unconnected(t *testing.T) {
	var r RabbitMQ
	assert.ErrorIs(t, r.Ping(), errConnectionClosed)
	assert.NoError(t, r.Close())
}
