package kafka

import (
	"context"
	"testing"

	"github.com/merchantcare/ticket-service/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestParseBrokers(t *testing.T) {
	assert.Nil(t, ParseBrokers(""))
	assert.Equal(t, []string{"a:9092"}, ParseBrokers("a:9092"))
	assert.Equal(t, []string{"a:9092", "b:9092"}, ParseBrokers(" a:9092 , b:9092 ,"))
}

func TestProducerNoopWithoutBrokers(t *testing.T) {
	p := NewProducer(nil, "tickets")
	// must not panic or block
	p.ProduceTicketEvent(context.Background(), EventTicketCreated, map[string]interface{}{"ticket_id": "TKT-X"})
	assert.NoError(t, p.Close())

	p = NewProducer([]string{"localhost:9092"}, "")
	p.ProduceTicketEvent(context.Background(), EventTicketCreated, nil)
	assert.NoError(t, p.Close())
}

func TestTicketPayload(t *testing.T) {
	assert.Nil(t, TicketPayload(nil))

	payload := TicketPayload(&model.Ticket{
		TicketID:    "TKT-ABC-0001",
		MerchantID:  "MERCH-1",
		Status:      model.TicketStatusEscalated,
		Priority:    model.TicketPriorityHigh,
		Title:       "My webhook isn't firing",
		IsEscalated: true,
	})
	assert.Equal(t, "TKT-ABC-0001", payload["ticket_id"])
	assert.Equal(t, "MERCH-1", payload["merchant_id"])
	assert.Equal(t, "escalated", payload["status"])
	assert.Equal(t, "high", payload["priority"])
	assert.Equal(t, true, payload["is_escalated"])
}
