package kafka

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/merchantcare/ticket-service/internal/model"
	"github.com/segmentio/kafka-go"
)

// TicketEventProducer — interface for handler Deps (mockable in tests).
type TicketEventProducer interface {
	ProduceTicketEvent(ctx context.Context, event string, payload map[string]interface{})
}

// Ticket lifecycle events. Best-effort telemetry for downstream consumers
// (dashboards, search), not a delivery guarantee for anything in the core flow.
const (
	EventTicketCreated   = "ticket.created"
	EventTicketUpdated   = "ticket.updated"
	EventTicketEscalated = "ticket.escalated"
	EventTicketResolved  = "ticket.resolved"
	EventTicketMessage   = "ticket.message"
)

// Producer writes ticket events to a Kafka topic (best-effort, never blocks the API).
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a producer. With no brokers or an empty topic, all
// methods are no-ops.
func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 || topic == "" {
		return &Producer{}
	}
	return &Producer{
		topic: topic,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// TicketPayload builds the event payload for a ticket.
func TicketPayload(t *model.Ticket) map[string]interface{} {
	if t == nil {
		return nil
	}
	return map[string]interface{}{
		"ticket_id":    t.TicketID,
		"merchant_id":  t.MerchantID,
		"status":       string(t.Status),
		"priority":     string(t.Priority),
		"title":        t.Title,
		"is_escalated": t.IsEscalated,
	}
}

// ProduceTicketEvent sends one event to the topic.
func (p *Producer) ProduceTicketEvent(ctx context.Context, event string, payload map[string]interface{}) {
	if p.writer == nil {
		return
	}
	msg := map[string]interface{}{"event": event}
	for k, v := range payload {
		msg[k] = v
	}
	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("kafka: marshal ticket event: %v", err)
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: body}); err != nil {
		log.Printf("kafka: write ticket event: %v", err)
	}
}

// Close closes the writer.
func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// ParseBrokers splits "host1:9092,host2:9092" into a slice.
func ParseBrokers(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
