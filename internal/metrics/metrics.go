package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AgentGatewayReplies counts agent webhook calls by normalization outcome.
	AgentGatewayReplies = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ticket_service",
		Subsystem: "agent_gateway",
		Name:      "replies_total",
		Help:      "Agent webhook replies by normalization outcome.",
	}, []string{"outcome"})

	// MessagesAppended counts chat log appends by role and author.
	MessagesAppended = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ticket_service",
		Subsystem: "chatlog",
		Name:      "messages_appended_total",
		Help:      "Chat log entries appended, by role and human/automation author.",
	}, []string{"role", "author"})

	// Escalations counts genuine escalation and resolution transitions.
	Escalations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ticket_service",
		Subsystem: "tickets",
		Name:      "escalation_transitions_total",
		Help:      "Escalation state machine transitions applied.",
	}, []string{"transition"})
)

// Author label values for MessagesAppended.
const (
	AuthorHuman      = "human"
	AuthorAutomation = "automation"
	AuthorMerchant   = "merchant"
)

// CountMessage increments MessagesAppended for one appended entry.
func CountMessage(role string, isHuman bool) {
	author := AuthorAutomation
	switch {
	case role == "user":
		author = AuthorMerchant
	case isHuman:
		author = AuthorHuman
	}
	MessagesAppended.WithLabelValues(role, author).Inc()
}
