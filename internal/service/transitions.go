package service

import (
	"time"

	"github.com/merchantcare/ticket-service/internal/model"
)

// Chat log texts appended as transition side effects.
const (
	HandoffMessage = "You've been connected to a human agent. Our support team will review your conversation and respond shortly."

	ResolutionMessage = "This ticket has been resolved by our support team. If you need anything else, just send another message."

	// EscalatedHoldMessage is returned (not appended) when a merchant writes to
	// an escalated ticket: the automation agent is bypassed, a human will answer.
	EscalatedHoldMessage = "A human agent is handling your ticket and will respond here as soon as possible."
)

// ApplyEscalation moves a ticket to escalated. Idempotent: an already-escalated
// ticket is left untouched and the caller must not append a second handoff message.
func ApplyEscalation(t *model.Ticket, now time.Time) bool {
	if t.IsEscalated {
		return false
	}
	t.IsEscalated = true
	t.EscalatedAt = &now
	t.Status = model.TicketStatusEscalated
	t.UpdatedAt = now
	return true
}

// ApplyAdminMessage marks a ticket human-handled. This is unconditional: any
// admin message on any ticket forces is_escalated=true and in_progress, which
// keeps the automation agent out of the conversation from that point on.
func ApplyAdminMessage(t *model.Ticket, now time.Time) {
	t.IsEscalated = true
	t.Status = model.TicketStatusInProgress
	t.UpdatedAt = now
}

// ApplyResolution resolves an escalated or in-progress ticket and hands it back
// to the automation agent. Any other status is a no-op.
func ApplyResolution(t *model.Ticket, now time.Time) bool {
	if t.Status != model.TicketStatusEscalated && t.Status != model.TicketStatusInProgress {
		return false
	}
	t.IsEscalated = false
	t.Status = model.TicketStatusResolved
	t.UpdatedAt = now
	return true
}

// ApplyMerchantReactivation reopens a resolved ticket on a new merchant message.
func ApplyMerchantReactivation(t *model.Ticket, now time.Time) bool {
	if t.Status != model.TicketStatusResolved {
		return false
	}
	t.Status = model.TicketStatusInProgress
	t.UpdatedAt = now
	return true
}
