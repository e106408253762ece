package service

import (
	"context"
	"log"

	"github.com/merchantcare/ticket-service/internal/directory"
	"github.com/merchantcare/ticket-service/internal/errs"
	"github.com/merchantcare/ticket-service/internal/metrics"
	"github.com/merchantcare/ticket-service/internal/model"
)

// AdminServicer — interface for handler Deps.
type AdminServicer interface {
	SendHumanMessage(ctx context.Context, ticketID, adminID, content string) (*model.Ticket, *model.Message, error)
	ResolveTicket(ctx context.Context, ticketID, adminID string) (*model.Ticket, bool, error)
	ListEscalated(ctx context.Context, adminID string) ([]model.Ticket, error)
}

// AdminService is the human-operator path. Every operation verifies the admin
// role against the external directory before touching the ticket or its log,
// and none of them ever invoke the agent gateway.
type AdminService struct {
	tickets TicketServicer
	chatlog ChatLogServicer
	roles   directory.RoleChecker
}

func NewAdminService(tickets TicketServicer, chatlog ChatLogServicer, roles directory.RoleChecker) *AdminService {
	return &AdminService{tickets: tickets, chatlog: chatlog, roles: roles}
}

func (s *AdminService) requireAdmin(ctx context.Context, adminID string) error {
	ok, err := s.roles.IsAdmin(ctx, adminID)
	if err != nil {
		log.Printf("admin: role check for %s: %v", adminID, err)
		return errs.ErrNotAuthorized
	}
	if !ok {
		return errs.ErrNotAuthorized
	}
	return nil
}

// SendHumanMessage appends an operator-authored assistant message and marks the
// ticket human-handled, which keeps the automation agent bypassed from here on.
func (s *AdminService) SendHumanMessage(ctx context.Context, ticketID, adminID, content string) (*model.Ticket, *model.Message, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, nil, err
	}
	t, err := s.tickets.GetByTicketID(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	msg := &model.Message{
		Role:    model.RoleAssistant,
		Content: content,
		IsHuman: true,
	}
	if err := s.chatlog.Append(ctx, t, msg); err != nil {
		return nil, nil, err
	}
	metrics.CountMessage(string(msg.Role), true)
	t, err = s.tickets.MarkAdminHandled(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	return t, msg, nil
}

// ResolveTicket applies the resolution transition and appends the resolution
// message exactly once. The bool reports whether this call resolved the ticket.
func (s *AdminService) ResolveTicket(ctx context.Context, ticketID, adminID string) (*model.Ticket, bool, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, false, err
	}
	t, resolved, err := s.tickets.ResolveEscalation(ctx, ticketID)
	if err != nil {
		return nil, false, err
	}
	if !resolved {
		return t, false, nil
	}
	metrics.Escalations.WithLabelValues("resolved").Inc()
	msg := &model.Message{
		Role:    model.RoleAssistant,
		Content: ResolutionMessage,
		IsHuman: false,
	}
	if err := s.chatlog.Append(ctx, t, msg); err != nil {
		return nil, false, err
	}
	metrics.CountMessage(string(msg.Role), false)
	return t, true, nil
}

// ListEscalated returns the admin queue: tickets currently marked escalated.
func (s *AdminService) ListEscalated(ctx context.Context, adminID string) ([]model.Ticket, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.tickets.ListEscalated(ctx)
}
