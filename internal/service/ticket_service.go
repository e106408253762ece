package service

import (
	"context"
	"errors"
	"time"

	"github.com/merchantcare/ticket-service/internal/errs"
	"github.com/merchantcare/ticket-service/internal/model"
	"gorm.io/gorm"
)

// TicketServicer — interface for handler Deps (dependency inversion).
type TicketServicer interface {
	Resolve(ctx context.Context, ticketID, merchantID, content string) (*model.Ticket, bool, error)
	GetByTicketID(ctx context.Context, ticketID string) (*model.Ticket, error)
	GetForMerchant(ctx context.Context, ticketID, merchantID string) (*model.Ticket, error)
	ListByMerchant(ctx context.Context, merchantID string) ([]model.Ticket, error)
	ListEscalated(ctx context.Context) ([]model.Ticket, error)
	UpdateStatus(ctx context.Context, ticketID string, status model.TicketStatus) (*model.Ticket, error)
	UpdatePriority(ctx context.Context, ticketID string, priority model.TicketPriority) (*model.Ticket, error)
	Escalate(ctx context.Context, ticketID string) (*model.Ticket, bool, error)
	MarkAdminHandled(ctx context.Context, ticketID string) (*model.Ticket, error)
	ResolveEscalation(ctx context.Context, ticketID string) (*model.Ticket, bool, error)
	Reactivate(ctx context.Context, t *model.Ticket) (bool, error)
}

type TicketService struct {
	db *gorm.DB
}

func NewTicketService(db *gorm.DB) *TicketService {
	return &TicketService{db: db}
}

// Resolve binds an inbound merchant message to a ticket: an existing
// (ticket_id, merchant_id) match is returned unchanged, anything else creates a
// fresh ticket with a generated id and a title derived from the first message.
// The returned bool reports whether a ticket was created.
func (s *TicketService) Resolve(ctx context.Context, ticketID, merchantID, content string) (*model.Ticket, bool, error) {
	if ticketID != "" {
		var t model.Ticket
		err := s.db.WithContext(ctx).First(&t, "ticket_id = ? AND merchant_id = ?", ticketID, merchantID).Error
		if err == nil {
			return &t, false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
	}
	now := time.Now().UTC()
	t := &model.Ticket{
		TicketID:   model.NewTicketID(now),
		MerchantID: merchantID,
		Status:     model.TicketStatusOpen,
		Priority:   model.TicketPriorityMedium,
		Title:      model.DeriveTitle(content),
	}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, false, err
	}
	return t, true, nil
}

func (s *TicketService) GetByTicketID(ctx context.Context, ticketID string) (*model.Ticket, error) {
	var t model.Ticket
	if err := s.db.WithContext(ctx).First(&t, "ticket_id = ?", ticketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetForMerchant looks a ticket up on behalf of a merchant. A merchant mismatch
// reports not-found so ticket ids of other merchants cannot be probed.
func (s *TicketService) GetForMerchant(ctx context.Context, ticketID, merchantID string) (*model.Ticket, error) {
	t, err := s.GetByTicketID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t.MerchantID != merchantID {
		return nil, errs.ErrTicketNotFound
	}
	return t, nil
}

func (s *TicketService) ListByMerchant(ctx context.Context, merchantID string) ([]model.Ticket, error) {
	var items []model.Ticket
	err := s.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Preload("Messages", func(tx *gorm.DB) *gorm.DB { return tx.Order("seq ASC") }).
		Order("updated_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *TicketService) ListEscalated(ctx context.Context) ([]model.Ticket, error) {
	var items []model.Ticket
	err := s.db.WithContext(ctx).
		Where("is_escalated = ?", true).
		Preload("Messages", func(tx *gorm.DB) *gorm.DB { return tx.Order("seq ASC") }).
		Order("updated_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *TicketService) UpdateStatus(ctx context.Context, ticketID string, status model.TicketStatus) (*model.Ticket, error) {
	if !status.Valid() {
		return nil, errs.ErrInvalidStatus
	}
	return s.update(ctx, ticketID, map[string]interface{}{"status": status})
}

func (s *TicketService) UpdatePriority(ctx context.Context, ticketID string, priority model.TicketPriority) (*model.Ticket, error) {
	if !priority.Valid() {
		return nil, errs.ErrInvalidPriority
	}
	return s.update(ctx, ticketID, map[string]interface{}{"priority": priority})
}

func (s *TicketService) update(ctx context.Context, ticketID string, changes map[string]interface{}) (*model.Ticket, error) {
	t, err := s.GetByTicketID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	changes["updated_at"] = time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(t).Updates(changes).Error; err != nil {
		return nil, err
	}
	// Updates with a map does not refresh every struct field
	return s.GetByTicketID(ctx, ticketID)
}

// Escalate applies the merchant escalation transition. The conditional UPDATE on
// is_escalated=false is the idempotency guard: of any number of concurrent
// escalate calls, exactly one observes a row change and appends the handoff
// message. The returned bool reports whether this call did the escalation.
func (s *TicketService) Escalate(ctx context.Context, ticketID string) (*model.Ticket, bool, error) {
	t, err := s.GetByTicketID(ctx, ticketID)
	if err != nil {
		return nil, false, err
	}
	now := time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&model.Ticket{}).
		Where("id = ? AND is_escalated = ?", t.ID, false).
		Updates(map[string]interface{}{
			"is_escalated": true,
			"escalated_at": now,
			"status":       model.TicketStatusEscalated,
			"updated_at":   now,
		})
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		return t, false, nil
	}
	t.IsEscalated = true
	t.EscalatedAt = &now
	t.Status = model.TicketStatusEscalated
	t.UpdatedAt = now
	return t, true, nil
}

// MarkAdminHandled applies the admin-message transition (unconditional, see
// ApplyAdminMessage) and persists it.
func (s *TicketService) MarkAdminHandled(ctx context.Context, ticketID string) (*model.Ticket, error) {
	t, err := s.GetByTicketID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	ApplyAdminMessage(t, time.Now().UTC())
	err = s.db.WithContext(ctx).Model(t).Updates(map[string]interface{}{
		"is_escalated": t.IsEscalated,
		"status":       t.Status,
		"updated_at":   t.UpdatedAt,
	}).Error
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ResolveEscalation applies the admin resolution transition. Guarded the same
// way as Escalate so concurrent resolve calls append one resolution message.
func (s *TicketService) ResolveEscalation(ctx context.Context, ticketID string) (*model.Ticket, bool, error) {
	t, err := s.GetByTicketID(ctx, ticketID)
	if err != nil {
		return nil, false, err
	}
	now := time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&model.Ticket{}).
		Where("id = ? AND status IN ?", t.ID, []model.TicketStatus{model.TicketStatusEscalated, model.TicketStatusInProgress}).
		Updates(map[string]interface{}{
			"is_escalated": false,
			"status":       model.TicketStatusResolved,
			"updated_at":   now,
		})
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		return t, false, nil
	}
	t.IsEscalated = false
	t.Status = model.TicketStatusResolved
	t.UpdatedAt = now
	return t, true, nil
}

// Reactivate reopens a resolved ticket when the merchant writes again.
func (s *TicketService) Reactivate(ctx context.Context, t *model.Ticket) (bool, error) {
	now := time.Now().UTC()
	if !ApplyMerchantReactivation(t, now) {
		return false, nil
	}
	err := s.db.WithContext(ctx).Model(t).Updates(map[string]interface{}{
		"status":     t.Status,
		"updated_at": t.UpdatedAt,
	}).Error
	if err != nil {
		return false, err
	}
	return true, nil
}
