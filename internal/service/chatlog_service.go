package service

import (
	"context"
	"time"

	"github.com/merchantcare/ticket-service/internal/model"
	"gorm.io/gorm"
)

// ChatLogServicer — interface for handler Deps.
type ChatLogServicer interface {
	Append(ctx context.Context, t *model.Ticket, m *model.Message) error
	List(ctx context.Context, ticketRef uint64) ([]model.Message, error)
	ListSince(ctx context.Context, ticketRef uint64, since time.Time) ([]model.Message, error)
}

// ChatLogService is the append-only message log. Append is a single INSERT
// keyed by the bigserial seq column; the full log is never read back and
// rewritten, so concurrent appends from the merchant, the agent gateway and an
// admin can interleave without losing entries.
type ChatLogService struct {
	db *gorm.DB
}

func NewChatLogService(db *gorm.DB) *ChatLogService {
	return &ChatLogService{db: db}
}

// Append inserts one entry and refreshes the ticket's updated_at in the same
// transaction. Entries are never edited or removed after this point.
func (s *ChatLogService) Append(ctx context.Context, t *model.Ticket, m *model.Message) error {
	m.TicketRef = t.ID
	if len(m.Cards) == 0 {
		m.Cards = []byte("[]")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		return tx.Model(&model.Ticket{}).
			Where("id = ?", t.ID).
			UpdateColumn("updated_at", time.Now().UTC()).Error
	})
}

func (s *ChatLogService) List(ctx context.Context, ticketRef uint64) ([]model.Message, error) {
	var items []model.Message
	err := s.db.WithContext(ctx).
		Where("ticket_ref = ?", ticketRef).
		Order("seq ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListSince returns entries accepted strictly after since, in append order.
func (s *ChatLogService) ListSince(ctx context.Context, ticketRef uint64, since time.Time) ([]model.Message, error) {
	var items []model.Message
	err := s.db.WithContext(ctx).
		Where("ticket_ref = ? AND created_at > ?", ticketRef, since).
		Order("seq ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
