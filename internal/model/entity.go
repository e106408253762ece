package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusEscalated  TicketStatus = "escalated"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusEscalated, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

type Ticket struct {
	ID              uint64         `gorm:"primaryKey" json:"id"`
	TicketID        string         `gorm:"type:varchar(32);uniqueIndex;not null" json:"ticket_id"`
	MerchantID      string         `gorm:"index;not null" json:"merchant_id"`
	AssignedAgentID string         `gorm:"index" json:"assigned_agent_id,omitempty"`
	Status          TicketStatus   `gorm:"type:varchar(32);index;not null" json:"status"`
	Priority        TicketPriority `gorm:"type:varchar(32);index;not null" json:"priority"`
	Title           string         `gorm:"type:varchar(255)" json:"title"`
	IsEscalated     bool           `gorm:"index;not null" json:"is_escalated"`
	EscalatedAt     *time.Time     `json:"escalated_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Messages is the ticket's chat log, preloaded for snapshot reads.
	Messages []Message `gorm:"foreignKey:TicketRef" json:"messages,omitempty"`
}

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is one chat log entry. The log is append-only: rows are inserted,
// never updated or deleted, and Seq (bigserial) is the acceptance order.
type Message struct {
	Seq       uint64      `gorm:"primaryKey" json:"seq"`
	TicketRef uint64      `gorm:"index;not null" json:"-"`
	Role      MessageRole `gorm:"type:varchar(16);not null" json:"role"`
	Content   string      `gorm:"type:text;not null" json:"content"`

	// Agent metadata, passed through from the automation workflow as-is.
	Cards           datatypes.JSON `gorm:"type:jsonb" json:"cards,omitempty"`
	ToolsUsed       pq.StringArray `gorm:"type:text[]" json:"tools_used,omitempty"`
	ActionsTaken    pq.StringArray `gorm:"type:text[]" json:"actions_taken,omitempty"`
	Reasoning       datatypes.JSON `gorm:"type:jsonb" json:"reasoning,omitempty"`
	ConfidenceScore *float64       `json:"confidence_score,omitempty"`
	ComplexityScore *float64       `json:"complexity_score,omitempty"`

	// IsHuman marks assistant messages authored by a human operator.
	IsHuman bool `gorm:"not null" json:"is_human"`

	CreatedAt time.Time `json:"created_at"`
}

func (Message) TableName() string { return "ticket_messages" }
