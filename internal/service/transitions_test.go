package service

import (
	"testing"
	"time"

	"github.com/merchantcare/ticket-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTicket() *model.Ticket {
	return &model.Ticket{
		TicketID:   "TKT-TEST-0001",
		MerchantID: "MERCH-1",
		Status:     model.TicketStatusOpen,
		Priority:   model.TicketPriorityMedium,
	}
}

func TestApplyEscalation(t *testing.T) {
	now := time.Now().UTC()
	tk := openTicket()

	assert.True(t, ApplyEscalation(tk, now))
	assert.True(t, tk.IsEscalated)
	assert.Equal(t, model.TicketStatusEscalated, tk.Status)
	require.NotNil(t, tk.EscalatedAt)
	assert.Equal(t, now, *tk.EscalatedAt)
}

func TestApplyEscalationIdempotent(t *testing.T) {
	first := time.Now().UTC()
	tk := openTicket()
	require.True(t, ApplyEscalation(tk, first))

	// a second escalation must change nothing: same escalated_at, same status,
	// and the caller appends no second handoff message
	assert.False(t, ApplyEscalation(tk, first.Add(time.Minute)))
	assert.Equal(t, first, *tk.EscalatedAt)
	assert.Equal(t, model.TicketStatusEscalated, tk.Status)
}

func TestApplyAdminMessageUnconditional(t *testing.T) {
	now := time.Now().UTC()
	for _, status := range []model.TicketStatus{
		model.TicketStatusOpen,
		model.TicketStatusInProgress,
		model.TicketStatusEscalated,
		model.TicketStatusResolved,
		model.TicketStatusClosed,
	} {
		tk := openTicket()
		tk.Status = status
		ApplyAdminMessage(tk, now)
		assert.True(t, tk.IsEscalated, "from %s", status)
		assert.Equal(t, model.TicketStatusInProgress, tk.Status, "from %s", status)
	}
}

func TestApplyResolution(t *testing.T) {
	now := time.Now().UTC()

	tk := openTicket()
	require.True(t, ApplyEscalation(tk, now))
	assert.True(t, ApplyResolution(tk, now))
	assert.False(t, tk.IsEscalated)
	assert.Equal(t, model.TicketStatusResolved, tk.Status)

	// resolving again is a no-op, so no duplicate resolution message
	assert.False(t, ApplyResolution(tk, now))

	open := openTicket()
	assert.False(t, ApplyResolution(open, now), "open tickets are not resolvable")
	assert.Equal(t, model.TicketStatusOpen, open.Status)
}

func TestApplyMerchantReactivation(t *testing.T) {
	now := time.Now().UTC()
	tk := openTicket()
	tk.Status = model.TicketStatusResolved

	assert.True(t, ApplyMerchantReactivation(tk, now))
	assert.Equal(t, model.TicketStatusInProgress, tk.Status)
	assert.False(t, tk.IsEscalated, "reactivation alone keeps the agent in the loop")

	assert.False(t, ApplyMerchantReactivation(tk, now), "only resolved tickets reactivate")
}

func TestResolutionThenEscalationAgain(t *testing.T) {
	now := time.Now().UTC()
	tk := openTicket()
	require.True(t, ApplyEscalation(tk, now))
	require.True(t, ApplyResolution(tk, now))

	// after resolution the escalation flag is clear, so a genuine new
	// escalation event appends a new handoff message
	later := now.Add(time.Hour)
	assert.True(t, ApplyEscalation(tk, later))
	assert.Equal(t, later, *tk.EscalatedAt)
}
