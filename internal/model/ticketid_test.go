package model

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTicketIDFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^TKT-[A-Z0-9]+-[A-Z0-9]{4}$`)
	now := time.Now()
	for i := 0; i < 200; i++ {
		id := NewTicketID(now)
		assert.Regexp(t, pattern, id)
	}
}

func TestNewTicketIDSuffixVaries(t *testing.T) {
	now := time.Now()
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		seen[NewTicketID(now)] = struct{}{}
	}
	// same timestamp, random suffix: collisions across 50 draws are wildly unlikely
	assert.Greater(t, len(seen), 45)
}

func TestDeriveTitle(t *testing.T) {
	assert.Equal(t, "My webhook isn't firing", DeriveTitle("My webhook isn't firing"))

	exact := strings.Repeat("a", 60)
	assert.Equal(t, exact, DeriveTitle(exact))

	long := strings.Repeat("b", 61)
	got := DeriveTitle(long)
	assert.Equal(t, strings.Repeat("b", 60)+"...", got)

	// multi-byte content must not be split mid-rune
	unicode := strings.Repeat("é", 80)
	got = DeriveTitle(unicode)
	assert.Equal(t, strings.Repeat("é", 60)+"...", got)
}

func TestStatusAndPriorityValidation(t *testing.T) {
	for _, s := range []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusEscalated, TicketStatusResolved, TicketStatusClosed} {
		assert.True(t, s.Valid())
	}
	assert.False(t, TicketStatus("archived").Valid())

	for _, p := range []TicketPriority{TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent} {
		assert.True(t, p.Valid())
	}
	assert.False(t, TicketPriority("critical").Valid())
}
