package model

import (
	"crypto/rand"
	"strconv"
	"strings"
	"time"
)

const ticketIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const titleMaxLen = 60

// NewTicketID generates a human-readable ticket id: TKT-<base36 ms timestamp>-<4 random base36 chars>.
// No uniqueness retry; a same-millisecond collision hits the unique index instead.
func NewTicketID(now time.Time) string {
	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand on supported platforms does not fail; fall back to the clock if it ever does
		nsec := now.UnixNano()
		for i := range buf {
			buf[i] = byte(nsec >> (8 * i))
		}
	}
	suffix := make([]byte, 4)
	for i, b := range buf {
		suffix[i] = ticketIDAlphabet[int(b)%len(ticketIDAlphabet)]
	}
	return "TKT-" + ts + "-" + string(suffix)
}

// DeriveTitle builds a ticket title from the first message: up to 60 chars, ellipsis when truncated.
func DeriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= titleMaxLen {
		return content
	}
	return string(runes[:titleMaxLen]) + "..."
}
