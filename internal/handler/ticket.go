package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/merchantcare/ticket-service/internal/agentgw"
	"github.com/merchantcare/ticket-service/internal/kafka"
	"github.com/merchantcare/ticket-service/internal/metrics"
	"github.com/merchantcare/ticket-service/internal/model"
	"github.com/merchantcare/ticket-service/internal/service"
)

// Deps — dependencies of the merchant-facing handlers.
type Deps struct {
	Tickets  service.TicketServicer
	ChatLog  service.ChatLogServicer
	Agent    agentgw.Invoker
	Producer kafka.TicketEventProducer
}

type TicketHandler struct {
	Deps
}

func NewTicketHandler(deps Deps) *TicketHandler {
	return &TicketHandler{Deps: deps}
}

// emitTicketEvent fires a ticket event without blocking the response. The
// event should go out even if the request context is already done, but with a
// bound.
func emitTicketEvent(p kafka.TicketEventProducer, event string, t *model.Ticket) {
	if p == nil || t == nil {
		return
	}
	payload := kafka.TicketPayload(t)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		p.ProduceTicketEvent(ctx, event, payload)
	}()
}

func (h *TicketHandler) emit(event string, t *model.Ticket) {
	emitTicketEvent(h.Producer, event, t)
}

type inboundMessage struct {
	TicketID   string `json:"ticket_id"`
	MerchantID string `json:"merchant_id" binding:"required"`
	Message    struct {
		Content string `json:"content" binding:"required"`
	} `json:"message" binding:"required"`
}

// PostMessage is the merchant message intake: resolve the ticket, persist the
// merchant's message, then either short-circuit (escalated) or ask the
// automation agent for a reply. The merchant's message is persisted before the
// agent is invoked; an agent failure degrades the reply text and nothing else.
func (h *TicketHandler) PostMessage(c *gin.Context) {
	var req inboundMessage
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "merchant_id and message.content are required")
		return
	}
	ctx := c.Request.Context()

	t, created, err := h.Tickets.Resolve(ctx, req.TicketID, req.MerchantID, req.Message.Content)
	if err != nil {
		mapError(c, err)
		return
	}
	if !created && t.Status == model.TicketStatusResolved {
		if _, err := h.Tickets.Reactivate(ctx, t); err != nil {
			mapError(c, err)
			return
		}
	}

	userMsg := &model.Message{
		Role:    model.RoleUser,
		Content: req.Message.Content,
	}
	if err := h.ChatLog.Append(ctx, t, userMsg); err != nil {
		mapError(c, err)
		return
	}
	metrics.CountMessage(string(model.RoleUser), false)
	if created {
		h.emit(kafka.EventTicketCreated, t)
	} else {
		h.emit(kafka.EventTicketMessage, t)
	}

	// Escalated tickets belong to a human: no agent call, no assistant append.
	if t.IsEscalated {
		h.respondAgentReply(c, t, agentgw.StaticReply(service.EscalatedHoldMessage))
		return
	}

	reply := h.Agent.Invoke(ctx, t.TicketID, t.MerchantID, req.Message.Content)
	agentMsg := &model.Message{
		Role:            model.RoleAssistant,
		Content:         reply.Message,
		Cards:           reply.Cards,
		ToolsUsed:       pq.StringArray(reply.ToolsUsed),
		ActionsTaken:    pq.StringArray(reply.ActionsTaken),
		Reasoning:       reply.Reasoning,
		ConfidenceScore: reply.ConfidenceScore,
		ComplexityScore: reply.ComplexityScore,
		IsHuman:         false,
	}
	if err := h.ChatLog.Append(ctx, t, agentMsg); err != nil {
		mapError(c, err)
		return
	}
	metrics.CountMessage(string(model.RoleAssistant), false)
	h.respondAgentReply(c, t, reply)
}

func (h *TicketHandler) respondAgentReply(c *gin.Context, t *model.Ticket, reply agentgw.Reply) {
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"ticket_id":        t.TicketID,
		"agent_message":    reply.Message,
		"cards":            reply.Cards,
		"tools_used":       reply.ToolsUsed,
		"actions_taken":    reply.ActionsTaken,
		"reasoning":        reply.Reasoning,
		"confidence_score": reply.ConfidenceScore,
		"complexity_score": reply.ComplexityScore,
		"is_escalated":     t.IsEscalated,
	})
}

// List returns a merchant's tickets with embedded chat history (full-snapshot
// polling contract: the client replaces its view wholesale).
func (h *TicketHandler) List(c *gin.Context) {
	merchantID := c.Query("merchant_id")
	if merchantID == "" {
		respondError(c, http.StatusBadRequest, "merchant_id is required")
		return
	}
	items, err := h.Tickets.ListByMerchant(c.Request.Context(), merchantID)
	if err != nil {
		mapError(c, err)
		return
	}
	respondOK(c, gin.H{"tickets": items, "total": len(items)})
}

func (h *TicketHandler) Get(c *gin.Context) {
	merchantID := c.Query("merchant_id")
	if merchantID == "" {
		respondError(c, http.StatusBadRequest, "merchant_id is required")
		return
	}
	t, err := h.Tickets.GetForMerchant(c.Request.Context(), c.Param("ticketID"), merchantID)
	if err != nil {
		mapError(c, err)
		return
	}
	msgs, err := h.ChatLog.List(c.Request.Context(), t.ID)
	if err != nil {
		mapError(c, err)
		return
	}
	t.Messages = msgs
	respondOK(c, t)
}

// Messages serves the delta-since polling contract: entries accepted strictly
// after ?since, in append order. Without ?since it returns the full log.
func (h *TicketHandler) Messages(c *gin.Context) {
	ctx := c.Request.Context()
	t, err := h.Tickets.GetByTicketID(ctx, c.Param("ticketID"))
	if err != nil {
		mapError(c, err)
		return
	}
	if merchantID := c.Query("merchant_id"); merchantID != "" && t.MerchantID != merchantID {
		respondError(c, http.StatusNotFound, "ticket not found")
		return
	}
	var msgs []model.Message
	if raw := c.Query("since"); raw != "" {
		since, perr := time.Parse(time.RFC3339Nano, raw)
		if perr != nil {
			respondError(c, http.StatusBadRequest, "since must be RFC3339")
			return
		}
		msgs, err = h.ChatLog.ListSince(ctx, t.ID, since)
	} else {
		msgs, err = h.ChatLog.List(ctx, t.ID)
	}
	if err != nil {
		mapError(c, err)
		return
	}
	respondOK(c, gin.H{"messages": msgs, "total": len(msgs)})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "status is required")
		return
	}
	t, err := h.Tickets.UpdateStatus(c.Request.Context(), c.Param("ticketID"), model.TicketStatus(req.Status))
	if err != nil {
		mapError(c, err)
		return
	}
	h.emit(kafka.EventTicketUpdated, t)
	respondOK(c, t)
}

type updatePriorityRequest struct {
	Priority string `json:"priority" binding:"required"`
}

func (h *TicketHandler) UpdatePriority(c *gin.Context) {
	var req updatePriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "priority is required")
		return
	}
	t, err := h.Tickets.UpdatePriority(c.Request.Context(), c.Param("ticketID"), model.TicketPriority(req.Priority))
	if err != nil {
		mapError(c, err)
		return
	}
	h.emit(kafka.EventTicketUpdated, t)
	respondOK(c, t)
}

type escalateRequest struct {
	MerchantID string `json:"merchant_id" binding:"required"`
}

// Escalate hands the ticket to a human. Idempotent: only the call that actually
// flips the flag appends the handoff message.
func (h *TicketHandler) Escalate(c *gin.Context) {
	var req escalateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "merchant_id is required")
		return
	}
	ctx := c.Request.Context()
	if _, err := h.Tickets.GetForMerchant(ctx, c.Param("ticketID"), req.MerchantID); err != nil {
		mapError(c, err)
		return
	}
	t, escalated, err := h.Tickets.Escalate(ctx, c.Param("ticketID"))
	if err != nil {
		mapError(c, err)
		return
	}
	if escalated {
		msg := &model.Message{
			Role:    model.RoleAssistant,
			Content: service.HandoffMessage,
			IsHuman: false,
		}
		if err := h.ChatLog.Append(ctx, t, msg); err != nil {
			mapError(c, err)
			return
		}
		metrics.CountMessage(string(model.RoleAssistant), false)
		metrics.Escalations.WithLabelValues("escalated").Inc()
		h.emit(kafka.EventTicketEscalated, t)
	}
	respondOK(c, t)
}
