package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/merchantcare/ticket-service/internal/kafka"
	"github.com/merchantcare/ticket-service/internal/service"
)

// AdminHandler is the human-operator surface. Authorization lives in the
// service layer (external directory check); these handlers only bind and map.
type AdminHandler struct {
	Admin    service.AdminServicer
	Producer kafka.TicketEventProducer
}

func NewAdminHandler(admin service.AdminServicer, producer kafka.TicketEventProducer) *AdminHandler {
	return &AdminHandler{Admin: admin, Producer: producer}
}

// ListEscalated returns the admin queue: tickets awaiting a human.
func (h *AdminHandler) ListEscalated(c *gin.Context) {
	adminID := c.Query("admin_id")
	if adminID == "" {
		respondError(c, http.StatusBadRequest, "admin_id is required")
		return
	}
	items, err := h.Admin.ListEscalated(c.Request.Context(), adminID)
	if err != nil {
		mapError(c, err)
		return
	}
	respondOK(c, gin.H{"tickets": items, "total": len(items)})
}

type adminMessageRequest struct {
	AdminID string `json:"admin_id" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// PostMessage appends a human-operator message. This never reaches the agent
// gateway, and it reopens resolved tickets as in_progress.
func (h *AdminHandler) PostMessage(c *gin.Context) {
	var req adminMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "admin_id and content are required")
		return
	}
	t, msg, err := h.Admin.SendHumanMessage(c.Request.Context(), c.Param("ticketID"), req.AdminID, req.Content)
	if err != nil {
		mapError(c, err)
		return
	}
	emitTicketEvent(h.Producer, kafka.EventTicketUpdated, t)
	respondOK(c, gin.H{"ticket": t, "message": msg})
}

type adminResolveRequest struct {
	AdminID string `json:"admin_id" binding:"required"`
}

// Resolve ends human handling and returns the ticket to the automation agent.
func (h *AdminHandler) Resolve(c *gin.Context) {
	var req adminResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "admin_id is required")
		return
	}
	t, resolved, err := h.Admin.ResolveTicket(c.Request.Context(), c.Param("ticketID"), req.AdminID)
	if err != nil {
		mapError(c, err)
		return
	}
	if resolved {
		emitTicketEvent(h.Producer, kafka.EventTicketResolved, t)
	}
	respondOK(c, t)
}
