package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/merchantcare/ticket-service/internal/errs"
)

// Responses use the uniform envelope {success, data?, error?}.

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"success": false, "error": msg})
}

func mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrTicketNotFound), errors.Is(err, errs.ErrMerchantMismatch):
		respondError(c, http.StatusNotFound, "ticket not found")
	case errors.Is(err, errs.ErrNotAuthorized):
		respondError(c, http.StatusForbidden, "admin role required")
	case errors.Is(err, errs.ErrInvalidStatus), errors.Is(err, errs.ErrInvalidPriority):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("handler: unhandled error: %v", err)
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}
