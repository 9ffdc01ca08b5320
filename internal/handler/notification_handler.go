package handler

import (
	"context"
	"net/http"
	"strconv"

	"paydesk/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NotificationLister interface {
	ListByPaymentID(ctx context.Context, paymentID uuid.UUID, limit, offset int) ([]models.Notification, error)
}

type PaymentLookup interface {
	GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error)
}

type NotificationHandler struct {
	payments PaymentLookup
	repo     NotificationLister
}

func NewNotificationHandler(payments PaymentLookup, repo NotificationLister) *NotificationHandler {
	return &NotificationHandler{payments: payments, repo: repo}
}

// List handles GET /payments/:id/notifications, newest attempt first.
func (h *NotificationHandler) List(c *gin.Context) {
	id, ok := paymentID(c)
	if !ok {
		return
	}
	if _, err := h.payments.GetPayment(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := h.repo.ListByPaymentID(c.Request.Context(), id, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}
