package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"paydesk/internal/domain"
	"paydesk/internal/models"
	"paydesk/internal/repository"

	"github.com/gin-gonic/gin"
)

type StatsSource interface {
	GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error)
	PaymentsByDay(ctx context.Context, since time.Time, status domain.Status) ([]repository.TimeSeriesPoint, error)
}

type AuditLister interface {
	ListByResource(ctx context.Context, resource, resourceID string) ([]models.AuditLog, error)
}

// AdminHandler serves the read-only back-office overview.
type AdminHandler struct {
	stats StatsSource
	audit AuditLister
	now   func() time.Time
}

func NewAdminHandler(stats StatsSource, audit AuditLister) *AdminHandler {
	return &AdminHandler{stats: stats, audit: audit, now: time.Now}
}

// Dashboard handles GET /admin/dashboard with totals per status.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.stats.GetDashboardStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Analytics handles GET /admin/analytics?days=30&status=completed.
func (h *AdminHandler) Analytics(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days <= 0 || days > 365 {
		days = 30
	}
	status := domain.Status(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}
	since := h.now().UTC().AddDate(0, 0, -days)
	points, err := h.stats.PaymentsByDay(c.Request.Context(), since, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load analytics"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"payments": points,
		"days":     days,
	})
}

// AuditTrail handles GET /admin/payments/:id/audit.
func (h *AdminHandler) AuditTrail(c *gin.Context) {
	id, ok := paymentID(c)
	if !ok {
		return
	}
	logs, err := h.audit.ListByResource(c.Request.Context(), domain.AuditResourcePayment, id.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load audit log"})
		return
	}
	if len(logs) == 0 {
		writeError(c, domain.ErrPaymentNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_id": id, "entries": logs})
}
