package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"paydesk/internal/domain"
	"paydesk/internal/models"
	"paydesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const createdMessage = "Payment created. Use 'complete', 'return', or 'cancel' actions."

// PaymentEngine is the lifecycle API the handlers drive.
type PaymentEngine interface {
	CreatePayment(ctx context.Context, in service.CreatePaymentInput) (*models.Payment, error)
	Transition(ctx context.Context, id uuid.UUID, action domain.Action) (*models.Payment, error)
	GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	ListPayments(ctx context.Context, q service.ListPaymentsQuery) (*service.PaymentPage, error)
	RenderReceipt(ctx context.Context, id uuid.UUID) (*models.Payment, []byte, error)
}

type AuditRecorder interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// PaymentResponse is the public representation of a payment.
type PaymentResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Amount    string    `json:"amount"`
	Status    string    `json:"status"`
	Reference string    `json:"reference"`
	CreatedAt time.Time `json:"created_at"`
}

func NewPaymentResponse(p *models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		Email:     p.Email,
		Amount:    p.FormattedAmount(),
		Status:    string(p.Status),
		Reference: p.Reference.String(),
		CreatedAt: p.CreatedAt,
	}
}

type PaymentHandler struct {
	engine    PaymentEngine
	auditRepo AuditRecorder
	logger    *zap.Logger
}

func NewPaymentHandler(engine PaymentEngine, auditRepo AuditRecorder, logger *zap.Logger) *PaymentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentHandler{engine: engine, auditRepo: auditRepo, logger: logger}
}

type createPaymentRequest struct {
	Name   json.RawMessage `json:"name"`
	Email  json.RawMessage `json:"email"`
	Amount json.RawMessage `json:"amount"`
}

const notAStringMessage = "Not a valid string."

func (h *PaymentHandler) Create(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	verr := domain.NewValidationError()
	name, ok := stringText(req.Name)
	if !ok {
		verr.Add("name", notAStringMessage)
	}
	email, ok := stringText(req.Email)
	if !ok {
		verr.Add("email", notAStringMessage)
	}
	if verr.HasErrors() {
		writeError(c, verr)
		return
	}
	p, err := h.engine.CreatePayment(c.Request.Context(), service.CreatePaymentInput{
		Name:   name,
		Email:  email,
		Amount: amountText(req.Amount),
	})
	if p != nil {
		h.audit(c, domain.AuditPaymentCreated, p)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    createdMessage,
		"payment_id": p.ID.String(),
	})
}

// amountText accepts the amount as a JSON number or string. Anything else
// is passed through verbatim and fails number parsing downstream.
func amountText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// stringText accepts a JSON string or number for a text field. Numbers keep
// their literal spelling. Booleans, objects and arrays are rejected.
func stringText(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

func (h *PaymentHandler) Complete(c *gin.Context) { h.transition(c, domain.ActionComplete) }
func (h *PaymentHandler) Return(c *gin.Context)   { h.transition(c, domain.ActionReturn) }
func (h *PaymentHandler) Cancel(c *gin.Context)   { h.transition(c, domain.ActionCancel) }

func (h *PaymentHandler) transition(c *gin.Context, action domain.Action) {
	id, ok := paymentID(c)
	if !ok {
		return
	}
	p, err := h.engine.Transition(c.Request.Context(), id, action)
	if p != nil {
		h.audit(c, domain.AuditActionFor(p.Status), p)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPaymentResponse(p))
}

func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := paymentID(c)
	if !ok {
		return
	}
	p, err := h.engine.GetPayment(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPaymentResponse(p))
}

func (h *PaymentHandler) List(c *gin.Context) {
	page, err := queryInt(c, "page")
	if err != nil {
		writeError(c, err)
		return
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		writeError(c, err)
		return
	}
	result, err := h.engine.ListPayments(c.Request.Context(), service.ListPaymentsQuery{
		Status:    c.Query("status"),
		Reference: c.Query("reference"),
		Search:    c.Query("search"),
		Ordering:  c.Query("ordering"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	data := make([]PaymentResponse, 0, len(result.Data))
	for i := range result.Data {
		data = append(data, NewPaymentResponse(&result.Data[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  data,
		"total": result.Total,
		"page":  result.Page,
		"limit": result.Limit,
	})
}

func (h *PaymentHandler) Receipt(c *gin.Context) {
	id, ok := paymentID(c)
	if !ok {
		return
	}
	p, doc, err := h.engine.RenderReceipt(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+p.ReceiptName())
	c.Data(http.StatusOK, "application/pdf", doc)
}

func (h *PaymentHandler) audit(c *gin.Context, action string, p *models.Payment) {
	meta, _ := json.Marshal(map[string]string{
		"status": string(p.Status),
		"amount": p.FormattedAmount(),
	})
	err := h.auditRepo.Create(c.Request.Context(), &models.AuditLog{
		Action:     action,
		Resource:   domain.AuditResourcePayment,
		ResourceID: p.ID.String(),
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Metadata:   string(meta),
	})
	if err != nil {
		h.logger.Warn("Audit log write failed", zap.String("payment_id", p.ID.String()), zap.Error(err))
	}
}

// paymentID parses the :id path parameter. Malformed ids cannot name a
// payment, so they are answered like unknown ones.
func paymentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, domain.ErrPaymentNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidFilter, key)
	}
	return n, nil
}

// writeError maps engine errors to responses.
func writeError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	var illegal *domain.IllegalTransitionError
	var infra *domain.InfrastructureError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, verr.Fields)
	case errors.As(err, &illegal):
		c.JSON(http.StatusBadRequest, gin.H{"message": illegal.Error()})
	case errors.Is(err, domain.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found."})
	case errors.Is(err, domain.ErrInvalidFilter), errors.Is(err, domain.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &infra):
		// Nothing changed, so there is no half-applied payment to report.
		if !infra.Applied {
			c.JSON(http.StatusInternalServerError, gin.H{"error": infra.Error()})
			return
		}
		body := gin.H{"error": infra.Error()}
		if infra.PaymentID != "" {
			body["payment_id"] = infra.PaymentID
		}
		if infra.Status != "" {
			body["status"] = string(infra.Status)
		}
		c.JSON(http.StatusBadRequest, body)
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
