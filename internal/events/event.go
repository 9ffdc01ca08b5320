// Package events fans payment status changes out to Kafka.
package events

import (
	"encoding/json"
	"time"

	"paydesk/internal/models"
)

// PaymentStatusEvent is the message published whenever a payment is
// created or reaches a terminal status.
type PaymentStatusEvent struct {
	PaymentID  string    `json:"payment_id"`
	Reference  string    `json:"reference"`
	Status     string    `json:"status"`
	Amount     string    `json:"amount"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewPaymentStatusEvent(p *models.Payment, at time.Time) PaymentStatusEvent {
	return PaymentStatusEvent{
		PaymentID:  p.ID.String(),
		Reference:  p.Reference.String(),
		Status:     string(p.Status),
		Amount:     p.FormattedAmount(),
		Email:      p.Email,
		OccurredAt: at.UTC(),
	}
}

func (e PaymentStatusEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
