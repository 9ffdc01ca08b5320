package events

import (
	"context"
	"fmt"
	"time"

	"paydesk/internal/models"
)

// StatusPublisher writes a PaymentStatusEvent keyed by payment id, so every
// event of one payment lands on the same partition.
type StatusPublisher struct {
	producer Producer
	topic    string
	now      func() time.Time
}

func NewStatusPublisher(producer Producer, topic string) *StatusPublisher {
	return &StatusPublisher{producer: producer, topic: topic, now: time.Now}
}

func (p *StatusPublisher) PublishStatus(ctx context.Context, payment *models.Payment) error {
	value, err := NewPaymentStatusEvent(payment, p.now()).Marshal()
	if err != nil {
		return fmt.Errorf("marshal status event: %w", err)
	}
	return p.producer.Produce(ctx, payment.ID.String(), p.topic, value)
}
