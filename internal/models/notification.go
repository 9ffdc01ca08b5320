package models

import (
	"time"

	"paydesk/internal/domain"

	"github.com/google/uuid"
)

// Notification records one e-mail delivery attempt for a payment.
type Notification struct {
	ID         uint                    `gorm:"primaryKey" json:"id"`
	PaymentID  uuid.UUID               `gorm:"type:char(36);not null;index" json:"payment_id"`
	Kind       domain.NotificationKind `gorm:"size:20;not null;index" json:"kind"`
	Recipient  string                  `gorm:"size:254;not null" json:"recipient"`
	Subject    string                  `gorm:"size:255" json:"subject"`
	Attachment string                  `gorm:"size:255" json:"attachment"`
	Status     string                  `gorm:"size:20;not null;index" json:"status"` // SENT, FAILED
	Error      string                  `gorm:"type:text" json:"error,omitempty"`
	ReceiptURL string                  `gorm:"size:512" json:"receipt_url,omitempty"`
	CreatedAt  time.Time               `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
