package models

import (
	"time"

	"paydesk/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is the only tracked entity. ID, Reference and CreatedAt are set
// once by the lifecycle engine; Status only ever leaves pending once.
type Payment struct {
	ID        uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string          `gorm:"size:100;not null" json:"name"`
	Email     string          `gorm:"size:254;not null;index" json:"email"`
	Amount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status    domain.Status   `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Reference uuid.UUID       `gorm:"type:char(36);uniqueIndex;not null" json:"reference"`
	CreatedAt time.Time       `gorm:"not null;index" json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// ReceiptName is the attachment file name used for this payment's receipts.
func (p *Payment) ReceiptName() string {
	return "receipt_" + p.ID.String() + ".pdf"
}

// FormattedAmount renders the amount with exactly two decimals.
func (p *Payment) FormattedAmount() string {
	return p.Amount.StringFixed(2)
}

func (p *Payment) String() string {
	return p.Name + " - " + p.FormattedAmount()
}
