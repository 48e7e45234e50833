package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentPending    = "pending"
	PaymentProcessing = "processing"
	PaymentCompleted  = "completed"
	PaymentFailed     = "failed"
	PaymentRefunded   = "refunded"
)

type PaymentTransaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SessionID uuid.UUID `gorm:"not null;index"`
	PayerID   uuid.UUID `gorm:"not null;index"`
	PayeeID   uuid.UUID `gorm:"not null;index"`

	Amount      float64 `gorm:"type:numeric(10,2);not null"`
	Currency    string  `gorm:"size:3;default:'USD'"`
	PlatformFee float64 `gorm:"type:numeric(10,2);default:0.00"`
	NetAmount   float64 `gorm:"type:numeric(10,2);not null"`

	PaymentMethod   string  `gorm:"size:50;not null"`
	PaymentIntentID *string `gorm:"size:255"`
	ProviderChargeID *string `gorm:"size:255"`

	Status        string  `gorm:"size:20;not null;default:'pending';index"`
	FailureReason *string `gorm:"type:text"`

	ProcessedAt  *time.Time
	RefundedAt   *time.Time
	RefundAmount *float64 `gorm:"type:numeric(10,2)"`
	RefundReason *string  `gorm:"type:text"`

	Session Session `gorm:"foreignkey:SessionID"`
	Payer   User    `gorm:"foreignkey:PayerID"`
	Payee   User    `gorm:"foreignkey:PayeeID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal reports whether the transaction's branch has finished.
func (p *PaymentTransaction) IsTerminal() bool {
	return p.Status == PaymentFailed || p.Status == PaymentRefunded
}

// IsActive reports whether the transaction still represents a live charge
// attempt for its session. A failed transaction may be superseded.
func (p *PaymentTransaction) IsActive() bool {
	return p.Status != PaymentFailed
}

// PaymentTransition is an append-only record of every ledger move. Rows
// are only ever inserted, never updated.
type PaymentTransition struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TransactionID uuid.UUID `gorm:"not null;index"`
	FromStatus    string    `gorm:"size:20;not null"`
	ToStatus      string    `gorm:"size:20;not null"`
	Note          *string   `gorm:"type:text"`

	Transaction PaymentTransaction `gorm:"foreignkey:TransactionID"`

	CreatedAt time.Time
}
