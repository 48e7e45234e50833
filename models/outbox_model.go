package models

import (
	"time"

	"github.com/google/uuid"
)

// Outbound event types, fired only on successful transitions.
const (
	EventSessionConfirmed = "session.confirmed"
	EventSessionCancelled = "session.cancelled"
	EventSessionCompleted = "session.completed"
	EventPaymentCompleted = "payment.completed"
	EventPaymentFailed    = "payment.failed"
	EventCallStarted      = "call.started"
	EventCallEnded        = "call.ended"
)

// EventPayload is the body delivered to collaborators: the affected
// aggregate and its new state.
type EventPayload struct {
	AggregateID uuid.UUID `json:"aggregate_id"`
	State       string    `json:"state"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// OutboxEvent is written in the same transaction as the state change it
// announces, then dispatched at-least-once by a background job.
type OutboxEvent struct {
	ID          uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	EventType   string       `gorm:"size:50;not null;index" json:"event_type"`
	AggregateID uuid.UUID    `gorm:"not null;index" json:"aggregate_id"`
	Payload     EventPayload `gorm:"type:jsonb;serializer:json" json:"payload"`

	Attempts      int        `gorm:"default:0" json:"attempts"`
	NextAttemptAt time.Time  `gorm:"not null;index" json:"next_attempt_at"`
	DispatchedAt  *time.Time `json:"dispatched_at"`

	CreatedAt time.Time `json:"created_at"`
}

// Reconciliation task actions and statuses.
const (
	ReconcileActionCapture = "capture"
	ReconcileActionRefund  = "refund"

	ReconcilePending = "pending"
	ReconcileDone    = "done"
	ReconcileFailed  = "failed"
)

// ReconciliationTask is the durable intent record of a session/payment
// saga step. A session transition that needs a ledger change it could not
// apply enqueues one of these; the reconciler retries it with backoff.
// Retrying an already-applied ledger transition is a no-op, so tasks are
// safe to run more than once.
type ReconciliationTask struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SessionID     uuid.UUID `gorm:"not null;index"`
	TransactionID uuid.UUID `gorm:"not null;index"`
	Action        string    `gorm:"size:20;not null"`

	IdempotencyKey string  `gorm:"size:255;not null;unique"`
	Status         string  `gorm:"size:20;not null;default:'pending';index"`
	Attempts       int     `gorm:"default:0"`
	NextRunAt      time.Time `gorm:"not null;index"`
	LastError      *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
