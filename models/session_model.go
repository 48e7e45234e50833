package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SessionPending    = "pending"
	SessionConfirmed  = "confirmed"
	SessionInProgress = "in_progress"
	SessionCompleted  = "completed"
	SessionCancelled  = "cancelled"
	SessionNoShow     = "no_show"
)

// Cached payment status values mirrored onto the session for fast reads.
// The Payment Ledger remains the source of truth.
const (
	SessionPaymentPending  = "pending"
	SessionPaymentPaid     = "paid"
	SessionPaymentRefunded = "refunded"
	SessionPaymentFailed   = "failed"
)

// Session is the aggregate root of the booking core. Its payment and video
// call are independent aggregates synchronized through explicit guards.
type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SkillID   uuid.UUID `gorm:"not null;index" json:"skill_id"`
	TeacherID uuid.UUID `gorm:"not null;index" json:"teacher_id"`
	StudentID uuid.UUID `gorm:"not null;index" json:"student_id"`

	Title       string  `gorm:"size:200;not null" json:"title"`
	Description *string `gorm:"type:text" json:"description"`

	ScheduledStartTime time.Time  `gorm:"not null;index" json:"scheduled_start_time"`
	ScheduledEndTime   time.Time  `gorm:"not null" json:"scheduled_end_time"`
	ActualStartTime    *time.Time `json:"actual_start_time"`
	ActualEndTime      *time.Time `json:"actual_end_time"`

	Status             string  `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CancellationReason *string `gorm:"type:text" json:"cancellation_reason"`

	PricePerHour float64 `gorm:"type:numeric(8,2);not null" json:"price_per_hour"`
	TotalAmount  float64 `gorm:"type:numeric(8,2);not null" json:"total_amount"`
	Currency     string  `gorm:"size:3;default:'USD'" json:"currency"`

	PaymentStatus   string  `gorm:"size:20;default:'pending'" json:"payment_status"`
	PaymentIntentID *string `gorm:"size:255" json:"payment_intent_id"`

	SessionNotes *string `gorm:"type:text" json:"session_notes"`
	StudentNotes *string `gorm:"type:text" json:"student_notes"`
	TeacherNotes *string `gorm:"type:text" json:"teacher_notes"`

	Skill   Skill `gorm:"foreignkey:SkillID" json:"skill,omitempty"`
	Teacher User  `gorm:"foreignkey:TeacherID" json:"teacher,omitempty"`
	Student User  `gorm:"foreignkey:StudentID" json:"student,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Overlaps reports half-open interval intersection with [start, end).
func (s *Session) Overlaps(start, end time.Time) bool {
	return s.ScheduledStartTime.Before(end) && start.Before(s.ScheduledEndTime)
}

// IsTerminal reports whether the session can make no further transitions.
func (s *Session) IsTerminal() bool {
	switch s.Status {
	case SessionCompleted, SessionCancelled, SessionNoShow:
		return true
	}
	return false
}

// CountsAgainstCapacity reports whether the session still consumes a slot.
func (s *Session) CountsAgainstCapacity() bool {
	return s.Status != SessionCancelled
}
