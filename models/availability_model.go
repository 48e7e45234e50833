package models

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityRule declares when a teacher is bookable for a skill. A rule
// is either recurring (weekly, keyed by DayOfWeek) or a one-off override
// anchored to SpecificDate. An override fully replaces the recurring
// contribution of its weekday for that calendar date.
type AvailabilityRule struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TeacherID uuid.UUID `gorm:"not null;index" json:"teacher_id"`
	SkillID   uuid.UUID `gorm:"not null;index" json:"skill_id"`

	DayOfWeek    int        `gorm:"not null" json:"day_of_week"` // 0 = Sunday
	StartTime    string     `gorm:"size:5;not null" json:"start_time"` // HH:MM
	EndTime      string     `gorm:"size:5;not null" json:"end_time"`   // HH:MM
	IsRecurring  bool       `gorm:"default:true" json:"is_recurring"`
	SpecificDate *time.Time `json:"specific_date"`

	MaxBookings int  `gorm:"not null;default:1" json:"max_bookings"`
	IsActive    bool `gorm:"default:true" json:"is_active"`

	Teacher User  `gorm:"foreignkey:TeacherID" json:"teacher,omitempty"`
	Skill   Skill `gorm:"foreignkey:SkillID" json:"skill,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
