package models

import (
	"time"

	"github.com/google/uuid"
)

type Skill struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TeacherID   uuid.UUID `gorm:"not null;index" json:"teacher_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	SkillLevel  string    `gorm:"size:50;not null;default:'beginner'" json:"skill_level"`

	Duration     int     `gorm:"not null;default:60" json:"duration"`
	MaxStudents  int     `gorm:"not null;default:1" json:"max_students"`
	PricePerHour float64 `gorm:"type:numeric(8,2);not null" json:"price_per_hour"`
	Currency     string  `gorm:"size:3;not null;default:'USD'" json:"currency"`

	IsActive      bool    `gorm:"default:true" json:"is_active"`
	AverageRating float64 `gorm:"type:numeric(3,2);default:0.00" json:"average_rating"`
	TotalSessions int     `gorm:"default:0" json:"total_sessions"`

	Teacher User `gorm:"foreignkey:TeacherID" json:"teacher,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
