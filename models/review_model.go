package models

import (
	"time"

	"github.com/google/uuid"
)

type AspectRatings struct {
	Knowledge     int `json:"knowledge"`
	Communication int `json:"communication"`
	Patience      int `json:"patience"`
	Helpfulness   int `json:"helpfulness"`
}

type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionID  uuid.UUID `gorm:"not null;uniqueIndex" json:"session_id"`
	SkillID    uuid.UUID `gorm:"not null;index" json:"skill_id"`
	ReviewerID uuid.UUID `gorm:"not null" json:"reviewer_id"`
	RevieweeID uuid.UUID `gorm:"not null;index" json:"reviewee_id"`

	Rating  int     `gorm:"not null" json:"rating"` // 1-5
	Title   *string `gorm:"size:200" json:"title"`
	Comment *string `gorm:"type:text" json:"comment"`

	AspectRatings  *AspectRatings `gorm:"type:jsonb;serializer:json" json:"aspect_ratings"`
	WouldRecommend *bool          `json:"would_recommend"`
	IsPublic       bool           `gorm:"default:true" json:"is_public"`

	Session  Session `gorm:"foreignkey:SessionID" json:"-"`
	Skill    Skill   `gorm:"foreignkey:SkillID" json:"-"`
	Reviewer User    `gorm:"foreignkey:ReviewerID" json:"reviewer,omitempty"`
	Reviewee User    `gorm:"foreignkey:RevieweeID" json:"reviewee,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
