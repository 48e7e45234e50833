package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RecordingDisabled   = "disabled"
	RecordingRecording  = "recording"
	RecordingProcessing = "processing"
	RecordingReady      = "ready"
	RecordingFailed     = "failed"
)

const (
	CallRoleTeacher = "teacher"
	CallRoleStudent = "student"
)

// PartyQuality is one side of a call's aggregate connection quality.
type PartyQuality struct {
	Bitrate    int     `json:"bitrate"`
	Latency    int     `json:"latency"`
	PacketLoss float64 `json:"packet_loss"`
}

type ConnectionQuality struct {
	Teacher PartyQuality `json:"teacher"`
	Student PartyQuality `json:"student"`
}

type DeviceInfo struct {
	Browser    string `json:"browser"`
	OS         string `json:"os"`
	Device     string `json:"device"`
	Camera     bool   `json:"camera"`
	Microphone bool   `json:"microphone"`
}

type QualityMetrics struct {
	AvgBitrate     int     `json:"avg_bitrate"`
	AvgLatency     int     `json:"avg_latency"`
	PacketLoss     float64 `json:"packet_loss"`
	Disconnections int     `json:"disconnections"`
}

// VideoCall is the one call room attached to a confirmed session. The
// unique index on SessionID makes room creation idempotent.
type VideoCall struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionID uuid.UUID `gorm:"not null;uniqueIndex" json:"session_id"`

	Provider string  `gorm:"size:20;not null;default:'mux'" json:"provider"`
	RoomID   string  `gorm:"size:255;not null;index" json:"room_id"`
	RoomURL  *string `gorm:"size:500" json:"room_url"`

	RecordingEnabled bool    `gorm:"default:false" json:"recording_enabled"`
	RecordingURL     *string `gorm:"size:500" json:"recording_url"`
	RecordingStatus  string  `gorm:"size:20;default:'disabled'" json:"recording_status"`

	MaxDuration    int  `gorm:"default:7200" json:"max_duration"` // seconds
	ActualDuration *int `json:"actual_duration"`                  // seconds

	ConnectionQuality *ConnectionQuality `gorm:"type:jsonb;serializer:json" json:"connection_quality"`

	CallStartedAt *time.Time `json:"call_started_at"`
	CallEndedAt   *time.Time `json:"call_ended_at"`
	IsActive      bool       `gorm:"default:false" json:"is_active"`

	Session Session `gorm:"foreignkey:SessionID" json:"session,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CallParticipant records a single join; a user who rejoins gets a new row.
type CallParticipant struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	VideoCallID uuid.UUID `gorm:"not null;index" json:"video_call_id"`
	UserID      uuid.UUID `gorm:"not null;index" json:"user_id"`
	Role        string    `gorm:"size:20;not null" json:"role"`

	JoinedAt *time.Time `json:"joined_at"`
	LeftAt   *time.Time `json:"left_at"`

	ConnectionID   *string         `gorm:"size:255" json:"connection_id"`
	DeviceInfo     *DeviceInfo     `gorm:"type:jsonb;serializer:json" json:"device_info"`
	QualityMetrics *QualityMetrics `gorm:"type:jsonb;serializer:json" json:"quality_metrics"`

	VideoCall VideoCall `gorm:"foreignkey:VideoCallID" json:"-"`
	User      User      `gorm:"foreignkey:UserID" json:"user,omitempty"`
}
