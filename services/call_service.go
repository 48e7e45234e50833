package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	config "github.com/kamaucodes/skillsphere/configs"
	"github.com/kamaucodes/skillsphere/database"
	"github.com/kamaucodes/skillsphere/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// recordingTransitions is the recording sub-state, driven only by
// provider callbacks, never by participant events.
var recordingTransitions = map[string][]string{
	models.RecordingDisabled:   {models.RecordingRecording},
	models.RecordingRecording:  {models.RecordingProcessing},
	models.RecordingProcessing: {models.RecordingReady, models.RecordingFailed},
	models.RecordingReady:      {},
	models.RecordingFailed:     {},
}

// CanTransitionRecording reports whether the recording move is legal.
func CanTransitionRecording(current, requested string) bool {
	for _, next := range recordingTransitions[current] {
		if next == requested {
			return true
		}
	}
	return false
}

// JoinWindow is the interval within which participants may join the call.
func JoinWindow(s *models.Session, grace time.Duration) (time.Time, time.Time) {
	return s.ScheduledStartTime.Add(-grace), s.ScheduledEndTime.Add(grace)
}

// GuardJoin applies the time and role guards for a call join. Pure;
// callers supply the clock.
func GuardJoin(s *models.Session, userID uuid.UUID, role string, now time.Time, grace time.Duration) error {
	windowStart, windowEnd := JoinWindow(s, grace)
	if now.Before(windowStart) || now.After(windowEnd) {
		return &OutOfWindowError{Now: now, WindowStart: windowStart, WindowEnd: windowEnd}
	}
	switch role {
	case models.CallRoleTeacher:
		if userID != s.TeacherID {
			return &RoleMismatchError{UserID: userID.String(), Role: role}
		}
	case models.CallRoleStudent:
		if userID != s.StudentID {
			return &RoleMismatchError{UserID: userID.String(), Role: role}
		}
	default:
		return &RoleMismatchError{UserID: userID.String(), Role: role}
	}
	return nil
}

// EnsureCallForSession creates the session's video call if it does not
// exist yet. The room identifier is derived from the session id, so a
// retried confirmation cannot create a second room, and the unique index
// on session_id backstops a race.
func EnsureCallForSession(tx *gorm.DB, session *models.Session) (*models.VideoCall, error) {
	call := models.VideoCall{
		SessionID: session.ID,
		Provider:  config.VideoProvider(),
		RoomID:    fmt.Sprintf("room-%s", session.ID),
	}
	err := tx.Where(models.VideoCall{SessionID: session.ID}).FirstOrCreate(&call).Error
	if err != nil {
		return nil, err
	}
	return &call, nil
}

// EndCallForSession deactivates the session's call when the session
// leaves in_progress. Missing calls (session never confirmed a room) and
// already-ended calls are fine.
func EndCallForSession(tx *gorm.DB, sessionID uuid.UUID, now time.Time) error {
	var call models.VideoCall
	err := tx.First(&call, "session_id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !call.IsActive {
		return nil
	}
	return closeCall(tx, &call, now)
}

func closeCall(tx *gorm.DB, call *models.VideoCall, now time.Time) error {
	call.IsActive = false
	call.CallEndedAt = &now
	if call.CallStartedAt != nil {
		duration := int(now.Sub(*call.CallStartedAt).Seconds())
		call.ActualDuration = &duration
	}
	if err := tx.Save(call).Error; err != nil {
		return err
	}
	return EmitEvent(tx, models.EventCallEnded, call.ID, "ended")
}

// JoinCall admits a participant into a call room. Every join gets its own
// participant row, including rejoins. The first join activates the call.
func JoinCall(videoCallID, userID uuid.UUID, role string, deviceInfo *models.DeviceInfo) (*models.CallParticipant, error) {
	now := time.Now().UTC()

	var participant models.CallParticipant
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var call models.VideoCall
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&call, "id = ?", videoCallID).Error; err != nil {
			return NewValidationError("video_call_id", "video call not found")
		}

		var session models.Session
		if err := tx.First(&session, "id = ?", call.SessionID).Error; err != nil {
			return err
		}

		if err := GuardJoin(&session, userID, role, now, GraceWindow()); err != nil {
			return err
		}
		if session.IsTerminal() {
			return &InvalidStateTransitionError{Entity: "session", Current: session.Status, Requested: "join"}
		}

		connectionID := fmt.Sprintf("conn-%s", uuid.New())
		participant = models.CallParticipant{
			VideoCallID:  call.ID,
			UserID:       userID,
			Role:         role,
			JoinedAt:     &now,
			ConnectionID: &connectionID,
			DeviceInfo:   deviceInfo,
		}
		if err := tx.Create(&participant).Error; err != nil {
			return err
		}

		if !call.IsActive {
			call.IsActive = true
			if call.CallStartedAt == nil {
				call.CallStartedAt = &now
			}
			if err := tx.Save(&call).Error; err != nil {
				return err
			}
			if err := EmitEvent(tx, models.EventCallStarted, call.ID, "started"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Participant %s joined call %s as %s", userID, videoCallID, role)
	return &participant, nil
}

// UpdateParticipant records a leave and/or per-connection quality
// metrics. When the last active participant leaves, the call deactivates.
func UpdateParticipant(participantID uuid.UUID, leftAt *time.Time, metrics *models.QualityMetrics) (*models.CallParticipant, error) {
	var participant models.CallParticipant
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&participant, "id = ?", participantID).Error; err != nil {
			return NewValidationError("participant_id", "participant not found")
		}

		if metrics != nil {
			participant.QualityMetrics = metrics
		}
		if leftAt != nil {
			if participant.JoinedAt != nil && leftAt.Before(*participant.JoinedAt) {
				return NewValidationError("left_at", "must be after joined_at")
			}
			participant.LeftAt = leftAt
		}
		if err := tx.Save(&participant).Error; err != nil {
			return err
		}

		if leftAt == nil {
			return nil
		}

		var stillConnected int64
		if err := tx.Model(&models.CallParticipant{}).
			Where("video_call_id = ? AND left_at IS NULL", participant.VideoCallID).
			Count(&stillConnected).Error; err != nil {
			return err
		}
		if stillConnected > 0 {
			return nil
		}

		var call models.VideoCall
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&call, "id = ?", participant.VideoCallID).Error; err != nil {
			return err
		}
		if !call.IsActive {
			return nil
		}
		return closeCall(tx, &call, *leftAt)
	})
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

// UpdateRecordingStatus applies a provider recording callback.
func UpdateRecordingStatus(videoCallID uuid.UUID, requested string, recordingURL *string) (*models.VideoCall, error) {
	var call models.VideoCall
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&call, "id = ?", videoCallID).Error; err != nil {
			return NewValidationError("video_call_id", "video call not found")
		}

		if call.RecordingStatus == requested {
			return nil // provider callbacks are at-least-once
		}
		if !CanTransitionRecording(call.RecordingStatus, requested) {
			return &InvalidStateTransitionError{Entity: "recording", Current: call.RecordingStatus, Requested: requested}
		}

		call.RecordingStatus = requested
		if requested == models.RecordingRecording {
			call.RecordingEnabled = true
		}
		if requested == models.RecordingReady && recordingURL != nil {
			call.RecordingURL = recordingURL
		}
		return tx.Save(&call).Error
	})
	if err != nil {
		return nil, err
	}
	return &call, nil
}
