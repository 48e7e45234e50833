package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kamaucodes/skillsphere/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callSession() *models.Session {
	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	return &models.Session{
		TeacherID:          uuid.New(),
		StudentID:          uuid.New(),
		Status:             models.SessionConfirmed,
		ScheduledStartTime: start,
		ScheduledEndTime:   start.Add(time.Hour),
	}
}

func TestGuardJoinWindow(t *testing.T) {
	s := callSession()
	grace := 15 * time.Minute

	// Inside the window, correct role.
	err := GuardJoin(s, s.TeacherID, models.CallRoleTeacher, s.ScheduledStartTime.Add(-5*time.Minute), grace)
	assert.NoError(t, err)

	// Window edges: start-grace and end+grace are both joinable.
	assert.NoError(t, GuardJoin(s, s.TeacherID, models.CallRoleTeacher, s.ScheduledStartTime.Add(-grace), grace))
	assert.NoError(t, GuardJoin(s, s.StudentID, models.CallRoleStudent, s.ScheduledEndTime.Add(grace), grace))

	// Too early.
	err = GuardJoin(s, s.TeacherID, models.CallRoleTeacher, s.ScheduledStartTime.Add(-16*time.Minute), grace)
	var windowErr *OutOfWindowError
	require.ErrorAs(t, err, &windowErr)
	assert.Equal(t, s.ScheduledStartTime.Add(-grace), windowErr.WindowStart)

	// Too late.
	err = GuardJoin(s, s.StudentID, models.CallRoleStudent, s.ScheduledEndTime.Add(16*time.Minute), grace)
	require.ErrorAs(t, err, &windowErr)
}

func TestGuardJoinRoleMismatch(t *testing.T) {
	s := callSession()
	now := s.ScheduledStartTime
	grace := 15 * time.Minute

	var roleErr *RoleMismatchError

	// The student cannot claim the teacher role.
	err := GuardJoin(s, s.StudentID, models.CallRoleTeacher, now, grace)
	require.ErrorAs(t, err, &roleErr)

	// An outsider cannot claim either role.
	err = GuardJoin(s, uuid.New(), models.CallRoleStudent, now, grace)
	require.ErrorAs(t, err, &roleErr)

	// Unknown roles are rejected outright.
	err = GuardJoin(s, s.TeacherID, "observer", now, grace)
	require.ErrorAs(t, err, &roleErr)
}

func TestCanTransitionRecording(t *testing.T) {
	legal := [][2]string{
		{models.RecordingDisabled, models.RecordingRecording},
		{models.RecordingRecording, models.RecordingProcessing},
		{models.RecordingProcessing, models.RecordingReady},
		{models.RecordingProcessing, models.RecordingFailed},
	}
	for _, pair := range legal {
		assert.True(t, CanTransitionRecording(pair[0], pair[1]), "%s -> %s should be legal", pair[0], pair[1])
	}

	illegal := [][2]string{
		{models.RecordingDisabled, models.RecordingReady},
		{models.RecordingReady, models.RecordingRecording},
		{models.RecordingFailed, models.RecordingProcessing},
		{models.RecordingRecording, models.RecordingReady},
	}
	for _, pair := range illegal {
		assert.False(t, CanTransitionRecording(pair[0], pair[1]), "%s -> %s should be illegal", pair[0], pair[1])
	}
}

func TestIdempotencyKeyDeterministic(t *testing.T) {
	sessionID := uuid.New()
	assert.Equal(t,
		IdempotencyKey(sessionID, models.ReconcileActionRefund, 0),
		IdempotencyKey(sessionID, models.ReconcileActionRefund, 0))
	assert.NotEqual(t,
		IdempotencyKey(sessionID, models.ReconcileActionRefund, 0),
		IdempotencyKey(sessionID, models.ReconcileActionCapture, 0))
}
