package services

import (
	"testing"
	"time"

	"github.com/kamaucodes/skillsphere/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scheduledSession(status string) *models.Session {
	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	return &models.Session{
		Status:             status,
		ScheduledStartTime: start,
		ScheduledEndTime:   start.Add(time.Hour),
	}
}

func TestCanTransitionSession(t *testing.T) {
	legal := [][2]string{
		{models.SessionPending, models.SessionConfirmed},
		{models.SessionPending, models.SessionCancelled},
		{models.SessionConfirmed, models.SessionInProgress},
		{models.SessionConfirmed, models.SessionCancelled},
		{models.SessionConfirmed, models.SessionNoShow},
		{models.SessionInProgress, models.SessionCompleted},
	}
	for _, pair := range legal {
		assert.True(t, CanTransitionSession(pair[0], pair[1]), "%s -> %s should be legal", pair[0], pair[1])
	}

	illegal := [][2]string{
		{models.SessionPending, models.SessionCompleted},
		{models.SessionPending, models.SessionInProgress},
		{models.SessionPending, models.SessionNoShow},
		{models.SessionInProgress, models.SessionCancelled},
		{models.SessionCompleted, models.SessionPending},
		{models.SessionCompleted, models.SessionCancelled},
		{models.SessionCancelled, models.SessionConfirmed},
		{models.SessionNoShow, models.SessionInProgress},
	}
	for _, pair := range illegal {
		assert.False(t, CanTransitionSession(pair[0], pair[1]), "%s -> %s should be illegal", pair[0], pair[1])
	}
}

func TestGuardStartWithinGraceWindow(t *testing.T) {
	s := scheduledSession(models.SessionConfirmed)

	// 10 minutes early is inside the default 15 minute grace.
	err := GuardSessionTransition(s, models.SessionInProgress, "", s.ScheduledStartTime.Add(-10*time.Minute))
	assert.NoError(t, err)

	// 10 minutes late too.
	err = GuardSessionTransition(s, models.SessionInProgress, "", s.ScheduledStartTime.Add(10*time.Minute))
	assert.NoError(t, err)

	// An hour early is not.
	err = GuardSessionTransition(s, models.SessionInProgress, "", s.ScheduledStartTime.Add(-time.Hour))
	var transitionErr *InvalidStateTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, models.SessionConfirmed, transitionErr.Current)
	assert.Equal(t, models.SessionInProgress, transitionErr.Requested)
}

func TestGuardCompleteRequiresActualStart(t *testing.T) {
	s := scheduledSession(models.SessionInProgress)
	now := s.ScheduledStartTime.Add(30 * time.Minute)

	err := GuardSessionTransition(s, models.SessionCompleted, "", now)
	var transitionErr *InvalidStateTransitionError
	require.ErrorAs(t, err, &transitionErr)

	started := s.ScheduledStartTime
	s.ActualStartTime = &started
	assert.NoError(t, GuardSessionTransition(s, models.SessionCompleted, "", now))

	// actual_end must land strictly after actual_start.
	err = GuardSessionTransition(s, models.SessionCompleted, "", started)
	require.ErrorAs(t, err, &transitionErr)
}

func TestGuardCancelRequiresReason(t *testing.T) {
	s := scheduledSession(models.SessionConfirmed)
	now := s.ScheduledStartTime.Add(-time.Hour)

	err := GuardSessionTransition(s, models.SessionCancelled, "", now)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	assert.NoError(t, GuardSessionTransition(s, models.SessionCancelled, "teacher unavailable", now))
}

func TestGuardNoShowOnlyAfterWindowPassed(t *testing.T) {
	s := scheduledSession(models.SessionConfirmed)

	var transitionErr *InvalidStateTransitionError

	// Still inside the scheduled window.
	err := GuardSessionTransition(s, models.SessionNoShow, "", s.ScheduledStartTime.Add(30*time.Minute))
	require.ErrorAs(t, err, &transitionErr)

	// Past the end with no recorded start: no-show.
	assert.NoError(t, GuardSessionTransition(s, models.SessionNoShow, "", s.ScheduledEndTime.Add(time.Minute)))

	// Somebody started the session, so it cannot be a no-show.
	started := s.ScheduledStartTime
	s.ActualStartTime = &started
	err = GuardSessionTransition(s, models.SessionNoShow, "", s.ScheduledEndTime.Add(time.Minute))
	require.ErrorAs(t, err, &transitionErr)
}

func TestTerminalStatesRejectEverything(t *testing.T) {
	now := time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)
	targets := []string{
		models.SessionPending, models.SessionConfirmed, models.SessionInProgress,
		models.SessionCompleted, models.SessionCancelled, models.SessionNoShow,
	}

	for _, terminal := range []string{models.SessionCompleted, models.SessionCancelled, models.SessionNoShow} {
		s := scheduledSession(terminal)
		for _, target := range targets {
			err := GuardSessionTransition(s, target, "some reason", now)
			var transitionErr *InvalidStateTransitionError
			assert.ErrorAs(t, err, &transitionErr, "%s -> %s must fail", terminal, target)
		}
	}
}

// A cancel replayed against an already-cancelled session is an invalid
// transition, not a silent success.
func TestDoubleCancelRejected(t *testing.T) {
	s := scheduledSession(models.SessionCancelled)
	err := GuardSessionTransition(s, models.SessionCancelled, "teacher unavailable", time.Now().UTC())
	var transitionErr *InvalidStateTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, models.SessionCancelled, transitionErr.Current)
}
