package services

import (
	"time"

	config "github.com/kamaucodes/skillsphere/configs"
	"github.com/kamaucodes/skillsphere/models"
)

// GraceWindow is the configured tolerance around the scheduled window for
// starting a session and joining its call.
func GraceWindow() time.Duration {
	return time.Duration(config.GraceMinutes()) * time.Minute
}

// sessionTransitions is the session lifecycle:
// pending → confirmed → in_progress → completed, with side exits to
// cancelled (from pending/confirmed) and no_show (from confirmed).
var sessionTransitions = map[string][]string{
	models.SessionPending:    {models.SessionConfirmed, models.SessionCancelled},
	models.SessionConfirmed:  {models.SessionInProgress, models.SessionCancelled, models.SessionNoShow},
	models.SessionInProgress: {models.SessionCompleted},
	models.SessionCompleted:  {},
	models.SessionCancelled:  {},
	models.SessionNoShow:     {},
}

// CanTransitionSession reports whether the lifecycle move is legal,
// before any time or payload guards are applied.
func CanTransitionSession(current, requested string) bool {
	for _, next := range sessionTransitions[current] {
		if next == requested {
			return true
		}
	}
	return false
}

// GuardSessionTransition applies the time and payload guards on top of
// the transition table. It is pure: callers supply the clock.
func GuardSessionTransition(s *models.Session, requested, reason string, now time.Time) error {
	if !CanTransitionSession(s.Status, requested) {
		return &InvalidStateTransitionError{Entity: "session", Current: s.Status, Requested: requested}
	}

	grace := GraceWindow()
	switch requested {
	case models.SessionInProgress:
		// A session may only start within the grace window around its
		// scheduled start.
		if now.Before(s.ScheduledStartTime.Add(-grace)) || now.After(s.ScheduledStartTime.Add(grace)) {
			return &InvalidStateTransitionError{Entity: "session", Current: s.Status, Requested: requested}
		}
	case models.SessionCompleted:
		if s.ActualStartTime == nil || !now.After(*s.ActualStartTime) {
			return &InvalidStateTransitionError{Entity: "session", Current: s.Status, Requested: requested}
		}
	case models.SessionCancelled:
		if reason == "" {
			return NewValidationError("reason", "cancellation requires a non-empty reason")
		}
	case models.SessionNoShow:
		// Only after the scheduled window has fully passed with nobody
		// having started the session.
		if s.ActualStartTime != nil || !now.After(s.ScheduledEndTime) {
			return &InvalidStateTransitionError{Entity: "session", Current: s.Status, Requested: requested}
		}
	}
	return nil
}
