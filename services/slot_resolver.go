package services

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/kamaucodes/skillsphere/database"
	"github.com/kamaucodes/skillsphere/models"
)

// Window is a concrete, date-bound interval during which a teacher is
// bookable for a skill. Remaining is MaxBookings minus the count of
// non-cancelled sessions already committed inside the window.
type Window struct {
	RuleID    uuid.UUID `json:"rule_id"`
	SkillID   uuid.UUID `json:"skill_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Capacity  int       `json:"capacity"`
	Remaining int       `json:"remaining"`
}

// Contains reports whether [start, end) fits fully inside the window.
func (w Window) Contains(start, end time.Time) bool {
	return !start.Before(w.Start) && !end.After(w.End)
}

// ParseTimeOfDay parses an HH:MM rule boundary into minutes after midnight.
func ParseTimeOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, NewValidationError("time", "must be in HH:MM format")
	}
	return t.Hour()*60 + t.Minute(), nil
}

func sameDate(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// rulesForDate applies override semantics: one-off rules anchored to the
// date fully replace the recurring rules of that weekday.
func rulesForDate(rules []models.AvailabilityRule, date time.Time, loc *time.Location) []models.AvailabilityRule {
	var overrides, recurring []models.AvailabilityRule
	for _, r := range rules {
		if !r.IsActive {
			continue
		}
		if r.SpecificDate != nil {
			if sameDate(*r.SpecificDate, date, loc) {
				overrides = append(overrides, r)
			}
			continue
		}
		if r.IsRecurring && int(date.In(loc).Weekday()) == r.DayOfWeek {
			recurring = append(recurring, r)
		}
	}
	if len(overrides) > 0 {
		return overrides
	}
	return recurring
}

// subtractConsumed carves the stretches of a rule's window where the
// count of concurrent non-cancelled sessions has reached MaxBookings out
// of the window, returning the still-bookable fragments. A sweep over the
// session boundaries keeps the concurrency count exact; fragments carry
// the capacity remaining at their quietest, which for a booking check is
// the capacity remaining throughout the fragment.
func subtractConsumed(rule models.AvailabilityRule, windowStart, windowEnd time.Time, sessions []models.Session) []Window {
	type boundary struct {
		at    time.Time
		delta int
	}

	var boundaries []boundary
	for _, s := range sessions {
		if !s.CountsAgainstCapacity() {
			continue
		}
		if !s.ScheduledStartTime.Before(windowEnd) || !windowStart.Before(s.ScheduledEndTime) {
			continue
		}
		start, end := s.ScheduledStartTime, s.ScheduledEndTime
		if start.Before(windowStart) {
			start = windowStart
		}
		if end.After(windowEnd) {
			end = windowEnd
		}
		boundaries = append(boundaries, boundary{at: start, delta: 1}, boundary{at: end, delta: -1})
	}

	sort.Slice(boundaries, func(i, j int) bool {
		if boundaries[i].at.Equal(boundaries[j].at) {
			return boundaries[i].delta < boundaries[j].delta // release before claim
		}
		return boundaries[i].at.Before(boundaries[j].at)
	})

	var fragments []Window
	emit := func(start, end time.Time, concurrent int) {
		if !start.Before(end) || concurrent >= rule.MaxBookings {
			return
		}
		remaining := rule.MaxBookings - concurrent
		n := len(fragments)
		if n > 0 && fragments[n-1].End.Equal(start) && fragments[n-1].Remaining == remaining {
			fragments[n-1].End = end
			return
		}
		fragments = append(fragments, Window{
			RuleID:    rule.ID,
			SkillID:   rule.SkillID,
			Start:     start,
			End:       end,
			Capacity:  rule.MaxBookings,
			Remaining: remaining,
		})
	}

	cursor := windowStart
	concurrent := 0
	for _, b := range boundaries {
		emit(cursor, b.at, concurrent)
		if b.at.After(cursor) {
			cursor = b.at
		}
		concurrent += b.delta
	}
	emit(cursor, windowEnd, concurrent)

	return fragments
}

// ResolveWindows expands availability rules into candidate windows for
// every calendar date in [from, to], expressed in the teacher's timezone
// and returned as UTC instants, minus capacity consumed by the given
// non-cancelled sessions. It is a pure function of its inputs: callers may
// restart it freely, nothing is mutated.
func ResolveWindows(rules []models.AvailabilityRule, sessions []models.Session, from, to time.Time, loc *time.Location) []Window {
	if loc == nil {
		loc = time.UTC
	}

	var windows []Window
	day := time.Date(from.In(loc).Year(), from.In(loc).Month(), from.In(loc).Day(), 0, 0, 0, 0, loc)
	last := time.Date(to.In(loc).Year(), to.In(loc).Month(), to.In(loc).Day(), 0, 0, 0, 0, loc)

	for !day.After(last) {
		for _, rule := range rulesForDate(rules, day, loc) {
			startMin, err := ParseTimeOfDay(rule.StartTime)
			if err != nil {
				continue
			}
			endMin, err := ParseTimeOfDay(rule.EndTime)
			if err != nil || endMin <= startMin {
				continue
			}

			ruleStart := day.Add(time.Duration(startMin) * time.Minute).UTC()
			ruleEnd := day.Add(time.Duration(endMin) * time.Minute).UTC()

			windows = append(windows, subtractConsumed(rule, ruleStart, ruleEnd, sessions)...)
		}
		day = day.AddDate(0, 0, 1)
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].Start.Before(windows[j].Start)
	})
	return windows
}

// ResolveBookableWindows loads the persisted rules and sessions for a
// teacher/skill and expands them for the date range. Nothing is cached:
// a later call observes later bookings.
func ResolveBookableWindows(teacherID, skillID uuid.UUID, from, to time.Time) ([]Window, error) {
	var teacher models.User
	if err := database.DB.First(&teacher, "id = ?", teacherID).Error; err != nil {
		return nil, NewValidationError("teacher_id", "teacher not found")
	}

	rules, err := ListActiveRules(teacherID, skillID, from, to)
	if err != nil {
		return nil, err
	}

	var sessions []models.Session
	err = database.DB.
		Where("teacher_id = ? AND status <> ? AND scheduled_start_time < ? AND scheduled_end_time > ?",
			teacherID, models.SessionCancelled, to.AddDate(0, 0, 1), from.AddDate(0, 0, -1)).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	return ResolveWindows(rules, sessions, from, to, teacher.Location()), nil
}
