package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kamaucodes/skillsphere/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mondayRule(teacherID, skillID uuid.UUID, start, end string, maxBookings int) models.AvailabilityRule {
	return models.AvailabilityRule{
		ID:          uuid.New(),
		TeacherID:   teacherID,
		SkillID:     skillID,
		DayOfWeek:   1, // Monday
		StartTime:   start,
		EndTime:     end,
		IsRecurring: true,
		MaxBookings: maxBookings,
		IsActive:    true,
	}
}

// 2026-09-07 is a Monday.
var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func TestResolveWindowsExpandsRecurringRule(t *testing.T) {
	teacherID, skillID := uuid.New(), uuid.New()
	rules := []models.AvailabilityRule{mondayRule(teacherID, skillID, "09:00", "12:00", 1)}

	windows := ResolveWindows(rules, nil, monday, monday, time.UTC)
	require.Len(t, windows, 1)

	assert.Equal(t, monday.Add(9*time.Hour), windows[0].Start)
	assert.Equal(t, monday.Add(12*time.Hour), windows[0].End)
	assert.Equal(t, 1, windows[0].Capacity)
	assert.Equal(t, 1, windows[0].Remaining)
}

func TestResolveWindowsSkipsNonMatchingDays(t *testing.T) {
	teacherID, skillID := uuid.New(), uuid.New()
	rules := []models.AvailabilityRule{mondayRule(teacherID, skillID, "09:00", "12:00", 1)}

	tuesday := monday.AddDate(0, 0, 1)
	windows := ResolveWindows(rules, nil, tuesday, tuesday, time.UTC)
	assert.Empty(t, windows)
}

func TestResolveWindowsOverrideReplacesRecurring(t *testing.T) {
	teacherID, skillID := uuid.New(), uuid.New()

	override := models.AvailabilityRule{
		ID:           uuid.New(),
		TeacherID:    teacherID,
		SkillID:      skillID,
		DayOfWeek:    1,
		StartTime:    "14:00",
		EndTime:      "16:00",
		IsRecurring:  false,
		SpecificDate: &monday,
		MaxBookings:  1,
		IsActive:     true,
	}
	rules := []models.AvailabilityRule{
		mondayRule(teacherID, skillID, "09:00", "12:00", 1),
		override,
	}

	windows := ResolveWindows(rules, nil, monday, monday, time.UTC)
	require.Len(t, windows, 1)

	// The one-off fully replaces the recurring contribution, it does not
	// merge with it.
	assert.Equal(t, monday.Add(14*time.Hour), windows[0].Start)
	assert.Equal(t, monday.Add(16*time.Hour), windows[0].End)

	// The following Monday the recurring rule applies again.
	nextMonday := monday.AddDate(0, 0, 7)
	windows = ResolveWindows(rules, nil, nextMonday, nextMonday, time.UTC)
	require.Len(t, windows, 1)
	assert.Equal(t, nextMonday.Add(9*time.Hour), windows[0].Start)
}

func TestResolveWindowsSubtractsConsumedStretches(t *testing.T) {
	teacherID, skillID := uuid.New(), uuid.New()
	rules := []models.AvailabilityRule{mondayRule(teacherID, skillID, "09:00", "12:00", 1)}

	booked := []models.Session{{
		TeacherID:          teacherID,
		SkillID:            skillID,
		ScheduledStartTime: monday.Add(9 * time.Hour),
		ScheduledEndTime:   monday.Add(10 * time.Hour),
		Status:             models.SessionPending,
	}}

	windows := ResolveWindows(rules, booked, monday, monday, time.UTC)
	require.Len(t, windows, 1, "the consumed 09:00-10:00 stretch is carved out")
	assert.Equal(t, monday.Add(10*time.Hour), windows[0].Start)
	assert.Equal(t, monday.Add(12*time.Hour), windows[0].End)
	assert.Equal(t, 1, windows[0].Remaining)
}

func TestResolveWindowsFullyConsumedWindowExcluded(t *testing.T) {
	teacherID, skillID := uuid.New(), uuid.New()
	rules := []models.AvailabilityRule{mondayRule(teacherID, skillID, "09:00", "12:00", 1)}

	booked := []models.Session{{
		TeacherID:          teacherID,
		SkillID:            skillID,
		ScheduledStartTime: monday.Add(9 * time.Hour),
		ScheduledEndTime:   monday.Add(12 * time.Hour),
		Status:             models.SessionConfirmed,
	}}

	windows := ResolveWindows(rules, booked, monday, monday, time.UTC)
	assert.Empty(t, windows, "a window with zero remaining capacity is excluded")
}

func TestResolveWindowsGroupCapacity(t *testing.T) {
	teacherID, skillID := uuid.New(), uuid.New()
	rules := []models.AvailabilityRule{mondayRule(teacherID, skillID, "09:00", "12:00", 2)}

	booked := []models.Session{{
		TeacherID:          teacherID,
		SkillID:            skillID,
		ScheduledStartTime: monday.Add(9 * time.Hour),
		ScheduledEndTime:   monday.Add(10 * time.Hour),
		Status:             models.SessionPending,
	}}

	windows := ResolveWindows(rules, booked, monday, monday, time.UTC)
	require.Len(t, windows, 2)
	assert.Equal(t, 1, windows[0].Remaining, "one concurrent seat left while the session runs")
	assert.Equal(t, 2, windows[1].Remaining)
	assert.Equal(t, monday.Add(10*time.Hour), windows[1].Start)
}

func TestResolveWindowsIgnoresCancelledSessions(t *testing.T) {
	teacherID, skillID := uuid.New(), uuid.New()
	rules := []models.AvailabilityRule{mondayRule(teacherID, skillID, "09:00", "12:00", 1)}

	cancelled := []models.Session{{
		TeacherID:          teacherID,
		SkillID:            skillID,
		ScheduledStartTime: monday.Add(9 * time.Hour),
		ScheduledEndTime:   monday.Add(10 * time.Hour),
		Status:             models.SessionCancelled,
	}}

	windows := ResolveWindows(rules, cancelled, monday, monday, time.UTC)
	require.Len(t, windows, 1)
	assert.Equal(t, 1, windows[0].Remaining)
}

func TestResolveWindowsInactiveRulesExcluded(t *testing.T) {
	teacherID, skillID := uuid.New(), uuid.New()
	rule := mondayRule(teacherID, skillID, "09:00", "12:00", 1)
	rule.IsActive = false

	windows := ResolveWindows([]models.AvailabilityRule{rule}, nil, monday, monday, time.UTC)
	assert.Empty(t, windows)
}

func TestResolveWindowsTimezoneExpansion(t *testing.T) {
	teacherID, skillID := uuid.New(), uuid.New()
	rules := []models.AvailabilityRule{mondayRule(teacherID, skillID, "09:00", "12:00", 1)}

	nairobi, err := time.LoadLocation("Africa/Nairobi")
	require.NoError(t, err)

	windows := ResolveWindows(rules, nil, monday, monday, nairobi)
	require.Len(t, windows, 1)

	// 09:00 in Nairobi (UTC+3) is 06:00 UTC.
	assert.Equal(t, monday.Add(6*time.Hour), windows[0].Start)
}

func TestWindowContains(t *testing.T) {
	w := Window{Start: monday.Add(9 * time.Hour), End: monday.Add(12 * time.Hour)}

	assert.True(t, w.Contains(monday.Add(9*time.Hour), monday.Add(10*time.Hour)))
	assert.True(t, w.Contains(monday.Add(11*time.Hour), monday.Add(12*time.Hour)))
	assert.False(t, w.Contains(monday.Add(8*time.Hour), monday.Add(10*time.Hour)))
	assert.False(t, w.Contains(monday.Add(11*time.Hour), monday.Add(13*time.Hour)))
}

func TestParseTimeOfDay(t *testing.T) {
	minutes, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9*60+30, minutes)

	_, err = ParseTimeOfDay("9am")
	assert.Error(t, err)
}
