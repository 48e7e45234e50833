package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kamaucodes/skillsphere/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateProposedInterval(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr bool
	}{
		{"valid hour", now.Add(time.Hour), now.Add(2 * time.Hour), false},
		{"start in the past", now.Add(-time.Hour), now.Add(time.Hour), true},
		{"start equals now", now, now.Add(time.Hour), true},
		{"end before start", now.Add(2 * time.Hour), now.Add(time.Hour), true},
		{"too short", now.Add(time.Hour), now.Add(time.Hour + 10*time.Minute), true},
		{"minimum duration", now.Add(time.Hour), now.Add(time.Hour + 15*time.Minute), false},
		{"maximum duration", now.Add(time.Hour), now.Add(time.Hour + 480*time.Minute), false},
		{"too long", now.Add(time.Hour), now.Add(time.Hour + 481*time.Minute), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateProposedInterval(tc.start, tc.end, now, 0, 0)
			if tc.wantErr {
				var validationErr *ValidationError
				require.ErrorAs(t, err, &validationErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateProposedIntervalLeadTime(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	farOut := now.AddDate(0, 0, 91)
	err := ValidateProposedInterval(farOut, farOut.Add(time.Hour), now, 90, 0)
	assert.Error(t, err)

	soon := now.Add(30 * time.Minute)
	err = ValidateProposedInterval(soon, soon.Add(time.Hour), now, 90, 60)
	assert.Error(t, err)

	ok := now.Add(2 * time.Hour)
	assert.NoError(t, ValidateProposedInterval(ok, ok.Add(time.Hour), now, 90, 60))
}

func TestComputeTotalAmount(t *testing.T) {
	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, 50.0, ComputeTotalAmount(50, start, start.Add(time.Hour)))
	assert.Equal(t, 25.0, ComputeTotalAmount(50, start, start.Add(30*time.Minute)))
	assert.Equal(t, 12.5, ComputeTotalAmount(50, start, start.Add(15*time.Minute)))
	assert.Equal(t, 29.99, ComputeTotalAmount(29.99, start, start.Add(time.Hour)))
}

func TestFirstOverlapHalfOpenSemantics(t *testing.T) {
	base := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	existing := []models.Session{{
		ID:                 uuid.New(),
		ScheduledStartTime: base,
		ScheduledEndTime:   base.Add(time.Hour),
		Status:             models.SessionPending,
	}}

	// Overlapping interior.
	assert.NotNil(t, FirstOverlap(existing, base.Add(30*time.Minute), base.Add(90*time.Minute)))
	// Identical interval.
	assert.NotNil(t, FirstOverlap(existing, base, base.Add(time.Hour)))
	// Back-to-back sessions do not overlap under half-open intervals.
	assert.Nil(t, FirstOverlap(existing, base.Add(time.Hour), base.Add(2*time.Hour)))
	assert.Nil(t, FirstOverlap(existing, base.Add(-time.Hour), base))
	// Cancelled sessions release their interval.
	existing[0].Status = models.SessionCancelled
	assert.Nil(t, FirstOverlap(existing, base, base.Add(time.Hour)))
}

// The recurring Monday 09:00-12:00 scenario: with maxBookings=1 and a
// committed 09:00-10:00 session, 09:30-10:30 conflicts, 10:00-11:00 fits.
func TestMondayCapacityScenario(t *testing.T) {
	teacherID, skillID := uuid.New(), uuid.New()
	rules := []models.AvailabilityRule{mondayRule(teacherID, skillID, "09:00", "12:00", 1)}

	nine := monday.Add(9 * time.Hour)
	booked := []models.Session{{
		ID:                 uuid.New(),
		TeacherID:          teacherID,
		SkillID:            skillID,
		ScheduledStartTime: nine,
		ScheduledEndTime:   nine.Add(time.Hour),
		Status:             models.SessionPending,
	}}

	// Student B at 09:30-10:30 overlaps student A's session.
	conflict := FirstOverlap(booked, nine.Add(30*time.Minute), nine.Add(90*time.Minute))
	require.NotNil(t, conflict)

	// Student B at 10:00-11:00 is disjoint, but window capacity decides.
	assert.Nil(t, FirstOverlap(booked, nine.Add(time.Hour), nine.Add(2*time.Hour)))

	windows := ResolveWindows(rules, booked, monday, monday, time.UTC)

	// The disjoint 10:00-11:00 interval fits the free remainder of the
	// window and succeeds.
	w := FindContainingWindow(windows, nine.Add(time.Hour), nine.Add(2*time.Hour))
	require.NotNil(t, w)
	assert.Equal(t, 1, w.Remaining)

	// The overlapping 09:30-10:30 interval no longer fits any fragment.
	assert.Nil(t, FindContainingWindow(windows, nine.Add(30*time.Minute), nine.Add(90*time.Minute)))
}

// Two identical proposals arriving together serialize on the teacher
// row, so the second revalidates against the first's committed session
// even when the teacher had no sessions at all beforehand. Exactly one
// may pass.
func TestIdenticalProposalsExactlyOneWins(t *testing.T) {
	teacherID, skillID := uuid.New(), uuid.New()
	rules := []models.AvailabilityRule{mondayRule(teacherID, skillID, "09:00", "12:00", 1)}

	nine := monday.Add(9 * time.Hour)
	ten := nine.Add(time.Hour)

	// First proposal: empty committed state, full window, passes.
	var committed []models.Session
	require.Nil(t, FirstOverlap(committed, nine, ten))
	windows := ResolveWindows(rules, committed, monday, monday, time.UTC)
	require.NotNil(t, FindContainingWindow(windows, nine, ten))

	committed = append(committed, models.Session{
		ID:                 uuid.New(),
		TeacherID:          teacherID,
		SkillID:            skillID,
		ScheduledStartTime: nine,
		ScheduledEndTime:   ten,
		Status:             models.SessionPending,
	})

	// Second, identical proposal: sees the winner's row and fails both
	// the overlap check and the capacity revalidation.
	assert.NotNil(t, FirstOverlap(committed, nine, ten))
	windows = ResolveWindows(rules, committed, monday, monday, time.UTC)
	assert.Nil(t, FindContainingWindow(windows, nine, ten))
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 10.01, RoundMoney(10.005))
	assert.Equal(t, 10.0, RoundMoney(10.004))
	assert.Equal(t, 90.0, RoundMoney(100.0-10.0))
}
