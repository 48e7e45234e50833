package services

import (
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	config "github.com/kamaucodes/skillsphere/configs"
	"github.com/kamaucodes/skillsphere/database"
	"github.com/kamaucodes/skillsphere/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	MinSessionMinutes = 15
	MaxSessionMinutes = 480
)

// RoundMoney truncates monetary values to cents, half away from zero.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeTotalAmount prices a session: price per hour times duration in
// hours. The result is fixed at creation and never recomputed.
func ComputeTotalAmount(pricePerHour float64, start, end time.Time) float64 {
	return RoundMoney(pricePerHour * end.Sub(start).Hours())
}

// ValidateProposedInterval re-checks the invariant-critical fields of a
// proposal: future start, positive duration within bounds, and the
// configured lead-time/notice policy.
func ValidateProposedInterval(start, end, now time.Time, maxLeadDays, minNoticeMinutes int) error {
	if !start.After(now) {
		return NewValidationError("scheduled_start_time", "must be in the future")
	}
	if !end.After(start) {
		return NewValidationError("scheduled_end_time", "must be after scheduled_start_time")
	}
	minutes := end.Sub(start).Minutes()
	if minutes < MinSessionMinutes || minutes > MaxSessionMinutes {
		return NewValidationError("scheduled_end_time", "session duration must be between 15 and 480 minutes")
	}
	if maxLeadDays > 0 && start.After(now.AddDate(0, 0, maxLeadDays)) {
		return NewValidationError("scheduled_start_time", "start is beyond the maximum booking lead time")
	}
	if minNoticeMinutes > 0 && start.Before(now.Add(time.Duration(minNoticeMinutes)*time.Minute)) {
		return NewValidationError("scheduled_start_time", "start is inside the minimum notice window")
	}
	return nil
}

// FindContainingWindow returns the first resolved window that fully
// contains [start, end) with remaining capacity, or nil.
func FindContainingWindow(windows []Window, start, end time.Time) *Window {
	for i := range windows {
		if windows[i].Remaining >= 1 && windows[i].Contains(start, end) {
			return &windows[i]
		}
	}
	return nil
}

// FirstOverlap returns the first session whose [start, end) intersects
// the proposed interval, or nil. Intersection is half-open:
// existing.start < new.end && new.start < existing.end.
func FirstOverlap(sessions []models.Session, start, end time.Time) *models.Session {
	for i := range sessions {
		if sessions[i].CountsAgainstCapacity() && sessions[i].Overlaps(start, end) {
			return &sessions[i]
		}
	}
	return nil
}

// ProposeSession validates and atomically commits a proposed session. The
// commit takes row locks on the teacher's sessions around the proposed
// interval and revalidates overlap and window capacity under the lock, so
// of two racing proposals for intersecting intervals exactly one wins;
// the loser gets a SchedulingConflictError.
func ProposeSession(skillID, teacherID, studentID uuid.UUID, start, end time.Time, studentNotes *string) (*models.Session, error) {
	now := time.Now().UTC()
	start = start.UTC()
	end = end.UTC()

	if err := ValidateProposedInterval(start, end, now, config.MaxLeadDays(), config.MinNoticeMinutes()); err != nil {
		return nil, err
	}

	var skill models.Skill
	if err := database.DB.First(&skill, "id = ? AND teacher_id = ? AND is_active = ?", skillID, teacherID, true).Error; err != nil {
		return nil, NewValidationError("skill_id", "skill not found for this teacher")
	}
	var teacher models.User
	if err := database.DB.First(&teacher, "id = ? AND role = ?", teacherID, "teacher").Error; err != nil {
		return nil, NewValidationError("teacher_id", "teacher not found")
	}
	var student models.User
	if err := database.DB.First(&student, "id = ?", studentID).Error; err != nil {
		return nil, NewValidationError("student_id", "student not found")
	}
	if studentID == teacherID {
		return nil, NewValidationError("student_id", "teacher cannot book their own skill")
	}

	rules, err := ListActiveRules(teacherID, skillID, start, end)
	if err != nil {
		return nil, err
	}

	var session models.Session
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// Competing proposals for the same teacher serialize on the
		// teacher's user row. The session locks below can cover an empty
		// set (a teacher's first booking), so they cannot serialize alone.
		var lockedTeacher models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&lockedTeacher, "id = ?", teacherID).Error; err != nil {
			return err
		}

		// Lock every non-cancelled session of the teacher that could
		// interact with the proposed date; the checks below run against
		// committed state.
		dayStart := start.Truncate(24 * time.Hour).Add(-24 * time.Hour)
		dayEnd := dayStart.Add(72 * time.Hour)

		var existing []models.Session
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("teacher_id = ? AND status <> ? AND scheduled_start_time < ? AND scheduled_end_time > ?",
				teacherID, models.SessionCancelled, dayEnd, dayStart).
			Find(&existing).Error; err != nil {
			return err
		}

		// The teacher cannot double-book, regardless of skill.
		if conflict := FirstOverlap(existing, start, end); conflict != nil {
			return &SchedulingConflictError{
				TeacherID: teacherID.String(),
				Start:     start,
				End:       end,
				Message:   "interval overlaps an existing session",
			}
		}

		// Commit-time revalidation of window capacity; the resolver read
		// the caller may have done earlier is not trusted.
		windows := ResolveWindows(rules, existing, start, end, teacher.Location())
		if FindContainingWindow(windows, start, end) == nil {
			return &SchedulingConflictError{
				TeacherID: teacherID.String(),
				Start:     start,
				End:       end,
				Message:   "no bookable window with remaining capacity contains the interval",
			}
		}

		session = models.Session{
			SkillID:            skillID,
			TeacherID:          teacherID,
			StudentID:          studentID,
			Title:              skill.Title,
			ScheduledStartTime: start,
			ScheduledEndTime:   end,
			Status:             models.SessionPending,
			PricePerHour:       skill.PricePerHour,
			TotalAmount:        ComputeTotalAmount(skill.PricePerHour, start, end),
			Currency:           skill.Currency,
			PaymentStatus:      models.SessionPaymentPending,
			StudentNotes:       studentNotes,
		}
		return tx.Create(&session).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Session %s proposed for teacher %s [%s, %s)", session.ID, teacherID,
		start.Format(time.RFC3339), end.Format(time.RFC3339))
	return &session, nil
}
