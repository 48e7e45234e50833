package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/kamaucodes/skillsphere/database"
	"github.com/kamaucodes/skillsphere/models"
)

// ValidateRule re-checks the invariants a rule must satisfy before it is
// persisted. Boundary validation has already range-checked the raw input.
func ValidateRule(rule *models.AvailabilityRule) error {
	if rule.TeacherID == uuid.Nil {
		return NewValidationError("teacher_id", "teacher is required")
	}
	if rule.SkillID == uuid.Nil {
		return NewValidationError("skill_id", "skill is required")
	}
	if rule.DayOfWeek < 0 || rule.DayOfWeek > 6 {
		return NewValidationError("day_of_week", "must be between 0 and 6")
	}
	start, err := ParseTimeOfDay(rule.StartTime)
	if err != nil {
		return NewValidationError("start_time", "must be in HH:MM format")
	}
	end, err := ParseTimeOfDay(rule.EndTime)
	if err != nil {
		return NewValidationError("end_time", "must be in HH:MM format")
	}
	if end <= start {
		return NewValidationError("end_time", "must be after start_time")
	}
	if rule.MaxBookings < 1 {
		return NewValidationError("max_bookings", "must be at least 1")
	}
	return nil
}

// AddRule persists a new availability declaration for a teacher.
func AddRule(rule *models.AvailabilityRule) (uuid.UUID, error) {
	if err := ValidateRule(rule); err != nil {
		return uuid.Nil, err
	}

	var skill models.Skill
	if err := database.DB.First(&skill, "id = ? AND teacher_id = ?", rule.SkillID, rule.TeacherID).Error; err != nil {
		return uuid.Nil, NewValidationError("skill_id", "skill not found for this teacher")
	}

	if err := database.DB.Create(rule).Error; err != nil {
		return uuid.Nil, err
	}
	return rule.ID, nil
}

// ListActiveRules returns the active rules that can contribute windows
// within [from, to], ordered by weekday then start time. Override
// semantics are applied later, per date, by the slot resolver.
func ListActiveRules(teacherID, skillID uuid.UUID, from, to time.Time) ([]models.AvailabilityRule, error) {
	var rules []models.AvailabilityRule
	err := database.DB.
		Where("teacher_id = ? AND skill_id = ? AND is_active = ?", teacherID, skillID, true).
		Where("specific_date IS NULL OR (specific_date >= ? AND specific_date < ?)",
			from.AddDate(0, 0, -1), to.AddDate(0, 0, 1)).
		Order("day_of_week asc, start_time asc").
		Find(&rules).Error
	return rules, err
}

// DeactivateRule turns a rule off for future resolution. Sessions already
// booked against it are untouched.
func DeactivateRule(ruleID, teacherID uuid.UUID) error {
	result := database.DB.Model(&models.AvailabilityRule{}).
		Where("id = ? AND teacher_id = ?", ruleID, teacherID).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NewValidationError("rule_id", "rule not found")
	}
	return nil
}
