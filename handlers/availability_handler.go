package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kamaucodes/skillsphere/database"
	"github.com/kamaucodes/skillsphere/models"
	"github.com/kamaucodes/skillsphere/services"
)

type CreateAvailabilityRuleRequest struct {
	SkillID      string  `json:"skill_id" validate:"required,uuid"`
	DayOfWeek    int     `json:"day_of_week" validate:"min=0,max=6"`
	StartTime    string  `json:"start_time" validate:"required,len=5"`
	EndTime      string  `json:"end_time" validate:"required,len=5"`
	IsRecurring  *bool   `json:"is_recurring,omitempty"`
	SpecificDate *string `json:"specific_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	MaxBookings  int     `json:"max_bookings,omitempty"`
}

func CreateAvailabilityRule(c *fiber.Ctx) error {
	teacherID := currentUserID(c)

	var req CreateAvailabilityRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	skillID, _ := uuid.Parse(req.SkillID)

	isRecurring := true
	if req.IsRecurring != nil {
		isRecurring = *req.IsRecurring
	}
	maxBookings := 1
	if req.MaxBookings > 1 {
		maxBookings = req.MaxBookings
	}

	rule := models.AvailabilityRule{
		TeacherID:   teacherID,
		SkillID:     skillID,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsRecurring: isRecurring,
		MaxBookings: maxBookings,
		IsActive:    true,
	}
	if req.SpecificDate != nil {
		date, err := time.Parse("2006-01-02", *req.SpecificDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "specific_date must be YYYY-MM-DD"})
		}
		rule.SpecificDate = &date
		rule.DayOfWeek = int(date.Weekday())
		rule.IsRecurring = false
	}

	if _, err := services.AddRule(&rule); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(rule)
}

func GetMyAvailabilityRules(c *fiber.Ctx) error {
	teacherID := currentUserID(c)

	var rules []models.AvailabilityRule
	database.DB.
		Where("teacher_id = ?", teacherID).
		Order("day_of_week asc, start_time asc").
		Find(&rules)

	return c.JSON(rules)
}

func DeactivateAvailabilityRule(c *fiber.Ctx) error {
	teacherID := currentUserID(c)
	ruleID, err := uuid.Parse(c.Params("ruleId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid rule id"})
	}

	if err := services.DeactivateRule(ruleID, teacherID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetBookableSlots is the read side of the slot resolver: the concrete
// windows a student can still book for a teacher/skill in a date range.
func GetBookableSlots(c *fiber.Ctx) error {
	teacherID, err := uuid.Parse(c.Params("teacherId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid teacher id"})
	}
	skillID, err := uuid.Parse(c.Query("skill_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "skill_id query parameter is required"})
	}

	from := time.Now().UTC()
	if raw := c.Query("from"); raw != "" {
		if from, err = time.Parse("2006-01-02", raw); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "from must be YYYY-MM-DD"})
		}
	}
	to := from.AddDate(0, 0, 7)
	if raw := c.Query("to"); raw != "" {
		if to, err = time.Parse("2006-01-02", raw); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "to must be YYYY-MM-DD"})
		}
	}
	if to.Before(from) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "to must not be before from"})
	}

	windows, err := services.ResolveBookableWindows(teacherID, skillID, from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(windows)
}
