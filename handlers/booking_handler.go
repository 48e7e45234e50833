package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kamaucodes/skillsphere/database"
	"github.com/kamaucodes/skillsphere/models"
	"github.com/kamaucodes/skillsphere/services"
)

type ProposeSessionRequest struct {
	SkillID            string `json:"skill_id" validate:"required,uuid"`
	TeacherID          string `json:"teacher_id" validate:"required,uuid"`
	ScheduledStartTime string `json:"scheduled_start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	ScheduledEndTime   string `json:"scheduled_end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	StudentNotes       string `json:"student_notes,omitempty"`
}

func ProposeSession(c *fiber.Ctx) error {
	studentID := currentUserID(c)

	var req ProposeSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	skillID, _ := uuid.Parse(req.SkillID)
	teacherID, _ := uuid.Parse(req.TeacherID)
	start, _ := time.Parse(time.RFC3339, req.ScheduledStartTime)
	end, _ := time.Parse(time.RFC3339, req.ScheduledEndTime)

	var notes *string
	if req.StudentNotes != "" {
		notes = &req.StudentNotes
	}

	session, err := services.ProposeSession(skillID, teacherID, studentID, start, end, notes)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

func GetMySessions(c *fiber.Ctx) error {
	studentID := currentUserID(c)

	var sessions []models.Session
	database.DB.
		Preload("Teacher").
		Preload("Skill").
		Where("student_id = ?", studentID).
		Order("scheduled_start_time desc").
		Find(&sessions)

	return c.JSON(sessions)
}

func GetMyTeachingSessions(c *fiber.Ctx) error {
	teacherID := currentUserID(c)

	var sessions []models.Session
	database.DB.
		Preload("Student").
		Preload("Skill").
		Where("teacher_id = ?", teacherID).
		Order("scheduled_start_time desc").
		Find(&sessions)

	return c.JSON(sessions)
}
