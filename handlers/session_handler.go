package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kamaucodes/skillsphere/database"
	"github.com/kamaucodes/skillsphere/models"
	"github.com/kamaucodes/skillsphere/services"
)

type UpdateSessionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed in_progress completed cancelled no_show"`
	Reason string `json:"reason,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// UpdateSessionStatus is the single entry point for lifecycle moves. Who
// may request which transition is decided here; the time and state guards
// live in the core.
func UpdateSessionStatus(c *fiber.Ctx) error {
	userID := currentUserID(c)
	role := currentUserRole(c)

	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var req UpdateSessionStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var session models.Session
	if err := database.DB.First(&session, "id = ?", sessionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}

	isTeacher := session.TeacherID == userID
	isStudent := session.StudentID == userID
	if !isTeacher && !isStudent && role != "admin" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a party to this session"})
	}

	switch req.Status {
	case models.SessionConfirmed, models.SessionCompleted, models.SessionNoShow:
		// Confirmation is the teacher's acknowledgment; completion and
		// no-show are likewise the teacher's call.
		if !isTeacher && role != "admin" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only the teacher can request this transition"})
		}
	}

	var notes *string
	if req.Notes != "" {
		notes = &req.Notes
	}

	updated, err := services.UpdateSessionStatus(sessionID, req.Status, req.Reason, notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

func GetSession(c *fiber.Ctx) error {
	userID := currentUserID(c)

	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var session models.Session
	if err := database.DB.Preload("Skill").Preload("Teacher").Preload("Student").
		First(&session, "id = ?", sessionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}
	if session.TeacherID != userID && session.StudentID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a party to this session"})
	}

	return c.JSON(session)
}
