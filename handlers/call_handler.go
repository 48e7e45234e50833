package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kamaucodes/skillsphere/models"
	"github.com/kamaucodes/skillsphere/services"
)

type JoinCallRequest struct {
	Role       string             `json:"role" validate:"required,oneof=teacher student"`
	DeviceInfo *models.DeviceInfo `json:"device_info,omitempty"`
}

func JoinCall(c *fiber.Ctx) error {
	userID := currentUserID(c)

	videoCallID, err := uuid.Parse(c.Params("videoCallId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid video call id"})
	}

	var req JoinCallRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	participant, err := services.JoinCall(videoCallID, userID, req.Role, req.DeviceInfo)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(participant)
}

type UpdateParticipantRequest struct {
	LeftAt         *string                `json:"left_at,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	QualityMetrics *models.QualityMetrics `json:"quality_metrics,omitempty"`
}

func UpdateParticipant(c *fiber.Ctx) error {
	participantID, err := uuid.Parse(c.Params("participantId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid participant id"})
	}

	var req UpdateParticipantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var leftAt *time.Time
	if req.LeftAt != nil {
		t, _ := time.Parse(time.RFC3339, *req.LeftAt)
		utc := t.UTC()
		leftAt = &utc
	}

	participant, err := services.UpdateParticipant(participantID, leftAt, req.QualityMetrics)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(participant)
}

type RecordingCallbackRequest struct {
	Status       string  `json:"status" validate:"required,oneof=recording processing ready failed"`
	RecordingURL *string `json:"recording_url,omitempty" validate:"omitempty,url"`
}

// RecordingCallback receives provider webhook updates for the recording
// sub-state. Participant events never drive this.
func RecordingCallback(c *fiber.Ctx) error {
	videoCallID, err := uuid.Parse(c.Params("videoCallId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid video call id"})
	}

	var req RecordingCallbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	call, err := services.UpdateRecordingStatus(videoCallID, req.Status, req.RecordingURL)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(call)
}
