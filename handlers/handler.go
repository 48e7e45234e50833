package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/kamaucodes/skillsphere/services"
)

var validate = validator.New()

func currentUserID(c *fiber.Ctx) uuid.UUID {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))
	return userID
}

func currentUserRole(c *fiber.Ctx) string {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	role, _ := claims["role"].(string)
	return role
}

// respondError maps the core's typed errors onto HTTP statuses. Guard
// violations carry enough context for the client to render a message.
func respondError(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr.Error()})
	}

	var conflictErr *services.SchedulingConflictError
	if errors.As(err, &conflictErr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": conflictErr.Error(),
			"start": conflictErr.Start,
			"end":   conflictErr.End,
		})
	}

	var transitionErr *services.InvalidStateTransitionError
	if errors.As(err, &transitionErr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     transitionErr.Error(),
			"current":   transitionErr.Current,
			"requested": transitionErr.Requested,
		})
	}

	var windowErr *services.OutOfWindowError
	if errors.As(err, &windowErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":        windowErr.Error(),
			"window_start": windowErr.WindowStart,
			"window_end":   windowErr.WindowEnd,
		})
	}

	var roleErr *services.RoleMismatchError
	if errors.As(err, &roleErr) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": roleErr.Error()})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
