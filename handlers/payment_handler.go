package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kamaucodes/skillsphere/services"
)

type CreatePaymentRequest struct {
	SessionID     string  `json:"session_id" validate:"required,uuid"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Currency      string  `json:"currency" validate:"required,len=3"`
	PaymentMethod string  `json:"payment_method" validate:"required"`
}

func CreatePayment(c *fiber.Ctx) error {
	payerID := currentUserID(c)

	var req CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	sessionID, _ := uuid.Parse(req.SessionID)

	txn, err := services.CreatePayment(sessionID, payerID, req.Amount, req.Currency, req.PaymentMethod)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(txn)
}

type UpdatePaymentStatusRequest struct {
	Status          string  `json:"status" validate:"required,oneof=processing completed failed"`
	PaymentIntentID *string `json:"payment_intent_id,omitempty"`
	ChargeID        *string `json:"charge_id,omitempty"`
	FailureReason   *string `json:"failure_reason,omitempty"`
}

// UpdatePaymentStatus records a provider-reported transition. Providers
// deliver at-least-once; re-reporting the current status is a no-op.
func UpdatePaymentStatus(c *fiber.Ctx) error {
	transactionID, err := uuid.Parse(c.Params("transactionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction id"})
	}

	var req UpdatePaymentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	txn, err := services.UpdatePaymentStatus(transactionID, req.Status, &services.ProviderRefs{
		PaymentIntentID: req.PaymentIntentID,
		ChargeID:        req.ChargeID,
		FailureReason:   req.FailureReason,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(txn)
}

type RefundPaymentRequest struct {
	Amount *float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Reason string   `json:"reason" validate:"required"`
}

func RefundPayment(c *fiber.Ctx) error {
	transactionID, err := uuid.Parse(c.Params("transactionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction id"})
	}

	var req RefundPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	txn, err := services.RefundPayment(transactionID, req.Amount, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(txn)
}
