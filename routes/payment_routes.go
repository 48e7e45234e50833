package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kamaucodes/skillsphere/handlers"
	"github.com/kamaucodes/skillsphere/middleware"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	payments := api.Group("/payments", middleware.Protected())
	payments.Post("", handlers.CreatePayment)
	payments.Post("/:transactionId/refund", handlers.RefundPayment)

	// Provider status callbacks arrive through the admin surface; webhook
	// signature verification belongs to the provider integration.
	admin := api.Group("/admin/payments", middleware.Protected(), middleware.AdminRequired())
	admin.Patch("/:transactionId/status", handlers.UpdatePaymentStatus)
}
