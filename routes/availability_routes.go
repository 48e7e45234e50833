package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kamaucodes/skillsphere/handlers"
	"github.com/kamaucodes/skillsphere/middleware"
)

func AvailabilityRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/teachers/:teacherId/slots", handlers.GetBookableSlots)

	availability := api.Group("/availability", middleware.Protected(), middleware.TeacherRequired())
	availability.Get("/me", handlers.GetMyAvailabilityRules)
	availability.Post("", handlers.CreateAvailabilityRule)
	availability.Delete("/:ruleId", handlers.DeactivateAvailabilityRule)
}
