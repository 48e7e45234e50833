package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kamaucodes/skillsphere/handlers"
	"github.com/kamaucodes/skillsphere/middleware"
)

func SessionRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	sessions := api.Group("/sessions", middleware.Protected())
	sessions.Get("/me", handlers.GetMySessions)
	sessions.Get("/teaching", handlers.GetMyTeachingSessions)
	sessions.Post("", middleware.StudentRequired(), handlers.ProposeSession)
	sessions.Get("/:sessionId", handlers.GetSession)
	sessions.Patch("/:sessionId/status", handlers.UpdateSessionStatus)
	sessions.Post("/:sessionId/review", handlers.CreateReview)
}
