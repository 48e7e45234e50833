package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kamaucodes/skillsphere/handlers"
	"github.com/kamaucodes/skillsphere/middleware"
)

func CallRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	calls := api.Group("/calls", middleware.Protected())
	calls.Post("/:videoCallId/join", handlers.JoinCall)
	calls.Patch("/participants/:participantId", handlers.UpdateParticipant)

	admin := api.Group("/admin/calls", middleware.Protected(), middleware.AdminRequired())
	admin.Post("/:videoCallId/recording", handlers.RecordingCallback)

	app.Get("/ws/events", middleware.Protected(), handlers.WebsocketUpgrade, handlers.ServeEvents)
}
