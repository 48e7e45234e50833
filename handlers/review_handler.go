package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/kamaucodes/skillsphere/models"
	"github.com/kamaucodes/skillsphere/services"
)

type CreateReviewRequest struct {
	Rating         int                   `json:"rating" validate:"required,min=1,max=5"`
	Title          *string               `json:"title,omitempty" validate:"omitempty,max=200"`
	Comment        *string               `json:"comment,omitempty"`
	AspectRatings  *models.AspectRatings `json:"aspect_ratings,omitempty"`
	WouldRecommend *bool                 `json:"would_recommend,omitempty"`
}

func CreateReview(c *fiber.Ctx) error {
	reviewerID := currentUserID(c)

	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var req CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	review, err := services.CreateReview(sessionID, reviewerID, services.ReviewInput{
		Rating:         req.Rating,
		Title:          req.Title,
		Comment:        req.Comment,
		AspectRatings:  req.AspectRatings,
		WouldRecommend: req.WouldRecommend,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}
