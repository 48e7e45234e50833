package services

import (
	"github.com/google/uuid"
	"github.com/kamaucodes/skillsphere/database"
	"github.com/kamaucodes/skillsphere/models"
	"gorm.io/gorm"
)

// ReviewInput is the validated shape of a review submission.
type ReviewInput struct {
	Rating         int
	Title          *string
	Comment        *string
	AspectRatings  *models.AspectRatings
	WouldRecommend *bool
}

// GuardReview checks that the session is reviewable by the reviewer and
// returns the reviewee, always the other party.
func GuardReview(session *models.Session, reviewerID uuid.UUID) (uuid.UUID, error) {
	if session.Status != models.SessionCompleted {
		return uuid.Nil, &InvalidStateTransitionError{Entity: "session", Current: session.Status, Requested: "reviewed"}
	}
	switch reviewerID {
	case session.StudentID:
		return session.TeacherID, nil
	case session.TeacherID:
		return session.StudentID, nil
	}
	return uuid.Nil, NewValidationError("reviewer_id", "reviewer is not a party to this session")
}

// CreateReview records the one review a session may carry. Only completed
// sessions are reviewable, the reviewer must be a party to the session,
// and the reviewee is always the other party.
func CreateReview(sessionID, reviewerID uuid.UUID, input ReviewInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, NewValidationError("rating", "must be between 1 and 5")
	}
	if input.AspectRatings != nil {
		for _, v := range []int{input.AspectRatings.Knowledge, input.AspectRatings.Communication,
			input.AspectRatings.Patience, input.AspectRatings.Helpfulness} {
			if v < 1 || v > 5 {
				return nil, NewValidationError("aspect_ratings", "each aspect must be between 1 and 5")
			}
		}
	}

	var review models.Review
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := tx.First(&session, "id = ?", sessionID).Error; err != nil {
			return NewValidationError("session_id", "session not found")
		}
		revieweeID, err := GuardReview(&session, reviewerID)
		if err != nil {
			return err
		}

		var existing models.Review
		if err := tx.Where("session_id = ?", sessionID).First(&existing).Error; err == nil {
			return NewValidationError("session_id", "a review for this session has already been submitted")
		}

		review = models.Review{
			SessionID:      sessionID,
			SkillID:        session.SkillID,
			ReviewerID:     reviewerID,
			RevieweeID:     revieweeID,
			Rating:         input.Rating,
			Title:          input.Title,
			Comment:        input.Comment,
			AspectRatings:  input.AspectRatings,
			WouldRecommend: input.WouldRecommend,
			IsPublic:       true,
		}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		var result struct {
			Avg float64
		}
		tx.Model(&models.Review{}).Where("skill_id = ?", session.SkillID).Select("avg(rating) as avg").Scan(&result)

		return tx.Model(&models.Skill{}).Where("id = ?", session.SkillID).Update("average_rating", result.Avg).Error
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}
