package jobs

import (
	"log"
	"time"

	"github.com/kamaucodes/skillsphere/database"
	"github.com/kamaucodes/skillsphere/models"
	"github.com/kamaucodes/skillsphere/services"
)

// SweepNoShows moves confirmed sessions whose scheduled window passed
// with nobody starting them into no_show. Each session goes through the
// regular transition path so the guards and events still apply.
func SweepNoShows() {
	log.Println("Running job: SweepNoShows...")

	now := time.Now().UTC()

	var stale []models.Session
	err := database.DB.
		Where("status = ? AND scheduled_end_time < ? AND actual_start_time IS NULL",
			models.SessionConfirmed, now).
		Find(&stale).Error
	if err != nil {
		log.Printf("Error checking for no-show sessions: %v", err)
		return
	}

	if len(stale) == 0 {
		return
	}

	marked := 0
	for _, session := range stale {
		if _, err := services.UpdateSessionStatus(session.ID, models.SessionNoShow, "", nil); err != nil {
			log.Printf("Could not mark session %s as no-show: %v", session.ID, err)
			continue
		}
		marked++
	}

	log.Printf("Marked %d session(s) as no-show.", marked)
}
