package services

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/kamaucodes/skillsphere/database"
	"github.com/kamaucodes/skillsphere/models"
	"github.com/kamaucodes/skillsphere/ws"
	"gorm.io/gorm"
)

const maxDispatchAttempts = 8

// EmitEvent records an outbound event in the same transaction as the
// state change it announces. Delivery happens later, at least once.
func EmitEvent(tx *gorm.DB, eventType string, aggregateID uuid.UUID, state string) error {
	now := time.Now().UTC()
	event := models.OutboxEvent{
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload: models.EventPayload{
			AggregateID: aggregateID,
			State:       state,
			OccurredAt:  now,
		},
		NextAttemptAt: now,
	}
	return tx.Create(&event).Error
}

// DispatchOutboxEvents delivers due events to the websocket feed and the
// log, marking them dispatched. A delivery failure backs the event off
// exponentially; after maxDispatchAttempts it is parked for operators.
func DispatchOutboxEvents(limit int) {
	now := time.Now().UTC()

	var events []models.OutboxEvent
	err := database.DB.
		Where("dispatched_at IS NULL AND next_attempt_at <= ? AND attempts < ?", now, maxDispatchAttempts).
		Order("created_at asc").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		log.Printf("🔥 Outbox query failed: %v", err)
		return
	}

	for i := range events {
		event := &events[i]
		if err := ws.BroadcastEvent(event.EventType, event.Payload); err != nil {
			event.Attempts++
			backoff := time.Duration(1<<uint(event.Attempts)) * time.Minute
			event.NextAttemptAt = now.Add(backoff)
			if saveErr := database.DB.Save(event).Error; saveErr != nil {
				log.Printf("🔥 Could not record backoff for outbox event %s: %v", event.ID, saveErr)
			}
			log.Printf("Outbox event %s delivery failed (attempt %d): %v", event.ID, event.Attempts, err)
			continue
		}

		dispatched := time.Now().UTC()
		event.DispatchedAt = &dispatched
		if err := database.DB.Save(event).Error; err != nil {
			log.Printf("🔥 Could not mark outbox event %s dispatched: %v", event.ID, err)
			continue
		}
		log.Printf("Dispatched %s for aggregate %s", event.EventType, event.AggregateID)
	}
}
