package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/kamaucodes/skillsphere/database"
	"github.com/kamaucodes/skillsphere/models"
	"gorm.io/gorm"
)

const maxReconcileAttempts = 6

// IdempotencyKey derives the key external-provider-shaped calls are made
// under, so at-least-once delivery cannot double-charge or double-refund.
func IdempotencyKey(sessionID uuid.UUID, action string, attempt int) string {
	return fmt.Sprintf("%s:%s:%d", sessionID, action, attempt)
}

// EnqueueReconciliation records the durable intent of a ledger change a
// session transition could not apply inline. The unique idempotency key
// collapses duplicate intents for the same session/action.
func EnqueueReconciliation(tx *gorm.DB, sessionID, transactionID uuid.UUID, action string) error {
	task := models.ReconciliationTask{
		SessionID:      sessionID,
		TransactionID:  transactionID,
		Action:         action,
		IdempotencyKey: IdempotencyKey(sessionID, action, 0),
		Status:         models.ReconcilePending,
		NextRunAt:      time.Now().UTC(),
	}
	err := tx.Create(&task).Error
	if err != nil && isDuplicateKey(err) {
		return nil
	}
	return err
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// RunReconciliation retries pending saga steps. Ledger transitions are
// idempotent, so a task that already succeeded on a previous attempt
// settles as done on the retry.
func RunReconciliation(limit int) {
	now := time.Now().UTC()

	var tasks []models.ReconciliationTask
	err := database.DB.
		Where("status = ? AND next_run_at <= ?", models.ReconcilePending, now).
		Order("next_run_at asc").
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		log.Printf("🔥 Reconciliation query failed: %v", err)
		return
	}

	for i := range tasks {
		task := &tasks[i]
		if err := applyReconciliation(task); err != nil {
			task.Attempts++
			msg := err.Error()
			task.LastError = &msg
			if task.Attempts >= maxReconcileAttempts {
				task.Status = models.ReconcileFailed
				log.Printf("🔥 Reconciliation task %s exhausted retries: %v", task.ID, err)
			} else {
				backoff := time.Duration(1<<uint(task.Attempts)) * time.Minute
				task.NextRunAt = now.Add(backoff)
			}
			if saveErr := database.DB.Save(task).Error; saveErr != nil {
				log.Printf("🔥 Could not record retry state for task %s: %v", task.ID, saveErr)
			}
			continue
		}

		task.Status = models.ReconcileDone
		if err := database.DB.Save(task).Error; err != nil {
			log.Printf("🔥 Could not mark task %s done: %v", task.ID, err)
			continue
		}
		log.Printf("✅ Reconciled %s for session %s", task.Action, task.SessionID)
	}
}

func applyReconciliation(task *models.ReconciliationTask) error {
	switch task.Action {
	case models.ReconcileActionCapture:
		_, err := FinalizeCapture(task.TransactionID)
		return err
	case models.ReconcileActionRefund:
		_, err := RefundPayment(task.TransactionID, nil, "session cancelled")
		return err
	}
	return fmt.Errorf("unknown reconciliation action %q", task.Action)
}
