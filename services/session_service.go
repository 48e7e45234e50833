package services

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/kamaucodes/skillsphere/database"
	"github.com/kamaucodes/skillsphere/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpdateSessionStatus drives one lifecycle transition. The session row is
// locked for the duration; guards run against the locked state. Ledger
// changes the transition requires are written as durable reconciliation
// intents inside the same transaction and applied (or retried) after
// commit, so a provider-shaped failure can never leave the session change
// half-lost.
func UpdateSessionStatus(sessionID uuid.UUID, requested, reason string, notes *string) (*models.Session, error) {
	now := time.Now().UTC()

	var session models.Session
	var captureTxnID *uuid.UUID

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&session, "id = ?", sessionID).Error; err != nil {
			return NewValidationError("session_id", "session not found")
		}

		if err := GuardSessionTransition(&session, requested, reason, now); err != nil {
			return err
		}

		session.Status = requested
		switch requested {
		case models.SessionConfirmed:
			if _, err := EnsureCallForSession(tx, &session); err != nil {
				return err
			}
			if err := EmitEvent(tx, models.EventSessionConfirmed, session.ID, requested); err != nil {
				return err
			}

		case models.SessionInProgress:
			session.ActualStartTime = &now

		case models.SessionCompleted:
			session.ActualEndTime = &now
			if notes != nil {
				session.SessionNotes = notes
			}
			if err := EndCallForSession(tx, session.ID, now); err != nil {
				return err
			}
			txn, err := activeTransaction(tx, session.ID)
			if err != nil {
				return err
			}
			if txn != nil && txn.Status != models.PaymentCompleted {
				if err := EnqueueReconciliation(tx, session.ID, txn.ID, models.ReconcileActionCapture); err != nil {
					return err
				}
				captureTxnID = &txn.ID
			}
			if err := tx.Model(&models.Skill{}).Where("id = ?", session.SkillID).
				UpdateColumn("total_sessions", gorm.Expr("total_sessions + 1")).Error; err != nil {
				return err
			}
			if err := EmitEvent(tx, models.EventSessionCompleted, session.ID, requested); err != nil {
				return err
			}

		case models.SessionCancelled:
			session.CancellationReason = &reason
			if err := EndCallForSession(tx, session.ID, now); err != nil {
				return err
			}
			txn, err := activeTransaction(tx, session.ID)
			if err != nil {
				return err
			}
			if txn != nil && txn.Status != models.PaymentRefunded {
				// Refund of a never-captured transaction settles as a
				// no-op, so the intent is safe to record unconditionally.
				if err := EnqueueReconciliation(tx, session.ID, txn.ID, models.ReconcileActionRefund); err != nil {
					return err
				}
			}
			if err := EmitEvent(tx, models.EventSessionCancelled, session.ID, requested); err != nil {
				return err
			}

		case models.SessionNoShow:
			if err := EndCallForSession(tx, session.ID, now); err != nil {
				return err
			}
		}

		return tx.Save(&session).Error
	})
	if err != nil {
		return nil, err
	}

	// Eager capture attempt outside the session transaction: the intent
	// row already committed, so a failure here only delays the ledger
	// until the reconciler's next run.
	if captureTxnID != nil {
		if _, err := FinalizeCapture(*captureTxnID); err != nil {
			pending := &ReconciliationPendingError{
				SessionID: session.ID.String(),
				Action:    models.ReconcileActionCapture,
				Cause:     err,
			}
			log.Printf("Payment capture deferred: %v", pending)
		}
	}

	log.Printf("Session %s moved to %s", session.ID, requested)
	return &session, nil
}

func activeTransaction(tx *gorm.DB, sessionID uuid.UUID) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	err := tx.Where("session_id = ? AND status <> ?", sessionID, models.PaymentFailed).
		Order("created_at desc").
		First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}
