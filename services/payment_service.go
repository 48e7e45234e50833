package services

import (
	"log"
	"time"

	"github.com/google/uuid"
	config "github.com/kamaucodes/skillsphere/configs"
	"github.com/kamaucodes/skillsphere/database"
	"github.com/kamaucodes/skillsphere/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// paymentTransitions is the ledger lifecycle:
// pending → processing → completed, side exits to failed, and
// completed → refunded. failed and refunded are terminal.
var paymentTransitions = map[string][]string{
	models.PaymentPending:    {models.PaymentProcessing, models.PaymentFailed},
	models.PaymentProcessing: {models.PaymentCompleted, models.PaymentFailed},
	models.PaymentCompleted:  {models.PaymentRefunded},
	models.PaymentFailed:     {},
	models.PaymentRefunded:   {},
}

// CanTransitionPayment reports whether the ledger move is legal.
// Transitions are monotonic; terminal states are never resurrected.
func CanTransitionPayment(current, requested string) bool {
	for _, next := range paymentTransitions[current] {
		if next == requested {
			return true
		}
	}
	return false
}

// SplitAmount computes the fee split for a charge. The invariant
// amount == platform_fee + net_amount holds for the returned pair.
func SplitAmount(amount, feeRate float64) (platformFee, netAmount float64) {
	platformFee = RoundMoney(amount * feeRate)
	netAmount = RoundMoney(amount - platformFee)
	return platformFee, netAmount
}

// sessionPaymentCache maps a ledger status onto the session's cached
// payment_status column.
func sessionPaymentCache(ledgerStatus string) string {
	switch ledgerStatus {
	case models.PaymentCompleted:
		return models.SessionPaymentPaid
	case models.PaymentFailed:
		return models.SessionPaymentFailed
	case models.PaymentRefunded:
		return models.SessionPaymentRefunded
	}
	return models.SessionPaymentPending
}

func recordTransition(tx *gorm.DB, txn *models.PaymentTransaction, from, to string, note *string) error {
	return tx.Create(&models.PaymentTransition{
		TransactionID: txn.ID,
		FromStatus:    from,
		ToStatus:      to,
		Note:          note,
	}).Error
}

// CreatePayment opens the monetary lifecycle for a session. At most one
// active (non-failed) transaction may exist per session.
func CreatePayment(sessionID, payerID uuid.UUID, amount float64, currency, method string) (*models.PaymentTransaction, error) {
	if amount <= 0 {
		return nil, NewValidationError("amount", "must be positive")
	}
	if method == "" {
		return nil, NewValidationError("payment_method", "is required")
	}

	var txn models.PaymentTransaction
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&session, "id = ?", sessionID).Error; err != nil {
			return NewValidationError("session_id", "session not found")
		}
		if payerID != session.StudentID {
			return NewValidationError("payer_id", "payer must be the session's student")
		}

		var active int64
		if err := tx.Model(&models.PaymentTransaction{}).
			Where("session_id = ? AND status <> ?", sessionID, models.PaymentFailed).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return NewValidationError("session_id", "session already has an active payment transaction")
		}

		platformFee, netAmount := SplitAmount(amount, config.PlatformFeeRate())
		txn = models.PaymentTransaction{
			SessionID:     sessionID,
			PayerID:       session.StudentID,
			PayeeID:       session.TeacherID,
			Amount:        RoundMoney(amount),
			Currency:      currency,
			PlatformFee:   platformFee,
			NetAmount:     netAmount,
			PaymentMethod: method,
			Status:        models.PaymentPending,
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}
		return recordTransition(tx, &txn, "", models.PaymentPending, nil)
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// ProviderRefs carries the external references reported with a provider
// status callback.
type ProviderRefs struct {
	PaymentIntentID *string
	ChargeID        *string
	FailureReason   *string
}

// UpdatePaymentStatus applies one ledger transition. Re-applying the
// current status is a no-op success, which makes provider callbacks and
// reconciler retries idempotent. Illegal moves fail with
// InvalidStateTransitionError.
func UpdatePaymentStatus(transactionID uuid.UUID, requested string, refs *ProviderRefs) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&txn, "id = ?", transactionID).Error; err != nil {
			return NewValidationError("transaction_id", "payment transaction not found")
		}

		if txn.Status == requested {
			return nil // idempotent retry
		}
		if !CanTransitionPayment(txn.Status, requested) {
			return &InvalidStateTransitionError{Entity: "payment", Current: txn.Status, Requested: requested}
		}

		from := txn.Status
		now := time.Now().UTC()
		txn.Status = requested
		if refs != nil {
			if refs.PaymentIntentID != nil {
				txn.PaymentIntentID = refs.PaymentIntentID
			}
			if refs.ChargeID != nil {
				txn.ProviderChargeID = refs.ChargeID
			}
			if refs.FailureReason != nil {
				txn.FailureReason = refs.FailureReason
			}
		}

		switch requested {
		case models.PaymentCompleted:
			txn.ProcessedAt = &now
		case models.PaymentFailed:
			// keep failure reason from refs, nothing else to stamp
		}

		if err := tx.Save(&txn).Error; err != nil {
			return err
		}
		if err := recordTransition(tx, &txn, from, requested, txn.FailureReason); err != nil {
			return err
		}
		return syncSessionPayment(tx, &txn, requested)
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// syncSessionPayment refreshes the cached payment status on the owning
// session and emits the payment events collaborators listen for. A
// provider failure never rolls back a confirmed session; the session just
// reads as confirmed-but-unpaid until a retry or a caller decision.
func syncSessionPayment(tx *gorm.DB, txn *models.PaymentTransaction, ledgerStatus string) error {
	updates := map[string]interface{}{"payment_status": sessionPaymentCache(ledgerStatus)}
	if txn.PaymentIntentID != nil {
		updates["payment_intent_id"] = *txn.PaymentIntentID
	}
	if err := tx.Model(&models.Session{}).Where("id = ?", txn.SessionID).Updates(updates).Error; err != nil {
		return err
	}

	switch ledgerStatus {
	case models.PaymentCompleted:
		return EmitEvent(tx, models.EventPaymentCompleted, txn.ID, models.PaymentCompleted)
	case models.PaymentFailed:
		return EmitEvent(tx, models.EventPaymentFailed, txn.ID, models.PaymentFailed)
	}
	return nil
}

// FinalizeCapture walks a transaction to completed through the legal
// intermediate steps. Already-completed transactions are a no-op; a
// terminal failed or refunded transaction cannot be captured.
func FinalizeCapture(transactionID uuid.UUID) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	if err := database.DB.First(&txn, "id = ?", transactionID).Error; err != nil {
		return nil, NewValidationError("transaction_id", "payment transaction not found")
	}

	if txn.Status == models.PaymentPending {
		if _, err := UpdatePaymentStatus(transactionID, models.PaymentProcessing, nil); err != nil {
			return nil, err
		}
		txn.Status = models.PaymentProcessing
	}
	if txn.Status == models.PaymentProcessing {
		return UpdatePaymentStatus(transactionID, models.PaymentCompleted, nil)
	}
	if txn.Status == models.PaymentCompleted {
		return &txn, nil
	}
	return nil, &InvalidStateTransitionError{Entity: "payment", Current: txn.Status, Requested: models.PaymentCompleted}
}

// RefundPayment moves a completed transaction to refunded. A nil amount
// refunds in full (the default cancellation policy); a partial amount must
// not exceed the captured amount. Refunding a transaction that never
// completed is a no-op success: the ledger records refunded with a zero
// refund amount and no provider call is attempted. Refunding an already
// refunded transaction is likewise a no-op.
func RefundPayment(transactionID uuid.UUID, amount *float64, reason string) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&txn, "id = ?", transactionID).Error; err != nil {
			return NewValidationError("transaction_id", "payment transaction not found")
		}

		switch txn.Status {
		case models.PaymentRefunded:
			return nil // idempotent retry
		case models.PaymentFailed:
			return &InvalidStateTransitionError{Entity: "payment", Current: txn.Status, Requested: models.PaymentRefunded}
		}

		refund := txn.Amount
		if amount != nil {
			refund = RoundMoney(*amount)
		}
		if refund < 0 || refund > txn.Amount {
			return NewValidationError("refund_amount", "must not exceed the transaction amount")
		}
		if txn.Status != models.PaymentCompleted {
			// Never captured: nothing to send back.
			refund = 0
		}

		from := txn.Status
		now := time.Now().UTC()
		txn.Status = models.PaymentRefunded
		txn.RefundedAt = &now
		txn.RefundAmount = &refund
		if reason != "" {
			txn.RefundReason = &reason
		}

		if err := tx.Save(&txn).Error; err != nil {
			return err
		}
		if err := recordTransition(tx, &txn, from, models.PaymentRefunded, txn.RefundReason); err != nil {
			return err
		}
		return syncSessionPayment(tx, &txn, models.PaymentRefunded)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Refund recorded for transaction %s (%.2f %s)", txn.ID, derefFloat(txn.RefundAmount), txn.Currency)
	return &txn, nil
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
