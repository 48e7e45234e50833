package services

import (
	"testing"

	"github.com/kamaucodes/skillsphere/models"
	"github.com/stretchr/testify/assert"
)

func TestCanTransitionPayment(t *testing.T) {
	legal := [][2]string{
		{models.PaymentPending, models.PaymentProcessing},
		{models.PaymentPending, models.PaymentFailed},
		{models.PaymentProcessing, models.PaymentCompleted},
		{models.PaymentProcessing, models.PaymentFailed},
		{models.PaymentCompleted, models.PaymentRefunded},
	}
	for _, pair := range legal {
		assert.True(t, CanTransitionPayment(pair[0], pair[1]), "%s -> %s should be legal", pair[0], pair[1])
	}

	illegal := [][2]string{
		{models.PaymentPending, models.PaymentCompleted},
		{models.PaymentCompleted, models.PaymentPending},
		{models.PaymentCompleted, models.PaymentFailed},
		{models.PaymentFailed, models.PaymentPending},
		{models.PaymentFailed, models.PaymentCompleted},
		{models.PaymentRefunded, models.PaymentCompleted},
		{models.PaymentRefunded, models.PaymentPending},
	}
	for _, pair := range illegal {
		assert.False(t, CanTransitionPayment(pair[0], pair[1]), "%s -> %s should be illegal", pair[0], pair[1])
	}
}

// amount 100.00 with a 10% platform fee splits into 10.00 fee and 90.00
// net, and the invariant amount == fee + net holds.
func TestSplitAmount(t *testing.T) {
	fee, net := SplitAmount(100.00, 0.10)
	assert.Equal(t, 10.00, fee)
	assert.Equal(t, 90.00, net)
	assert.Equal(t, 100.00, fee+net)

	fee, net = SplitAmount(33.35, 0.10)
	assert.Equal(t, 3.34, fee)
	assert.Equal(t, 30.01, net)
	assert.Equal(t, 33.35, RoundMoney(fee+net))

	fee, net = SplitAmount(50.00, 0)
	assert.Equal(t, 0.0, fee)
	assert.Equal(t, 50.00, net)
}

func TestSessionPaymentCache(t *testing.T) {
	assert.Equal(t, models.SessionPaymentPaid, sessionPaymentCache(models.PaymentCompleted))
	assert.Equal(t, models.SessionPaymentFailed, sessionPaymentCache(models.PaymentFailed))
	assert.Equal(t, models.SessionPaymentRefunded, sessionPaymentCache(models.PaymentRefunded))
	assert.Equal(t, models.SessionPaymentPending, sessionPaymentCache(models.PaymentPending))
	assert.Equal(t, models.SessionPaymentPending, sessionPaymentCache(models.PaymentProcessing))
}

func TestPaymentTerminality(t *testing.T) {
	for _, status := range []string{models.PaymentFailed, models.PaymentRefunded} {
		txn := models.PaymentTransaction{Status: status}
		assert.True(t, txn.IsTerminal())
		assert.Empty(t, paymentTransitions[status], "no transitions out of %s", status)
	}

	active := models.PaymentTransaction{Status: models.PaymentProcessing}
	assert.False(t, active.IsTerminal())
	assert.True(t, active.IsActive())

	failed := models.PaymentTransaction{Status: models.PaymentFailed}
	assert.False(t, failed.IsActive(), "a failed transaction may be superseded")
}
