package jobs

import (
	"github.com/kamaucodes/skillsphere/services"
)

const reconcileBatchSize = 50

// ReconcileSagas retries payment-ledger steps that diverged from their
// session transitions.
func ReconcileSagas() {
	services.RunReconciliation(reconcileBatchSize)
}
