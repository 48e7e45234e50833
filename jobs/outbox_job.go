package jobs

import (
	"github.com/kamaucodes/skillsphere/services"
)

const outboxBatchSize = 100

// DispatchOutbox delivers pending outbound events to collaborators.
func DispatchOutbox() {
	services.DispatchOutboxEvents(outboxBatchSize)
}
