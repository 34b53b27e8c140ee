package model

// Action enumerates the operations callers (and the admin refund path)
// may attempt against a booking. Permission and state checks are keyed
// off these values.
type Action string

const (
	ActionConfirm       Action = "confirm"
	ActionStart         Action = "start"
	ActionComplete      Action = "complete"
	ActionCancel        Action = "cancel"
	ActionRecordPayment Action = "record_payment"
	ActionSubmitReview  Action = "submit_review"
	ActionRespondReview Action = "respond_review"
	ActionUpdateNotes   Action = "update_notes"
	ActionRefund        Action = "refund"
)

// transitions is the status machine for the actions that move Status.
// Any (action, status) pair absent from this table is invalid. Payment,
// review and notes actions do not change Status and are gated
// separately in CheckAction.
var transitions = map[Action]map[Status]Status{
	ActionConfirm: {
		StatusPending: StatusConfirmed,
	},
	ActionStart: {
		StatusConfirmed: StatusInProgress,
	},
	ActionComplete: {
		StatusConfirmed:  StatusCompleted,
		StatusInProgress: StatusCompleted,
	},
	ActionCancel: {
		StatusPending:   StatusCancelled,
		StatusConfirmed: StatusCancelled,
	},
	ActionRefund: {
		StatusPending:    StatusRefunded,
		StatusConfirmed:  StatusRefunded,
		StatusInProgress: StatusRefunded,
	},
}

// NextStatus returns the status the action moves the booking to, and
// whether the edge exists at all.
func NextStatus(from Status, a Action) (Status, bool) {
	to, ok := transitions[a][from]
	return to, ok
}

// CanTransition reports whether the action has a valid edge from the
// given status. It says nothing about who may trigger it; see
// CheckAction for the role-aware check.
func CanTransition(from Status, a Action) bool {
	_, ok := NextStatus(from, a)
	return ok
}
