package model

// CheckAction decides whether the caller may perform the action on the
// booking right now. It checks role first, then state, so the two
// failure kinds stay distinct:
//
//	ErrForbidden         – the caller's role never permits this action,
//	                       or the caller is unrelated to the booking.
//	ErrInvalidTransition – the role is fine but the action is not valid
//	                       from the current status.
//
// Review-specific once-only violations surface as ErrAlreadyReviewed /
// ErrAlreadyResponded. Nothing here mutates the booking.
func CheckAction(b *Booking, callerID uint64, a Action) error {
	isOrganizer := callerID == b.OrganizerID
	isVendor := callerID == b.VendorID
	if !isOrganizer && !isVendor {
		return ErrForbidden
	}

	switch a {
	case ActionConfirm, ActionStart, ActionComplete:
		if !isVendor {
			return ErrForbidden
		}
	case ActionRecordPayment, ActionSubmitReview, ActionUpdateNotes:
		if !isOrganizer {
			return ErrForbidden
		}
	case ActionRespondReview:
		if !isVendor {
			return ErrForbidden
		}
	case ActionCancel:
		// either party
	default:
		// ActionRefund is a privileged administrative operation; no
		// booking-relative role may invoke it.
		return ErrForbidden
	}

	switch a {
	case ActionConfirm, ActionStart, ActionComplete, ActionCancel:
		if !CanTransition(b.Status, a) {
			return ErrInvalidTransition
		}
	case ActionRecordPayment:
		switch b.Status {
		case StatusPending, StatusConfirmed, StatusInProgress:
		default:
			return ErrInvalidTransition
		}
	case ActionSubmitReview:
		if b.Status != StatusCompleted {
			return ErrInvalidTransition
		}
		if b.Rating != nil {
			return ErrAlreadyReviewed
		}
	case ActionRespondReview:
		if b.Status != StatusCompleted || b.Rating == nil {
			return ErrInvalidTransition
		}
	case ActionUpdateNotes:
		if b.Status != StatusPending && b.Status != StatusConfirmed {
			return ErrInvalidTransition
		}
	}
	return nil
}

// callerActions is the fixed evaluation order for AllowedActions.
var callerActions = []Action{
	ActionConfirm,
	ActionStart,
	ActionComplete,
	ActionCancel,
	ActionRecordPayment,
	ActionSubmitReview,
	ActionRespondReview,
	ActionUpdateNotes,
}

// AllowedActions lists the actions the caller may currently invoke on
// the booking, for rendering available controls. A fully paid booking
// drops record_payment even though the state would otherwise admit it.
func AllowedActions(b *Booking, callerID uint64) []Action {
	out := make([]Action, 0, 4)
	for _, a := range callerActions {
		if CheckAction(b, callerID, a) != nil {
			continue
		}
		if a == ActionRecordPayment && b.PaymentState() == PaymentPaid {
			continue
		}
		out = append(out, a)
	}
	return out
}
