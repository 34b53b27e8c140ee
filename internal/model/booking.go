package model

import "time"

// Status enumerates the booking lifecycle states. Completed, cancelled
// and refunded are terminal: no caller-triggered transition leaves them.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

// ValidStatus reports whether s is one of the known lifecycle states.
// Used to validate status filters coming from the transport layer.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// PaymentState is the derived payment position of a booking. It is
// never stored; Booking.PaymentState computes it from the paid and
// agreed amounts so the field can never drift from the ledger.
type PaymentState string

const (
	PaymentUnpaid   PaymentState = "unpaid"
	PaymentPartial  PaymentState = "partial"
	PaymentPaid     PaymentState = "paid"
	PaymentRefunded PaymentState = "refunded"
)

// Role is the caller's relation to a specific booking. It is derived
// per call by comparing the caller's id against the organizer and
// vendor references; it is never persisted and never read from a token.
type Role string

const (
	RoleOrganizer Role = "organizer"
	RoleVendor    Role = "vendor"
	RoleNone      Role = "none"
)

// Booking is the agreement linking an organizer, a vendor's service and
// an event. Monetary amounts are exact integers in minor currency
// units. PricePaidCents only grows, except on refund where the status
// change and the reduction happen atomically.
//
// Fields:
//
//	ID                 – primary key identifier.
//	EventID            – event the service is booked for (resolved externally).
//	ServiceID          – vendor's service being booked (resolved externally).
//	OrganizerID        – user who requested and pays for the service.
//	VendorID           – user who provides the service.
//	Status             – current lifecycle state.
//	PriceAgreedCents   – agreed price, fixed at creation.
//	PricePaidCents     – sum of ledger entries.
//	EventDate          – when the service is to be delivered.
//	Notes/Requirements – organizer free text; frozen once the booking
//	                     leaves pending/confirmed.
//	CompletedAt/CancelledAt – set exactly once by the matching transition.
//	CancelledBy        – user who triggered cancellation, if any.
//	Rating/Review      – denormalized review summary, set at most once.
//	Version            – optimistic guard bumped on every write.
type Booking struct {
	ID                 uint64     `json:"id"`
	EventID            uint64     `json:"event_id"`
	ServiceID          uint64     `json:"service_id"`
	OrganizerID        uint64     `json:"organizer_id"`
	VendorID           uint64     `json:"vendor_id"`
	Status             Status     `json:"status"`
	PriceAgreedCents   int64      `json:"price_agreed_cents"`
	PricePaidCents     int64      `json:"price_paid_cents"`
	EventDate          time.Time  `json:"event_date"`
	Notes              string     `json:"notes,omitempty"`
	Requirements       string     `json:"requirements,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CancelledBy        *uint64    `json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	Rating             *int       `json:"rating,omitempty"`
	Review             *string    `json:"review,omitempty"`
	Version            uint64     `json:"-"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// RoleOf derives the caller's role relative to b. When the same user
// occupies both sides (permitted edge case) the organizer role wins;
// permission checks consult the raw id comparisons instead, so vendor
// actions still work for such a user.
func RoleOf(callerID uint64, b *Booking) Role {
	switch {
	case callerID == b.OrganizerID:
		return RoleOrganizer
	case callerID == b.VendorID:
		return RoleVendor
	default:
		return RoleNone
	}
}

// PaymentState derives the payment position from the current amounts.
// Unpaid wins over paid for a zero-priced booking with nothing paid.
func (b *Booking) PaymentState() PaymentState {
	if b.Status == StatusRefunded {
		return PaymentRefunded
	}
	switch {
	case b.PricePaidCents == 0:
		return PaymentUnpaid
	case b.PricePaidCents >= b.PriceAgreedCents:
		return PaymentPaid
	default:
		return PaymentPartial
	}
}

// BalanceCents is the outstanding amount owed. Never negative: the
// ledger rejects any entry that would push paid above agreed.
func (b *Booking) BalanceCents() int64 {
	if bal := b.PriceAgreedCents - b.PricePaidCents; bal > 0 {
		return bal
	}
	return 0
}

// IsTerminal reports whether no further caller-triggered transition is
// permitted from the booking's current status.
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case StatusCompleted, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// ApplyPayment validates and applies a ledger increment. On any error
// the booking is left unchanged. The caller persists the new total and
// the corresponding ledger entry atomically.
func (b *Booking) ApplyPayment(amountCents int64) error {
	if amountCents <= 0 {
		return ErrInvalidAmount
	}
	if b.PricePaidCents+amountCents > b.PriceAgreedCents {
		return ErrOverpayment
	}
	b.PricePaidCents += amountCents
	return nil
}
