// Package queue defines the event payloads published to the message
// broker and the background consumer that stands in for the external
// notification dispatcher.
package queue

// EventKind labels a booking domain event for downstream dispatchers.
type EventKind string

const (
	EventBookingCreated   EventKind = "booking.created"
	EventBookingConfirmed EventKind = "booking.confirmed"
	EventBookingStarted   EventKind = "booking.started"
	EventBookingCompleted EventKind = "booking.completed"
	EventBookingCancelled EventKind = "booking.cancelled"
	EventBookingRefunded  EventKind = "booking.refunded"
	EventPaymentRecorded  EventKind = "booking.payment_recorded"
	EventReviewSubmitted  EventKind = "booking.review_submitted"
)

// NotificationEvent is published after every successful transition. It
// carries enough information for the notification dispatcher to reach
// the right recipient without querying the primary database. EventID
// is a UUID so consumers can deduplicate redeliveries.
type NotificationEvent struct {
	EventID     string    `json:"event_id"`
	Kind        EventKind `json:"kind"`
	BookingID   uint64    `json:"booking_id"`
	RecipientID uint64    `json:"recipient_id"`
	ActorID     uint64    `json:"actor_id"`
	ActorRole   string    `json:"actor_role"`
	Status      string    `json:"status"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	OccurredAt  string    `json:"occurred_at"`
}
