package model

import "time"

// PaymentEntry is one append-only ledger record. The sum of a
// booking's entries equals its PricePaidCents; the ledger never admits
// an entry that would push the total above the agreed price.
//
// ExternalRef carries the gateway transaction or order identifier when
// the organizer paid through an external channel. When set it must be
// unique across the ledger so a retried request is detected as a
// duplicate instead of double-applied.
type PaymentEntry struct {
	ID          uint64    `json:"id"`
	BookingID   uint64    `json:"booking_id"`
	AmountCents int64     `json:"amount_cents"`
	Method      string    `json:"method"`
	ExternalRef *string   `json:"external_ref,omitempty"`
	RecordedAt  time.Time `json:"recorded_at"`
}
