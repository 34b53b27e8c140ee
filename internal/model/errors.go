// Package model defines the booking domain: records, statuses, the
// transition table and the pure rules that gate every mutation. The
// sentinel errors below form the engine's error taxonomy. Handlers
// translate them to transport codes; nothing in this package knows
// about HTTP.
package model

import "errors"

// ErrForbidden is returned when the caller's role relative to the
// booking never permits the attempted action. It is distinct from
// ErrInvalidTransition so callers can tell "you may never do this"
// apart from "not from this state".
var ErrForbidden = errors.New("forbidden")

// ErrInvalidTransition is returned when an action is not valid from
// the booking's current status. The record is never mutated.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrInvalidAmount is returned for a non-positive payment amount.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrOverpayment is returned when a payment would push the paid total
// above the agreed price. The ledger stays untouched.
var ErrOverpayment = errors.New("overpayment rejected")

// ErrDuplicatePayment is returned when a payment carries an external
// reference the ledger has already recorded. Retried requests must be
// rejected, not double-applied.
var ErrDuplicatePayment = errors.New("duplicate payment reference")

// ErrRatingRequired is returned when a review rating is outside 1..5.
var ErrRatingRequired = errors.New("rating must be between 1 and 5")

// ErrReviewTextRequired is returned when a review is submitted with an
// empty comment.
var ErrReviewTextRequired = errors.New("review text required")

// ErrAlreadyReviewed is returned when a booking already carries a
// review. Reviews are one-way, one-time.
var ErrAlreadyReviewed = errors.New("booking already reviewed")

// ErrAlreadyResponded is returned when the vendor has already answered
// the review. One response per review.
var ErrAlreadyResponded = errors.New("review already has a response")
