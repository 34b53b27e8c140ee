// Package service orchestrates the booking lifecycle: it derives the
// caller's role, consults the permission and transition rules, applies
// the mutation through the stores and emits a notification event after
// the write has been persisted. All validation happens before any
// mutation; on failure the record is returned unchanged alongside the
// specific error kind.
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/event-vendor-marketplace/internal/model"
	"github.com/iliyamo/event-vendor-marketplace/internal/queue"
	"github.com/iliyamo/event-vendor-marketplace/internal/service/ports"
)

// BookingService is the transport-agnostic booking engine. Writers are
// serialized per booking id (see bookingLocks); reads do not block and
// may observe a slightly stale snapshot.
type BookingService struct {
	bookings ports.BookingStore
	payments ports.PaymentStore
	reviews  ports.ReviewStore
	users    ports.UserStore
	notifier ports.Notifier
	locks    *bookingLocks
}

// NewBookingService constructs a BookingService. All dependencies must
// be non-nil.
func NewBookingService(
	bookings ports.BookingStore,
	payments ports.PaymentStore,
	reviews ports.ReviewStore,
	users ports.UserStore,
	notifier ports.Notifier,
) *BookingService {
	if bookings == nil || payments == nil || reviews == nil || users == nil || notifier == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{
		bookings: bookings,
		payments: payments,
		reviews:  reviews,
		users:    users,
		notifier: notifier,
		locks:    newBookingLocks(),
	}
}

// CreateInput is the organizer's booking request. Price is fixed at
// creation and never renegotiated through the engine.
type CreateInput struct {
	EventID          uint64    `json:"event_id"`
	ServiceID        uint64    `json:"service_id"`
	VendorID         uint64    `json:"vendor_id"`
	PriceAgreedCents int64     `json:"price_agreed_cents"`
	EventDate        time.Time `json:"event_date"`
	Notes            string    `json:"notes"`
	Requirements     string    `json:"requirements"`
}

// Create opens a pending booking for the organizer. The vendor must
// exist; the agreed price must be non-negative.
func (s *BookingService) Create(ctx context.Context, organizerID uint64, in CreateInput) (*model.Booking, error) {
	if in.PriceAgreedCents < 0 {
		return nil, model.ErrInvalidAmount
	}
	if _, err := s.users.GetByID(ctx, in.VendorID); err != nil {
		return nil, fmt.Errorf("check vendor: %w", err)
	}
	b := &model.Booking{
		EventID:          in.EventID,
		ServiceID:        in.ServiceID,
		OrganizerID:      organizerID,
		VendorID:         in.VendorID,
		Status:           model.StatusPending,
		PriceAgreedCents: in.PriceAgreedCents,
		EventDate:        in.EventDate,
		Notes:            in.Notes,
		Requirements:     in.Requirements,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	log.Printf("booking: created | booking_id=%d organizer_id=%d vendor_id=%d price=%d", b.ID, organizerID, b.VendorID, b.PriceAgreedCents)
	s.publish(ctx, queue.EventBookingCreated, b.VendorID, organizerID, b, 0)
	return b, nil
}

// transition runs the common status-action path: acquire the booking
// lock, re-read, gate on permissions and the transition table, let
// apply stamp the record, persist, notify.
func (s *BookingService) transition(ctx context.Context, bookingID, callerID uint64, action model.Action, kind queue.EventKind, apply func(b *model.Booking)) (*model.Booking, error) {
	release := s.locks.Acquire(bookingID)
	defer release()

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := model.CheckAction(b, callerID, action); err != nil {
		return b, err
	}
	next, _ := model.NextStatus(b.Status, action)
	b.Status = next
	apply(b)
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("%s booking: %w", action, err)
	}
	log.Printf("booking: %s | booking_id=%d caller_id=%d status=%s", action, b.ID, callerID, b.Status)
	s.publish(ctx, kind, s.counterparty(b, callerID), callerID, b, 0)
	return b, nil
}

// Confirm moves a pending booking to confirmed. Vendor only.
func (s *BookingService) Confirm(ctx context.Context, bookingID, callerID uint64) (*model.Booking, error) {
	return s.transition(ctx, bookingID, callerID, model.ActionConfirm, queue.EventBookingConfirmed, func(b *model.Booking) {})
}

// Start moves a confirmed booking to in_progress. Vendor only.
func (s *BookingService) Start(ctx context.Context, bookingID, callerID uint64) (*model.Booking, error) {
	return s.transition(ctx, bookingID, callerID, model.ActionStart, queue.EventBookingStarted, func(b *model.Booking) {})
}

// Complete moves a confirmed or in-progress booking to completed and
// stamps CompletedAt exactly once. Vendor only; enables the review.
func (s *BookingService) Complete(ctx context.Context, bookingID, callerID uint64) (*model.Booking, error) {
	return s.transition(ctx, bookingID, callerID, model.ActionComplete, queue.EventBookingCompleted, func(b *model.Booking) {
		now := time.Now().UTC()
		b.CompletedAt = &now
	})
}

// Cancel moves a pending or confirmed booking to cancelled, recording
// who cancelled, when and the optional reason. Either party.
func (s *BookingService) Cancel(ctx context.Context, bookingID, callerID uint64, reason string) (*model.Booking, error) {
	return s.transition(ctx, bookingID, callerID, model.ActionCancel, queue.EventBookingCancelled, func(b *model.Booking) {
		now := time.Now().UTC()
		caller := callerID
		b.CancelledAt = &now
		b.CancelledBy = &caller
		if reason != "" {
			b.CancellationReason = &reason
		}
	})
}

// Refund is the privileged administrative transition: it sets the
// terminal refunded status and reduces the paid amount in the same
// write. refundCents must be positive and at most the amount paid; the
// remainder stays on the record as the post-refund position.
func (s *BookingService) Refund(ctx context.Context, bookingID uint64, refundCents int64) (*model.Booking, error) {
	release := s.locks.Acquire(bookingID)
	defer release()

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(b.Status, model.ActionRefund) {
		return b, model.ErrInvalidTransition
	}
	if refundCents <= 0 || refundCents > b.PricePaidCents {
		return b, model.ErrInvalidAmount
	}
	b.Status = model.StatusRefunded
	b.PricePaidCents -= refundCents
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("refund booking: %w", err)
	}
	log.Printf("booking: refunded | booking_id=%d amount=%d remaining_paid=%d", b.ID, refundCents, b.PricePaidCents)
	s.publish(ctx, queue.EventBookingRefunded, b.OrganizerID, 0, b, refundCents)
	return b, nil
}

// RecordPayment appends a ledger entry for the organizer. The amount
// must be positive and must not push the paid total above the agreed
// price; a reused external reference is rejected as a duplicate. The
// booking status is unchanged.
func (s *BookingService) RecordPayment(ctx context.Context, bookingID, callerID uint64, amountCents int64, method, externalRef string) (*model.Booking, error) {
	release := s.locks.Acquire(bookingID)
	defer release()

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := model.CheckAction(b, callerID, model.ActionRecordPayment); err != nil {
		return b, err
	}
	prevPaid := b.PricePaidCents
	if err := b.ApplyPayment(amountCents); err != nil {
		return b, err
	}
	entry := &model.PaymentEntry{
		BookingID:   b.ID,
		AmountCents: amountCents,
		Method:      method,
	}
	if externalRef != "" {
		entry.ExternalRef = &externalRef
	}
	if err := s.payments.Append(ctx, b, entry); err != nil {
		b.PricePaidCents = prevPaid
		if err == model.ErrDuplicatePayment {
			return b, err
		}
		return nil, fmt.Errorf("record payment: %w", err)
	}
	log.Printf("booking: payment recorded | booking_id=%d amount=%d paid=%d balance=%d", b.ID, amountCents, b.PricePaidCents, b.BalanceCents())
	s.publish(ctx, queue.EventPaymentRecorded, b.VendorID, callerID, b, amountCents)
	return b, nil
}

// ReviewInput is the organizer's review submission. Unset sub-ratings
// default to the overall rating.
type ReviewInput struct {
	Rating     int              `json:"rating"`
	Comment    string           `json:"comment"`
	SubRatings model.SubRatings `json:"sub_ratings"`
}

// SubmitReview records the one-time review for a completed booking and
// stamps the booking's denormalized rating/review summary.
func (s *BookingService) SubmitReview(ctx context.Context, bookingID, callerID uint64, in ReviewInput) (*model.Review, error) {
	release := s.locks.Acquire(bookingID)
	defer release()

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := model.CheckAction(b, callerID, model.ActionSubmitReview); err != nil {
		return nil, err
	}
	rev, err := model.NewReview(b, in.Rating, in.Comment, in.SubRatings)
	if err != nil {
		return nil, err
	}
	if err := s.reviews.Create(ctx, b, rev); err != nil {
		if err == model.ErrAlreadyReviewed {
			return nil, err
		}
		return nil, fmt.Errorf("create review: %w", err)
	}
	rating := rev.Rating
	comment := rev.Comment
	b.Rating = &rating
	b.Review = &comment
	log.Printf("booking: review submitted | booking_id=%d rating=%d", b.ID, rev.Rating)
	s.publish(ctx, queue.EventReviewSubmitted, b.VendorID, callerID, b, 0)
	return rev, nil
}

// RespondToReview attaches the vendor's one-time response to the
// booking's review.
func (s *BookingService) RespondToReview(ctx context.Context, bookingID, callerID uint64, response string) (*model.Review, error) {
	release := s.locks.Acquire(bookingID)
	defer release()

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := model.CheckAction(b, callerID, model.ActionRespondReview); err != nil {
		return nil, err
	}
	if response == "" {
		return nil, model.ErrReviewTextRequired
	}
	if err := s.reviews.SetVendorResponse(ctx, bookingID, response, time.Now().UTC()); err != nil {
		if err == model.ErrAlreadyResponded {
			return nil, err
		}
		return nil, fmt.Errorf("respond to review: %w", err)
	}
	return s.reviews.GetByBookingID(ctx, bookingID)
}

// Review returns the booking's review aggregate. Visibility is the
// caller's concern; the transport layer gates it to participants.
func (s *BookingService) Review(ctx context.Context, bookingID uint64) (*model.Review, error) {
	return s.reviews.GetByBookingID(ctx, bookingID)
}

// UpdateNotes lets the organizer edit the free-text fields while the
// booking is still pending or confirmed; afterwards they are frozen.
func (s *BookingService) UpdateNotes(ctx context.Context, bookingID, callerID uint64, notes, requirements string) (*model.Booking, error) {
	release := s.locks.Acquire(bookingID)
	defer release()

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := model.CheckAction(b, callerID, model.ActionUpdateNotes); err != nil {
		return b, err
	}
	b.Notes = notes
	b.Requirements = requirements
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("update notes: %w", err)
	}
	return b, nil
}

// GetBooking returns the booking for a participant; unrelated callers
// get ErrForbidden.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, callerID uint64) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if model.RoleOf(callerID, b) == model.RoleNone {
		return nil, model.ErrForbidden
	}
	return b, nil
}

// GetBalance returns the outstanding amount owed on the booking.
func (s *BookingService) GetBalance(ctx context.Context, bookingID uint64) (int64, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return 0, err
	}
	return b.BalanceCents(), nil
}

// ListPayments returns the booking's ledger entries to a participant.
func (s *BookingService) ListPayments(ctx context.Context, bookingID, callerID uint64) ([]model.PaymentEntry, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if model.RoleOf(callerID, b) == model.RoleNone {
		return nil, model.ErrForbidden
	}
	return s.payments.ListByBooking(ctx, bookingID)
}

// ListForCaller derives the caller's role-partitioned catalog view,
// optionally narrowed to one status. The projection is rebuilt from
// the records on every call; nothing derived is stored.
func (s *BookingService) ListForCaller(ctx context.Context, callerID uint64, statusFilter model.Status) (model.Catalog, error) {
	bookings, err := s.bookings.ListForUser(ctx, callerID)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("list bookings: %w", err)
	}
	return model.BuildCatalog(bookings, callerID, statusFilter), nil
}

// counterparty picks the notification recipient: the participant on
// the other side of the caller.
func (s *BookingService) counterparty(b *model.Booking, callerID uint64) uint64 {
	if callerID == b.OrganizerID {
		return b.VendorID
	}
	return b.OrganizerID
}

// publish emits the event in the background. Dispatch is
// fire-and-forget: the transition already committed, so a publish
// failure is logged and retried by the dispatcher's own machinery,
// never surfaced to the caller.
func (s *BookingService) publish(ctx context.Context, kind queue.EventKind, recipientID, actorID uint64, b *model.Booking, amountCents int64) {
	ev := queue.NotificationEvent{
		EventID:     uuid.New().String(),
		Kind:        kind,
		BookingID:   b.ID,
		RecipientID: recipientID,
		ActorID:     actorID,
		ActorRole:   string(model.RoleOf(actorID, b)),
		Status:      string(b.Status),
		AmountCents: amountCents,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		if err := s.notifier.Publish(context.WithoutCancel(ctx), ev); err != nil {
			log.Printf("booking: publish %s failed: %v", kind, err)
		}
	}()
}
