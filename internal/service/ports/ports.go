// Package ports declares the interfaces the booking service consumes.
// The SQL repositories and the RabbitMQ publisher satisfy them in
// production; tests substitute in-memory fakes.
package ports

import (
	"context"
	"time"

	"github.com/iliyamo/event-vendor-marketplace/internal/model"
	"github.com/iliyamo/event-vendor-marketplace/internal/queue"
)

// BookingStore is the persistence surface for booking records. Update
// must be version-guarded: a write that lost a race returns
// repository.ErrVersionConflict and leaves the row untouched.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	Update(ctx context.Context, b *model.Booking) error
	ListForUser(ctx context.Context, userID uint64) ([]model.Booking, error)
}

// PaymentStore appends ledger entries. Append persists the entry and
// the booking's new paid total atomically and rejects a reused
// external reference with model.ErrDuplicatePayment.
type PaymentStore interface {
	Append(ctx context.Context, b *model.Booking, e *model.PaymentEntry) error
	ListByBooking(ctx context.Context, bookingID uint64) ([]model.PaymentEntry, error)
}

// ReviewStore persists review aggregates. Create writes the aggregate
// and the booking's denormalized summary atomically; a second review
// for the same booking returns model.ErrAlreadyReviewed.
type ReviewStore interface {
	Create(ctx context.Context, b *model.Booking, rev *model.Review) error
	GetByBookingID(ctx context.Context, bookingID uint64) (*model.Review, error)
	SetVendorResponse(ctx context.Context, bookingID uint64, response string, at time.Time) error
}

// UserStore resolves user references for existence checks.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// Notifier delivers domain events to the external notification
// dispatcher. Publishing is fire-and-forget from the service's view: a
// failure is the dispatcher's problem to retry, never the caller's.
type Notifier interface {
	Publish(ctx context.Context, ev queue.NotificationEvent) error
}
