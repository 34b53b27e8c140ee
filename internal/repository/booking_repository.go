package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/event-vendor-marketplace/internal/model"
)

// BookingRepo provides CRUD operations for the bookings table. All
// timestamps are stored in UTC. Every mutation is version-guarded:
// UPDATE statements match on the version read earlier and bump it, so
// a concurrent writer that slipped in between read and write surfaces
// as ErrVersionConflict instead of silently clobbering state.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, event_id, service_id, organizer_id, vendor_id, status,
	price_agreed_cents, price_paid_cents, event_date, notes, requirements,
	cancellation_reason, cancelled_by, cancelled_at, completed_at,
	rating, review, version, created_at, updated_at`

// scanBooking reads one bookings row into a model.Booking, converting
// the nullable columns to pointer fields.
func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var (
		b          model.Booking
		reason     sql.NullString
		cancelBy   sql.NullInt64
		cancelAt   sql.NullTime
		completeAt sql.NullTime
		rating     sql.NullInt64
		review     sql.NullString
	)
	err := row.Scan(
		&b.ID, &b.EventID, &b.ServiceID, &b.OrganizerID, &b.VendorID, &b.Status,
		&b.PriceAgreedCents, &b.PricePaidCents, &b.EventDate, &b.Notes, &b.Requirements,
		&reason, &cancelBy, &cancelAt, &completeAt,
		&rating, &review, &b.Version, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if reason.Valid {
		v := reason.String
		b.CancellationReason = &v
	}
	if cancelBy.Valid {
		v := uint64(cancelBy.Int64)
		b.CancelledBy = &v
	}
	if cancelAt.Valid {
		v := cancelAt.Time
		b.CancelledAt = &v
	}
	if completeAt.Valid {
		v := completeAt.Time
		b.CompletedAt = &v
	}
	if rating.Valid {
		v := int(rating.Int64)
		b.Rating = &v
	}
	if review.Valid {
		v := review.String
		b.Review = &v
	}
	return &b, nil
}

// Create inserts a new booking in its initial state and queries the
// row back so generated id, version and timestamps are populated on
// the provided record.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings
		(event_id, service_id, organizer_id, vendor_id, status,
		 price_agreed_cents, price_paid_cents, event_date, notes, requirements)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		b.EventID, b.ServiceID, b.OrganizerID, b.VendorID, b.Status,
		b.PriceAgreedCents, b.PricePaidCents, b.EventDate.UTC(), b.Notes, b.Requirements,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*b = *created
	return nil
}

// GetByID returns the booking or ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// Update writes the booking's mutable columns in a single
// version-guarded statement. On success the in-memory version is
// bumped to match the row. A zero-row match means another writer won
// the race; the caller gets ErrVersionConflict and must re-read.
func (r *BookingRepo) Update(ctx context.Context, b *model.Booking) error {
	const q = `UPDATE bookings SET
		status = ?, price_paid_cents = ?, notes = ?, requirements = ?,
		cancellation_reason = ?, cancelled_by = ?, cancelled_at = ?,
		completed_at = ?, rating = ?, review = ?,
		version = version + 1, updated_at = UTC_TIMESTAMP()
		WHERE id = ? AND version = ?`
	res, err := r.db.ExecContext(ctx, q,
		b.Status, b.PricePaidCents, b.Notes, b.Requirements,
		b.CancellationReason, b.CancelledBy, b.CancelledAt,
		b.CompletedAt, b.Rating, b.Review,
		b.ID, b.Version,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVersionConflict
	}
	b.Version++
	return nil
}

// ListForUser returns every booking where the user is the organizer or
// the vendor, newest first. Partitioning into role-scoped views is a
// pure projection done in the model layer.
func (r *BookingRepo) ListForUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings
		WHERE organizer_id = ? OR vendor_id = ?
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
