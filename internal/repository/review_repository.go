package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/event-vendor-marketplace/internal/model"
)

// ReviewRepo provides access to the reviews table. A booking can carry
// at most one review (UNIQUE booking_id); the denormalized summary on
// the booking row is written in the same transaction as the aggregate.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo returns a new ReviewRepo bound to the given database.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Create inserts the review aggregate and stamps the booking's
// rating/review summary atomically. A duplicate booking_id surfaces as
// model.ErrAlreadyReviewed. The booking version guard runs inside the
// same transaction, so a concurrent booking write aborts the review.
func (r *ReviewRepo) Create(ctx context.Context, b *model.Booking, rev *model.Review) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const ins = `INSERT INTO reviews
		(booking_id, organizer_id, vendor_id, rating, comment,
		 service_quality, professionalism, punctuality, communication)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins,
		rev.BookingID, rev.OrganizerID, rev.VendorID, rev.Rating, rev.Comment,
		rev.SubRatings.ServiceQuality, rev.SubRatings.Professionalism,
		rev.SubRatings.Punctuality, rev.SubRatings.Communication,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.ErrAlreadyReviewed
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rev.ID = uint64(id)

	const upd = `UPDATE bookings SET rating = ?, review = ?, version = version + 1,
		updated_at = UTC_TIMESTAMP()
		WHERE id = ? AND version = ?`
	ur, err := tx.ExecContext(ctx, upd, rev.Rating, rev.Comment, b.ID, b.Version)
	if err != nil {
		return err
	}
	n, err := ur.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVersionConflict
	}

	const sel = `SELECT created_at FROM reviews WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, rev.ID).Scan(&rev.CreatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	b.Version++
	return nil
}

// GetByBookingID returns the booking's review or ErrReviewNotFound.
func (r *ReviewRepo) GetByBookingID(ctx context.Context, bookingID uint64) (*model.Review, error) {
	const q = `SELECT id, booking_id, organizer_id, vendor_id, rating, comment,
		service_quality, professionalism, punctuality, communication,
		vendor_response, responded_at, created_at
		FROM reviews WHERE booking_id = ?`
	var (
		rev         model.Review
		response    sql.NullString
		respondedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, bookingID).Scan(
		&rev.ID, &rev.BookingID, &rev.OrganizerID, &rev.VendorID, &rev.Rating, &rev.Comment,
		&rev.SubRatings.ServiceQuality, &rev.SubRatings.Professionalism,
		&rev.SubRatings.Punctuality, &rev.SubRatings.Communication,
		&response, &respondedAt, &rev.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	if response.Valid {
		v := response.String
		rev.VendorResponse = &v
	}
	if respondedAt.Valid {
		v := respondedAt.Time
		rev.RespondedAt = &v
	}
	return &rev, nil
}

// SetVendorResponse attaches the vendor's one-time response. The WHERE
// clause only matches an unanswered review, so a second attempt falls
// through to the existence check and comes back as ErrAlreadyResponded.
func (r *ReviewRepo) SetVendorResponse(ctx context.Context, bookingID uint64, response string, at time.Time) error {
	const q = `UPDATE reviews SET vendor_response = ?, responded_at = ?
		WHERE booking_id = ? AND vendor_response IS NULL`
	res, err := r.db.ExecContext(ctx, q, response, at.UTC(), bookingID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByBookingID(ctx, bookingID); err != nil {
			return err
		}
		return model.ErrAlreadyResponded
	}
	return nil
}
