package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/event-vendor-marketplace/internal/model"
)

// PaymentRepo provides access to the append-only payment_entries
// ledger. Entries are never updated or deleted; the booking's paid
// total is the sum of its entries and both are written in one
// transaction so they cannot diverge.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// Append records a ledger entry and persists the booking's already
// incremented paid total atomically. The UNIQUE index on external_ref
// turns a retried gateway reference into model.ErrDuplicatePayment
// (MySQL error 1062) instead of a double-applied payment. The
// booking's version guard is enforced inside the same transaction.
func (r *PaymentRepo) Append(ctx context.Context, b *model.Booking, e *model.PaymentEntry) error {
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

	const ins = `INSERT INTO payment_entries (booking_id, amount_cents, method, external_ref)
		VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins, e.BookingID, e.AmountCents, e.Method, e.ExternalRef)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.ErrDuplicatePayment
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)

	const upd = `UPDATE bookings SET price_paid_cents = ?, version = version + 1,
		updated_at = UTC_TIMESTAMP()
		WHERE id = ? AND version = ?`
	ur, err := tx.ExecContext(ctx, upd, b.PricePaidCents, b.ID, b.Version)
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

	const sel = `SELECT recorded_at FROM payment_entries WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, e.ID).Scan(&e.RecordedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	b.Version++
	return nil
}

// ListByBooking returns the booking's ledger entries oldest first.
func (r *PaymentRepo) ListByBooking(ctx context.Context, bookingID uint64) ([]model.PaymentEntry, error) {
	const q = `SELECT id, booking_id, amount_cents, method, external_ref, recorded_at
		FROM payment_entries WHERE booking_id = ? ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.PaymentEntry, 0)
	for rows.Next() {
		var (
			e   model.PaymentEntry
			ref sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.BookingID, &e.AmountCents, &e.Method, &ref, &e.RecordedAt); err != nil {
			return nil, err
		}
		if ref.Valid {
			v := ref.String
			e.ExternalRef = &v
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
