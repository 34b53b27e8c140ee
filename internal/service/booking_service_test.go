package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-vendor-marketplace/internal/model"
	"github.com/iliyamo/event-vendor-marketplace/internal/queue"
	"github.com/iliyamo/event-vendor-marketplace/internal/repository"
)

const (
	organizerID = uint64(10)
	vendorID    = uint64(20)
	strangerID  = uint64(99)
)

// memBookings is an in-memory BookingStore with the same version-guard
// semantics as the SQL repository.
type memBookings struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]model.Booking
}

func newMemBookings() *memBookings {
	return &memBookings{nextID: 1, rows: make(map[uint64]model.Booking)}
}

func (m *memBookings) Create(_ context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = m.nextID
	m.nextID++
	b.Version = 1
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	m.rows[b.ID] = *b
	return nil
}

func (m *memBookings) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := row
	return &cp, nil
}

func (m *memBookings) Update(_ context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[b.ID]
	if !ok || row.Version != b.Version {
		return repository.ErrVersionConflict
	}
	b.Version++
	b.UpdatedAt = time.Now().UTC()
	m.rows[b.ID] = *b
	return nil
}

func (m *memBookings) ListForUser(_ context.Context, userID uint64) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Booking
	for _, row := range m.rows {
		if row.OrganizerID == userID || row.VendorID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

// memPayments mirrors the SQL repository's atomic append: entry plus
// booking total in one step, duplicate external refs rejected.
type memPayments struct {
	mu       sync.Mutex
	bookings *memBookings
	nextID   uint64
	entries  []model.PaymentEntry
	refs     map[string]bool
}

func newMemPayments(b *memBookings) *memPayments {
	return &memPayments{bookings: b, nextID: 1, refs: make(map[string]bool)}
}

func (m *memPayments) Append(_ context.Context, b *model.Booking, e *model.PaymentEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ExternalRef != nil {
		if m.refs[*e.ExternalRef] {
			return model.ErrDuplicatePayment
		}
		m.refs[*e.ExternalRef] = true
	}
	m.bookings.mu.Lock()
	row, ok := m.bookings.rows[b.ID]
	if !ok || row.Version != b.Version {
		m.bookings.mu.Unlock()
		return repository.ErrVersionConflict
	}
	row.PricePaidCents = b.PricePaidCents
	row.Version++
	m.bookings.rows[b.ID] = row
	m.bookings.mu.Unlock()
	b.Version++

	e.ID = m.nextID
	m.nextID++
	e.RecordedAt = time.Now().UTC()
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memPayments) ListByBooking(_ context.Context, bookingID uint64) ([]model.PaymentEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.PaymentEntry
	for _, e := range m.entries {
		if e.BookingID == bookingID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memReviews struct {
	mu       sync.Mutex
	bookings *memBookings
	rows     map[uint64]model.Review
}

func newMemReviews(b *memBookings) *memReviews {
	return &memReviews{bookings: b, rows: make(map[uint64]model.Review)}
}

func (m *memReviews) Create(_ context.Context, b *model.Booking, rev *model.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.rows[rev.BookingID]; exists {
		return model.ErrAlreadyReviewed
	}
	rev.ID = uint64(len(m.rows) + 1)
	rev.CreatedAt = time.Now().UTC()
	m.rows[rev.BookingID] = *rev

	m.bookings.mu.Lock()
	row := m.bookings.rows[b.ID]
	rating := rev.Rating
	comment := rev.Comment
	row.Rating = &rating
	row.Review = &comment
	row.Version++
	m.bookings.rows[b.ID] = row
	m.bookings.mu.Unlock()
	b.Version++
	return nil
}

func (m *memReviews) GetByBookingID(_ context.Context, bookingID uint64) (*model.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[bookingID]
	if !ok {
		return nil, repository.ErrReviewNotFound
	}
	cp := row
	return &cp, nil
}

func (m *memReviews) SetVendorResponse(_ context.Context, bookingID uint64, response string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[bookingID]
	if !ok {
		return repository.ErrReviewNotFound
	}
	if row.VendorResponse != nil {
		return model.ErrAlreadyResponded
	}
	row.VendorResponse = &response
	row.RespondedAt = &at
	m.rows[bookingID] = row
	return nil
}

type memUsers struct {
	ids map[uint64]bool
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	if !m.ids[id] {
		return nil, repository.ErrUserNotFound
	}
	return &model.User{ID: id}, nil
}

// memNotifier records published events; fail makes every publish error
// so tests can assert failures never reach the caller.
type memNotifier struct {
	mu     sync.Mutex
	fail   bool
	events []queue.NotificationEvent
}

func (m *memNotifier) Publish(_ context.Context, ev queue.NotificationEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	if m.fail {
		return errors.New("broker unavailable")
	}
	return nil
}

func (m *memNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func (m *memNotifier) last() queue.NotificationEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[len(m.events)-1]
}

type fixture struct {
	svc      *BookingService
	bookings *memBookings
	payments *memPayments
	reviews  *memReviews
	notifier *memNotifier
}

func newFixture() *fixture {
	bookings := newMemBookings()
	payments := newMemPayments(bookings)
	reviews := newMemReviews(bookings)
	users := &memUsers{ids: map[uint64]bool{organizerID: true, vendorID: true}}
	notifier := &memNotifier{}
	return &fixture{
		svc:      NewBookingService(bookings, payments, reviews, users, notifier),
		bookings: bookings,
		payments: payments,
		reviews:  reviews,
		notifier: notifier,
	}
}

func (f *fixture) create(t *testing.T, priceCents int64) *model.Booking {
	t.Helper()
	b, err := f.svc.Create(context.Background(), organizerID, CreateInput{
		EventID:          1,
		ServiceID:        2,
		VendorID:         vendorID,
		PriceAgreedCents: priceCents,
		EventDate:        time.Now().UTC().AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	return b
}

func TestCreateBooking(t *testing.T) {
	f := newFixture()
	b := f.create(t, 10000)

	assert.Equal(t, model.StatusPending, b.Status)
	assert.EqualValues(t, 10000, b.PriceAgreedCents)
	assert.Zero(t, b.PricePaidCents)
	require.Eventually(t, func() bool { return f.notifier.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, queue.EventBookingCreated, f.notifier.last().Kind)
	assert.Equal(t, vendorID, f.notifier.last().RecipientID)
}

func TestCreateBookingUnknownVendor(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), organizerID, CreateInput{VendorID: 12345, PriceAgreedCents: 100})
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestCreateBookingNegativePrice(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), organizerID, CreateInput{VendorID: vendorID, PriceAgreedCents: -1})
	assert.ErrorIs(t, err, model.ErrInvalidAmount)
}

func TestFullLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.create(t, 10000)

	b, err := f.svc.Confirm(ctx, b.ID, vendorID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, b.Status)

	b, err = f.svc.RecordPayment(ctx, b.ID, organizerID, 4000, "card", "txn-1")
	require.NoError(t, err)
	assert.EqualValues(t, 4000, b.PricePaidCents)
	assert.Equal(t, model.PaymentPartial, b.PaymentState())
	assert.EqualValues(t, 6000, b.BalanceCents())

	b, err = f.svc.RecordPayment(ctx, b.ID, organizerID, 6000, "card", "txn-2")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, b.PaymentState())
	assert.Zero(t, b.BalanceCents())

	b, err = f.svc.Start(ctx, b.ID, vendorID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, b.Status)

	b, err = f.svc.Complete(ctx, b.ID, vendorID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, b.Status)
	require.NotNil(t, b.CompletedAt)

	rev, err := f.svc.SubmitReview(ctx, b.ID, organizerID, ReviewInput{Rating: 5, Comment: "flawless catering"})
	require.NoError(t, err)
	assert.Equal(t, 5, rev.SubRatings.Punctuality)

	entries, err := f.svc.ListPayments(ctx, b.ID, organizerID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestConfirmAfterCancel(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.create(t, 5000)

	_, err := f.svc.Cancel(ctx, b.ID, organizerID, "venue changed")
	require.NoError(t, err)

	got, err := f.svc.Confirm(ctx, b.ID, vendorID)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	assert.Equal(t, model.StatusCancelled, got.Status)
	require.NotNil(t, got.CancellationReason)
	assert.Equal(t, "venue changed", *got.CancellationReason)
	require.NotNil(t, got.CancelledBy)
	assert.Equal(t, organizerID, *got.CancelledBy)
}

func TestRecordPaymentOverpaymentLeavesStateUntouched(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.create(t, 10000)
	_, err := f.svc.RecordPayment(ctx, b.ID, organizerID, 4000, "card", "")
	require.NoError(t, err)

	got, err := f.svc.RecordPayment(ctx, b.ID, organizerID, 7000, "card", "")
	assert.ErrorIs(t, err, model.ErrOverpayment)
	assert.EqualValues(t, 4000, got.PricePaidCents)

	stored, err := f.svc.GetBooking(ctx, b.ID, organizerID)
	require.NoError(t, err)
	assert.EqualValues(t, 4000, stored.PricePaidCents)

	entries, err := f.svc.ListPayments(ctx, b.ID, organizerID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRecordPaymentDuplicateExternalRef(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.create(t, 10000)
	_, err := f.svc.RecordPayment(ctx, b.ID, organizerID, 3000, "bank_transfer", "txn-dup")
	require.NoError(t, err)

	got, err := f.svc.RecordPayment(ctx, b.ID, organizerID, 3000, "bank_transfer", "txn-dup")
	assert.ErrorIs(t, err, model.ErrDuplicatePayment)
	assert.EqualValues(t, 3000, got.PricePaidCents)
}

func TestRecordPaymentByVendorForbidden(t *testing.T) {
	f := newFixture()
	b := f.create(t, 10000)
	_, err := f.svc.RecordPayment(context.Background(), b.ID, vendorID, 1000, "card", "")
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestStrangerCannotRead(t *testing.T) {
	f := newFixture()
	b := f.create(t, 10000)

	_, err := f.svc.GetBooking(context.Background(), b.ID, strangerID)
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = f.svc.ListPayments(context.Background(), b.ID, strangerID)
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestSubmitReviewTwice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.create(t, 2000)
	_, err := f.svc.Confirm(ctx, b.ID, vendorID)
	require.NoError(t, err)
	_, err = f.svc.Complete(ctx, b.ID, vendorID)
	require.NoError(t, err)

	_, err = f.svc.SubmitReview(ctx, b.ID, organizerID, ReviewInput{Rating: 4, Comment: "good"})
	require.NoError(t, err)

	_, err = f.svc.SubmitReview(ctx, b.ID, organizerID, ReviewInput{Rating: 5, Comment: "changed my mind"})
	assert.ErrorIs(t, err, model.ErrAlreadyReviewed)

	stored, err := f.svc.GetBooking(ctx, b.ID, organizerID)
	require.NoError(t, err)
	require.NotNil(t, stored.Rating)
	assert.Equal(t, 4, *stored.Rating)
}

func TestSubmitReviewBeforeCompletion(t *testing.T) {
	f := newFixture()
	b := f.create(t, 2000)
	_, err := f.svc.SubmitReview(context.Background(), b.ID, organizerID, ReviewInput{Rating: 5, Comment: "early"})
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestRespondToReviewOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.create(t, 2000)
	_, err := f.svc.Confirm(ctx, b.ID, vendorID)
	require.NoError(t, err)
	_, err = f.svc.Complete(ctx, b.ID, vendorID)
	require.NoError(t, err)
	_, err = f.svc.SubmitReview(ctx, b.ID, organizerID, ReviewInput{Rating: 3, Comment: "late setup"})
	require.NoError(t, err)

	rev, err := f.svc.RespondToReview(ctx, b.ID, vendorID, "apologies, traffic delay")
	require.NoError(t, err)
	require.NotNil(t, rev.VendorResponse)

	_, err = f.svc.RespondToReview(ctx, b.ID, vendorID, "second response")
	assert.ErrorIs(t, err, model.ErrAlreadyResponded)
}

func TestUpdateNotesFrozenAfterCompletion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.create(t, 2000)

	b, err := f.svc.UpdateNotes(ctx, b.ID, organizerID, "gate B entrance", "need two outlets")
	require.NoError(t, err)
	assert.Equal(t, "gate B entrance", b.Notes)

	_, err = f.svc.Confirm(ctx, b.ID, vendorID)
	require.NoError(t, err)
	_, err = f.svc.Complete(ctx, b.ID, vendorID)
	require.NoError(t, err)

	_, err = f.svc.UpdateNotes(ctx, b.ID, organizerID, "too late", "")
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestRefund(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.create(t, 10000)
	_, err := f.svc.Confirm(ctx, b.ID, vendorID)
	require.NoError(t, err)
	_, err = f.svc.RecordPayment(ctx, b.ID, organizerID, 8000, "card", "")
	require.NoError(t, err)

	_, err = f.svc.Refund(ctx, b.ID, 9000)
	assert.ErrorIs(t, err, model.ErrInvalidAmount)

	b, err = f.svc.Refund(ctx, b.ID, 8000)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRefunded, b.Status)
	assert.Zero(t, b.PricePaidCents)
	assert.Equal(t, model.PaymentRefunded, b.PaymentState())

	_, err = f.svc.Refund(ctx, b.ID, 1)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestConcurrentConfirmAndCancelSingleWinner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.create(t, 5000)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = f.svc.Confirm(ctx, b.ID, vendorID)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = f.svc.Cancel(ctx, b.ID, organizerID, "")
	}()
	wg.Wait()

	// cancel is valid from both pending and confirmed, so only the
	// confirm-after-cancel ordering produces a loser.
	final, err := f.svc.GetBooking(ctx, b.ID, organizerID)
	require.NoError(t, err)
	if errs[0] == nil && errs[1] == nil {
		assert.Equal(t, model.StatusCancelled, final.Status)
	} else {
		assert.ErrorIs(t, errs[0], model.ErrInvalidTransition)
		require.NoError(t, errs[1])
		assert.Equal(t, model.StatusCancelled, final.Status)
	}
}

func TestNotifierFailureNotSurfaced(t *testing.T) {
	f := newFixture()
	f.notifier.fail = true
	ctx := context.Background()

	b := f.create(t, 5000)
	_, err := f.svc.Confirm(ctx, b.ID, vendorID)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return f.notifier.count() == 2 }, time.Second, 5*time.Millisecond)
}

func TestListForCaller(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b1 := f.create(t, 1000)
	b2 := f.create(t, 2000)
	_, err := f.svc.Confirm(ctx, b2.ID, vendorID)
	require.NoError(t, err)

	cat, err := f.svc.ListForCaller(ctx, organizerID, "")
	require.NoError(t, err)
	assert.Len(t, cat.AsOrganizer, 2)
	assert.Empty(t, cat.AsVendor)
	assert.Equal(t, 2, cat.Counts.AsOrganizer)

	cat, err = f.svc.ListForCaller(ctx, vendorID, model.StatusConfirmed)
	require.NoError(t, err)
	require.Len(t, cat.AsVendor, 1)
	assert.Equal(t, b2.ID, cat.AsVendor[0].Booking.ID)
	// counts stay pre-filter
	assert.Equal(t, 2, cat.Counts.AsVendor)
	_ = b1
}
