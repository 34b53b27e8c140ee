package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentState(t *testing.T) {
	cases := []struct {
		name   string
		status Status
		agreed int64
		paid   int64
		want   PaymentState
	}{
		{"nothing paid", StatusPending, 10000, 0, PaymentUnpaid},
		{"partially paid", StatusConfirmed, 10000, 4000, PaymentPartial},
		{"fully paid", StatusConfirmed, 10000, 10000, PaymentPaid},
		{"zero price unpaid wins", StatusPending, 0, 0, PaymentUnpaid},
		{"refunded overrides amounts", StatusRefunded, 10000, 4000, PaymentRefunded},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := &Booking{Status: tc.status, PriceAgreedCents: tc.agreed, PricePaidCents: tc.paid}
			assert.Equal(t, tc.want, b.PaymentState())
		})
	}
}

func TestBalanceCents(t *testing.T) {
	b := &Booking{PriceAgreedCents: 10000, PricePaidCents: 4000}
	assert.Equal(t, int64(6000), b.BalanceCents())

	b.PricePaidCents = 10000
	assert.Equal(t, int64(0), b.BalanceCents())

	// refund can leave paid below agreed but the balance is still owed-side only
	b = &Booking{Status: StatusRefunded, PriceAgreedCents: 5000, PricePaidCents: 0}
	assert.Equal(t, int64(5000), b.BalanceCents())
}

func TestApplyPayment(t *testing.T) {
	b := &Booking{Status: StatusConfirmed, PriceAgreedCents: 10000, PricePaidCents: 4000}

	err := b.ApplyPayment(0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Equal(t, int64(4000), b.PricePaidCents)

	err = b.ApplyPayment(-500)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	err = b.ApplyPayment(7000)
	assert.ErrorIs(t, err, ErrOverpayment)
	assert.Equal(t, int64(4000), b.PricePaidCents, "failed payment must not mutate the ledger total")

	require.NoError(t, b.ApplyPayment(6000))
	assert.Equal(t, int64(10000), b.PricePaidCents)
	assert.Equal(t, PaymentPaid, b.PaymentState())
}

func TestRoleOf(t *testing.T) {
	b := &Booking{OrganizerID: 1, VendorID: 2}
	assert.Equal(t, RoleOrganizer, RoleOf(1, b))
	assert.Equal(t, RoleVendor, RoleOf(2, b))
	assert.Equal(t, RoleNone, RoleOf(3, b))

	// same user on both sides resolves to organizer for display purposes
	both := &Booking{OrganizerID: 7, VendorID: 7}
	assert.Equal(t, RoleOrganizer, RoleOf(7, both))
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCancelled, StatusRefunded} {
		assert.True(t, (&Booking{Status: s}).IsTerminal(), string(s))
	}
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusInProgress} {
		assert.False(t, (&Booking{Status: s}).IsTerminal(), string(s))
	}
}
