package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReview_Validation(t *testing.T) {
	b := testBooking(StatusCompleted)

	_, err := NewReview(b, 0, "fine", SubRatings{})
	assert.ErrorIs(t, err, ErrRatingRequired)

	_, err = NewReview(b, 6, "fine", SubRatings{})
	assert.ErrorIs(t, err, ErrRatingRequired)

	_, err = NewReview(b, 4, "   ", SubRatings{})
	assert.ErrorIs(t, err, ErrReviewTextRequired)
}

func TestNewReview_DefaultsSubRatings(t *testing.T) {
	b := testBooking(StatusCompleted)

	r, err := NewReview(b, 4, "Great", SubRatings{})
	require.NoError(t, err)
	assert.Equal(t, SubRatings{ServiceQuality: 4, Professionalism: 4, Punctuality: 4, Communication: 4}, r.SubRatings)
	assert.Equal(t, b.ID, r.BookingID)
	assert.Equal(t, b.OrganizerID, r.OrganizerID)
	assert.Equal(t, b.VendorID, r.VendorID)
}

func TestNewReview_KeepsExplicitSubRatings(t *testing.T) {
	b := testBooking(StatusCompleted)

	r, err := NewReview(b, 5, "Solid work", SubRatings{Punctuality: 3})
	require.NoError(t, err)
	assert.Equal(t, SubRatings{ServiceQuality: 5, Professionalism: 5, Punctuality: 3, Communication: 5}, r.SubRatings)
}

func TestReviewEligible(t *testing.T) {
	b := testBooking(StatusCompleted)
	assert.True(t, ReviewEligible(b, organizerID))
	assert.False(t, ReviewEligible(b, vendorID))
	assert.False(t, ReviewEligible(b, strangerID))

	rating := 5
	b.Rating = &rating
	assert.False(t, ReviewEligible(b, organizerID), "a rated booking is no longer eligible")

	assert.False(t, ReviewEligible(testBooking(StatusConfirmed), organizerID))
}
