package model

import (
	"strings"
	"time"
)

// SubRatings breaks the overall rating into service categories. A zero
// value means the organizer did not score that category explicitly.
type SubRatings struct {
	ServiceQuality  int `json:"service_quality"`
	Professionalism int `json:"professionalism"`
	Punctuality     int `json:"punctuality"`
	Communication   int `json:"communication"`
}

// Review is the full review aggregate created alongside the booking's
// denormalized rating/review summary. The vendor may attach a single
// response after the fact.
type Review struct {
	ID             uint64     `json:"id"`
	BookingID      uint64     `json:"booking_id"`
	OrganizerID    uint64     `json:"organizer_id"`
	VendorID       uint64     `json:"vendor_id"`
	Rating         int        `json:"rating"`
	Comment        string     `json:"comment"`
	SubRatings     SubRatings `json:"sub_ratings"`
	VendorResponse *string    `json:"vendor_response,omitempty"`
	RespondedAt    *time.Time `json:"responded_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ReviewEligible reports whether the caller may review the booking:
// completed, caller is the organizer, and no rating recorded yet.
func ReviewEligible(b *Booking, callerID uint64) bool {
	return CheckAction(b, callerID, ActionSubmitReview) == nil
}

// NewReview validates the submission and builds the review aggregate.
// Every unset sub-rating defaults to the overall rating, so a bare
// one-number submission still yields a fully scored review. The caller
// is responsible for permission and state checks; this only enforces
// payload rules.
func NewReview(b *Booking, rating int, comment string, sub SubRatings) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrRatingRequired
	}
	if strings.TrimSpace(comment) == "" {
		return nil, ErrReviewTextRequired
	}
	if sub.ServiceQuality == 0 {
		sub.ServiceQuality = rating
	}
	if sub.Professionalism == 0 {
		sub.Professionalism = rating
	}
	if sub.Punctuality == 0 {
		sub.Punctuality = rating
	}
	if sub.Communication == 0 {
		sub.Communication = rating
	}
	return &Review{
		BookingID:   b.ID,
		OrganizerID: b.OrganizerID,
		VendorID:    b.VendorID,
		Rating:      rating,
		Comment:     comment,
		SubRatings:  sub,
	}, nil
}
