// Package repository implements raw-SQL data access for the booking
// engine. The sentinel values below let the service layer distinguish
// persistence failure scenarios without inspecting driver errors. For
// example, ErrVersionConflict signals a lost optimistic race on a
// booking row, while the not-found values map to missing records.
package repository

import "errors"

// ErrBookingNotFound is returned when no booking exists for the id.
var ErrBookingNotFound = errors.New("booking not found")

// ErrUserNotFound is returned when no user exists for the id.
var ErrUserNotFound = errors.New("user not found")

// ErrReviewNotFound is returned when a booking has no review yet.
var ErrReviewNotFound = errors.New("review not found")

// ErrVersionConflict is returned when a version-guarded write matched
// no row: another writer got there first. Callers re-read and retry or
// surface a conflict; the attempted write had no effect.
var ErrVersionConflict = errors.New("booking version conflict")
