package model

import "time"

// User is the marketplace account record as stored in the `users`
// table. The engine only needs it for existence checks when a booking
// is created; credentials and sessions live in the external auth
// service, so no secret material appears here. A user has no stored
// marketplace role: organizer/vendor is always derived per booking by
// comparing ids (see RoleOf).
//
// Fields:
//
//	ID        – primary key identifier of the user.
//	FullName  – display name.
//	Email     – unique email address.
//	CreatedAt – timestamp of creation.
type User struct {
	ID        uint64    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
