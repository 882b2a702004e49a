package models

import "time"

// Gift belongs to one user. ReservedBy is the display name typed by whoever
// reserved it; it is not a reference to a registered user.
type Gift struct {
	ID         string
	Name       string
	Comments   string
	URL        *string
	Reserved   bool
	ReservedBy *string
	Received   bool
	UserID     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
