package models

// User represents a person who can participate in groups.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the user.
	Name string

	// Email is the user's email address (unique).
	Email string

	// CreatedAt is the Unix timestamp when the user was created.
	CreatedAt int64
}
