package users

// UserRepo stores the accounts the dev backend authenticates against.
// Lookups by email are case-insensitive.
type UserRepo interface {
	// Upsert creates or replaces a user keyed by ID, rejecting an email held by another user.
	Upsert(user *User) error
	GetByEmail(email string) (*User, error)
	GetByID(id string) (*User, error)
	List(offset, limit int) ([]*User, error)
	Delete(email string) error
}
