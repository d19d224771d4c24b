package repositories

import (
	"errors"

	"ecosnap/internal/models"
)

// ErrUserNotFound is returned by lookups when no user matches. Absence is a
// normal outcome; callers decide whether it is an error for them.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	// UpdateStats loads the stats of the given user, applies fn to them and
	// persists the result. Implementations must make the read-modify-write
	// exclusive per user, so that concurrent streak transitions cannot
	// interleave. Returns ErrUserNotFound if the user does not exist.
	UpdateStats(id string, fn func(*models.Stats)) error
}
