package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity root. ID is the internal sequence and never leaves
// the service; PublicID is the handle used in URLs and tokens.
type User struct {
	ID           int64
	PublicID     uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is what the identity collaborator hands to the core for one
// request. The zero value is an anonymous caller.
type Identity struct {
	UserID   int64
	PublicID uuid.UUID
}

func Anonymous() Identity { return Identity{} }

func (i Identity) IsAnonymous() bool {
	return i.UserID <= 0
}
