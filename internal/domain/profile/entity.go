package profile

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const MaxBioLength = 500

type Profile struct {
	ID        int64
	UserID    int64
	Bio       string
	BirthDate *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PublicInterest struct {
	InterestName string
	CategoryName string
}

// Public is the view of a profile shown to other users. It never carries the
// email, the internal id or the raw birth date.
type Public struct {
	PublicID  uuid.UUID
	Bio       string
	Age       *int
	Interests []PublicInterest
}

func ValidBio(bio string) bool {
	return utf8.RuneCountInString(bio) <= MaxBioLength
}

// Project builds the public view of p for the user identified by publicID.
// Age is evaluated against now.
func Project(publicID uuid.UUID, p Profile, interests []PublicInterest, now time.Time) Public {
	if interests == nil {
		interests = []PublicInterest{}
	}
	return Public{
		PublicID:  publicID,
		Bio:       p.Bio,
		Age:       Age(p.BirthDate, now),
		Interests: interests,
	}
}
