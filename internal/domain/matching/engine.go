package matching

import (
	"slices"

	"github.com/google/uuid"
)

// Candidate is another user sharing at least one interest with the viewer.
type Candidate struct {
	UserID      int64
	PublicID    uuid.UUID
	Email       string
	SharedCount int
}

// Person is the input to Rank: a user and the interest ids they hold.
type Person struct {
	UserID    int64
	PublicID  uuid.UUID
	Email     string
	Interests []int64
}

// Less orders candidates by shared count descending, then email ascending,
// then user id ascending, which makes the order total.
func Less(a, b Candidate) bool {
	if a.SharedCount != b.SharedCount {
		return a.SharedCount > b.SharedCount
	}
	if a.Email != b.Email {
		return a.Email < b.Email
	}
	return a.UserID < b.UserID
}

func Compare(a, b Candidate) int {
	switch {
	case Less(a, b):
		return -1
	case Less(b, a):
		return 1
	default:
		return 0
	}
}

// Rank computes the full ordered candidate list for viewer from people. The
// viewer is never a candidate, nor is anyone with zero shared interests.
// Duplicate interest ids in a person's list are counted once.
//
// The Postgres overlap query produces the same ordering.
func Rank(viewer Person, people []Person) []Candidate {
	mine := toSet(viewer.Interests)
	if len(mine) == 0 {
		return []Candidate{}
	}

	out := make([]Candidate, 0, len(people))
	for _, p := range people {
		if p.UserID == viewer.UserID {
			continue
		}
		n := intersectCount(mine, toSet(p.Interests))
		if n == 0 {
			continue
		}
		out = append(out, Candidate{
			UserID:      p.UserID,
			PublicID:    p.PublicID,
			Email:       p.Email,
			SharedCount: n,
		})
	}
	slices.SortFunc(out, Compare)
	return out
}

func toSet(ids []int64) map[int64]struct{} {
	m := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

func intersectCount(a, b map[int64]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for id := range a {
		if _, ok := b[id]; ok {
			n++
		}
	}
	return n
}
