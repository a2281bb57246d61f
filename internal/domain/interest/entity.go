package interest

import (
	"slices"
	"time"
)

const (
	MinImportance = 1
	MaxImportance = 5
)

type Category struct {
	ID   int64
	Name string
}

type Interest struct {
	ID           int64
	Name         string
	CategoryID   int64
	CategoryName string
}

// UserInterest is a membership edge between a user and a catalog interest.
// It carries no payload and is never updated in place.
type UserInterest struct {
	ID           int64
	UserID       int64
	InterestID   int64
	InterestName string
	CategoryID   int64
	CategoryName string
	CreatedAt    time.Time
}

type CategoryImportance struct {
	ID           int64
	UserID       int64
	CategoryID   int64
	CategoryName string
	Importance   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func ValidImportance(v int) bool {
	return v >= MinImportance && v <= MaxImportance
}

// IDSet deduplicates ids, dropping non-positive values, and returns them in
// ascending order.
func IDSet(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Diff returns the ids to remove (in current, not in target) and to add
// (in target, not in current). Both inputs are treated as sets.
func Diff(current, target []int64) (remove, add []int64) {
	cur := make(map[int64]struct{}, len(current))
	for _, id := range current {
		cur[id] = struct{}{}
	}
	tgt := make(map[int64]struct{}, len(target))
	for _, id := range target {
		tgt[id] = struct{}{}
	}

	for _, id := range IDSet(current) {
		if _, ok := tgt[id]; !ok {
			remove = append(remove, id)
		}
	}
	for _, id := range IDSet(target) {
		if _, ok := cur[id]; !ok {
			add = append(add, id)
		}
	}
	return remove, add
}
