package usecase

import (
	"context"
	"errors"
	"slices"

	"interest-match/internal/domain/interest"
	"interest-match/internal/metrics"
	"interest-match/internal/pkg/logger"
	"interest-match/internal/repository"
)

type UserInterestUsecase interface {
	List(ctx context.Context, userID int64) ([]interest.UserInterest, error)
	Add(ctx context.Context, userID, interestID int64) (interest.UserInterest, bool, error)
	Remove(ctx context.Context, userID int64, interestIDs []int64) (int64, error)
	BulkReplace(ctx context.Context, userID int64, interestIDs []int64) ([]interest.UserInterest, error)
}

// UserInterests maintains the set of catalog interests a user holds. Every
// mutation locks the user row first, so concurrent mutations of the same
// set are applied one after another.
type UserInterests struct {
	store repository.TxRunner
	repos repository.Repositories
	log   *logger.Logger
}

func NewUserInterests(store repository.TxRunner, repos repository.Repositories, log *logger.Logger) *UserInterests {
	if log == nil {
		log = logger.Nop()
	}
	return &UserInterests{store: store, repos: repos, log: log}
}

func (u *UserInterests) List(ctx context.Context, userID int64) ([]interest.UserInterest, error) {
	items, err := u.repos.UserInterests.List(ctx, userID)
	if err != nil {
		return nil, internal("list user interests", err)
	}
	return items, nil
}

// Add is get-or-create: adding an interest the user already holds returns
// the existing edge with created=false.
func (u *UserInterests) Add(ctx context.Context, userID, interestID int64) (interest.UserInterest, bool, error) {
	if interestID <= 0 {
		verr := &ValidationError{}
		verr.Add("interest_id", "must be a positive integer", interestID)
		return interest.UserInterest{}, false, verr
	}

	var out interest.UserInterest
	var created bool
	err := u.store.InTx(ctx, func(r repository.Repositories) error {
		if err := lockUser(ctx, r, userID); err != nil {
			return err
		}

		missing, err := missingIDs(ctx, []int64{interestID}, r.Catalog.ExistingInterestIDs)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return notFound("interest", interestID)
		}

		created, err = r.UserInterests.Insert(ctx, userID, interestID)
		if err != nil {
			if repository.IsForeignKeyViolation(err) {
				return notFound("interest", interestID)
			}
			return internal("insert user interest", err)
		}

		out, err = r.UserInterests.Get(ctx, userID, interestID)
		if err != nil {
			return internal("read user interest", err)
		}
		return nil
	})
	if err != nil {
		return interest.UserInterest{}, false, passThrough("add user interest", err)
	}

	if created {
		metrics.InterestsAdded.Inc()
	}
	return out, created, nil
}

// Remove deletes the given interests from the user's set. Ids the user does
// not hold, or that do not exist at all, are ignored; the result counts only
// edges actually deleted.
func (u *UserInterests) Remove(ctx context.Context, userID int64, interestIDs []int64) (int64, error) {
	ids := interest.IDSet(interestIDs)
	if len(ids) == 0 {
		return 0, nil
	}

	var removed int64
	err := u.store.InTx(ctx, func(r repository.Repositories) error {
		if err := lockUser(ctx, r, userID); err != nil {
			return err
		}
		n, err := r.UserInterests.Delete(ctx, userID, ids)
		if err != nil {
			return internal("delete user interests", err)
		}
		removed = n
		return nil
	})
	if err != nil {
		return 0, passThrough("remove user interests", err)
	}

	metrics.InterestsRemoved.Add(float64(removed))
	return removed, nil
}

// BulkReplace makes the user's set equal to interestIDs. Every id is checked
// against the catalog before anything is written; edges present in both the
// old and new set are left untouched. Repeating a call is a no-op.
func (u *UserInterests) BulkReplace(ctx context.Context, userID int64, interestIDs []int64) ([]interest.UserInterest, error) {
	verr := &ValidationError{}
	var invalid []int64
	for _, id := range interestIDs {
		if id <= 0 && !slices.Contains(invalid, id) {
			invalid = append(invalid, id)
		}
	}
	if len(invalid) > 0 {
		verr.Add("interest_ids", "must be positive integers", invalid...)
	}
	target := interest.IDSet(interestIDs)

	var out []interest.UserInterest
	var added, removed int
	err := u.store.InTx(ctx, func(r repository.Repositories) error {
		if err := lockUser(ctx, r, userID); err != nil {
			return err
		}

		missing, err := missingIDs(ctx, target, r.Catalog.ExistingInterestIDs)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			verr.Add("interest_ids", "unknown interest ids", missing...)
		}
		if err := verr.Err(); err != nil {
			return err
		}

		current, err := r.UserInterests.InterestIDs(ctx, userID)
		if err != nil {
			return internal("read user interest ids", err)
		}
		toRemove, toAdd := interest.Diff(current, target)

		if _, err := r.UserInterests.Delete(ctx, userID, toRemove); err != nil {
			return internal("delete user interests", err)
		}
		if _, err := r.UserInterests.InsertMany(ctx, userID, toAdd); err != nil {
			if repository.IsForeignKeyViolation(err) {
				return notFound("interest", toAdd...)
			}
			return internal("insert user interests", err)
		}

		out, err = r.UserInterests.List(ctx, userID)
		if err != nil {
			return internal("read user interests", err)
		}
		added, removed = len(toAdd), len(toRemove)
		return nil
	})
	if err != nil {
		return nil, passThrough("replace user interests", err)
	}

	metrics.InterestsAdded.Add(float64(added))
	metrics.InterestsRemoved.Add(float64(removed))
	if added > 0 || removed > 0 {
		u.log.Debug("user interests reconciled", "user_id", userID, "added", added, "removed", removed)
	}
	return out, nil
}

func lockUser(ctx context.Context, r repository.Repositories, userID int64) error {
	if userID <= 0 {
		return ErrUnauthenticated
	}
	if err := r.Users.Lock(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("user", userID)
		}
		return internal("lock user", err)
	}
	return nil
}
