package usecase

import (
	"context"
	"errors"
	"time"

	"interest-match/internal/domain/interest"
	"interest-match/internal/domain/profile"
	"interest-match/internal/domain/user"
	"interest-match/internal/pkg/logger"
	"interest-match/internal/repository"

	"github.com/google/uuid"
)

// OwnProfile is the profile as its owner sees it, birth date included.
type OwnProfile struct {
	profile.Profile
	PublicID uuid.UUID
	Age      *int
}

// ProfileUpdate carries the fields to change. BirthDate is applied only when
// SetBirthDate is true, so that a nil BirthDate can clear it.
type ProfileUpdate struct {
	Bio          *string
	BirthDate    *time.Time
	SetBirthDate bool
}

type ProfileUsecase interface {
	GetOwn(ctx context.Context, id user.Identity) (OwnProfile, error)
	UpdateOwn(ctx context.Context, id user.Identity, upd ProfileUpdate) (OwnProfile, error)
	GetPublic(ctx context.Context, publicID string) (profile.Public, error)
}

type Profiles struct {
	users user.Repository
	store repository.TxRunner
	repos repository.Repositories
	now   func() time.Time
	log   *logger.Logger
}

func NewProfiles(users user.Repository, store repository.TxRunner, repos repository.Repositories, now func() time.Time, log *logger.Logger) *Profiles {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Profiles{users: users, store: store, repos: repos, now: now, log: log}
}

// GetOwn returns the caller's profile. A user who never saved one gets an
// empty profile created on this read.
func (u *Profiles) GetOwn(ctx context.Context, id user.Identity) (OwnProfile, error) {
	if id.IsAnonymous() {
		return OwnProfile{}, ErrUnauthenticated
	}
	p, created, err := u.repos.Profiles.GetOrCreate(ctx, id.UserID)
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return OwnProfile{}, notFound("user", id.UserID)
		}
		return OwnProfile{}, internal("get or create profile", err)
	}
	if created {
		u.log.Info("profile auto-provisioned", "user_id", id.UserID)
	}
	return u.own(id, p), nil
}

func (u *Profiles) UpdateOwn(ctx context.Context, id user.Identity, upd ProfileUpdate) (OwnProfile, error) {
	if id.IsAnonymous() {
		return OwnProfile{}, ErrUnauthenticated
	}

	verr := &ValidationError{}
	if upd.Bio != nil && !profile.ValidBio(*upd.Bio) {
		verr.Add("bio", "must be at most 500 characters")
	}
	if upd.SetBirthDate && upd.BirthDate != nil && afterToday(*upd.BirthDate, u.now()) {
		verr.Add("birth_date", "must not be in the future")
	}
	if err := verr.Err(); err != nil {
		return OwnProfile{}, err
	}

	var out profile.Profile
	err := u.store.InTx(ctx, func(r repository.Repositories) error {
		p, created, err := r.Profiles.GetOrCreate(ctx, id.UserID)
		if err != nil {
			if repository.IsForeignKeyViolation(err) {
				return notFound("user", id.UserID)
			}
			return internal("get or create profile", err)
		}
		if created {
			u.log.Info("profile auto-provisioned", "user_id", id.UserID)
		}

		if upd.Bio != nil {
			p.Bio = *upd.Bio
		}
		if upd.SetBirthDate {
			p.BirthDate = upd.BirthDate
		}
		out, err = r.Profiles.Update(ctx, p)
		if err != nil {
			return internal("update profile", err)
		}
		return nil
	})
	if err != nil {
		return OwnProfile{}, passThrough("update profile", err)
	}
	return u.own(id, out), nil
}

// GetPublic projects the profile of the user with the given public id.
// Malformed and unknown ids produce the same error. A user who never saved
// a profile is shown with an empty bio and no age. The profile and its
// interests are read from one snapshot.
func (u *Profiles) GetPublic(ctx context.Context, publicID string) (profile.Public, error) {
	pid, err := uuid.Parse(publicID)
	if err != nil {
		return profile.Public{}, notFound("profile")
	}

	usr, err := u.users.GetUserByPublicID(ctx, pid)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return profile.Public{}, notFound("profile")
		}
		return profile.Public{}, internal("get user by public id", err)
	}

	var (
		p     profile.Profile
		items []interest.UserInterest
	)
	err = u.store.ReadSnapshot(ctx, func(r repository.Repositories) error {
		var err error
		p, err = r.Profiles.GetByUserID(ctx, usr.ID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return internal("get profile", err)
			}
			p = profile.Profile{UserID: usr.ID}
		}

		items, err = r.UserInterests.List(ctx, usr.ID)
		if err != nil {
			return internal("list user interests", err)
		}
		return nil
	})
	if err != nil {
		return profile.Public{}, passThrough("get public profile", err)
	}

	return profile.Project(usr.PublicID, p, publicInterests(items), u.now()), nil
}

func (u *Profiles) own(id user.Identity, p profile.Profile) OwnProfile {
	return OwnProfile{Profile: p, PublicID: id.PublicID, Age: profile.Age(p.BirthDate, u.now())}
}

func afterToday(d, now time.Time) bool {
	dy, dm, dd := d.Date()
	ny, nm, nd := now.Date()
	if dy != ny {
		return dy > ny
	}
	if dm != nm {
		return dm > nm
	}
	return dd > nd
}
