package usecase

import (
	"context"
	"time"

	"interest-match/internal/domain/interest"
	"interest-match/internal/domain/matching"
	"interest-match/internal/domain/profile"
	"interest-match/internal/domain/user"
	"interest-match/internal/metrics"
	"interest-match/internal/pkg/logger"
	"interest-match/internal/repository"
)

const defaultPageSize = 10

type RankedProfile struct {
	profile.Public
	SharedCount int
}

// MatchPage is one page of the common-interests feed. Count is the total
// number of candidates across all pages.
type MatchPage struct {
	Count    int
	Page     int
	PageSize int
	Results  []RankedProfile
}

type CommonInterestsUsecase interface {
	Rank(ctx context.Context, viewer user.Identity, page int) (MatchPage, error)
}

// CommonInterests ranks other users by the number of interests they share
// with the viewer.
type CommonInterests struct {
	store    repository.TxRunner
	pageSize int
	now      func() time.Time
	log      *logger.Logger
}

func NewCommonInterests(store repository.TxRunner, pageSize int, now func() time.Time, log *logger.Logger) *CommonInterests {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CommonInterests{store: store, pageSize: pageSize, now: now, log: log}
}

// Rank reads the viewer's set, the ranking and the candidates' interests in
// one snapshot, so Count, SharedCount and the listed interests agree.
func (u *CommonInterests) Rank(ctx context.Context, viewer user.Identity, page int) (MatchPage, error) {
	p := matching.NormalizePage(page, u.pageSize, defaultPageSize)
	if !p.InRange() {
		verr := &ValidationError{}
		verr.Add("page", "is too large")
		return MatchPage{}, verr
	}
	empty := MatchPage{Page: p.Page, PageSize: p.Size, Results: []RankedProfile{}}

	if viewer.IsAnonymous() {
		return empty, nil
	}

	var (
		ranked []repository.RankedUser
		held   map[int64][]interest.UserInterest
		total  int
	)
	err := u.store.ReadSnapshot(ctx, func(r repository.Repositories) error {
		mine, err := r.UserInterests.InterestIDs(ctx, viewer.UserID)
		if err != nil {
			return internal("read viewer interests", err)
		}
		if len(mine) == 0 {
			return nil
		}

		ranked, total, err = r.Overlap.Rank(ctx, viewer.UserID, p.Size, p.Offset())
		if err != nil {
			return internal("rank users", err)
		}
		if len(ranked) == 0 {
			return nil
		}

		ids := make([]int64, 0, len(ranked))
		for _, ru := range ranked {
			ids = append(ids, ru.UserID)
		}
		held, err = r.UserInterests.ListForUsers(ctx, ids)
		if err != nil {
			return internal("read candidate interests", err)
		}
		return nil
	})
	if err != nil {
		return MatchPage{}, passThrough("rank users", err)
	}
	metrics.RankingCandidates.Observe(float64(total))

	out := empty
	out.Count = total
	if len(ranked) == 0 {
		return out, nil
	}

	now := u.now()
	out.Results = make([]RankedProfile, 0, len(ranked))
	for _, r := range ranked {
		pub := profile.Project(
			r.PublicID,
			profile.Profile{UserID: r.UserID, Bio: r.Bio, BirthDate: r.BirthDate},
			publicInterests(held[r.UserID]),
			now,
		)
		out.Results = append(out.Results, RankedProfile{Public: pub, SharedCount: r.SharedCount})
	}
	return out, nil
}

func publicInterests(items []interest.UserInterest) []profile.PublicInterest {
	out := make([]profile.PublicInterest, 0, len(items))
	for _, it := range items {
		out = append(out, profile.PublicInterest{InterestName: it.InterestName, CategoryName: it.CategoryName})
	}
	return out
}
