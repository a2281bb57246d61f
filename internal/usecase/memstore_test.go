package usecase

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"interest-match/internal/domain/interest"
	"interest-match/internal/domain/matching"
	"interest-match/internal/domain/profile"
	"interest-match/internal/domain/user"
	"interest-match/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// memState is the whole database. It is copied on transaction start and
// restored when the transaction function fails.
type memState struct {
	users       map[int64]user.User
	categories  map[int64]interest.Category
	interests   map[int64]interest.Interest
	edges       map[int64]interest.UserInterest
	importances map[int64]interest.CategoryImportance
	profiles    map[int64]profile.Profile

	nextUser, nextEdge, nextImportance, nextProfile int64
}

func (s *memState) clone() *memState {
	c := *s
	c.users = maps.Clone(s.users)
	c.categories = maps.Clone(s.categories)
	c.interests = maps.Clone(s.interests)
	c.edges = maps.Clone(s.edges)
	c.importances = maps.Clone(s.importances)
	c.profiles = maps.Clone(s.profiles)
	return &c
}

type memStore struct {
	txMu   sync.Mutex
	dataMu sync.Mutex
	state  *memState
	tick   time.Time

	catalogReads   atomic.Int32
	snapshots      atomic.Int32
	failInsertMany error
}

var fkViolation = &pgconn.PgError{Code: "23503"}

func newMemStore() *memStore {
	s := &memStore{
		state: &memState{
			users:       map[int64]user.User{},
			categories:  map[int64]interest.Category{},
			interests:   map[int64]interest.Interest{},
			edges:       map[int64]interest.UserInterest{},
			importances: map[int64]interest.CategoryImportance{},
			profiles:    map[int64]profile.Profile{},
		},
		tick: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}

	for _, c := range []interest.Category{{ID: 1, Name: "Music"}, {ID: 2, Name: "Sports"}, {ID: 3, Name: "Tech"}} {
		s.state.categories[c.ID] = c
	}
	for _, it := range []interest.Interest{
		{ID: 10, Name: "Jazz", CategoryID: 1},
		{ID: 11, Name: "Rock", CategoryID: 1},
		{ID: 20, Name: "Football", CategoryID: 2},
		{ID: 21, Name: "Tennis", CategoryID: 2},
		{ID: 30, Name: "Go", CategoryID: 3},
		{ID: 31, Name: "Rust", CategoryID: 3},
	} {
		it.CategoryName = s.state.categories[it.CategoryID].Name
		s.state.interests[it.ID] = it
	}
	return s
}

func (s *memStore) now() time.Time {
	s.tick = s.tick.Add(time.Second)
	return s.tick
}

func (s *memStore) addUser(email string) user.User {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.state.nextUser++
	u := user.User{ID: s.state.nextUser, PublicID: uuid.New(), Email: email}
	s.state.users[u.ID] = u
	return u
}

func (s *memStore) repos() repository.Repositories {
	return repository.Repositories{
		Users:         memLocker{s},
		Catalog:       memCatalog{s},
		UserInterests: memUserInterests{s},
		Importances:   memImportances{s},
		Profiles:      memProfiles{s},
		Overlap:       memOverlap{s},
	}
}

func (s *memStore) InTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.dataMu.Lock()
	snapshot := s.state.clone()
	s.dataMu.Unlock()

	if err := fn(s.repos()); err != nil {
		s.dataMu.Lock()
		s.state = snapshot
		s.dataMu.Unlock()
		return err
	}
	return nil
}

// ReadSnapshot holds the transaction lock for the whole of fn, so no InTx
// can commit between its reads.
func (s *memStore) ReadSnapshot(ctx context.Context, fn func(r repository.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.snapshots.Add(1)
	return fn(s.repos())
}

func (s *memStore) with(fn func(st *memState)) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	fn(s.state)
}

type memLocker struct{ s *memStore }

func (l memLocker) Lock(_ context.Context, userID int64) error {
	var err error
	l.s.with(func(st *memState) {
		if _, ok := st.users[userID]; !ok {
			err = repository.ErrNotFound
		}
	})
	return err
}

type memCatalog struct{ s *memStore }

func (c memCatalog) ListCategories(context.Context) ([]interest.Category, error) {
	c.s.catalogReads.Add(1)
	var out []interest.Category
	c.s.with(func(st *memState) {
		out = slices.Collect(maps.Values(st.categories))
	})
	slices.SortFunc(out, func(a, b interest.Category) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (c memCatalog) ListInterests(context.Context) ([]interest.Interest, error) {
	c.s.catalogReads.Add(1)
	var out []interest.Interest
	c.s.with(func(st *memState) {
		out = slices.Collect(maps.Values(st.interests))
	})
	slices.SortFunc(out, func(a, b interest.Interest) int {
		return cmp.Or(cmp.Compare(a.CategoryName, b.CategoryName), cmp.Compare(a.Name, b.Name))
	})
	return out, nil
}

func (c memCatalog) ExistingInterestIDs(_ context.Context, ids []int64) ([]int64, error) {
	out := []int64{}
	c.s.with(func(st *memState) {
		for _, id := range ids {
			if _, ok := st.interests[id]; ok {
				out = append(out, id)
			}
		}
	})
	return out, nil
}

func (c memCatalog) ExistingCategoryIDs(_ context.Context, ids []int64) ([]int64, error) {
	out := []int64{}
	c.s.with(func(st *memState) {
		for _, id := range ids {
			if _, ok := st.categories[id]; ok {
				out = append(out, id)
			}
		}
	})
	return out, nil
}

type memUserInterests struct{ s *memStore }

func sortEdges(items []interest.UserInterest) {
	slices.SortFunc(items, func(a, b interest.UserInterest) int {
		return cmp.Or(cmp.Compare(a.CategoryName, b.CategoryName), cmp.Compare(a.InterestName, b.InterestName))
	})
}

func (m memUserInterests) List(_ context.Context, userID int64) ([]interest.UserInterest, error) {
	out := []interest.UserInterest{}
	m.s.with(func(st *memState) {
		for _, e := range st.edges {
			if e.UserID == userID {
				out = append(out, e)
			}
		}
	})
	sortEdges(out)
	return out, nil
}

func (m memUserInterests) ListForUsers(ctx context.Context, userIDs []int64) (map[int64][]interest.UserInterest, error) {
	out := map[int64][]interest.UserInterest{}
	for _, id := range userIDs {
		items, _ := m.List(ctx, id)
		if len(items) > 0 {
			out[id] = items
		}
	}
	return out, nil
}

func (m memUserInterests) InterestIDs(ctx context.Context, userID int64) ([]int64, error) {
	items, _ := m.List(ctx, userID)
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.InterestID)
	}
	slices.Sort(out)
	return out, nil
}

func (m memUserInterests) Get(ctx context.Context, userID, interestID int64) (interest.UserInterest, error) {
	items, _ := m.List(ctx, userID)
	for _, it := range items {
		if it.InterestID == interestID {
			return it, nil
		}
	}
	return interest.UserInterest{}, repository.ErrNotFound
}

func (m memUserInterests) Insert(_ context.Context, userID, interestID int64) (bool, error) {
	var created bool
	var err error
	m.s.with(func(st *memState) {
		it, ok := st.interests[interestID]
		if _, uok := st.users[userID]; !ok || !uok {
			err = fkViolation
			return
		}
		for _, e := range st.edges {
			if e.UserID == userID && e.InterestID == interestID {
				return
			}
		}
		st.nextEdge++
		st.edges[st.nextEdge] = interest.UserInterest{
			ID:           st.nextEdge,
			UserID:       userID,
			InterestID:   interestID,
			InterestName: it.Name,
			CategoryID:   it.CategoryID,
			CategoryName: it.CategoryName,
			CreatedAt:    m.s.now(),
		}
		created = true
	})
	return created, err
}

func (m memUserInterests) InsertMany(ctx context.Context, userID int64, interestIDs []int64) (int64, error) {
	if m.s.failInsertMany != nil && len(interestIDs) > 0 {
		return 0, m.s.failInsertMany
	}
	var n int64
	for _, id := range interestIDs {
		created, err := m.Insert(ctx, userID, id)
		if err != nil {
			return n, err
		}
		if created {
			n++
		}
	}
	return n, nil
}

func (m memUserInterests) Delete(_ context.Context, userID int64, interestIDs []int64) (int64, error) {
	var n int64
	m.s.with(func(st *memState) {
		for id, e := range st.edges {
			if e.UserID == userID && slices.Contains(interestIDs, e.InterestID) {
				delete(st.edges, id)
				n++
			}
		}
	})
	return n, nil
}

type memImportances struct{ s *memStore }

func (m memImportances) List(_ context.Context, userID int64) ([]interest.CategoryImportance, error) {
	out := []interest.CategoryImportance{}
	m.s.with(func(st *memState) {
		for _, ci := range st.importances {
			if ci.UserID == userID {
				out = append(out, ci)
			}
		}
	})
	slices.SortFunc(out, func(a, b interest.CategoryImportance) int { return cmp.Compare(a.CategoryName, b.CategoryName) })
	return out, nil
}

func (m memImportances) FindByIDs(_ context.Context, userID int64, ids []int64) ([]interest.CategoryImportance, error) {
	out := []interest.CategoryImportance{}
	m.s.with(func(st *memState) {
		for _, id := range ids {
			if ci, ok := st.importances[id]; ok && ci.UserID == userID {
				out = append(out, ci)
			}
		}
	})
	return out, nil
}

func (m memImportances) Upsert(_ context.Context, userID, categoryID int64, importance int) (interest.CategoryImportance, bool, error) {
	var out interest.CategoryImportance
	var created bool
	var err error
	m.s.with(func(st *memState) {
		cat, ok := st.categories[categoryID]
		if !ok {
			err = fkViolation
			return
		}
		now := m.s.now()
		for id, ci := range st.importances {
			if ci.UserID == userID && ci.CategoryID == categoryID {
				ci.Importance = importance
				ci.UpdatedAt = now
				st.importances[id] = ci
				out = ci
				return
			}
		}
		st.nextImportance++
		out = interest.CategoryImportance{
			ID:           st.nextImportance,
			UserID:       userID,
			CategoryID:   categoryID,
			CategoryName: cat.Name,
			Importance:   importance,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		st.importances[out.ID] = out
		created = true
	})
	return out, created, err
}

func (m memImportances) UpdateByID(_ context.Context, userID, id int64, importance int) (interest.CategoryImportance, error) {
	var out interest.CategoryImportance
	err := repository.ErrNotFound
	m.s.with(func(st *memState) {
		ci, ok := st.importances[id]
		if !ok || ci.UserID != userID {
			return
		}
		ci.Importance = importance
		ci.UpdatedAt = m.s.now()
		st.importances[id] = ci
		out, err = ci, nil
	})
	return out, err
}

type memProfiles struct{ s *memStore }

func (m memProfiles) GetByUserID(_ context.Context, userID int64) (profile.Profile, error) {
	var out profile.Profile
	err := repository.ErrNotFound
	m.s.with(func(st *memState) {
		if p, ok := st.profiles[userID]; ok {
			out, err = p, nil
		}
	})
	return out, err
}

func (m memProfiles) GetOrCreate(_ context.Context, userID int64) (profile.Profile, bool, error) {
	var out profile.Profile
	var created bool
	var err error
	m.s.with(func(st *memState) {
		if p, ok := st.profiles[userID]; ok {
			out = p
			return
		}
		if _, ok := st.users[userID]; !ok {
			err = fkViolation
			return
		}
		st.nextProfile++
		now := m.s.now()
		out = profile.Profile{ID: st.nextProfile, UserID: userID, CreatedAt: now, UpdatedAt: now}
		st.profiles[userID] = out
		created = true
	})
	return out, created, err
}

func (m memProfiles) Update(_ context.Context, p profile.Profile) (profile.Profile, error) {
	var out profile.Profile
	err := repository.ErrNotFound
	m.s.with(func(st *memState) {
		cur, ok := st.profiles[p.UserID]
		if !ok {
			return
		}
		cur.Bio = p.Bio
		cur.BirthDate = p.BirthDate
		cur.UpdatedAt = m.s.now()
		st.profiles[p.UserID] = cur
		out, err = cur, nil
	})
	return out, err
}

type memOverlap struct{ s *memStore }

func (m memOverlap) Rank(_ context.Context, userID int64, limit, offset int) ([]repository.RankedUser, int, error) {
	var viewer matching.Person
	var people []matching.Person
	profiles := map[int64]profile.Profile{}
	m.s.with(func(st *memState) {
		held := map[int64][]int64{}
		for _, e := range st.edges {
			held[e.UserID] = append(held[e.UserID], e.InterestID)
		}
		for _, u := range st.users {
			p := matching.Person{UserID: u.ID, PublicID: u.PublicID, Email: u.Email, Interests: held[u.ID]}
			if u.ID == userID {
				viewer = p
			}
			people = append(people, p)
		}
		maps.Copy(profiles, st.profiles)
	})

	all := matching.Rank(viewer, people)
	page := matching.Slice(all, matching.PageRequest{Page: offset/limit + 1, Size: limit})

	out := make([]repository.RankedUser, 0, len(page))
	for _, c := range page {
		p := profiles[c.UserID]
		out = append(out, repository.RankedUser{Candidate: c, Bio: p.Bio, BirthDate: p.BirthDate})
	}
	return out, len(all), nil
}

type memUsers struct{ s *memStore }

func (m memUsers) find(match func(user.User) bool) (user.User, error) {
	out := user.User{}
	err := user.ErrNotFound
	m.s.with(func(st *memState) {
		for _, u := range st.users {
			if match(u) {
				out, err = u, nil
				return
			}
		}
	})
	return out, err
}

func (m memUsers) CreateUser(_ context.Context, u user.User) (user.User, error) {
	if _, err := m.find(func(x user.User) bool { return x.Email == u.Email }); err == nil {
		return user.User{}, user.ErrEmailTaken
	}
	created := m.s.addUser(u.Email)
	m.s.with(func(st *memState) {
		created.PasswordHash = u.PasswordHash
		st.users[created.ID] = created
	})
	return created, nil
}

func (m memUsers) GetUserByID(_ context.Context, id int64) (user.User, error) {
	return m.find(func(u user.User) bool { return u.ID == id })
}

func (m memUsers) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	return m.find(func(u user.User) bool { return u.Email == email })
}

func (m memUsers) GetUserByPublicID(_ context.Context, pid uuid.UUID) (user.User, error) {
	return m.find(func(u user.User) bool { return u.PublicID == pid })
}

func (m memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetUserByEmail(ctx, email)
	return err == nil, nil
}

func identityOf(u user.User) user.Identity {
	return user.Identity{UserID: u.ID, PublicID: u.PublicID}
}
