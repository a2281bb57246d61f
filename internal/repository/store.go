package repository

import (
	"context"
	"errors"

	"interest-match/internal/database"
)

// UserLocker serializes mutations of one user's interest set and importance
// map. Lock must be called inside a transaction; the lock is released on
// commit or rollback.
type UserLocker interface {
	Lock(ctx context.Context, userID int64) error
}

// Repositories bundles the repositories bound to one Querier, either the
// pool or an open transaction.
type Repositories struct {
	Users         UserLocker
	Catalog       CatalogRepository
	UserInterests UserInterestRepository
	Importances   CategoryImportanceRepository
	Profiles      ProfileRepository
	Overlap       OverlapRepository
}

func NewRepositories(q database.Querier) Repositories {
	return Repositories{
		Users:         postgresUserLocker{db: q},
		Catalog:       NewPostgresCatalogRepository(q),
		UserInterests: NewPostgresUserInterestRepository(q),
		Importances:   NewPostgresCategoryImportanceRepository(q),
		Profiles:      NewPostgresProfileRepository(q),
		Overlap:       NewPostgresOverlapRepository(q),
	}
}

type TxRunner interface {
	// InTx runs fn with repositories bound to a single transaction, committing
	// when fn returns nil.
	InTx(ctx context.Context, fn func(r Repositories) error) error
	// ReadSnapshot runs fn with repositories bound to a read-only transaction
	// in which every statement sees the same snapshot.
	ReadSnapshot(ctx context.Context, fn func(r Repositories) error) error
}

type PostgresStore struct {
	db database.DB
}

func NewPostgresStore(db database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) InTx(ctx context.Context, fn func(r Repositories) error) error {
	return database.WithTx(ctx, s.db, func(tx database.Tx) error {
		return fn(NewRepositories(tx))
	})
}

func (s *PostgresStore) ReadSnapshot(ctx context.Context, fn func(r Repositories) error) error {
	return database.WithTx(ctx, s.db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx, `SET TRANSACTION ISOLATION LEVEL REPEATABLE READ, READ ONLY`); err != nil {
			return err
		}
		return fn(NewRepositories(tx))
	})
}

type postgresUserLocker struct {
	db database.Querier
}

func (l postgresUserLocker) Lock(ctx context.Context, userID int64) error {
	var id int64
	err := l.db.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&id)
	if errors.Is(err, database.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
