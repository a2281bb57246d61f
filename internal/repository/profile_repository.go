package repository

import (
	"context"
	"errors"
	"time"

	"interest-match/internal/database"
	"interest-match/internal/domain/profile"
)

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID int64) (profile.Profile, error)
	// GetOrCreate returns the user's profile, inserting an empty one first if
	// none exists. The bool reports whether a row was created.
	GetOrCreate(ctx context.Context, userID int64) (profile.Profile, bool, error)
	Update(ctx context.Context, p profile.Profile) (profile.Profile, error)
}

type PostgresProfileRepository struct {
	db database.Querier
}

func NewPostgresProfileRepository(db database.Querier) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID int64) (profile.Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, bio, birth_date, created_at, updated_at FROM user_profiles WHERE user_id = $1`,
		userID,
	)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return profile.Profile{}, ErrNotFound
		}
		return profile.Profile{}, err
	}
	return p, nil
}

func (r *PostgresProfileRepository) GetOrCreate(ctx context.Context, userID int64) (profile.Profile, bool, error) {
	n, err := r.db.Exec(ctx,
		`INSERT INTO user_profiles (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return profile.Profile{}, false, err
	}
	p, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return profile.Profile{}, false, err
	}
	return p, n > 0, nil
}

func (r *PostgresProfileRepository) Update(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE user_profiles
		 SET bio = $2, birth_date = $3, updated_at = now()
		 WHERE user_id = $1
		 RETURNING id, user_id, bio, birth_date, created_at, updated_at`,
		p.UserID, p.Bio, p.BirthDate,
	)
	out, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return profile.Profile{}, ErrNotFound
		}
		return profile.Profile{}, err
	}
	return out, nil
}

func scanProfile(row database.Row) (profile.Profile, error) {
	var p profile.Profile
	var birth *time.Time
	if err := row.Scan(&p.ID, &p.UserID, &p.Bio, &birth, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return profile.Profile{}, err
	}
	p.BirthDate = birth
	return p, nil
}
