package repository

import (
	"context"
	"time"

	"interest-match/internal/database"
	"interest-match/internal/domain/matching"
)

// RankedUser is a ranking candidate joined with the public parts of its
// profile. Bio is empty and BirthDate nil when the user has no profile row.
type RankedUser struct {
	matching.Candidate
	Bio       string
	BirthDate *time.Time
}

type OverlapRepository interface {
	// Rank returns one page of users sharing at least one interest with
	// userID, ordered by shared count, email and id, plus the total number of
	// such users.
	Rank(ctx context.Context, userID int64, limit, offset int) ([]RankedUser, int, error)
}

type PostgresOverlapRepository struct {
	db database.Querier
}

func NewPostgresOverlapRepository(db database.Querier) *PostgresOverlapRepository {
	return &PostgresOverlapRepository{db: db}
}

// The DISTINCT keeps the count equal to |S(U) ∩ S(V)| even if the join ever
// produces the same interest twice.
const overlapCTE = `WITH mine AS (
	SELECT interest_id FROM user_interests WHERE user_id = $1
), shared AS (
	SELECT other.user_id, COUNT(DISTINCT other.interest_id) AS shared_count
	FROM user_interests other
	JOIN mine ON mine.interest_id = other.interest_id
	WHERE other.user_id <> $1
	GROUP BY other.user_id
)`

func (r *PostgresOverlapRepository) Rank(ctx context.Context, userID int64, limit, offset int) ([]RankedUser, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, overlapCTE+` SELECT COUNT(*) FROM shared`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 || offset < 0 || offset >= total {
		return []RankedUser{}, total, nil
	}

	rows, err := r.db.Query(ctx,
		overlapCTE+`
		SELECT u.id, u.public_id, u.email, s.shared_count, COALESCE(p.bio, ''), p.birth_date
		FROM shared s
		JOIN users u ON u.id = s.user_id
		LEFT JOIN user_profiles p ON p.user_id = u.id
		ORDER BY s.shared_count DESC, u.email ASC, u.id ASC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]RankedUser, 0, limit)
	for rows.Next() {
		var ru RankedUser
		var shared int64
		if err := rows.Scan(&ru.UserID, &ru.PublicID, &ru.Email, &shared, &ru.Bio, &ru.BirthDate); err != nil {
			return nil, 0, err
		}
		ru.SharedCount = int(shared)
		out = append(out, ru)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
