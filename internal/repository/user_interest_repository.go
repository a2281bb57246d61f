package repository

import (
	"context"
	"errors"

	"interest-match/internal/database"
	"interest-match/internal/domain/interest"
)

type UserInterestRepository interface {
	List(ctx context.Context, userID int64) ([]interest.UserInterest, error)
	// ListForUsers returns the interests of every user in userIDs keyed by
	// user id. Users without interests are absent from the map.
	ListForUsers(ctx context.Context, userIDs []int64) (map[int64][]interest.UserInterest, error)
	InterestIDs(ctx context.Context, userID int64) ([]int64, error)
	Get(ctx context.Context, userID, interestID int64) (interest.UserInterest, error)
	// Insert creates the (user, interest) edge unless it already exists and
	// reports whether a row was written.
	Insert(ctx context.Context, userID, interestID int64) (bool, error)
	InsertMany(ctx context.Context, userID int64, interestIDs []int64) (int64, error)
	Delete(ctx context.Context, userID int64, interestIDs []int64) (int64, error)
}

type PostgresUserInterestRepository struct {
	db database.Querier
}

func NewPostgresUserInterestRepository(db database.Querier) *PostgresUserInterestRepository {
	return &PostgresUserInterestRepository{db: db}
}

const userInterestSelect = `SELECT ui.id, ui.user_id, ui.interest_id, i.name, i.category_id, c.name, ui.created_at
	FROM user_interests ui
	JOIN interests i ON i.id = ui.interest_id
	JOIN interest_categories c ON c.id = i.category_id`

func (r *PostgresUserInterestRepository) List(ctx context.Context, userID int64) ([]interest.UserInterest, error) {
	rows, err := r.db.Query(ctx,
		userInterestSelect+`
		 WHERE ui.user_id = $1
		 ORDER BY c.name ASC, i.name ASC, ui.interest_id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]interest.UserInterest, 0)
	for rows.Next() {
		ui, err := scanUserInterest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ui)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserInterestRepository) ListForUsers(ctx context.Context, userIDs []int64) (map[int64][]interest.UserInterest, error) {
	out := make(map[int64][]interest.UserInterest, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx,
		userInterestSelect+`
		 WHERE ui.user_id = ANY($1)
		 ORDER BY ui.user_id ASC, c.name ASC, i.name ASC`,
		userIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		ui, err := scanUserInterest(rows)
		if err != nil {
			return nil, err
		}
		out[ui.UserID] = append(out[ui.UserID], ui)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserInterestRepository) InterestIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT interest_id FROM user_interests WHERE user_id = $1 ORDER BY interest_id`, userID)
	if err != nil {
		return nil, err
	}
	return scanIDs(rows)
}

func (r *PostgresUserInterestRepository) Get(ctx context.Context, userID, interestID int64) (interest.UserInterest, error) {
	row := r.db.QueryRow(ctx,
		userInterestSelect+`
		 WHERE ui.user_id = $1 AND ui.interest_id = $2`,
		userID, interestID,
	)
	ui, err := scanUserInterest(row)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return interest.UserInterest{}, ErrNotFound
		}
		return interest.UserInterest{}, err
	}
	return ui, nil
}

func (r *PostgresUserInterestRepository) Insert(ctx context.Context, userID, interestID int64) (bool, error) {
	n, err := r.db.Exec(ctx,
		`INSERT INTO user_interests (user_id, interest_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, interest_id) DO NOTHING`,
		userID, interestID,
	)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresUserInterestRepository) InsertMany(ctx context.Context, userID int64, interestIDs []int64) (int64, error) {
	if len(interestIDs) == 0 {
		return 0, nil
	}
	return r.db.Exec(ctx,
		`INSERT INTO user_interests (user_id, interest_id)
		 SELECT $1, unnest($2::bigint[])
		 ON CONFLICT (user_id, interest_id) DO NOTHING`,
		userID, interestIDs,
	)
}

func (r *PostgresUserInterestRepository) Delete(ctx context.Context, userID int64, interestIDs []int64) (int64, error) {
	if len(interestIDs) == 0 {
		return 0, nil
	}
	return r.db.Exec(ctx,
		`DELETE FROM user_interests WHERE user_id = $1 AND interest_id = ANY($2)`,
		userID, interestIDs,
	)
}

func scanUserInterest(row database.Row) (interest.UserInterest, error) {
	var ui interest.UserInterest
	err := row.Scan(&ui.ID, &ui.UserID, &ui.InterestID, &ui.InterestName, &ui.CategoryID, &ui.CategoryName, &ui.CreatedAt)
	return ui, err
}
