package repository

import (
	"context"
	"errors"

	"interest-match/internal/database"
	"interest-match/internal/domain/interest"
)

type CategoryImportanceRepository interface {
	List(ctx context.Context, userID int64) ([]interest.CategoryImportance, error)
	// FindByIDs returns the rows among ids that belong to userID.
	FindByIDs(ctx context.Context, userID int64, ids []int64) ([]interest.CategoryImportance, error)
	// Upsert writes importance for (user, category) and reports whether the
	// row was created rather than updated.
	Upsert(ctx context.Context, userID, categoryID int64, importance int) (interest.CategoryImportance, bool, error)
	UpdateByID(ctx context.Context, userID, id int64, importance int) (interest.CategoryImportance, error)
}

type PostgresCategoryImportanceRepository struct {
	db database.Querier
}

func NewPostgresCategoryImportanceRepository(db database.Querier) *PostgresCategoryImportanceRepository {
	return &PostgresCategoryImportanceRepository{db: db}
}

func (r *PostgresCategoryImportanceRepository) List(ctx context.Context, userID int64) ([]interest.CategoryImportance, error) {
	rows, err := r.db.Query(ctx,
		`SELECT ci.id, ci.user_id, ci.category_id, c.name, ci.importance, ci.created_at, ci.updated_at
		 FROM user_category_importances ci
		 JOIN interest_categories c ON c.id = ci.category_id
		 WHERE ci.user_id = $1
		 ORDER BY c.name ASC, ci.id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return scanImportances(rows)
}

func (r *PostgresCategoryImportanceRepository) FindByIDs(ctx context.Context, userID int64, ids []int64) ([]interest.CategoryImportance, error) {
	if len(ids) == 0 {
		return []interest.CategoryImportance{}, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT ci.id, ci.user_id, ci.category_id, c.name, ci.importance, ci.created_at, ci.updated_at
		 FROM user_category_importances ci
		 JOIN interest_categories c ON c.id = ci.category_id
		 WHERE ci.user_id = $1 AND ci.id = ANY($2)
		 ORDER BY ci.id ASC`,
		userID, ids,
	)
	if err != nil {
		return nil, err
	}
	return scanImportances(rows)
}

// Upsert relies on xmax being zero only for freshly inserted tuples.
func (r *PostgresCategoryImportanceRepository) Upsert(ctx context.Context, userID, categoryID int64, importance int) (interest.CategoryImportance, bool, error) {
	row := r.db.QueryRow(ctx,
		`WITH up AS (
			INSERT INTO user_category_importances (user_id, category_id, importance)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, category_id)
			DO UPDATE SET importance = EXCLUDED.importance, updated_at = now()
			RETURNING id, user_id, category_id, importance, created_at, updated_at, (xmax = 0) AS inserted
		)
		SELECT up.id, up.user_id, up.category_id, c.name, up.importance, up.created_at, up.updated_at, up.inserted
		FROM up
		JOIN interest_categories c ON c.id = up.category_id`,
		userID, categoryID, importance,
	)

	var ci interest.CategoryImportance
	var created bool
	if err := row.Scan(&ci.ID, &ci.UserID, &ci.CategoryID, &ci.CategoryName, &ci.Importance, &ci.CreatedAt, &ci.UpdatedAt, &created); err != nil {
		return interest.CategoryImportance{}, false, err
	}
	return ci, created, nil
}

func (r *PostgresCategoryImportanceRepository) UpdateByID(ctx context.Context, userID, id int64, importance int) (interest.CategoryImportance, error) {
	row := r.db.QueryRow(ctx,
		`WITH up AS (
			UPDATE user_category_importances
			SET importance = $3, updated_at = now()
			WHERE id = $1 AND user_id = $2
			RETURNING id, user_id, category_id, importance, created_at, updated_at
		)
		SELECT up.id, up.user_id, up.category_id, c.name, up.importance, up.created_at, up.updated_at
		FROM up
		JOIN interest_categories c ON c.id = up.category_id`,
		id, userID, importance,
	)

	var ci interest.CategoryImportance
	if err := row.Scan(&ci.ID, &ci.UserID, &ci.CategoryID, &ci.CategoryName, &ci.Importance, &ci.CreatedAt, &ci.UpdatedAt); err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return interest.CategoryImportance{}, ErrNotFound
		}
		return interest.CategoryImportance{}, err
	}
	return ci, nil
}

func scanImportances(rows database.Rows) ([]interest.CategoryImportance, error) {
	defer rows.Close()

	out := make([]interest.CategoryImportance, 0)
	for rows.Next() {
		var ci interest.CategoryImportance
		if err := rows.Scan(&ci.ID, &ci.UserID, &ci.CategoryID, &ci.CategoryName, &ci.Importance, &ci.CreatedAt, &ci.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, ci)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
