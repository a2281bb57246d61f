package repository

import (
	"context"

	"interest-match/internal/database"
	"interest-match/internal/domain/interest"
)

type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]interest.Category, error)
	ListInterests(ctx context.Context) ([]interest.Interest, error)
	// ExistingInterestIDs returns the subset of ids present in the catalog.
	ExistingInterestIDs(ctx context.Context, ids []int64) ([]int64, error)
	ExistingCategoryIDs(ctx context.Context, ids []int64) ([]int64, error)
}

type PostgresCatalogRepository struct {
	db database.Querier
}

func NewPostgresCatalogRepository(db database.Querier) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{db: db}
}

func (r *PostgresCatalogRepository) ListCategories(ctx context.Context) ([]interest.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM interest_categories ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]interest.Category, 0)
	for rows.Next() {
		var c interest.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCatalogRepository) ListInterests(ctx context.Context) ([]interest.Interest, error) {
	rows, err := r.db.Query(ctx,
		`SELECT i.id, i.name, i.category_id, c.name
		 FROM interests i
		 JOIN interest_categories c ON c.id = i.category_id
		 ORDER BY c.name ASC, i.name ASC, i.id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]interest.Interest, 0)
	for rows.Next() {
		var it interest.Interest
		if err := rows.Scan(&it.ID, &it.Name, &it.CategoryID, &it.CategoryName); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCatalogRepository) ExistingInterestIDs(ctx context.Context, ids []int64) ([]int64, error) {
	return r.existing(ctx, `SELECT id FROM interests WHERE id = ANY($1) ORDER BY id`, ids)
}

func (r *PostgresCatalogRepository) ExistingCategoryIDs(ctx context.Context, ids []int64) ([]int64, error) {
	return r.existing(ctx, `SELECT id FROM interest_categories WHERE id = ANY($1) ORDER BY id`, ids)
}

func (r *PostgresCatalogRepository) existing(ctx context.Context, query string, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return []int64{}, nil
	}
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	return scanIDs(rows)
}

func scanIDs(rows database.Rows) ([]int64, error) {
	defer rows.Close()

	out := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
