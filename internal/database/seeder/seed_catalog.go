package seeder

import (
	"context"

	"interest-match/internal/database"
)

type CategorySeed struct {
	Name      string
	Interests []string
}

var DefaultCatalog = []CategorySeed{
	{Name: "Music", Interests: []string{"Jazz", "Rock", "Classical", "Hip Hop", "Electronic"}},
	{Name: "Sports", Interests: []string{"Football", "Basketball", "Tennis", "Running", "Climbing"}},
	{Name: "Technology", Interests: []string{"Programming", "Artificial Intelligence", "Gadgets", "Open Source"}},
	{Name: "Arts", Interests: []string{"Painting", "Photography", "Theatre", "Writing"}},
	{Name: "Outdoors", Interests: []string{"Hiking", "Camping", "Cycling", "Fishing"}},
	{Name: "Food", Interests: []string{"Cooking", "Baking", "Coffee", "Wine"}},
	{Name: "Games", Interests: []string{"Board Games", "Video Games", "Chess"}},
}

// CatalogSeeder inserts categories and their interests. Existing rows are
// left untouched, so running it again is a no-op.
type CatalogSeeder struct {
	Categories []CategorySeed
}

func (CatalogSeeder) Name() string { return "catalog" }

func (s CatalogSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "interest_categories", "id", "name"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "interests", "id", "name", "category_id"); err != nil {
		return err
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, cat := range s.Categories {
			if _, err := tx.Exec(ctx,
				`INSERT INTO interest_categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`,
				cat.Name,
			); err != nil {
				return err
			}

			var categoryID int64
			if err := tx.QueryRow(ctx, `SELECT id FROM interest_categories WHERE name = $1`, cat.Name).Scan(&categoryID); err != nil {
				return err
			}

			for _, name := range cat.Interests {
				if _, err := tx.Exec(ctx,
					`INSERT INTO interests (name, category_id) VALUES ($1, $2) ON CONFLICT (name, category_id) DO NOTHING`,
					name, categoryID,
				); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
