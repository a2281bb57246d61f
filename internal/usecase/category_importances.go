package usecase

import (
	"context"
	"fmt"
	"slices"

	"interest-match/internal/domain/interest"
	"interest-match/internal/pkg/logger"
	"interest-match/internal/repository"
)

// ImportanceEntry is one item of a batch. When ID is set the entry updates
// that existing row; otherwise it upserts on (user, category).
type ImportanceEntry struct {
	ID         *int64
	CategoryID int64
	Importance int
}

type BatchResult struct {
	Created []interest.CategoryImportance
	Updated []interest.CategoryImportance
}

type CategoryImportanceUsecase interface {
	List(ctx context.Context, userID int64) ([]interest.CategoryImportance, error)
	Upsert(ctx context.Context, userID, categoryID int64, importance int) (interest.CategoryImportance, bool, error)
	BatchUpsert(ctx context.Context, userID int64, entries []ImportanceEntry) (BatchResult, error)
}

type CategoryImportances struct {
	store repository.TxRunner
	repos repository.Repositories
	log   *logger.Logger
}

func NewCategoryImportances(store repository.TxRunner, repos repository.Repositories, log *logger.Logger) *CategoryImportances {
	if log == nil {
		log = logger.Nop()
	}
	return &CategoryImportances{store: store, repos: repos, log: log}
}

func (u *CategoryImportances) List(ctx context.Context, userID int64) ([]interest.CategoryImportance, error) {
	items, err := u.repos.Importances.List(ctx, userID)
	if err != nil {
		return nil, internal("list category importances", err)
	}
	return items, nil
}

func (u *CategoryImportances) Upsert(ctx context.Context, userID, categoryID int64, importance int) (interest.CategoryImportance, bool, error) {
	verr := &ValidationError{}
	if categoryID <= 0 {
		verr.Add("category_id", "must be a positive integer", categoryID)
	}
	if !interest.ValidImportance(importance) {
		verr.Add("importance", importanceRangeMessage)
	}
	if err := verr.Err(); err != nil {
		return interest.CategoryImportance{}, false, err
	}

	var out interest.CategoryImportance
	var created bool
	err := u.store.InTx(ctx, func(r repository.Repositories) error {
		if err := lockUser(ctx, r, userID); err != nil {
			return err
		}
		missing, err := missingIDs(ctx, []int64{categoryID}, r.Catalog.ExistingCategoryIDs)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return notFound("category", categoryID)
		}

		out, created, err = r.Importances.Upsert(ctx, userID, categoryID, importance)
		if err != nil {
			if repository.IsForeignKeyViolation(err) {
				return notFound("category", categoryID)
			}
			return internal("upsert category importance", err)
		}
		return nil
	})
	if err != nil {
		return interest.CategoryImportance{}, false, passThrough("upsert category importance", err)
	}
	return out, created, nil
}

var importanceRangeMessage = fmt.Sprintf("must be between %d and %d", interest.MinImportance, interest.MaxImportance)

// BatchUpsert applies all entries in one transaction or none of them.
// Validation problems are reported together; entries naming rows the caller
// does not own fail the whole batch with a NotFoundError listing those ids.
func (u *CategoryImportances) BatchUpsert(ctx context.Context, userID int64, entries []ImportanceEntry) (BatchResult, error) {
	verr := &ValidationError{}
	if len(entries) == 0 {
		verr.Add("items", "must not be empty")
		return BatchResult{}, verr
	}

	var categoryIDs, rowIDs, dupCategories, dupIDs []int64
	for i, e := range entries {
		if e.CategoryID <= 0 {
			verr.Add(fmt.Sprintf("items[%d].category_id", i), "must be a positive integer", e.CategoryID)
		} else if slices.Contains(categoryIDs, e.CategoryID) {
			if !slices.Contains(dupCategories, e.CategoryID) {
				dupCategories = append(dupCategories, e.CategoryID)
			}
		} else {
			categoryIDs = append(categoryIDs, e.CategoryID)
		}

		if !interest.ValidImportance(e.Importance) {
			verr.Add(fmt.Sprintf("items[%d].importance", i), importanceRangeMessage)
		}

		if e.ID != nil {
			switch {
			case *e.ID <= 0:
				verr.Add(fmt.Sprintf("items[%d].id", i), "must be a positive integer", *e.ID)
			case slices.Contains(rowIDs, *e.ID):
				if !slices.Contains(dupIDs, *e.ID) {
					dupIDs = append(dupIDs, *e.ID)
				}
			default:
				rowIDs = append(rowIDs, *e.ID)
			}
		}
	}
	if len(dupCategories) > 0 {
		verr.Add("items", "duplicate category ids", dupCategories...)
	}
	if len(dupIDs) > 0 {
		verr.Add("items", "duplicate ids", dupIDs...)
	}

	var res BatchResult
	err := u.store.InTx(ctx, func(r repository.Repositories) error {
		if err := lockUser(ctx, r, userID); err != nil {
			return err
		}

		missing, err := missingIDs(ctx, categoryIDs, r.Catalog.ExistingCategoryIDs)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			verr.Add("items", "unknown category ids", missing...)
		}

		owned, err := r.Importances.FindByIDs(ctx, userID, rowIDs)
		if err != nil {
			return internal("read category importances", err)
		}
		byID := make(map[int64]interest.CategoryImportance, len(owned))
		for _, ci := range owned {
			byID[ci.ID] = ci
		}

		var notOwned []int64
		for i, e := range entries {
			if e.ID == nil || *e.ID <= 0 {
				continue
			}
			row, ok := byID[*e.ID]
			if !ok {
				if !slices.Contains(notOwned, *e.ID) {
					notOwned = append(notOwned, *e.ID)
				}
				continue
			}
			if row.CategoryID != e.CategoryID {
				verr.Add(fmt.Sprintf("items[%d].category_id", i), "does not match the category of the existing row", *e.ID)
			}
		}
		if err := verr.Err(); err != nil {
			return err
		}
		if len(notOwned) > 0 {
			slices.Sort(notOwned)
			return notFound("category importance", notOwned...)
		}

		for _, e := range entries {
			if e.ID != nil {
				ci, err := r.Importances.UpdateByID(ctx, userID, *e.ID, e.Importance)
				if err != nil {
					return internal("update category importance", err)
				}
				res.Updated = append(res.Updated, ci)
				continue
			}
			ci, created, err := r.Importances.Upsert(ctx, userID, e.CategoryID, e.Importance)
			if err != nil {
				return internal("upsert category importance", err)
			}
			if created {
				res.Created = append(res.Created, ci)
			} else {
				res.Updated = append(res.Updated, ci)
			}
		}
		return nil
	})
	if err != nil {
		return BatchResult{}, passThrough("batch upsert category importances", err)
	}

	if res.Created == nil {
		res.Created = []interest.CategoryImportance{}
	}
	if res.Updated == nil {
		res.Updated = []interest.CategoryImportance{}
	}
	return res, nil
}
