package postgres

import (
	"context"
	"errors"

	"interest-match/internal/database"
	"interest-match/internal/domain/user"
	"interest-match/internal/repository"

	"github.com/google/uuid"
)

type UserRepository struct {
	db database.Querier
}

func NewUserRepository(db database.Querier) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, public_id, email, password_hash, created_at, updated_at`

func (r *UserRepository) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.PublicID == uuid.Nil {
		u.PublicID = uuid.New()
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO users (public_id, email, password_hash) VALUES ($1, $2, $3)
		 RETURNING `+userColumns,
		u.PublicID, u.Email, u.PasswordHash,
	)
	created, err := scanUser(row)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return user.User{}, user.ErrEmailTaken
		}
		return user.User{}, err
	}
	return created, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) GetUserByPublicID(ctx context.Context, publicID uuid.UUID) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE public_id = $1`, publicID))
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	if err := row.Scan(&u.ID, &u.PublicID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}
