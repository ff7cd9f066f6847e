package store

import (
	"context"
	"fmt"

	"readingtracker/internal/entity"

	"github.com/jackc/pgx/v5/pgxpool"
)

type UserPG struct {
	db *pgxpool.Pool
}

func NewUserPG(db *pgxpool.Pool) *UserPG {
	return &UserPG{db: db}
}

const userColumns = `
	id, username, email, password_hash, role,
	COALESCE(first_name, ''), COALESCE(last_name, ''), created_at`

func (r *UserPG) Create(ctx context.Context, u *entity.User) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, role, first_name, last_name)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))
		RETURNING id, created_at`,
		u.Username, u.Email, u.PasswordHash, u.Role, u.FirstName, u.LastName,
	).Scan(&u.ID, &u.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("user %q: %w", u.Username, ErrDuplicate)
	}
	return err
}

func (r *UserPG) GetByUsername(ctx context.Context, username string) (entity.User, error) {
	var u entity.User
	err := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
			&u.FirstName, &u.LastName, &u.CreatedAt)
	if err != nil {
		return entity.User{}, mapNoRows(err)
	}
	return u, nil
}

func (r *UserPG) GetByID(ctx context.Context, id int64) (entity.User, error) {
	var u entity.User
	err := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
			&u.FirstName, &u.LastName, &u.CreatedAt)
	if err != nil {
		return entity.User{}, mapNoRows(err)
	}
	return u, nil
}
