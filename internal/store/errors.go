package store

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrDuplicate signals a uniqueness-constraint violation, e.g. the
	// (author, title) pair or a taxonomy name already existing.
	ErrDuplicate = errors.New("already exists")
	// ErrInUse signals a refused delete because other rows still reference
	// the record (taxonomy values on books, books with reviews).
	ErrInUse = errors.New("still referenced")
)

// isUniqueViolation reports whether err is Postgres error 23505.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
