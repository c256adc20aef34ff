package models

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ModelsToAutoMigrate lists every model for schema migration, ordered so
// referenced tables migrate first.
func ModelsToAutoMigrate() []interface{} {
	return []interface{}{
		&User{},
		&Section{},
		&Tag{},
		&Article{},
		&Attachment{},
		&ArticleHistory{},
		&Comment{},
		&Notification{},
	}
}

// IsNotFound reports whether err is the store's missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsUniqueViolation reports whether err is a unique-constraint violation,
// for Postgres (SQLSTATE 23505 via pgconn) and SQLite.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
