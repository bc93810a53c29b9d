package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/balkashynov/jornada/internal/tracker"
)

// classify wraps a driver error in a tracker.StoreError, telling permission
// problems apart from missing rows and transient failures
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	return &tracker.StoreError{Op: op, Kind: kindOf(err), Err: err}
}

func kindOf(err error) tracker.StoreErrorKind {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tracker.StoreNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return tracker.StoreConflict
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return tracker.StoreUnavailable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "42501" || pgErr.Code == "28000" || pgErr.Code == "28P01":
			return tracker.StorePermission
		case pgErr.Code == "23505" || pgErr.Code == "40001" || pgErr.Code == "40P01":
			return tracker.StoreConflict
		case strings.HasPrefix(pgErr.Code, "08") || pgErr.Code == "57P01" || pgErr.Code == "53300":
			return tracker.StoreUnavailable
		}
		return tracker.StoreOther
	}

	// SQLite reports through error text only
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "readonly") || strings.Contains(msg, "permission denied") || strings.Contains(msg, "unable to open"):
		return tracker.StorePermission
	case strings.Contains(msg, "database is locked") || strings.Contains(msg, "sqlite_busy"):
		return tracker.StoreUnavailable
	case strings.Contains(msg, "unique constraint"):
		return tracker.StoreConflict
	}
	return tracker.StoreOther
}
