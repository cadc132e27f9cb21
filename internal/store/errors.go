package store

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"modernc.org/sqlite"

	"github.com/WaelFer/BooksApp/internal/log"
)

// Every error the store returns matches exactly one of these with errors.Is.
var (
	// ErrValidation means a required field is missing or a value has the
	// wrong shape. The caller should ask again rather than give up.
	ErrValidation = errors.New("validation failed")

	// ErrPersistence means the storage engine rejected a read or write.
	ErrPersistence = errors.New("storage failure")

	// ErrNotFound means a lookup by id matched no row.
	ErrNotFound = errors.New("not found")

	// ErrInitialization means the database could not be opened or its
	// schema could not be created. Nothing else may run after it.
	ErrInitialization = errors.New("database initialization failed")
)

func invalid(err error) error {
	return errors.Wrap(ErrValidation, err.Error())
}

func invalidf(format string, args ...any) error {
	return errors.Wrapf(ErrValidation, format, args...)
}

func notFoundf(format string, args ...any) error {
	return errors.Wrapf(ErrNotFound, format, args...)
}

// persistence logs the raw engine error and replaces it, so driver errors
// never reach callers.
func persistence(op string, err error) error {
	fields := []zap.Field{zap.String("op", op), zap.Error(err)}
	if code, ok := sqliteCode(err); ok {
		fields = append(fields, zap.Int("sqlite_code", code))
	}
	log.Error("Storage operation failed", fields...)
	return errors.Wrap(ErrPersistence, op)
}

func sqliteCode(err error) (int, bool) {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code(), true
	}
	return 0, false
}
