package store // import "github.com/WaelFer/BooksApp/internal/store"

import (
	"context"
	"database/sql"
	"sync"

	"go.uber.org/zap"

	"github.com/WaelFer/BooksApp/internal/log"
)

// Store is the typed facade over the catalog database. The handle is passed
// in so tests can hand it any opened database.
type Store struct {
	db        *sql.DB
	dbLock    sync.Mutex // dbLock serializes writes
	BookCache sync.Map   // map[int]*model.Book
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db: db,
	}
}

func (s *Store) DBStats() sql.DBStats {
	return s.db.Stats()
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return persistence("ping", err)
	}
	return nil
}

// Close drops cached rows. The handle itself belongs to whoever opened it.
func (s *Store) Close() {
	s.BookCache.Range(func(key, _ any) bool {
		s.BookCache.Delete(key)
		return true
	})
}

func logQuery(query string, args []any) {
	log.Debug("SQL query and args", zap.String("query", query), zap.Any("args", args))
}
