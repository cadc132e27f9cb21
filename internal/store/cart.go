package store

import (
	"context"
	"strings"

	"go.uber.org/zap"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/WaelFer/BooksApp/internal/log"
	"github.com/WaelFer/BooksApp/internal/model"
)

// AddCartItem puts a book in the cart. The book must exist.
func (s *Store) AddCartItem(ctx context.Context, create *model.NewCartItem) (*model.CartItem, error) {
	if err := create.Validate(); err != nil {
		return nil, invalid(err)
	}

	stmt := `
		INSERT INTO carts (
			quantite,
			Book_id
		) VALUES (?,?)
		RETURNING id, quantite, Book_id`
	args := []any{create.Quantite, create.BookID}

	s.dbLock.Lock()
	defer s.dbLock.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, persistence("add cart item", err)
	}
	defer tx.Rollback()

	// foreign_keys may be off on handles not opened by store/db.
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM books WHERE id = ?)`, create.BookID).Scan(&exists); err != nil {
		return nil, persistence("add cart item", err)
	}
	if !exists {
		return nil, notFoundf("book %d", create.BookID)
	}

	logQuery(stmt, args)

	var item model.CartItem
	if err := tx.QueryRowContext(ctx, stmt, args...).Scan(&item.ID, &item.Quantite, &item.BookID); err != nil {
		if code, ok := sqliteCode(err); ok && code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
			return nil, notFoundf("book %d", create.BookID)
		}
		return nil, persistence("add cart item", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, persistence("add cart item", err)
	}

	log.Info("Cart item added", zap.Int("cartItemID", item.ID), zap.Int("bookID", item.BookID))
	return &item, nil
}

// ListCartItems returns cart rows in insertion order.
func (s *Store) ListCartItems(ctx context.Context, find *model.FindCartItem) ([]*model.CartItem, error) {
	if find == nil {
		find = &model.FindCartItem{}
	}

	where, args := []string{"1 = 1"}, []any{}
	if v := find.BookID; v != nil {
		if *v <= 0 {
			return nil, invalidf("book id %d is not a positive integer", *v)
		}
		where, args = append(where, "Book_id = ?"), append(args, *v)
	}

	query := `
		SELECT
			id,
			quantite,
			Book_id
		FROM carts
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY id ASC`

	logQuery(query, args)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistence("list cart items", err)
	}
	defer rows.Close()

	list := make([]*model.CartItem, 0)
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.ID, &item.Quantite, &item.BookID); err != nil {
			return nil, persistence("scan cart item", err)
		}
		list = append(list, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("list cart items", err)
	}

	return list, nil
}
