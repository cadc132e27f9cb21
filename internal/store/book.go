package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/WaelFer/BooksApp/internal/log"
	"github.com/WaelFer/BooksApp/internal/model"
)

const bookColumns = `id, title, author, country, language, link, pages, publishedDate, prix, image`

// sortableBookColumns guards ORDER BY against injection.
var sortableBookColumns = map[string]string{
	"id":            "id",
	"title":         "title",
	"author":        "author",
	"pages":         "pages",
	"publishedDate": "publishedDate",
	"prix":          "prix",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*model.Book, error) {
	var book model.Book
	if err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Country,
		&book.Language,
		&book.Link,
		&book.Pages,
		&book.PublishedDate,
		&book.Prix,
		&book.Image,
	); err != nil {
		return nil, err
	}
	return &book, nil
}

// InsertBook stores a new book and returns it with the engine-assigned id.
func (s *Store) InsertBook(ctx context.Context, create *model.NewBookInput) (*model.Book, error) {
	if err := create.Validate(); err != nil {
		return nil, invalid(err)
	}

	stmt := `
        INSERT INTO books (
            title,
            author,
            country,
            language,
            link,
            pages,
            publishedDate,
            prix,
            image
        ) VALUES (?,?,?,?,?,?,?,?,?)
        RETURNING ` + bookColumns
	args := []any{
		create.Title,
		create.Author,
		create.Country,
		create.Language,
		create.Link,
		create.Pages,
		create.PublishedDate,
		create.Prix,
		create.Image,
	}

	s.dbLock.Lock()
	defer s.dbLock.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, persistence("insert book", err)
	}
	defer tx.Rollback()

	logQuery(stmt, args)

	book, err := scanBook(tx.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		return nil, persistence("insert book", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, persistence("insert book", err)
	}

	log.Info("Book added", zap.Int("bookID", book.ID), zap.String("title", book.Title))
	return book, nil
}

// ListBooks returns the matching books, in insertion order unless
// find.OrderBy says otherwise. No match yields an empty slice.
func (s *Store) ListBooks(ctx context.Context, find *model.FindBook) ([]*model.Book, error) {
	if find == nil {
		find = &model.FindBook{}
	}

	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.Title; v != nil {
		where, args = append(where, "title = ?"), append(args, *v)
	}
	if v := find.Author; v != nil {
		where, args = append(where, "author = ?"), append(args, *v)
	}

	orderBy := "id ASC"
	if v := find.OrderBy; v != nil && *v != "" {
		clause, err := bookOrderClause(*v)
		if err != nil {
			return nil, err
		}
		orderBy = clause
	}

	query := `
        SELECT ` + bookColumns + `
        FROM books
        WHERE ` + strings.Join(where, " AND ") + ` ORDER BY ` + orderBy

	paging, err := pagingClause(find.Limit, find.Offset)
	if err != nil {
		return nil, err
	}
	query += paging

	logQuery(query, args)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistence("list books", err)
	}
	defer rows.Close()

	list := make([]*model.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, persistence("scan book", err)
		}
		list = append(list, book)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("list books", err)
	}

	return list, nil
}

// GetBook returns the book with the given id.
func (s *Store) GetBook(ctx context.Context, id int) (*model.Book, error) {
	if id <= 0 {
		return nil, invalidf("book id %d is not a positive integer", id)
	}
	if cache, ok := s.BookCache.Load(id); ok {
		return cache.(*model.Book).Clone(), nil
	}

	list, err := s.ListBooks(ctx, &model.FindBook{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, notFoundf("book %d", id)
	}

	book := list[0]
	s.cacheBook(book)
	return book, nil
}

// UpdateBook applies the non-nil fields of update and returns the stored row.
func (s *Store) UpdateBook(ctx context.Context, update *model.UpdateBook) (*model.Book, error) {
	if err := update.Validate(); err != nil {
		return nil, invalid(err)
	}
	if update.IsEmpty() {
		return s.GetBook(ctx, update.ID)
	}

	set, args := []string{}, []any{}
	if v := update.Title; v != nil {
		set, args = append(set, "title = ?"), append(args, *v)
	}
	if v := update.Author; v != nil {
		set, args = append(set, "author = ?"), append(args, *v)
	}
	if v := update.Country; v != nil {
		set, args = append(set, "country = ?"), append(args, *v)
	}
	if v := update.Language; v != nil {
		set, args = append(set, "language = ?"), append(args, *v)
	}
	if v := update.Link; v != nil {
		set, args = append(set, "link = ?"), append(args, *v)
	}
	if v := update.Pages; v != nil {
		set, args = append(set, "pages = ?"), append(args, *v)
	}
	if v := update.PublishedDate; v != nil {
		set, args = append(set, "publishedDate = ?"), append(args, *v)
	}
	if v := update.Prix; v != nil {
		set, args = append(set, "prix = ?"), append(args, *v)
	}
	if v := update.Image; v != nil {
		set, args = append(set, "image = ?"), append(args, *v)
	}
	args = append(args, update.ID)

	stmt := `
        UPDATE books SET ` + strings.Join(set, ", ") + `
        WHERE id = ?
        RETURNING ` + bookColumns

	s.dbLock.Lock()
	defer s.dbLock.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, persistence("update book", err)
	}
	defer tx.Rollback()

	logQuery(stmt, args)

	book, err := scanBook(tx.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("book %d", update.ID)
		}
		return nil, persistence("update book", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, persistence("update book", err)
	}

	s.cacheBook(book)
	log.Info("Book updated", zap.Int("bookID", book.ID))
	return book, nil
}

// DeleteBook removes a book. Nothing cascades to carts: a book still
// referenced by a cart row is refused so no cart item is left dangling.
func (s *Store) DeleteBook(ctx context.Context, id int) error {
	if id <= 0 {
		return invalidf("book id %d is not a positive integer", id)
	}

	s.dbLock.Lock()
	defer s.dbLock.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return persistence("delete book", err)
	}
	defer tx.Rollback()

	var referenced bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM carts WHERE Book_id = ?)`, id).Scan(&referenced); err != nil {
		return persistence("delete book", err)
	}
	if referenced {
		return invalidf("book %d is referenced by cart items", id)
	}

	stmt := `DELETE FROM books WHERE id = ?`
	args := []any{id}
	logQuery(stmt, args)

	result, err := tx.ExecContext(ctx, stmt, args...)
	if err != nil {
		return persistence("delete book", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return persistence("delete book", err)
	}
	if affected == 0 {
		return notFoundf("book %d", id)
	}
	if err := tx.Commit(); err != nil {
		return persistence("delete book", err)
	}

	s.BookCache.Delete(id)
	log.Info("Book deleted", zap.Int("bookID", id))
	return nil
}

// CountBooks returns the number of stored books.
func (s *Store) CountBooks(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&count); err != nil {
		return 0, persistence("count books", err)
	}
	return count, nil
}

func (s *Store) cacheBook(book *model.Book) {
	s.BookCache.Store(book.ID, book.Clone())
}

func bookOrderClause(orderBy string) (string, error) {
	direction := "ASC"
	column := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		column = strings.TrimPrefix(orderBy, "-")
	}
	safe, ok := sortableBookColumns[column]
	if !ok {
		return "", invalidf("cannot order books by %q", column)
	}
	if safe == "id" {
		return fmt.Sprintf("id %s", direction), nil
	}
	// id breaks ties so equal keys keep insertion order.
	return fmt.Sprintf("%s %s, id ASC", safe, direction), nil
}

func pagingClause(limit, offset *int) (string, error) {
	if limit == nil && offset == nil {
		return "", nil
	}
	// sqlite needs a LIMIT before OFFSET, -1 means unbounded.
	l := -1
	if limit != nil {
		if *limit < 0 {
			return "", invalidf("limit %d is negative", *limit)
		}
		l = *limit
	}
	clause := fmt.Sprintf(" LIMIT %d", l)
	if offset != nil {
		if *offset < 0 {
			return "", invalidf("offset %d is negative", *offset)
		}
		clause += fmt.Sprintf(" OFFSET %d", *offset)
	}
	return clause, nil
}
