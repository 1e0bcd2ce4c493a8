package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"books/models"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	tableBooks   = "books"
	colID        = "id"
	colTitle     = "title"
	colAuthor    = "author"
	colGenre     = "genre"
	colYear      = "year"
	colCreatedAt = "created_at"
	colUpdatedAt = "updated_at"
)

var bookColumns = []interface{}{colID, colTitle, colAuthor, colGenre, colYear, colCreatedAt, colUpdatedAt}

const createBooksTable = `CREATE TABLE IF NOT EXISTS books (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL CHECK (title <> ''),
	author TEXT NOT NULL CHECK (author <> ''),
	genre TEXT NOT NULL DEFAULT '',
	year INTEGER,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// SQLLibraryManager stores books in a relational table. Queries are built
// with goqu for the configured dialect and executed through sqlx.
type SQLLibraryManager struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
	now     func() time.Time
}

func CreateSQLLibrary(db *sqlx.DB, dialect string) *SQLLibraryManager {
	return &SQLLibraryManager{
		db:      db,
		dialect: goqu.Dialect(dialect),
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (library *SQLLibraryManager) Migrate(ctx context.Context) error {
	if _, err := library.db.ExecContext(ctx, createBooksTable); err != nil {
		return fmt.Errorf("create books table: %w", err)
	}
	return nil
}

func (library *SQLLibraryManager) Ping(ctx context.Context) error {
	return library.db.PingContext(ctx)
}

func (library *SQLLibraryManager) Close() error {
	return library.db.Close()
}

func (library *SQLLibraryManager) FindAll(ctx context.Context) ([]models.Book, error) {
	query, args, err := library.dialect.
		From(tableBooks).
		Select(bookColumns...).
		Order(goqu.I(colCreatedAt).Asc(), goqu.I(colID).Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select books: %w", err)
	}

	books := make([]models.Book, 0)
	if err := library.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, fmt.Errorf("select books: %w", err)
	}

	return books, nil
}

func (library *SQLLibraryManager) FindByPk(ctx context.Context, id models.Id) (models.Book, bool, error) {
	query, args, err := library.dialect.
		From(tableBooks).
		Select(bookColumns...).
		Where(goqu.C(colID).Eq(string(id))).
		Limit(1).
		Prepared(true).
		ToSQL()
	if err != nil {
		return models.Book{}, false, fmt.Errorf("build select book: %w", err)
	}

	var book models.Book
	err = library.db.GetContext(ctx, &book, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Book{}, false, nil
	}
	if err != nil {
		return models.Book{}, false, fmt.Errorf("select book %s: %w", id, err)
	}

	return book, true, nil
}

func (library *SQLLibraryManager) Create(ctx context.Context, fields models.BookFields) models.Result {
	book, messages := validateBook(models.Book{}, fields)
	if len(messages) > 0 {
		return models.ValidationFailed(messages...)
	}

	now := library.now()
	book.ID = models.Id(uuid.NewString())
	book.CreatedAt = now
	book.UpdatedAt = now

	record := bookRecord(book)
	record[colID] = string(book.ID)
	record[colCreatedAt] = book.CreatedAt

	query, args, err := library.dialect.
		Insert(tableBooks).
		Rows(record).
		Prepared(true).
		ToSQL()
	if err != nil {
		return models.StorageFailed(fmt.Errorf("build insert book: %w", err))
	}

	if _, err := library.db.ExecContext(ctx, query, args...); err != nil {
		return models.StorageFailed(fmt.Errorf("insert book: %w", err))
	}

	return models.Ok(book)
}

func (library *SQLLibraryManager) Build(fields models.BookFields) models.Book {
	return fields.ApplyTo(models.Book{})
}

func (library *SQLLibraryManager) Update(ctx context.Context, existing models.Book, fields models.BookFields) models.Result {
	book, messages := validateBook(existing, fields)
	if len(messages) > 0 {
		return models.ValidationFailed(messages...)
	}
	book.UpdatedAt = library.now()

	query, args, err := library.dialect.
		Update(tableBooks).
		Set(bookRecord(book)).
		Where(goqu.C(colID).Eq(string(existing.ID))).
		Prepared(true).
		ToSQL()
	if err != nil {
		return models.StorageFailed(fmt.Errorf("build update book: %w", err))
	}

	if _, err := library.db.ExecContext(ctx, query, args...); err != nil {
		return models.StorageFailed(fmt.Errorf("update book %s: %w", existing.ID, err))
	}

	return models.Ok(book)
}

func (library *SQLLibraryManager) Destroy(ctx context.Context, existing models.Book) error {
	query, args, err := library.dialect.
		Delete(tableBooks).
		Where(goqu.C(colID).Eq(string(existing.ID))).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete book: %w", err)
	}

	if _, err := library.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete book %s: %w", existing.ID, err)
	}

	return nil
}

// bookRecord holds the columns written on both insert and update.
func bookRecord(book models.Book) goqu.Record {
	var year interface{}
	if book.Year != nil {
		year = *book.Year
	}

	return goqu.Record{
		colTitle:     book.Title,
		colAuthor:    book.Author,
		colGenre:     book.Genre,
		colYear:      year,
		colUpdatedAt: book.UpdatedAt,
	}
}
