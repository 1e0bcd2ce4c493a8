package db

import (
	"context"
	"sort"
	"time"

	"books/models"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
)

// MemoryLibraryManager keeps books in a concurrent map. Nothing survives a
// restart.
type MemoryLibraryManager struct {
	books *xsync.MapOf[models.Id, models.Book]
	now   func() time.Time
}

func CreateMemoryLibrary() *MemoryLibraryManager {
	return &MemoryLibraryManager{
		books: xsync.NewMapOf[models.Id, models.Book](),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (library *MemoryLibraryManager) FindAll(_ context.Context) ([]models.Book, error) {
	books := make([]models.Book, 0, library.books.Size())
	library.books.Range(func(_ models.Id, book models.Book) bool {
		books = append(books, book)
		return true
	})

	sortBooks(books)
	return books, nil
}

func (library *MemoryLibraryManager) FindByPk(_ context.Context, id models.Id) (models.Book, bool, error) {
	book, ok := library.books.Load(id)
	return book, ok, nil
}

func (library *MemoryLibraryManager) Create(_ context.Context, fields models.BookFields) models.Result {
	book, messages := validateBook(models.Book{}, fields)
	if len(messages) > 0 {
		return models.ValidationFailed(messages...)
	}

	now := library.now()
	book.ID = models.Id(uuid.NewString())
	book.CreatedAt = now
	book.UpdatedAt = now

	library.books.Store(book.ID, book)
	return models.Ok(book)
}

func (library *MemoryLibraryManager) Build(fields models.BookFields) models.Book {
	return fields.ApplyTo(models.Book{})
}

// Update never resurrects a book destroyed after existing was read.
func (library *MemoryLibraryManager) Update(_ context.Context, existing models.Book, fields models.BookFields) models.Result {
	book, messages := validateBook(existing, fields)
	if len(messages) > 0 {
		return models.ValidationFailed(messages...)
	}
	book.UpdatedAt = library.now()

	library.books.Compute(existing.ID, func(_ models.Book, loaded bool) (models.Book, bool) {
		return book, !loaded
	})

	return models.Ok(book)
}

func (library *MemoryLibraryManager) Destroy(_ context.Context, existing models.Book) error {
	library.books.Delete(existing.ID)
	return nil
}

func sortBooks(books []models.Book) {
	sort.SliceStable(books, func(i, j int) bool {
		if !books[i].CreatedAt.Equal(books[j].CreatedAt) {
			return books[i].CreatedAt.Before(books[j].CreatedAt)
		}
		return books[i].ID < books[j].ID
	})
}
