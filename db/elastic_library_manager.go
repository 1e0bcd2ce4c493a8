package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"books/models"

	"github.com/google/uuid"
	"github.com/olivere/elastic/v7"
)

const scrollPageSize = 500

const booksMapping = `{
	"mappings": {
		"properties": {
			"title":     {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
			"author":    {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
			"genre":     {"type": "keyword"},
			"year":      {"type": "integer"},
			"createdAt": {"type": "date"},
			"updatedAt": {"type": "date"}
		}
	}
}`

// ElasticLibraryManager stores one document per book, keyed by the book id.
type ElasticLibraryManager struct {
	IndexName     string
	ElasticClient *elastic.Client
	now           func() time.Time
}

func CreateElasticLibrary(indexName string, elasticClient *elastic.Client) *ElasticLibraryManager {
	return &ElasticLibraryManager{
		IndexName:     indexName,
		ElasticClient: elasticClient,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (library *ElasticLibraryManager) Migrate(ctx context.Context) error {
	exists, err := library.ElasticClient.IndexExists(library.IndexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("check index %s: %w", library.IndexName, err)
	}
	if exists {
		return nil
	}

	if _, err := library.ElasticClient.CreateIndex(library.IndexName).BodyString(booksMapping).Do(ctx); err != nil {
		return fmt.Errorf("create index %s: %w", library.IndexName, err)
	}

	return nil
}

func (library *ElasticLibraryManager) Ping(ctx context.Context) error {
	_, err := library.ElasticClient.IndexExists(library.IndexName).Do(ctx)
	return err
}

// FindAll pages through the whole index with a scroll cursor.
func (library *ElasticLibraryManager) FindAll(ctx context.Context) ([]models.Book, error) {
	scroll := library.ElasticClient.Scroll(library.IndexName).
		Query(elastic.NewMatchAllQuery()).
		Size(scrollPageSize).
		KeepAlive("1m")
	defer func() { _ = scroll.Clear(context.WithoutCancel(ctx)) }()

	books := []models.Book{}
	for {
		result, err := scroll.Do(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if elastic.IsNotFound(err) {
			return []models.Book{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("scroll books: %w", err)
		}

		for _, hit := range result.Hits.Hits {
			var book models.Book
			if err := json.Unmarshal(hit.Source, &book); err != nil {
				return nil, fmt.Errorf("decode book %s: %w", hit.Id, err)
			}
			book.ID = models.Id(hit.Id)
			books = append(books, book)
		}
	}

	sortBooks(books)
	return books, nil
}

func (library *ElasticLibraryManager) FindByPk(ctx context.Context, id models.Id) (models.Book, bool, error) {
	doc, err := library.ElasticClient.
		Get().
		Index(library.IndexName).
		Id(string(id)).
		Do(ctx)
	if elastic.IsNotFound(err) {
		return models.Book{}, false, nil
	}
	if err != nil {
		return models.Book{}, false, fmt.Errorf("get book %s: %w", id, err)
	}
	if !doc.Found {
		return models.Book{}, false, nil
	}

	var book models.Book
	if err := json.Unmarshal(doc.Source, &book); err != nil {
		return models.Book{}, false, fmt.Errorf("decode book %s: %w", id, err)
	}
	book.ID = id

	return book, true, nil
}

func (library *ElasticLibraryManager) Create(ctx context.Context, fields models.BookFields) models.Result {
	book, messages := validateBook(models.Book{}, fields)
	if len(messages) > 0 {
		return models.ValidationFailed(messages...)
	}

	now := library.now()
	book.ID = models.Id(uuid.NewString())
	book.CreatedAt = now
	book.UpdatedAt = now

	_, err := library.ElasticClient.Index().
		Index(library.IndexName).
		Id(string(book.ID)).
		BodyJson(book).
		Refresh("wait_for").
		Do(ctx)
	if err != nil {
		return models.StorageFailed(fmt.Errorf("index book: %w", err))
	}

	return models.Ok(book)
}

func (library *ElasticLibraryManager) Build(fields models.BookFields) models.Book {
	return fields.ApplyTo(models.Book{})
}

func (library *ElasticLibraryManager) Update(ctx context.Context, existing models.Book, fields models.BookFields) models.Result {
	book, messages := validateBook(existing, fields)
	if len(messages) > 0 {
		return models.ValidationFailed(messages...)
	}
	book.UpdatedAt = library.now()

	_, err := library.ElasticClient.
		Update().
		Index(library.IndexName).
		Id(string(existing.ID)).
		Doc(map[string]interface{}{
			"title":     book.Title,
			"author":    book.Author,
			"genre":     book.Genre,
			"year":      book.Year,
			"updatedAt": book.UpdatedAt,
		}).
		Refresh("wait_for").
		Do(ctx)
	// a book deleted in the meantime stays deleted
	if elastic.IsNotFound(err) {
		return models.Ok(book)
	}
	if err != nil {
		return models.StorageFailed(fmt.Errorf("update book %s: %w", existing.ID, err))
	}

	return models.Ok(book)
}

func (library *ElasticLibraryManager) Destroy(ctx context.Context, existing models.Book) error {
	_, err := library.ElasticClient.
		Delete().
		Index(library.IndexName).
		Id(string(existing.ID)).
		Refresh("wait_for").
		Do(ctx)
	if err != nil && !elastic.IsNotFound(err) {
		return fmt.Errorf("delete book %s: %w", existing.ID, err)
	}

	return nil
}
