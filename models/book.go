package models

import (
	"strconv"
	"strings"
	"time"
)

type Book struct {
	ID        Id        `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Author    string    `json:"author" db:"author"`
	Genre     string    `json:"genre" db:"genre"`
	Year      *int      `json:"year,omitempty" db:"year"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// YearInput holds submitted year text that is not a number, so a
	// redisplayed form shows what was typed.
	YearInput string `json:"-" db:"-"`
}

// YearString returns the year for form inputs, or "" when unset.
func (b Book) YearString() string {
	if b.YearInput != "" {
		return b.YearInput
	}
	if b.Year == nil {
		return ""
	}
	return strconv.Itoa(*b.Year)
}

// IsNew reports whether the book has never been assigned an identifier.
func (b Book) IsNew() bool {
	return b.ID == ""
}

// BookFields is the set of submitted form fields. A nil field was not
// submitted and leaves the corresponding attribute untouched on update.
type BookFields struct {
	Title  *string `form:"title" json:"title"`
	Author *string `form:"author" json:"author"`
	Genre  *string `form:"genre" json:"genre"`
	Year   *string `form:"year" json:"year"`
}

// NewBookFields builds a fully populated field set, mostly useful in tests.
func NewBookFields(title, author, genre, year string) BookFields {
	return BookFields{Title: &title, Author: &author, Genre: &genre, Year: &year}
}

// ApplyTo merges the submitted fields onto book. A year that does not parse
// as an integer leaves the year unset and is kept in YearInput; callers that
// persist must validate first.
func (f BookFields) ApplyTo(book Book) Book {
	if f.Title != nil {
		book.Title = *f.Title
	}
	if f.Author != nil {
		book.Author = *f.Author
	}
	if f.Genre != nil {
		book.Genre = *f.Genre
	}
	if f.Year != nil {
		year := strings.TrimSpace(*f.Year)
		book.YearInput = ""
		if n, err := strconv.Atoi(year); err == nil {
			book.Year = &n
		} else {
			book.Year = nil
			if year != "" {
				book.YearInput = *f.Year
			}
		}
	}
	return book
}
