package models

import "strings"

type Stats struct {
	NumberOfBooks   int `json:"number_of_books"`
	NumberOfAuthors int `json:"number_of_authors"`
}

// StatsOf counts books and distinct authors, ignoring case and surrounding
// whitespace in author names.
func StatsOf(books []Book) Stats {
	authors := make(map[string]struct{}, len(books))
	for _, book := range books {
		authors[strings.ToLower(strings.TrimSpace(book.Author))] = struct{}{}
	}

	return Stats{NumberOfBooks: len(books), NumberOfAuthors: len(authors)}
}
