package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_BookFields_ApplyTo_OnlySubmittedFields(t *testing.T) {
	year := 1965
	book := Book{ID: "1", Title: "Dune", Author: "Herbert", Genre: "Sci-Fi", Year: &year}
	author := "Frank Herbert"

	updated := BookFields{Author: &author}.ApplyTo(book)

	assert.Equal(t, Id("1"), updated.ID)
	assert.Equal(t, "Dune", updated.Title)
	assert.Equal(t, "Frank Herbert", updated.Author)
	assert.Equal(t, "Sci-Fi", updated.Genre)
	assert.Equal(t, "1965", updated.YearString())
	assert.Equal(t, "Herbert", book.Author, "Should not modify the original book")
}

func Test_BookFields_ApplyTo_Year(t *testing.T) {
	assert.Equal(t, "1984", NewBookFields("", "", "", " 1984 ").ApplyTo(Book{}).YearString())
	assert.Equal(t, "", NewBookFields("", "", "", "").ApplyTo(Book{}).YearString())
	assert.Nil(t, NewBookFields("", "", "", "soon").ApplyTo(Book{}).Year)
}

func Test_BookFields_ApplyTo_KeepsUnparsedYearText(t *testing.T) {
	book := NewBookFields("", "", "", "nineteen").ApplyTo(Book{})

	assert.Nil(t, book.Year)
	assert.Equal(t, "nineteen", book.YearString())

	fixed := NewBookFields("", "", "", "1965").ApplyTo(book)
	assert.Equal(t, "1965", fixed.YearString())
	assert.Empty(t, fixed.YearInput)
}

func Test_Book_IsNew(t *testing.T) {
	assert.True(t, Book{}.IsNew())
	assert.False(t, Book{ID: "1"}.IsNew())
}

func Test_Result_Variants(t *testing.T) {
	assert.Equal(t, OutcomeOk, Ok(Book{ID: "1"}).Outcome)
	assert.Equal(t, OutcomeValidationFailed, ValidationFailed(ValidationMessage{Field: "title"}).Outcome)
	assert.Equal(t, OutcomeStorageFailed, StorageFailed(assert.AnError).Outcome)
	assert.Equal(t, "validation_failed", OutcomeValidationFailed.String())
}

func Test_StatsOf_CountsDistinctAuthors(t *testing.T) {
	stats := StatsOf([]Book{
		{Title: "Dune", Author: "Frank Herbert"},
		{Title: "Dune Messiah", Author: " frank herbert"},
		{Title: "Emma", Author: "Jane Austen"},
	})

	assert.Equal(t, Stats{NumberOfBooks: 3, NumberOfAuthors: 2}, stats)
	assert.Equal(t, Stats{}, StatsOf(nil))
}
