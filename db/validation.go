package db

import (
	"errors"
	"fmt"
	"strings"

	"books/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type bookRules struct {
	Title  string `validate:"required"`
	Author string `validate:"required"`
	Year   string `validate:"omitempty,number,max=4"`
}

// validateBook merges fields onto existing and checks the result. The year
// is checked on its submitted text so that non-numeric input is reported
// instead of silently dropped.
func validateBook(existing models.Book, fields models.BookFields) (models.Book, []models.ValidationMessage) {
	book := fields.ApplyTo(existing)

	year := existing.YearString()
	if fields.Year != nil {
		year = strings.TrimSpace(*fields.Year)
	}

	err := validate.Struct(bookRules{
		Title:  strings.TrimSpace(book.Title),
		Author: strings.TrimSpace(book.Author),
		Year:   year,
	})
	if err == nil {
		return book, nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return book, []models.ValidationMessage{{Message: err.Error()}}
	}

	messages := make([]models.ValidationMessage, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		messages = append(messages, models.ValidationMessage{
			Field:   strings.ToLower(fieldError.Field()),
			Message: messageFor(fieldError),
		})
	}

	return book, messages
}

func messageFor(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return fmt.Sprintf("Please provide a value for %q", fieldError.Field())
	case "number":
		return fmt.Sprintf("%q must be a whole number", fieldError.Field())
	case "max":
		return fmt.Sprintf("%q must have at most %s digits", fieldError.Field(), fieldError.Param())
	default:
		return fmt.Sprintf("%q is invalid", fieldError.Field())
	}
}
