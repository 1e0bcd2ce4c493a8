package models

import "fmt"

type Outcome int

const (
	OutcomeOk Outcome = iota
	OutcomeValidationFailed
	OutcomeStorageFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOk:
		return "ok"
	case OutcomeValidationFailed:
		return "validation_failed"
	case OutcomeStorageFailed:
		return "storage_failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

type ValidationMessage struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the outcome of a mutating store call. Exactly one of Book,
// Messages or Err is meaningful, selected by Outcome.
type Result struct {
	Outcome  Outcome
	Book     Book
	Messages []ValidationMessage
	Err      error
}

func Ok(book Book) Result {
	return Result{Outcome: OutcomeOk, Book: book}
}

func ValidationFailed(messages ...ValidationMessage) Result {
	return Result{Outcome: OutcomeValidationFailed, Messages: messages}
}

func StorageFailed(err error) Result {
	return Result{Outcome: OutcomeStorageFailed, Err: err}
}
