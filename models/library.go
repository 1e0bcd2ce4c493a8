package models

import "context"

type Id string

// Library is the book store every backend implements. Validation of
// submitted fields happens inside the store: Create and Update report it
// through the Result variant rather than through an error value.
type Library interface {
	FindAll(ctx context.Context) ([]Book, error)
	FindByPk(ctx context.Context, id Id) (Book, bool, error)
	Create(ctx context.Context, fields BookFields) Result
	Build(fields BookFields) Book
	Update(ctx context.Context, existing Book, fields BookFields) Result
	Destroy(ctx context.Context, existing Book) error
}

// Pinger is implemented by stores that can report backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}
