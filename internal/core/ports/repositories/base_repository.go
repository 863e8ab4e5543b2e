package repositories

import "context"

// TransactionManager runs a unit of work atomically.
type TransactionManager interface {
	// WithinTransaction executes fn inside a database transaction carried by the
	// context passed to fn. The transaction commits when fn returns nil and rolls
	// back otherwise. Nested calls join the outer transaction.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
