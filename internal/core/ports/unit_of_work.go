package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a backend transaction boundary. Repositories obtained from it
// after Begin run inside the transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	BatchRepository() BatchRepository
	OrderRepository() OrderRepository
	NavigationPayloadRepository() NavigationPayloadRepository
}
