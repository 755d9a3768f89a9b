// Package commands contains the operations that change backend state:
// accepting and declining offers and requesting status changes.
// Every handler validates its command, runs inside a unit of work and only
// applies a change to its in-memory projection after the backend confirmed it.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

type (
	// TxManager handles the backend transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	BatchRepoFactory interface {
		BatchRepository() ports.BatchRepository
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	NavigationRepoFactory interface {
		NavigationPayloadRepository() ports.NavigationPayloadRepository
	}

	// BatchUoW is used by commands that change a batch.
	BatchUoW interface {
		TxManager
		BatchRepoFactory
	}

	BatchUoWFactory interface {
		Create() BatchUoW
	}

	// OrderUoW is used by commands that change a single delivery.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// NavigationUoW stores navigation payloads. It runs in its own
	// transaction so a storage failure never undoes an acceptance.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   err = uow.NavigationPayloadRepository().Save(ctx, payload)
	//   err = uow.Commit(ctx)
	NavigationUoW interface {
		TxManager
		NavigationRepoFactory
	}

	NavigationUoWFactory interface {
		Create() NavigationUoW
	}
)
