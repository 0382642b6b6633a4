package repositories

import (
	"context"
)

// UnitOfWork runs repository calls atomically
type UnitOfWork interface {
	// Do executes fn inside a transaction carried by the context passed to it.
	// Any error returned by fn rolls the transaction back.
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
