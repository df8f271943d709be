package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/tuhmaz/edu/internal/db"
	"github.com/tuhmaz/edu/internal/tenant"
)

// TxFn runs against repositories bound to one transaction
type TxFn func(ctx context.Context, repos *Repositories) error

// Store hands out repositories scoped to a single partition.
// Nothing it returns can reach another partition.
type Store interface {
	Repositories(conn tenant.Connection) (*Repositories, error)
	WithTransaction(ctx context.Context, conn tenant.Connection, fn TxFn) error
}

// PartitionStore is the Store backed by the partition registry
type PartitionStore struct {
	registry *db.Registry
}

// NewPartitionStore creates a new PartitionStore
func NewPartitionStore(registry *db.Registry) *PartitionStore {
	return &PartitionStore{registry: registry}
}

// Repositories returns pool-backed repositories of conn
func (s *PartitionStore) Repositories(conn tenant.Connection) (*Repositories, error) {
	pg, err := s.registry.Get(conn)
	if err != nil {
		return nil, err
	}
	return NewRepositories(pg.Pool), nil
}

// WithTransaction runs fn in one transaction on conn
func (s *PartitionStore) WithTransaction(ctx context.Context, conn tenant.Connection, fn TxFn) error {
	pg, err := s.registry.Get(conn)
	if err != nil {
		return err
	}
	return pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, NewRepositories(tx))
	})
}
